package main

import (
	"context"
	"errors"

	"blogfeed/cmd/feed/browse"
	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/config"
	"blogfeed/internal/logging"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runBrowser launches the interactive feed browser.
func runBrowser(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	model := browse.New(client,
		browse.WithContext(ctx),
		browse.WithStyles(ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))),
		browse.WithWordWrap(cfg.UI.WordWrap),
	)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	ws, err := resolveWorkspace()
	if err != nil {
		return err
	}
	watchConfig(ctx, resolvedConfigPath(ws), p)

	logging.UI("browser started against %s", client.BaseURL())
	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// watchConfig restyles the running program whenever the config file changes.
// A missing config directory just means there is nothing to watch.
func watchConfig(ctx context.Context, path string, p *tea.Program) {
	w, err := config.NewWatcher(path)
	if err != nil {
		logger.Debug("config watch disabled", zap.String("path", path), zap.Error(err))
		return
	}
	go w.Run(ctx, func(next *config.Config, err error) {
		if err != nil {
			return
		}
		if err := logging.Reconfigure(next.Logging.Settings()); err != nil {
			// The terminal belongs to the browser; keep the old theme and move on.
			return
		}
		p.Send(browse.ConfigReloadedMsg{
			Theme:    next.UI.Theme,
			WordWrap: next.UI.WordWrap,
		})
	})
}
