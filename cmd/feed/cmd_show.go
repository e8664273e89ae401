package main

import (
	"fmt"
	"strings"
	"time"

	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/posts"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// showCmd prints full posts
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Print one or more posts in full",
	Long: `Fetches the given posts concurrently and prints them in argument order.
The first failure aborts the whole command.

Example:
  feed show 42
  feed show 42 43 44`,
	Args: cobra.MinimumNArgs(1),
	RunE: showPosts,
}

func showPosts(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	fetched := make([]*posts.Post, len(args))
	g, gctx := errgroup.WithContext(ctx)
	for i, raw := range args {
		g.Go(func() error {
			p, err := client.GetPost(gctx, posts.ID(raw))
			if err != nil {
				return fmt.Errorf("post %s: %w", raw, err)
			}
			fetched[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("show failed", zap.Strings("ids", args), zap.Error(err))
		return err
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	renderer := markdownRenderer(styles.Theme, cfg.UI.WordWrap)
	now := time.Now()

	out := cmd.OutOrStdout()
	for i, p := range fetched {
		if i > 0 {
			fmt.Fprintln(out, styles.RenderDivider(max(cfg.UI.WordWrap, 1)))
		}
		fmt.Fprintln(out, renderPost(styles, renderer, p, now))
	}
	return nil
}

func renderPost(styles ui.Styles, r *glamour.TermRenderer, p *posts.Post, now time.Time) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(p.Title))
	sb.WriteString("\n")
	sb.WriteString(styles.AuthorBadge(p.Author))
	sb.WriteString("\n")
	sb.WriteString(styles.PostedLine(p.CreatedAt, now))
	sb.WriteString("\n")

	body := p.Body
	if r != nil {
		if rendered, err := r.Render(body); err == nil {
			body = strings.TrimRight(rendered, "\n")
		} else {
			logger.Warn("markdown render failed", zap.String("id", p.ID.String()), zap.Error(err))
		}
	}
	sb.WriteString(body)
	return sb.String()
}

func markdownRenderer(theme ui.Theme, wrap int) *glamour.TermRenderer {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStylePath(style)}
	if wrap > 0 {
		opts = append(opts, glamour.WithWordWrap(wrap))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil
	}
	return r
}
