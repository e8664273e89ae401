package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"blogfeed/cmd/feed/ui"
	"blogfeed/internal/posts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	listPage  int
	listJSON  bool
	listTable bool
)

// listCmd prints one page of previews
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of post previews",
	Long: `Fetches a single page of posts, newest first, and prints the previews.

Example:
  feed list
  feed list --page 3 --table
  feed list --json | jq '.[].title'`,
	Args: cobra.NoArgs,
	RunE: listPosts,
}

func listPosts(cmd *cobra.Command, args []string) error {
	if listPage < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", listPage)
	}
	if listJSON && listTable {
		return fmt.Errorf("--json and --table are mutually exclusive")
	}

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	items, err := client.ListPosts(ctx, listPage)
	if err != nil {
		logger.Error("list failed", zap.Int("page", listPage), zap.Error(err))
		return err
	}
	logger.Debug("page fetched", zap.Int("page", listPage), zap.Int("count", len(items)))

	out := cmd.OutOrStdout()
	if listJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode posts: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(out, posts.ErrNoMorePosts.Error())
		return nil
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	now := time.Now()
	if listTable {
		fmt.Fprint(out, ui.PostTable(fmt.Sprintf("Page %d", listPage), items, now).View(styles))
		return nil
	}

	cards := make([]string, 0, len(items)+1)
	cards = append(cards, styles.PageNav(listPage))
	for _, p := range items {
		cards = append(cards, styles.PostPreview(p, false, cfg.UI.WordWrap, now))
	}
	fmt.Fprintln(out, strings.Join(cards, "\n"))
	return nil
}
