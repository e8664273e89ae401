package main

import (
	"fmt"

	"blogfeed/internal/posts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	postTitle string
	postBody  string
)

// postCmd creates a post
var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Create a post",
	Long: `Submits a new post. The service's response body is discarded.

Example:
  feed post --title "Hello" --body "First post"`,
	Args: cobra.NoArgs,
	RunE: createPost,
}

func createPost(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	if err := client.CreatePost(ctx, posts.NewPost{Title: postTitle, Body: postBody}); err != nil {
		logger.Error("create failed", zap.String("title", postTitle), zap.Error(err))
		return err
	}
	logger.Info("post created", zap.String("title", postTitle))
	fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", postTitle)
	return nil
}
