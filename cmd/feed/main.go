package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"blogfeed/internal/config"
	"blogfeed/internal/logging"
	"blogfeed/internal/posts"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiURL     string
	workspace  string
	timeout    time.Duration

	// Resolved by PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger

	// newLogger builds the stderr logger for subcommands.
	newLogger = func(verbose bool) (*zap.Logger, error) {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		return zcfg.Build()
	}
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "feed",
	Short: "feed - browse a blog's posts from the terminal",
	Long: `feed reads posts from a blog API.

Run without arguments to page through the newest posts interactively.
The list, show and post subcommands are meant for scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true, // main prints the error
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		var err error
		logger, err = newLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		ws, err := resolveWorkspace()
		if err != nil {
			return err
		}
		if err := loadConfig(cmd, ws); err != nil {
			return err
		}
		if err := logging.Initialize(ws, cfg.Logging.Settings()); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		logging.Boot("command %q against %s (config %s)", cmd.Name(), cfg.API.BaseURL, resolvedConfigPath(ws))
		logger.Debug("configuration resolved",
			zap.String("api", cfg.API.BaseURL),
			zap.String("timeout", cfg.API.Timeout),
			zap.String("config", resolvedConfigPath(ws)))
		return nil
	},
	RunE: runBrowser,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/.feed/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Blog API base URL (overrides config and FEED_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (0 keeps the configured value)")

	listCmd.Flags().IntVarP(&listPage, "page", "p", 1, "Page to fetch")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print the page as JSON")
	listCmd.Flags().BoolVar(&listTable, "table", false, "Print the page as a table")

	postCmd.Flags().StringVar(&postTitle, "title", "", "Post title (required)")
	postCmd.Flags().StringVar(&postBody, "body", "", "Post body")
	_ = postCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(postCmd)
}

func main() {
	os.Exit(run())
}

// run executes the CLI and returns the exit code. Cleanup runs whether or
// not the command failed.
func run() int {
	defer shutdownLogging()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func shutdownLogging() {
	logging.CloseAll()
	if logger != nil {
		_ = logger.Sync()
	}
}

func resolveWorkspace() (string, error) {
	if workspace != "" {
		return filepath.Abs(workspace)
	}
	ws, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve workspace: %w", err)
	}
	return ws, nil
}

func resolvedConfigPath(ws string) string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath(ws)
}

// loadConfig layers defaults, the config file, env and flags, in that order.
func loadConfig(cmd *cobra.Command, ws string) error {
	loaded, err := config.Load(resolvedConfigPath(ws))
	if err != nil {
		return err
	}
	if apiURL != "" {
		loaded.API.BaseURL = apiURL
	}
	if cmd.Flags().Changed("timeout") {
		loaded.API.Timeout = timeout.String()
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded
	return nil
}

func newClient() (*posts.Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return posts.NewClient(cfg.API.BaseURL, cfg.API.GetTimeout())
}

// signalContext is cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			if logger != nil {
				logger.Info("Received shutdown signal")
			}
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
