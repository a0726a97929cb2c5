package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"image-labeler/core/browser"
	"image-labeler/core/config"
	"image-labeler/core/loader"
	"image-labeler/core/logger"
	"image-labeler/core/server"
	"image-labeler/feature/static"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "image-labeler",
	Short: "Launch the Image Labeling Tool web server",
	Long: `Image Labeler serves the browser-based image labeling tool from a local
directory and opens it in your default browser.`,
	Example: `  image-labeler                    # Start on default port 8080
  image-labeler --port 8000        # Start on port 8000
  image-labeler --no-browser       # Don't open browser automatically
  image-labeler --host 0.0.0.0     # Allow external connections
  image-labeler --dir ./web        # Serve the app from ./web`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig(".", cmd.Flags())
		if err != nil {
			return err
		}

		return run(ctx, cfg, cmd.OutOrStdout(), browser.NewSystem())
	},
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 timestamps
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error(failureMessage(err), zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(RootCmd.Flags())
}

// run validates the configuration, binds the server, prints the banner and
// serves until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, out io.Writer, opener browser.Opener) error {
	// Fail before any socket is opened
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	srv := server.New(cfg.Server, logg)

	mgr := loader.NewManager(logg)
	mgr.Register(static.NewFeature(cfg.Server.Root, logg))
	if err := mgr.LoadAll(srv.App()); err != nil {
		return fmt.Errorf("%w: %w", server.ErrStartup, err)
	}

	if err := srv.Listen(); err != nil {
		return err
	}

	printBanner(out, cfg.Server)

	if cfg.Server.OpenBrowser {
		fmt.Fprintln(out, "Opening browser...")
		fmt.Fprintln(out)
		// Some launchers stay in the foreground until the browser exits
		go browser.TryOpen(opener, cfg.Server.URL(), logg)
	}

	if err := srv.Serve(ctx); err != nil {
		return err
	}

	printShutdown(out)
	return nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, server.ErrInvalidPortRange):
		return "Invalid port"
	case errors.Is(err, server.ErrPortInUse):
		return "Port already in use"
	case errors.Is(err, server.ErrStartup):
		return "Error starting server"
	default:
		return "Command failed"
	}
}
