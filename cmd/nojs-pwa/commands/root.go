package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-pwa/config"
	"github.com/vcrobe/nojs-pwa/internal/logging"
)

// env is the state shared by every subcommand after the root pre-run.
type env struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

// Execute runs the CLI with os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRoot().ExecuteContext(ctx)
}

// NewRoot builds the command tree.
func NewRoot() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:          "nojs-pwa",
		Short:        "Build and serve an installable Go/WASM app",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return nil
			}
			cfg, err := config.Load(e.configPath)
			if err != nil {
				return err
			}
			if e.logLevel != "" {
				cfg.Log.Level = e.logLevel
			}
			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log)
			if err != nil {
				return err
			}
			e.cfg, e.logger = cfg, logger
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&e.configPath, "config", "c", "", "config file (default ./"+config.DefaultFile+")")
	root.PersistentFlags().StringVar(&e.logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	root.AddCommand(initCmd(e), buildCmd(e), serveCmd(e), manifestCmd(e))
	return root
}
