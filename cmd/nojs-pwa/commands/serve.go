package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-pwa/internal/server"
)

func serveCmd(e *env) *cobra.Command {
	var addr, dir string
	var metrics bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a built site with PWA headers and deep-link fallback",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg.Server
			if addr != "" {
				cfg.Addr = addr
			}
			if dir != "" {
				cfg.Dir = dir
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Metrics = metrics
			}
			if _, err := os.Stat(cfg.Dir); err != nil {
				return err
			}

			srv := server.New(os.DirFS(cfg.Dir), server.Options{
				Addr:            cfg.Addr,
				Metrics:         cfg.Metrics,
				ReadTimeout:     cfg.ReadTimeout.Std(),
				ShutdownTimeout: cfg.ShutdownTimeout.Std(),
				WorkerScript:    e.cfg.ServiceWorker.Script,
			}, e.logger)
			return srv.ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "site directory (overrides server.dir)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "expose /metrics (overrides server.metrics)")
	return cmd
}
