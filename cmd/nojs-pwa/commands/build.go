package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-pwa/internal/app"
	"github.com/vcrobe/nojs-pwa/internal/build"
	"github.com/vcrobe/nojs-pwa/serviceworker"
)

func buildCmd(e *env) *cobra.Command {
	var wasm, out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Assemble the deployable site from a compiled main.wasm",
		Long: `Assemble the deployable site from a compiled main.wasm.

Compile the app first:

  GOOS=js GOARCH=wasm go build -o main.wasm ./cmd/web
  cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" .

service_worker.mode and service_worker.script are written into index.html,
and the worker is emitted at service_worker.script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := e.cfg.Build
			if wasm != "" {
				cfg.Wasm = wasm
			}
			if out != "" {
				cfg.OutDir = out
			}

			mode, err := serviceworker.ParseMode(e.cfg.ServiceWorker.Mode)
			if err != nil {
				return err
			}

			b := build.New(build.Options{
				OutDir:      cfg.OutDir,
				Wasm:        cfg.Wasm,
				WasmExec:    cfg.WasmExec,
				Styles:      cfg.Styles,
				PublicDir:   cfg.PublicDir,
				Title:       e.cfg.App.Name,
				Description: e.cfg.App.Description,
				Manifest:    e.cfg.WebManifest(),
				Workbox:     e.cfg.ServiceWorker.Workbox,
				Chunks:      app.Chunks(),

				WorkerMode:   mode,
				WorkerScript: e.cfg.ServiceWorker.Script,
			}, e.logger)

			res, err := b.Build(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, f := range res.Files {
				fmt.Fprintln(w, f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&wasm, "wasm", "", "compiled app (overrides build.wasm)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (overrides build.out_dir)")
	return cmd
}
