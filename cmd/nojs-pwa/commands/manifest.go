package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vcrobe/nojs-pwa/internal/build"
	"github.com/vcrobe/nojs-pwa/manifest"
)

func manifestCmd(e *env) *cobra.Command {
	var check bool
	var file string
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the web app manifest, or check a built one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			want := e.cfg.WebManifest()
			if !check {
				return want.Encode(cmd.OutOrStdout())
			}

			if file == "" {
				file = filepath.Join(e.cfg.Build.OutDir, build.ManifestFile)
			}
			got, err := manifest.ReadFile(file)
			if err != nil {
				return err
			}
			errs := []error{got.Validate()}
			if got.Name != want.Name {
				errs = append(errs, fmt.Errorf("name is %q, config says %q", got.Name, want.Name))
			}
			if got.ShortName != want.ShortName {
				errs = append(errs, fmt.Errorf("short_name is %q, config says %q", got.ShortName, want.ShortName))
			}
			if err := errors.Join(errs...); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", file)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "validate a built manifest against the config")
	cmd.Flags().StringVar(&file, "file", "", "manifest to check (default <build.out_dir>/manifest.json)")
	return cmd
}
