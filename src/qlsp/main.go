package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uber/qchat-lsp/src/qlsp/app"
	lsplifecycle "github.com/uber/qchat-lsp/src/qlsp/controller/lsp-lifecycle"
	"github.com/uber/qchat-lsp/src/qlsp/internal/core"
	"go.uber.org/fx"
)

// _version is set at build time with -ldflags "-X main._version=<version>".
var _version = "dev"

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func installOpts(ctrl *lsplifecycle.Controller) fx.Option {
	return fx.Options(
		app.InstallModule,
		fx.NopLogger,
		fx.Populate(ctrl),
	)
}

func newRootCmd() *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:     "qlsp",
		Short:   "Shared daemon that connects IDEs to the Amazon Q language server",
		Version: _version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configDir == "" {
				return nil
			}
			return os.Setenv(core.ConfigDirEnv, configDir)
		},
		RunE: runServe,
		Args: cobra.NoArgs,
	}
	cmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding meta.yaml, overrides $"+core.ConfigDirEnv)

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the daemon until it is asked to exit or stays idle",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Resolve the language server installation and print it as JSON",
		Args:  cobra.NoArgs,
		RunE:  runInstall,
	})

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	// New to Fx? Brush up at https://uber-go.github.io/fx/.
	fx.New(opts()).Run()
	return nil
}

func runInstall(cmd *cobra.Command, args []string) error {
	var ctrl lsplifecycle.Controller
	if err := fx.New(installOpts(&ctrl)).Err(); err != nil {
		return fmt.Errorf("building install command: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	install, err := ctrl.GetInstallation(ctx)
	if err != nil {
		return fmt.Errorf("resolving installation: %w", err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(install)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
