// Package commands contains the Cobra commands of the obratrack CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/obra-tracker/cmd/obratrack/internal/clierr"
	"github.com/nhle/obra-tracker/internal/logging"
	"github.com/nhle/obra-tracker/internal/model"
	"github.com/nhle/obra-tracker/internal/store"
)

// NewRootCmd constructs the obratrack root Cobra command. Running it
// without a subcommand opens the dashboard.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("OBRATRACK_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "obratrack",
		Short:         "Construction schedule tracker",
		Long:          "obratrack tracks construction milestones from the GIRON and ERM workbooks, flags delays and their impacts, and stores user-entered planned and actual dates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, "")
		},
	}

	cmd.PersistentFlags().String("config", model.DefaultConfigPath(), "path to config.yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of obratrack",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "obratrack version %s\n", version)
		},
	})

	cmd.AddCommand(newTUICmd())
	cmd.AddCommand(newReportCmd())
	cmd.AddCommand(newSegmentsCmd())
	cmd.AddCommand(newOverrideCmd())
	cmd.AddCommand(newImportLegacyCmd())
	cmd.AddCommand(newExportLegacyCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCredentialCmd())

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return clierr.Usage(err)
	})

	return cmd
}

// env bundles what most commands need. Close releases the store and
// flushes the logger.
type env struct {
	cfg   *model.AppConfig
	log   *zap.Logger
	store store.OverrideStore
}

func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Warn("closing store", zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// loadConfig reads the file named by --config.
func loadConfig(cmd *cobra.Command) (*model.AppConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeUsage, "loading config", err)
	}
	return cfg, nil
}

// openEnv loads the configuration, the logger and the override store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, clierr.Wrap(clierr.CodeRuntime, "starting logger", err)
	}
	s, err := store.Open(cfg.Store)
	if err != nil {
		_ = log.Sync()
		return nil, clierr.Wrap(clierr.CodeRuntime, "opening override store", err)
	}
	log.Debug("environment ready",
		zap.String("store_backend", cfg.Store.Backend),
		zap.String("store_path", cfg.Store.Path))
	return &env{cfg: cfg, log: log, store: s}, nil
}

// usageArgs makes argument validation failures exit with the usage code.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return clierr.Usage(err)
		}
		return nil
	}
}
