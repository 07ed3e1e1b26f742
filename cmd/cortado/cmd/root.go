// Package cmd provides the CLI commands for Cortado.
package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/app"
	"github.com/cafeops/cortado/internal/config"
	"github.com/cafeops/cortado/internal/logging"
	"github.com/cafeops/cortado/pkg/version"
)

// Persistent flags shared by all subcommands.
var (
	configPath     string
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the cortado CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cortado",
		Short: "Retrieval-augmented assistant for the ZUS Coffee catalog",
		Long: `Cortado answers free-text questions about the product and outlet
catalog by embedding the query, retrieving nearest neighbors from a
local vector index, and summarizing the matches with a local LLM.

A second path translates questions into constrained SQL SELECT
statements executed read-only against the catalog database.

Run 'cortado reindex' once after loading catalog data, then ask away.`,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.SetVersionTemplate("cortado version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <data_dir>/cortado.yaml)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.cortado/logs/")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newAskCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newReindexCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newItemsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging installs the debug logger when requested.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	logger, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		return err
	}
	loggingCleanup = cleanup
	slog.SetDefault(logger)
	slog.Info("debug logging enabled", "log_file", logging.DefaultLogPath())
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupApp loads configuration and constructs the application context.
// Callers must Close the returned App.
func setupApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, slog.Default())
}
