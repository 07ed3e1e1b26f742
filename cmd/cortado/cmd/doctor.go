package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/config"
	"github.com/cafeops/cortado/internal/embed"
	"github.com/cafeops/cortado/internal/llm"
	"github.com/cafeops/cortado/internal/preflight"
)

func newDoctorCmd() *cobra.Command {
	var (
		verbose    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose the local environment",
		Long: `Doctor checks the data directory, catalog database, persisted index
pair, and collaborator reachability, and reports anything that would
keep queries from working.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			target := preflight.Target{
				DataDir:      cfg.Paths.DataDir,
				DatabasePath: cfg.Paths.DatabasePath,
				IndexPath:    cfg.Paths.IndexPath,
				MetaPath:     cfg.Paths.MetaPath,
			}

			// Construction is kept offline so the probe itself is what
			// talks to Ollama; failures show up as check results, not
			// startup errors.
			if cfg.Embeddings.Provider == "" || cfg.Embeddings.Provider == "ollama" {
				embedder, err := embed.NewOllamaEmbedder(ctx, embed.OllamaConfig{
					Host:            cfg.Embeddings.OllamaHost,
					Model:           cfg.Embeddings.Model,
					Dimensions:      cfg.Embeddings.Dimensions,
					Timeout:         cfg.Embeddings.Timeout,
					SkipHealthCheck: true,
				})
				if err != nil {
					return err
				}
				defer func() { _ = embedder.Close() }()
				target.Embedder = embedder
			}

			generator := llm.NewOllamaGenerator(llm.Config{
				Host:    cfg.LLM.OllamaHost,
				Model:   cfg.LLM.Model,
				Timeout: cfg.LLM.Timeout,
			})
			defer func() { _ = generator.Close() }()
			target.Generator = generator

			checker := preflight.New(
				preflight.WithVerbose(verbose),
				preflight.WithOutput(cmd.OutOrStdout()),
			)
			results := checker.RunAll(ctx, target)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(map[string]any{
					"status": checker.SummaryStatus(results),
					"checks": results,
				}); err != nil {
					return err
				}
			} else {
				checker.PrintResults(results)
			}

			if checker.HasCriticalFailures(results) {
				return fmt.Errorf("environment check failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show check details")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
