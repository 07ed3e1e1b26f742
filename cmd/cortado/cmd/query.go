package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/ui"
)

func newQueryCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Translate a question into SQL and run it against the catalog",
		Long: `Ask the configured LLM to convert the question into a single
SELECT statement over the outlets table, then execute it read-only.

Anything that is not a SELECT statement is rejected before execution.

Examples:
  cortado query "is there an outlet in Ampang?"
  cortado query "how many outlets are in PJ?" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, strings.Join(args, " "), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runQuery(cmd *cobra.Command, question, format string) error {
	ctx := cmd.Context()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	result, err := a.Query(ctx, question)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	ui.NewRenderer(cmd.OutOrStdout(), ui.DetectNoColor()).RenderSQLResult(result)
	return nil
}
