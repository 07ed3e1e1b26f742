package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/ui"
)

func newStatusCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show index readiness and configured models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := setupApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			st := a.Status(ctx)

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}

			ui.NewRenderer(cmd.OutOrStdout(), ui.DetectNoColor()).RenderStatus(st)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
