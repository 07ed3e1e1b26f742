package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/output"
)

func newReindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the catalog",
		Long: `Read every catalog item, embed its display text, and rebuild the
vector index and metadata pair. The new pair replaces the old one
atomically; searches in flight keep the old pair until the swap.

Run this after any catalog change for search results to reflect it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := output.New(cmd.OutOrStdout())

			a, err := setupApp(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			out.Status("→", "rebuilding index from catalog...")
			count, err := a.Reindex(ctx)
			if err != nil {
				return err
			}

			out.Successf("indexed %d items", count)
			return nil
		},
	}
}
