package cmd

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cafeops/cortado/internal/ui"
)

// askOptions holds CLI flags for ask.
type askOptions struct {
	topK    int
	session string
	format  string // "text", "json"
}

func newAskCmd() *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question against the indexed catalog",
		Long: `Embed the question, retrieve the nearest catalog entries from the
vector index, and summarize them with the configured LLM.

Examples:
  cortado ask "any stainless steel tumblers?"
  cortado ask "outlets in Petaling Jaya" --top-k 3
  cortado ask "cheapest drinkware" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 0, "Number of neighbors to retrieve (default from config)")
	cmd.Flags().StringVar(&opts.session, "session", "", "Session id to record the exchange under")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runAsk(cmd *cobra.Command, question string, opts askOptions) error {
	ctx := cmd.Context()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	answer, err := a.Ask(ctx, question, opts.topK, opts.session)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	ui.NewRenderer(cmd.OutOrStdout(), ui.DetectNoColor()).RenderAnswer(answer)
	return nil
}
