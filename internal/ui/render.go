package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cafeops/cortado/internal/app"
	"github.com/cafeops/cortado/internal/nlsql"
	"github.com/cafeops/cortado/internal/rag"
)

// Renderer writes human-readable command output.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer. noColor disables styling.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	styles := DefaultStyles()
	if noColor {
		styles = NoColorStyles()
	}
	return &Renderer{w: w, styles: styles}
}

// RenderAnswer prints the summary followed by the supporting hits.
func (r *Renderer) RenderAnswer(answer *rag.Answer) {
	fmt.Fprintln(r.w, r.styles.Answer.Render(answer.Summary))

	if len(answer.Hits) == 0 {
		return
	}

	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.Label.Render("Sources:"))
	for _, hit := range answer.Hits {
		fmt.Fprintf(r.w, "  %s %s\n",
			r.styles.Score.Render(fmt.Sprintf("%.3f", hit.Score)),
			hit.Meta.Text)
	}
}

// RenderSQLResult prints the generated statement and the result rows.
func (r *Renderer) RenderSQLResult(result *nlsql.Result) {
	fmt.Fprintln(r.w, r.styles.SQL.Render(result.GeneratedSQL))
	fmt.Fprintln(r.w)

	if result.Count == 0 {
		fmt.Fprintln(r.w, r.styles.Dim.Render("No rows."))
		return
	}

	for i, row := range result.Results {
		fields := make([]string, 0, len(row))
		for _, col := range sortedColumns(row) {
			fields = append(fields, fmt.Sprintf("%s=%v", col, row[col]))
		}
		fmt.Fprintf(r.w, "%s %s\n",
			r.styles.Label.Render(fmt.Sprintf("%d.", i+1)),
			strings.Join(fields, "  "))
	}
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.styles.Dim.Render(fmt.Sprintf("%d row(s)", result.Count)))
}

// RenderStatus prints index readiness and models.
func (r *Renderer) RenderStatus(st *app.IndexStatus) {
	label := r.styles.Success
	if st.Status != "ready" {
		label = r.styles.Warning
	}
	fmt.Fprintf(r.w, "%s %s\n", r.styles.Header.Render("Status:"), label.Render(st.Status))
	fmt.Fprintf(r.w, "%s %d\n", r.styles.Header.Render("Embeddings:"), st.TotalEmbeddings)
	fmt.Fprintf(r.w, "%s %v\n", r.styles.Header.Render("Index file:"), st.IndexFileExists)
	fmt.Fprintf(r.w, "%s %v\n", r.styles.Header.Render("Meta file:"), st.MetaFileExists)
	fmt.Fprintf(r.w, "%s %s\n", r.styles.Header.Render("Embed model:"), st.EmbedModel)
	fmt.Fprintf(r.w, "%s %s\n", r.styles.Header.Render("LLM model:"), st.LLMModel)
}

// sortedColumns returns the row's column names with id and name first,
// the rest alphabetical, so output order is stable across rows.
func sortedColumns(row map[string]any) []string {
	preferred := []string{"id", "name"}
	cols := make([]string, 0, len(row))
	for _, p := range preferred {
		if _, ok := row[p]; ok {
			cols = append(cols, p)
		}
	}
	rest := make([]string, 0, len(row))
	for col := range row {
		if col == "id" || col == "name" {
			continue
		}
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(cols, rest...)
}
