// Package nlsql translates natural-language questions into constrained
// SQL SELECT statements and executes them read-only against the catalog
// store. The translation is guarded: anything that does not begin with
// SELECT fails closed before touching the database.
package nlsql

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/llm"
)

// sqlPromptFormat names the one permitted table and its exact columns.
// The location rule matters: outlet names often carry the area ("ZUS
// Coffee Ampang"), so matching only the address column misses them.
const sqlPromptFormat = `You are a SQL expert. Convert the user's question into a SQLite query.
Table: outlets
Columns: id, name, category, address, maps_url

Rules:
1. Return ONLY the raw SQL query. No markdown, no explanations.
2. If the user asks for a location (like 'Ampang', 'PJ', 'KL'), you MUST check both 'name' AND 'address' columns.
3. Use the LIKE operator with %% wildcards for searching (e.g., address LIKE '%%Ampang%%').
4. Example: SELECT * FROM outlets WHERE name LIKE '%%Ampang%%' OR address LIKE '%%Ampang%%';
5. LIMIT the results to %d.

Question: %s
SQL:`

// DefaultMaxRows caps result sets when the caller does not specify one.
const DefaultMaxRows = 50

var (
	fenceRe     = regexp.MustCompile("(?i)```sql|```")
	selectGate  = regexp.MustCompile(`(?i)^select\b`)
	firstSelect = regexp.MustCompile(`(?is)\bselect\b.*?(;|$)`)
	limitRe     = regexp.MustCompile(`(?i)\blimit\b`)
)

// Executor runs a statement read-only and materializes the rows.
type Executor interface {
	ExecuteSelect(ctx context.Context, query string) ([]map[string]any, error)
}

// Result is the outcome of one translated and executed query.
type Result struct {
	GeneratedSQL string           `json:"generated_sql"`
	Results      []map[string]any `json:"results"`
	Count        int              `json:"count"`
}

// Translator generates, gates, and executes SQL for one question at a
// time. Terminal on first success or first safety failure.
type Translator struct {
	generator llm.Generator
	executor  Executor
	maxRows   int
	logger    *slog.Logger
}

// NewTranslator creates a translator. maxRows <= 0 falls back to
// DefaultMaxRows.
func NewTranslator(generator llm.Generator, executor Executor, maxRows int, logger *slog.Logger) *Translator {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		generator: generator,
		executor:  executor,
		maxRows:   maxRows,
		logger:    logger,
	}
}

// Query runs the full pipeline: generate, clean, extract, gate, inject
// the row limit, execute. The gate runs before any execution attempt;
// a rejected statement never reaches the store.
func (t *Translator) Query(ctx context.Context, question string) (*Result, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New(errors.ErrCodeQueryEmpty, "question must not be empty", nil)
	}

	prompt := fmt.Sprintf(sqlPromptFormat, t.maxRows, question)
	resp, err := t.generator.Invoke(ctx, prompt)
	if err != nil {
		t.logger.Error("sql generation failed", "model", t.generator.ModelName(), "error", err)
		return nil, errors.New(errors.ErrCodeGenerationFailed, "failed to process outlet search", err)
	}

	statement := cleanStatement(llm.ExtractText(resp))
	t.logger.Debug("generated sql", "sql", statement)

	if !selectGate.MatchString(statement) {
		t.logger.Warn("rejected generated statement", "sql", statement)
		return nil, errors.SafetyRejection("I can only perform search queries (SELECT), not modifications.")
	}

	statement = injectLimit(statement, t.maxRows)

	rows, err := t.executor.ExecuteSelect(ctx, statement)
	if err != nil {
		// Statements that pass the prefix gate can still be malformed;
		// the store's message goes back to the caller.
		return nil, errors.ExecutionError(fmt.Sprintf("Database error: %s", err), err)
	}

	return &Result{
		GeneratedSQL: statement,
		Results:      rows,
		Count:        len(rows),
	}, nil
}

// cleanStatement strips code fences the model may have emitted despite
// instructions, then keeps only the first SELECT statement: everything
// after the first terminator is discarded, which defends against
// multi-statement output and trailing commentary.
func cleanStatement(raw string) string {
	s := strings.TrimSpace(fenceRe.ReplaceAllString(raw, ""))

	if m := firstSelect.FindString(s); m != "" {
		s = m
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
}

// injectLimit appends a LIMIT clause when the statement has none.
// An existing LIMIT is left untouched; it is a soft limit, not a hard
// security boundary.
func injectLimit(statement string, maxRows int) string {
	if limitRe.MatchString(statement) {
		return statement
	}
	return fmt.Sprintf("%s LIMIT %d", statement, maxRows)
}
