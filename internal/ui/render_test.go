package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cafeops/cortado/internal/app"
	"github.com/cafeops/cortado/internal/nlsql"
	"github.com/cafeops/cortado/internal/rag"
	"github.com/cafeops/cortado/internal/store"
)

func TestRenderer_RenderAnswer(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderAnswer(&rag.Answer{
		Query:   "tumbler",
		Summary: "The Tumbler is RM79.00.",
		Hits: []store.Hit{
			{Score: 0.91, Meta: store.Record{Text: "Product: Tumbler, Category: Drinkware, Price: RM79.00"}},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "The Tumbler is RM79.00.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "0.910")
	assert.Contains(t, out, "Product: Tumbler")
}

func TestRenderer_RenderAnswerWithoutHits(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderAnswer(&rag.Answer{Summary: rag.NoResultsAnswer})

	assert.Contains(t, buf.String(), rag.NoResultsAnswer)
	assert.NotContains(t, buf.String(), "Sources:")
}

func TestRenderer_RenderSQLResult(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderSQLResult(&nlsql.Result{
		GeneratedSQL: "SELECT name, address FROM outlets LIMIT 50",
		Results: []map[string]any{
			{"name": "Ampang Outlet", "address": "2 Jalan Ampang", "id": int64(2)},
		},
		Count: 1,
	})

	out := buf.String()
	assert.Contains(t, out, "SELECT name, address FROM outlets LIMIT 50")
	// id and name lead the row, remaining columns alphabetical.
	assert.Contains(t, out, "id=2  name=Ampang Outlet  address=2 Jalan Ampang")
	assert.Contains(t, out, "1 row(s)")
}

func TestRenderer_RenderSQLResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderSQLResult(&nlsql.Result{GeneratedSQL: "SELECT * FROM outlets LIMIT 50"})

	assert.Contains(t, buf.String(), "No rows.")
}

func TestRenderer_RenderStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf, true)

	r.RenderStatus(&app.IndexStatus{
		Status:          "ready",
		TotalEmbeddings: 42,
		IndexFileExists: true,
		MetaFileExists:  true,
		EmbedModel:      "embeddinggemma",
		LLMModel:        "qwen3:4b",
	})

	out := buf.String()
	assert.Contains(t, out, "ready")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "embeddinggemma")
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}
