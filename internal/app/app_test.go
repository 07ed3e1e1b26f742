package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeops/cortado/internal/config"
	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/store"
)

// fakeOllama serves canned /api/generate responses and counts calls.
type fakeOllama struct {
	*httptest.Server
	reply         string
	generateCalls int
}

func newFakeOllama(t *testing.T, reply string) *fakeOllama {
	t.Helper()
	f := &fakeOllama{reply: reply}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/generate", func(w http.ResponseWriter, _ *http.Request) {
		f.generateCalls++
		_ = json.NewEncoder(w).Encode(map[string]any{"response": f.reply, "done": true})
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

func testConfig(t *testing.T, llmHost string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = dir
	cfg.Paths.DatabasePath = filepath.Join(dir, "catalog.db")
	cfg.Paths.IndexPath = filepath.Join(dir, "vectors.hnsw")
	cfg.Paths.MetaPath = filepath.Join(dir, "vectors.meta")
	cfg.Embeddings.Provider = "static"
	cfg.LLM.OllamaHost = llmHost
	return cfg
}

func newTestApp(t *testing.T, reply string) (*App, *fakeOllama) {
	t.Helper()
	fake := newFakeOllama(t, reply)
	a, err := New(context.Background(), testConfig(t, fake.URL), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, fake
}

func seedCatalog(t *testing.T, a *App) {
	t.Helper()
	ctx := context.Background()
	items := []*store.Item{
		{Type: store.ItemTypeProduct, Name: "Stainless Tumbler", Category: "Drinkware", Price: "RM79.00"},
		{Type: store.ItemTypeOutlet, Name: "SS2 Outlet", Category: "Petaling Jaya", Address: "1 Jalan SS2"},
		{Type: store.ItemTypeOutlet, Name: "Ampang Outlet", Category: "Kuala Lumpur", Address: "2 Jalan Ampang"},
	}
	for _, item := range items {
		require.NoError(t, a.Catalog().AddItem(ctx, item))
	}
}

func TestApp_SearchUnavailableBeforeReindex(t *testing.T) {
	a, _ := newTestApp(t, "irrelevant")

	_, err := a.Ask(context.Background(), "tumbler", 0, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeIndexNotReady, errors.GetCode(err))

	st := a.Status(context.Background())
	assert.Equal(t, "not_initialized", st.Status)
	assert.False(t, st.IndexFileExists)
}

func TestApp_ReindexThenAsk(t *testing.T) {
	a, fake := newTestApp(t, "The Stainless Tumbler costs RM79.00.")
	seedCatalog(t, a)

	ctx := context.Background()
	count, err := a.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	answer, err := a.Ask(ctx, "stainless tumbler drinkware", 0, "")
	require.NoError(t, err)
	assert.Equal(t, "The Stainless Tumbler costs RM79.00.", answer.Summary)
	assert.NotEmpty(t, answer.Hits)
	assert.Equal(t, 1, fake.generateCalls)

	st := a.Status(ctx)
	assert.Equal(t, "ready", st.Status)
	assert.Equal(t, 3, st.TotalEmbeddings)
	assert.True(t, st.IndexFileExists)
	assert.True(t, st.MetaFileExists)
}

func TestApp_AskRejectsExcessiveTopK(t *testing.T) {
	a, _ := newTestApp(t, "x")

	_, err := a.Ask(context.Background(), "q", a.Config().Search.MaxTopK+1, "")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidTopK, errors.GetCode(err))
}

func TestApp_AskRecordsSessionHistory(t *testing.T) {
	a, _ := newTestApp(t, "Try the Tumbler.")
	seedCatalog(t, a)

	ctx := context.Background()
	_, err := a.Reindex(ctx)
	require.NoError(t, err)

	id := a.Sessions().NewSession()
	_, err = a.Ask(ctx, "any tumblers?", 0, id)
	require.NoError(t, err)

	history := a.Sessions().History(id)
	require.Len(t, history, 2)
	assert.Equal(t, "any tumblers?", history[0].Content)
	assert.Equal(t, "Try the Tumbler.", history[1].Content)
}

func TestApp_QueryTranslatesAndExecutes(t *testing.T) {
	a, _ := newTestApp(t, "SELECT name, address FROM outlets WHERE name LIKE '%Ampang%' OR address LIKE '%Ampang%'")
	seedCatalog(t, a)

	result, err := a.Query(context.Background(), "is there an outlet in Ampang?")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	assert.Equal(t, "Ampang Outlet", result.Results[0]["name"])
	assert.Contains(t, result.GeneratedSQL, "LIMIT 50")
}

func TestApp_QueryRejectsDestructiveStatements(t *testing.T) {
	a, _ := newTestApp(t, "DROP TABLE outlets")
	seedCatalog(t, a)

	ctx := context.Background()
	_, err := a.Query(ctx, "please delete all outlets")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNotSelect, errors.GetCode(err))

	// The catalog is untouched.
	n, err := a.Catalog().CountItems(ctx, store.ItemTypeOutlet)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestApp_PersistedSnapshotLoadsOnRestart(t *testing.T) {
	fake := newFakeOllama(t, "x")
	cfg := testConfig(t, fake.URL)

	ctx := context.Background()
	first, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	seedCatalog(t, first)
	_, err = first.Reindex(ctx)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	// A fresh App over the same data dir is searchable immediately.
	second, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	st := second.Status(ctx)
	assert.Equal(t, "ready", st.Status)
	assert.Equal(t, 3, st.TotalEmbeddings)
}
