package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerator_Invoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Contains(t, req.Prompt, "tumbler")

		_ = json.NewEncoder(w).Encode(generateResponse{
			Response: "SELECT * FROM outlets;",
			Done:     true,
		})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(Config{Host: srv.URL, Model: "test-model"})
	defer func() { _ = g.Close() }()

	resp, err := g.Invoke(context.Background(), "question about a tumbler")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM outlets;", ExtractText(resp))
}

func TestOllamaGenerator_ErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(Config{Host: srv.URL})
	_, err := g.Invoke(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllamaGenerator_TimeoutHonored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "late"})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(Config{Host: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := g.Invoke(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestOllamaGenerator_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(Config{Host: srv.URL})
	assert.True(t, g.Available(context.Background()))

	down := NewOllamaGenerator(Config{Host: "http://127.0.0.1:1"})
	assert.False(t, down.Available(context.Background()))
}
