package rag

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafeops/cortado/internal/errors"
	"github.com/cafeops/cortado/internal/llm"
	"github.com/cafeops/cortado/internal/store"
)

// fakeGenerator records the prompt it was given and replies with a
// canned response.
type fakeGenerator struct {
	lastPrompt string
	response   *llm.Response
	failErr    error
	calls      int
}

func (f *fakeGenerator) Invoke(_ context.Context, prompt string) (*llm.Response, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.failErr != nil {
		return nil, f.failErr
	}
	return f.response, nil
}

func (f *fakeGenerator) ModelName() string              { return "fake-model" }
func (f *fakeGenerator) Available(context.Context) bool { return true }
func (f *fakeGenerator) Close() error                   { return nil }

func TestSummarizer_EmbedsQueryAndContextVerbatim(t *testing.T) {
	gen := &fakeGenerator{response: &llm.Response{Text: "Try the Tumbler at RM79.00."}}
	s := NewSummarizer(gen, nil)

	summary, err := s.Summarize(context.Background(), "any tumblers?", "Product: Tumbler, Price: RM79.00")
	require.NoError(t, err)
	assert.Equal(t, "Try the Tumbler at RM79.00.", summary)

	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.lastPrompt, "User Request: any tumblers?")
	assert.Contains(t, gen.lastPrompt, "Product: Tumbler, Price: RM79.00")
}

func TestSummarizer_NormalizesBlockResponses(t *testing.T) {
	gen := &fakeGenerator{response: &llm.Response{
		Blocks: []llm.ContentBlock{
			{Type: "text", Text: "The SS2 outlet"},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "is at 1 Jalan SS2."},
		},
	}}
	s := NewSummarizer(gen, nil)

	summary, err := s.Summarize(context.Background(), "where is SS2?", "Outlet: SS2")
	require.NoError(t, err)
	assert.Equal(t, "The SS2 outlet is at 1 Jalan SS2.", summary)
}

func TestSummarizer_CollaboratorFailureStaysOpaque(t *testing.T) {
	gen := &fakeGenerator{failErr: fmt.Errorf("upstream exploded: secret internals")}
	s := NewSummarizer(gen, nil)

	_, err := s.Summarize(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeGenerationFailed, errors.GetCode(err))
	// The caller-facing message never carries collaborator error text.
	assert.NotContains(t, err.Error(), "secret internals")
}

func TestSummarizer_TimeoutIsRetryable(t *testing.T) {
	gen := &fakeGenerator{failErr: fmt.Errorf("execute request: %w", context.DeadlineExceeded)}
	s := NewSummarizer(gen, nil)

	_, err := s.Summarize(context.Background(), "q", "ctx")
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeTimeout, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestPipeline_Ask(t *testing.T) {
	records := []store.Record{
		{ItemType: store.ItemTypeProduct, ItemIndex: 1, Text: "Product: Tumbler, Category: Drinkware, Price: RM79.00"},
	}
	handle := store.NewHandle()
	handle.Publish(testSnapshot(t, records))

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"tumbler": {1, 0, 0, 0},
	}}
	gen := &fakeGenerator{response: &llm.Response{Text: "The Tumbler is RM79.00."}}

	p := NewPipeline(
		NewRetriever(embedder, handle, nil),
		NewContextAssembler(),
		NewSummarizer(gen, nil),
		nil,
	)

	answer, err := p.Ask(context.Background(), "tumbler", 5)
	require.NoError(t, err)
	assert.Equal(t, "tumbler", answer.Query)
	assert.Equal(t, "The Tumbler is RM79.00.", answer.Summary)
	require.Len(t, answer.Hits, 1)
	assert.Equal(t, records[0], answer.Hits[0].Meta)
}

func TestPipeline_NoHitsSkipsGeneration(t *testing.T) {
	// An empty index yields only sentinel ordinals.
	idx, err := store.NewVectorIndex(4)
	require.NoError(t, err)
	handle := store.NewHandle()
	handle.Publish(store.NewSnapshot(idx, nil))

	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"unicorn merchandise": {1, 0, 0, 0},
	}}
	gen := &fakeGenerator{response: &llm.Response{Text: "should never be used"}}

	p := NewPipeline(
		NewRetriever(embedder, handle, nil),
		NewContextAssembler(),
		NewSummarizer(gen, nil),
		nil,
	)

	answer, err := p.Ask(context.Background(), "unicorn merchandise", 5)
	require.NoError(t, err)
	assert.Equal(t, NoResultsAnswer, answer.Summary)
	assert.Empty(t, answer.Hits)
	assert.Equal(t, 0, gen.calls, "generator must not be invoked on empty retrieval")
}

func TestPipeline_PropagatesRetrieverErrors(t *testing.T) {
	handle := store.NewHandle()
	p := NewPipeline(
		NewRetriever(&fakeEmbedder{}, handle, nil),
		NewContextAssembler(),
		NewSummarizer(&fakeGenerator{}, nil),
		nil,
	)

	_, err := p.Ask(context.Background(), strings.Repeat(" ", 3), 5)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeQueryEmpty, errors.GetCode(err))
}
