// Package llm wraps the generation collaborator used for answer
// summarization and SQL generation.
//
// Upstream response shapes are not stable: depending on provider and
// version a completion arrives as a flat string, an object with a
// content string, or a list of typed content blocks. Response models
// this as a tagged union and ExtractText is the single normalization
// point.
package llm

import (
	"context"
	"strings"
)

// BlockTypeText tags content blocks that carry answer text. Other block
// kinds (tool calls, thinking traces) are ignored during extraction.
const BlockTypeText = "text"

// ContentBlock is one element of a block-structured completion.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Response is the tagged union of completion shapes a provider may return.
// Exactly one of Text or Blocks is populated.
type Response struct {
	// Text holds a flat-string or content-string completion.
	Text string

	// Blocks holds a block-structured completion.
	Blocks []ContentBlock
}

// ExtractText normalizes a Response to plain answer text.
//
// Flat text is returned as-is (trimmed). Block lists are reduced to the
// text of every block tagged as a text block, joined with single spaces.
func ExtractText(r *Response) string {
	if r == nil {
		return ""
	}

	if r.Blocks == nil {
		return strings.TrimSpace(r.Text)
	}

	var parts []string
	for _, block := range r.Blocks {
		if block.Type != BlockTypeText {
			continue
		}
		parts = append(parts, block.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Generator produces a completion for a prompt.
type Generator interface {
	// Invoke sends the prompt to the model and returns its response.
	// Implementations make exactly one upstream call per invocation.
	Invoke(ctx context.Context, prompt string) (*Response, error)

	// ModelName returns the model identifier.
	ModelName() string

	// Available checks if the generator is ready.
	Available(ctx context.Context) bool

	// Close releases resources.
	Close() error
}
