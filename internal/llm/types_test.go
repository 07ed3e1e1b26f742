package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText_FlatString(t *testing.T) {
	r := &Response{Text: "  Here are two tumblers you might like.  "}
	assert.Equal(t, "Here are two tumblers you might like.", ExtractText(r))
}

func TestExtractText_BlockList(t *testing.T) {
	r := &Response{
		Blocks: []ContentBlock{
			{Type: "text", Text: "The Frozee Tumbler"},
			{Type: "tool_use", Text: "ignored"},
			{Type: "text", Text: "costs RM79.00."},
		},
	}
	assert.Equal(t, "The Frozee Tumbler costs RM79.00.", ExtractText(r))
}

func TestExtractText_OnlyNonTextBlocks(t *testing.T) {
	r := &Response{
		Blocks: []ContentBlock{
			{Type: "thinking", Text: "hmm"},
			{Type: "tool_use", Text: "call"},
		},
	}
	assert.Equal(t, "", ExtractText(r))
}

func TestExtractText_EmptyBlockListIsNotFlatText(t *testing.T) {
	// A present-but-empty block list means a block-shaped response with
	// no text blocks, not a flat-string response.
	r := &Response{Text: "should be ignored", Blocks: []ContentBlock{}}
	assert.Equal(t, "", ExtractText(r))
}

func TestExtractText_Nil(t *testing.T) {
	assert.Equal(t, "", ExtractText(nil))
}

func TestExtractText_TrimsJoinedBlocks(t *testing.T) {
	r := &Response{
		Blocks: []ContentBlock{
			{Type: "text", Text: "  padded  "},
		},
	}
	assert.Equal(t, "padded", ExtractText(r))
}
