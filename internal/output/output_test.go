package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_Status(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Status("→", "indexing")
	assert.Equal(t, "→ indexing\n", buf.String())
}

func TestWriter_StatusWithoutIcon(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Status("", "detail line")
	assert.Equal(t, "   detail line\n", buf.String())
}

func TestWriter_SuccessAndError(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Successf("indexed %d items", 3)
	w.Errorf("reindex failed: %s", "catalog locked")

	out := buf.String()
	assert.Contains(t, out, "✅ indexed 3 items")
	assert.Contains(t, out, "❌ reindex failed: catalog locked")
}
