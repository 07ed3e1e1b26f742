package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userMsg(content string) Message {
	return Message{Role: RoleUser, Content: content, Timestamp: time.Now()}
}

func TestMemoryStore_NewSessionGetsUniqueIDs(t *testing.T) {
	s := NewMemoryStore(0, 0)

	a := s.NewSession()
	b := s.NewSession()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, s.Len())
}

func TestMemoryStore_AppendAndHistory(t *testing.T) {
	s := NewMemoryStore(0, 0)
	id := s.NewSession()

	s.Append(id, userMsg("any tumblers?"))
	s.Append(id, Message{Role: RoleAssistant, Content: "Try the RM79.00 Tumbler."})

	history := s.History(id)
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "any tumblers?", history[0].Content)
	assert.Equal(t, RoleAssistant, history[1].Role)
}

func TestMemoryStore_AppendCreatesUnknownSession(t *testing.T) {
	s := NewMemoryStore(0, 0)

	s.Append("client-chosen-id", userMsg("hello"))

	assert.Equal(t, 1, s.Len())
	assert.Len(t, s.History("client-chosen-id"), 1)
}

func TestMemoryStore_UnknownSessionHasEmptyHistory(t *testing.T) {
	s := NewMemoryStore(0, 0)

	assert.Empty(t, s.History("nope"))
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_HistoryBounded(t *testing.T) {
	s := NewMemoryStore(0, 3)
	id := s.NewSession()

	for i := 0; i < 5; i++ {
		s.Append(id, userMsg(fmt.Sprintf("message %d", i)))
	}

	history := s.History(id)
	require.Len(t, history, 3)
	// Oldest messages were dropped.
	assert.Equal(t, "message 2", history[0].Content)
	assert.Equal(t, "message 4", history[2].Content)
}

func TestMemoryStore_SessionCountBounded(t *testing.T) {
	s := NewMemoryStore(2, 0)

	first := s.NewSession()
	s.Append(first, userMsg("oldest"))
	second := s.NewSession()
	third := s.NewSession()

	assert.Equal(t, 2, s.Len())
	// The oldest session was evicted, newer ones survive.
	assert.Empty(t, s.History(first))
	_ = second
	_ = third
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore(0, 0)
	id := s.NewSession()
	s.Append(id, userMsg("hi"))

	s.Delete(id)

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.History(id))

	// Deleting twice is a no-op.
	s.Delete(id)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0, 0)
	id := s.NewSession()
	s.Append(id, userMsg("original"))

	history := s.History(id)
	history[0].Content = "mutated"

	assert.Equal(t, "original", s.History(id)[0].Content)
}
