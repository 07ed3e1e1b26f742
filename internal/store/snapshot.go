package store

import (
	"sync/atomic"
)

// Snapshot is an immutable (vector index, metadata) pair produced by one
// reindex pass. Ordinal i in Index corresponds to Records[i]. A snapshot
// is never mutated after construction; the reindex job builds a new one
// off to the side and publishes it whole.
type Snapshot struct {
	Index   *VectorIndex
	Records []Record
}

// NewSnapshot pairs an index with its ordinal-aligned records.
func NewSnapshot(index *VectorIndex, records []Record) *Snapshot {
	return &Snapshot{Index: index, Records: records}
}

// Handle publishes the live snapshot to concurrent readers. The swap is
// a single atomic pointer store, so a reader always observes a fully-old
// or fully-new pair, never a new index joined against stale metadata.
type Handle struct {
	ptr atomic.Pointer[Snapshot]
}

// NewHandle returns an empty handle; Snapshot() returns nil until the
// first Publish.
func NewHandle() *Handle {
	return &Handle{}
}

// Snapshot returns the current live pair, or nil if no index has been
// built or loaded yet.
func (h *Handle) Snapshot() *Snapshot {
	return h.ptr.Load()
}

// Publish replaces the live pair. Only the reindex job (or startup
// loading) calls this.
func (h *Handle) Publish(s *Snapshot) {
	h.ptr.Store(s)
}

// Ready reports whether a snapshot has been published.
func (h *Handle) Ready() bool {
	return h.ptr.Load() != nil
}
