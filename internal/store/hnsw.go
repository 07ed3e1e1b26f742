package store

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"

	"github.com/cafeops/cortado/internal/embed"
)

// OrdinalNone is the sentinel ordinal for "no candidate" slots when a
// search returns fewer than k neighbors. Callers must skip it.
const OrdinalNone = -1

// HNSW parameters, coder/hnsw recommendations.
const (
	hnswM        = 16
	hnswEfSearch = 20
	hnswMl       = 0.25
)

// VectorIndex holds normalized vectors addressable by build-time ordinal
// and supports top-k inner-product search. An index is built once by the
// reindex job and never mutated afterward; ordinal i corresponds to
// Record i in the metadata built in the same pass.
type VectorIndex struct {
	mu     sync.RWMutex
	graph  *hnsw.Graph[uint64]
	dims   int
	count  int
	closed bool
}

// NewVectorIndex creates an empty index for vectors of the given dimension.
func NewVectorIndex(dims int) (*VectorIndex, error) {
	if dims <= 0 {
		return nil, fmt.Errorf("dimensions must be positive, got %d", dims)
	}

	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = hnswM
	graph.EfSearch = hnswEfSearch
	graph.Ml = hnswMl

	return &VectorIndex{
		graph: graph,
		dims:  dims,
	}, nil
}

// Add appends vectors to the index, assigning ordinals sequentially.
// Vectors are copied and L2-normalized so inner product equals cosine
// similarity at search time.
func (x *VectorIndex) Add(vectors [][]float32) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return fmt.Errorf("index is closed")
	}

	for _, v := range vectors {
		if len(v) != x.dims {
			return fmt.Errorf("dimension mismatch: expected %d, got %d", x.dims, len(v))
		}

		vec := embed.NormalizeVector(v)
		x.graph.Add(hnsw.MakeNode(uint64(x.count), vec))
		x.count++
	}

	return nil
}

// Search finds the k nearest neighbors by inner product on normalized
// vectors. It returns parallel score and ordinal slices of length k;
// slots beyond the number of neighbors found carry OrdinalNone, matching
// the contract of flat inner-product indexes.
func (x *VectorIndex) Search(query []float32, k int) ([]float32, []int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return nil, nil, fmt.Errorf("index is closed")
	}
	if len(query) != x.dims {
		return nil, nil, fmt.Errorf("dimension mismatch: expected %d, got %d", x.dims, len(query))
	}
	if k < 1 {
		return nil, nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	scores := make([]float32, k)
	ordinals := make([]int, k)
	for i := range ordinals {
		ordinals[i] = OrdinalNone
	}

	if x.count == 0 {
		return scores, ordinals, nil
	}

	normalized := embed.NormalizeVector(query)
	nodes := x.graph.Search(normalized, k)

	for i, node := range nodes {
		if i >= k {
			break
		}
		// Cosine distance ranges 0..2; 1-distance restores the inner
		// product of the normalized pair, in [-1, 1].
		scores[i] = 1.0 - x.graph.Distance(normalized, node.Value)
		ordinals[i] = int(node.Key)
	}

	return scores, ordinals, nil
}

// Count returns the number of vectors in the index.
func (x *VectorIndex) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.count
}

// Dimensions returns the vector dimension.
func (x *VectorIndex) Dimensions() int {
	return x.dims
}

// Save persists the index to disk using a temp file plus rename so a
// crash mid-write never corrupts the previous index.
func (x *VectorIndex) Save(path string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.closed {
		return fmt.Errorf("index is closed")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create index directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create index file: %w", err)
	}

	if err := x.graph.Export(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("export graph: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close index file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename index file: %w", err)
	}

	return nil
}

// LoadVectorIndex loads a previously saved index from disk.
// dims must match the dimension the index was built with.
func LoadVectorIndex(path string, dims int) (*VectorIndex, error) {
	x, err := NewVectorIndex(dims)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open index file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// bufio.Reader because hnsw Import requires io.ByteReader.
	reader := bufio.NewReader(file)
	if err := x.graph.Import(reader); err != nil {
		return nil, fmt.Errorf("import graph: %w", err)
	}

	x.count = x.graph.Len()
	return x, nil
}

// Close releases resources.
func (x *VectorIndex) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil
	}
	x.closed = true
	x.graph = nil
	return nil
}
