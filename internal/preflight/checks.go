package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cafeops/cortado/internal/store"
)

// CheckDataDir verifies the data directory exists (or can be created)
// and is writable.
func (c *Checker) CheckDataDir(dataDir string) CheckResult {
	result := CheckResult{
		Name:     "Data directory",
		Required: true,
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		result.Status = StatusFail
		result.Message = "cannot create data directory"
		result.Details = err.Error()
		return result
	}

	probe := filepath.Join(dataDir, ".preflight")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		result.Status = StatusFail
		result.Message = "data directory is not writable"
		result.Details = err.Error()
		return result
	}
	_ = os.Remove(probe)

	result.Status = StatusPass
	result.Message = dataDir
	return result
}

// CheckCatalog opens the catalog database read-write and reports item
// counts. A missing database is created empty, so this only fails on
// corruption or permission problems.
func (c *Checker) CheckCatalog(ctx context.Context, path string) CheckResult {
	result := CheckResult{
		Name:     "Catalog database",
		Required: true,
	}

	catalog, err := store.NewCatalogStore(path)
	if err != nil {
		result.Status = StatusFail
		result.Message = "cannot open catalog database"
		result.Details = err.Error()
		return result
	}
	defer func() { _ = catalog.Close() }()

	total := 0
	for _, t := range store.ItemTypes {
		n, err := catalog.CountItems(ctx, t)
		if err != nil {
			result.Status = StatusFail
			result.Message = "catalog query failed"
			result.Details = err.Error()
			return result
		}
		total += n
	}

	result.Status = StatusPass
	result.Message = fmt.Sprintf("%d items", total)
	if total == 0 {
		result.Status = StatusWarn
		result.Message = "catalog is empty; add items and run reindex"
	}
	return result
}

// CheckIndexPair verifies the persisted index and metadata files agree.
// Missing files are a warning, not an error: the pair is rebuilt by the
// next reindex.
func (c *Checker) CheckIndexPair(indexPath, metaPath string) CheckResult {
	result := CheckResult{
		Name: "Index pair",
	}

	_, indexErr := os.Stat(indexPath)
	_, metaErr := os.Stat(metaPath)

	switch {
	case indexErr != nil && metaErr != nil:
		result.Status = StatusWarn
		result.Message = "no persisted index; run 'cortado reindex'"
	case indexErr != nil || metaErr != nil:
		result.Status = StatusWarn
		result.Message = "index and metadata files are out of step; run 'cortado reindex'"
	default:
		records, err := store.LoadRecords(metaPath)
		if err != nil {
			result.Status = StatusWarn
			result.Message = "metadata file unreadable; run 'cortado reindex'"
			result.Details = err.Error()
			break
		}
		result.Status = StatusPass
		result.Message = fmt.Sprintf("%d records", len(records))
	}

	return result
}

// CheckCollaborator probes an external collaborator's reachability.
// Failures are non-critical: the embedder can fall back to the static
// provider and SQL queries still work without retrieval.
func (c *Checker) CheckCollaborator(ctx context.Context, name string, collab Collaborator) CheckResult {
	result := CheckResult{
		Name: name,
	}

	if collab.Available(ctx) {
		result.Status = StatusPass
		result.Message = collab.ModelName()
	} else {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("%s is not reachable", collab.ModelName())
		result.Details = "is Ollama running? (ollama serve)"
	}
	return result
}
