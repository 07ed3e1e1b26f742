package store

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// SaveRecords persists the ordinal-aligned metadata records to a gob
// file using temp file plus rename, the same atomic-save pattern as the
// vector index.
func SaveRecords(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create metadata file: %w", err)
	}

	encoder := gob.NewEncoder(file)
	if err := encoder.Encode(records); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close metadata file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// LoadRecords loads metadata records from a gob file.
func LoadRecords(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var records []Record
	decoder := gob.NewDecoder(file)
	if err := decoder.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}

	return records, nil
}
