package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

// CatalogStore persists catalog items and the embedding_metadata table
// in SQLite. Reads of the live catalog and read-only SQL execution go
// through a separate read-only connection pool, so a translated
// statement can never write even if it slipped past the safety gate.
type CatalogStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	roDB   *sql.DB
	path   string
	closed bool
}

// itemTable maps an item type to its table name.
func itemTable(t ItemType) (string, error) {
	switch t {
	case ItemTypeProduct:
		return "products", nil
	case ItemTypeOutlet:
		return "outlets", nil
	case ItemTypeFood:
		return "food", nil
	case ItemTypeDrink:
		return "drinks", nil
	}
	return "", fmt.Errorf("unknown item type: %q", t)
}

// NewCatalogStore opens (creating if necessary) the catalog database.
// If path is empty an in-memory database is used (tests).
func NewCatalogStore(path string) (*CatalogStore, error) {
	dsn := path
	if path == "" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer to prevent lock contention.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL must be set via PRAGMA for modernc.org/sqlite; DSN params are
	// not honored.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	s := &CatalogStore{
		db:   db,
		path: path,
	}

	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	if err := s.openReadOnly(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// openReadOnly opens the read-only pool used for translated SQL.
// In-memory databases (tests) reuse the main handle, since a second
// connection would see a different database.
func (s *CatalogStore) openReadOnly() error {
	if s.path == "" {
		s.roDB = s.db
		return nil
	}

	roDB, err := sql.Open("sqlite", s.path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("open read-only handle: %w", err)
	}
	roDB.SetMaxOpenConns(2)
	if _, err := roDB.Exec("PRAGMA query_only = ON"); err != nil {
		_ = roDB.Close()
		return fmt.Errorf("set query_only pragma: %w", err)
	}

	s.roDB = roDB
	return nil
}

// initSchema creates the catalog tables.
func (s *CatalogStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		category TEXT,
		price    TEXT,
		link     TEXT
	);

	CREATE TABLE IF NOT EXISTS outlets (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		category TEXT,
		address  TEXT,
		maps_url TEXT
	);

	CREATE TABLE IF NOT EXISTS food (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		category TEXT,
		price    TEXT,
		link     TEXT
	);

	CREATE TABLE IF NOT EXISTS drinks (
		id       INTEGER PRIMARY KEY AUTOINCREMENT,
		name     TEXT NOT NULL,
		category TEXT,
		price    TEXT,
		link     TEXT
	);

	-- Resolves vector index ordinals back to display text. Rebuilt
	-- wholesale by each reindex pass; row order mirrors ordinal order.
	CREATE TABLE IF NOT EXISTS embedding_metadata (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		item_type  TEXT NOT NULL,
		item_index INTEGER NOT NULL,
		text       TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// AddItem inserts a catalog item and sets its ID.
func (s *CatalogStore) AddItem(ctx context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	table, err := itemTable(item.Type)
	if err != nil {
		return err
	}

	var res sql.Result
	if item.Type == ItemTypeOutlet {
		res, err = s.db.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name, category, address, maps_url) VALUES (?, ?, ?, ?)", table),
			item.Name, item.Category, item.Address, item.Link)
	} else {
		res, err = s.db.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (name, category, price, link) VALUES (?, ?, ?, ?)", table),
			item.Name, item.Category, item.Price, item.Link)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", item.Type, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	item.ID = id
	return nil
}

// UpdateItem updates an existing catalog item by ID.
func (s *CatalogStore) UpdateItem(ctx context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	table, err := itemTable(item.Type)
	if err != nil {
		return err
	}

	var res sql.Result
	if item.Type == ItemTypeOutlet {
		res, err = s.db.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET name = ?, category = ?, address = ?, maps_url = ? WHERE id = ?", table),
			item.Name, item.Category, item.Address, item.Link, item.ID)
	} else {
		res, err = s.db.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET name = ?, category = ?, price = ?, link = ? WHERE id = ?", table),
			item.Name, item.Category, item.Price, item.Link, item.ID)
	}
	if err != nil {
		return fmt.Errorf("update %s: %w", item.Type, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", item.Type, item.ID)
	}
	return nil
}

// DeleteItem removes a catalog item by type and ID.
func (s *CatalogStore) DeleteItem(ctx context.Context, t ItemType, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	table, err := itemTable(t)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", table), id)
	return err
}

// ListItems returns all items of one type ordered by ID.
func (s *CatalogStore) ListItems(ctx context.Context, t ItemType) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	return s.listItemsLocked(ctx, t)
}

func (s *CatalogStore) listItemsLocked(ctx context.Context, t ItemType) ([]*Item, error) {
	table, err := itemTable(t)
	if err != nil {
		return nil, err
	}

	var query string
	if t == ItemTypeOutlet {
		query = fmt.Sprintf("SELECT id, name, category, address, maps_url FROM %s ORDER BY id", table)
	} else {
		query = fmt.Sprintf("SELECT id, name, category, price, link FROM %s ORDER BY id", table)
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		item := &Item{Type: t}
		var category, a, b sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &category, &a, &b); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		item.Category = category.String
		if t == ItemTypeOutlet {
			item.Address = a.String
			item.Link = b.String
		} else {
			item.Price = a.String
			item.Link = b.String
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// AllItems returns every catalog item across all types, in the canonical
// reindex order (type order, then ID order within a type).
func (s *CatalogStore) AllItems(ctx context.Context) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	var all []*Item
	for _, t := range ItemTypes {
		items, err := s.listItemsLocked(ctx, t)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}

// CountItems returns the number of items of one type.
func (s *CatalogStore) CountItems(ctx context.Context, t ItemType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	table, err := itemTable(t)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count)
	return count, err
}

// ReplaceEmbeddingMetadata replaces the embedding_metadata table contents
// with the given records, in ordinal order, inside one transaction.
func (s *CatalogStore) ReplaceEmbeddingMetadata(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("store is closed")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM embedding_metadata"); err != nil {
		return fmt.Errorf("clear embedding_metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO embedding_metadata (item_type, item_index, text) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, string(r.ItemType), r.ItemIndex, r.Text); err != nil {
			return fmt.Errorf("insert metadata record: %w", err)
		}
	}

	return tx.Commit()
}

// EmbeddingMetadataCount returns the number of embedding_metadata rows.
func (s *CatalogStore) EmbeddingMetadataCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fmt.Errorf("store is closed")
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embedding_metadata").Scan(&count)
	return count, err
}

// ExecuteSelect runs a statement against the read-only connection and
// materializes every row as a column-name-to-value map. The caller is
// responsible for having gated the statement; this method only supplies
// the read-only execution environment.
func (s *CatalogStore) ExecuteSelect(ctx context.Context, query string) ([]map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := s.roDB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// The driver returns TEXT columns as []byte; convert for
			// JSON-friendly output.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}

// Close closes both connection pools.
func (s *CatalogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.roDB != nil && s.roDB != s.db {
		_ = s.roDB.Close()
	}
	return s.db.Close()
}
