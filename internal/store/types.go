// Package store provides the persistence layer: the SQLite catalog
// database, the HNSW vector index, and the ordinal-aligned metadata
// sidecar the retrieval pipeline joins against.
package store

// ItemType classifies catalog items.
type ItemType string

const (
	ItemTypeProduct ItemType = "product"
	ItemTypeOutlet  ItemType = "outlet"
	ItemTypeFood    ItemType = "food"
	ItemTypeDrink   ItemType = "drink"
)

// ItemTypes lists all item types in the canonical reindex order.
// The order matters only for reindex determinism, not for ranking.
var ItemTypes = []ItemType{ItemTypeProduct, ItemTypeOutlet, ItemTypeFood, ItemTypeDrink}

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeProduct, ItemTypeOutlet, ItemTypeFood, ItemTypeDrink:
		return true
	}
	return false
}

// Item is a catalog record (a product, outlet, food, or drink).
// The retrieval path never mutates items; only CRUD operations do.
type Item struct {
	ID       int64    `json:"id"` // source-of-truth primary key
	Type     ItemType `json:"type"`
	Name     string   `json:"name"`
	Category string   `json:"category,omitempty"`
	Price    string   `json:"price,omitempty"`   // display string, e.g. "RM79.00"; empty for outlets
	Address  string   `json:"address,omitempty"` // outlets only
	Link     string   `json:"link,omitempty"`    // product page URL, or maps URL for outlets
}

// Record is a denormalized snapshot of an Item taken at reindex time.
// Record i describes the vector at ordinal i in the index built in the
// same pass; the two are swapped together, never independently.
// Records may go stale relative to the live catalog until the next
// reindex runs; that staleness window is accepted.
type Record struct {
	ItemType  ItemType `json:"item_type"`  // item type at build time
	ItemIndex int64    `json:"item_index"` // catalog item id at build time
	Text      string   `json:"text"`       // the exact string that was embedded
}

// Hit is one search result: a similarity score paired with the metadata
// record of the matched ordinal. Never persisted.
type Hit struct {
	Score float32 `json:"score"`
	Meta  Record  `json:"doc"`
}
