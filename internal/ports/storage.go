// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

// HistoryStore persists a log of generate outcomes.
// The backing store (bbolt) assigns each entry a monotonically increasing ID.
// Writes must be transactional: a crash mid-write cannot lose earlier entries.
type HistoryStore interface {
	// Record appends an entry and returns its assigned ID.
	Record(entry *HistoryEntry) (uint64, error)

	// List returns up to limit entries, newest first. limit <= 0 means all.
	List(limit int) ([]*HistoryEntry, error)

	// Clear removes all entries. Idempotent.
	Clear() error
}

// HistoryEntry is one recorded generate request.
type HistoryEntry struct {
	ID      uint64 `json:"id"`
	Input   string `json:"input"`
	Derived bool   `json:"derived"`
	File    string `json:"file,omitempty"`
	Format  string `json:"format"`
	Engine  string `json:"engine,omitempty"`
	Nodes   int    `json:"nodes"`
	Edges   int    `json:"edges"`
	At      int64  `json:"at"` // unix seconds
}
