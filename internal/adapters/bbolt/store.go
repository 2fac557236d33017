// Package bbolt implements the ports.HistoryStore interface using bbolt (embedded B+ tree).
// Entries live in a single "history" bucket keyed by the bucket sequence, so
// key order is insertion order. Values are JSON. Writes are transactional: a
// crash mid-write cannot corrupt previously committed entries.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/corey/derivtree/internal/ports"
	bolt "go.etcd.io/bbolt"
)

var bucketHistory = []byte("history")

// Store implements ports.HistoryStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

// NewStore opens (or creates) a bbolt database at the given path, creating
// the parent directory if needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("bbolt dir: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an entry, assigning entry.ID from the bucket sequence.
// A zero At is stamped with the current time.
func (s *Store) Record(entry *ports.HistoryEntry) (uint64, error) {
	if entry == nil {
		return 0, fmt.Errorf("nil history entry")
	}
	if entry.At == 0 {
		entry.At = time.Now().Unix()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketHistory)
		if err != nil {
			return err
		}
		id, err := b.NextSequence()
		if err != nil {
			return err
		}
		entry.ID = id
		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		return b.Put(encodeKey(id), data)
	})
	if err != nil {
		return 0, err
	}
	return entry.ID, nil
}

// List returns up to limit entries, newest first. limit <= 0 returns all.
// Returns nil, nil for an empty or fresh database.
func (s *Store) List(limit int) ([]*ports.HistoryEntry, error) {
	var out []*ports.HistoryEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketHistory)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			// json.Unmarshal copies, so v need not outlive the transaction.
			var e ports.HistoryEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("unmarshal history entry %d: %w", decodeKey(k), err)
			}
			out = append(out, &e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes all entries. Idempotent: clearing an empty store is not an error.
// The sequence restarts, so IDs are reused after a clear.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(bucketHistory)
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
}
