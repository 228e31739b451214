// Package buffer persists task mutations locally while Postgres is
// unreachable, so offline edits survive a restart and replay in order.
package buffer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Store is a BoltDB-backed FIFO of pending task mutations. Keys embed the
// priority and enqueue time, so a cursor walk yields items in replay order:
// most urgent first, oldest first within a priority.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open creates or reopens the buffer file and its bucket. The parent
// directory is created on demand so a fresh deployment can boot without
// provisioning steps.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "buffer"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, bucket: []byte(bucket)}, nil
}

// Enqueue appends one mutation to the buffer.
func (s *Store) Enqueue(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	item.normalize()
	item.bucketKey = replayKey(item)

	payload, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(item.bucketKey, payload)
	})
}

// GetBatch reads up to limit items in replay order without consuming them;
// the caller removes each item once it has been applied.
func (s *Store) GetBatch(limit int) ([]Item, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(s.bucket).Cursor()
		for k, v := cursor.First(); k != nil && len(items) < limit; k, v = cursor.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil {
				// A corrupt entry is unreadable forever; skip it here,
				// Cleanup will eventually drop it by age.
				continue
			}
			item.bucketKey = append([]byte(nil), k...)
			items = append(items, item)
		}
		return nil
	})
	return items, err
}

// Remove consumes an item, matching by key when the item came from GetBatch
// and by ID otherwise.
func (s *Store) Remove(item Item) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucket)
		if len(item.bucketKey) > 0 {
			return bucket.Delete(item.bucketKey)
		}
		if item.ID == "" {
			return nil
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var stored Item
			if err := json.Unmarshal(v, &stored); err != nil {
				continue
			}
			if stored.ID == item.ID {
				return cursor.Delete()
			}
		}
		return nil
	})
}

// Requeue pushes a failed item to the back of its priority band by stamping
// it with the current time.
func (s *Store) Requeue(item Item) error {
	item.bucketKey = nil
	item.Timestamp = time.Now()
	return s.Enqueue(item)
}

// Size reports how many mutations are waiting.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Cleanup drops items enqueued before the cutoff. Stale mutations are more
// likely to clobber fresher server state than to help.
func (s *Store) Cleanup(olderThan time.Time) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(s.bucket).Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var item Item
			if err := json.Unmarshal(v, &item); err != nil || item.Timestamp.Before(olderThan) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Close releases the underlying Bolt file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func replayKey(item Item) []byte {
	return []byte(fmt.Sprintf("%d_%020d_%s", item.Priority, item.Timestamp.UnixNano(), item.ID))
}
