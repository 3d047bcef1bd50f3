package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "transfer:"

// Record is what the journal keeps about one transfer call.
type Record struct {
	ID         string    `json:"id"`
	Op         string    `json:"op"`
	Target     string    `json:"target"`
	Status     string    `json:"status"`
	Code       int       `json:"code"`
	Message    string    `json:"message"`
	Bytes      int64     `json:"bytes"`
	Checksum   string    `json:"checksum,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration of the call.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store wraps BadgerDB for journal operations.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a journal at the given path.
func Open(dbPath string) (*Store, error) {
	return open(badger.DefaultOptions(dbPath))
}

// OpenInMemory opens a journal that lives only as long as the process.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put stores a record, replacing any record with the same id.
func (s *Store) Put(rec Record) error {
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	val, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+rec.ID), val)
	})
}

// Get retrieves a record by id.
func (s *Store) Get(id string) (Record, error) {
	var rec Record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	return rec, err
}

// List returns every record, oldest first.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, badger.ErrKeyNotFound)
}
