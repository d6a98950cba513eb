package passage

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore serves passage lookups out of a local Badger database
// built once from the snapshot, so large corpora are not re-parsed on
// every boot. Lookup semantics match Store: a missing id is ErrNotFound.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens a passage database previously built by BuildBadger.
func OpenBadger(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// BuildBadger populates a Badger database at dir from the JSONL snapshot.
func BuildBadger(snapshotPath, dir string) error {
	store, err := LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open badger store: %w", err)
	}
	defer db.Close()

	batch := db.NewWriteBatch()
	defer batch.Cancel()

	for id, text := range store.texts {
		if err := batch.Set([]byte(id), []byte(text)); err != nil {
			return fmt.Errorf("stage passage %q: %w", id, err)
		}
	}
	if err := batch.Flush(); err != nil {
		return fmt.Errorf("flush passages: %w", err)
	}
	return nil
}

// Get resolves a passage id.
func (s *BadgerStore) Get(id string) (string, error) {
	var text string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			text = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", fmt.Errorf("passage %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("passage %q: %w", id, err)
	}
	return text, nil
}

// Len returns the number of stored passages.
func (s *BadgerStore) Len() int {
	count := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Close releases the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
