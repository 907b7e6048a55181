package metadata

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// BadgerRepository keeps pairs in an embedded BadgerDB, prefixed so the
// database can be shared with other key spaces.
type BadgerRepository struct {
	db     *badger.DB
	prefix []byte
}

const badgerPrefix = "meta/"

// OpenBadger opens (or creates) a BadgerDB at dir with synchronous writes.
// An empty dir opens an in-memory database, which is only useful in tests.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.SyncWrites = true
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return db, nil
}

func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db, prefix: []byte(badgerPrefix)}
}

func (r *BadgerRepository) key(k string) []byte {
	return append(append([]byte(nil), r.prefix...), k...)
}

func (r *BadgerRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(r.key(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata[%s]: %w", key, err)
	}
	return value, nil
}

func (r *BadgerRepository) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(r.key(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}

func (r *BadgerRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(r.key(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete metadata[%s]: %w", key, err)
	}
	return nil
}
