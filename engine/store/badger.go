package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
)

// Badger persists values in an embedded BadgerDB directory. Suited to
// larger stores where sqlite's single-file model gets in the way.
type Badger struct {
	db         *badger.DB
	suppressID bool
	config     map[string]any
}

// NewBadger opens (creating if needed) a BadgerDB store under dir.
// Unless suppressed, the backend id is assigned on first open and
// reused afterwards.
func NewBadger(ctx context.Context, dir string, opts ...Option) (*Badger, error) {
	s := applyBackendOptions(opts)
	badgerOpts := badger.DefaultOptions(filepath.Clean(dir))
	badgerOpts.Logger = nil
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database at %q: %w", dir, err)
	}
	b := &Badger{db: db, suppressID: s.suppressID, config: configSnapshot("badger", s)}
	if !s.suppressID {
		if err := b.ensureBackendID(ctx, s.manualID); err != nil {
			db.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *Badger) ensureBackendID(ctx context.Context, manual string) error {
	has, err := b.Has(ctx, Key{BackendIDKey})
	if err != nil {
		return err
	}
	if has && manual == "" {
		return nil
	}
	id := manual
	if id == "" {
		id = uuid.NewString()
	}
	return b.Set(ctx, Key{BackendIDKey}, []byte(id))
}

func (b *Badger) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close store database: %w", err)
	}
	return nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key.encode()))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, &core.InvalidKeyError{Key: key.String()}
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key.String(), err)
	}
	return value, nil
}

func (b *Badger) Set(_ context.Context, key Key, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key.encode()), value)
	})
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key.String(), err)
	}
	return nil
}

func (b *Badger) Move(_ context.Context, source, dest Key) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(source.encode()))
		if err != nil {
			return err
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(dest.encode()), value); err != nil {
			return err
		}
		return txn.Delete([]byte(source.encode()))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &core.InvalidKeyError{Key: source.String()}
		}
		return fmt.Errorf("failed to move key %q: %w", source.String(), err)
	}
	return nil
}

func (b *Badger) Remove(_ context.Context, key Key) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(key.encode())); err != nil {
			return err
		}
		return txn.Delete([]byte(key.encode()))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return &core.InvalidKeyError{Key: key.String()}
		}
		return fmt.Errorf("failed to remove key %q: %w", key.String(), err)
	}
	return nil
}

func (b *Badger) Has(_ context.Context, key Key) (bool, error) {
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key.encode()))
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check key %q: %w", key.String(), err)
	}
	return true, nil
}

func (b *Badger) List(_ context.Context, prefix Key) ([]Key, error) {
	var keys []Key
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			key := decodeKey(string(it.Item().KeyCopy(nil)))
			if len(key) == 1 && key[0] == BackendIDKey {
				continue
			}
			if key.HasPrefix(prefix) {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (b *Badger) BackendID(ctx context.Context) (string, error) {
	if b.suppressID {
		return "", nil
	}
	value, err := b.Get(ctx, Key{BackendIDKey})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// Config returns the falsy-filtered construction record.
func (b *Badger) Config() map[string]any {
	return b.config
}
