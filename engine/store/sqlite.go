package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
)

// SQLite persists values in a single-table SQLite database. Safe for
// concurrent use within one process; database/sql serializes access.
type SQLite struct {
	db         *sql.DB
	suppressID bool
	config     map[string]any
}

// NewSQLite opens (creating if needed) the database at path and
// prepares the store table. Unless suppressed, the backend id is
// assigned on first open and reused afterwards.
func NewSQLite(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	s := applyBackendOptions(opts)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open store database %q: %w", path, err)
	}
	const ddl = `CREATE TABLE IF NOT EXISTS store (key TEXT PRIMARY KEY, value BLOB NOT NULL)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store database %q: %w", path, err)
	}
	b := &SQLite{db: db, suppressID: s.suppressID, config: configSnapshot("sqlite", s)}
	if !s.suppressID {
		if err := b.ensureBackendID(ctx, s.manualID); err != nil {
			db.Close()
			return nil, err
		}
	}
	return b, nil
}

func (b *SQLite) ensureBackendID(ctx context.Context, manual string) error {
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

func (b *SQLite) Close() error {
	return b.db.Close()
}

func (b *SQLite) Get(ctx context.Context, key Key) ([]byte, error) {
	var value []byte
	row := b.db.QueryRowContext(ctx, `SELECT value FROM store WHERE key = ?`, key.encode())
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &core.InvalidKeyError{Key: key.String()}
		}
		return nil, fmt.Errorf("failed to read key %q: %w", key.String(), err)
	}
	return value, nil
}

func (b *SQLite) Set(ctx context.Context, key Key, value []byte) error {
	const upsert = `INSERT INTO store (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := b.db.ExecContext(ctx, upsert, key.encode(), value); err != nil {
		return fmt.Errorf("failed to write key %q: %w", key.String(), err)
	}
	return nil
}

func (b *SQLite) Move(ctx context.Context, source, dest Key) error {
	value, err := b.Get(ctx, source)
	if err != nil {
		return err
	}
	if err := b.Set(ctx, dest, value); err != nil {
		return err
	}
	return b.Remove(ctx, source)
}

func (b *SQLite) Remove(ctx context.Context, key Key) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM store WHERE key = ?`, key.encode())
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key.String(), err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to remove key %q: %w", key.String(), err)
	}
	if affected == 0 {
		return &core.InvalidKeyError{Key: key.String()}
	}
	return nil
}

func (b *SQLite) Has(ctx context.Context, key Key) (bool, error) {
	var one int
	row := b.db.QueryRowContext(ctx, `SELECT 1 FROM store WHERE key = ?`, key.encode())
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check key %q: %w", key.String(), err)
	}
	return true, nil
}

func (b *SQLite) List(ctx context.Context, prefix Key) ([]Key, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT key FROM store`)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()
	var keys []Key
	for rows.Next() {
		var encoded string
		if err := rows.Scan(&encoded); err != nil {
			return nil, fmt.Errorf("failed to list keys: %w", err)
		}
		key := decodeKey(encoded)
		if len(key) == 1 && key[0] == BackendIDKey {
			continue
		}
		if key.HasPrefix(prefix) {
			keys = append(keys, key)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

func (b *SQLite) BackendID(ctx context.Context) (string, error) {
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
func (b *SQLite) Config() map[string]any {
	return b.config
}
