package store

import (
	"context"
	"strings"
)

// BackendIDKey is the reserved key each backend stores its identity
// under. It never appears in List results and cannot be set or removed
// through the Backend interface.
const BackendIDKey = ".gx_store_backend_id"

// keySep joins key segments in flat storage. Unit separator keeps
// segment boundaries unambiguous for segments containing slashes.
const keySep = "\x1f"

// Key addresses a stored value. Keys are ordered segment tuples so
// stores can namespace values (e.g. {"suites", name}) and list by
// prefix.
type Key []string

func (k Key) String() string {
	return strings.Join(k, "/")
}

func (k Key) encode() string {
	return strings.Join(k, keySep)
}

func decodeKey(s string) Key {
	return Key(strings.Split(s, keySep))
}

// HasPrefix reports whether k starts with the given prefix. An empty
// prefix matches every key.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// Backend is a flat key/value store for serialized project state.
// Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the stored value, or *core.InvalidKeyError when the
	// key does not exist.
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte) error
	// Move renames source to dest, overwriting dest. The source key
	// must exist.
	Move(ctx context.Context, source, dest Key) error
	Remove(ctx context.Context, key Key) error
	Has(ctx context.Context, key Key) (bool, error)
	// List returns every key starting with prefix. A nil prefix lists
	// all keys.
	List(ctx context.Context, prefix Key) ([]Key, error)
	// BackendID returns the backend's stable identity, generated on
	// first use and persisted under BackendIDKey. Returns "" when id
	// generation was suppressed at construction.
	BackendID(ctx context.Context) (string, error)
}

type settings struct {
	storeName  string
	suppressID bool
	manualID   string
}

// Option configures a backend at construction time.
type Option func(*settings)

// WithStoreName labels the backend in its config snapshot.
func WithStoreName(name string) Option {
	return func(s *settings) { s.storeName = name }
}

// WithSuppressBackendID skips backend-id generation entirely.
// BackendID then reports "".
func WithSuppressBackendID() Option {
	return func(s *settings) { s.suppressID = true }
}

// WithBackendID seeds the backend id instead of generating one.
func WithBackendID(id string) Option {
	return func(s *settings) { s.manualID = id }
}

func applyBackendOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// configSnapshot builds the falsy-filtered construction record a
// backend exposes through Config.
func configSnapshot(kind string, s settings) map[string]any {
	return filterFalsy(map[string]any{
		"type":                kind,
		"store_name":          s.storeName,
		"suppress_backend_id": s.suppressID,
		"manual_backend_id":   s.manualID,
	})
}

func filterFalsy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		switch t := v.(type) {
		case nil:
			continue
		case string:
			if t == "" {
				continue
			}
		case bool:
			if !t {
				continue
			}
		}
		out[k] = v
	}
	return out
}
