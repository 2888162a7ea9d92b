package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
)

// InMemory keeps values in a process-local map. Useful for tests and
// ephemeral contexts.
type InMemory struct {
	mu     sync.RWMutex
	values map[string][]byte
	id     string
	config map[string]any
}

// NewInMemory builds an in-memory backend. Unless suppressed, a
// backend id is assigned immediately.
func NewInMemory(opts ...Option) *InMemory {
	s := applyBackendOptions(opts)
	b := &InMemory{
		values: map[string][]byte{},
		config: configSnapshot("in_memory", s),
	}
	if !s.suppressID {
		b.id = s.manualID
		if b.id == "" {
			b.id = uuid.NewString()
		}
		b.values[Key{BackendIDKey}.encode()] = []byte(b.id)
	}
	return b
}

func (b *InMemory) Get(_ context.Context, key Key) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, ok := b.values[key.encode()]
	if !ok {
		return nil, &core.InvalidKeyError{Key: key.String()}
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (b *InMemory) Set(_ context.Context, key Key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	b.values[key.encode()] = stored
	return nil
}

func (b *InMemory) Move(_ context.Context, source, dest Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	value, ok := b.values[source.encode()]
	if !ok {
		return &core.InvalidKeyError{Key: source.String()}
	}
	b.values[dest.encode()] = value
	delete(b.values, source.encode())
	return nil
}

func (b *InMemory) Remove(_ context.Context, key Key) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.values[key.encode()]; !ok {
		return &core.InvalidKeyError{Key: key.String()}
	}
	delete(b.values, key.encode())
	return nil
}

func (b *InMemory) Has(_ context.Context, key Key) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.values[key.encode()]
	return ok, nil
}

func (b *InMemory) List(_ context.Context, prefix Key) ([]Key, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]Key, 0, len(b.values))
	for encoded := range b.values {
		key := decodeKey(encoded)
		if len(key) == 1 && key[0] == BackendIDKey {
			continue
		}
		if key.HasPrefix(prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (b *InMemory) BackendID(_ context.Context) (string, error) {
	return b.id, nil
}

// Config returns the falsy-filtered construction record.
func (b *InMemory) Config() map[string]any {
	return b.config
}
