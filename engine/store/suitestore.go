package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/suite"
)

const suiteNamespace = "suites"

// SuiteStore persists expectation suites by name over any Backend.
type SuiteStore struct {
	backend Backend
}

func NewSuiteStore(backend Backend) *SuiteStore {
	return &SuiteStore{backend: backend}
}

func suiteKey(name string) Key {
	return Key{suiteNamespace, name}
}

// Save writes the suite under its name, replacing any previous
// version. The suite must be named; an id is assigned on first save.
func (s *SuiteStore) Save(ctx context.Context, es *suite.Suite) error {
	if es == nil || es.Name == "" {
		return fmt.Errorf("cannot save an unnamed suite")
	}
	if es.ID == "" {
		es.ID = core.MustNewID().String()
	}
	data, err := json.Marshal(es)
	if err != nil {
		return fmt.Errorf("failed to serialize suite %q: %w", es.Name, err)
	}
	return s.backend.Set(ctx, suiteKey(es.Name), data)
}

// Load reads the named suite. Missing suites surface the backend's
// *core.InvalidKeyError.
func (s *SuiteStore) Load(ctx context.Context, name string) (*suite.Suite, error) {
	data, err := s.backend.Get(ctx, suiteKey(name))
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse stored suite %q: %w", name, err)
	}
	return suite.FromMap(ctx, raw)
}

// List returns the names of every stored suite.
func (s *SuiteStore) List(ctx context.Context) ([]string, error) {
	keys, err := s.backend.List(ctx, Key{suiteNamespace})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		if len(key) == 2 {
			names = append(names, key[1])
		}
	}
	return names, nil
}

// Delete removes the named suite.
func (s *SuiteStore) Delete(ctx context.Context, name string) error {
	return s.backend.Remove(ctx, suiteKey(name))
}

// Rename moves a suite to a new name and updates the stored payload to
// match.
func (s *SuiteStore) Rename(ctx context.Context, from, to string) error {
	es, err := s.Load(ctx, from)
	if err != nil {
		return err
	}
	es.Name = to
	if err := s.Save(ctx, es); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	return s.backend.Remove(ctx, suiteKey(from))
}
