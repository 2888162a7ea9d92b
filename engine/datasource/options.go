package datasource

import (
	"time"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/suite"
)

// loadSettings collects the adapter-only controls plus the loader
// pass-through arguments for one call.
type loadSettings struct {
	id               *string
	usePrimaryAsID   *bool
	timestamp        *time.Time
	expectationSuite *suite.Suite
	args             []any
	kwargs           map[string]any
}

type LoadOption func(*loadSettings)

// WithID sets an explicit load identifier. Mutually exclusive with
// WithPrimaryArgAsID(true).
func WithID(id string) LoadOption {
	return func(s *loadSettings) {
		s.id = &id
	}
}

// WithPrimaryArgAsID overrides the per-loader policy for treating the
// primary argument as the load identifier.
func WithPrimaryArgAsID(use bool) LoadOption {
	return func(s *loadSettings) {
		s.usePrimaryAsID = &use
	}
}

// WithTimestamp overrides the load timestamp, which otherwise is
// captured at call entry.
func WithTimestamp(ts time.Time) LoadOption {
	return func(s *loadSettings) {
		s.timestamp = &ts
	}
}

// WithSuite binds an expectation suite into the returned validator.
func WithSuite(es *suite.Suite) LoadOption {
	return func(s *loadSettings) {
		s.expectationSuite = es
	}
}

// WithArgs appends positional pass-through arguments forwarded to the
// underlying loader.
func WithArgs(args ...any) LoadOption {
	return func(s *loadSettings) {
		s.args = append(s.args, args...)
	}
}

// WithKwarg forwards one keyword argument to the underlying loader.
func WithKwarg(name string, value any) LoadOption {
	return func(s *loadSettings) {
		s.kwargs[name] = value
	}
}

// WithKwargs forwards keyword arguments to the underlying loader.
func WithKwargs(kwargs map[string]any) LoadOption {
	return func(s *loadSettings) {
		for k, v := range kwargs {
			s.kwargs[k] = v
		}
	}
}

func applyOptions(opts []LoadOption) *loadSettings {
	s := &loadSettings{kwargs: map[string]any{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
