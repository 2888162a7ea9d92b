package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/schema"
)

func entitySchema() *schema.Schema {
	return &schema.Schema{
		"type": "object",
		"properties": map[string]any{
			"id_":  map[string]any{"type": "string"},
			"id":   map[string]any{"type": "string"},
			"name": map[string]any{"type": "string"},
		},
		"additionalProperties": false,
	}
}

func TestEntity_Serialization(t *testing.T) {
	t.Run("Should omit absent fields from the map form", func(t *testing.T) {
		m, err := core.AsMapDefault(core.Entity{})
		require.NoError(t, err)
		assert.Empty(t, m)
	})
	t.Run("Should keep only the fields actually supplied", func(t *testing.T) {
		m, err := core.AsMapDefault(core.Entity{Name: "suite"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"name": "suite"}, m)
		_, hasID := m["id"]
		assert.False(t, hasID)
	})
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	t.Run("Should expose the raw id_ alias as id", func(t *testing.T) {
		got, err := core.RoundTrip[core.Entity](ctx, entitySchema(), map[string]any{"id_": "abc"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": "abc"}, got)
		_, hasName := got["name"]
		assert.False(t, hasName)
	})
	t.Run("Should round trip an empty mapping to an empty mapping", func(t *testing.T) {
		got, err := core.RoundTrip[core.Entity](ctx, entitySchema(), map[string]any{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("Should keep id and name together", func(t *testing.T) {
		got, err := core.RoundTrip[core.Entity](ctx, entitySchema(), map[string]any{"id_": "abc", "name": "n"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"id": "abc", "name": "n"}, got)
	})
	t.Run("Should surface ValidationError for a non-conforming mapping", func(t *testing.T) {
		_, err := core.RoundTrip[core.Entity](ctx, entitySchema(), map[string]any{"id_": 17})
		require.Error(t, err)
		var vErr *schema.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})
}

func TestAsMapDefault_And_FromMapDefault(t *testing.T) {
	t.Run("Should convert struct to map using AsMapDefault", func(t *testing.T) {
		type cfg struct {
			A string
			B int
		}
		m, err := core.AsMapDefault(cfg{A: "x", B: 2})
		require.NoError(t, err)
		assert.Equal(t, "x", m["A"])
		assert.Equal(t, float64(2), m["B"]) // json encodes numbers as float64
	})
	t.Run("Should decode map into struct using FromMapDefault with weak types", func(t *testing.T) {
		type cfg struct {
			A string `mapstructure:"a"`
			B int    `mapstructure:"b"`
		}
		in := map[string]any{"a": "hello", "b": "42"}
		got, err := core.FromMapDefault[cfg](in)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.A)
		assert.Equal(t, 42, got.B)
	})
}
