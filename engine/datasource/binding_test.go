package datasource

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corepkg "github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/suite"
)

// stubLoader records what the adapter forwarded and returns a fixed
// single-row table.
type stubLoader struct {
	primary any
	args    []any
	kwargs  map[string]any
	err     error
}

func (s *stubLoader) load(_ context.Context, primary any, args []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	s.primary = primary
	s.args = args
	s.kwargs = map[string]any{}
	for k, v := range kwargs {
		s.kwargs[k] = v
	}
	if s.err != nil {
		return nil, s.err
	}
	return dataframe.FromRecords([]dataframe.Record{{"a": 1}}), nil
}

func TestLoad_IdentifierResolution(t *testing.T) {
	ctx := context.Background()
	d := NewReaderDatasource("readers")

	t.Run("Should fail when an explicit id and use-primary are both supplied", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src"}
		_, err := d.load(ctx, b, stub.load, "data.csv", WithID("other"), WithPrimaryArgAsID(true))
		var cfgErr *corepkg.ConfigError
		require.True(t, errors.As(err, &cfgErr))
	})
	t.Run("Should prefer an explicit id", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src"}
		v, err := d.load(ctx, b, stub.load, "data.csv", WithID("explicit"))
		require.NoError(t, err)
		require.NotNil(t, v.BatchIdentifier())
		assert.Equal(t, "explicit", *v.BatchIdentifier())
	})
	t.Run("Should let an explicit id override a default-true policy", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src", defaultUseAsID: boolPtr(true)}
		v, err := d.load(ctx, b, stub.load, "data.csv", WithID("explicit"))
		require.NoError(t, err)
		require.NotNil(t, v.BatchIdentifier())
		assert.Equal(t, "explicit", *v.BatchIdentifier())
	})
	t.Run("Should use the primary argument when the default policy is true", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src", defaultUseAsID: boolPtr(true)}
		v, err := d.load(ctx, b, stub.load, "literal content with spaces")
		require.NoError(t, err)
		require.NotNil(t, v.BatchIdentifier())
		assert.Equal(t, "literal content with spaces", *v.BatchIdentifier())
	})
	t.Run("Should leave the identifier absent when the default policy is false", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src", defaultUseAsID: boolPtr(false)}
		v, err := d.load(ctx, b, stub.load, "data.csv")
		require.NoError(t, err)
		assert.Nil(t, v.BatchIdentifier())
	})
	t.Run("Should apply the whitespace heuristic when no policy is set", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src"}

		v, err := d.load(ctx, b, stub.load, "data.csv")
		require.NoError(t, err)
		require.NotNil(t, v.BatchIdentifier())
		assert.Equal(t, "data.csv", *v.BatchIdentifier())

		v, err = d.load(ctx, b, stub.load, "a,b\n1,2")
		require.NoError(t, err)
		assert.Nil(t, v.BatchIdentifier())
	})
	t.Run("Should never derive an identifier from a non-string primary", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src"}
		v, err := d.load(ctx, b, stub.load, 42)
		require.NoError(t, err)
		assert.Nil(t, v.BatchIdentifier())
	})
	t.Run("Should honor an explicit use-primary override", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{name: "read_stub", primaryArgName: "src", defaultUseAsID: boolPtr(false)}
		v, err := d.load(ctx, b, stub.load, "data.csv", WithPrimaryArgAsID(true))
		require.NoError(t, err)
		require.NotNil(t, v.BatchIdentifier())
		assert.Equal(t, "data.csv", *v.BatchIdentifier())
	})
}

func TestLoad_Timestamp(t *testing.T) {
	ctx := context.Background()
	d := NewReaderDatasource("readers")
	b := binding{name: "read_stub", primaryArgName: "src"}

	t.Run("Should capture wall-clock time at call entry", func(t *testing.T) {
		stub := &stubLoader{}
		before := time.Now()
		v, err := d.load(ctx, b, stub.load, "data.csv")
		require.NoError(t, err)
		after := time.Now()
		ts := v.BatchTimestamp()
		assert.False(t, ts.Before(before))
		assert.False(t, ts.After(after))
	})
	t.Run("Should honor an explicit timestamp", func(t *testing.T) {
		stub := &stubLoader{}
		ts := time.Unix(1234, 0)
		v, err := d.load(ctx, b, stub.load, "data.csv", WithTimestamp(ts))
		require.NoError(t, err)
		assert.Equal(t, ts, v.BatchTimestamp())
	})
}

func TestLoad_Rehydration(t *testing.T) {
	ctx := context.Background()
	d := NewReaderDatasource("readers")
	b := binding{name: "read_stub", primaryArgName: "src"}

	t.Run("Should fail when the primary argument is supplied twice", func(t *testing.T) {
		stub := &stubLoader{}
		_, err := d.load(ctx, b, stub.load, "data.csv", WithKwarg("src", "other.csv"))
		var ambErr *corepkg.AmbiguousArgumentError
		require.True(t, errors.As(err, &ambErr))
		assert.Equal(t, "read_stub", ambErr.Loader)
	})
	t.Run("Should promote a by-name primary argument", func(t *testing.T) {
		stub := &stubLoader{}
		_, err := d.load(ctx, b, stub.load, nil, WithKwarg("src", "named.csv"))
		require.NoError(t, err)
		assert.Equal(t, "named.csv", stub.primary)
		_, stillThere := stub.kwargs["src"]
		assert.False(t, stillThere)
	})
	t.Run("Should not derive an identifier from a promoted primary", func(t *testing.T) {
		// Identifier resolution happens before rehydration, so a
		// by-name primary never becomes the id.
		stub := &stubLoader{}
		v, err := d.load(ctx, b, stub.load, nil, WithKwarg("src", "named.csv"))
		require.NoError(t, err)
		assert.Nil(t, v.BatchIdentifier())
	})
}

func TestLoad_PassThroughFiltering(t *testing.T) {
	ctx := context.Background()
	d := NewReaderDatasource("readers")

	t.Run("Should drop excluded arguments from the recorded request", func(t *testing.T) {
		stub := &stubLoader{}
		b := binding{
			name:           "read_stub",
			primaryArgName: "src",
			excludedArgs:   map[string]int{"con": 1},
		}
		conn := struct{ live bool }{live: true}
		v, err := d.load(ctx, b, stub.load, "data.csv",
			WithArgs(conn, "extra"),
			WithKwarg("con", conn),
			WithKwarg("trim", true),
		)
		require.NoError(t, err)
		// The loader still saw everything.
		assert.Len(t, stub.args, 2)
		assert.Contains(t, stub.kwargs, "con")
		// The recorded request does not.
		params := v.ActiveBatch().Request.RuntimeParameters
		assert.Equal(t, []any{"extra"}, params.Args)
		assert.NotContains(t, params.Kwargs, "con")
		assert.Equal(t, true, params.Kwargs["trim"])
	})
}

func TestLoad_Delegation(t *testing.T) {
	ctx := context.Background()
	d := NewReaderDatasource("readers")
	b := binding{name: "read_stub", primaryArgName: "src"}

	t.Run("Should propagate loader errors unwrapped", func(t *testing.T) {
		sentinel := fmt.Errorf("malformed file")
		stub := &stubLoader{err: sentinel}
		_, err := d.load(ctx, b, stub.load, "data.csv")
		assert.Equal(t, sentinel, err)
	})
	t.Run("Should bind a supplied expectation suite", func(t *testing.T) {
		stub := &stubLoader{}
		es := suite.New("checks")
		v, err := d.load(ctx, b, stub.load, "data.csv", WithSuite(es))
		require.NoError(t, err)
		assert.Same(t, es, v.Suite())
	})
	t.Run("Should bind the request to the synthetic single asset", func(t *testing.T) {
		stub := &stubLoader{}
		v, err := d.load(ctx, b, stub.load, "data.csv")
		require.NoError(t, err)
		req := v.ActiveBatch().Request
		assert.Equal(t, "readers", req.DatasourceName)
		assert.Equal(t, runtimeConnectorName, req.DataConnectorName)
		assert.Equal(t, defaultAssetName, req.DataAssetName)
	})
}

func TestRemoveExcludedArguments(t *testing.T) {
	t.Run("Should remove by name and 1-based position", func(t *testing.T) {
		args, kwargs := removeExcludedArguments(
			map[string]int{"con": 1},
			[]any{"conn-obj", "keep"},
			map[string]any{"con": "conn-obj", "other": 1},
		)
		assert.Equal(t, []any{"keep"}, args)
		assert.Equal(t, map[string]any{"other": 1}, kwargs)
	})
	t.Run("Should be a no-op without exclusions", func(t *testing.T) {
		args, kwargs := removeExcludedArguments(nil, []any{"a"}, map[string]any{"k": 1})
		assert.Equal(t, []any{"a"}, args)
		assert.Equal(t, map[string]any{"k": 1}, kwargs)
	})
}

func TestUsePrimaryArgAsIdentifier(t *testing.T) {
	t.Run("Should accept strings without whitespace", func(t *testing.T) {
		assert.True(t, usePrimaryArgAsIdentifier("data.csv"))
		assert.True(t, usePrimaryArgAsIdentifier("https://example.com/d.csv"))
	})
	t.Run("Should reject strings with any whitespace", func(t *testing.T) {
		assert.False(t, usePrimaryArgAsIdentifier("a b"))
		assert.False(t, usePrimaryArgAsIdentifier("a\tb"))
		assert.False(t, usePrimaryArgAsIdentifier("a\nb"))
	})
	t.Run("Should reject non-strings", func(t *testing.T) {
		assert.False(t, usePrimaryArgAsIdentifier(nil))
		assert.False(t, usePrimaryArgAsIdentifier(42))
		assert.False(t, usePrimaryArgAsIdentifier([]byte("x")))
	})
}
