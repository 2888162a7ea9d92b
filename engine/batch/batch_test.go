package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
)

func newRequest(id *string, ts time.Time) *RuntimeRequest {
	return &RuntimeRequest{
		DatasourceName:    "readers",
		DataConnectorName: "runtime_data_connector",
		DataAssetName:     "default_data_asset",
		RuntimeParameters: RuntimeParameters{
			Data:   dataframe.FromRecords([]dataframe.Record{{"a": 1}}),
			Kwargs: map[string]any{},
		},
		BatchIdentifiers: Identifiers{ID: id, Timestamp: ts},
	}
}

func TestRuntimeRequest_Validate(t *testing.T) {
	t.Run("Should accept a complete request", func(t *testing.T) {
		require.NoError(t, newRequest(nil, time.Now()).Validate())
	})
	t.Run("Should reject a request without batch data", func(t *testing.T) {
		req := newRequest(nil, time.Now())
		req.RuntimeParameters.Data = nil
		assert.ErrorContains(t, req.Validate(), "batch data")
	})
	t.Run("Should reject a request without names", func(t *testing.T) {
		req := newRequest(nil, time.Now())
		req.DatasourceName = ""
		assert.Error(t, req.Validate())
	})
}

func TestRuntimeRequest_Fingerprint(t *testing.T) {
	t.Run("Should distinguish loads by timestamp even without an identifier", func(t *testing.T) {
		a := newRequest(nil, time.Unix(1, 0)).Fingerprint()
		b := newRequest(nil, time.Unix(2, 0)).Fingerprint()
		assert.NotEqual(t, a, b)
	})
	t.Run("Should be stable for equal identifiers", func(t *testing.T) {
		id := "data.csv"
		ts := time.Unix(100, 0)
		assert.Equal(t, newRequest(&id, ts).Fingerprint(), newRequest(&id, ts).Fingerprint())
	})
}

func TestRuntimeConnector_GetSingleBatchFromRequest(t *testing.T) {
	connector := NewRuntimeConnector("runtime_data_connector", []string{"id_", "timestamp"})
	t.Run("Should resolve a request to exactly one batch", func(t *testing.T) {
		id := "data.csv"
		req := newRequest(&id, time.Now())
		b, err := connector.GetSingleBatchFromRequest(req)
		require.NoError(t, err)
		assert.Equal(t, req.Fingerprint(), b.ID)
		assert.Same(t, req.RuntimeParameters.Data, b.Data)
		require.NotNil(t, b.Identifier())
		assert.Equal(t, "data.csv", *b.Identifier())
	})
	t.Run("Should reject a nil request", func(t *testing.T) {
		_, err := connector.GetSingleBatchFromRequest(nil)
		assert.Error(t, err)
	})
	t.Run("Should reject a request for another connector", func(t *testing.T) {
		req := newRequest(nil, time.Now())
		req.DataConnectorName = "files_connector"
		_, err := connector.GetSingleBatchFromRequest(req)
		assert.ErrorContains(t, err, "files_connector")
	})
}
