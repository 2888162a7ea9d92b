package batch

import (
	"fmt"
	"time"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
)

// Identifiers distinguish one load event from another. ID is optional;
// the pair (ID, Timestamp) is unique even when ID is nil because the
// timestamp alone separates otherwise identical loads.
type Identifiers struct {
	ID        *string   `json:"id_"`
	Timestamp time.Time `json:"timestamp"`
}

// RuntimeParameters carry the loaded table and the recorded
// pass-through arguments. Data itself is never serialized.
type RuntimeParameters struct {
	Data   *dataframe.DataFrame `json:"-"`
	Args   []any                `json:"args"`
	Kwargs map[string]any       `json:"kwargs"`
}

// RuntimeRequest describes a single in-memory load bound for
// validation. It is built once per adapter call, resolved into exactly
// one batch, and discarded.
type RuntimeRequest struct {
	DatasourceName    string            `json:"datasource_name"`
	DataConnectorName string            `json:"data_connector_name"`
	DataAssetName     string            `json:"data_asset_name"`
	RuntimeParameters RuntimeParameters `json:"runtime_parameters"`
	BatchIdentifiers  Identifiers       `json:"batch_identifiers"`
}

func (r *RuntimeRequest) Validate() error {
	if r.DatasourceName == "" {
		return fmt.Errorf("runtime request requires a datasource name")
	}
	if r.DataConnectorName == "" {
		return fmt.Errorf("runtime request requires a data connector name")
	}
	if r.DataAssetName == "" {
		return fmt.Errorf("runtime request requires a data asset name")
	}
	if r.RuntimeParameters.Data == nil {
		return fmt.Errorf("runtime request requires batch data")
	}
	return nil
}

// Fingerprint derives a stable digest of the batch identifiers, keyed
// the same way they are recorded (id_, timestamp).
func (r *RuntimeRequest) Fingerprint() string {
	var id any
	if r.BatchIdentifiers.ID != nil {
		id = *r.BatchIdentifiers.ID
	}
	return core.Fingerprint(map[string]any{
		"id_":       id,
		"timestamp": r.BatchIdentifiers.Timestamp.Format(time.RFC3339Nano),
	})
}
