package batch

import (
	"fmt"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
)

// Batch is one resolved partition of loaded data.
type Batch struct {
	ID      string
	Request *RuntimeRequest
	Data    *dataframe.DataFrame
}

// Identifier returns the caller- or heuristic-derived load identifier,
// nil when absent.
func (b *Batch) Identifier() *string {
	return b.Request.BatchIdentifiers.ID
}

// RuntimeConnector resolves runtime requests into batches. Runtime
// requests always resolve to exactly one batch since the data is
// already materialized.
type RuntimeConnector struct {
	name           string
	identifierKeys []string
}

func NewRuntimeConnector(name string, identifierKeys []string) *RuntimeConnector {
	return &RuntimeConnector{name: name, identifierKeys: identifierKeys}
}

func (c *RuntimeConnector) Name() string {
	return c.name
}

func (c *RuntimeConnector) IdentifierKeys() []string {
	out := make([]string, len(c.identifierKeys))
	copy(out, c.identifierKeys)
	return out
}

// GetSingleBatchFromRequest resolves req into its single batch.
func (c *RuntimeConnector) GetSingleBatchFromRequest(req *RuntimeRequest) (*Batch, error) {
	if req == nil {
		return nil, fmt.Errorf("runtime request is nil")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.DataConnectorName != c.name {
		return nil, fmt.Errorf("request targets connector %q, this connector is %q", req.DataConnectorName, c.name)
	}
	return &Batch{
		ID:      req.Fingerprint(),
		Request: req,
		Data:    req.RuntimeParameters.Data,
	}, nil
}
