package validator

import (
	"fmt"
	"time"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/batch"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/suite"
)

// ExecutionEngine computes expectation results over batch data. The
// in-memory dataframe engine is the only implementation shipped here.
type ExecutionEngine interface {
	Name() string
}

// Validator pairs one or more batches with an expectation suite and an
// execution engine. Expectation methods run against the active batch
// (the last one) and record themselves into the suite.
type Validator struct {
	engine  ExecutionEngine
	suite   *suite.Suite
	batches []*batch.Batch
}

// New binds engine, an optional suite and at least one batch.
func New(engine ExecutionEngine, s *suite.Suite, batches []*batch.Batch) (*Validator, error) {
	if engine == nil {
		return nil, fmt.Errorf("validator requires an execution engine")
	}
	if len(batches) == 0 {
		return nil, fmt.Errorf("validator requires at least one batch")
	}
	for i, b := range batches {
		if b == nil || b.Data == nil {
			return nil, fmt.Errorf("batch %d has no data", i)
		}
	}
	if s == nil {
		s = suite.New("default")
	}
	return &Validator{engine: engine, suite: s, batches: batches}, nil
}

func (v *Validator) Engine() ExecutionEngine {
	return v.engine
}

func (v *Validator) Suite() *suite.Suite {
	return v.suite
}

func (v *Validator) Batches() []*batch.Batch {
	return v.batches
}

// ActiveBatch is the batch expectations evaluate against.
func (v *Validator) ActiveBatch() *batch.Batch {
	return v.batches[len(v.batches)-1]
}

// BatchIdentifier returns the load identifier of the active batch,
// nil when the load carried none.
func (v *Validator) BatchIdentifier() *string {
	return v.ActiveBatch().Identifier()
}

// BatchTimestamp returns the load timestamp of the active batch.
func (v *Validator) BatchTimestamp() time.Time {
	return v.ActiveBatch().Request.BatchIdentifiers.Timestamp
}
