package dataframe

// Engine is the execution engine bound into validators for in-memory
// DataFrame batches. Loads are already materialized when the adapter
// builds a runtime request, so the engine only names itself and hands
// batch data back.
type Engine struct {
	name string
}

func NewEngine() *Engine {
	return &Engine{name: "dataframe"}
}

func (e *Engine) Name() string {
	return e.name
}
