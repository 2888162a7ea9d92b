package datasource

import (
	"github.com/go-resty/resty/v2"
	"github.com/spf13/afero"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/batch"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
)

const (
	runtimeConnectorName = "runtime_data_connector"
	defaultAssetName     = "default_data_asset"
)

// identifierKeys are the batch identifier names recorded by the
// runtime connector.
var identifierKeys = []string{"id_", "timestamp"}

// ReaderDatasource exposes one Read method per supported tabular
// format. Every method shares the same identifier-assignment and
// payload-shaping behavior and returns a validator bound to the single
// loaded batch. The datasource is immutable after construction and
// safe for concurrent use.
type ReaderDatasource struct {
	name      string
	engine    *dataframe.Engine
	connector *batch.RuntimeConnector
	fs        afero.Fs
	http      *resty.Client
	maxFetch  int64
}

type Option func(*ReaderDatasource)

// WithFS replaces the filesystem used to resolve path primary
// arguments. Tests use an in-memory FS.
func WithFS(fs afero.Fs) Option {
	return func(d *ReaderDatasource) {
		d.fs = fs
	}
}

// WithHTTPClient replaces the client used to fetch URL primary
// arguments.
func WithHTTPClient(client *resty.Client) Option {
	return func(d *ReaderDatasource) {
		d.http = client
	}
}

// WithMaxFetchBytes bounds remote fetches. Zero means unbounded.
func WithMaxFetchBytes(n int64) Option {
	return func(d *ReaderDatasource) {
		d.maxFetch = n
	}
}

func NewReaderDatasource(name string, opts ...Option) *ReaderDatasource {
	d := &ReaderDatasource{
		name:      name,
		engine:    dataframe.NewEngine(),
		connector: batch.NewRuntimeConnector(runtimeConnectorName, identifierKeys),
		fs:        afero.NewOsFs(),
		http:      resty.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *ReaderDatasource) Name() string {
	return d.name
}

func (d *ReaderDatasource) Engine() *dataframe.Engine {
	return d.engine
}

func (d *ReaderDatasource) Connector() *batch.RuntimeConnector {
	return d.connector
}
