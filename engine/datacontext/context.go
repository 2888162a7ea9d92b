// Package datacontext wires configuration, logging, datasources and
// suite storage into one lightweight entry point.
package datacontext

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/datasource"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/store"
	"github.com/cah-jamey-weyenberg/great-expectations/pkg/config"
	"github.com/cah-jamey-weyenberg/great-expectations/pkg/logger"
)

// DataContext is the library entry point. It carries runtime settings,
// a default reader datasource and a suite store. Safe for concurrent
// use.
type DataContext struct {
	cfg    *config.Config
	log    logger.Logger
	suites *store.SuiteStore

	mu          sync.RWMutex
	sources     map[string]*datasource.ReaderDatasource
	defaultName string

	closeBackend func() error
}

type Option func(*options)

type options struct {
	cfg     *config.Config
	backend store.Backend
}

// WithConfig skips environment loading and uses the given settings.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithBackend overrides the configured suite-store backend.
func WithBackend(b store.Backend) Option {
	return func(o *options) { o.backend = b }
}

// New builds a context from configuration (environment unless
// overridden), configures the package logger, registers the default
// reader datasource and opens the suite store. Call Close when done.
func New(ctx context.Context, opts ...Option) (*DataContext, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg
	if cfg == nil {
		loaded, err := config.Load(ctx)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	logger.Setup(cfg.Runtime.LogLevel, cfg.Runtime.LogJSON)
	log := logger.GetDefault().With("component", "datacontext")

	dc := &DataContext{
		cfg:         cfg,
		log:         log,
		sources:     map[string]*datasource.ReaderDatasource{},
		defaultName: cfg.Runtime.DefaultDatasourceName,
	}

	httpClient := resty.New().SetTimeout(cfg.HTTP.FetchTimeout)
	reader := datasource.NewReaderDatasource(
		cfg.Runtime.DefaultDatasourceName,
		datasource.WithHTTPClient(httpClient),
		datasource.WithMaxFetchBytes(cfg.HTTP.MaxFetchBytes),
	)
	dc.sources[reader.Name()] = reader

	backend := o.backend
	if backend == nil {
		opened, closeFn, err := openBackend(ctx, cfg.Stores, log)
		if err != nil {
			return nil, err
		}
		backend = opened
		dc.closeBackend = closeFn
	}
	dc.suites = store.NewSuiteStore(backend)
	return dc, nil
}

func openBackend(ctx context.Context, cfg config.StoresConfig, log logger.Logger) (store.Backend, func() error, error) {
	driver := cfg.SuiteDriver
	if driver == "" {
		if cfg.SuitePath != "" {
			driver = "sqlite"
		} else {
			driver = "memory"
		}
	}
	switch driver {
	case "sqlite":
		if cfg.SuitePath == "" {
			return nil, nil, fmt.Errorf("the sqlite suite store requires a suite path")
		}
		b, err := store.NewSQLite(ctx, cfg.SuitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using sqlite suite store", "path", cfg.SuitePath)
		return b, b.Close, nil
	case "badger":
		if cfg.SuitePath == "" {
			return nil, nil, fmt.Errorf("the badger suite store requires a suite path")
		}
		b, err := store.NewBadger(ctx, cfg.SuitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using badger suite store", "path", cfg.SuitePath)
		return b, b.Close, nil
	default:
		log.Debug("using in-memory suite store")
		return store.NewInMemory(), nil, nil
	}
}

// Close releases the suite-store backend if it holds resources.
func (dc *DataContext) Close() error {
	if dc.closeBackend == nil {
		return nil
	}
	return dc.closeBackend()
}

func (dc *DataContext) Config() *config.Config {
	return dc.cfg
}

func (dc *DataContext) Logger() logger.Logger {
	return dc.log
}

// Reader returns the default reader datasource.
func (dc *DataContext) Reader() *datasource.ReaderDatasource {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.sources[dc.defaultName]
}

// Suites returns the suite store.
func (dc *DataContext) Suites() *store.SuiteStore {
	return dc.suites
}

// Source returns a registered datasource by name.
func (dc *DataContext) Source(name string) (*datasource.ReaderDatasource, error) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	ds, ok := dc.sources[name]
	if !ok {
		return nil, fmt.Errorf("datasource %q is not registered", name)
	}
	return ds, nil
}

// Sources returns the registered datasource names.
func (dc *DataContext) Sources() []string {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	names := make([]string, 0, len(dc.sources))
	for name := range dc.sources {
		names = append(names, name)
	}
	return names
}

// AddSource registers a datasource under its own name, replacing any
// previous datasource with that name.
func (dc *DataContext) AddSource(ds *datasource.ReaderDatasource) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.sources[ds.Name()] = ds
}
