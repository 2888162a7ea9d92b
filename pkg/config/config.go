package config

import "time"

// Config holds the runtime settings for the library. Values come from
// defaults overridden by GX_-prefixed environment variables.
type Config struct {
	Runtime RuntimeConfig `koanf:"runtime"`
	HTTP    HTTPConfig    `koanf:"http"`
	Stores  StoresConfig  `koanf:"stores"`
}

// RuntimeConfig contains logging and datasource defaults.
type RuntimeConfig struct {
	LogLevel              string `koanf:"log_level"               validate:"omitempty,oneof=debug info warn error" env:"GX_RUNTIME_LOG_LEVEL"`
	LogJSON               bool   `koanf:"log_json"                                                                 env:"GX_RUNTIME_LOG_JSON"`
	DefaultDatasourceName string `koanf:"default_datasource_name" validate:"required"                              env:"GX_RUNTIME_DEFAULT_DATASOURCE_NAME"`
}

// HTTPConfig bounds remote fetches of URL primary arguments.
type HTTPConfig struct {
	FetchTimeout  time.Duration `koanf:"fetch_timeout"                    env:"GX_HTTP_FETCH_TIMEOUT"`
	MaxFetchBytes int64         `koanf:"max_fetch_bytes" validate:"min=0" env:"GX_HTTP_MAX_FETCH_BYTES"`
}

// StoresConfig selects where expectation suites persist. With no
// driver set, a non-empty suite_path selects sqlite and an empty one
// keeps suites in memory. The badger driver treats suite_path as a
// directory.
type StoresConfig struct {
	SuiteDriver string `koanf:"suite_driver" validate:"omitempty,oneof=memory sqlite badger" env:"GX_STORES_SUITE_DRIVER"`
	SuitePath   string `koanf:"suite_path"                                                   env:"GX_STORES_SUITE_PATH"`
}

func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel:              "info",
			LogJSON:               false,
			DefaultDatasourceName: "default_readers",
		},
		HTTP: HTTPConfig{
			FetchTimeout:  30 * time.Second,
			MaxFetchBytes: 64 << 20,
		},
		Stores: StoresConfig{},
	}
}
