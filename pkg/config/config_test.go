package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformEnvKey(t *testing.T) {
	t.Run("Should map prefixed vars onto koanf paths", func(t *testing.T) {
		assert.Equal(t, "runtime.log_level", transformEnvKey("GX_RUNTIME_LOG_LEVEL"))
		assert.Equal(t, "http.max_fetch_bytes", transformEnvKey("GX_HTTP_MAX_FETCH_BYTES"))
		assert.Equal(t, "stores.suite_path", transformEnvKey("GX_STORES_SUITE_PATH"))
	})
	t.Run("Should handle degenerate keys", func(t *testing.T) {
		assert.Equal(t, "", transformEnvKey("GX_"))
		assert.Equal(t, "runtime", transformEnvKey("GX_RUNTIME"))
	})
}

func TestGenerateEnvMappings(t *testing.T) {
	t.Run("Should cover every env tag on the config struct", func(t *testing.T) {
		envToPath := make(map[string]string)
		for _, mapping := range GenerateEnvMappings() {
			envToPath[mapping.EnvVar] = mapping.ConfigPath
		}
		assert.Equal(t, map[string]string{
			"GX_RUNTIME_LOG_LEVEL":               "runtime.log_level",
			"GX_RUNTIME_LOG_JSON":                "runtime.log_json",
			"GX_RUNTIME_DEFAULT_DATASOURCE_NAME": "runtime.default_datasource_name",
			"GX_HTTP_FETCH_TIMEOUT":              "http.fetch_timeout",
			"GX_HTTP_MAX_FETCH_BYTES":            "http.max_fetch_bytes",
			"GX_STORES_SUITE_DRIVER":             "stores.suite_driver",
			"GX_STORES_SUITE_PATH":               "stores.suite_path",
		}, envToPath)
	})
}

func TestLoad(t *testing.T) {
	t.Run("Should return defaults when no environment is set", func(t *testing.T) {
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "info", cfg.Runtime.LogLevel)
		assert.Equal(t, "default_readers", cfg.Runtime.DefaultDatasourceName)
		assert.Equal(t, 30*time.Second, cfg.HTTP.FetchTimeout)
		assert.Empty(t, cfg.Stores.SuitePath)
	})
	t.Run("Should override defaults from environment variables", func(t *testing.T) {
		t.Setenv("GX_RUNTIME_LOG_LEVEL", "debug")
		t.Setenv("GX_RUNTIME_DEFAULT_DATASOURCE_NAME", "readers")
		cfg, err := Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.Runtime.LogLevel)
		assert.Equal(t, "readers", cfg.Runtime.DefaultDatasourceName)
	})
	t.Run("Should reject an invalid log level", func(t *testing.T) {
		t.Setenv("GX_RUNTIME_LOG_LEVEL", "loud")
		_, err := Load(context.Background())
		assert.Error(t, err)
	})
}
