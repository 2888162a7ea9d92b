package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	t.Run("Should map known levels", func(t *testing.T) {
		for _, level := range []LogLevel{DebugLevel, InfoLevel, WarnLevel, ErrorLevel} {
			assert.NotPanics(t, func() { level.ToCharmlogLevel() })
		}
	})
	t.Run("Should default unknown level to info", func(t *testing.T) {
		level := LogLevel("bogus")
		assert.Equal(t, InfoLevel.ToCharmlogLevel(), level.ToCharmlogLevel())
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write structured output to the configured writer", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: DebugLevel, Output: &buf})
		log.Info("loading batch", "datasource", "default_readers")
		assert.Contains(t, buf.String(), "loading batch")
		assert.Contains(t, buf.String(), "default_readers")
	})
	t.Run("Should respect the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: ErrorLevel, Output: &buf})
		log.Info("hidden")
		assert.Empty(t, buf.String())
	})
	t.Run("Should emit JSON when configured", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})
		log.Info("msg", "k", "v")
		assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
	})
	t.Run("Should fall back to defaults for nil config", func(t *testing.T) {
		assert.NotNil(t, NewLogger(nil))
	})
}

func TestFromContext(t *testing.T) {
	t.Run("Should return the default logger for a bare context", func(t *testing.T) {
		assert.Equal(t, GetDefault(), FromContext(context.Background()))
	})
	t.Run("Should return the logger stored in the context", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: DebugLevel, Output: &buf})
		ctx := ContextWithLogger(context.Background(), log)
		FromContext(ctx).Debug("from-ctx")
		assert.Contains(t, buf.String(), "from-ctx")
	})
	t.Run("Should tolerate a nil context", func(t *testing.T) {
		assert.NotNil(t, FromContext(nil))
	})
}
