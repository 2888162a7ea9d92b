package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/core"
)

func TestConfigError(t *testing.T) {
	t.Run("Should format the message", func(t *testing.T) {
		err := core.NewConfigError("id cannot be specified when %s is also true", "use_primary_arg_as_id")
		assert.Equal(t, "id cannot be specified when use_primary_arg_as_id is also true", err.Error())
	})
	t.Run("Should survive wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("load failed: %w", core.NewConfigError("boom"))
		var cfgErr *core.ConfigError
		assert.True(t, errors.As(wrapped, &cfgErr))
	})
}

func TestAmbiguousArgumentError(t *testing.T) {
	t.Run("Should name the loader and the argument", func(t *testing.T) {
		err := &core.AmbiguousArgumentError{Loader: "read_csv", Arg: "path_or_buffer"}
		assert.Equal(t, `read_csv() got multiple values for argument "path_or_buffer"`, err.Error())
	})
}

func TestInvalidKeyError(t *testing.T) {
	t.Run("Should include the missing key", func(t *testing.T) {
		err := &core.InvalidKeyError{Key: "suites/main"}
		assert.Contains(t, err.Error(), "suites/main")
	})
}
