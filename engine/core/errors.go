package core

import "fmt"

// ConfigError reports mutually exclusive or otherwise unusable caller
// options. It is surfaced immediately and never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// AmbiguousArgumentError reports a primary argument that was supplied
// both positionally and under its keyword name.
type AmbiguousArgumentError struct {
	Loader string
	Arg    string
}

func (e *AmbiguousArgumentError) Error() string {
	return fmt.Sprintf("%s() got multiple values for argument %q", e.Loader, e.Arg)
}

// InvalidKeyError reports a store key that does not exist.
type InvalidKeyError struct {
	Key string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key: %q", e.Key)
}
