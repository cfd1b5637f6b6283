package style

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig matches every *ConfigurationError via errors.Is.
var ErrInvalidConfig = errors.New("invalid style configuration")

// ConfigurationError reports one rejected option value.
type ConfigurationError struct {
	Option string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("style option %q: %s", e.Option, e.Reason)
	}
	return fmt.Sprintf("style option %q = %v: %s", e.Option, e.Value, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfig
}

func invalid(name string, v any, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Option: name, Value: v, Reason: fmt.Sprintf(format, args...)}
}
