package domain

import (
	"errors"
	"fmt"
)

// ErrNegativeDelta is returned when an operation would decrease a value that
// must never decrease, such as adding a negative delta to a counter. The
// offending call has no effect; the process keeps running.
var ErrNegativeDelta = errors.New("delta must not be negative")

// ConfigError reports an instrument or registry misconfiguration: a
// duplicate family name, unsorted histogram bounds, an invalid quantile
// objective. These indicate a programming mistake that would corrupt every
// future collection, so they are meant to be fatal at assembly time.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "pulse config: " + e.Reason }

// NewConfigError builds a ConfigError from a format string.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
