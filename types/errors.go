package types

import (
	"errors"
	"fmt"
)

// ErrInvalidImage marks a detection input that could not be decoded.
// It is localized to one frame and never aborts an analysis run.
var ErrInvalidImage = errors.New("invalid image")

// ErrModelUnavailable marks an external detector or recommender that
// could not be reached. Callers degrade to empty output for that call.
var ErrModelUnavailable = errors.New("model unavailable")

// InvalidConfigError rejects a malformed room, building or request
// override before any computation begins.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// IsInvalidConfig reports whether err is a configuration rejection.
func IsInvalidConfig(err error) bool {
	var ice *InvalidConfigError
	return errors.As(err, &ice)
}
