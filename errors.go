package fmsynth

import (
	"errors"
	"fmt"
)

// ErrConfig matches every *ConfigError under errors.Is.
var ErrConfig = errors.New("fmsynth: invalid configuration")

// A ConfigError reports an invalid construction argument.  It is only ever
// returned by constructors; nothing on the render path fails.
type ConfigError struct {
	Op     string
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fmsynth: %s: %s %s (got %v)", e.Op, e.Field, e.Reason, e.Value)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErrorf(op, field string, value interface{}, format string, args ...interface{}) error {
	return &ConfigError{Op: op, Field: field, Value: value, Reason: fmt.Sprintf(format, args...)}
}
