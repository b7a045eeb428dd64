package domain

import (
	"errors"
	"fmt"
)

// ErrTraceNotFound is returned when a trace ID cannot be found in a store.
var ErrTraceNotFound = errors.New("trace not found")

// ErrInvalidTraceID is returned when a store cannot use an ID as a key.
var ErrInvalidTraceID = errors.New("invalid trace id")

// ErrGestureEnded is returned when a sample is stepped into a gesture that
// already emitted its terminal notification.
var ErrGestureEnded = errors.New("gesture ended")

// ConfigError reports an invalid configuration value. It is raised before
// any gesture is processed.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("invalid config %q", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf(" (%v)", e.Value)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
