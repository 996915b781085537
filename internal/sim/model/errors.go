package model

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid marks any missing or malformed mission/vehicle data.
// Match with errors.Is.
var ErrConfigInvalid = errors.New("configuration invalid")

// ConfigError describes one invalid field in a mission or vehicle
// definition. It unwraps to ErrConfigInvalid.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration invalid: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfigInvalid }

// UnsupportedCommandKindError reports a command whose kind is outside the
// closed set. Detected during validation, before any execution begins.
type UnsupportedCommandKindError struct {
	ID   int
	Kind CommandKind
}

func (e *UnsupportedCommandKindError) Error() string {
	return fmt.Sprintf("command %d: unsupported command kind %q", e.ID, e.Kind)
}

func (e *UnsupportedCommandKindError) Unwrap() error { return ErrConfigInvalid }
