/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is the sentinel matched by every ConfigError.
var ErrInvalidConfiguration = errors.New("invalid rubric configuration")

var (
	// ErrCriterionNotFound is returned by Rubric.Lookup for unknown ids.
	ErrCriterionNotFound = errors.New("not found in rubric")
	// ErrAmbiguousCriterion is returned by Rubric.Lookup when several
	// criteria share an id modulo case.
	ErrAmbiguousCriterion = errors.New("ambiguous criterion id")
)

// ConfigError reports a rubric or criterion field that failed validation.
// It is returned at construction time and is never recoverable: the
// rubric definition itself has to change.
type ConfigError struct {
	// Field is the name of the offending field as it appears in JSON.
	Field string
	// Value is the rejected value.
	Value any
	// Reason states the constraint that was violated.
	Reason string
}

// Error implements error
func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v, %s", e.Field, e.Value, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidConfiguration).
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
