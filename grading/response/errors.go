/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package response

import (
	"errors"
	"strings"
)

// ErrParse is matched by every ParseError.
var ErrParse = errors.New("response parse error")

// ParseError reports model output that cannot be read as an evaluation.
// Callers may retry the model with a corrective prompt.
type ParseError struct {
	// Reason describes the structural problem.
	Reason string
	// Missing lists every required top-level key that was absent, in
	// canonical order.
	Missing []string
	// Err is the underlying decoder error, if any.
	Err error
}

// Error implements error
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Reason)
	if len(e.Missing) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both ErrParse and the underlying decoder error.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
