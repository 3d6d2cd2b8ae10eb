/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/grading/rubric"
)

var (
	// ErrCriterionMatch is matched by every CriterionMatchError.
	ErrCriterionMatch = errors.New("criterion match error")
	// ErrScoreRange is matched by every ScoreRangeError.
	ErrScoreRange = errors.New("score range error")
)

// CriterionMatchError reports a model-written criterion id that cannot be
// reconciled with the rubric.
type CriterionMatchError struct {
	// ID is the id as the model wrote it.
	ID string
	// ValidIDs are the rubric's canonical ids.
	ValidIDs []string
	// Err is rubric.ErrCriterionNotFound or rubric.ErrAmbiguousCriterion.
	Err error
}

// Error implements error
func (e *CriterionMatchError) Error() string {
	var reason string
	switch {
	case errors.Is(e.Err, rubric.ErrCriterionNotFound):
		reason = "not found in rubric"
	case errors.Is(e.Err, rubric.ErrAmbiguousCriterion):
		reason = "matches more than one rubric criterion"
	case e.Err != nil:
		reason = e.Err.Error()
	default:
		reason = "does not match the rubric"
	}
	return fmt.Sprintf("criterion id %q %s (valid ids: %s)", e.ID, reason, strings.Join(e.ValidIDs, ", "))
}

// Unwrap exposes ErrCriterionMatch and the underlying cause.
func (e *CriterionMatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCriterionMatch}
	}
	return []error{ErrCriterionMatch, e.Err}
}

// ScoreRangeError reports a score that is not a number inside the range of
// the matched criterion's scale.
type ScoreRangeError struct {
	// ID is the canonical criterion id.
	ID string
	// Raw is the score as the model wrote it.
	Raw string
	// Scale is the rubric criterion's scale, which defines the valid range.
	Scale rubric.ScoreScale
	// Err is set when the score could not be read as a number at all.
	Err error
}

// Error implements error
func (e *ScoreRangeError) Error() string {
	r := e.Scale.Range()
	if e.Err != nil {
		return fmt.Sprintf("score %s for criterion %q is not a number on scale %s (%g to %g): %v", e.Raw, e.ID, e.Scale, r.Low, r.High, e.Err)
	}
	return fmt.Sprintf("score %s for criterion %q out of range for scale %s (%g to %g)", e.Raw, e.ID, e.Scale, r.Low, r.High)
}

// Unwrap exposes ErrScoreRange and the decoding error, if any.
func (e *ScoreRangeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrScoreRange}
	}
	return []error{ErrScoreRange, e.Err}
}
