/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"context"

	"chainguard.dev/taskgrader/grading/rubric"
	"golang.org/x/sync/errgroup"
)

// Outcome pairs a submission's result with its error. Exactly one is set.
type Outcome struct {
	Result *Result
	Err    error
}

// EvaluateAll grades subs against r with at most limit evaluations in
// flight (unbounded when limit <= 0). Outcomes are returned in the order of
// subs, and one submission failing does not cancel the others.
func EvaluateAll(ctx context.Context, e Interface, r *rubric.Rubric, subs []Submission, limit int) []Outcome {
	out := make([]Outcome, len(subs))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, sub := range subs {
		g.Go(func() error {
			res, err := e.Evaluate(ctx, r, sub)
			out[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
