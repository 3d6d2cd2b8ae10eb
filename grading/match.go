/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"strings"

	"chainguard.dev/taskgrader/grading/response"
	"chainguard.dev/taskgrader/grading/rubric"
)

// CriterionEvaluation is one model-written score after it has been matched
// to a rubric criterion and checked against that criterion's scale.
type CriterionEvaluation struct {
	// ID is the rubric's canonical id, whatever case the model used.
	ID   string `json:"id"`
	Name string `json:"name"`
	// ScoreScale is the rubric criterion's scale.
	ScoreScale    rubric.ScoreScale `json:"score_scale"`
	Score         float64           `json:"score"`
	Justification string            `json:"justification"`
	// ReportedScale is the scale label the model echoed, kept only when it
	// disagrees with ScoreScale.
	ReportedScale string `json:"reported_scale,omitempty"`
	// Duplicate marks a repeated evaluation of a criterion already
	// evaluated earlier in the same response. Aggregate ignores it.
	Duplicate bool `json:"duplicate,omitempty"`
}

// ScaleMismatch reports whether the model echoed a scale label different
// from the rubric's.
func (ce CriterionEvaluation) ScaleMismatch() bool {
	return ce.ReportedScale != ""
}

// Match reconciles parsed entries with r, emitting one evaluation per
// entry in input order. Ids match case-insensitively and exactly; each
// score must be a number inside the range of the matched criterion's own
// scale, whatever scale the entry claims. Criteria the model did not
// evaluate are simply absent from the result, and repeated criteria are
// kept with Duplicate set.
func Match(r *rubric.Rubric, entries []response.Entry) ([]CriterionEvaluation, error) {
	out := make([]CriterionEvaluation, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		c, err := r.Lookup(e.ID)
		if err != nil {
			return nil, &CriterionMatchError{ID: e.ID, ValidIDs: r.IDs(), Err: err}
		}
		duplicate := seen[c.ID()]
		seen[c.ID()] = true

		score, err := e.NumericScore()
		if err != nil {
			return nil, &ScoreRangeError{ID: c.ID(), Raw: e.RawScore(), Scale: c.Scale(), Err: err}
		}
		if !c.Scale().Range().Contains(score) {
			return nil, &ScoreRangeError{ID: c.ID(), Raw: e.RawScore(), Scale: c.Scale()}
		}

		name := e.Name
		if name == "" {
			name = c.Name()
		}
		ce := CriterionEvaluation{
			ID:            c.ID(),
			Name:          name,
			ScoreScale:    c.Scale(),
			Score:         score,
			Justification: strings.TrimSpace(e.Justification),
			Duplicate:     duplicate,
		}
		if e.ScoreScale != "" && !sameScale(e.ScoreScale, c.Scale()) {
			ce.ReportedScale = e.ScoreScale
		}
		out = append(out, ce)
	}
	return out, nil
}

// sameScale compares a model-written label with a scale, ignoring case and
// spaces ("0 - 10" is 0-10).
func sameScale(label string, s rubric.ScoreScale) bool {
	return strings.EqualFold(strings.ReplaceAll(label, " ", ""), string(s))
}
