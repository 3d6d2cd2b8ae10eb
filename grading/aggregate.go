/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import "chainguard.dev/taskgrader/grading/rubric"

// Aggregate returns the weighted total score of evals on r's overall scale:
//
//	total = max * Σ(wᵢ · normalize(scoreᵢ)) / Σwᵢ
//
// Only rubric criteria present in evals contribute to either sum, so an
// unevaluated criterion neither raises nor lowers the total. A criterion
// evaluated more than once counts once, with its first score. Scores are
// normalized on the rubric criterion's scale. When nothing was evaluated
// the total is 0.
func Aggregate(r *rubric.Rubric, evals []CriterionEvaluation) float64 {
	var weighted, weights float64
	seen := make(map[string]bool, len(evals))
	for _, e := range evals {
		c, ok := r.Criterion(e.ID)
		if !ok || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		weighted += c.Weight() * c.Scale().Normalize(e.Score)
		weights += c.Weight()
	}
	if weights == 0 {
		return 0
	}
	return r.OverallMaxScore() * weighted / weights
}
