/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric defines scoring rubrics and their criteria.
//
// A Rubric is the single source of truth for what a valid evaluation looks
// like: which criteria exist, how each is weighted, and which numeric range
// each criterion's ScoreScale permits. Values are validated when they are
// constructed and are immutable afterwards:
//
//	clarity, err := rubric.NewCriterion("clarity", "Clarity", "How clear the intent is.", 0.5, rubric.ScaleTen)
//	if err != nil {
//		return err
//	}
//	r, err := rubric.NewRubric("task-1", "Prompt design", "", 100, 60, []rubric.Criterion{clarity})
//
// Construction failures are *ConfigError values matching ErrInvalidConfiguration.
//
// # Persistence
//
// Rubrics and criteria round-trip through JSON with the keys task_id, title,
// description, overall_max_score, min_passing_score and criteria (each
// criterion carrying id, name, description, weight and scale). Decoding runs
// the same validation as construction. Schema returns the JSON Schema of
// that format.
//
// # Scales
//
// The mapping from ScoreScale to Range and to its prompt description is a
// package-level constant table. Nothing else in the module defines score
// bounds.
package rubric
