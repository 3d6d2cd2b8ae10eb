/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/taskgrader/internal/mdtable"
)

// Result is the outcome of one evaluation run.
type Result struct {
	// RunID correlates the result with logs and traces.
	RunID  string `json:"run_id"`
	TaskID string `json:"task_id"`
	Model  string `json:"model,omitempty"`

	Intro             string `json:"intro"`
	OverallEvaluation string `json:"overall_evaluation"`
	OverallVerdict    string `json:"overall_verdict"`

	Criteria   []CriterionEvaluation `json:"criteria"`
	TotalScore float64               `json:"total_score"`
	MaxScore   float64               `json:"max_score"`
	// Passed reports whether TotalScore reached the rubric's passing score.
	Passed bool `json:"passed"`
}

// String returns a compact plain-text summary.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total: %.2f/%g (%s)", r.TotalScore, r.MaxScore, r.status())
	if r.OverallVerdict != "" {
		fmt.Fprintf(&sb, " - %s", r.OverallVerdict)
	}
	sb.WriteString("\n")
	for _, c := range r.Criteria {
		fmt.Fprintf(&sb, "  %s: %g on %s", c.ID, c.Score, c.ScoreScale)
		if c.Justification != "" {
			fmt.Fprintf(&sb, " - %s", c.Justification)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (r *Result) status() string {
	if r.Passed {
		return "pass"
	}
	return "fail"
}

// Markdown renders the result as a report for the trainee.
func (r *Result) Markdown() (string, error) {
	rows := make([][]string, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		rows = append(rows, []string{
			c.ID,
			mdtable.Cell(c.Name),
			strconv.FormatFloat(c.Score, 'g', -1, 64),
			string(c.ScoreScale),
			mdtable.Cell(c.Justification),
		})
	}
	table, err := mdtable.Render([]string{"ID", "Criterion", "Score", "Scale", "Justification"}, rows)
	if err != nil {
		return "", fmt.Errorf("rendering criteria table: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Evaluation: %s\n\n", r.TaskID)
	fmt.Fprintf(&sb, "**Total score:** %.2f / %g (%s)\n\n", r.TotalScore, r.MaxScore, r.status())
	if r.Intro != "" {
		fmt.Fprintf(&sb, "%s\n\n", r.Intro)
	}
	if r.OverallEvaluation != "" {
		fmt.Fprintf(&sb, "## Overall evaluation\n\n%s\n\n", r.OverallEvaluation)
	}
	if r.OverallVerdict != "" {
		fmt.Fprintf(&sb, "**Verdict:** %s\n\n", r.OverallVerdict)
	}
	sb.WriteString("## Criteria\n\n")
	sb.WriteString(table)
	return sb.String(), nil
}
