/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/taskgrader/internal/mdtable"
)

// Markdown renders the rubric for inclusion in a grading prompt. Each
// criterion row carries its scale's scoring instruction so the model sees
// the same bounds the matcher later enforces.
func (r *Rubric) Markdown() (string, error) {
	rows := make([][]string, 0, len(r.criteria))
	for _, c := range r.criteria {
		rows = append(rows, []string{
			c.id,
			mdtable.Cell(c.name),
			mdtable.Cell(c.description),
			strconv.FormatFloat(c.weight, 'g', -1, 64),
			string(c.scale),
			c.scale.Description(),
		})
	}
	table, err := mdtable.Render([]string{"ID", "Name", "Description", "Weight", "Scale", "Scoring"}, rows)
	if err != nil {
		return "", fmt.Errorf("rendering criteria table: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.title)
	if r.description != "" {
		fmt.Fprintf(&sb, "%s\n\n", r.description)
	}
	fmt.Fprintf(&sb, "Task: %s\n", r.taskID)
	fmt.Fprintf(&sb, "Maximum score: %g\n", r.overallMaxScore)
	fmt.Fprintf(&sb, "Passing score: %g\n\n", r.minPassingScore)
	sb.WriteString(table)
	return sb.String(), nil
}
