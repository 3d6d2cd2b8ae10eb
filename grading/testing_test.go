/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading_test

import (
	"math"
	"testing"

	"chainguard.dev/taskgrader/grading/response"
	"chainguard.dev/taskgrader/grading/rubric"
)

func sampleRubric(t *testing.T) *rubric.Rubric {
	t.Helper()
	clarity, err := rubric.NewCriterion("clarity", "Clarity of intent and scope",
		"How clearly the evaluation intent and scope are stated.", 0.5, rubric.ScaleTen)
	if err != nil {
		t.Fatalf("NewCriterion: %v", err)
	}
	structure, err := rubric.NewCriterion("structure", "Prompt structure",
		"How well-structured and modular the prompt is.", 0.5, rubric.ScaleTen)
	if err != nil {
		t.Fatalf("NewCriterion: %v", err)
	}
	r, err := rubric.NewRubric("task-1", "Sample Rubric",
		"Evaluate how well the trainee designs a prompt template.", 100, 60,
		[]rubric.Criterion{clarity, structure})
	if err != nil {
		t.Fatalf("NewRubric: %v", err)
	}
	return r
}

const happyResponse = "```yaml\n" + `intro: "Short intro."
overall_evaluation: "Sentence one. Sentence two."
overall_verdict: "good"
criteria_specific_evaluations:
  - id: "Clarity"
    name: "Clarity of intent and scope"
    score_scale: "0-10"
    score: 8
    justification: "Generally clear."
  - id: "structure"
    name: "Prompt structure"
    score_scale: "0-10"
    score: 7
    justification: "Reasonably structured."
` + "```"

// reply wraps evaluation entries in a complete response document.
func reply(evaluations string) string {
	return "intro: x\noverall_evaluation: y\noverall_verdict: good\ncriteria_specific_evaluations:\n" + evaluations
}

func parseEntries(t *testing.T, evaluations string) []response.Entry {
	t.Helper()
	doc, err := response.Parse(reply(evaluations))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc.Evaluations
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
