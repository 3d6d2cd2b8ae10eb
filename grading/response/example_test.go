/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package response_test

import (
	"errors"
	"fmt"

	"chainguard.dev/taskgrader/grading/response"
)

func ExampleParse() {
	text := "Here is the evaluation.\n```yaml\n" + `intro: Hello Ada.
overall_evaluation: Good structure, thin tests.
overall_verdict: Pass
criteria_specific_evaluations:
  - id: tests
    name: Testing
    score_scale: 0-5
    score: 3
    justification: Only the happy path is covered.
` + "```"

	doc, err := response.Parse(text)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, e := range doc.Evaluations {
		score, _ := e.NumericScore()
		fmt.Printf("%s (%s): %g\n", e.ID, e.ScoreScale, score)
	}
	fmt.Println(doc.OverallVerdict)

	// Output:
	// tests (0-5): 3
	// Pass
}

func ExampleParse_missingKeys() {
	_, err := response.Parse("intro: hi\noverall_verdict: Fail\n")

	var perr *response.ParseError
	if errors.As(err, &perr) {
		fmt.Println(perr.Missing)
	}
	fmt.Println(err)

	// Output:
	// [overall_evaluation criteria_specific_evaluations]
	// missing required keys: overall_evaluation, criteria_specific_evaluations
}
