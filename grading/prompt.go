/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

// DefaultTemplate is the grading prompt used unless WithTemplate is given.
// It asks for the YAML document the response package parses.
const DefaultTemplate = `<role>
You are an experienced instructor in {{knowledge_area}} grading a trainee's
assignment for the {{track_name}} track ({{cohort_specifics}}).
</role>

<rubric>
{{rubric}}
</rubric>

<assignment>
{{assignment}}
</assignment>

<submission trainee="{{trainee_name}}">
{{submission}}
</submission>

<instructions>
1. Read the assignment and the submission in full before scoring.
2. Score every rubric criterion independently. Use the criterion id exactly
   as written in the rubric and stay within the scoring range listed for it.
3. Justify each score with concrete references to the submission.
4. Address the trainee by name in the intro and keep the tone constructive.
5. Also take the following notes into account:
{{other_enumerated_notes}}
</instructions>

<output_format>
Reply with a single YAML document inside a ` + "```yaml" + ` fenced block and
nothing else:

` + "```yaml" + `
intro: one or two sentences addressed to the trainee
overall_evaluation: a short paragraph summarizing strengths and gaps
overall_verdict: one sentence verdict
criteria_specific_evaluations:
  - id: the criterion id from the rubric
    name: the criterion name
    score_scale: the criterion scale, for example 0-10
    score: an integer within the criterion's range
    justification: why this score was given
` + "```" + `

Scores must be plain numbers, not quoted strings.
</output_format>
`
