/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package grading scores a trainee's submission against a rubric using a
// text-generation model.
//
// An Evaluator renders a prompt from the rubric and the submission, sends
// it to a textgen.Client and parses the reply with the response package.
// Match then reconciles the model's per-criterion entries with the rubric:
// ids are matched case-insensitively and rewritten to the rubric's casing,
// and every score is checked against the range of the rubric criterion's
// own scale rather than whatever scale the model claims. Aggregate turns
// the matched scores into a weighted total on the rubric's overall scale.
//
// Failures are reported with typed errors: *response.ParseError for
// malformed replies, *CriterionMatchError for ids the rubric does not
// know, and *ScoreRangeError for scores outside their range. None of them
// is retried here.
package grading
