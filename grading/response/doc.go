/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package response reads the free-form evaluation a text-generation model
// returns. The model is asked for a YAML document, usually wrapped in a
// fenced code block:
//
//	intro: ...
//	overall_evaluation: ...
//	overall_verdict: ...
//	criteria_specific_evaluations:
//	  - id: clarity
//	    name: Clarity
//	    score_scale: 0-10
//	    score: 8
//	    justification: ...
//
// Parse strips the fence, checks the top-level shape and returns a typed
// Document. Scores stay as raw YAML nodes; range checks against the rubric
// belong to the grading package.
package response
