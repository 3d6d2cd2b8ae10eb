/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package response_test

import (
	"errors"
	"strings"
	"testing"

	"chainguard.dev/taskgrader/grading/response"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const wellFormed = "Sure, here you go.\n```yaml\n" + `intro: Thanks for the submission.
overall_evaluation: |
  Solid work overall.
overall_verdict: Pass
criteria_specific_evaluations:
  - id: Clarity
    name: Clarity
    score_scale: 0-10
    score: 8
    justification: Clear prompt.
  - id: structure
    name: Structure
    score_scale: 0-5
    score: 3.5
    justification: Mostly organised.
` + "```\n"

func TestParse(t *testing.T) {
	doc, err := response.Parse(wellFormed)
	require.NoError(t, err)

	if got, want := doc.Intro, "Thanks for the submission."; got != want {
		t.Errorf("Intro: got = %q, wanted = %q", got, want)
	}
	if got, want := doc.OverallEvaluation, "Solid work overall.\n"; got != want {
		t.Errorf("OverallEvaluation: got = %q, wanted = %q", got, want)
	}
	if got, want := doc.OverallVerdict, "Pass"; got != want {
		t.Errorf("OverallVerdict: got = %q, wanted = %q", got, want)
	}

	type summary struct {
		ID, Scale, Justification string
		Score                    float64
	}
	var got []summary
	for _, e := range doc.Evaluations {
		s, err := e.NumericScore()
		if err != nil {
			t.Fatalf("NumericScore(%s): %v", e.ID, err)
		}
		got = append(got, summary{e.ID, e.ScoreScale, e.Justification, s})
	}
	want := []summary{
		{"Clarity", "0-10", "Clear prompt.", 8},
		{"structure", "0-5", "Mostly organised.", 3.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("evaluations (-want, +got): %s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing []string
		wantSubstr  []string
	}{{
		name:       "sequence root",
		input:      "- a\n- b\n",
		wantSubstr: []string{"expected top-level mapping", "sequence"},
	}, {
		name:       "scalar root",
		input:      "just some prose",
		wantSubstr: []string{"expected top-level mapping", "scalar"},
	}, {
		name:       "empty",
		input:      "```yaml\n```",
		wantSubstr: []string{"expected top-level mapping"},
	}, {
		name:        "two keys missing",
		input:       "intro: hi\noverall_verdict: Pass\n",
		wantMissing: []string{"overall_evaluation", "criteria_specific_evaluations"},
		wantSubstr:  []string{"overall_evaluation", "criteria_specific_evaluations"},
	}, {
		name:        "all keys missing",
		input:       "unrelated: true\n",
		wantMissing: response.RequiredKeys(),
	}, {
		name:       "invalid yaml",
		input:      "intro: [unclosed\n",
		wantSubstr: []string{"invalid YAML"},
	}, {
		name:       "evaluations not a sequence",
		input:      "intro: a\noverall_evaluation: b\noverall_verdict: c\ncriteria_specific_evaluations: nope\n",
		wantSubstr: []string{"criteria_specific_evaluations must be a sequence"},
	}, {
		name:       "evaluation entry not a mapping",
		input:      "intro: a\noverall_evaluation: b\noverall_verdict: c\ncriteria_specific_evaluations:\n  - clarity\n",
		wantSubstr: []string{"criteria_specific_evaluations[0] must be a mapping"},
	}, {
		name:       "prose field is a mapping",
		input:      "intro:\n  nested: true\noverall_evaluation: b\noverall_verdict: c\ncriteria_specific_evaluations: []\n",
		wantSubstr: []string{"intro must be text", "mapping"},
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := response.Parse(tt.input)
			if err == nil {
				t.Fatal("Parse: got = nil, wanted = error")
			}
			if !errors.Is(err, response.ErrParse) {
				t.Errorf("errors.Is(err, ErrParse): got = false, wanted = true")
			}
			var perr *response.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("errors.As(err, *ParseError): got = false, wanted = true")
			}
			if diff := cmp.Diff(tt.wantMissing, perr.Missing); diff != "" {
				t.Errorf("Missing (-want, +got): %s", diff)
			}
			for _, s := range tt.wantSubstr {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("error: got = %q, wanted containing %q", err.Error(), s)
				}
			}
		})
	}
}

func TestParseKeepsProseVerbatim(t *testing.T) {
	doc, err := response.Parse("intro: \"  hi  \"\noverall_evaluation: \"  padded  \"\noverall_verdict: \"ok \"\ncriteria_specific_evaluations: []\n")
	require.NoError(t, err)
	got := []string{doc.Intro, doc.OverallEvaluation, doc.OverallVerdict}
	if diff := cmp.Diff([]string{"  hi  ", "  padded  ", "ok "}, got); diff != "" {
		t.Errorf("prose (-want, +got): %s", diff)
	}
}

func TestParseInlineFence(t *testing.T) {
	doc, err := response.Parse("Here is my evaluation: ```yaml\nintro: hi\noverall_evaluation: ok\noverall_verdict: pass\ncriteria_specific_evaluations: []\n```\nThanks!")
	require.NoError(t, err)
	if doc.Intro != "hi" || doc.OverallVerdict != "pass" || len(doc.Evaluations) != 0 {
		t.Errorf("Parse: got = %+v", doc)
	}
}

func TestParseInvalidYAMLUnwraps(t *testing.T) {
	_, err := response.Parse("intro: [unclosed\n")
	var perr *response.ParseError
	require.ErrorAs(t, err, &perr)
	require.Error(t, perr.Err)
}

func TestParseEmptyEvaluations(t *testing.T) {
	for _, v := range []string{"[]", "null", ""} {
		doc, err := response.Parse("intro: a\noverall_evaluation: b\noverall_verdict: c\ncriteria_specific_evaluations: " + v + "\n")
		if err != nil {
			t.Fatalf("Parse(%q): %v", v, err)
		}
		if len(doc.Evaluations) != 0 {
			t.Errorf("Evaluations(%q): got = %d, wanted = 0", v, len(doc.Evaluations))
		}
	}
}

func TestNumericScore(t *testing.T) {
	tests := []struct {
		score   string
		want    float64
		wantErr bool
	}{
		{score: "score: 8", want: 8},
		{score: "score: 0", want: 0},
		{score: "score: 7.5", want: 7.5},
		{score: "score: -1", want: -1},
		{score: "score: 999", want: 999},
		{score: `score: "8"`, wantErr: true},
		{score: "score: eight", wantErr: true},
		{score: "score: true", wantErr: true},
		{score: "score: null", wantErr: true},
		{score: "score: [1, 2]", wantErr: true},
		{score: "other: 1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.score, func(t *testing.T) {
			var e response.Entry
			require.NoError(t, yaml.Unmarshal([]byte("id: x\n"+tt.score), &e))
			got, err := e.NumericScore()
			if (err != nil) != tt.wantErr {
				t.Fatalf("NumericScore: got err = %v, wanted error = %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NumericScore: got = %v, wanted = %v", got, tt.want)
			}
		})
	}
}

func TestEntryRawScore(t *testing.T) {
	for input, want := range map[string]string{
		"score: eight":  "eight",
		"score: [1]":    "<sequence>",
		"justification": "<missing>",
	} {
		var e response.Entry
		if input != "justification" {
			require.NoError(t, yaml.Unmarshal([]byte(input), &e))
		}
		if got := e.RawScore(); got != want {
			t.Errorf("RawScore(%q): got = %q, wanted = %q", input, got, want)
		}
	}
}
