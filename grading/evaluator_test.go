/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"chainguard.dev/taskgrader/grading"
	"chainguard.dev/taskgrader/grading/response"
	"chainguard.dev/taskgrader/textgen"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

// fakeModel replies with a canned text and records the prompts it saw.
type fakeModel struct {
	text string
	err  error

	mu      sync.Mutex
	prompts []string
}

func (f *fakeModel) Generate(_ context.Context, prompt string) (*textgen.Response, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &textgen.Response{Text: f.text, Model: "fake-model"}, nil
}

func (f *fakeModel) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

func sampleSubmission() grading.Submission {
	return grading.Submission{
		KnowledgeArea:   "prompt engineering",
		Assignment:      "Assignment text here",
		Submission:      "Submission text here",
		TraineeName:     "Firstname Lastname",
		CohortSpecifics: "Agentic AI Track, Nov 2025",
		TrackName:       "Agentic AI",
	}
}

func newEvaluator(t *testing.T, client textgen.Client, opts ...grading.Option) *grading.Evaluator {
	t.Helper()
	opts = append([]grading.Option{grading.WithMetrics(prometheus.NewRegistry())}, opts...)
	e, err := grading.New(client, opts...)
	require.NoError(t, err)
	return e
}

func TestEvaluateHappyPath(t *testing.T) {
	model := &fakeModel{text: happyResponse}
	e := newEvaluator(t, model)

	res, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	require.NoError(t, err)

	require.Equal(t, "Short intro.", res.Intro)
	require.Equal(t, "Sentence one. Sentence two.", res.OverallEvaluation)
	require.Equal(t, "good", res.OverallVerdict)
	require.Equal(t, "task-1", res.TaskID)
	require.Equal(t, "fake-model", res.Model)
	require.NotEmpty(t, res.RunID)

	require.Len(t, res.Criteria, 2)
	require.Equal(t, "clarity", res.Criteria[0].ID)
	require.Equal(t, 8.0, res.Criteria[0].Score)
	require.Equal(t, "structure", res.Criteria[1].ID)
	require.Equal(t, 7.0, res.Criteria[1].Score)

	require.InDelta(t, 75.0, res.TotalScore, 1e-9)
	require.Equal(t, 100.0, res.MaxScore)
	require.True(t, res.Passed)

	prompt := model.lastPrompt()
	for _, want := range []string{
		"prompt engineering",
		"Assignment text here",
		"Submission text here",
		"Firstname Lastname",
		"Agentic AI Track, Nov 2025",
		"Clarity of intent and scope",
		"use an integer score from 0 to 10",
	} {
		require.Contains(t, prompt, want)
	}
	require.NotContains(t, prompt, "{{")
}

func TestEvaluateRunIDsDiffer(t *testing.T) {
	e := newEvaluator(t, &fakeModel{text: happyResponse})
	a, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	require.NoError(t, err)
	b, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	require.NoError(t, err)
	if a.RunID == b.RunID {
		t.Errorf("RunID: got = %q twice, wanted distinct ids", a.RunID)
	}
}

func TestEvaluateFailing(t *testing.T) {
	e := newEvaluator(t, &fakeModel{text: reply(`
  - id: clarity
    score: 2
  - id: structure
    score: 3
`)})
	res, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	require.NoError(t, err)
	require.InDelta(t, 25.0, res.TotalScore, 1e-9)
	require.False(t, res.Passed)
}

func TestEvaluateErrors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name       string
		model      *fakeModel
		wantIs     error
		wantSubstr string
	}{{
		name:       "generate",
		model:      &fakeModel{err: boom},
		wantIs:     boom,
		wantSubstr: "failed to generate evaluation",
	}, {
		name:       "parse",
		model:      &fakeModel{text: "I think the submission is great!"},
		wantIs:     response.ErrParse,
		wantSubstr: "failed to parse evaluation",
	}, {
		name:       "missing keys",
		model:      &fakeModel{text: "intro: hi\n"},
		wantIs:     response.ErrParse,
		wantSubstr: "missing required keys",
	}, {
		name:       "unknown criterion",
		model:      &fakeModel{text: reply("  - id: nonexistent\n    score: 5\n")},
		wantIs:     grading.ErrCriterionMatch,
		wantSubstr: "not found in rubric",
	}, {
		name:       "out of range",
		model:      &fakeModel{text: reply("  - id: clarity\n    score_scale: \"0-10\"\n    score: 999\n")},
		wantIs:     grading.ErrScoreRange,
		wantSubstr: "out of range",
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEvaluator(t, tt.model)
			res, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
			if err == nil {
				t.Fatalf("Evaluate: got = %v, wanted = error", res)
			}
			if res != nil {
				t.Errorf("Evaluate result: got = %v, wanted = nil", res)
			}
			if !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v): got = false, wanted = true", err, tt.wantIs)
			}
			if !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("error: got = %q, wanted containing %q", err.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestEvaluateNilReply(t *testing.T) {
	client := textgen.Func(func(context.Context, string) (*textgen.Response, error) {
		return nil, nil
	})
	e := newEvaluator(t, client)
	res, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	if err == nil {
		t.Fatalf("Evaluate: got = %v, wanted = error", res)
	}
	if !strings.Contains(err.Error(), "no response") {
		t.Errorf("error: got = %q, wanted containing %q", err.Error(), "no response")
	}
}

func TestEvaluateDuplicateEntries(t *testing.T) {
	e := newEvaluator(t, &fakeModel{text: reply(`
  - id: clarity
    score: 8
  - id: structure
    score: 6
  - id: Clarity
    score: 2
`)})
	res, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	require.NoError(t, err)
	require.Len(t, res.Criteria, 3)
	require.True(t, res.Criteria[2].Duplicate)
	require.InDelta(t, 70.0, res.TotalScore, 1e-9)
}

func TestEvaluateParseErrorDetails(t *testing.T) {
	e := newEvaluator(t, &fakeModel{text: "```yaml\nintro: hi\noverall_verdict: ok\n```"})
	_, err := e.Evaluate(context.Background(), sampleRubric(t), sampleSubmission())
	var pe *response.ParseError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, []string{"overall_evaluation", "criteria_specific_evaluations"}, pe.Missing)
}

func TestNew(t *testing.T) {
	if _, err := grading.New(nil); err == nil {
		t.Error("New(nil): got = nil, wanted = error")
	}
	client := textgen.Func(func(context.Context, string) (*textgen.Response, error) {
		return &textgen.Response{Text: happyResponse}, nil
	})
	if _, err := grading.New(client, grading.WithTemplate("{{unclosed")); err == nil {
		t.Error("WithTemplate(unclosed): got = nil, wanted = error")
	}
	if _, err := grading.New(client, grading.WithTemplate("{{submission}} {{grade}}")); err == nil {
		t.Error("WithTemplate(unknown placeholder): got = nil, wanted = error")
	}
	if _, err := grading.New(client, grading.WithMetrics(nil)); err == nil {
		t.Error("WithMetrics(nil): got = nil, wanted = error")
	}
	// Registering twice with the same registry reuses the collectors.
	reg := prometheus.NewRegistry()
	for range 2 {
		if _, err := grading.New(client, grading.WithMetrics(reg)); err != nil {
			t.Errorf("New(WithMetrics): got = %v, wanted = nil", err)
		}
	}
}

func TestPrompt(t *testing.T) {
	client := textgen.Func(func(context.Context, string) (*textgen.Response, error) {
		return nil, errors.New("unused")
	})

	t.Run("template may omit placeholders", func(t *testing.T) {
		e := newEvaluator(t, client, grading.WithTemplate("Grade this: {{submission}}"))
		got, err := e.Prompt(sampleRubric(t), sampleSubmission())
		require.NoError(t, err)
		require.Equal(t, "Grade this: Submission text here", got)
	})

	t.Run("notes are numbered", func(t *testing.T) {
		e := newEvaluator(t, client, grading.WithTemplate("Notes:\n{{other_enumerated_notes}}"))
		sub := sampleSubmission()
		sub.OtherNotes = []string{"Be kind.", "Mention tests."}
		got, err := e.Prompt(sampleRubric(t), sub)
		require.NoError(t, err)
		require.Equal(t, "Notes:\n1. Be kind.\n2. Mention tests.", got)
	})

	t.Run("values are not re-expanded", func(t *testing.T) {
		e := newEvaluator(t, client, grading.WithTemplate("{{submission}}|{{trainee_name}}"))
		sub := sampleSubmission()
		sub.Submission = "use {{trainee_name}} here"
		got, err := e.Prompt(sampleRubric(t), sub)
		require.NoError(t, err)
		require.Equal(t, "use {{trainee_name}} here|Firstname Lastname", got)
	})

	t.Run("default template binds everything", func(t *testing.T) {
		e := newEvaluator(t, client)
		got, err := e.Prompt(sampleRubric(t), sampleSubmission())
		require.NoError(t, err)
		require.Contains(t, got, "# Sample Rubric")
		require.Contains(t, got, "```yaml")
	})
}
