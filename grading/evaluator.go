/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"context"
	"errors"
	"fmt"

	"chainguard.dev/taskgrader/grading/response"
	"chainguard.dev/taskgrader/grading/rubric"
	"chainguard.dev/taskgrader/promptbuilder"
	"chainguard.dev/taskgrader/textgen"
	"github.com/chainguard-dev/clog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrPrompt wraps failures to render the grading prompt.
var ErrPrompt = errors.New("failed to build prompt")

// Interface grades one submission against a rubric.
type Interface interface {
	Evaluate(ctx context.Context, r *rubric.Rubric, sub Submission) (*Result, error)
}

// Evaluator renders the grading prompt, asks the model for an evaluation
// and turns the reply into a scored Result. An Evaluator holds no
// per-run state and may be used concurrently.
type Evaluator struct {
	client   textgen.Client
	template *promptbuilder.Prompt
	metrics  *evalMetrics
	tracer   trace.Tracer
}

var _ Interface = (*Evaluator)(nil)

// Option configures an Evaluator.
type Option func(*Evaluator) error

// WithTemplate replaces DefaultTemplate. The template may use any subset of
// the Placeholder* names and no others.
func WithTemplate(text string) Option {
	return func(e *Evaluator) error {
		p, err := promptbuilder.Parse(text)
		if err != nil {
			return fmt.Errorf("invalid template: %w", err)
		}
		known := map[string]bool{
			PlaceholderKnowledgeArea: true, PlaceholderRubric: true, PlaceholderAssignment: true,
			PlaceholderSubmission: true, PlaceholderTraineeName: true, PlaceholderCohortSpecifics: true,
			PlaceholderTrackName: true, PlaceholderOtherNotes: true,
		}
		for _, name := range p.Placeholders() {
			if !known[name] {
				return fmt.Errorf("invalid template: unknown placeholder %q", name)
			}
		}
		e.template = p
		return nil
	}
}

// WithMetrics registers the evaluator's Prometheus collectors with reg
// instead of the default registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Evaluator) error {
		if reg == nil {
			return errors.New("registerer cannot be nil")
		}
		m, err := newEvalMetrics(reg)
		if err != nil {
			return fmt.Errorf("registering metrics: %w", err)
		}
		e.metrics = m
		return nil
	}
}

// New creates an Evaluator that sends prompts to client.
func New(client textgen.Client, opts ...Option) (*Evaluator, error) {
	if client == nil {
		return nil, errors.New("text generation client cannot be nil")
	}
	e := &Evaluator{
		client:   client,
		template: promptbuilder.MustParse(DefaultTemplate),
		metrics:  defaultMetrics,
		tracer:   otel.Tracer("chainguard.dev/taskgrader/grading", trace.WithInstrumentationVersion("1.0.0")),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return e, nil
}

// Prompt renders the grading prompt for sub without calling the model.
func (e *Evaluator) Prompt(r *rubric.Rubric, sub Submission) (string, error) {
	p, err := promptbuilder.BindAll(e.template, rubricBinding{r: r}, sub)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPrompt, err)
	}
	out, err := p.Build()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPrompt, err)
	}
	return out, nil
}

// Evaluate implements Interface. Any failure is terminal for this run;
// no retries happen here. Typed errors from the response parser and the
// matcher stay reachable through errors.As.
func (e *Evaluator) Evaluate(ctx context.Context, r *rubric.Rubric, sub Submission) (res *Result, err error) {
	if r == nil {
		return nil, errors.New("rubric cannot be nil")
	}
	runID := uuid.NewString()

	ctx, span := e.tracer.Start(ctx, "grading.evaluate", trace.WithAttributes(
		attribute.String("task_id", r.TaskID()),
		attribute.String("run_id", runID),
	))
	defer func() {
		e.metrics.observe(r.TaskID(), res, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(
				attribute.Float64("total_score", res.TotalScore),
				attribute.Bool("passed", res.Passed),
			)
			span.SetStatus(codes.Ok, "")
		}
		span.End()
	}()

	log := clog.FromContext(ctx).With("task_id", r.TaskID()).With("run_id", runID)
	ctx = clog.WithLogger(ctx, log)

	prompt, err := e.Prompt(r, sub)
	if err != nil {
		return nil, err
	}
	log.With("prompt_length", len(prompt)).Info("Starting evaluation")

	reply, err := e.client.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate evaluation: %w", err)
	}
	if reply == nil {
		return nil, errors.New("failed to generate evaluation: client returned no response")
	}
	span.SetAttributes(attribute.String("model", reply.Model))
	log.With("model", reply.Model).
		With("response_length", len(reply.Text)).
		Info("Received model response")

	doc, err := response.Parse(reply.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse evaluation: %w", err)
	}

	evals, err := Match(r, doc.Evaluations)
	if err != nil {
		return nil, fmt.Errorf("failed to match criteria: %w", err)
	}
	for _, ce := range evals {
		if ce.ScaleMismatch() {
			log.With("criterion", ce.ID).
				With("reported_scale", ce.ReportedScale).
				With("rubric_scale", string(ce.ScoreScale)).
				Warn("Model reported a different scale than the rubric, using the rubric's scale")
		}
		if ce.Duplicate {
			log.With("criterion", ce.ID).Warn("Criterion evaluated more than once, keeping the first score")
		}
	}

	total := Aggregate(r, evals)
	res = &Result{
		RunID:             runID,
		TaskID:            r.TaskID(),
		Model:             reply.Model,
		Intro:             doc.Intro,
		OverallEvaluation: doc.OverallEvaluation,
		OverallVerdict:    doc.OverallVerdict,
		Criteria:          evals,
		TotalScore:        total,
		MaxScore:          r.OverallMaxScore(),
		Passed:            r.Passes(total),
	}
	log.With("total_score", total).
		With("passed", res.Passed).
		With("evaluated", len(evals)).
		Info("Evaluation complete")
	return res, nil
}

// outcomeOf classifies err for the evaluations counter.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, ErrPrompt):
		return outcomePromptError
	case errors.Is(err, response.ErrParse):
		return outcomeParseError
	case errors.Is(err, ErrCriterionMatch):
		return outcomeMatchError
	case errors.Is(err, ErrScoreRange):
		return outcomeRangeError
	default:
		return outcomeGenerateError
	}
}
