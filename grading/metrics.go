/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for the evaluations counter.
const (
	outcomeSuccess       = "success"
	outcomePromptError   = "prompt_error"
	outcomeGenerateError = "generate_error"
	outcomeParseError    = "parse_error"
	outcomeMatchError    = "match_error"
	outcomeRangeError    = "range_error"
)

type evalMetrics struct {
	evaluations *prometheus.CounterVec
	scoreRatio  *prometheus.HistogramVec
	mismatches  *prometheus.CounterVec
	duplicates  *prometheus.CounterVec
}

func evaluationsOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Name: "taskgrader_evaluations_total",
		Help: "Total number of evaluation runs by task and outcome",
	}
}

func scoreRatioOpts() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:    "taskgrader_score_ratio",
		Help:    "Total score as a fraction of the rubric's maximum score",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	}
}

func mismatchesOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Name: "taskgrader_scale_mismatches_total",
		Help: "Criterion evaluations whose echoed scale label disagreed with the rubric",
	}
}

func duplicatesOpts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Name: "taskgrader_duplicate_evaluations_total",
		Help: "Criterion evaluations repeated within one model response",
	}
}

// defaultMetrics are registered with the default registry.
var defaultMetrics = &evalMetrics{
	evaluations: promauto.NewCounterVec(evaluationsOpts(), []string{"task_id", "outcome"}),
	scoreRatio:  promauto.NewHistogramVec(scoreRatioOpts(), []string{"task_id"}),
	mismatches:  promauto.NewCounterVec(mismatchesOpts(), []string{"task_id", "criterion"}),
	duplicates:  promauto.NewCounterVec(duplicatesOpts(), []string{"task_id", "criterion"}),
}

// newEvalMetrics registers the collectors with reg, reusing collectors that
// an earlier Evaluator already registered there.
func newEvalMetrics(reg prometheus.Registerer) (*evalMetrics, error) {
	evaluations, err := register(reg, prometheus.NewCounterVec(evaluationsOpts(), []string{"task_id", "outcome"}))
	if err != nil {
		return nil, err
	}
	scoreRatio, err := register(reg, prometheus.NewHistogramVec(scoreRatioOpts(), []string{"task_id"}))
	if err != nil {
		return nil, err
	}
	mismatches, err := register(reg, prometheus.NewCounterVec(mismatchesOpts(), []string{"task_id", "criterion"}))
	if err != nil {
		return nil, err
	}
	duplicates, err := register(reg, prometheus.NewCounterVec(duplicatesOpts(), []string{"task_id", "criterion"}))
	if err != nil {
		return nil, err
	}
	return &evalMetrics{evaluations: evaluations, scoreRatio: scoreRatio, mismatches: mismatches, duplicates: duplicates}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, err
	}
	return c, nil
}

func (m *evalMetrics) observe(taskID string, res *Result, err error) {
	m.evaluations.WithLabelValues(taskID, outcomeOf(err)).Inc()
	if err != nil {
		return
	}
	if res.MaxScore > 0 {
		m.scoreRatio.WithLabelValues(taskID).Observe(res.TotalScore / res.MaxScore)
	}
	for _, c := range res.Criteria {
		if c.ScaleMismatch() {
			m.mismatches.WithLabelValues(taskID, c.ID).Inc()
		}
		if c.Duplicate {
			m.duplicates.WithLabelValues(taskID, c.ID).Inc()
		}
	}
}
