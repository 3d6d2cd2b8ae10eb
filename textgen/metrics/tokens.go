/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package metrics records token usage of text-generation calls as
// OpenTelemetry counters.
package metrics

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// MeterName is shared by every client so that token usage from different
// providers lands in the same instruments, split by the model attribute.
const MeterName = "chainguard.dev/taskgrader/textgen"

// AttributeEnricher adds caller context (task id, cohort, ...) to the base
// attributes recorded with each measurement.
type AttributeEnricher func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue

// Tokens holds the prompt and completion token counters.
type Tokens struct {
	prompt     metric.Int64Counter
	completion metric.Int64Counter
	enricher   AttributeEnricher
}

// New creates token counters on the global meter provider. A counter that
// cannot be created is replaced by a no-op and a warning is logged.
func New(meterName string) *Tokens {
	return NewWithMeter(otel.Meter(meterName, metric.WithInstrumentationVersion("1.0.0")))
}

// NewWithMeter is New with an explicit meter.
func NewWithMeter(meter metric.Meter) *Tokens {
	prompt, err := meter.Int64Counter("genai.token.prompt",
		metric.WithDescription("The number of prompt tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create prompt tokens counter, metrics will be disabled", "error", err)
		prompt = noop.Int64Counter{}
	}
	completion, err := meter.Int64Counter("genai.token.completion",
		metric.WithDescription("The number of completion tokens used"),
		metric.WithUnit("{tokens}"))
	if err != nil {
		slog.Warn("Failed to create completion tokens counter, metrics will be disabled", "error", err)
		completion = noop.Int64Counter{}
	}
	return &Tokens{prompt: prompt, completion: completion}
}

// SetAttributeEnricher installs an enricher consulted on every recording.
func (t *Tokens) SetAttributeEnricher(e AttributeEnricher) {
	t.enricher = e
}

// Record adds one call's token usage, tagged with the model and provider.
func (t *Tokens) Record(ctx context.Context, provider, model string, promptTokens, completionTokens int64) {
	attrs := []attribute.KeyValue{
		attribute.String("provider", provider),
		attribute.String("model", model),
	}
	if t.enricher != nil {
		attrs = t.enricher(ctx, attrs)
	}
	opt := metric.WithAttributes(attrs...)
	t.prompt.Add(ctx, promptTokens, opt)
	t.completion.Add(ctx, completionTokens, opt)
}
