/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package metrics_test

import (
	"context"
	"errors"
	"testing"

	"chainguard.dev/taskgrader/textgen/metrics"
	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type recordingCounter struct {
	noop.Int64Counter
	total int64
	attrs attribute.Set
}

func (c *recordingCounter) Add(_ context.Context, incr int64, opts ...metric.AddOption) {
	c.total += incr
	c.attrs = metric.NewAddConfig(opts).Attributes()
}

type recordingMeter struct {
	noop.Meter
	fail     bool
	counters map[string]*recordingCounter
}

func (m *recordingMeter) Int64Counter(name string, _ ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	if m.fail {
		return nil, errors.New("boom")
	}
	c := &recordingCounter{}
	m.counters[name] = c
	return c, nil
}

type taskKey struct{}

func TestRecord(t *testing.T) {
	meter := &recordingMeter{counters: map[string]*recordingCounter{}}
	tokens := metrics.NewWithMeter(meter)
	tokens.SetAttributeEnricher(func(ctx context.Context, base []attribute.KeyValue) []attribute.KeyValue {
		if id, ok := ctx.Value(taskKey{}).(string); ok {
			base = append(base, attribute.String("task_id", id))
		}
		return base
	})

	ctx := context.WithValue(context.Background(), taskKey{}, "task-7")
	tokens.Record(ctx, "claude", "claude-sonnet-4", 120, 30)
	tokens.Record(ctx, "claude", "claude-sonnet-4", 80, 20)

	want := map[string]int64{"genai.token.prompt": 200, "genai.token.completion": 50}
	got := map[string]int64{}
	for name, c := range meter.counters {
		got[name] = c.total
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("totals (-want, +got): %s", diff)
	}

	attrs := meter.counters["genai.token.prompt"].attrs
	for k, v := range map[attribute.Key]string{"provider": "claude", "model": "claude-sonnet-4", "task_id": "task-7"} {
		if got, ok := attrs.Value(k); !ok || got.AsString() != v {
			t.Errorf("attribute %s: got = %v, wanted = %q", k, got, v)
		}
	}
}

func TestNewWithFailingMeter(t *testing.T) {
	tokens := metrics.NewWithMeter(&recordingMeter{fail: true})
	// Falls back to no-op counters rather than panicking.
	tokens.Record(context.Background(), "gemini", "gemini-2.5-flash", 1, 1)
}
