/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package provider builds a textgen.Client from Config, choosing the
// backend from the model name: claude-* models go to Anthropic, gemini-*
// models to Google and gpt-*, o1*, o3* and o4* models to OpenAI.
package provider

import (
	"context"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/textgen"
	"chainguard.dev/taskgrader/textgen/claude"
	"chainguard.dev/taskgrader/textgen/gemini"
	"chainguard.dev/taskgrader/textgen/metrics"
	"chainguard.dev/taskgrader/textgen/openai"
	"chainguard.dev/taskgrader/textgen/retry"
)

// Kind names a backend.
type Kind string

const (
	Claude Kind = "claude"
	Gemini Kind = "gemini"
	OpenAI Kind = "openai"
)

// KindOf returns the backend serving model.
func KindOf(model string) (Kind, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "claude-"):
		return Claude, nil
	case strings.HasPrefix(lower, "gemini-"):
		return Gemini, nil
	case openai.IsModel(lower):
		return OpenAI, nil
	}
	return "", fmt.Errorf("unsupported model: %s (expected claude-*, gemini-*, gpt-*, o1*, o3* or o4*)", model)
}

// New creates the client for cfg.Model. The enricher, when non-nil, is
// attached to the client's token metrics.
func New(ctx context.Context, cfg *Config, enricher metrics.AttributeEnricher) (textgen.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind, err := KindOf(cfg.Model)
	if err != nil {
		return nil, err
	}

	policy := retry.Default()
	policy.MaxRetries = cfg.MaxRetries

	switch kind {
	case Claude:
		opts := []claude.Option{
			claude.WithModel(cfg.Model),
			claude.WithTemperature(cfg.Temperature),
			claude.WithMaxTokens(cfg.MaxTokens),
			claude.WithRetryPolicy(policy),
		}
		if enricher != nil {
			opts = append(opts, claude.WithAttributeEnricher(enricher))
		}
		if cfg.AnthropicAPIKey != "" {
			return asClient(claude.NewWithAPIKey(cfg.AnthropicAPIKey, opts...))
		}
		project, err := cfg.project(ctx)
		if err != nil {
			return nil, err
		}
		return asClient(claude.NewVertex(ctx, project, cfg.Region, opts...))

	case Gemini:
		opts := []gemini.Option{
			gemini.WithModel(cfg.Model),
			gemini.WithTemperature(float32(cfg.Temperature)),
			gemini.WithMaxOutputTokens(int32(min(cfg.MaxTokens, 65536))),
			gemini.WithRetryPolicy(policy),
		}
		if enricher != nil {
			opts = append(opts, gemini.WithAttributeEnricher(enricher))
		}
		if cfg.GeminiAPIKey != "" {
			return asClient(gemini.NewWithAPIKey(ctx, cfg.GeminiAPIKey, opts...))
		}
		project, err := cfg.project(ctx)
		if err != nil {
			return nil, err
		}
		return asClient(gemini.NewVertex(ctx, project, cfg.Region, opts...))

	default:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for model %s", cfg.Model)
		}
		opts := []openai.Option{
			openai.WithModel(cfg.Model),
			openai.WithTemperature(cfg.Temperature),
			openai.WithMaxTokens(cfg.MaxTokens),
			openai.WithRetryPolicy(policy),
		}
		if enricher != nil {
			opts = append(opts, openai.WithAttributeEnricher(enricher))
		}
		return asClient(openai.NewWithAPIKey(cfg.OpenAIAPIKey, opts...))
	}
}

// asClient converts a concrete client so that a failed constructor yields a
// nil interface rather than a typed nil.
func asClient[C textgen.Client](c C, err error) (textgen.Client, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
