/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package textgen defines the contract between the grader and the
// text-generation model that writes evaluations. Concrete clients live in
// the claude, gemini and openai subpackages; provider picks one from
// configuration.
package textgen

import "context"

// Response is the model's reply to a single prompt.
type Response struct {
	// Text is the concatenated textual content of the reply.
	Text string
	// Model is the model that produced the reply, as reported by the API
	// when available.
	Model string

	InputTokens  int64
	OutputTokens int64
}

// Client sends one prompt and returns one reply. Implementations own any
// retry or timeout policy; callers treat Generate as a single blocking call.
type Client interface {
	Generate(ctx context.Context, prompt string) (*Response, error)
}

// Func adapts a function to the Client interface.
type Func func(ctx context.Context, prompt string) (*Response, error)

// Generate implements Client
func (f Func) Generate(ctx context.Context, prompt string) (*Response, error) {
	return f(ctx, prompt)
}
