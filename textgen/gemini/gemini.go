/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package gemini implements textgen.Client on Google's Gen AI SDK, using
// either the Vertex AI or the Gemini API backend.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/textgen"
	"chainguard.dev/taskgrader/textgen/metrics"
	"chainguard.dev/taskgrader/textgen/retry"
	"github.com/chainguard-dev/clog"
	"google.golang.org/genai"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.5-flash"

// modelsAPI is the subset of genai.Models the client calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client generates text with a Gemini model.
type Client struct {
	api             modelsAPI
	model           string
	temperature     float32
	maxOutputTokens int32
	retry           retry.Policy
	tokens          *metrics.Tokens
}

var _ textgen.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithModel selects the Gemini model.
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "gemini-") {
			return fmt.Errorf("model %q does not appear to be a Gemini model (expected gemini-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 2.
func WithTemperature(temperature float32) Option {
	return func(c *Client) error {
		if temperature < 0 || temperature > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		c.temperature = temperature
		return nil
	}
}

// WithMaxOutputTokens caps the length of the reply.
func WithMaxOutputTokens(tokens int32) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max output tokens must be positive, got %d", tokens)
		}
		if tokens > 65536 {
			return fmt.Errorf("max output tokens %d exceeds maximum of 65536", tokens)
		}
		c.maxOutputTokens = tokens
		return nil
	}
}

// WithRetryPolicy overrides retry.Default.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Client) error {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid retry policy: %w", err)
		}
		c.retry = p
		return nil
	}
}

// WithAttributeEnricher adds caller attributes to token metrics.
func WithAttributeEnricher(e metrics.AttributeEnricher) Option {
	return func(c *Client) error {
		c.tokens.SetAttributeEnricher(e)
		return nil
	}
}

// New wraps a Gen AI client.
func New(client *genai.Client, opts ...Option) (*Client, error) {
	if client == nil {
		return nil, errors.New("genai client cannot be nil")
	}
	return newClient(client.Models, opts...)
}

// NewVertex creates a client on the Vertex AI backend using application
// default credentials.
func NewVertex(ctx context.Context, projectID, region string, opts ...Option) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: region,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return New(client, opts...)
}

// NewWithAPIKey creates a client on the Gemini API backend.
func NewWithAPIKey(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Google AI client: %w", err)
	}
	return New(client, opts...)
}

func newClient(api modelsAPI, opts ...Option) (*Client, error) {
	c := &Client{
		api:             api,
		model:           DefaultModel,
		temperature:     0.1,
		maxOutputTokens: 8192,
		retry:           retry.Default(),
		tokens:          metrics.New(metrics.MeterName),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}
	return c, nil
}

// Generate implements textgen.Client
func (c *Client) Generate(ctx context.Context, prompt string) (*textgen.Response, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     ptr(c.temperature),
		MaxOutputTokens: c.maxOutputTokens,
	}

	clog.FromContext(ctx).With("model", c.model).
		With("prompt_length", len(prompt)).
		Info("Sending prompt to Gemini")

	resp, err := retry.Do(ctx, c.retry, "gemini_generate_content", isRetryable, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		return c.api.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini: %w", err)
	}

	out := &textgen.Response{Model: c.model}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.InputTokens = int64(u.PromptTokenCount)
		out.OutputTokens = int64(u.CandidatesTokenCount)
		c.tokens.Record(ctx, "gemini", c.model, out.InputTokens, out.OutputTokens)
	}

	out.Text = resp.Text()
	if out.Text == "" {
		reason := "no candidates"
		if len(resp.Candidates) > 0 {
			reason = string(resp.Candidates[0].FinishReason)
		}
		return nil, fmt.Errorf("gemini returned no text (%s)", reason)
	}
	return out, nil
}

func ptr[T any](v T) *T {
	return &v
}

// isRetryable classifies Gen AI errors. Status codes are preferred; the
// message checks cover errors surfaced without an APIError.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.Code)
	}
	msg := err.Error()
	for _, s := range []string{"RESOURCE_EXHAUSTED", "Resource exhausted", "rate limit", "quota exceeded", "Overloaded", "UNAVAILABLE"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
