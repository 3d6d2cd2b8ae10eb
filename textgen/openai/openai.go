/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package openai implements textgen.Client on OpenAI chat completions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/textgen"
	"chainguard.dev/taskgrader/textgen/metrics"
	"chainguard.dev/taskgrader/textgen/retry"
	"github.com/chainguard-dev/clog"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gpt-4.1"

// completionsAPI is the subset of openai.ChatCompletionService the client calls.
type completionsAPI interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client generates text with an OpenAI model.
type Client struct {
	api         completionsAPI
	model       string
	temperature float64
	maxTokens   int64
	retry       retry.Policy
	tokens      *metrics.Tokens
}

var _ textgen.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// IsModel reports whether model names an OpenAI chat model.
func IsModel(model string) bool {
	for _, p := range []string{"gpt-", "o1", "o3", "o4"} {
		if strings.HasPrefix(model, p) {
			return true
		}
	}
	return false
}

// reasoning models reject a temperature parameter.
func reasoning(model string) bool {
	return !strings.HasPrefix(model, "gpt-")
}

// WithModel selects the model.
func WithModel(model string) Option {
	return func(c *Client) error {
		if !IsModel(model) {
			return fmt.Errorf("model %q does not appear to be an OpenAI model (expected gpt-*, o1*, o3* or o4*)", model)
		}
		c.model = model
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 2. It is
// ignored by reasoning models.
func WithTemperature(temp float64) Option {
	return func(c *Client) error {
		if temp < 0 || temp > 2 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temp)
		}
		c.temperature = temp
		return nil
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(tokens int64) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		c.maxTokens = tokens
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

// New wraps an OpenAI client.
func New(client openai.Client, opts ...Option) (*Client, error) {
	return newClient(&client.Chat.Completions, opts...)
}

// NewWithAPIKey creates a client against the OpenAI API.
func NewWithAPIKey(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return New(openai.NewClient(option.WithAPIKey(apiKey)), opts...)
}

func newClient(api completionsAPI, opts ...Option) (*Client, error) {
	c := &Client{
		api:         api,
		model:       DefaultModel,
		temperature: 0.1,
		maxTokens:   8192,
		retry:       retry.Default(),
		tokens:      metrics.New(metrics.MeterName),
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
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(c.maxTokens),
	}
	if !reasoning(c.model) {
		params.Temperature = openai.Float(c.temperature)
	}

	clog.FromContext(ctx).With("model", c.model).
		With("prompt_length", len(prompt)).
		Info("Sending prompt to OpenAI")

	completion, err := retry.Do(ctx, c.retry, "openai_chat_completion", isRetryable, func(ctx context.Context) (*openai.ChatCompletion, error) {
		return c.api.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call OpenAI: %w", err)
	}

	c.tokens.Record(ctx, "openai", c.model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		reason := "no choices"
		if len(completion.Choices) > 0 {
			reason = string(completion.Choices[0].FinishReason)
		}
		return nil, fmt.Errorf("openai returned no text (%s)", reason)
	}

	model := completion.Model
	if model == "" {
		model = c.model
	}
	return &textgen.Response{
		Text:         completion.Choices[0].Message.Content,
		Model:        model,
		InputTokens:  completion.Usage.PromptTokens,
		OutputTokens: completion.Usage.CompletionTokens,
	}, nil
}

func isRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return false
}
