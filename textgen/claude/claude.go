/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package claude implements textgen.Client on Anthropic's Messages API,
// reached either through Vertex AI or directly with an API key.
package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"chainguard.dev/taskgrader/textgen"
	"chainguard.dev/taskgrader/textgen/metrics"
	"chainguard.dev/taskgrader/textgen/retry"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/vertex"
	"github.com/chainguard-dev/clog"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "claude-sonnet-4@20250514"

// messagesAPI is the subset of anthropic.MessageService the client calls.
type messagesAPI interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Client generates text with a Claude model.
type Client struct {
	api         messagesAPI
	model       string
	maxTokens   int64
	temperature float64
	retry       retry.Policy
	tokens      *metrics.Tokens
}

var _ textgen.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client) error

// WithModel selects the Claude model.
func WithModel(model string) Option {
	return func(c *Client) error {
		if !strings.HasPrefix(model, "claude-") {
			return fmt.Errorf("model %q does not appear to be a Claude model (expected claude-* format)", model)
		}
		c.model = model
		return nil
	}
}

// WithMaxTokens caps the length of the reply.
func WithMaxTokens(tokens int64) Option {
	return func(c *Client) error {
		if tokens <= 0 {
			return fmt.Errorf("max tokens must be positive, got %d", tokens)
		}
		if tokens > 32000 {
			return fmt.Errorf("max tokens %d exceeds maximum of 32000", tokens)
		}
		c.maxTokens = tokens
		return nil
	}
}

// WithTemperature sets the sampling temperature, between 0 and 1.
func WithTemperature(temp float64) Option {
	return func(c *Client) error {
		if temp < 0 || temp > 1 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		c.temperature = temp
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

// New wraps an Anthropic client.
func New(client anthropic.Client, opts ...Option) (*Client, error) {
	return newClient(&client.Messages, opts...)
}

// NewVertex creates a client authenticated with Google credentials against
// Claude on Vertex AI.
func NewVertex(ctx context.Context, projectID, region string, opts ...Option) (*Client, error) {
	if projectID == "" {
		return nil, errors.New("project id is required for Vertex AI")
	}
	return New(anthropic.NewClient(vertex.WithGoogleAuth(ctx, region, projectID)), opts...)
}

// NewWithAPIKey creates a client against the Anthropic API.
func NewWithAPIKey(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic API key is required")
	}
	return New(anthropic.NewClient(option.WithAPIKey(apiKey)), opts...)
}

func newClient(api messagesAPI, opts ...Option) (*Client, error) {
	c := &Client{
		api:         api,
		model:       DefaultModel,
		maxTokens:   8192,
		temperature: 0.1,
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
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(c.temperature),
	}

	clog.FromContext(ctx).With("model", c.model).
		With("prompt_length", len(prompt)).
		Info("Sending prompt to Claude")

	msg, err := retry.Do(ctx, c.retry, "claude_messages", isRetryable, func(ctx context.Context) (*anthropic.Message, error) {
		return c.api.New(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call Claude: %w", err)
	}

	c.tokens.Record(ctx, "claude", c.model, msg.Usage.InputTokens, msg.Usage.OutputTokens)

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("claude returned no text (stop reason %q)", msg.StopReason)
	}

	model := string(msg.Model)
	if model == "" {
		model = c.model
	}
	return &textgen.Response{
		Text:         sb.String(),
		Model:        model,
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}

func isRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return retry.RetryableStatus(apiErr.StatusCode)
	}
	return false
}
