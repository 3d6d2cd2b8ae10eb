/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package provider

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/compute/metadata"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
)

// Config selects and tunes the text-generation backend.
type Config struct {
	Model   string `env:"GRADER_MODEL,default=gemini-2.5-flash"`
	Project string `env:"GOOGLE_CLOUD_PROJECT"`
	Region  string `env:"GOOGLE_CLOUD_REGION,default=us-east5"`

	// API keys bypass Vertex AI for the matching provider.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	GeminiAPIKey    string `env:"GEMINI_API_KEY"`

	Temperature float64 `env:"GRADER_TEMPERATURE,default=0.1"`
	MaxTokens   int64   `env:"GRADER_MAX_TOKENS,default=8192"`
	MaxRetries  int     `env:"GRADER_MAX_RETRIES,default=5"`
}

// LoadConfig reads Config from the process environment.
func LoadConfig(ctx context.Context) (*Config, error) {
	return LoadConfigWith(ctx, envconfig.OsLookuper())
}

// LoadConfigWith reads Config through l.
func LoadConfigWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges that apply to every provider.
func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return errors.New("GRADER_MODEL must not be empty")
	case c.MaxTokens <= 0:
		return fmt.Errorf("GRADER_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	case c.MaxRetries < 0:
		return fmt.Errorf("GRADER_MAX_RETRIES cannot be negative, got %d", c.MaxRetries)
	case c.Temperature < 0:
		return fmt.Errorf("GRADER_TEMPERATURE cannot be negative, got %v", c.Temperature)
	}
	return nil
}

// Indirection for tests.
var (
	onGCE     = metadata.OnGCE
	projectID = metadata.ProjectIDWithContext
)

// project returns the configured project, falling back to the metadata
// server when running on Google Cloud.
func (c *Config) project(ctx context.Context) (string, error) {
	if c.Project != "" {
		return c.Project, nil
	}
	if !onGCE() {
		return "", errors.New("GOOGLE_CLOUD_PROJECT is required outside Google Cloud")
	}
	id, err := projectID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to detect project ID: %w", err)
	}
	clog.FromContext(ctx).With("project_id", id).Info("Detected Google Cloud project")
	return id, nil
}
