/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// binding produces the text substituted for a placeholder.
type binding interface {
	value() (string, error)
}

type textBinding string

func (t textBinding) value() (string, error) { return string(t), nil }

type jsonBinding struct{ data any }

func (j jsonBinding) value() (string, error) {
	b, err := json.MarshalIndent(j.data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(b), nil
}

type yamlBinding struct{ data any }

func (y yamlBinding) value() (string, error) {
	b, err := yaml.Marshal(y.data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(b), "\n"), nil
}

// listBinding renders items as a numbered list, one per line.
type listBinding []string

func (l listBinding) value() (string, error) {
	lines := make([]string, 0, len(l))
	for i, item := range l {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, item))
	}
	return strings.Join(lines, "\n"), nil
}
