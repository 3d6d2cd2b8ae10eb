/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveJSON writes the rubric to <dir>/<filename>.json, creating dir if needed.
func (r *Rubric) SaveJSON(dir, filename string) (string, error) {
	return writeJSON(dir, filename, r.toJSON())
}

// LoadJSON reads a rubric from <dir>/<filename>.json.
// A missing file yields an error matching fs.ErrNotExist; malformed JSON
// yields a *json.SyntaxError; invalid field values yield a *ConfigError.
func LoadJSON(dir, filename string) (*Rubric, error) {
	var r Rubric
	if err := readJSON(dir, filename, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// SaveCriterionJSON writes a single criterion to <dir>/<filename>.json.
func SaveCriterionJSON(c Criterion, dir, filename string) (string, error) {
	return writeJSON(dir, filename, c.toJSON())
}

// LoadCriterionJSON reads a single criterion from <dir>/<filename>.json.
func LoadCriterionJSON(dir, filename string) (Criterion, error) {
	var c Criterion
	if err := readJSON(dir, filename, &c); err != nil {
		return Criterion{}, err
	}
	return c, nil
}

func writeJSON(dir, filename string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	path := filepath.Join(dir, filename+".json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func readJSON(dir, filename string, v any) error {
	path := filepath.Join(dir, filename+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
