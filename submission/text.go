/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package submission

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// notebook is the subset of the Jupyter format ReadText needs.
type notebook struct {
	Cells []struct {
		CellType string          `json:"cell_type"`
		Source   json.RawMessage `json:"source"`
	} `json:"cells"`
}

// ReadText loads a downloaded file as submission text. Jupyter notebooks
// are flattened to their cell sources, each introduced by a "# [type]"
// line; every other format is returned as is.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if !strings.EqualFold(filepath.Ext(path), ".ipynb") {
		return string(data), nil
	}

	var nb notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return "", fmt.Errorf("decoding notebook %s: %w", path, err)
	}
	parts := make([]string, 0, len(nb.Cells))
	for i, c := range nb.Cells {
		src, err := cellSource(c.Source)
		if err != nil {
			return "", fmt.Errorf("decoding notebook %s: cell %d: %w", path, i, err)
		}
		parts = append(parts, fmt.Sprintf("# [%s]\n%s", c.CellType, strings.TrimRight(src, "\n")))
	}
	return strings.Join(parts, "\n\n"), nil
}

// cellSource accepts both encodings nbformat allows: a string or a list of
// lines.
func cellSource(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return "", err
	}
	return strings.Join(lines, ""), nil
}
