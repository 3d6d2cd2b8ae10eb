/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// segment is either literal text or a named placeholder.
type segment struct {
	text        string
	placeholder string
}

// tokenize splits a template into literal and placeholder segments in a
// single pass. Placeholders are written {{name}}, optionally padded with
// spaces inside the braces.
func tokenize(template string) ([]segment, error) {
	var segs []segment
	for len(template) > 0 {
		start := strings.Index(template, "{{")
		if start == -1 {
			segs = append(segs, segment{text: template})
			break
		}
		if start > 0 {
			segs = append(segs, segment{text: template[:start]})
		}
		end := strings.Index(template[start:], "}}")
		if end == -1 {
			return nil, errors.New("unclosed placeholder: missing '}}'")
		}
		end += start

		name := strings.TrimSpace(template[start+2 : end])
		if !isIdentifier(name) {
			return nil, fmt.Errorf("invalid placeholder name %q", name)
		}
		segs = append(segs, segment{placeholder: name})
		template = template[end+2:]
	}
	return segs, nil
}

// isIdentifier reports whether s starts with a letter and continues with
// letters, digits or underscores.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '_'):
		default:
			return false
		}
	}
	return s != ""
}
