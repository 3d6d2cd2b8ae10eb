/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package response

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Required top-level keys of an evaluation response.
const (
	KeyIntro               = "intro"
	KeyOverallEvaluation   = "overall_evaluation"
	KeyOverallVerdict      = "overall_verdict"
	KeyCriteriaEvaluations = "criteria_specific_evaluations"
)

var requiredKeys = []string{KeyIntro, KeyOverallEvaluation, KeyOverallVerdict, KeyCriteriaEvaluations}

// RequiredKeys returns the top-level keys every response must carry.
func RequiredKeys() []string {
	return append([]string(nil), requiredKeys...)
}

// Document is the typed projection of a model's evaluation response.
type Document struct {
	Intro             string
	OverallEvaluation string
	OverallVerdict    string
	Evaluations       []Entry
}

// Entry is one per-criterion evaluation as the model wrote it. Nothing in
// an Entry has been checked against a rubric yet.
type Entry struct {
	ID            string    `yaml:"id"`
	Name          string    `yaml:"name"`
	ScoreScale    string    `yaml:"score_scale"`
	Score         yaml.Node `yaml:"score"`
	Justification string    `yaml:"justification"`
}

// NumericScore returns the entry's score when the model wrote it as a YAML
// integer or float. Quoted numbers, booleans and absent scores are rejected.
func (e Entry) NumericScore() (float64, error) {
	if e.Score.Kind == 0 {
		return 0, fmt.Errorf("score is missing")
	}
	if e.Score.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("score is not a scalar")
	}
	switch tag := e.Score.ShortTag(); tag {
	case "!!int", "!!float":
		var f float64
		if err := e.Score.Decode(&f); err != nil {
			return 0, fmt.Errorf("decoding score %q: %w", e.Score.Value, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("score %q is %s, not a number", e.Score.Value, tag)
	}
}

// RawScore returns the score as written, for error reporting.
func (e Entry) RawScore() string {
	if e.Score.Kind == 0 {
		return "<missing>"
	}
	if e.Score.Kind != yaml.ScalarNode {
		return "<" + kindName(e.Score.Kind) + ">"
	}
	return e.Score.Value
}

// Parse extracts the fenced content of text, decodes it as YAML and
// projects the top-level mapping into a Document. Every failure is a
// *ParseError; when required keys are absent all of them are reported.
func Parse(text string) (*Document, error) {
	content := ExtractYAML(text)

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return nil, &ParseError{Reason: "invalid YAML", Err: err}
	}
	node := &root
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, &ParseError{Reason: fmt.Sprintf("expected top-level mapping, got %s", kindName(node.Kind))}
	}

	fields := make(map[string]*yaml.Node, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		if _, dup := fields[k.Value]; !dup {
			fields[k.Value] = node.Content[i+1]
		}
	}

	var missing []string
	for _, k := range requiredKeys {
		if _, ok := fields[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &ParseError{Reason: "missing required keys", Missing: missing}
	}

	doc := &Document{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyIntro, &doc.Intro},
		{KeyOverallEvaluation, &doc.OverallEvaluation},
		{KeyOverallVerdict, &doc.OverallVerdict},
	} {
		v, err := prose(f.key, fields[f.key])
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	entries, err := evaluations(fields[KeyCriteriaEvaluations])
	if err != nil {
		return nil, err
	}
	doc.Evaluations = entries
	return doc, nil
}

func prose(key string, n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", &ParseError{Reason: fmt.Sprintf("%s must be text, got %s", key, kindName(n.Kind))}
	}
	if n.ShortTag() == "!!null" {
		return "", nil
	}
	return n.Value, nil
}

func evaluations(n *yaml.Node) ([]Entry, error) {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, &ParseError{Reason: fmt.Sprintf("%s must be a sequence, got %s", KeyCriteriaEvaluations, kindName(n.Kind))}
	}
	entries := make([]Entry, 0, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return nil, &ParseError{Reason: fmt.Sprintf("%s[%d] must be a mapping, got %s", KeyCriteriaEvaluations, i, kindName(item.Kind))}
		}
		var e Entry
		if err := item.Decode(&e); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("decoding %s[%d]", KeyCriteriaEvaluations, i), Err: err}
		}
		e.ID = strings.TrimSpace(e.ID)
		entries = append(entries, e)
	}
	return entries, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty document"
	}
}
