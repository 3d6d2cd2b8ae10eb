/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Prompt is a parsed template plus the values bound so far. Prompts are
// immutable: every Bind method returns a new Prompt, so a parsed template
// can be shared and bound concurrently.
type Prompt struct {
	segments []segment
	bound    map[string]binding
}

// Parse tokenizes template and returns an unbound Prompt.
func Parse(template string) (*Prompt, error) {
	segs, err := tokenize(template)
	if err != nil {
		return nil, err
	}
	return &Prompt{segments: segs, bound: map[string]binding{}}, nil
}

// MustParse is like Parse but panics on error. It is meant for package-level
// templates known to be valid.
func MustParse(template string) *Prompt {
	p, err := Parse(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Placeholders returns the distinct placeholder names in order of first use.
func (p *Prompt) Placeholders() []string {
	var names []string
	for _, s := range p.segments {
		if s.placeholder != "" && !slices.Contains(names, s.placeholder) {
			names = append(names, s.placeholder)
		}
	}
	return names
}

// Has reports whether the template references name.
func (p *Prompt) Has(name string) bool {
	return slices.Contains(p.Placeholders(), name)
}

// BindText substitutes value verbatim for name.
func (p *Prompt) BindText(name, value string) (*Prompt, error) {
	return p.bind(name, textBinding(value))
}

// BindList substitutes a numbered list ("1. a", "2. b", ...) for name.
func (p *Prompt) BindList(name string, items []string) (*Prompt, error) {
	return p.bind(name, listBinding(slices.Clone(items)))
}

// BindJSON substitutes the indented JSON encoding of data for name.
func (p *Prompt) BindJSON(name string, data any) (*Prompt, error) {
	return p.bind(name, jsonBinding{data: data})
}

// BindYAML substitutes the YAML encoding of data for name.
func (p *Prompt) BindYAML(name string, data any) (*Prompt, error) {
	return p.bind(name, yamlBinding{data: data})
}

func (p *Prompt) bind(name string, b binding) (*Prompt, error) {
	if !p.Has(name) {
		return nil, fmt.Errorf("placeholder %q not found in template", name)
	}
	if _, ok := p.bound[name]; ok {
		return nil, fmt.Errorf("placeholder %q already bound", name)
	}
	np := &Prompt{segments: p.segments, bound: maps.Clone(p.bound)}
	np.bound[name] = b
	return np, nil
}

// Build renders the prompt. It fails, naming every unbound placeholder,
// unless all of them have values. Bound values are never re-scanned for
// placeholders.
func (p *Prompt) Build() (string, error) {
	var unbound []string
	for _, name := range p.Placeholders() {
		if _, ok := p.bound[name]; !ok {
			unbound = append(unbound, name)
		}
	}
	if len(unbound) > 0 {
		return "", fmt.Errorf("unbound placeholders: %s", strings.Join(unbound, ", "))
	}

	values := make(map[string]string, len(p.bound))
	for name, b := range p.bound {
		v, err := b.value()
		if err != nil {
			return "", fmt.Errorf("rendering %q: %w", name, err)
		}
		values[name] = v
	}

	var sb strings.Builder
	for _, s := range p.segments {
		if s.placeholder == "" {
			sb.WriteString(s.text)
			continue
		}
		sb.WriteString(values[s.placeholder])
	}
	return sb.String(), nil
}
