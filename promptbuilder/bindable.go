/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder

// Bindable is implemented by request types that know how to fill a prompt.
type Bindable interface {
	// Bind returns a new prompt with the receiver's values bound.
	Bind(p *Prompt) (*Prompt, error)
}

// BindAll applies each Bindable in turn.
func BindAll(p *Prompt, bs ...Bindable) (*Prompt, error) {
	for _, b := range bs {
		var err error
		if p, err = b.Bind(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
