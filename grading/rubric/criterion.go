/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/json"
)

// Criterion is one weighted, scored dimension of a rubric.
// The zero value is not valid; use NewCriterion.
type Criterion struct {
	id          string
	name        string
	description string
	weight      float64
	scale       ScoreScale
}

// criterionJSON is the persisted shape of a Criterion.
type criterionJSON struct {
	ID          string     `json:"id" jsonschema:"required"`
	Name        string     `json:"name" jsonschema:"required"`
	Description string     `json:"description" jsonschema:"required"`
	Weight      float64    `json:"weight" jsonschema:"required,exclusiveMinimum=0"`
	Scale       ScoreScale `json:"scale" jsonschema:"required,enum=0-1,enum=0-5,enum=0-10,enum=percentage"`
}

// NewCriterion validates its inputs and returns an immutable Criterion.
func NewCriterion(id, name, description string, weight float64, scale ScoreScale) (Criterion, error) {
	if !scale.Valid() {
		return Criterion{}, &ConfigError{
			Field:  "scale",
			Value:  string(scale),
			Reason: "must be one of " + scaleList(),
		}
	}
	// Written as a negation so NaN is rejected too.
	if !(weight > 0) {
		return Criterion{}, &ConfigError{
			Field:  "weight",
			Value:  weight,
			Reason: "must be positive",
		}
	}
	return Criterion{
		id:          id,
		name:        name,
		description: description,
		weight:      weight,
		scale:       scale,
	}, nil
}

// ID returns the criterion identifier in its canonical case.
func (c Criterion) ID() string { return c.id }

// Name returns the human-readable criterion name.
func (c Criterion) Name() string { return c.name }

// Description returns what the criterion measures.
func (c Criterion) Description() string { return c.description }

// Weight returns the criterion's relative weight.
func (c Criterion) Weight() float64 { return c.weight }

// Scale returns the criterion's score scale.
func (c Criterion) Scale() ScoreScale { return c.scale }

// MarshalJSON implements json.Marshaler
func (c Criterion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler, applying the same validation as NewCriterion.
func (c *Criterion) UnmarshalJSON(data []byte) error {
	var raw criterionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := raw.toCriterion()
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Criterion) toJSON() criterionJSON {
	return criterionJSON{
		ID:          c.id,
		Name:        c.name,
		Description: c.description,
		Weight:      c.weight,
		Scale:       c.scale,
	}
}

func (raw criterionJSON) toCriterion() (Criterion, error) {
	return NewCriterion(raw.ID, raw.Name, raw.Description, raw.Weight, raw.Scale)
}
