/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Rubric is a named, weighted set of criteria with an overall maximum and a
// passing threshold. Instances are immutable after NewRubric returns, so a
// single Rubric may be shared by concurrent evaluations without locking.
type Rubric struct {
	taskID          string
	title           string
	description     string
	overallMaxScore float64
	minPassingScore float64
	criteria        []Criterion

	// byID and byLowerID map exact and lower-cased ids to indexes into criteria.
	byID      map[string]int
	byLowerID map[string]int
	// ambiguous holds lower-cased ids declared by more than one criterion.
	ambiguous map[string][]string
}

// rubricJSON is the persisted shape of a Rubric.
type rubricJSON struct {
	TaskID          string          `json:"task_id" jsonschema:"required"`
	Title           string          `json:"title" jsonschema:"required"`
	Description     string          `json:"description" jsonschema:"required"`
	OverallMaxScore float64         `json:"overall_max_score" jsonschema:"required"`
	MinPassingScore float64         `json:"min_passing_score" jsonschema:"required,exclusiveMinimum=0"`
	Criteria        []criterionJSON `json:"criteria" jsonschema:"required,minItems=1"`
}

// NewRubric validates its inputs and returns an immutable Rubric.
// The criteria slice is copied.
func NewRubric(taskID, title, description string, overallMaxScore, minPassingScore float64, criteria []Criterion) (*Rubric, error) {
	if len(criteria) == 0 {
		return nil, &ConfigError{
			Field:  "criteria",
			Value:  "[]",
			Reason: "criteria must be non-empty",
		}
	}
	if !(minPassingScore > 0) {
		return nil, &ConfigError{
			Field:  "min_passing_score",
			Value:  minPassingScore,
			Reason: "must be positive",
		}
	}
	if !(minPassingScore <= overallMaxScore) {
		return nil, &ConfigError{
			Field:  "min_passing_score",
			Value:  minPassingScore,
			Reason: fmt.Sprintf("must be less than or equal to overall_max_score (%v)", overallMaxScore),
		}
	}
	for i, c := range criteria {
		// Criteria built outside NewCriterion (the zero value) are rejected here.
		if !c.scale.Valid() || !(c.weight > 0) {
			return nil, &ConfigError{
				Field:  fmt.Sprintf("criteria[%d]", i),
				Value:  c.id,
				Reason: "must be constructed with NewCriterion",
			}
		}
	}

	r := &Rubric{
		taskID:          taskID,
		title:           title,
		description:     description,
		overallMaxScore: overallMaxScore,
		minPassingScore: minPassingScore,
		criteria:        append([]Criterion(nil), criteria...),
		byID:            make(map[string]int, len(criteria)),
		byLowerID:       make(map[string]int, len(criteria)),
		ambiguous:       map[string][]string{},
	}
	for i, c := range r.criteria {
		if _, ok := r.byID[c.id]; !ok {
			r.byID[c.id] = i
		}
		key := strings.ToLower(c.id)
		if prev, ok := r.byLowerID[key]; ok {
			if _, seen := r.ambiguous[key]; !seen {
				r.ambiguous[key] = []string{r.criteria[prev].id}
			}
			r.ambiguous[key] = append(r.ambiguous[key], c.id)
			continue
		}
		r.byLowerID[key] = i
	}
	return r, nil
}

// TaskID returns the identifier of the task this rubric grades.
func (r *Rubric) TaskID() string { return r.taskID }

// Title returns the rubric title.
func (r *Rubric) Title() string { return r.title }

// Description returns the rubric description.
func (r *Rubric) Description() string { return r.description }

// OverallMaxScore returns the score a perfect submission receives.
func (r *Rubric) OverallMaxScore() float64 { return r.overallMaxScore }

// MinPassingScore returns the lowest passing total score.
func (r *Rubric) MinPassingScore() float64 { return r.minPassingScore }

// Criteria returns a copy of the criteria in declaration order.
func (r *Rubric) Criteria() []Criterion {
	return append([]Criterion(nil), r.criteria...)
}

// IDs returns the canonical criterion ids in declaration order.
func (r *Rubric) IDs() []string {
	ids := make([]string, 0, len(r.criteria))
	for _, c := range r.criteria {
		ids = append(ids, c.id)
	}
	return ids
}

// Criterion returns the criterion whose id equals id exactly.
func (r *Rubric) Criterion(id string) (Criterion, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Criterion{}, false
	}
	return r.criteria[idx], true
}

// Lookup resolves id case-insensitively to a criterion. It fails when no
// criterion matches, or when several criteria share the id modulo case, since
// the match would then be ambiguous.
func (r *Rubric) Lookup(id string) (Criterion, error) {
	key := strings.ToLower(id)
	if dupes, ok := r.ambiguous[key]; ok {
		return Criterion{}, fmt.Errorf("criterion id %q matches %s: %w", id, strings.Join(dupes, ", "), ErrAmbiguousCriterion)
	}
	idx, ok := r.byLowerID[key]
	if !ok {
		return Criterion{}, fmt.Errorf("criterion id %q: %w", id, ErrCriterionNotFound)
	}
	return r.criteria[idx], nil
}

// Passes reports whether total meets the rubric's passing threshold.
func (r *Rubric) Passes(total float64) bool {
	return total >= r.minPassingScore
}

// MarshalJSON implements json.Marshaler
func (r *Rubric) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.toJSON())
}

// UnmarshalJSON implements json.Unmarshaler, applying the same validation as NewRubric.
func (r *Rubric) UnmarshalJSON(data []byte) error {
	var raw rubricJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := raw.toRubric()
	if err != nil {
		return err
	}
	*r = *parsed
	return nil
}

func (r *Rubric) toJSON() rubricJSON {
	criteria := make([]criterionJSON, 0, len(r.criteria))
	for _, c := range r.criteria {
		criteria = append(criteria, c.toJSON())
	}
	return rubricJSON{
		TaskID:          r.taskID,
		Title:           r.title,
		Description:     r.description,
		OverallMaxScore: r.overallMaxScore,
		MinPassingScore: r.minPassingScore,
		Criteria:        criteria,
	}
}

func (raw rubricJSON) toRubric() (*Rubric, error) {
	criteria := make([]Criterion, 0, len(raw.Criteria))
	for _, rc := range raw.Criteria {
		c, err := rc.toCriterion()
		if err != nil {
			return nil, fmt.Errorf("criterion %q: %w", rc.ID, err)
		}
		criteria = append(criteria, c)
	}
	return NewRubric(raw.TaskID, raw.Title, raw.Description, raw.OverallMaxScore, raw.MinPassingScore, criteria)
}
