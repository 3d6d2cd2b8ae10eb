/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package grading

import (
	"chainguard.dev/taskgrader/grading/rubric"
	"chainguard.dev/taskgrader/promptbuilder"
)

// Placeholder names understood by grading templates.
const (
	PlaceholderKnowledgeArea   = "knowledge_area"
	PlaceholderRubric          = "rubric"
	PlaceholderAssignment      = "assignment"
	PlaceholderSubmission      = "submission"
	PlaceholderTraineeName     = "trainee_name"
	PlaceholderCohortSpecifics = "cohort_specifics"
	PlaceholderTrackName       = "track_name"
	PlaceholderOtherNotes      = "other_enumerated_notes"
)

// Submission is one trainee's work plus the context the grader needs.
// Fields are passed to the template as opaque text.
type Submission struct {
	KnowledgeArea   string
	Assignment      string
	Submission      string
	TraineeName     string
	CohortSpecifics string
	TrackName       string
	// OtherNotes are rendered as a numbered list.
	OtherNotes []string
}

// Bind implements promptbuilder.Bindable. Placeholders the template does not
// use are skipped.
func (s Submission) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	for _, f := range []struct{ name, value string }{
		{PlaceholderKnowledgeArea, s.KnowledgeArea},
		{PlaceholderAssignment, s.Assignment},
		{PlaceholderSubmission, s.Submission},
		{PlaceholderTraineeName, s.TraineeName},
		{PlaceholderCohortSpecifics, s.CohortSpecifics},
		{PlaceholderTrackName, s.TrackName},
	} {
		if !p.Has(f.name) {
			continue
		}
		var err error
		if p, err = p.BindText(f.name, f.value); err != nil {
			return nil, err
		}
	}
	if p.Has(PlaceholderOtherNotes) {
		return p.BindList(PlaceholderOtherNotes, s.OtherNotes)
	}
	return p, nil
}

// rubricBinding renders a rubric for the rubric placeholder.
type rubricBinding struct {
	r *rubric.Rubric
}

// Bind implements promptbuilder.Bindable
func (rb rubricBinding) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	if !p.Has(PlaceholderRubric) {
		return p, nil
	}
	md, err := rb.r.Markdown()
	if err != nil {
		return nil, err
	}
	return p.BindText(PlaceholderRubric, md)
}
