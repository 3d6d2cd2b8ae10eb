/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"fmt"
	"log"

	"chainguard.dev/taskgrader/promptbuilder"
)

func ExampleParse() {
	p, err := promptbuilder.Parse("Grade {{trainee_name}} on {{track_name}}.")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(p.Placeholders())
	// Output: [trainee_name track_name]
}

func ExamplePrompt_BindList() {
	p := promptbuilder.MustParse("Notes:\n{{other_enumerated_notes}}")
	p, err := p.BindList("other_enumerated_notes", []string{"Be concise.", "Cite the rubric."})
	if err != nil {
		log.Fatal(err)
	}
	out, err := p.Build()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(out)
	// Output:
	// Notes:
	// 1. Be concise.
	// 2. Cite the rubric.
}
