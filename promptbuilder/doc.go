/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder renders prompt templates with named placeholders.

Templates use {{name}} placeholders. A template is tokenized once by Parse;
values are attached with the Bind methods, each of which returns a new
Prompt, and Build produces the final text:

	p := promptbuilder.MustParse("Grade {{trainee_name}}'s work:\n{{submission}}")
	p, err := p.BindText("trainee_name", "Ada")
	...
	p, err = p.BindText("submission", text)
	...
	out, err := p.Build()

Substitution is single pass: text bound to one placeholder is never scanned
for further placeholders, so user-supplied content containing "{{...}}" is
emitted as written.

Binding a name the template does not use is an error, as is binding a name
twice. Callers filling optional placeholders check Has first.
*/
package promptbuilder
