/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import "github.com/invopop/jsonschema"

// reflector carries the defaults for the persisted rubric format.
var reflector = jsonschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	ExpandedStruct:             true,
	DoNotReference:             true,
}

// Schema returns the JSON Schema describing the persisted rubric format.
func Schema() *jsonschema.Schema {
	return reflector.Reflect(&rubricJSON{})
}

// CriterionSchema returns the JSON Schema describing a persisted criterion.
func CriterionSchema() *jsonschema.Schema {
	return reflector.Reflect(&criterionJSON{})
}
