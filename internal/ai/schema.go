package ai

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var nullableString = map[string]any{"type": []string{"string", "null"}}

// candidateProperties is shared by the single and multi schemas.
func candidateProperties() map[string]any {
	return map[string]any{
		"client_name":      nullableString,
		"work_description": nullableString,
		"price":            map[string]any{"type": []string{"number", "null"}},
		"address":          nullableString,
		"schedule":         nullableString,
		"phone":            nullableString,
		"email":            nullableString,
	}
}

var candidateFields = []string{
	"client_name", "work_description", "price", "address", "schedule", "phone", "email",
}

// singleJobSchema constrains the single-candidate reply: a gate plus one candidate.
var singleJobSchema = func() map[string]any {
	props := candidateProperties()
	props["is_job"] = map[string]any{"type": "boolean"}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             append([]string{"is_job"}, candidateFields...),
	}
}()

// multiJobSchema constrains the multi-candidate reply: one entry per named person.
var multiJobSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"jobs": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties":           candidateProperties(),
				"required":             candidateFields,
			},
		},
	},
	"required": []string{"jobs"},
}

var (
	singleJobValidator = mustCompileSchema("single_job.json", singleJobSchema)
	multiJobValidator  = mustCompileSchema("multi_job.json", multiJobSchema)
)

func mustCompileSchema(name string, schemaMap map[string]any) *jsonschema.Schema {
	s, err := compileSchema(name, schemaMap)
	if err != nil {
		panic(err)
	}
	return s
}

func compileSchema(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validateAgainstSchema checks raw provider output against a compiled schema.
func validateAgainstSchema(schema *jsonschema.Schema, raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal output: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("output does not match schema: %w", err)
	}
	return nil
}
