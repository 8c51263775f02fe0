// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ValidateYAML checks a YAML document against a definition of an embedded CUE schema:
//
//  1. Compile the embedded schema
//  2. Extract the YAML document into CUE and unify it with the definition
//  3. Validate the unified value
//
// Parameters:
//   - schema: the embedded CUE schema bytes (from //go:embed)
//   - data: the user-provided YAML bytes
//   - schemaPath: the path to the root definition (e.g., "#Document")
//   - opts: optional configuration
//
// It returns the unified value so callers can read defaults the schema fills in.
// Schema violations are reported as *ValidationError.
func ValidateYAML(schema, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if err := CheckFileSize(data, options.maxFileSize, filename); err != nil {
		return cue.Value{}, err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	userValue := ctx.BuildFile(file)
	if userValue.Err() != nil {
		return cue.Value{}, FormatError(userValue.Err(), filename)
	}

	unified := schemaRoot.Unify(userValue)

	validateOpts := []cue.Option{}
	if options.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return cue.Value{}, FormatError(err, filename)
	}

	return unified, nil
}

// ValidateYAMLString is a convenience wrapper that accepts the schema as a string.
func ValidateYAMLString(schema string, data []byte, schemaPath string, opts ...Option) (cue.Value, error) {
	return ValidateYAML([]byte(schema), data, schemaPath, opts...)
}
