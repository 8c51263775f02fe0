// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates YAML documents against embedded CUE schemas.
//
// Configuration documents stay YAML on disk and are decoded with yaml.v3; CUE
// is used only as the structural gate in front of the decoder:
//
//  1. Compile the embedded schema
//  2. Extract the YAML document and unify it with the schema definition
//  3. Validate, reporting every violation with its JSON path
//
// # Usage
//
//	//go:embed schema.cue
//	var schemaBytes []byte
//
//	if _, err := cueutil.ValidateYAML(schemaBytes, data, "#Document",
//	    cueutil.WithFilename("uvextras.yaml"),
//	); err != nil {
//	    return nil, err // *cueutil.ValidationError with per-field issues
//	}
package cueutil
