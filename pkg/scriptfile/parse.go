// SPDX-License-Identifier: MPL-2.0

package scriptfile

import (
	"bytes"
	_ "embed"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/pkg/cueutil"
)

//go:embed schema.cue
var documentSchema string

// Schema returns the embedded CUE schema configuration documents are validated against.
func Schema() string { return documentSchema }

// Parse reads and parses a configuration document.
func Parse(path string, opts ...binding.TableOption) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}
	return ParseBytes(data, path, opts...)
}

// ParseBytes parses configuration content. The document is first validated
// against the embedded schema, then decoded with yaml.v3 so option order is
// kept. opts configure the store's binding table.
func ParseBytes(data []byte, path string, opts ...binding.TableOption) (*Store, error) {
	if _, err := cueutil.ValidateYAMLString(documentSchema, data, "#Document",
		cueutil.WithFilename(path),
	); err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, &ConfigParseError{Path: path, Err: err}
	}

	table, err := binding.NewTable(doc.Envvars, opts...)
	if err != nil {
		return nil, &ConfigParseError{Path: path, Err: err}
	}

	scripts := make([]*Definition, 0, len(doc.Scripts))
	for _, d := range doc.Scripts {
		if d != nil {
			scripts = append(scripts, d)
		}
	}

	return &Store{
		table:    table,
		scripts:  scripts,
		settings: doc.Settings,
		path:     path,
	}, nil
}
