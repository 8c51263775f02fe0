// SPDX-License-Identifier: MPL-2.0

// Package pyproject reads the project table of a pyproject.toml file.
package pyproject

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the project metadata file looked up by Find.
const FileName = "pyproject.toml"

var (
	// ErrNotFound is returned by Find when no pyproject.toml exists up to the root.
	ErrNotFound = errors.New("pyproject.toml not found")
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("failed to parse pyproject.toml")
)

type (
	// Project is the subset of the PEP 621 [project] table uvextras shows.
	Project struct {
		Name           string   `toml:"name"`
		Version        string   `toml:"version"`
		Description    string   `toml:"description"`
		RequiresPython string   `toml:"requires-python"`
		Dependencies   []string `toml:"dependencies"`
		// Dynamic lists fields a build backend computes, e.g. "version".
		Dynamic []string `toml:"dynamic"`
	}

	// Metadata is a parsed pyproject.toml.
	Metadata struct {
		Project Project `toml:"project"`
		// Path is the file the metadata was read from.
		Path string `toml:"-"`
	}

	// ParseError reports a file that is not valid TOML.
	ParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns ErrParse and the decoder error.
func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

// Read parses the file at path.
func Read(path string) (*Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes data; path is only used in errors.
func Parse(data []byte, path string) (*Metadata, error) {
	var m Metadata
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m.Path = path
	return &m, nil
}

// Find returns the nearest pyproject.toml in dir or one of its parents.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// Load finds and reads the nearest pyproject.toml from dir.
func Load(dir string) (*Metadata, error) {
	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	return Read(path)
}

// IsDynamic reports whether field is computed by the build backend.
func (p Project) IsDynamic(field string) bool {
	return slices.Contains(p.Dynamic, field)
}

// Summary renders the project on one line: `name 1.2.0 (python >=3.11)`.
func (p Project) Summary() string {
	parts := []string{p.Name}
	switch {
	case p.Version != "":
		parts = append(parts, p.Version)
	case p.IsDynamic("version"):
		parts = append(parts, "(dynamic version)")
	}
	if p.RequiresPython != "" {
		parts = append(parts, "(python "+p.RequiresPython+")")
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
