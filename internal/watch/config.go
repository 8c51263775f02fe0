// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultDebounce is the quiet period used when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch configuration")

	// defaultPatterns select the files of a uv project.
	defaultPatterns = []string{"**/*.py", "**/pyproject.toml", "**/uv.lock", "**/uvextras.yaml"}

	// defaultIgnores are always excluded: VCS metadata, virtual environments,
	// tool caches and editor droppings.
	defaultIgnores = []string{
		"**/.git/**",
		"**/.venv/**",
		"**/__pycache__/**",
		"**/.mypy_cache/**",
		"**/.ruff_cache/**",
		"**/.pytest_cache/**",
		"**/*.pyc",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters of a Watcher.
	Config struct {
		// Patterns select the paths (relative to BaseDir, slash separated)
		// that trigger OnChange. Empty means DefaultPatterns.
		Patterns []string
		// Ignore adds to the built-in ignore patterns.
		Ignore []string
		// Debounce is the quiet period after the last event.
		Debounce time.Duration
		// BaseDir is the watched root. Empty means the working directory.
		BaseDir string
		// OnChange receives the sorted, deduplicated changed paths.
		OnChange func(ctx context.Context, changed []string) error
	}

	// InvalidConfigError lists every problem found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid watch configuration: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultPatterns returns a copy of the patterns used when none are configured.
func DefaultPatterns() []string { return slices.Clone(defaultPatterns) }

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string { return slices.Clone(defaultIgnores) }

// Validate checks the patterns and the debounce period.
func (c Config) Validate() error {
	var errs []error
	check := func(label string, patterns []string) {
		for _, p := range patterns {
			if p == "" || !doublestar.ValidatePattern(p) {
				errs = append(errs, fmt.Errorf("%s pattern %q is not a valid glob", label, p))
			}
		}
	}
	check("watch", c.Patterns)
	check("ignore", c.Ignore)
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce %s must not be negative", c.Debounce))
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}
