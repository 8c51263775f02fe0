// SPDX-License-Identifier: MPL-2.0

package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/uvextras/uvextras/internal/binding"
)

const (
	// DefaultBinary is the package manager invoked when none is configured.
	DefaultBinary = "uv"

	// DefaultProbeTimeout bounds a single introspection call made while resolving bindings.
	DefaultProbeTimeout = 10 * time.Second
)

// ErrNoProbe is returned by Probe for keys the package manager does not manage.
var ErrNoProbe = errors.New("binding is not managed by the package manager")

// Introspection subcommands, keyed by the binding they locate.
var probeArgs = map[binding.Key][]string{
	binding.KeyPythonDir: {"python", "dir"},
	binding.KeyToolDir:   {"tool", "dir"},
}

// Compile-time check that Client can back managed bindings.
var _ binding.Prober = (*Client)(nil)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// Option configures a Client.
	Option func(*Client)

	// Client runs the wrapped package manager and reads its textual output.
	// The output is never interpreted beyond trimming whitespace.
	Client struct {
		// Binary is the executable name or path, "uv" by default.
		Binary       string
		execCommand  ExecCommandFunc
		probeTimeout time.Duration
	}

	query struct {
		label string
		args  []string
	}

	// Item is one labelled line of package manager information.
	Item struct {
		Label string
		Value string
		// Failed is true when Value holds the error text instead of output.
		Failed bool
	}
)

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(c *Client) { c.execCommand = fn }
}

// WithProbeTimeout bounds each Probe call.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) { c.probeTimeout = d }
}

// NewClient creates a client for binary ("uv" when empty).
func NewClient(binary string, opts ...Option) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	c := &Client{
		Binary:       binary,
		execCommand:  exec.CommandContext,
		probeTimeout: DefaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Output runs the package manager with args and returns its combined
// stdout and stderr, trimmed. On failure the output is still returned.
func (c *Client) Output(ctx context.Context, args ...string) (string, error) {
	cmd := c.execCommand(ctx, c.Binary, args...)
	out, err := cmd.CombinedOutput()
	text := strings.TrimSpace(string(out))
	if err != nil {
		return text, fmt.Errorf("command %s %s failed: %w", c.Binary, strings.Join(args, " "), err)
	}
	return text, nil
}

// Probe asks the package manager where it keeps the location bound to key.
func (c *Client) Probe(key binding.Key) (string, error) {
	args, ok := probeArgs[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoProbe, key)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.probeTimeout)
	defer cancel()

	slog.Debug("probing package manager", "bind", key, "args", args)
	// stdout only: uv prints warnings on stderr, e.g. inside an activated venv
	cmd := c.execCommand(ctx, c.Binary, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("command %s %s failed: %w", c.Binary, strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Info collects the package manager summary shown by `uvextras info`.
// details adds installed tools and the project's direct dependencies.
// A failing subcommand contributes its error text; Info never fails.
func (c *Client) Info(ctx context.Context, details bool) []Item {
	queries := []query{
		{"UV Version", []string{"self", "version"}},
		{"Project Version", []string{"version"}},
		{"Cache Dir", []string{"cache", "dir"}},
		{"Tool Dir", []string{"tool", "dir"}},
	}
	if details {
		queries = append(queries,
			query{"Tool(s) Installed", []string{"tool", "list"}},
			query{"Project Dependencies", []string{"tree", "--depth", "1"}},
		)
	}

	items := make([]Item, 0, len(queries))
	for _, q := range queries {
		out, err := c.Output(ctx, q.args...)
		item := Item{Label: q.label, Value: out}
		if err != nil {
			item.Failed = true
			if item.Value == "" {
				item.Value = err.Error()
			}
		}
		items = append(items, item)
	}
	return items
}
