// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/internal/config"
	"github.com/uvextras/uvextras/internal/pkgmgr"
	"github.com/uvextras/uvextras/internal/runtime"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: every Cobra command handler receives an App reference and goes
	// through it for configuration, runtimes and the package manager.
	App struct {
		Config         ConfigProvider
		PackageManager *pkgmgr.Client
		Runtimes       *runtime.Registry
		Diagnostics    DiagnosticRenderer
		logger         *log.Logger
		stdin          io.Reader
		stdout         io.Writer
		stderr         io.Writer
		lookupEnv      binding.LookupFunc
		environ        func() []string
		workDir        func() (string, error)
		executableDir  string
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests supply their own streams,
	// environment and runtimes to stay hermetic.
	Dependencies struct {
		Config         ConfigProvider
		PackageManager *pkgmgr.Client
		Runtimes       *runtime.Registry
		Diagnostics    DiagnosticRenderer
		Stdin          io.Reader
		Stdout         io.Writer
		Stderr         io.Writer
		// LookupEnv replaces os.LookupEnv for binding overrides.
		LookupEnv binding.LookupFunc
		// Environ replaces os.Environ as the environment scripts inherit.
		Environ func() []string
		// WorkDir replaces os.Getwd.
		WorkDir func() (string, error)
		// ExecutableDir is searched for uvextras.yaml; "" uses the running binary's directory.
		ExecutableDir string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Result, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []scriptfile.Diagnostic, stderr io.Writer)
	}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.LoadFunc(config.Load)
	}
	if deps.PackageManager == nil {
		deps.PackageManager = pkgmgr.NewClient(config.DefaultPackageManager)
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.BuildRegistry(runtime.BuildRegistryOptions{})
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}
	if deps.LookupEnv == nil {
		deps.LookupEnv = os.LookupEnv
	}
	if deps.Environ == nil {
		deps.Environ = os.Environ
	}
	if deps.WorkDir == nil {
		deps.WorkDir = os.Getwd
	}
	if deps.ExecutableDir == "" {
		deps.ExecutableDir = binding.ExecutableDir()
	}

	return &App{
		Config:         deps.Config,
		PackageManager: deps.PackageManager,
		Runtimes:       deps.Runtimes,
		Diagnostics:    deps.Diagnostics,
		logger:         newLogger(deps.Stderr),
		stdin:          deps.Stdin,
		stdout:         deps.Stdout,
		stderr:         deps.Stderr,
		lookupEnv:      deps.LookupEnv,
		environ:        deps.Environ,
		workDir:        deps.WorkDir,
		executableDir:  deps.ExecutableDir,
	}, nil
}

// load bootstraps the configuration for cmd. Flags of cmd named like a
// setting override it. Merge diagnostics are rendered on stderr and the
// package manager client follows the effective settings.
func (a *App) load(cmd *cobra.Command) (*config.Result, error) {
	return a.loadContext(cmd.Context(), cmd)
}

// loadContext is load under ctx instead of the command's context.
func (a *App) loadContext(ctx context.Context, cmd *cobra.Command) (*config.Result, error) {
	file, _ := cmd.Flags().GetString("file")
	res, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: file,
		Flags:          cmd.Flags(),
		LookupEnv:      a.lookupEnv,
		ExecutableDir:  a.executableDir,
		Prober:         a.PackageManager,
	})
	if err != nil {
		return nil, err
	}

	a.PackageManager.Binary = res.Settings.PackageManager
	if res.Settings.Verbose {
		setVerbose(a.logger, true)
	}
	a.Diagnostics.Render(ctx, res.Diagnostics, a.stderr)
	return res, nil
}

// streams returns the standard streams handed to scripts.
func (a *App) streams() runtime.IO {
	return runtime.IO{Stdin: a.stdin, Stdout: a.stdout, Stderr: a.stderr}
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []scriptfile.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == scriptfile.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
