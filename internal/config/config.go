// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/uvextras/uvextras/internal/binding"
	"github.com/uvextras/uvextras/internal/issue"
	"github.com/uvextras/uvextras/pkg/scriptfile"
)

const (
	// AppName is the application name.
	AppName = "uvextras"
	// EnvPrefix prefixes the environment variables that override settings.
	EnvPrefix = "UVEXTRAS"
	// BuiltinPath names the embedded default document in messages.
	BuiltinPath = "<builtin>"
)

//go:embed default.yaml
var defaultDocument []byte

// settingKeys are the viper keys of Settings, in document order.
var settingKeys = []string{"interpreter", "package-manager", "runtime", "sanitize-env", "verbose", "keep-going"}

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific config file when set (--file).
		ConfigFilePath string
		// Flags are bound over the settings; only flags named like a setting
		// and changed on the command line take effect.
		Flags *pflag.FlagSet
		// LookupEnv replaces os.LookupEnv for binding overrides.
		LookupEnv binding.LookupFunc
		// ExecutableDir is searched for uvextras.yaml; empty skips it.
		ExecutableDir string
		// Prober backs the pythondir and tooldir bindings.
		Prober binding.Prober
	}

	// Result is a fully bootstrapped configuration.
	Result struct {
		// Store holds the merged scripts and the binding table.
		Store *scriptfile.Store
		// Settings are the effective settings.
		Settings Settings
		// ConfigPath is the global document, "" when the builtin default was used.
		ConfigPath string
		// LocalConfigPath is the merged local document, "" when none was found.
		LocalConfigPath string
		// Diagnostics collects the warnings raised while merging.
		Diagnostics []scriptfile.Diagnostic
	}

	// Loader bootstraps the configuration: it locates and parses the global
	// document, merges the local one and the local scripts directory, and
	// layers the settings.
	Loader struct {
		opts LoadOptions
	}
)

// DefaultDocument returns the embedded configuration used when no file is found.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// NewLoader creates a Loader.
func NewLoader(opts LoadOptions) *Loader {
	return &Loader{opts: opts}
}

// Load performs the bootstrap sequence. Any parse failure aborts the load.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	path, err := l.configPath()
	if err != nil {
		return nil, err
	}

	var store *scriptfile.Store
	if path == "" {
		slog.Debug("no configuration file found, using builtin defaults")
		store, err = scriptfile.ParseBytes(defaultDocument, BuiltinPath, l.tableOptions()...)
	} else {
		slog.Debug("loading configuration", "path", path)
		store, err = scriptfile.Parse(path, l.tableOptions()...)
	}
	if err != nil {
		return nil, parseError(err)
	}

	table := store.Table()
	if path != "" {
		// keep SetInEnvironment when the override variable picked the file
		if res, err := table.Lookup(binding.KeyConfig); err != nil || res.Value != path {
			if err := table.Set(binding.KeyConfig, path); err != nil {
				return nil, err
			}
		}
	}

	result := &Result{Store: store, ConfigPath: path}

	if local := table.Value(binding.KeyLocalConfig); local != "" && local != path && isRegularFile(local) {
		slog.Debug("merging local configuration", "path", local)
		localStore, err := scriptfile.Parse(local, binding.WithLookupEnv(l.lookupEnv()))
		if err != nil {
			return nil, parseError(err)
		}
		if declared := localStore.Table().Declared(); len(declared) > 0 {
			slog.Debug("local envvars are ignored", "path", local, "count", len(declared))
		}
		result.Diagnostics = store.Merge(localStore)
		store.MergeSettings(localStore)
		result.LocalConfigPath = local
	}

	localScripts := table.Value(binding.KeyLocalScripts)
	if err := store.MergeScripts(localScripts, scriptfile.MergedFromLocalDescription); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("scan local scripts").
			WithResource(localScripts).
			WithSuggestion("Check the permissions of the local scripts directory").
			WithIssue(issue.PermissionDeniedId).
			Wrap(err).
			BuildError()
	}

	settings, err := l.settings(store.Settings())
	if err != nil {
		return nil, err
	}
	result.Settings = settings

	return result, nil
}

// configPath returns the explicit path, or the resolved self-config binding.
func (l *Loader) configPath() (string, error) {
	if l.opts.ConfigFilePath == "" {
		resolver := &binding.Resolver{LookupEnv: l.lookupEnv()}
		return resolver.Resolve(binding.SelfConfig(l.opts.ExecutableDir)).Value, nil
	}

	path, err := filepath.Abs(l.opts.ConfigFilePath)
	if err != nil {
		path = l.opts.ConfigFilePath
	}
	if !isRegularFile(path) {
		return "", issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(l.opts.ConfigFilePath).
			WithSuggestion("Verify the file path is correct").
			WithSuggestion("Check that the file exists and is readable").
			WithSuggestion("Use 'uvextras config dump' to see the default configuration").
			WithIssue(issue.ConfigNotFoundId).
			Wrap(fmt.Errorf("config file not found: %w", fs.ErrNotExist)).
			BuildError()
	}
	return path, nil
}

func (l *Loader) tableOptions() []binding.TableOption {
	opts := []binding.TableOption{
		binding.WithLookupEnv(l.lookupEnv()),
		binding.WithSelfConfig(binding.SelfConfig(l.opts.ExecutableDir)),
	}
	if l.opts.Prober != nil {
		opts = append(opts, binding.WithProber(l.opts.Prober))
	}
	return opts
}

func (l *Loader) lookupEnv() binding.LookupFunc {
	if l.opts.LookupEnv != nil {
		return l.opts.LookupEnv
	}
	return os.LookupEnv
}

// settings layers defaults < document settings < UVEXTRAS_* variables < flags.
func (l *Loader) settings(document map[string]any) (Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("interpreter", defaults.Interpreter)
	v.SetDefault("package-manager", defaults.PackageManager)
	v.SetDefault("runtime", string(defaults.Runtime))
	v.SetDefault("sanitize-env", defaults.SanitizeEnv)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("keep-going", defaults.KeepGoing)

	if err := v.MergeConfigMap(document); err != nil {
		return Settings{}, fmt.Errorf("failed to merge settings: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if l.opts.Flags != nil {
		for _, key := range settingKeys {
			if f := l.opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Settings{}, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		id := issue.ConfigParseErrorId
		if errors.Is(err, ErrInvalidSettings) && s.Runtime.Validate() != nil {
			id = issue.InvalidRuntimeModeId
		}
		return Settings{}, issue.NewErrorContext().
			WithOperation("validate settings").
			WithSuggestion("Check the settings section and the UVEXTRAS_* environment variables").
			WithIssue(id).
			Wrap(err).
			BuildError()
	}
	return s, nil
}

// parseError turns a document failure into an actionable error.
func parseError(err error) error {
	return issue.NewErrorContext().
		WithOperation("parse configuration").
		WithSuggestion("Check the YAML syntax and the field names").
		WithSuggestion("Run 'uvextras config dump' to compare with the builtin document").
		WithIssue(issue.ConfigParseErrorId).
		Wrap(err).
		BuildError()
}

// isRegularFile follows symlinks.
func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
