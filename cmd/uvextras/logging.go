// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger creates the stderr logger that backs slog for the whole process.
func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: "uvextras",
		Level:  log.InfoLevel,
	})
}

// installLogger makes logger the slog default handler.
func installLogger(logger *log.Logger) {
	slog.SetDefault(slog.New(logger))
}

// setVerbose switches between debug and info output.
func setVerbose(logger *log.Logger, verbose bool) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
}
