// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette - shared hex colors for consistent theming across all CLI output.
// These colors are designed for dark terminal backgrounds with good contrast.
const (
	// ColorPrimary is purple - used for titles, headers, and primary emphasis.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - used for subtitles, secondary text, and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - used for checkmarks and positive outcomes.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - used for errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - used for warnings and environment variable names.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - used for script names and location tags.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorLocal is magenta - used for scripts that live in the project.
	ColorLocal = lipgloss.Color("#D946EF")

	// ColorVerbose is light gray - used for supplementary details.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

// Base styles built from the color palette.
var (
	// TitleStyle is for primary headers and table titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and checkmarks.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command lines and script names.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	// Table styles used by render.go.

	// tableBorderStyle colors the rounded table borders.
	tableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)

	// tableHeaderStyle is for column headers.
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPrimary).
				Padding(0, 1)

	// tableCellStyle pads every cell.
	tableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// locationTagStyle is for [scripts]-style path prefixes.
	locationTagStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight)

	// envVarStyle is for $NAME references that are not set in the environment.
	envVarStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// envVarSetStyle is for $NAME references whose variable is set.
	envVarSetStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// localScriptStyle is for local script names.
	localScriptStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorLocal)

	// sharedScriptStyle is for shared script names.
	sharedScriptStyle = lipgloss.NewStyle().
				Foreground(ColorHighlight)

	// dependsStyle is for depends-on lists.
	dependsStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)

	// infoKeyStyle is for package manager item labels.
	infoKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)
)
