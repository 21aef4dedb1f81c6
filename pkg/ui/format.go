package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks terminal or text output from the color setting and
	// the capabilities of the output
	FormatAuto Format = iota
	// FormatTerminal renders output with colors and styling
	FormatTerminal
	// FormatText renders the same layout without any styling
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerminal:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerminal, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
	}
}

// ResolveFormat turns FormatAuto into a concrete format. The color mode
// ("always", "never" or "auto") decides first; in auto mode the output
// capabilities do.
func ResolveFormat(f Format, colorMode string, output *os.File) Format {
	if f != FormatAuto {
		return f
	}
	switch strings.ToLower(colorMode) {
	case "always":
		return FormatTerminal
	case "never":
		return FormatText
	}
	if output == nil {
		return FormatText
	}
	return DetectFormat(output)
}

// DetectFormat determines the appropriate output format based on environment and terminal capabilities
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	// Piped or redirected
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

// ForceColor makes styles emit colors even when stdout is not a terminal,
// for color = "always"
func ForceColor() {
	lipgloss.SetColorProfile(termenv.ANSI256)
}
