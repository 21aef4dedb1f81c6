// Package ui renders command results in the selected output format:
// styled terminal output, plain text or JSON.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/ui/json"
	"github.com/arthur-debert/rah/pkg/ui/terminal"
)

// Renderer is the common interface for all output renderers
type Renderer interface {
	// RenderResult renders a display view model
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error

	// RenderWarning renders a non-fatal problem
	RenderWarning(msg string) error
}

// NewRenderer creates a renderer for the format. FormatAuto inspects
// output when it is a file and falls back to plain text otherwise.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		file, _ := output.(*os.File)
		return NewRenderer(ResolveFormat(format, "auto", file), output)
	case FormatTerminal:
		return terminal.New(output, true), nil
	case FormatText:
		return terminal.New(output, false), nil
	case FormatJSON:
		return json.New(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
