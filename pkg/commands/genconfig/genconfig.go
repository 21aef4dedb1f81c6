// Package genconfig prints or writes rah's configuration file.
package genconfig

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/rah/pkg/config"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
)

// Options holds options for the genconfig command
type Options struct {
	// Config, when set, is rendered as the effective configuration instead
	// of the commented defaults
	Config *config.Config
	// Write stores the content at Target instead of only returning it
	Write bool
	// Target is the file written in write mode
	Target string
}

// Result holds the generated content and the file written, if any
type Result struct {
	Content string
	Written string
}

// GenConfig renders the configuration and optionally writes it. An
// existing file is never overwritten.
func GenConfig(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.genconfig")
	logger.Debug().Str("command", "GenConfig").Bool("effective", opts.Config != nil).Bool("write", opts.Write).Msg("Executing command")

	result := &Result{Content: config.GenerateConfigContent()}
	if opts.Config != nil {
		data, err := opts.Config.TOML()
		if err != nil {
			return nil, err
		}
		result.Content = string(data)
	}

	if !opts.Write {
		logger.Debug().Msg("Outputting config to stdout")
		return result, nil
	}

	if opts.Target == "" {
		return nil, errors.New(errors.ErrInvalidInput, "no configuration file to write")
	}
	if _, err := os.Stat(opts.Target); err == nil {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s already exists", opts.Target).
			WithDetail("path", opts.Target)
	}

	// Ensure directory exists
	dir := filepath.Dir(opts.Target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPermission, "failed to create directory %s", dir)
	}
	if err := os.WriteFile(opts.Target, []byte(result.Content), 0644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPermission, "failed to write config to %s", opts.Target)
	}
	result.Written = opts.Target

	logger.Info().Str("command", "GenConfig").Str("path", opts.Target).Msg("Command finished")
	return result, nil
}
