package rah

import (
	"os"

	"github.com/arthur-debert/rah/pkg/config"
	"github.com/arthur-debert/rah/pkg/ui"
	"github.com/spf13/cobra"
)

// app holds the global flags and the configuration loaded from them
type app struct {
	configFile string
	verbosity  int
	color      string
	output     string

	cfg *config.Config
}

// config loads the configuration once per invocation
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	overrides := map[string]interface{}{}
	if a.color != "" {
		overrides["color"] = a.color
	}
	cfg, err := config.Load(config.LoadOptions{
		File:      a.configFile,
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	return cfg, nil
}

// format resolves the output format from the flags and the color setting
func (a *app) format(cmd *cobra.Command, cfg *config.Config) (ui.Format, error) {
	format, err := ui.ParseFormat(a.output)
	if err != nil {
		return ui.FormatAuto, err
	}
	file, _ := cmd.OutOrStdout().(*os.File)
	format = ui.ResolveFormat(format, cfg.Color, file)
	if format == ui.FormatTerminal && cfg.Color == config.ColorAlways {
		ui.ForceColor()
	}
	return format, nil
}

// renderers returns the renderer for results on stdout and the one for
// warnings on stderr
func (a *app) renderers(cmd *cobra.Command) (ui.Renderer, ui.Renderer, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	format, err := a.format(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	out, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, nil, err
	}
	errFormat := ui.FormatText
	if format == ui.FormatTerminal {
		errFormat = ui.FormatTerminal
	}
	errOut, err := ui.NewRenderer(errFormat, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return out, errOut, nil
}
