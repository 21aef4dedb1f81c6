package rah

import (
	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/commands/query"
	"github.com/arthur-debert/rah/pkg/commands/session"
	"github.com/arthur-debert/rah/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newQueryCmd(a *app) *cobra.Command {
	var search, info bool

	cmd := &cobra.Command{
		Use:     "query [packages...]",
		Aliases: []string{"Q"},
		Short:   MsgQueryShort,
		Long:    MsgQueryLong,
		Example: MsgQueryExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if err := session.Preflight(cfg, false); err != nil {
				return err
			}
			out, _, err := a.renderers(cmd)
			if err != nil {
				return err
			}

			h, err := alpm.Open(cfg.Root, cfg.DBPath)
			if err != nil {
				return err
			}
			opts := query.Options{Local: h.LocalDB(), Args: args}

			switch {
			case search:
				res, err := query.Search(opts)
				if err != nil {
					return err
				}
				return out.RenderResult(display.FromLocal(res, true))
			case info:
				res, qerr := query.Info(opts)
				if res != nil {
					if err := out.RenderResult(display.FromLocalInfo(res)); err != nil {
						return err
					}
				}
				return qerr
			default:
				res, qerr := query.List(opts)
				if res != nil {
					if err := out.RenderResult(display.FromLocal(res, false)); err != nil {
						return err
					}
				}
				return qerr
			}
		},
	}

	cmd.Flags().BoolVarP(&search, "search", "s", false, MsgFlagSearch)
	cmd.Flags().BoolVarP(&info, "info", "i", false, MsgFlagInfo)
	cmd.MarkFlagsMutuallyExclusive("search", "info")
	return cmd
}
