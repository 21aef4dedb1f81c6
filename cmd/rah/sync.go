package rah

import (
	"github.com/arthur-debert/rah/pkg/alpm"
	"github.com/arthur-debert/rah/pkg/commands/session"
	aursync "github.com/arthur-debert/rah/pkg/commands/sync"
	"github.com/arthur-debert/rah/pkg/errors"
	"github.com/arthur-debert/rah/pkg/logging"
	"github.com/arthur-debert/rah/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	var search, info, tree bool

	cmd := &cobra.Command{
		Use:     "sync [targets...]",
		Aliases: []string{"S"},
		Short:   MsgSyncShort,
		Long:    MsgSyncLong,
		Example: MsgSyncExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.sync")
			cfg, err := a.config()
			if err != nil {
				return err
			}
			out, errOut, err := a.renderers(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch {
			case search:
				if len(args) == 0 {
					return errors.New(errors.ErrInvalidInput, MsgErrNoTerms)
				}
				if err := session.Preflight(cfg, false); err != nil {
					return err
				}
				opts := aursync.SearchOptions{Client: session.NewAURClient(cfg), Terms: args}
				if h, err := alpm.Open(cfg.Root, cfg.DBPath); err == nil {
					opts.Local = h.LocalDB()
				} else {
					logger.Warn().Err(err).Msg("Local database unavailable, installed packages are not flagged")
				}
				res, err := aursync.Search(ctx, opts)
				if err != nil {
					return err
				}
				return out.RenderResult(display.FromSearch(res))

			case info:
				if err := session.Preflight(cfg, false); err != nil {
					return err
				}
				res, ierr := aursync.Info(ctx, session.NewAURClient(cfg), args)
				if res != nil {
					if err := out.RenderResult(display.FromAURInfo(res)); err != nil {
						return err
					}
				}
				return ierr

			default:
				if len(args) == 0 {
					return errors.New(errors.ErrInvalidInput, MsgErrNoTargets)
				}
				if err := session.Preflight(cfg, true); err != nil {
					return err
				}
				s, err := session.Open(cfg)
				if err != nil {
					return err
				}
				for _, w := range s.Warnings {
					if err := errOut.RenderWarning(w.Error()); err != nil {
						return err
					}
				}

				res, perr := aursync.Plan(ctx, aursync.PlanOptions{Resolver: s.Resolver(), Targets: args})
				if res != nil {
					if err := out.RenderResult(display.FromPlan(args, res, tree)); err != nil {
						return err
					}
				}
				return perr
			}
		},
	}

	cmd.Flags().BoolVarP(&search, "search", "s", false, MsgFlagSearch)
	cmd.Flags().BoolVarP(&info, "info", "i", false, MsgFlagInfo)
	cmd.Flags().BoolVar(&tree, "tree", false, MsgFlagTree)
	cmd.MarkFlagsMutuallyExclusive("search", "info")
	cmd.MarkFlagsMutuallyExclusive("search", "tree")
	cmd.MarkFlagsMutuallyExclusive("info", "tree")
	return cmd
}
