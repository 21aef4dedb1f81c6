package rah

import (
	"fmt"

	"github.com/arthur-debert/rah/pkg/commands/genconfig"
	"github.com/arthur-debert/rah/pkg/paths"
	"github.com/spf13/cobra"
)

func newGenConfigCmd(a *app) *cobra.Command {
	var effective, write bool

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := genconfig.Options{Write: write}
			if effective {
				cfg, err := a.config()
				if err != nil {
					return err
				}
				opts.Config = cfg
			}
			if write {
				opts.Target = a.configFile
				if opts.Target == "" {
					opts.Target = paths.New().ConfigFile()
				} else {
					opts.Target = paths.ExpandHome(opts.Target)
				}
			}

			result, err := genconfig.GenConfig(opts)
			if err != nil {
				return err
			}
			if result.Written != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, result.Written)
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), result.Content)
			return err
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	return cmd
}
