package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(newConfigWriteCmd(a))
	return cmd
}

// newConfigWriteCmd saves the merged configuration (defaults, file, env and
// flags) so it can be edited and passed back with --config.
func newConfigWriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "write PATH",
		Short: "Write the effective configuration as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}
