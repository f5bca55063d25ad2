package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newOpsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ops",
		Short: "Inspect the operation catalog",
	}
	cmd.AddCommand(
		newOpsListCmd(a),
		newOpsDescribeCmd(a),
		newOpsSearchCmd(a),
	)
	return cmd
}

func newOpsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every operation in catalog order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newChef(a.cfg, a.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range c.ListOperations() {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newOpsDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Show the description and argument schema of an operation",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newChef(a.cfg, a.logger)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), c.DescribeOperation(strings.Join(args, " ")))
		},
	}
}

func newOpsSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search operations by keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newChef(a.cfg, a.logger)
			if err != nil {
				return err
			}
			entries, err := c.SearchOperations(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%s\t%s\n", e.Name, e.Description)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
