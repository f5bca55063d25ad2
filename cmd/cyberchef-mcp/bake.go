package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/noctonic/cyberchef-mcp-sse/recipe"
	"github.com/spf13/cobra"
)

// parseRecipe decodes a JSON array of {op, args} steps.
func parseRecipe(raw string) ([]recipe.Step, error) {
	if raw == "" {
		return nil, errors.New("--recipe is required")
	}
	var steps []recipe.Step
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, fmt.Errorf("parse --recipe: %w", err)
	}
	return steps, nil
}

func newBakeCmd(a *app) *cobra.Command {
	var (
		input     string
		recipeArg string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "bake",
		Short: "Bake a recipe once and print the result",
		Long: `Bake a recipe once and print the shareable URL and the result.

The recipe is a JSON array, e.g.
  --recipe '[{"op":"ROT13","args":[true,true,0]}]'
Without --input the input is read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := parseRecipe(recipeArg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("input") {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(data)
			}

			c, err := newChef(a.cfg, a.logger)
			if err != nil {
				return err
			}
			res, err := c.Bake(cmd.Context(), input, steps)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, res)
			}
			fmt.Fprintln(out, res.URL)
			fmt.Fprintln(out, res.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input data (default: stdin)")
	cmd.Flags().StringVarP(&recipeArg, "recipe", "r", "", "recipe as a JSON array of {op, args}")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print {url, text, recipe} as JSON")
	return cmd
}

func newURLCmd(a *app) *cobra.Command {
	var recipeArg string
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the shareable CyberChef URL of a recipe without baking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			steps, err := parseRecipe(recipeArg)
			if err != nil {
				return err
			}
			c, err := newChef(a.cfg, a.logger)
			if err != nil {
				return err
			}
			u, err := c.URL(steps)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u)
			return nil
		},
	}
	cmd.Flags().StringVarP(&recipeArg, "recipe", "r", "", "recipe as a JSON array of {op, args}")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cyberchef-mcp %s\n", version)
			return nil
		},
	}
}
