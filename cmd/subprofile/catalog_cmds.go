package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List regions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printLines(a, a.catalog.Regions())
		},
	}
}

func newProvincesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "provinces <region>",
		Short: "List the provinces of a region",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provinces, err := a.catalog.ProvincesOf(args[0])
			if err != nil {
				return err
			}
			return printLines(a, provinces)
		},
	}
}

func newMunicipalitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "municipalities <province>",
		Short: "List the municipalities of a province",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			towns, err := a.catalog.MunicipalitiesOf(args[0])
			if err != nil {
				return err
			}
			return printLines(a, towns)
		},
	}
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List subproject types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := a.catalog.SubprojectTypes()
			lines := make([]string, len(types))
			for i, t := range types {
				lines[i] = t.String()
			}
			return printLines(a, lines)
		},
	}
}

func printLines(a *app, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(a.stdout, line); err != nil {
			return err
		}
	}
	return nil
}
