package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"subprofile/internal/workflow"
	"subprofile/pkg/domain"
)

func newAddCmd(a *app) *cobra.Command {
	var rec domain.Subproject
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and store a subproject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, release, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			form := workflow.NewForm(a.catalog, store, workflow.WithLogger(a.logger))
			for _, f := range domain.Fields() {
				if err := form.Set(f, rec.Get(f)); err != nil {
					return err
				}
			}
			n, err := form.Submit(cmd.Context())
			if err != nil {
				printFieldErrors(a, err)
				return err
			}
			_, err = fmt.Fprintln(a.stdout, n.Message)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&rec.SubprojectName, "name", "", "subproject name")
	flags.StringVar(&rec.Description, "description", "", "description")
	flags.StringVar(&rec.Region, "region", "", "region")
	flags.StringVar(&rec.Province, "province", "", "province within the region")
	flags.StringVar(&rec.Municipality, "municipality", "", "municipality")
	flags.StringVar(&rec.ProjectCost, "cost", "", `project cost, e.g. "1,234.56"`)
	flags.StringVar(&rec.SubprojectType, "type", "", "subproject type")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "List stored subprojects matching a query",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			session, err := workflow.OpenSearch(cmd.Context(), a.catalog, store, workflow.WithLogger(a.logger))
			if err != nil {
				return err
			}
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return printRows(a, session.Search(cmd.Context(), query))
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var edits []string
	cmd := &cobra.Command{
		Use:   "update <projectCost>",
		Short: "Apply staged cell edits to the rows whose cost equals projectCost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(edits) == 0 {
				return errors.New("at least one --edit row:field=value is required")
			}
			store, release, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			session, err := workflow.OpenSearch(cmd.Context(), a.catalog, store, workflow.WithLogger(a.logger))
			if err != nil {
				return err
			}
			for _, raw := range edits {
				row, field, value, err := parseEdit(raw)
				if err != nil {
					return err
				}
				if err := session.Edit(row, field, value); err != nil {
					return err
				}
			}
			n, err := session.Update(cmd.Context(), args[0])
			if err != nil {
				printFieldErrors(a, err)
				return err
			}
			_, err = fmt.Fprintln(a.stdout, n.Message)
			return err
		},
	}
	cmd.Flags().StringArrayVar(&edits, "edit", nil, "staged edit as row:field=value (repeatable)")
	return cmd
}

// parseEdit splits "row:field=value". The value may contain ':' or '='.
func parseEdit(raw string) (int, domain.Field, string, error) {
	rowPart, rest, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, "", "", fmt.Errorf("edit %q: expected row:field=value", raw)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowPart))
	if err != nil {
		return 0, "", "", fmt.Errorf("edit %q: invalid row: %w", raw, err)
	}
	name, value, ok := strings.Cut(rest, "=")
	if !ok {
		return 0, "", "", fmt.Errorf("edit %q: expected field=value", raw)
	}
	field, err := domain.ParseField(strings.TrimSpace(name))
	if err != nil {
		return 0, "", "", fmt.Errorf("edit %q: %w", raw, err)
	}
	return row, field, value, nil
}

func printRows(a *app, rows []workflow.Row) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tTYPE\tREGION\tPROVINCE\tMUNICIPALITY\tCOST\tDESCRIPTION")
	for _, r := range rows {
		rec := r.Record
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Index, rec.SubprojectName, rec.SubprojectType, rec.Region,
			rec.Province, rec.Municipality, rec.ProjectCost, rec.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	total, skipped := workflow.TotalCost(rows)
	summary := fmt.Sprintf("%d row(s), total cost %s", len(rows), total.StringFixed(2))
	if skipped > 0 {
		summary += fmt.Sprintf(" (%d unparsable cost(s) skipped)", skipped)
	}
	_, err := fmt.Fprintln(a.stdout, summary)
	return err
}

func printFieldErrors(a *app, err error) {
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		return
	}
	for _, f := range domain.Fields() {
		if msg, ok := verr.Fields[f]; ok {
			fmt.Fprintf(a.stderr, "  %s: %s\n", f, msg)
		}
	}
}
