package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"xmlbind/internal/mapping"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Work with schema files",
	}

	cmd.AddCommand(newSchemaValidateCmd(a))

	return cmd
}

func newSchemaValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a schema file",
		Long: `Validate checks a schema file (the configured schema when FILE is
omitted) and prints its errors and warnings.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.Schema = args[0]
			}

			sf, err := a.schema()
			if err != nil {
				return err
			}

			diags := mapping.Validate(sf, nil)
			printDiagnostics(cmd.OutOrStdout(), diags)

			if diags.HasErrors() {
				return fmt.Errorf("schema %s has %d errors", a.cfg.Schema, len(diags.Errors()))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d types\n", okColor("ok"), a.cfg.Schema, len(sf.Types))

			return nil
		},
	}
}

func newTypesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the types of the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, reg, err := a.registry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TYPE\tELEMENT\tFIELDS\tSUBTYPES")

			for _, t := range reg.Types() {
				element := "-"
				if !t.Element.IsZero() {
					element = t.Element.String()
				}

				subtypes := make([]string, 0, len(t.Subtypes))
				for _, sub := range t.Subtypes {
					subtypes = append(subtypes, sub.Label())
				}

				subs := "-"
				if len(subtypes) > 0 {
					subs = strings.Join(subtypes, ", ")
				}

				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Label(), element, len(t.Fields), subs)
			}

			return w.Flush()
		},
	}
}
