package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"xmlbind/internal/gen"
)

func newGenCmd(a *app) *cobra.Command {
	cfg := gen.DefaultGeneratorConfig()

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate typed Go bindings for the schema",
		Long: `Gen writes Go structs for every schema type together with a NewTypes
function building their descriptors, so documents decode into plain
structs instead of records.`,
		Example: `  xmlbind gen -s shop.yaml --package shop --out ./shop`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sf, err := a.schema()
			if err != nil {
				return err
			}

			files, err := gen.NewGenerator(cfg, nil).Generate(sf)
			if err != nil {
				return fmt.Errorf("failed to generate bindings: %w", err)
			}

			paths, err := gen.WriteFiles(files, cfg.OutputDir)
			if err != nil {
				return err
			}

			for _, path := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.PackageName, "package", cfg.PackageName, "package name of the generated code")
	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "output directory")
	cmd.Flags().StringVar(&cfg.Filename, "file", cfg.Filename, "output file name")

	return cmd
}
