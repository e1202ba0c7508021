package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"xmlbind/codec"
)

func newRoundtripCmd(a *app) *cobra.Command {
	var (
		typeName string
		diff     bool
	)

	cmd := &cobra.Command{
		Use:   "roundtrip FILE",
		Short: "Decode a document and write it back",
		Long: `Roundtrip decodes FILE ("-" for stdin) and encodes the result again with
the configured indentation and prefixes. With --diff it prints a line diff
against the input instead of the output document.`,
		Example: `  xmlbind roundtrip -s shop.yaml --diff order.xml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRoundtrip(cmd, args[0], typeName, diff)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "decode the root as this type instead of by element name")
	cmd.Flags().BoolVar(&diff, "diff", false, "print a diff against the input")

	return cmd
}

func (a *app) runRoundtrip(cmd *cobra.Command, path, typeName string, diff bool) error {
	sf, reg, err := a.registry()
	if err != nil {
		return err
	}

	t, err := resolveType(sf, reg, typeName)
	if err != nil {
		return err
	}

	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	opts := a.codecOptions()

	res, err := decode(codec.NewDecoder(reg, opts...), data, t)
	if err != nil {
		return err
	}

	if t == nil {
		if t, err = reg.ResolveElement(res.Root); err != nil {
			return err
		}
	}

	var buf bytes.Buffer

	written, err := codec.NewEncoder(reg, opts...).EncodeAs(&buf, res.Root, res.Value, t)
	if err != nil {
		return fmt.Errorf("failed to encode: %w", err)
	}

	stderr := cmd.ErrOrStderr()
	printAnomalies(stderr, path, res.Anomalies)
	printAnomalies(stderr, path+" (written)", written.Anomalies)

	out := cmd.OutOrStdout()

	if diff {
		if !printDiff(out, string(data), buf.String()) {
			fmt.Fprintln(stderr, okColor("documents are identical"))
		}

		return nil
	}

	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}

	_, err = out.Write(buf.Bytes())

	return err
}
