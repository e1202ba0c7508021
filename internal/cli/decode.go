package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"xmlbind/codec"
	"xmlbind/descriptor"
	"xmlbind/record"
)

func newDecodeCmd(a *app) *cobra.Command {
	var (
		typeName string
		dump     bool
	)

	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a document and print it as YAML",
		Long: `Decode reads FILE ("-" for stdin) against the schema and prints the
decoded records as YAML. Anomalies are reported on stderr.`,
		Example: `  # Decode by root element name
  xmlbind decode -s shop.yaml order.xml

  # Decode the root as a given type and dump the Go values
  xmlbind decode -s shop.yaml --type itemType --dump item.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(cmd, args[0], typeName, dump)
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "", "decode the root as this type instead of by element name")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the decoded Go values instead of YAML")

	return cmd
}

func (a *app) runDecode(cmd *cobra.Command, path, typeName string, dump bool) error {
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

	res, err := decode(codec.NewDecoder(reg, a.codecOptions()...), data, t)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if dump {
		spew.Fdump(out, res.Value)
	} else if err := writeYAML(out, res.Value); err != nil {
		return err
	}

	printAnomalies(cmd.ErrOrStderr(), path, res.Anomalies)

	return nil
}

func decode(dec *codec.Decoder, data []byte, t *descriptor.Type) (*codec.Result, error) {
	var (
		res *codec.Result
		err error
	)

	if t == nil {
		res, err = dec.Decode(bytes.NewReader(data))
	} else {
		res, err = dec.DecodeAs(bytes.NewReader(data), t)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}

	return res, nil
}

// writeYAML prints a decoded record as YAML, or null for no value.
func writeYAML(w io.Writer, v any) error {
	var doc any

	if r, ok := v.(*record.Record); ok && r != nil {
		doc = r.ToMap()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}

	return enc.Close()
}
