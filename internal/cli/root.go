// Package cli contains the xmlbind command definitions.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xmlbind/codec"
	"xmlbind/descriptor"
	"xmlbind/internal/config"
	"xmlbind/internal/logging"
	"xmlbind/internal/mapping"
)

// Run builds the root command and executes it with args.
func Run(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)

	return root.ExecuteContext(ctx)
}

// app is the state shared by the commands of one invocation.
type app struct {
	configPath string
	schemaPath string
	mode       string
	logLevel   string
	logFormat  string

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "xmlbind",
		Short: "Schema driven XML binding",
		Long: `xmlbind reads and writes XML documents against a YAML schema of
types, fields and value adapters, reporting every anomaly it recovers from.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFilename+" if present)")
	flags.StringVarP(&a.schemaPath, "schema", "s", "", "schema file, overrides the config")
	flags.StringVar(&a.mode, "mode", "", "anomaly mode: collect or fail-fast")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	rootCmd.AddCommand(
		newInitCmd(a),
		newDecodeCmd(a),
		newRoundtripCmd(a),
		newCheckCmd(a),
		newSchemaCmd(a),
		newTypesCmd(a),
		newGenCmd(a),
	)

	return rootCmd
}

// load reads the config file and applies the flag overrides.
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := a.readConfig()
	if err != nil {
		return err
	}

	if a.schemaPath != "" {
		cfg.Schema = a.schemaPath
	}

	if a.mode != "" {
		cfg.Mode = a.mode
	}

	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log

	return nil
}

func (a *app) readConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.Load(a.configPath)
	}

	cfg, err := config.Load(config.DefaultFilename)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}

	return cfg, err
}

func (a *app) schema() (*mapping.SchemaFile, error) {
	if a.cfg.Schema == "" {
		return nil, fmt.Errorf("no schema file: pass --schema or set schema in %s", config.DefaultFilename)
	}

	return mapping.LoadFile(a.cfg.Schema)
}

func (a *app) registry() (*mapping.SchemaFile, *descriptor.Registry, error) {
	sf, err := a.schema()
	if err != nil {
		return nil, nil, err
	}

	reg, err := mapping.Build(sf, nil)
	if err != nil {
		return nil, nil, err
	}

	return sf, reg, nil
}

// codecOptions returns the options shared by decoders and encoders.
func (a *app) codecOptions() []codec.Option {
	opts := []codec.Option{
		codec.WithMode(a.cfg.AnomalyMode()),
		codec.WithLogger(a.log),
	}

	if a.cfg.Indent != "" {
		opts = append(opts, codec.WithIndent(a.cfg.Indent))
	}

	for _, uri := range slices.Sorted(maps.Keys(a.cfg.Prefixes)) {
		opts = append(opts, codec.WithPrefix(a.cfg.Prefixes[uri], uri))
	}

	return opts
}

// resolveType looks up the type named by --type, or returns nil for none.
func resolveType(sf *mapping.SchemaFile, reg *descriptor.Registry, name string) (*descriptor.Type, error) {
	if name == "" {
		return nil, nil
	}

	qn, err := sf.TypeName(name)
	if err != nil {
		return nil, fmt.Errorf("invalid type name: %w", err)
	}

	return reg.Resolve(qn)
}

// readInput reads path, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return data, nil
}
