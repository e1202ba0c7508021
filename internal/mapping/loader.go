package mapping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"xmlbind/qname"
)

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a SchemaFile.
func Parse(data []byte) (*SchemaFile, error) {
	var sf SchemaFile

	err := yaml.Unmarshal(data, &sf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&sf)

	return &sf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(sf *SchemaFile) {
	if sf.Version == "" {
		sf.Version = "1"
	}

	if sf.ElementForm == "" {
		sf.ElementForm = FormQualified
	}

	for i := range sf.Types {
		for j := range sf.Types[i].Fields {
			applyFieldDefaults(&sf.Types[i].Fields[j])
		}
	}
}

func applyFieldDefaults(f *FieldDef) {
	switch {
	case f.Choice != "" && f.Cardinality == "":
		f.Cardinality = CardinalityChoice
	case f.Any:
		f.Cardinality = CardinalityRepeated
	case f.Cardinality == "":
		f.Cardinality = CardinalityOptional
	}

	if f.Key != "" {
		return
	}

	switch f.Kind() {
	case FieldKindAttr:
		f.Key = localName(f.Attr)
	case FieldKindElement:
		f.Key = localName(f.Element)
	case FieldKindValue:
		f.Key = "value"
	case FieldKindAny:
		f.Key = "any"
	}
}

func localName(s string) string {
	if strings.HasPrefix(s, "{") {
		if q, err := qname.Parse(s); err == nil {
			return q.Local
		}

		return s
	}

	if _, local, err := qname.SplitPrefixed(s); err == nil {
		return local
	}

	return s
}

// Marshal serializes a SchemaFile to YAML.
func Marshal(sf *SchemaFile) ([]byte, error) {
	return yaml.Marshal(sf)
}

// WriteFile writes a SchemaFile to the given path.
func WriteFile(sf *SchemaFile, path string) error {
	data, err := Marshal(sf)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
