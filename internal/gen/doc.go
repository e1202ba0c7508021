// Package gen renders typed Go bindings for a YAML schema.
//
// The output is a single text/template rendering passed through go/format:
//   - one struct per schema type, with pointer fields for optional values
//   - an interface per type with subtypes, so a field can hold any derived type
//   - a Types value whose NewTypes builds the descriptor.Type of every struct
//
// Generated code needs no reflection: every field is reached through the
// accessor closures given to the descriptor slot constructors.
package gen
