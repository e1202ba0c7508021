package mapping

import (
	"strings"

	"xmlbind/qname"
)

// SchemaFile is the root of a YAML schema file.
type SchemaFile struct {
	// Version of the schema file format.
	Version string `yaml:"version,omitempty"`

	// Namespace is the target namespace for unprefixed type and element names.
	Namespace string `yaml:"namespace,omitempty"`

	// ElementForm is "qualified" (default) or "unqualified". Unqualified local
	// elements have no namespace, like elementFormDefault in XML Schema.
	ElementForm string `yaml:"elementForm,omitempty"`

	// Prefixes binds the prefixes used in names to namespace URIs.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Types lists the type definitions.
	Types []TypeDef `yaml:"types"`
}

// Element forms.
const (
	FormQualified   = "qualified"
	FormUnqualified = "unqualified"
)

// TypeDef defines one structural type.
type TypeDef struct {
	// Name of the type, compared against xsi:type.
	Name string `yaml:"name"`

	// Element is the global element name for this type, if documents may use
	// it as a root.
	Element string `yaml:"element,omitempty"`

	// Subtypes names the types accepted in place of this one.
	Subtypes NameList `yaml:"subtypes,omitempty"`

	// Doc is copied into generated code.
	Doc string `yaml:"doc,omitempty"`

	// Fields in schema declaration order.
	Fields []FieldDef `yaml:"fields"`
}

// Cardinality is the YAML form of descriptor.Cardinality.
type Cardinality string

const (
	CardinalityOptional Cardinality = "optional"
	CardinalityRequired Cardinality = "required"
	CardinalityRepeated Cardinality = "repeated"
	CardinalityChoice   Cardinality = "choice"
)

// IsValid returns true if the cardinality is a recognized value.
func (c Cardinality) IsValid() bool {
	switch c {
	case CardinalityOptional, CardinalityRequired, CardinalityRepeated, CardinalityChoice:
		return true
	default:
		return false
	}
}

// FieldDef defines one field. Exactly one of Attr, Element, Value and Any is set.
type FieldDef struct {
	Attr    string `yaml:"attr,omitempty"`
	Element string `yaml:"element,omitempty"`
	// Value binds the simple content of the element.
	Value bool `yaml:"value,omitempty"`
	// Any collects unmatched child elements.
	Any bool `yaml:"any,omitempty"`

	// Key is the record key the value is stored under.
	Key string `yaml:"key,omitempty"`

	// Adapter names the value adapter of a scalar field.
	Adapter string `yaml:"adapter,omitempty"`

	// Type names the nested type of an element field.
	Type string `yaml:"type,omitempty"`

	Cardinality Cardinality `yaml:"cardinality,omitempty"`

	// Choice names the group of a choice variant. Setting it implies
	// cardinality "choice".
	Choice string `yaml:"choice,omitempty"`

	Nillable bool `yaml:"nillable,omitempty"`
	ID       bool `yaml:"id,omitempty"`
}

// FieldKind tells which of Attr, Element, Value and Any a field uses.
type FieldKind int

const (
	FieldKindInvalid FieldKind = iota
	FieldKindAttr
	FieldKindElement
	FieldKindValue
	FieldKindAny
)

// Kind returns the field's kind, or FieldKindInvalid when zero or several
// kinds are set.
func (f *FieldDef) Kind() FieldKind {
	var kinds []FieldKind

	if f.Attr != "" {
		kinds = append(kinds, FieldKindAttr)
	}

	if f.Element != "" {
		kinds = append(kinds, FieldKindElement)
	}

	if f.Value {
		kinds = append(kinds, FieldKindValue)
	}

	if f.Any {
		kinds = append(kinds, FieldKindAny)
	}

	if len(kinds) != 1 {
		return FieldKindInvalid
	}

	return kinds[0]
}

// DisplayName returns the name used for the field in diagnostics.
func (f *FieldDef) DisplayName() string {
	switch f.Kind() {
	case FieldKindAttr:
		return "@" + f.Attr
	case FieldKindElement:
		return f.Element
	case FieldKindValue:
		return "#value"
	case FieldKindAny:
		return "#any"
	default:
		return f.Key
	}
}

// IsRepeated returns true if the field holds a sequence.
func (f *FieldDef) IsRepeated() bool {
	return f.Cardinality == CardinalityRepeated || f.Any
}

// LookupNamespace implements qname.Resolver over the schema prefixes. The
// empty prefix is the schema namespace.
func (sf *SchemaFile) LookupNamespace(prefix string) (string, bool) {
	if prefix == "" {
		return sf.Namespace, true
	}

	uri, ok := sf.Prefixes[prefix]

	return uri, ok
}

// TypeName resolves a type name.
func (sf *SchemaFile) TypeName(s string) (qname.QName, error) {
	return sf.name(s, true)
}

// ElementName resolves a global or local element name.
func (sf *SchemaFile) ElementName(s string, global bool) (qname.QName, error) {
	return sf.name(s, global || sf.ElementForm != FormUnqualified)
}

// AttrName resolves an attribute name.
func (sf *SchemaFile) AttrName(s string) (qname.QName, error) {
	return sf.name(s, false)
}

func (sf *SchemaFile) name(s string, useDefault bool) (qname.QName, error) {
	if strings.HasPrefix(s, "{") {
		return qname.Parse(s)
	}

	return qname.Resolve(s, sf, useDefault)
}

// FindType returns the type definition with the given name, or nil.
func (sf *SchemaFile) FindType(name string) *TypeDef {
	want, err := sf.TypeName(name)
	if err != nil {
		return nil
	}

	for i := range sf.Types {
		if got, err := sf.TypeName(sf.Types[i].Name); err == nil && got == want {
			return &sf.Types[i]
		}
	}

	return nil
}
