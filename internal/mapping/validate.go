package mapping

import (
	"fmt"

	"xmlbind/adapter"
	"xmlbind/diagnostic"
	"xmlbind/internal/match"
	"xmlbind/qname"
)

// Validate checks a schema file for structural problems: names that do not
// resolve, unknown adapters and types, malformed fields and subtype cycles.
// A nil adapter registry means the built-in adapters.
func Validate(sf *SchemaFile, adapters *adapter.Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if sf == nil {
		res.AddError("schema_is_nil", "schema file is nil", "", "")
		return res
	}

	if adapters == nil {
		adapters = adapter.NewRegistry()
	}

	if sf.Version != "1" {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported schema version %q", sf.Version), "", "")
	}

	if sf.ElementForm != FormQualified && sf.ElementForm != FormUnqualified {
		res.AddError("invalid_element_form",
			fmt.Sprintf("elementForm must be %q or %q, got %q", FormQualified, FormUnqualified, sf.ElementForm), "", "")
	}

	for prefix := range sf.Prefixes {
		if prefix == "" || prefix == qname.XMLPrefix || prefix == "xmlns" {
			res.AddError("invalid_prefix", fmt.Sprintf("prefix %q cannot be bound", prefix), "", prefix)
		}
	}

	v := &validator{sf: sf, adapters: adapters, res: res, types: map[qname.QName]*TypeDef{}}
	v.collectTypes()

	for i := range sf.Types {
		v.validateType(&sf.Types[i])
	}

	v.checkCycles()
	v.checkUnused()

	return res
}

type validator struct {
	sf       *SchemaFile
	adapters *adapter.Registry
	res      *diagnostic.Diagnostics
	types    map[qname.QName]*TypeDef
	names    []string
	used     map[qname.QName]bool
}

func (v *validator) collectTypes() {
	elements := map[qname.QName]string{}

	for i := range v.sf.Types {
		td := &v.sf.Types[i]
		if td.Name == "" {
			v.res.AddError("missing_type_name", fmt.Sprintf("type #%d has no name", i+1), "", "")
			continue
		}

		name, err := v.sf.TypeName(td.Name)
		if err != nil {
			v.res.AddError("invalid_name", fmt.Sprintf("invalid type name: %v", err), td.Name, "")
			continue
		}

		if _, dup := v.types[name]; dup {
			v.res.AddError("duplicate_type", fmt.Sprintf("duplicate type %s", name), td.Name, "")
			continue
		}

		v.types[name] = td
		v.names = append(v.names, td.Name)

		if td.Element == "" {
			continue
		}

		el, err := v.sf.ElementName(td.Element, true)
		if err != nil {
			v.res.AddError("invalid_name", fmt.Sprintf("invalid element name: %v", err), td.Name, td.Element)
			continue
		}

		if other, dup := elements[el]; dup {
			v.res.AddError("duplicate_element",
				fmt.Sprintf("element %s is already used by type %s", el, other), td.Name, td.Element)

			continue
		}

		elements[el] = td.Name
	}
}

// resolveType looks up a type reference, reporting unknown names.
func (v *validator) resolveType(ref, typeName, field string) (qname.QName, bool) {
	name, err := v.sf.TypeName(ref)
	if err != nil {
		v.res.AddError("invalid_name", fmt.Sprintf("invalid type reference: %v", err), typeName, field)
		return qname.QName{}, false
	}

	if _, ok := v.types[name]; !ok {
		v.res.AddError("unknown_type", fmt.Sprintf("type %q not found", ref), typeName, field)
		v.res.Suggest(match.Suggest(ref, v.names)...)

		return qname.QName{}, false
	}

	if v.used == nil {
		v.used = map[qname.QName]bool{}
	}

	v.used[name] = true

	return name, true
}

func (v *validator) validateType(td *TypeDef) {
	if td.Name == "" {
		return
	}

	for _, sub := range td.Subtypes {
		if sub == td.Name {
			v.res.AddError("invalid_subtype", "type cannot be its own subtype", td.Name, sub)
			continue
		}

		v.resolveType(sub, td.Name, sub)
	}

	keys := map[string]bool{}
	attrs := map[qname.QName]bool{}
	elems := map[qname.QName]bool{}

	var values, wildcards, elements int

	for i := range td.Fields {
		f := &td.Fields[i]

		if f.Key != "" {
			if keys[f.Key] {
				v.res.AddError("duplicate_key", fmt.Sprintf("record key %q is used twice", f.Key), td.Name, f.DisplayName())
			}

			keys[f.Key] = true
		}

		switch f.Kind() {
		case FieldKindAttr:
			name, ok := v.validateAttr(td, f)
			if ok && attrs[name] {
				v.res.AddError("duplicate_attr", fmt.Sprintf("attribute %s is declared twice", name), td.Name, f.DisplayName())
			}

			attrs[name] = true
		case FieldKindElement:
			elements++

			name, ok := v.validateElement(td, f)
			if ok && elems[name] && f.Cardinality != CardinalityChoice {
				v.res.AddWarning("shadowed_element",
					fmt.Sprintf("element %s is declared twice, the first declaration wins", name), td.Name, f.DisplayName())
			}

			elems[name] = true
		case FieldKindValue:
			values++

			v.validateScalar(td, f, "value")
		case FieldKindAny:
			wildcards++

			if f.Adapter != "" || f.Type != "" || f.Nillable || f.ID {
				v.res.AddError("invalid_field", "wildcard fields take no adapter, type, nillable or id", td.Name, f.DisplayName())
			}
		default:
			v.res.AddError("invalid_field", "field must set exactly one of attr, element, value and any", td.Name, f.DisplayName())
		}
	}

	if values > 1 {
		v.res.AddError("invalid_field", "more than one value field", td.Name, "")
	}

	if wildcards > 1 {
		v.res.AddError("invalid_field", "more than one wildcard field", td.Name, "")
	}

	if values > 0 && elements > 0 {
		v.res.AddError("invalid_field", "a value field cannot be combined with element fields", td.Name, "")
	}
}

func (v *validator) validateAttr(td *TypeDef, f *FieldDef) (qname.QName, bool) {
	name, err := v.sf.AttrName(f.Attr)
	if err != nil {
		v.res.AddError("invalid_name", fmt.Sprintf("invalid attribute name: %v", err), td.Name, f.Attr)
		return qname.QName{}, false
	}

	if f.Cardinality != CardinalityOptional && f.Cardinality != CardinalityRequired {
		v.res.AddError("invalid_cardinality",
			fmt.Sprintf("attributes are optional or required, got %q", f.Cardinality), td.Name, f.DisplayName())
	}

	v.validateScalar(td, f, "attribute")

	return name, true
}

func (v *validator) validateElement(td *TypeDef, f *FieldDef) (qname.QName, bool) {
	if f.ID {
		v.res.AddError("invalid_field", "only attributes can be ids", td.Name, f.DisplayName())
	}

	if !f.Cardinality.IsValid() {
		v.res.AddError("invalid_cardinality", fmt.Sprintf("unknown cardinality %q", f.Cardinality), td.Name, f.DisplayName())
	}

	if f.Cardinality == CardinalityChoice && f.Choice == "" {
		v.res.AddError("invalid_field", "choice variant without a group", td.Name, f.DisplayName())
	}

	switch {
	case (f.Adapter == "") == (f.Type == ""):
		v.res.AddError("invalid_field", "element fields set exactly one of adapter and type", td.Name, f.DisplayName())
	case f.Adapter != "":
		v.checkAdapter(td, f)
	default:
		v.resolveType(f.Type, td.Name, f.DisplayName())
	}

	name, err := v.sf.ElementName(f.Element, false)
	if err != nil {
		v.res.AddError("invalid_name", fmt.Sprintf("invalid element name: %v", err), td.Name, f.Element)
		return qname.QName{}, false
	}

	return name, true
}

func (v *validator) validateScalar(td *TypeDef, f *FieldDef, what string) {
	if f.Type != "" {
		v.res.AddError("invalid_field", fmt.Sprintf("%s fields cannot have a nested type", what), td.Name, f.DisplayName())
	}

	if f.Nillable {
		v.res.AddError("invalid_field", fmt.Sprintf("%s fields cannot be nillable", what), td.Name, f.DisplayName())
	}

	if f.ID && f.Kind() != FieldKindAttr {
		v.res.AddError("invalid_field", "only attributes can be ids", td.Name, f.DisplayName())
	}

	if f.Adapter == "" {
		v.res.AddError("invalid_field", fmt.Sprintf("%s fields need an adapter", what), td.Name, f.DisplayName())
		return
	}

	v.checkAdapter(td, f)
}

func (v *validator) checkAdapter(td *TypeDef, f *FieldDef) {
	if _, err := v.adapters.Lookup(f.Adapter); err != nil {
		v.res.AddError("unknown_adapter", err.Error(), td.Name, f.DisplayName())
		v.res.Suggest(match.Suggest(f.Adapter, v.adapters.Names())...)
	}
}

// checkCycles reports types that are, directly or not, their own subtype.
func (v *validator) checkCycles() {
	const (
		unvisited = iota
		visiting
		done
	)

	state := map[qname.QName]int{}

	var visit func(name qname.QName) bool

	visit = func(name qname.QName) bool {
		switch state[name] {
		case visiting:
			return true
		case done:
			return false
		}

		state[name] = visiting

		td := v.types[name]
		for _, sub := range td.Subtypes {
			subName, err := v.sf.TypeName(sub)
			if err != nil || v.types[subName] == nil || subName == name {
				continue
			}

			if visit(subName) {
				return true
			}
		}

		state[name] = done

		return false
	}

	for _, name := range v.sortedTypes() {
		if state[name] == unvisited && visit(name) {
			v.res.AddError("subtype_cycle", "subtypes form a cycle", v.types[name].Name, "")
		}
	}
}

func (v *validator) checkUnused() {
	for _, name := range v.sortedTypes() {
		td := v.types[name]
		if td.Element == "" && !v.used[name] {
			v.res.AddWarning("unused_type", "type has no element and is never referenced", td.Name, "")
		}
	}
}

// sortedTypes returns the type names in declaration order.
func (v *validator) sortedTypes() []qname.QName {
	var out []qname.QName

	for i := range v.sf.Types {
		name, err := v.sf.TypeName(v.sf.Types[i].Name)
		if err != nil || v.types[name] != &v.sf.Types[i] {
			continue
		}

		out = append(out, name)
	}

	return out
}
