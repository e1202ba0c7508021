package mapping

import (
	"errors"
	"fmt"

	"xmlbind/adapter"
	"xmlbind/descriptor"
	"xmlbind/qname"
	"xmlbind/record"
)

var cardinalities = map[Cardinality]descriptor.Cardinality{
	CardinalityOptional: descriptor.CardinalityOptional,
	CardinalityRequired: descriptor.CardinalityRequired,
	CardinalityRepeated: descriptor.CardinalityRepeated,
	CardinalityChoice:   descriptor.CardinalityChoice,
}

// Build validates sf and turns it into a sealed registry whose nodes are
// *record.Record values. A nil adapter registry means the built-in adapters.
func Build(sf *SchemaFile, adapters *adapter.Registry) (*descriptor.Registry, error) {
	if adapters == nil {
		adapters = adapter.NewRegistry()
	}

	if diags := Validate(sf, adapters); diags.HasErrors() {
		return nil, fmt.Errorf("invalid schema: %w", diags.Err())
	}

	types := make(map[qname.QName]*descriptor.Type, len(sf.Types))

	for i := range sf.Types {
		name, _ := sf.TypeName(sf.Types[i].Name)
		types[name] = record.TypeFor(name)
	}

	reg := descriptor.NewRegistry()

	for i := range sf.Types {
		td := &sf.Types[i]
		name, _ := sf.TypeName(td.Name)
		t := types[name]

		if td.Element != "" {
			t.Element, _ = sf.ElementName(td.Element, true)
		}

		for _, sub := range td.Subtypes {
			subName, _ := sf.TypeName(sub)
			t.Subtypes = append(t.Subtypes, types[subName])
		}

		for j := range td.Fields {
			f, err := buildField(sf, &td.Fields[j], types, adapters)
			if err != nil {
				return nil, fmt.Errorf("failed to build field %s of %s: %w", td.Fields[j].DisplayName(), td.Name, err)
			}

			t.Fields = append(t.Fields, f)
		}

		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("failed to register type %s: %w", td.Name, err)
		}
	}

	if err := reg.Seal(); err != nil {
		return nil, fmt.Errorf("failed to seal registry: %w", err)
	}

	return reg, nil
}

func buildField(
	sf *SchemaFile,
	fd *FieldDef,
	types map[qname.QName]*descriptor.Type,
	adapters *adapter.Registry,
) (*descriptor.Field, error) {
	f := &descriptor.Field{
		Cardinality: cardinalities[fd.Cardinality],
		Choice:      fd.Choice,
		Nillable:    fd.Nillable,
		ID:          fd.ID,
	}

	var err error

	switch fd.Kind() {
	case FieldKindAttr:
		f.Kind = descriptor.FieldAttribute
		f.Name, err = sf.AttrName(fd.Attr)
	case FieldKindElement:
		f.Kind = descriptor.FieldElement
		f.Name, err = sf.ElementName(fd.Element, false)
	case FieldKindValue:
		f.Kind = descriptor.FieldValue
	case FieldKindAny:
		f.Kind = descriptor.FieldAny
	default:
		return nil, errors.New("invalid field kind")
	}

	if err != nil {
		return nil, err
	}

	if fd.Adapter != "" {
		if f.Adapter, err = adapters.Lookup(fd.Adapter); err != nil {
			return nil, err
		}
	}

	if fd.Type != "" {
		name, err := sf.TypeName(fd.Type)
		if err != nil {
			return nil, err
		}

		f.Type = types[name]
	}

	if fd.IsRepeated() {
		f.Seq = record.Seq(fd.Key)
	} else {
		f.Slot = record.Slot(fd.Key)
	}

	return f, nil
}
