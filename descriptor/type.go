package descriptor

import (
	"xmlbind/adapter"
	"xmlbind/qname"
)

// Field binds one attribute, child element, text value or wildcard of a type
// to a slot of the node.
type Field struct {
	// Name is the attribute or element name. Unused for FieldValue and FieldAny.
	Name        qname.QName
	Kind        FieldKind
	Cardinality Cardinality
	// Choice names the choice group of a CardinalityChoice field.
	Choice string
	// Adapter converts scalar values. Exactly one of Adapter and Type is set
	// for elements; attributes and values always use an Adapter.
	Adapter adapter.Adapter
	// Type describes nested element content.
	Type *Type
	// Nillable fields write nil values as xsi:nil elements and keep nil items on read.
	Nillable bool
	// ID registers the node in the ID index under this attribute's value.
	ID bool

	Slot Slot
	Seq  SeqSlot
}

// IsRepeated reports whether the field holds a sequence.
func (f *Field) IsRepeated() bool {
	return f.Cardinality == CardinalityRepeated || f.Kind == FieldAny
}

// IsNested reports whether the field's values are nodes of a nested type.
func (f *Field) IsNested() bool {
	return f.Type != nil
}

// Label returns a human readable name for diagnostics.
func (f *Field) Label() string {
	switch f.Kind {
	case FieldValue:
		return "#value"
	case FieldAny:
		return "#any"
	default:
		return f.Name.String()
	}
}

// Type describes one structural type: its fields in schema order, the subtypes
// accepted in its place and how to create and recognize its nodes.
//
// A Type is mutable only until its registry is sealed.
type Type struct {
	// Name is the schema type name, compared against xsi:type. Zero for anonymous types.
	Name qname.QName
	// Element is the global element name documents use for this type, if any.
	Element qname.QName
	// Fields in schema declaration order.
	Fields []*Field
	// Subtypes may appear wherever this type is expected, selected with xsi:type.
	Subtypes []*Type

	// New allocates an empty node.
	New func() any
	// Is reports whether node is exactly of this type.
	Is func(node any) bool
	// IsNil reports whether node is a nil pointer of this type's node type,
	// which a nil interface comparison does not catch.
	IsNil func(node any) bool

	// AfterRead runs once a node is fully populated.
	AfterRead func(node any) error
	// BeforeWrite runs before a node's start tag is written.
	BeforeWrite func(node any) error

	attrs    map[qname.QName]*Field
	elems    map[qname.QName]*Field
	value    *Field
	wildcard *Field
	sealed   bool
}

// For returns a Type whose nodes are *N values.
func For[N any](name qname.QName) *Type {
	return &Type{
		Name: name,
		New: func() any {
			return new(N)
		},
		Is: func(node any) bool {
			n, ok := node.(*N)
			return ok && n != nil
		},
		IsNil: func(node any) bool {
			n, ok := node.(*N)
			return ok && n == nil
		},
	}
}

// Label returns the type name, or the element name for anonymous types.
func (t *Type) Label() string {
	if !t.Name.IsZero() {
		return t.Name.String()
	}

	if !t.Element.IsZero() {
		return "anonymous type of " + t.Element.String()
	}

	return "anonymous type"
}

// Attribute returns the attribute field named name, or nil.
func (t *Type) Attribute(name qname.QName) *Field {
	return t.attrs[name]
}

// ElementField returns the first element field, in declaration order, named name.
func (t *Type) ElementField(name qname.QName) *Field {
	return t.elems[name]
}

// Value returns the simple content field, or nil.
func (t *Type) Value() *Field {
	return t.value
}

// Wildcard returns the extension element field, or nil.
func (t *Type) Wildcard() *Field {
	return t.wildcard
}

// ExpectedElements lists the element names in declaration order.
func (t *Type) ExpectedElements() []qname.QName {
	return t.names(FieldElement)
}

// ExpectedAttributes lists the attribute names in declaration order.
func (t *Type) ExpectedAttributes() []qname.QName {
	return t.names(FieldAttribute)
}

func (t *Type) names(kind FieldKind) []qname.QName {
	var out []qname.QName

	for _, f := range t.Fields {
		if f.Kind == kind {
			out = append(out, f.Name)
		}
	}

	return out
}

// Subtype finds a direct or transitive subtype named name.
func (t *Type) Subtype(name qname.QName) *Type {
	for _, sub := range t.Subtypes {
		if sub.Name == name {
			return sub
		}

		if found := sub.Subtype(name); found != nil {
			return found
		}
	}

	return nil
}

// IsNilNode reports whether node is nil, either untyped or as a nil pointer
// of this type or one of its subtypes.
func (t *Type) IsNilNode(node any) bool {
	if node == nil {
		return true
	}

	if t.IsNil != nil && t.IsNil(node) {
		return true
	}

	for _, sub := range t.Subtypes {
		if sub.IsNilNode(node) {
			return true
		}
	}

	return false
}

// SubtypeFor finds a direct or transitive subtype whose Is accepts node.
func (t *Type) SubtypeFor(node any) *Type {
	for _, sub := range t.Subtypes {
		if sub.Is != nil && sub.Is(node) {
			return sub
		}

		if found := sub.SubtypeFor(node); found != nil {
			return found
		}
	}

	return nil
}

// Attr declares an attribute field.
func Attr(name qname.QName, a adapter.Adapter, slot Slot) *Field {
	return &Field{Name: name, Kind: FieldAttribute, Cardinality: CardinalityOptional, Adapter: a, Slot: slot}
}

// Scalar declares a single-valued element with text content. Presence
// comes from slot: a Value slot treats zero as absent.
func Scalar(name qname.QName, c Cardinality, a adapter.Adapter, slot Slot) *Field {
	return &Field{Name: name, Kind: FieldElement, Cardinality: c, Adapter: a, Slot: slot}
}

// Scalars declares a repeated element with text content.
func Scalars(name qname.QName, a adapter.Adapter, seq SeqSlot) *Field {
	return &Field{Name: name, Kind: FieldElement, Cardinality: CardinalityRepeated, Adapter: a, Seq: seq}
}

// Nested declares a single-valued element of a nested type.
func Nested(name qname.QName, c Cardinality, t *Type, slot Slot) *Field {
	return &Field{Name: name, Kind: FieldElement, Cardinality: c, Type: t, Slot: slot}
}

// NestedList declares a repeated element of a nested type.
func NestedList(name qname.QName, t *Type, seq SeqSlot) *Field {
	return &Field{Name: name, Kind: FieldElement, Cardinality: CardinalityRepeated, Type: t, Seq: seq}
}

// Text declares the simple content of the element.
func Text(a adapter.Adapter, slot Slot) *Field {
	return &Field{Kind: FieldValue, Cardinality: CardinalityOptional, Adapter: a, Slot: slot}
}

// Any declares the wildcard collecting unmatched child elements.
func Any(seq SeqSlot) *Field {
	return &Field{Kind: FieldAny, Cardinality: CardinalityRepeated, Seq: seq}
}

// Required marks f as required and returns it.
func (f *Field) Required() *Field {
	f.Cardinality = CardinalityRequired
	return f
}

// InChoice marks f as a variant of the choice group and returns it.
func (f *Field) InChoice(group string) *Field {
	f.Cardinality = CardinalityChoice
	f.Choice = group

	return f
}

// AsNillable marks f as nillable and returns it.
func (f *Field) AsNillable() *Field {
	f.Nillable = true
	return f
}

// AsID marks f as the node's ID attribute and returns it.
func (f *Field) AsID() *Field {
	f.ID = true
	return f
}
