package descriptor

//go:generate go tool stringer -type=Cardinality,FieldKind -output=kind_string.go

// Cardinality says how often a field may occur.
type Cardinality int

const (
	_ Cardinality = iota // zero value is invalid

	CardinalityOptional
	CardinalityRequired
	CardinalityRepeated
	// CardinalityChoice marks one variant of a choice group; at most one
	// variant of a group is written.
	CardinalityChoice
)

// IsSingle reports whether the field holds at most one value.
func (c Cardinality) IsSingle() bool {
	return c == CardinalityOptional || c == CardinalityRequired || c == CardinalityChoice
}

// FieldKind says where in the document a field lives.
type FieldKind int

const (
	_ FieldKind = iota

	FieldAttribute
	FieldElement
	// FieldValue is the text content of the element itself.
	FieldValue
	// FieldAny collects extension elements no other field matches.
	FieldAny
)
