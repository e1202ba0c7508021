package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlbind/adapter"
	"xmlbind/qname"
)

const ns = "urn:test"

type part struct {
	ID    string
	Count *int
}

type widget struct {
	Name  *string
	Tags  []string
	Parts []*part
	Main  *part
}

type special struct {
	widget
	Level int
}

func partType() *Type {
	t := For[part](qname.New(ns, "part"))
	t.Fields = []*Field{
		Attr(qname.Local("id"), adapter.Trimmed, Value(func(p *part) *string { return &p.ID })).AsID(),
		Scalar(qname.New(ns, "count"), CardinalityOptional, adapter.Int, Ptr(func(p *part) **int { return &p.Count })),
	}

	return t
}

func widgetType(p *Type) *Type {
	t := For[widget](qname.New(ns, "widget"))
	t.Element = qname.New(ns, "widget")
	t.Fields = []*Field{
		Scalar(qname.New(ns, "name"), CardinalityOptional, adapter.Collapsed,
			Ptr(func(w *widget) **string { return &w.Name })).Required(),
		Scalars(qname.New(ns, "tag"), adapter.Trimmed, Slice(func(w *widget) *[]string { return &w.Tags })),
		NestedList(qname.New(ns, "part"), p, Nodes(func(w *widget) *[]*part { return &w.Parts })),
		Nested(qname.New(ns, "main"), CardinalityOptional, p, Node(func(w *widget) **part { return &w.Main })),
	}

	return t
}

func TestRegistry_ResolveAndSeal(t *testing.T) {
	p := partType()
	w := widgetType(p)

	reg := NewRegistry()
	require.NoError(t, reg.Register(w))
	require.NoError(t, reg.Seal())
	assert.True(t, reg.Sealed())

	got, err := reg.Resolve(qname.New(ns, "widget"))
	require.NoError(t, err)
	assert.Same(t, w, got)

	got, err = reg.ResolveElement(qname.New(ns, "widget"))
	require.NoError(t, err)
	assert.Same(t, w, got)

	// nested types reachable through fields are sealed too
	assert.NotNil(t, p.Attribute(qname.Local("id")))
	assert.True(t, p.Attribute(qname.Local("id")).ID)

	assert.Equal(t, []qname.QName{
		qname.New(ns, "name"), qname.New(ns, "tag"), qname.New(ns, "part"), qname.New(ns, "main"),
	}, w.ExpectedElements())
	assert.Equal(t, CardinalityRequired, w.ElementField(qname.New(ns, "name")).Cardinality)
	assert.Nil(t, w.ElementField(qname.New(ns, "bogus")))
	assert.Len(t, reg.Types(), 1)
}

func TestRegistry_UnknownType(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Seal())

	_, err := reg.Resolve(qname.New(ns, "missing"))

	var unknown *UnknownTypeError

	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, qname.New(ns, "missing"), unknown.Name)
	assert.Equal(t, "unknown type {urn:test}missing", err.Error())

	_, err = reg.ResolveElement(qname.New(ns, "missing"))
	require.ErrorAs(t, err, &unknown)
	assert.True(t, unknown.Element)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(partType()))

	err := reg.Register(partType())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate type")

	require.NoError(t, reg.Seal())
	assert.ErrorIs(t, reg.Register(For[widget](qname.New(ns, "other"))), ErrSealed)
}

func TestRegistry_SealValidates(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		want  string
	}{
		{
			name:  "missing slot",
			field: &Field{Name: qname.Local("a"), Kind: FieldElement, Cardinality: CardinalityOptional, Adapter: adapter.String},
			want:  "single field needs a slot",
		},
		{
			name: "adapter and type",
			field: &Field{
				Name: qname.Local("a"), Kind: FieldElement, Cardinality: CardinalityOptional,
				Adapter: adapter.String, Type: partType(), Slot: Node(func(w *widget) **part { return &w.Main }),
			},
			want: "exactly one of adapter and type",
		},
		{
			name:  "repeated attribute",
			field: &Field{Name: qname.Local("a"), Kind: FieldAttribute, Cardinality: CardinalityRepeated, Adapter: adapter.String},
			want:  "only elements can repeat",
		},
		{
			name:  "choice without group",
			field: &Field{Name: qname.Local("a"), Kind: FieldElement, Cardinality: CardinalityChoice, Adapter: adapter.String},
			want:  "choice variant without a group",
		},
		{
			name:  "missing cardinality",
			field: &Field{Name: qname.Local("a"), Kind: FieldElement, Adapter: adapter.String},
			want:  "missing cardinality",
		},
		{
			name:  "unnamed element",
			field: &Field{Kind: FieldElement, Cardinality: CardinalityOptional, Adapter: adapter.String},
			want:  "missing name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := For[widget](qname.Local("w"))
			typ.Fields = []*Field{tt.field}

			reg := NewRegistry()
			require.NoError(t, reg.Register(typ))

			err := reg.Seal()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.False(t, reg.Sealed())
		})
	}
}

func TestType_ChoiceFirstMatchWins(t *testing.T) {
	var first, second *Field

	typ := For[widget](qname.Local("w"))
	first = Scalar(qname.Local("v"), 0, adapter.String, Ptr(func(w *widget) **string { return &w.Name })).InChoice("g")
	second = Scalar(qname.Local("v"), 0, adapter.Int, Ptr(func(p *widget) **string { return &p.Name })).InChoice("g")
	typ.Fields = []*Field{first, second}

	reg := NewRegistry()
	require.NoError(t, reg.Register(typ))
	require.NoError(t, reg.Seal())

	assert.Same(t, first, typ.ElementField(qname.Local("v")))
}

func TestType_Subtypes(t *testing.T) {
	base := For[widget](qname.New(ns, "widget"))
	mid := For[special](qname.New(ns, "special"))
	leaf := For[part](qname.New(ns, "leaf"))

	mid.Subtypes = []*Type{leaf}
	base.Subtypes = []*Type{mid}

	assert.Same(t, mid, base.Subtype(qname.New(ns, "special")))
	assert.Same(t, leaf, base.Subtype(qname.New(ns, "leaf")))
	assert.Nil(t, base.Subtype(qname.New(ns, "none")))

	assert.Same(t, mid, base.SubtypeFor(&special{}))
	assert.Same(t, leaf, base.SubtypeFor(&part{}))
	assert.Nil(t, base.SubtypeFor(&widget{}))
	assert.True(t, base.Is(&widget{}))
	assert.False(t, base.Is(&special{}))
	assert.False(t, base.Is((*widget)(nil)))
}

func TestSlots(t *testing.T) {
	w := &widget{}

	name := Ptr(func(w *widget) **string { return &w.Name })

	_, ok := name.Get(w)
	assert.False(t, ok)

	require.NoError(t, name.Set(w, "x"))

	v, ok := name.Get(w)
	require.True(t, ok)
	assert.Equal(t, "x", v)

	var slotErr *SlotError

	require.ErrorAs(t, name.Set(w, 42), &slotErr)
	assert.Equal(t, "string", slotErr.Want)
	require.ErrorAs(t, name.Set(&part{}, "x"), &slotErr)

	tags := Slice(func(w *widget) *[]string { return &w.Tags })

	_, ok = tags.Get(w)
	assert.False(t, ok)

	require.NoError(t, tags.Set(w, []any{"a", "b"}))

	items, ok := tags.Get(w)
	require.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, items)

	parts := Nodes(func(w *widget) *[]*part { return &w.Parts })
	p := &part{ID: "p1"}

	require.NoError(t, parts.Set(w, []any{p, nil}))
	require.Len(t, w.Parts, 2)
	assert.Nil(t, w.Parts[1])

	items, ok = parts.Get(w)
	require.True(t, ok)
	assert.Same(t, p, items[0])
	assert.Nil(t, items[1])

	level := Value(func(s *special) *int { return &s.Level })
	s := &special{}

	_, ok = level.Get(s)
	assert.False(t, ok)
	require.NoError(t, level.Set(s, 3))
	assert.Equal(t, 3, s.Level)

	main := Node(func(w *widget) **part { return &w.Main })
	require.NoError(t, main.Set(w, p))
	assert.Same(t, p, w.Main)
	require.NoError(t, main.Set(w, nil))
	assert.Nil(t, w.Main)
}

type shape interface{ area() int }

type square struct{ side int }

func (s *square) area() int { return s.side * s.side }

type canvas struct{ Shape shape }

func TestIfaceSlot(t *testing.T) {
	slot := Iface(func(c *canvas) *shape { return &c.Shape })
	c := &canvas{}

	_, ok := slot.Get(c)
	assert.False(t, ok)

	sq := &square{side: 2}
	require.NoError(t, slot.Set(c, sq))

	v, ok := slot.Get(c)
	require.True(t, ok)
	assert.Same(t, sq, v)

	require.NoError(t, slot.Set(c, nil))
	assert.Nil(t, c.Shape)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "CardinalityChoice", CardinalityChoice.String())
	assert.Equal(t, "FieldAny", FieldAny.String())
	assert.Equal(t, "Cardinality(0)", Cardinality(0).String())
	assert.True(t, CardinalityChoice.IsSingle())
	assert.False(t, CardinalityRepeated.IsSingle())
}

func TestSeqSlots_NilItems(t *testing.T) {
	type notes struct {
		Items  []*string
		Shapes []shape
	}

	items := Ptrs(func(n *notes) *[]*string { return &n.Items })
	n := &notes{}

	require.NoError(t, items.Set(n, []any{"a", nil}))
	require.Len(t, n.Items, 2)
	assert.Equal(t, "a", *n.Items[0])
	assert.Nil(t, n.Items[1])

	got, ok := items.Get(n)
	require.True(t, ok)
	assert.Equal(t, []any{"a", nil}, got)

	shapes := Ifaces(func(n *notes) *[]shape { return &n.Shapes })
	sq := &square{side: 1}

	require.NoError(t, shapes.Set(n, []any{sq, nil}))
	require.Len(t, n.Shapes, 2)
	assert.Same(t, sq, n.Shapes[0])
	assert.Nil(t, n.Shapes[1])

	var slotErr *SlotError

	require.ErrorAs(t, shapes.Set(n, []any{"not a shape"}), &slotErr)
}
