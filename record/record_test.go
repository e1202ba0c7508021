package record

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlbind/descriptor"
	"xmlbind/qname"
)

func TestRecord_Slots(t *testing.T) {
	typ := TypeFor(qname.New("urn:t", "widget"))
	node := typ.New()

	r, ok := node.(*Record)
	require.True(t, ok)
	assert.True(t, typ.Is(r))
	assert.False(t, typ.Is(New(qname.New("urn:t", "other"))))
	assert.False(t, typ.Is((*Record)(nil)))
	assert.True(t, typ.IsNilNode((*Record)(nil)))
	assert.True(t, typ.IsNilNode(nil))
	assert.False(t, typ.IsNilNode(r))

	name := Slot("name")

	_, ok = name.Get(r)
	assert.False(t, ok)

	require.NoError(t, name.Set(r, "Foo"))

	v, ok := name.Get(r)
	require.True(t, ok)
	assert.Equal(t, "Foo", v)

	require.NoError(t, name.Set(r, nil))
	assert.Equal(t, 0, r.Len())

	tags := Seq("tag")
	require.NoError(t, tags.Set(r, []any{"a", nil, "b"}))

	items, ok := tags.Get(r)
	require.True(t, ok)
	assert.Equal(t, []any{"a", nil, "b"}, items)

	// returned slices are copies
	items[0] = "changed"
	again, _ := tags.Get(r)
	assert.Equal(t, "a", again[0])

	var slotErr *descriptor.SlotError

	require.ErrorAs(t, name.Set("not a record", "x"), &slotErr)
	assert.Equal(t, "*record.Record", slotErr.Want)
}

func TestRecord_ToMap(t *testing.T) {
	r := New(qname.New("urn:t", "widget"))
	child := New(qname.Local("part"))
	child.Set("@id", "p1")

	ext := etree.NewElement("ext")
	ext.CreateAttr("xmlns", "urn:ext")

	r.Set("name", "Foo")
	r.Set("kind", qname.New("urn:t", "gadget"))
	r.Set("when", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	r.Set("part", []any{child, nil})
	r.Set("#any", []any{ext})

	assert.Equal(t, []string{"#any", "kind", "name", "part", "when"}, r.Keys())
	assert.Equal(t, map[string]any{
		"@type": "{urn:t}widget",
		"name":  "Foo",
		"kind":  "{urn:t}gadget",
		"when":  "2024-01-02T03:04:05Z",
		"part":  []any{map[string]any{"@type": "part", "@id": "p1"}, nil},
		"#any":  []any{`<ext xmlns="urn:ext"/>`},
	}, r.ToMap())
}
