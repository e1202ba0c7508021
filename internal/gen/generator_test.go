package gen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmlbind/adapter"
	"xmlbind/internal/mapping"
)

func loadShop(t *testing.T) *mapping.SchemaFile {
	t.Helper()

	sf, err := mapping.LoadFile(filepath.Join("..", "mapping", "testdata", "shop.yaml"))
	require.NoError(t, err)

	return sf
}

func generate(t *testing.T, sf *mapping.SchemaFile, adapters *adapter.Registry) string {
	t.Helper()

	files, err := NewGenerator(GeneratorConfig{PackageName: "shop"}, adapters).Generate(sf)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "bindings_gen.go", files[0].Filename)

	return string(files[0].Content)
}

// flat collapses runs of whitespace so assertions do not depend on gofmt
// alignment.
func flat(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// declarations parses src and returns its top-level type names in order.
func declarations(t *testing.T, src string) []string {
	t.Helper()

	f, err := parser.ParseFile(token.NewFileSet(), "bindings_gen.go", src, parser.ParseComments)
	require.NoError(t, err)
	assert.Equal(t, "shop", f.Name.Name)

	var names []string

	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}

		for _, s := range gd.Specs {
			names = append(names, s.(*ast.TypeSpec).Name.Name)
		}
	}

	return names
}

func TestGenerate_Shop(t *testing.T) {
	src := generate(t, loadShop(t), nil)

	assert.True(t, strings.HasPrefix(src, "// Code generated by xmlbind gen. DO NOT EDIT."))
	assert.Equal(t, []string{"Order", "Item", "Address", "AddressNode", "PoBox", "Types"}, declarations(t, src))

	out := flat(src)

	assert.Contains(t, out, `const Namespace = "urn:example:shop"`)
	assert.Contains(t, out, "// An order placed by a customer. type Order struct {")
	assert.Contains(t, out,
		"type Order struct { ID *string Priority *int Customer *string Item []*Item Note *string ShipTo AddressNode Any []*etree.Element }")
	assert.Contains(t, out, "type Item struct { Sku *string Quantity *int Tags *[]string }")
	assert.Contains(t, out, "func (*Address) isAddressNode() {}")
	assert.Contains(t, out, "func (*PoBox) isAddressNode() {}")

	for _, want := range []string{
		`descriptor.Attr(qname.Local("id"), ad["token"], descriptor.Ptr(func(n *Order) **string { return &n.ID })).AsID()`,
		`descriptor.Scalar(qname.New(Namespace, "customer"), descriptor.CardinalityRequired, ad["collapsed"],`,
		`descriptor.NestedList(qname.New(Namespace, "item"), ts.Item, descriptor.Nodes(func(n *Order) *[]*Item { return &n.Item }))`,
		`.AsNillable()`,
		`descriptor.Nested(qname.New(Namespace, "shipTo"), descriptor.CardinalityOptional, ts.Address, descriptor.Iface(`,
		`descriptor.Any(descriptor.Slice(func(n *Order) *[]*etree.Element { return &n.Any }))`,
		`descriptor.Attr(qname.Local("sku"), ad["trimmed"], descriptor.Ptr(func(n *Item) **string { return &n.Sku })).Required()`,
		`ts.Address.Subtypes = []*descriptor.Type{ts.PoBox}`,
		`ts.Order.Element = qname.New(Namespace, "order")`,
		`Order: descriptor.For[Order](qname.New(Namespace, "orderType")),`,
	} {
		assert.Contains(t, out, want)
	}

	assert.Contains(t, src, `"github.com/beevik/etree"`)
	assert.NotContains(t, src, `"time"`)
}

func TestGenerate_Deterministic(t *testing.T) {
	sf := loadShop(t)

	first := generate(t, sf, nil)
	for range 5 {
		assert.Equal(t, first, generate(t, sf, nil))
	}
}

const derivedFirst = `
namespace: urn:example:geo
types:
  - name: circle
    fields:
      - element: radius
        adapter: double
      - element: label
        adapter: string
        cardinality: repeated
        nillable: true
  - name: shape
    element: shape
    subtypes: [circle]
    fields:
      - element: at
        adapter: datetime
  - name: canvas
    element: canvas
    fields:
      - element: shape
        type: shape
        cardinality: repeated
      - element: title
        adapter: string
        choice: heading
      - element: code
        adapter: int
        choice: heading
      - element: note
        type: note
  - name: note
    fields:
      - value: true
        adapter: qname
`

func TestGenerate_Ordering(t *testing.T) {
	sf, err := mapping.Parse([]byte(derivedFirst))
	require.NoError(t, err)

	src := generate(t, sf, nil)
	assert.Equal(t, []string{"Shape", "ShapeNode", "Circle", "Canvas", "Note", "Types"}, declarations(t, src))

	out := flat(src)

	assert.Contains(t, out, "type Circle struct { Radius *float64 Label []*string }")
	assert.Contains(t, out, "type Canvas struct { Shape []ShapeNode Title *string Code *int Note *Note }")
	assert.Contains(t, out, `descriptor.Scalars(qname.New(Namespace, "label"), ad["string"], descriptor.Ptrs(`)
	assert.Contains(t, out, `descriptor.NestedList(qname.New(Namespace, "shape"), ts.Shape, descriptor.Ifaces(`)
	assert.Contains(t, out, `.InChoice("heading")`)
	assert.Contains(t, out, `descriptor.Text(ad["qname"], descriptor.Ptr(func(n *Note) **qname.QName { return &n.Value }))`)
	assert.Contains(t, out, `return []*descriptor.Type{ts.Shape, ts.Circle, ts.Canvas, ts.Note}`)
	assert.Contains(t, src, `"time"`)
}

func TestGenerate_CustomAdapter(t *testing.T) {
	adapters := adapter.NewRegistry()
	require.NoError(t, adapters.Register(adapter.Enum("color", "red", "green")))

	sf, err := mapping.Parse([]byte(`
namespace: urn:example:paint
types:
  - name: can
    element: can
    fields:
      - attr: color
        adapter: color
`))
	require.NoError(t, err)

	out := flat(generate(t, sf, adapters))
	assert.Contains(t, out, "type Can struct { Color *string }")
	assert.Contains(t, out, `for _, name := range []string{"color"} {`)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		want   string
	}{
		{
			name: "invalid schema",
			schema: `
types:
  - name: a
    fields:
      - element: x
        type: missing
`,
			want: "invalid schema",
		},
		{
			name: "clashing field names",
			schema: `
types:
  - name: a
    fields:
      - element: order-id
        adapter: string
      - element: orderID
        adapter: string
`,
			want: "both map to the Go name OrderID",
		},
		{
			name: "clashing type names",
			schema: `
types:
  - name: order
    fields: []
  - name: orderType
    fields: []
`,
			want: "both map to the Go name Order",
		},
		{
			name: "reserved name",
			schema: `
types:
  - name: types
    fields: []
`,
			want: "reserved Go name Types",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sf, err := mapping.Parse([]byte(tt.schema))
			require.NoError(t, err)

			_, err = NewGenerator(DefaultGeneratorConfig(), nil).Generate(sf)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerate_UnsupportedAdapterType(t *testing.T) {
	type money int64

	adapters := adapter.NewRegistry()
	require.NoError(t, adapters.Register(adapter.Simple("money",
		func(string) (money, error) { return 0, nil },
		func(money) (string, error) { return "", nil },
	)))

	sf, err := mapping.Parse([]byte(`
types:
  - name: price
    fields:
      - value: true
        adapter: money
`))
	require.NoError(t, err)

	_, err = NewGenerator(DefaultGeneratorConfig(), adapters).Generate(sf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no generated Go type")
}

func TestNames(t *testing.T) {
	tests := []struct {
		in, exported, typ string
	}{
		{"shipTo", "ShipTo", "ShipTo"},
		{"orderType", "OrderType", "Order"},
		{"order-id", "OrderID", "OrderID"},
		{"xml_url", "XMLURL", "XMLURL"},
		{"type", "Type", "Type"},
		{"2nd", "X2nd", "X2nd"},
		{"", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.exported, exportedName(tt.in))
			assert.Equal(t, tt.typ, typeName(tt.in))
		})
	}
}

func TestWriteFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	files := []GeneratedFile{{Filename: "a_gen.go", Content: []byte("package a\n")}}

	paths, err := WriteFiles(files, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a_gen.go")}, paths)

	got, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "package a\n", string(got))
}

func TestWriteFiles_OutsideDir(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"../escape.go", "/abs.go", ""} {
		paths, err := WriteFiles([]GeneratedFile{{Filename: name}}, dir)
		require.ErrorIs(t, err, errOutsideDir, name)
		assert.Empty(t, paths)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestKeepRejected(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, keepRejected(dir, "x_gen.go", []byte("package x {")))

	got, err := os.ReadFile(filepath.Join(dir, "x_gen.unformatted.go"))
	require.NoError(t, err)
	assert.Equal(t, "package x {", string(got))
}
