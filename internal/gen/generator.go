package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"slices"
	"strconv"
	"strings"
	"time"

	"xmlbind/adapter"
	"xmlbind/internal/mapping"
	"xmlbind/qname"
)

const modulePath = "xmlbind"

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// Filename is the name of the generated file.
	Filename string
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		PackageName: "bindings",
		OutputDir:   "./generated",
		Filename:    "bindings_gen.go",
	}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "bindings_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generator generates typed bindings from a schema file.
type Generator struct {
	config   GeneratorConfig
	adapters *adapter.Registry
}

// NewGenerator creates a new Generator. A nil adapter registry means the
// built-in adapters; custom adapters must be registered in it under the names
// the schema uses, both here and in the registry passed to the generated
// NewTypes.
func NewGenerator(config GeneratorConfig, adapters *adapter.Registry) *Generator {
	if adapters == nil {
		adapters = adapter.NewRegistry()
	}

	return &Generator{config: config, adapters: adapters}
}

// Generate validates sf and renders its bindings: one struct per type, an
// interface per type with subtypes and a Types value holding the descriptors.
func (g *Generator) Generate(sf *mapping.SchemaFile) ([]GeneratedFile, error) {
	if diags := mapping.Validate(sf, g.adapters); diags.HasErrors() {
		return nil, fmt.Errorf("invalid schema: %w", diags.Err())
	}

	data, err := g.buildData(sf)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := bindingsTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		if g.config.OutputDir != "" {
			_ = keepRejected(g.config.OutputDir, g.filename(), buf.Bytes())
		}

		return []GeneratedFile{{
			Filename: g.filename(),
			Content:  buf.Bytes(),
		}}, fmt.Errorf("formatting code: %w", err)
	}

	return []GeneratedFile{{
		Filename: g.filename(),
		Content:  formatted,
	}}, nil
}

func (g *Generator) filename() string {
	if g.config.Filename == "" {
		return DefaultGeneratorConfig().Filename
	}

	return g.config.Filename
}

type templateData struct {
	PackageName string
	Namespace   string
	Imports     []string
	Adapters    []string
	Types       []*typeData
}

type typeData struct {
	GoName      string
	Doc         []string
	NameExpr    string
	ElementExpr string
	// Iface is the interface implemented by the type and its subtypes.
	Iface    string
	Members  []string
	Subtypes []string
	Fields   []*fieldData

	def *mapping.TypeDef
}

type fieldData struct {
	GoName string
	GoType string
	Expr   string
}

// typeInfo is what the generator knows about a type before rendering fields.
type typeInfo struct {
	data *typeData
	name qname.QName
}

func (g *Generator) buildData(sf *mapping.SchemaFile) (*templateData, error) {
	data := &templateData{
		PackageName: g.config.PackageName,
		Namespace:   sf.Namespace,
	}

	if data.PackageName == "" {
		data.PackageName = DefaultGeneratorConfig().PackageName
	}

	types := make(map[qname.QName]*typeInfo, len(sf.Types))
	reserved := map[string]string{"Namespace": "", "Types": "", "NewTypes": ""}
	ordered := make([]*typeInfo, len(sf.Types))

	for i := range sf.Types {
		td := &sf.Types[i]
		name, _ := sf.TypeName(td.Name)

		goName := typeName(name.Local)
		if err := claim(reserved, goName, td.Name); err != nil {
			return nil, err
		}

		t := &typeData{
			GoName:   goName,
			Doc:      docLines(goName, td),
			NameExpr: g.qnameExpr(sf, name),
			def:      td,
		}

		if td.Element != "" {
			el, _ := sf.ElementName(td.Element, true)
			t.ElementExpr = g.qnameExpr(sf, el)
		}

		info := &typeInfo{data: t, name: name}
		types[name] = info
		ordered[i] = info
	}

	for _, info := range ordered {
		td := info.data.def
		if td.Subtypes.IsEmpty() {
			continue
		}

		info.data.Iface = info.data.GoName + "Node"
		if err := claim(reserved, info.data.Iface, td.Name); err != nil {
			return nil, err
		}

		for _, sub := range td.Subtypes {
			subName, _ := sf.TypeName(sub)
			info.data.Subtypes = append(info.data.Subtypes, types[subName].data.GoName)
		}

		info.data.Members = append([]string{info.data.GoName}, subtypeClosure(sf, td, types)...)
	}

	imports := map[string]bool{
		"fmt":                      true,
		modulePath + "/adapter":    true,
		modulePath + "/descriptor": true,
		modulePath + "/qname":      true,
	}
	adapters := map[string]bool{}

	for _, info := range ordered {
		fields := map[string]string{}

		for i := range info.data.def.Fields {
			fd := &info.data.def.Fields[i]

			f, err := g.buildField(sf, info.data, fd, types, imports)
			if err != nil {
				return nil, fmt.Errorf("failed to generate field %s of %s: %w", fd.DisplayName(), info.data.def.Name, err)
			}

			if err := claim(fields, f.GoName, fd.DisplayName()); err != nil {
				return nil, fmt.Errorf("type %s: %w", info.data.def.Name, err)
			}

			if fd.Adapter != "" {
				adapters[fd.Adapter] = true
			}

			info.data.Fields = append(info.data.Fields, f)
		}
	}

	order, err := topoSort(len(ordered), func(i int) []int {
		return basesOf(sf, ordered, i)
	})
	if err != nil {
		return nil, fmt.Errorf("ordering types: %w", err)
	}

	for _, i := range order {
		data.Types = append(data.Types, ordered[i].data)
	}

	for imp := range imports {
		data.Imports = append(data.Imports, imp)
	}

	slices.Sort(data.Imports)

	for name := range adapters {
		data.Adapters = append(data.Adapters, name)
	}

	slices.Sort(data.Adapters)

	return data, nil
}

// claim records name in seen, failing if another owner already has it.
func claim(seen map[string]string, name, owner string) error {
	if name == "" {
		return fmt.Errorf("%s does not yield a Go identifier", owner)
	}

	if prev, ok := seen[name]; ok {
		if prev == "" {
			return fmt.Errorf("%s maps to the reserved Go name %s", owner, name)
		}

		return fmt.Errorf("%s and %s both map to the Go name %s", prev, owner, name)
	}

	seen[name] = owner

	return nil
}

func docLines(goName string, td *mapping.TypeDef) []string {
	if td.Doc == "" {
		return []string{fmt.Sprintf("%s binds the %s type.", goName, td.Name)}
	}

	lines := strings.Split(strings.TrimSpace(td.Doc), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}

	return lines
}

// subtypeClosure returns the Go names of every transitive subtype of td.
func subtypeClosure(sf *mapping.SchemaFile, td *mapping.TypeDef, types map[qname.QName]*typeInfo) []string {
	var (
		out   []string
		visit func(td *mapping.TypeDef)
	)

	seen := map[qname.QName]bool{}
	visit = func(td *mapping.TypeDef) {
		for _, sub := range td.Subtypes {
			name, _ := sf.TypeName(sub)
			if seen[name] {
				continue
			}

			seen[name] = true
			info := types[name]
			out = append(out, info.data.GoName)
			visit(info.data.def)
		}
	}

	visit(td)

	return out
}

// basesOf returns the indices of the types that list ordered[i] as a subtype.
func basesOf(sf *mapping.SchemaFile, ordered []*typeInfo, i int) []int {
	var deps []int

	for j, info := range ordered {
		if j == i {
			continue
		}

		for _, sub := range info.data.def.Subtypes {
			if name, _ := sf.TypeName(sub); name == ordered[i].name {
				deps = append(deps, j)
			}
		}
	}

	return deps
}

func (g *Generator) buildField(
	sf *mapping.SchemaFile,
	owner *typeData,
	fd *mapping.FieldDef,
	types map[qname.QName]*typeInfo,
	imports map[string]bool,
) (*fieldData, error) {
	f := &fieldData{GoName: exportedName(fd.Key)}

	var (
		elem   string // Go type of one value
		nested *typeData
	)

	switch {
	case fd.Any:
		imports["github.com/beevik/etree"] = true
		f.GoType = "[]*etree.Element"
		f.Expr = fmt.Sprintf("descriptor.Any(descriptor.Slice(%s))", accessor(owner.GoName, f.GoName, "*"+f.GoType))

		return f, nil
	case fd.Type != "":
		name, _ := sf.TypeName(fd.Type)
		nested = types[name].data
	default:
		a, err := g.adapters.Lookup(fd.Adapter)
		if err != nil {
			return nil, err
		}

		if elem, err = goTypeOf(a, imports); err != nil {
			return nil, err
		}
	}

	ad := fmt.Sprintf("ad[%s]", strconv.Quote(fd.Adapter))

	switch fd.Kind() {
	case mapping.FieldKindAttr:
		name, _ := sf.AttrName(fd.Attr)
		f.GoType = "*" + elem
		f.Expr = fmt.Sprintf("descriptor.Attr(%s, %s, descriptor.Ptr(%s))",
			g.qnameExpr(sf, name), ad, accessor(owner.GoName, f.GoName, "*"+f.GoType))
	case mapping.FieldKindValue:
		f.GoType = "*" + elem
		f.Expr = fmt.Sprintf("descriptor.Text(%s, descriptor.Ptr(%s))",
			ad, accessor(owner.GoName, f.GoName, "*"+f.GoType))
	case mapping.FieldKindElement:
		name, _ := sf.ElementName(fd.Element, false)
		f.Expr, f.GoType = g.elementExpr(fd, g.qnameExpr(sf, name), owner.GoName, f.GoName, elem, ad, nested)
	default:
		return nil, errors.New("invalid field kind")
	}

	f.Expr += modifiers(fd)

	return f, nil
}

func (g *Generator) elementExpr(
	fd *mapping.FieldDef,
	name, owner, field, elem, ad string,
	nested *typeData,
) (expr, goType string) {
	card := "descriptor.CardinalityOptional"
	if fd.Cardinality == mapping.CardinalityRequired {
		card = "descriptor.CardinalityRequired"
	}

	switch {
	case nested != nil && fd.IsRepeated():
		ref := "ts." + nested.GoName
		if nested.Iface != "" {
			goType = "[]" + nested.Iface
			return fmt.Sprintf("descriptor.NestedList(%s, %s, descriptor.Ifaces(%s))",
				name, ref, accessor(owner, field, "*"+goType)), goType
		}

		goType = "[]*" + nested.GoName

		return fmt.Sprintf("descriptor.NestedList(%s, %s, descriptor.Nodes(%s))",
			name, ref, accessor(owner, field, "*"+goType)), goType
	case nested != nil:
		ref := "ts." + nested.GoName
		if nested.Iface != "" {
			goType = nested.Iface
			return fmt.Sprintf("descriptor.Nested(%s, %s, %s, descriptor.Iface(%s))",
				name, card, ref, accessor(owner, field, "*"+goType)), goType
		}

		goType = "*" + nested.GoName

		return fmt.Sprintf("descriptor.Nested(%s, %s, %s, descriptor.Node(%s))",
			name, card, ref, accessor(owner, field, "*"+goType)), goType
	case fd.IsRepeated() && fd.Nillable:
		goType = "[]*" + elem

		return fmt.Sprintf("descriptor.Scalars(%s, %s, descriptor.Ptrs(%s))",
			name, ad, accessor(owner, field, "*"+goType)), goType
	case fd.IsRepeated():
		goType = "[]" + elem

		return fmt.Sprintf("descriptor.Scalars(%s, %s, descriptor.Slice(%s))",
			name, ad, accessor(owner, field, "*"+goType)), goType
	default:
		goType = "*" + elem

		return fmt.Sprintf("descriptor.Scalar(%s, %s, %s, descriptor.Ptr(%s))",
			name, card, ad, accessor(owner, field, "*"+goType)), goType
	}
}

func modifiers(fd *mapping.FieldDef) string {
	var b strings.Builder

	if fd.Kind() == mapping.FieldKindAttr && fd.Cardinality == mapping.CardinalityRequired {
		b.WriteString(".Required()")
	}

	if fd.Cardinality == mapping.CardinalityChoice {
		fmt.Fprintf(&b, ".InChoice(%s)", strconv.Quote(fd.Choice))
	}

	if fd.Nillable {
		b.WriteString(".AsNillable()")
	}

	if fd.ID {
		b.WriteString(".AsID()")
	}

	return b.String()
}

func accessor(owner, field, ptrType string) string {
	return fmt.Sprintf("func(n *%s) %s { return &n.%s }", owner, ptrType, field)
}

func (g *Generator) qnameExpr(sf *mapping.SchemaFile, name qname.QName) string {
	switch {
	case name.Space == "":
		return fmt.Sprintf("qname.Local(%s)", strconv.Quote(name.Local))
	case name.Space == sf.Namespace:
		return fmt.Sprintf("qname.New(Namespace, %s)", strconv.Quote(name.Local))
	default:
		return fmt.Sprintf("qname.New(%s, %s)", strconv.Quote(name.Space), strconv.Quote(name.Local))
	}
}

// goTypeOf returns the Go type of the values an adapter produces.
func goTypeOf(a adapter.Adapter, imports map[string]bool) (string, error) {
	switch a.(type) {
	case *adapter.Typed[string]:
		return "string", nil
	case *adapter.Typed[bool]:
		return "bool", nil
	case *adapter.Typed[int]:
		return "int", nil
	case *adapter.Typed[int64]:
		return "int64", nil
	case *adapter.Typed[float64]:
		return "float64", nil
	case *adapter.Typed[time.Time]:
		imports["time"] = true
		return "time.Time", nil
	case *adapter.Typed[qname.QName]:
		return "qname.QName", nil
	case *adapter.Typed[[]string]:
		return "[]string", nil
	case *adapter.Typed[[]bool]:
		return "[]bool", nil
	case *adapter.Typed[[]int]:
		return "[]int", nil
	case *adapter.Typed[[]int64]:
		return "[]int64", nil
	case *adapter.Typed[[]float64]:
		return "[]float64", nil
	case *adapter.Typed[[]time.Time]:
		imports["time"] = true
		return "[]time.Time", nil
	case *adapter.Typed[[]qname.QName]:
		return "[]qname.QName", nil
	default:
		return "", fmt.Errorf("adapter %q produces %T, which has no generated Go type", a.Name(), a)
	}
}
