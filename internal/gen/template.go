package gen

import "text/template"

var bindingsTemplate = template.Must(template.New("bindings").Parse(`// Code generated by xmlbind gen. DO NOT EDIT.

package {{.PackageName}}

import (
{{range .Imports}}	"{{.}}"
{{end}})

// Namespace is the target namespace of the schema.
const Namespace = {{printf "%q" .Namespace}}
{{range .Types}}
{{range .Doc}}// {{.}}
{{end}}type {{.GoName}} struct {
{{range .Fields}}	{{.GoName}} {{.GoType}}
{{end}}}
{{if .Iface}}
// {{.Iface}} is implemented by {{.GoName}} and the types derived from it.
type {{.Iface}} interface {
	is{{.Iface}}()
}
{{$iface := .Iface}}{{range .Members}}
func (*{{.}}) is{{$iface}}() {}
{{end}}{{end}}{{end}}
// Types holds one descriptor per schema type.
type Types struct {
{{range .Types}}	{{.GoName}} *descriptor.Type
{{end}}}

// NewTypes builds the descriptors, looking adapters up by name in adapters.
// A nil registry means the built-in adapters.
func NewTypes(adapters *adapter.Registry) (*Types, error) {
	if adapters == nil {
		adapters = adapter.NewRegistry()
	}
{{if .Adapters}}
	ad := make(map[string]adapter.Adapter, {{len .Adapters}})

	for _, name := range []string{ {{range .Adapters}}{{printf "%q" .}}, {{end}} } {
		a, err := adapters.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up adapter %q: %w", name, err)
		}

		ad[name] = a
	}
{{end}}
	ts := &Types{
{{range .Types}}		{{.GoName}}: descriptor.For[{{.GoName}}]({{.NameExpr}}),
{{end}}	}
{{range .Types}}
{{if .ElementExpr}}	ts.{{.GoName}}.Element = {{.ElementExpr}}
{{end}}{{if .Subtypes}}	ts.{{.GoName}}.Subtypes = []*descriptor.Type{ {{range .Subtypes}}ts.{{.}}, {{end}} }
{{end}}	ts.{{.GoName}}.Fields = []*descriptor.Field{
{{range .Fields}}		{{.Expr}},
{{end}}	}
{{end}}
	return ts, nil
}

// All returns every descriptor, base types before the types derived from them.
func (ts *Types) All() []*descriptor.Type {
	return []*descriptor.Type{ {{range .Types}}ts.{{.GoName}}, {{end}} }
}

// Register adds every descriptor to reg.
func (ts *Types) Register(reg *descriptor.Registry) error {
	if err := reg.Register(ts.All()...); err != nil {
		return fmt.Errorf("failed to register types: %w", err)
	}

	return nil
}
`))
