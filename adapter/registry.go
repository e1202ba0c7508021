package adapter

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"xmlbind/qname"
)

// aliases maps XML Schema built-in type names to adapter names.
var aliases = map[string]string{
	"token":            "collapsed",
	"normalizedString": "normalized",
	"anyURI":           "collapsed",
	"ID":               "collapsed",
	"IDREF":            "collapsed",
	"NMTOKEN":          "collapsed",
	"integer":          "long",
	"dateTime":         "datetime",
	"QName":            "qname",
	"IDREFS":           "list(collapsed)",
	"NMTOKENS":         "list(collapsed)",
}

// Registry holds adapters by name. Populate it during initialization; lookups
// never mutate it, so a populated registry is safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry creates a registry holding the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
	}

	for _, a := range []Adapter{
		String, Trimmed, Collapsed, Normalized,
		Boolean, Int, Long, Double,
		DateTime, Date, QName,
	} {
		r.adapters[a.Name()] = a
	}

	return r
}

// Register adds an adapter. Names must be unique.
func (r *Registry) Register(a Adapter) error {
	name := a.Name()
	if name == "" {
		return fmt.Errorf("adapter has no name")
	}

	if strings.HasPrefix(name, "list(") {
		return fmt.Errorf("adapter name %q is reserved", name)
	}

	if _, exists := r.adapters[name]; exists {
		return fmt.Errorf("duplicate adapter %q", name)
	}

	r.adapters[name] = a

	return nil
}

// Lookup returns the adapter registered under name. "list(<name>)" builds a
// list adapter over the named item adapter.
func (r *Registry) Lookup(name string) (Adapter, error) {
	if alias, ok := aliases[name]; ok {
		name = alias
	}

	if inner, ok := strings.CutPrefix(name, "list("); ok {
		inner, ok = strings.CutSuffix(inner, ")")
		if !ok || inner == "" {
			return nil, &UnknownAdapterError{Name: name}
		}

		elem, err := r.Lookup(inner)
		if err != nil {
			return nil, err
		}

		list, ok := listOf(elem)
		if !ok {
			return nil, fmt.Errorf("adapter %q cannot be used as a list item", inner)
		}

		return list, nil
	}

	a, ok := r.adapters[name]
	if !ok {
		return nil, &UnknownAdapterError{Name: name}
	}

	return a, nil
}

// Has returns true if name resolves to an adapter.
func (r *Registry) Has(name string) bool {
	_, err := r.Lookup(name)
	return err == nil
}

// Names returns the registered adapter names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

func listOf(a Adapter) (Adapter, bool) {
	switch t := a.(type) {
	case *Typed[string]:
		return List(t), true
	case *Typed[bool]:
		return List(t), true
	case *Typed[int]:
		return List(t), true
	case *Typed[int64]:
		return List(t), true
	case *Typed[float64]:
		return List(t), true
	case *Typed[time.Time]:
		return List(t), true
	case *Typed[qname.QName]:
		return List(t), true
	default:
		return nil, false
	}
}
