package descriptor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"xmlbind/qname"
)

// ErrSealed is returned when registering into a sealed registry.
var ErrSealed = errors.New("registry is sealed")

// UnknownTypeError reports a lookup of a name no descriptor is registered for.
// It means the mapping configuration is incomplete.
type UnknownTypeError struct {
	Name    qname.QName
	Element bool
}

func (e *UnknownTypeError) Error() string {
	if e.Element {
		return fmt.Sprintf("no type registered for element %s", e.Name)
	}

	return fmt.Sprintf("unknown type %s", e.Name)
}

// Registry maps type and element names to descriptors. It is filled during an
// init phase and sealed; a sealed registry is read-only and safe for
// concurrent use without locking.
type Registry struct {
	types    map[qname.QName]*Type
	elements map[qname.QName]*Type
	all      []*Type
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[qname.QName]*Type),
		elements: make(map[qname.QName]*Type),
	}
}

// Register adds descriptors. Named types are keyed by type name, types with an
// Element by element name; anonymous nested types need neither.
func (r *Registry) Register(types ...*Type) error {
	if r.sealed {
		return ErrSealed
	}

	for _, t := range types {
		if t == nil {
			return errors.New("nil type descriptor")
		}

		if !t.Name.IsZero() {
			if _, exists := r.types[t.Name]; exists {
				return fmt.Errorf("duplicate type %s", t.Name)
			}
		}

		if !t.Element.IsZero() {
			if _, exists := r.elements[t.Element]; exists {
				return fmt.Errorf("duplicate element %s", t.Element)
			}
		}

		if !t.Name.IsZero() {
			r.types[t.Name] = t
		}

		if !t.Element.IsZero() {
			r.elements[t.Element] = t
		}

		r.all = append(r.all, t)
	}

	return nil
}

// Seal validates every registered descriptor (and the nested and subtype
// descriptors they reach), builds their lookup tables and freezes the registry.
func (r *Registry) Seal() error {
	if r.sealed {
		return nil
	}

	var errs []error

	seen := map[*Type]bool{}

	var visit func(t *Type)

	visit = func(t *Type) {
		if seen[t] {
			return
		}

		seen[t] = true

		if err := t.seal(); err != nil {
			errs = append(errs, err)
		}

		for _, f := range t.Fields {
			if f.Type != nil {
				visit(f.Type)
			}
		}

		for _, sub := range t.Subtypes {
			visit(sub)
		}
	}

	for _, t := range r.all {
		visit(t)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.sealed = true

	return nil
}

// Sealed reports whether Seal succeeded.
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Resolve returns the descriptor of the named type.
func (r *Registry) Resolve(name qname.QName) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name}
	}

	return t, nil
}

// ResolveElement returns the descriptor bound to a global element name.
func (r *Registry) ResolveElement(name qname.QName) (*Type, error) {
	t, ok := r.elements[name]
	if !ok {
		return nil, &UnknownTypeError{Name: name, Element: true}
	}

	return t, nil
}

// Types returns the registered descriptors in registration order.
func (r *Registry) Types() []*Type {
	return slices.Clone(r.all)
}

func (t *Type) seal() error {
	if t.sealed {
		return nil
	}

	if t.New == nil || t.Is == nil {
		return fmt.Errorf("type %s: New and Is are required", t.Label())
	}

	t.attrs = make(map[qname.QName]*Field)
	t.elems = make(map[qname.QName]*Field)

	var problems []string

	for i, f := range t.Fields {
		if msg := f.check(); msg != "" {
			problems = append(problems, fmt.Sprintf("field %d (%s): %s", i, f.Label(), msg))
			continue
		}

		switch f.Kind {
		case FieldAttribute:
			if _, dup := t.attrs[f.Name]; dup {
				problems = append(problems, fmt.Sprintf("duplicate attribute %s", f.Name))
				continue
			}

			t.attrs[f.Name] = f
		case FieldElement:
			// first declaration wins for choice groups sharing an element name
			if _, dup := t.elems[f.Name]; !dup {
				t.elems[f.Name] = f
			}
		case FieldValue:
			if t.value != nil {
				problems = append(problems, "more than one value field")
				continue
			}

			t.value = f
		case FieldAny:
			if t.wildcard != nil {
				problems = append(problems, "more than one wildcard field")
				continue
			}

			t.wildcard = f
		}
	}

	if t.value != nil && len(t.elems) > 0 {
		problems = append(problems, "value field cannot be combined with element fields")
	}

	if len(problems) > 0 {
		return fmt.Errorf("type %s: %s", t.Label(), strings.Join(problems, "; "))
	}

	t.sealed = true

	return nil
}

func (f *Field) check() string {
	switch f.Kind {
	case FieldAttribute, FieldElement:
		if f.Name.IsZero() {
			return "missing name"
		}
	case FieldValue, FieldAny:
	default:
		return fmt.Sprintf("invalid kind %d", f.Kind)
	}

	switch {
	case f.Kind == FieldAny:
		if f.Seq.Get == nil || f.Seq.Set == nil {
			return "wildcard needs a sequence slot"
		}

		return ""
	case f.Cardinality == 0:
		return "missing cardinality"
	case f.Cardinality == CardinalityChoice && f.Choice == "":
		return "choice variant without a group"
	case f.Kind != FieldElement && f.Type != nil:
		return "only elements can have a nested type"
	case f.Kind != FieldElement && f.Cardinality == CardinalityRepeated:
		return "only elements can repeat"
	case (f.Adapter == nil) == (f.Type == nil):
		return "exactly one of adapter and type must be set"
	}

	if f.IsRepeated() {
		if f.Seq.Get == nil || f.Seq.Set == nil {
			return "repeated field needs a sequence slot"
		}

		return ""
	}

	if f.Slot.Get == nil || f.Slot.Set == nil {
		return "single field needs a slot"
	}

	return ""
}
