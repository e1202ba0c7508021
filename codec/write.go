package codec

import (
	"fmt"

	"github.com/beevik/etree"

	"xmlbind/adapter"
	"xmlbind/descriptor"
	"xmlbind/diagnostic"
	"xmlbind/qname"
	"xmlbind/xmlstream"
)

// Write emits node as an element named name, described by t. A nil node,
// including a nil pointer of t's node type, is written as a nil element.
//
// Fields are emitted in declaration order whatever order the graph was built
// in. Anomalies are reported to the session and writing goes on with the
// remaining fields. The error is non-nil only for writer failures and
// anomalies escalated by a fail-fast sink.
func Write(s *Session, w *xmlstream.Writer, name qname.QName, node any, t *descriptor.Type) error {
	if t.IsNilNode(node) {
		return writeNil(w, name)
	}

	var subtype bool

	if !t.Is(node) {
		sub := t.SubtypeFor(node)
		if sub == nil || sub.Name.IsZero() {
			return s.report(writeAnomaly(w, diagnostic.KindUnexpectedSubtype, name,
				fmt.Sprintf("expected %s, found %T", t.Label(), node)))
		}

		t, subtype = sub, true
	}

	if t.BeforeWrite != nil {
		if err := t.BeforeWrite(node); err != nil {
			a := writeAnomaly(w, diagnostic.KindLifecycleHook, name, "before write hook failed")
			a.Err = err

			if err := s.report(a); err != nil {
				return err
			}
		}
	}

	if err := w.StartElement(name); err != nil {
		return err
	}

	if subtype {
		if err := w.XsiType(t.Name); err != nil {
			return err
		}
	}

	if err := writeAttrs(s, w, t, node); err != nil {
		return err
	}

	if f := t.Value(); f != nil {
		if err := writeValue(s, w, name, f, node); err != nil {
			return err
		}
	}

	if err := writeElements(s, w, t, node); err != nil {
		return err
	}

	return w.EndElement()
}

func writeNil(w *xmlstream.Writer, name qname.QName) error {
	if err := w.StartElement(name); err != nil {
		return err
	}

	if err := w.Nil(); err != nil {
		return err
	}

	return w.EndElement()
}

func writeAttrs(s *Session, w *xmlstream.Writer, t *descriptor.Type, node any) error {
	for _, f := range t.Fields {
		if f.Kind != descriptor.FieldAttribute {
			continue
		}

		v, ok := f.Slot.Get(node)
		if !ok {
			if f.Cardinality == descriptor.CardinalityRequired {
				if err := s.report(writeAnomaly(w, diagnostic.KindMissingRequiredValue, f.Name,
					"required attribute is absent")); err != nil {
					return err
				}
			}

			continue
		}

		text, err := f.Adapter.Encode(v, w)
		if err != nil {
			if w.Err() != nil {
				return w.Err()
			}

			a := writeAnomaly(w, diagnostic.KindAdapterEncode, f.Name, "")
			a.Err = err

			if err := s.report(a); err != nil {
				return err
			}

			continue
		}

		if err := w.Attr(f.Name, text); err != nil {
			return err
		}
	}

	return nil
}

func writeValue(s *Session, w *xmlstream.Writer, name qname.QName, f *descriptor.Field, node any) error {
	v, ok := f.Slot.Get(node)
	if !ok {
		return nil
	}

	text, err := f.Adapter.Encode(v, w)
	if err != nil {
		if w.Err() != nil {
			return w.Err()
		}

		a := writeAnomaly(w, diagnostic.KindAdapterEncode, name, "")
		a.Err = err

		return s.report(a)
	}

	return w.Characters(text)
}

func writeElements(s *Session, w *xmlstream.Writer, t *descriptor.Type, node any) error {
	var chosen map[string]bool

	for _, f := range t.Fields {
		switch f.Kind {
		case descriptor.FieldAny:
			if err := writeWildcard(s, w, f, node); err != nil {
				return err
			}

			continue
		case descriptor.FieldElement:
		default:
			continue
		}

		if f.IsRepeated() {
			if err := writeRepeated(s, w, f, node); err != nil {
				return err
			}

			continue
		}

		if f.Cardinality == descriptor.CardinalityChoice && chosen[f.Choice] {
			continue
		}

		v, ok := f.Slot.Get(node)
		if !ok || isNilItem(f, v) {
			if err := writeAbsent(s, w, f); err != nil {
				return err
			}

			continue
		}

		if f.Cardinality == descriptor.CardinalityChoice {
			if chosen == nil {
				chosen = make(map[string]bool)
			}

			chosen[f.Choice] = true
		}

		if err := writeItem(s, w, f, v); err != nil {
			return err
		}
	}

	return nil
}

func writeAbsent(s *Session, w *xmlstream.Writer, f *descriptor.Field) error {
	if f.Cardinality != descriptor.CardinalityRequired {
		return nil
	}

	if f.Nillable {
		return writeNil(w, f.Name)
	}

	return s.report(writeAnomaly(w, diagnostic.KindMissingRequiredValue, f.Name,
		"required element is absent, omitting"))
}

func writeRepeated(s *Session, w *xmlstream.Writer, f *descriptor.Field, node any) error {
	items, _ := f.Seq.Get(node)

	for _, item := range items {
		if !isNilItem(f, item) {
			if err := writeItem(s, w, f, item); err != nil {
				return err
			}

			continue
		}

		if f.Nillable {
			if err := writeNil(w, f.Name); err != nil {
				return err
			}

			continue
		}

		if err := s.report(writeAnomaly(w, diagnostic.KindUnexpectedNullValue, f.Name,
			"nil item in a non-nillable sequence, skipping")); err != nil {
			return err
		}
	}

	return nil
}

// isNilItem reports whether v holds no value, as an untyped nil or as a nil
// node pointer stored in an interface.
func isNilItem(f *descriptor.Field, v any) bool {
	if v == nil {
		return true
	}

	return f.IsNested() && f.Type.IsNilNode(v)
}

func writeItem(s *Session, w *xmlstream.Writer, f *descriptor.Field, v any) error {
	if f.IsNested() {
		return Write(s, w, f.Name, v, f.Type)
	}

	// Encode before the start tag so a failed value omits the element. Values
	// that need a namespace prefix are encoded again on the open tag.
	probe := &probeBinder{}

	text, err := f.Adapter.Encode(v, probe)
	if err != nil {
		a := writeAnomaly(w, diagnostic.KindAdapterEncode, f.Name, "")
		a.Err = err

		return s.report(a)
	}

	if err := w.StartElement(f.Name); err != nil {
		return err
	}

	if probe.used {
		if text, err = f.Adapter.Encode(v, w); err != nil {
			if w.Err() != nil {
				return w.Err()
			}

			a := writeAnomaly(w, diagnostic.KindAdapterEncode, f.Name, "")
			a.Err = err

			if err := s.report(a); err != nil {
				return err
			}

			return w.EndElement()
		}
	}

	if err := w.Characters(text); err != nil {
		return err
	}

	return w.EndElement()
}

// probeBinder stands in for the writer while a value is encoded ahead of its
// start tag. It hands out a placeholder and records that a prefix was asked for.
type probeBinder struct {
	used bool
}

var _ adapter.Binder = (*probeBinder)(nil)

func (b *probeBinder) PrefixFor(space string) (string, error) {
	b.used = true

	if space == "" {
		return "", nil
	}

	return "ns", nil
}

func writeWildcard(s *Session, w *xmlstream.Writer, f *descriptor.Field, node any) error {
	items, _ := f.Seq.Get(node)

	for _, item := range items {
		el, ok := item.(*etree.Element)
		if !ok || el == nil {
			a := writeAnomaly(w, diagnostic.KindAdapterEncode, qname.QName{}, "wildcard item is not an XML element")
			a.Err = fmt.Errorf("got %T", item)

			if err := s.report(a); err != nil {
				return err
			}

			continue
		}

		if err := w.Subtree(el); err != nil {
			return err
		}
	}

	return nil
}

func writeAnomaly(w *xmlstream.Writer, kind diagnostic.Kind, name qname.QName, msg string) diagnostic.Anomaly {
	return diagnostic.Anomaly{
		Kind:    kind,
		Name:    name,
		Path:    w.Path(),
		Message: msg,
	}
}
