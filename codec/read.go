package codec

import (
	"fmt"

	"go.uber.org/zap"

	"xmlbind/descriptor"
	"xmlbind/diagnostic"
	"xmlbind/internal/match"
	"xmlbind/qname"
	"xmlbind/xmlstream"
)

// Read builds the node for el as described by t and consumes el.
//
// Anomalies are reported to the session and reading goes on. Read returns a
// nil node for a nil element and for a rejected xsi:type. The error is
// non-nil only for read failures, slot failures and anomalies escalated by a
// fail-fast sink.
func Read(s *Session, el *xmlstream.Element, t *descriptor.Type) (any, error) {
	if el.IsNil() {
		return nil, el.Skip()
	}

	t, err := readType(s, el, t)
	if err != nil || t == nil {
		return nil, err
	}

	node := t.New()

	if err := readAttrs(s, el, t, node); err != nil {
		return nil, err
	}

	if f := t.Value(); f != nil {
		err = readValue(s, el, f, node)
	} else {
		err = readChildren(s, el, t, node)
	}

	if err != nil {
		return nil, err
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	if t.AfterRead != nil {
		if err := t.AfterRead(node); err != nil {
			a := anomalyAt(el, diagnostic.KindLifecycleHook, el.Name(), "after read hook failed")
			a.Err = err

			if err := s.report(a); err != nil {
				return nil, err
			}
		}
	}

	return node, nil
}

// readType applies an xsi:type annotation. A nil type means the element was
// rejected and skipped.
func readType(s *Session, el *xmlstream.Element, t *descriptor.Type) (*descriptor.Type, error) {
	name, ok, err := el.XsiType()
	if !ok {
		return t, nil
	}

	if err != nil {
		a := anomalyAt(el, diagnostic.KindUnexpectedSubtype, el.Name(), "invalid type annotation")
		a.Err = err

		return nil, reject(s, el, a)
	}

	if name == t.Name {
		return t, nil
	}

	if sub := t.Subtype(name); sub != nil {
		s.Logger.Debug("Dispatching to subtype",
			zap.Stringer("element", el.Name()),
			zap.Stringer("type", name))

		return sub, nil
	}

	a := anomalyAt(el, diagnostic.KindUnexpectedSubtype, name,
		fmt.Sprintf("expected %s, found %s", t.Label(), name))

	return nil, reject(s, el, a)
}

func reject(s *Session, el *xmlstream.Element, a diagnostic.Anomaly) error {
	if err := s.report(a); err != nil {
		return err
	}

	return el.Skip()
}

func readAttrs(s *Session, el *xmlstream.Element, t *descriptor.Type, node any) error {
	for _, attr := range el.Attrs() {
		if attr.Name.Space == qname.XSINamespace {
			continue
		}

		f := t.Attribute(attr.Name)
		if f == nil {
			expected := t.ExpectedAttributes()

			a := anomalyAt(el, diagnostic.KindUnexpectedAttribute, attr.Name, "unexpected attribute, ignoring")
			a.Expected = expected
			a.Suggestions = s.suggestions(attr.Name, expected)

			if err := s.report(a); err != nil {
				return err
			}

			continue
		}

		v, err := f.Adapter.Decode(attr.Value, el)
		if err != nil {
			a := anomalyAt(el, diagnostic.KindAdapterDecode, attr.Name, "")
			a.Err = err

			if err := s.report(a); err != nil {
				return err
			}

			continue
		}

		if err := f.Slot.Set(node, v); err != nil {
			return fmt.Errorf("failed to set %s of %s: %w", f.Label(), t.Label(), err)
		}

		if f.ID {
			if id, ok := v.(string); ok {
				s.registerID(id, node)
			}
		}
	}

	return nil
}

func readValue(s *Session, el *xmlstream.Element, f *descriptor.Field, node any) error {
	text, err := el.Text()
	if err != nil {
		return err
	}

	v, err := f.Adapter.Decode(text, el)
	if err != nil {
		a := anomalyAt(el, diagnostic.KindAdapterDecode, el.Name(), "")
		a.Err = err

		return s.report(a)
	}

	if err := f.Slot.Set(node, v); err != nil {
		return fmt.Errorf("failed to set %s of %s: %w", f.Label(), el.Name(), err)
	}

	return nil
}

func readChildren(s *Session, el *xmlstream.Element, t *descriptor.Type, node any) error {
	// repeated items in encounter order, assigned once the element is done
	var (
		seqs  map[*descriptor.Field][]any
		order []*descriptor.Field
	)

	appendItem := func(f *descriptor.Field, v any) {
		if seqs == nil {
			seqs = make(map[*descriptor.Field][]any)
		}

		if _, ok := seqs[f]; !ok {
			order = append(order, f)
		}

		seqs[f] = append(seqs[f], v)
	}

	for child := range el.Children() {
		f := t.ElementField(child.Name())

		if f == nil {
			if w := t.Wildcard(); w != nil {
				sub, err := child.Subtree()
				if err != nil {
					return err
				}

				appendItem(w, sub)

				continue
			}

			expected := t.ExpectedElements()

			a := anomalyAt(child, diagnostic.KindUnexpectedElement, child.Name(), "unexpected element, ignoring")
			a.Expected = expected
			a.Suggestions = s.suggestions(child.Name(), expected)

			if err := s.report(a); err != nil {
				return err
			}

			if err := child.Skip(); err != nil {
				return err
			}

			continue
		}

		v, ok, err := readField(s, child, f)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		if f.IsRepeated() {
			appendItem(f, v)
			continue
		}

		if v == nil {
			continue
		}

		if err := f.Slot.Set(node, v); err != nil {
			return fmt.Errorf("failed to set %s of %s: %w", f.Label(), t.Label(), err)
		}
	}

	for _, f := range order {
		if err := f.Seq.Set(node, seqs[f]); err != nil {
			return fmt.Errorf("failed to set %s of %s: %w", f.Label(), t.Label(), err)
		}
	}

	return nil
}

// readField reads one child matched to f. It reports false when the child
// contributes nothing, as with failed decodes and nil items of non-nillable
// fields.
func readField(s *Session, child *xmlstream.Element, f *descriptor.Field) (any, bool, error) {
	if f.IsNested() {
		nilled := child.IsNil()

		v, err := Read(s, child, f.Type)
		if err != nil {
			return nil, false, err
		}

		if v == nil {
			return nil, nilled && f.Nillable, nil
		}

		return v, true, nil
	}

	if child.IsNil() {
		return nil, f.Nillable, child.Skip()
	}

	text, err := child.Text()
	if err != nil {
		return nil, false, err
	}

	v, err := f.Adapter.Decode(text, child)
	if err != nil {
		a := anomalyAt(child, diagnostic.KindAdapterDecode, child.Name(), "")
		a.Err = err

		return nil, false, s.report(a)
	}

	return v, true, nil
}

func anomalyAt(el *xmlstream.Element, kind diagnostic.Kind, name qname.QName, msg string) diagnostic.Anomaly {
	line, col := el.Pos()

	return diagnostic.Anomaly{
		Kind:    kind,
		Name:    name,
		Line:    line,
		Column:  col,
		Path:    el.Path(),
		Message: msg,
	}
}

func (s *Session) suggestions(name qname.QName, expected []qname.QName) []string {
	if !s.suggest || len(expected) == 0 {
		return nil
	}

	names := make([]string, len(expected))
	for i, e := range expected {
		names[i] = e.Local
	}

	return match.Suggest(name.Local, names)
}
