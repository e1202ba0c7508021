// Package record provides a generic node for descriptors built at runtime
// from schema files, where no Go struct exists for a type.
package record

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/beevik/etree"

	"xmlbind/descriptor"
	"xmlbind/qname"
)

// Record is a dynamic node: a type name plus field values keyed by field key.
type Record struct {
	Type   qname.QName
	fields map[string]any
}

// New creates an empty record of the named type.
func New(typ qname.QName) *Record {
	return &Record{Type: typ, fields: make(map[string]any)}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Set stores v under key. A nil v removes the key.
func (r *Record) Set(key string, v any) {
	if v == nil {
		delete(r.fields, key)
		return
	}

	r.fields[key] = v
}

// Keys returns the field keys in sorted order.
func (r *Record) Keys() []string {
	return slices.Sorted(maps.Keys(r.fields))
}

// Len returns the number of fields set.
func (r *Record) Len() int {
	return len(r.fields)
}

// TypeFor returns a descriptor type whose nodes are records of the given name.
// Records of other type names are rejected by Is, so each record type is
// distinguishable for subtype dispatch.
func TypeFor(name qname.QName) *descriptor.Type {
	return &descriptor.Type{
		Name: name,
		New: func() any {
			return New(name)
		},
		Is: func(node any) bool {
			r, ok := node.(*Record)
			return ok && r != nil && r.Type == name
		},
		IsNil: func(node any) bool {
			r, ok := node.(*Record)
			return ok && r == nil
		},
	}
}

// Slot binds a single-valued field stored under key.
func Slot(key string) descriptor.Slot {
	return descriptor.Slot{
		Get: func(node any) (any, bool) {
			r, ok := node.(*Record)
			if !ok || r == nil {
				return nil, false
			}

			return r.Get(key)
		},
		Set: func(node any, value any) error {
			r, err := asRecord(node)
			if err != nil {
				return err
			}

			r.Set(key, value)

			return nil
		},
	}
}

// Seq binds a repeated field stored under key as a []any.
func Seq(key string) descriptor.SeqSlot {
	return descriptor.SeqSlot{
		Get: func(node any) ([]any, bool) {
			r, ok := node.(*Record)
			if !ok || r == nil {
				return nil, false
			}

			v, ok := r.Get(key)
			if !ok {
				return nil, false
			}

			items, ok := v.([]any)
			if !ok {
				return nil, false
			}

			return slices.Clone(items), true
		},
		Set: func(node any, items []any) error {
			r, err := asRecord(node)
			if err != nil {
				return err
			}

			r.fields[key] = slices.Clone(items)

			return nil
		},
	}
}

func asRecord(node any) (*Record, error) {
	r, ok := node.(*Record)
	if !ok || r == nil {
		return nil, &descriptor.SlotError{Want: "*record.Record", Got: node}
	}

	return r, nil
}

// ToMap converts the record into plain maps, slices and strings suitable for
// YAML or JSON output. The type name is kept under "@type".
func (r *Record) ToMap() map[string]any {
	out := make(map[string]any, len(r.fields)+1)
	out["@type"] = r.Type.String()

	for k, v := range r.fields {
		out[k] = plain(v)
	}

	return out
}

func plain(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case *Record:
		return t.ToMap()
	case []any:
		items := make([]any, len(t))
		for i, item := range t {
			items[i] = plain(item)
		}

		return items
	case qname.QName:
		return t.String()
	case []qname.QName:
		items := make([]any, len(t))
		for i, q := range t {
			items[i] = q.String()
		}

		return items
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *etree.Element:
		doc := etree.NewDocument()
		doc.SetRoot(t.Copy())

		s, err := doc.WriteToString()
		if err != nil {
			return fmt.Sprintf("<!-- %v -->", err)
		}

		return s
	default:
		return v
	}
}
