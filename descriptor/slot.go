package descriptor

import "fmt"

// Slot reads and writes one single-valued field of a node.
// Get reports false when the field is absent.
type Slot struct {
	Get func(node any) (any, bool)
	Set func(node any, value any) error
}

// SeqSlot reads and replaces one repeated field of a node.
// Get reports false when the sequence itself is absent; absent items come back as nil.
type SeqSlot struct {
	Get func(node any) ([]any, bool)
	Set func(node any, items []any) error
}

// SlotError reports a node or value of the wrong Go type handed to a slot.
type SlotError struct {
	Want string
	Got  any
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("slot expects %s, got %T", e.Want, e.Got)
}

func nodeOf[N any](node any) (*N, error) {
	n, ok := node.(*N)
	if !ok || n == nil {
		return nil, &SlotError{Want: fmt.Sprintf("%T", (*N)(nil)), Got: node}
	}

	return n, nil
}

func valueOf[V any](v any) (V, error) {
	x, ok := v.(V)
	if !ok {
		var zero V
		return zero, &SlotError{Want: fmt.Sprintf("%T", &zero)[1:], Got: v}
	}

	return x, nil
}

// Ptr binds a *V field. A nil pointer is absent; values are V.
func Ptr[N, V any](field func(n *N) **V) Slot {
	return Slot{
		Get: func(node any) (any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			p := *field(n)
			if p == nil {
				return nil, false
			}

			return *p, true
		},
		Set: func(node any, value any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			v, err := valueOf[V](value)
			if err != nil {
				return err
			}

			*field(n) = &v

			return nil
		},
	}
}

// Value binds a plain V field. The zero value is absent, so a required
// field holding it is reported missing on write; use Ptr when zero is a
// legal value.
func Value[N any, V comparable](field func(n *N) *V) Slot {
	return Slot{
		Get: func(node any) (any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			var zero V

			v := *field(n)

			return v, v != zero
		},
		Set: func(node any, value any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			v, err := valueOf[V](value)
			if err != nil {
				return err
			}

			*field(n) = v

			return nil
		},
	}
}

// Node binds a nested *V field. Values are *V as produced by the nested
// descriptor's New.
func Node[N, V any](field func(n *N) **V) Slot {
	return Slot{
		Get: func(node any) (any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			p := *field(n)
			if p == nil {
				return nil, false
			}

			return p, true
		},
		Set: func(node any, value any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			if value == nil {
				*field(n) = nil
				return nil
			}

			v, err := valueOf[*V](value)
			if err != nil {
				return err
			}

			*field(n) = v

			return nil
		},
	}
}

// Iface binds a field of interface type V, used for polymorphic fields whose
// value may be any of a type's subtypes. A nil interface is absent.
func Iface[N, V any](field func(n *N) *V) Slot {
	return Slot{
		Get: func(node any) (any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			v := any(*field(n))

			return v, v != nil
		},
		Set: func(node any, value any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			if value == nil {
				var zero V
				*field(n) = zero

				return nil
			}

			v, err := valueOf[V](value)
			if err != nil {
				return err
			}

			*field(n) = v

			return nil
		},
	}
}

// Slice binds a []V field of scalar items.
func Slice[N, V any](field func(n *N) *[]V) SeqSlot {
	return SeqSlot{
		Get: func(node any) ([]any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			s := *field(n)
			if s == nil {
				return nil, false
			}

			items := make([]any, len(s))
			for i, v := range s {
				items[i] = v
			}

			return items, true
		},
		Set: func(node any, items []any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			s := make([]V, 0, len(items))

			for _, item := range items {
				v, err := valueOf[V](item)
				if err != nil {
					return err
				}

				s = append(s, v)
			}

			*field(n) = s

			return nil
		},
	}
}

// Nodes binds a []*V field of nested items. Nil entries are kept as nil.
func Nodes[N, V any](field func(n *N) *[]*V) SeqSlot {
	return SeqSlot{
		Get: func(node any) ([]any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			s := *field(n)
			if s == nil {
				return nil, false
			}

			items := make([]any, len(s))

			for i, v := range s {
				if v != nil {
					items[i] = v
				}
			}

			return items, true
		},
		Set: func(node any, items []any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			s := make([]*V, 0, len(items))

			for _, item := range items {
				if item == nil {
					s = append(s, nil)
					continue
				}

				v, err := valueOf[*V](item)
				if err != nil {
					return err
				}

				s = append(s, v)
			}

			*field(n) = s

			return nil
		},
	}
}

// Ptrs binds a []*V field of scalar items, used by nillable repeated scalars.
// Nil entries are kept as nil.
func Ptrs[N, V any](field func(n *N) *[]*V) SeqSlot {
	return SeqSlot{
		Get: func(node any) ([]any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			s := *field(n)
			if s == nil {
				return nil, false
			}

			items := make([]any, len(s))

			for i, p := range s {
				if p != nil {
					items[i] = *p
				}
			}

			return items, true
		},
		Set: func(node any, items []any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			s := make([]*V, 0, len(items))

			for _, item := range items {
				if item == nil {
					s = append(s, nil)
					continue
				}

				v, err := valueOf[V](item)
				if err != nil {
					return err
				}

				s = append(s, &v)
			}

			*field(n) = s

			return nil
		},
	}
}

// Ifaces binds a []V field of interface type V, the repeated form of Iface.
func Ifaces[N, V any](field func(n *N) *[]V) SeqSlot {
	return SeqSlot{
		Get: func(node any) ([]any, bool) {
			n, err := nodeOf[N](node)
			if err != nil {
				return nil, false
			}

			s := *field(n)
			if s == nil {
				return nil, false
			}

			items := make([]any, len(s))
			for i, v := range s {
				items[i] = any(v)
			}

			return items, true
		},
		Set: func(node any, items []any) error {
			n, err := nodeOf[N](node)
			if err != nil {
				return err
			}

			s := make([]V, 0, len(items))

			for _, item := range items {
				if item == nil {
					var zero V

					s = append(s, zero)

					continue
				}

				v, err := valueOf[V](item)
				if err != nil {
					return err
				}

				s = append(s, v)
			}

			*field(n) = s

			return nil
		},
	}
}
