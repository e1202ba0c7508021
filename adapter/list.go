package adapter

import (
	"fmt"
	"slices"
	"strings"

	"xmlbind/qname"
)

// List builds an adapter for whitespace separated token lists whose items are
// converted with elem. Encoding joins the items with a single space.
func List[T any](elem *Typed[T]) *Typed[[]T] {
	return &Typed[[]T]{
		name: "list(" + elem.name + ")",
		decode: func(raw string, r qname.Resolver) ([]T, error) {
			tokens := strings.FieldsFunc(raw, IsXMLSpace)
			out := make([]T, 0, len(tokens))

			for i, tok := range tokens {
				v, err := elem.decode(tok, r)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}

				out = append(out, v)
			}

			return out, nil
		},
		encode: func(v []T, b Binder) (string, error) {
			parts := make([]string, 0, len(v))

			for i, item := range v {
				s, err := elem.encode(item, b)
				if err != nil {
					return "", fmt.Errorf("item %d: %w", i, err)
				}

				if strings.ContainsFunc(s, IsXMLSpace) || s == "" {
					return "", fmt.Errorf("item %d: %q is not a list token", i, s)
				}

				parts = append(parts, s)
			}

			return strings.Join(parts, " "), nil
		},
	}
}

// Enum builds a collapsed-string adapter restricted to values.
func Enum(name string, values ...string) *Typed[string] {
	allowed := slices.Clone(values)

	check := func(s string) (string, error) {
		if !slices.Contains(allowed, s) {
			return "", fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
		}

		return s, nil
	}

	return Simple(name,
		func(raw string) (string, error) {
			return check(CollapseSpace(raw))
		},
		check,
	)
}
