package adapter

import (
	"errors"
	"fmt"

	"xmlbind/qname"
)

var errNilValue = errors.New("nil value")

// Binder hands out a namespace prefix for a namespace URI while writing,
// declaring it if it is not in scope yet.
type Binder interface {
	PrefixFor(space string) (string, error)
}

// Adapter converts between a lexical XML value and a typed Go value.
// Implementations are stateless and safe for concurrent use.
type Adapter interface {
	// Name returns the registry name of the adapter.
	Name() string
	// Decode parses raw. Failures are *DecodeError.
	Decode(raw string, r qname.Resolver) (any, error)
	// Encode formats v. Failures are *EncodeError.
	Encode(v any, b Binder) (string, error)
}

// Typed is an Adapter for values of type T.
type Typed[T any] struct {
	name   string
	decode func(raw string, r qname.Resolver) (T, error)
	encode func(v T, b Binder) (string, error)
}

// New builds a namespace aware adapter.
func New[T any](
	name string,
	decode func(raw string, r qname.Resolver) (T, error),
	encode func(v T, b Binder) (string, error),
) *Typed[T] {
	return &Typed[T]{name: name, decode: decode, encode: encode}
}

// Simple builds an adapter whose conversions do not depend on namespaces.
func Simple[T any](name string, decode func(raw string) (T, error), encode func(v T) (string, error)) *Typed[T] {
	return &Typed[T]{
		name: name,
		decode: func(raw string, _ qname.Resolver) (T, error) {
			return decode(raw)
		},
		encode: func(v T, _ Binder) (string, error) {
			return encode(v)
		},
	}
}

// Name returns the adapter name.
func (a *Typed[T]) Name() string {
	return a.name
}

// DecodeValue parses raw into a T.
func (a *Typed[T]) DecodeValue(raw string, r qname.Resolver) (T, error) {
	v, err := a.decode(raw, r)
	if err != nil {
		var zero T
		return zero, &DecodeError{Adapter: a.name, Raw: raw, Err: err}
	}

	return v, nil
}

// EncodeValue formats a T.
func (a *Typed[T]) EncodeValue(v T, b Binder) (string, error) {
	s, err := a.encode(v, b)
	if err != nil {
		return "", &EncodeError{Adapter: a.name, Value: v, Err: err}
	}

	return s, nil
}

// Decode implements Adapter.
func (a *Typed[T]) Decode(raw string, r qname.Resolver) (any, error) {
	v, err := a.DecodeValue(raw, r)
	if err != nil {
		return nil, err
	}

	return v, nil
}

// Encode implements Adapter. It accepts a T or a non-nil *T.
func (a *Typed[T]) Encode(v any, b Binder) (string, error) {
	switch t := v.(type) {
	case T:
		return a.EncodeValue(t, b)
	case *T:
		if t == nil {
			return "", &EncodeError{Adapter: a.name, Value: v, Err: errNilValue}
		}

		return a.EncodeValue(*t, b)
	default:
		var zero T

		return "", &EncodeError{
			Adapter: a.name,
			Value:   v,
			Err:     fmt.Errorf("got %T, want %T", v, zero),
		}
	}
}

// DecodeError reports a lexical value an adapter could not parse.
type DecodeError struct {
	Adapter string
	Raw     string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("adapter %s: cannot decode %q: %v", e.Adapter, e.Raw, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports a value an adapter could not format.
type EncodeError struct {
	Adapter string
	Value   any
	Err     error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("adapter %s: cannot encode %v: %v", e.Adapter, e.Value, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// UnknownAdapterError is returned by Registry.Lookup for unregistered names.
type UnknownAdapterError struct {
	Name string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter %q", e.Name)
}
