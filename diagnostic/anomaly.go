package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"xmlbind/qname"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind classifies an Anomaly.
type Kind int

const (
	_ Kind = iota

	KindUnexpectedAttribute  // unexpected-attribute
	KindUnexpectedElement    // unexpected-element
	KindUnexpectedSubtype    // unexpected-subtype
	KindAdapterDecode        // adapter-decode
	KindAdapterEncode        // adapter-encode
	KindMissingRequiredValue // missing-required-value
	KindUnexpectedNullValue  // unexpected-null-value
	KindLifecycleHook        // lifecycle-hook
)

// Sentinels matched by errors.Is against an Anomaly of the same Kind.
var (
	ErrUnexpectedAttribute  = errors.New("unexpected attribute")
	ErrUnexpectedElement    = errors.New("unexpected element")
	ErrUnexpectedSubtype    = errors.New("unexpected subtype")
	ErrAdapterDecode        = errors.New("adapter decode failed")
	ErrAdapterEncode        = errors.New("adapter encode failed")
	ErrMissingRequiredValue = errors.New("missing required value")
	ErrUnexpectedNullValue  = errors.New("unexpected null value")
	ErrLifecycleHook        = errors.New("lifecycle hook failed")
)

var sentinels = map[Kind]error{
	KindUnexpectedAttribute:  ErrUnexpectedAttribute,
	KindUnexpectedElement:    ErrUnexpectedElement,
	KindUnexpectedSubtype:    ErrUnexpectedSubtype,
	KindAdapterDecode:        ErrAdapterDecode,
	KindAdapterEncode:        ErrAdapterEncode,
	KindMissingRequiredValue: ErrMissingRequiredValue,
	KindUnexpectedNullValue:  ErrUnexpectedNullValue,
	KindLifecycleHook:        ErrLifecycleHook,
}

// Sentinel returns the sentinel error of kind k, or nil.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// Anomaly is a recoverable deviation from the expected document shape.
// Reporting one never rolls back fields already assigned.
type Anomaly struct {
	Kind Kind
	// Name is the attribute or element the anomaly is about.
	Name qname.QName
	// Line and Column locate the anomaly in the input; zero on write.
	Line   int
	Column int
	// Path is the slash separated element path from the document root.
	Path    string
	Message string
	// Expected lists the names that would have been accepted.
	Expected    []qname.QName
	Suggestions []string
	// Err is the underlying cause, e.g. an adapter error.
	Err error
}

func (a Anomaly) Error() string {
	var b strings.Builder

	b.WriteString(a.Kind.String())

	if !a.Name.IsZero() {
		b.WriteString(" ")
		b.WriteString(a.Name.String())
	}

	if a.Line > 0 {
		fmt.Fprintf(&b, " at %d:%d", a.Line, a.Column)
	}

	if a.Path != "" {
		fmt.Fprintf(&b, " in %s", a.Path)
	}

	if a.Message != "" {
		b.WriteString(": ")
		b.WriteString(a.Message)
	}

	if a.Err != nil {
		b.WriteString(": ")
		b.WriteString(a.Err.Error())
	}

	if len(a.Expected) > 0 {
		fmt.Fprintf(&b, " (expected %s)", qname.Join(a.Expected))
	}

	if len(a.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(a.Suggestions, ", "))
	}

	return b.String()
}

// Is reports whether target is the sentinel of the anomaly's kind.
func (a Anomaly) Is(target error) bool {
	s := a.Kind.Sentinel()
	return s != nil && s == target
}

func (a Anomaly) Unwrap() error {
	return a.Err
}
