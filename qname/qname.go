// Package qname provides the qualified XML name used as the identity key for
// elements, attributes and schema types.
package qname

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known namespaces.
const (
	XSINamespace   = "http://www.w3.org/2001/XMLSchema-instance"
	XMLNamespace   = "http://www.w3.org/XML/1998/namespace"
	XMLNSNamespace = "http://www.w3.org/2000/xmlns/"

	XSIPrefix = "xsi"
	XMLPrefix = "xml"
)

var (
	// XSINil is the xsi:nil attribute name.
	XSINil = QName{Space: XSINamespace, Local: "nil"}
	// XSIType is the xsi:type attribute name.
	XSIType = QName{Space: XSINamespace, Local: "type"}
)

// QName is a namespace URI plus local name pair. The zero value means "no name".
type QName struct {
	Space string
	Local string
}

// New returns a QName for the given namespace and local part.
func New(space, local string) QName {
	return QName{Space: space, Local: local}
}

// Local returns a QName with no namespace.
func Local(local string) QName {
	return QName{Local: local}
}

// IsZero reports whether q has no local part.
func (q QName) IsZero() bool {
	return q.Local == ""
}

// String renders q in Clark notation: "{space}local", or "local" without a namespace.
func (q QName) String() string {
	if q.Space == "" {
		return q.Local
	}

	return "{" + q.Space + "}" + q.Local
}

// Parse parses Clark notation ("{space}local" or "local").
func Parse(s string) (QName, error) {
	if s == "" {
		return QName{}, errors.New("empty qualified name")
	}

	if !strings.HasPrefix(s, "{") {
		if strings.ContainsAny(s, "{}") {
			return QName{}, fmt.Errorf("invalid qualified name %q", s)
		}

		return QName{Local: s}, nil
	}

	end := strings.IndexByte(s, '}')
	if end < 0 {
		return QName{}, fmt.Errorf("invalid qualified name %q: missing '}'", s)
	}

	local := s[end+1:]
	if local == "" || strings.ContainsAny(local, "{}") {
		return QName{}, fmt.Errorf("invalid qualified name %q: bad local part", s)
	}

	return QName{Space: s[1:end], Local: local}, nil
}

// SplitPrefixed splits a prefixed name "p:local" into its prefix and local part.
// A name without a colon has an empty prefix.
func SplitPrefixed(s string) (prefix, local string, err error) {
	if s == "" {
		return "", "", errors.New("empty name")
	}

	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", s, nil
	}

	prefix, local = s[:i], s[i+1:]
	if prefix == "" || local == "" || strings.IndexByte(local, ':') >= 0 {
		return "", "", fmt.Errorf("invalid prefixed name %q", s)
	}

	return prefix, local, nil
}

// Resolver maps namespace prefixes to namespace URIs.
type Resolver interface {
	LookupNamespace(prefix string) (string, bool)
}

// Resolve parses a prefixed name and resolves its prefix with r. The "xml"
// prefix is always bound. An unprefixed name takes the default namespace when
// useDefault is set.
func Resolve(s string, r Resolver, useDefault bool) (QName, error) {
	prefix, local, err := SplitPrefixed(strings.TrimSpace(s))
	if err != nil {
		return QName{}, err
	}

	if prefix == XMLPrefix {
		return QName{Space: XMLNamespace, Local: local}, nil
	}

	if prefix == "" {
		if !useDefault || r == nil {
			return QName{Local: local}, nil
		}

		space, _ := r.LookupNamespace("")

		return QName{Space: space, Local: local}, nil
	}

	if r == nil {
		return QName{}, fmt.Errorf("prefix %q is not bound", prefix)
	}

	space, ok := r.LookupNamespace(prefix)
	if !ok {
		return QName{}, fmt.Errorf("prefix %q is not bound", prefix)
	}

	return QName{Space: space, Local: local}, nil
}

// Join renders names as a comma separated list, used in diagnostics.
func Join(names []QName) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}

	return strings.Join(parts, ", ")
}
