package adapter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"xmlbind/qname"
)

// Built-in adapters.
var (
	String     = Simple("string", decodeString, encodeString)
	Trimmed    = Simple("trimmed", decodeTrimmed, encodeString)
	Collapsed  = Simple("collapsed", decodeCollapsed, encodeString)
	Normalized = Simple("normalized", decodeNormalized, encodeString)
	Boolean    = Simple("boolean", decodeBoolean, encodeBoolean)
	Int        = Simple("int", decodeInt, encodeInt)
	Long       = Simple("long", decodeLong, encodeLong)
	Double     = Simple("double", decodeDouble, encodeDouble)
	DateTime   = Simple("datetime", decodeDateTime, encodeDateTime)
	Date       = Simple("date", decodeDate, encodeDate)
	QName      = New("qname", decodeQName, encodeQName)
)

// IsXMLSpace reports whether r is one of the four XML whitespace characters.
func IsXMLSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// TrimSpace removes XML whitespace from both ends of s.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, IsXMLSpace)
}

// CollapseSpace folds runs of XML whitespace into a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, IsXMLSpace), " ")
}

// NormalizeSpace replaces every XML whitespace character with a space.
func NormalizeSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if IsXMLSpace(r) {
			return ' '
		}

		return r
	}, s)
}

func decodeString(raw string) (string, error) {
	return raw, nil
}

func encodeString(v string) (string, error) {
	return v, nil
}

func decodeTrimmed(raw string) (string, error) {
	return TrimSpace(raw), nil
}

func decodeCollapsed(raw string) (string, error) {
	return CollapseSpace(raw), nil
}

func decodeNormalized(raw string) (string, error) {
	return NormalizeSpace(raw), nil
}

// decodeBoolean treats exactly "1" and "true" as true. Anything else,
// including surrounding whitespace, is false.
func decodeBoolean(raw string) (bool, error) {
	return raw == "1" || raw == "true", nil
}

func encodeBoolean(v bool) (string, error) {
	return strconv.FormatBool(v), nil
}

func decodeInt(raw string) (int, error) {
	n, err := strconv.ParseInt(TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, unwrapNumError(err)
	}

	return int(n), nil
}

func encodeInt(v int) (string, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return "", fmt.Errorf("%d out of int range", v)
	}

	return strconv.Itoa(v), nil
}

func decodeLong(raw string) (int64, error) {
	n, err := strconv.ParseInt(TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, unwrapNumError(err)
	}

	return n, nil
}

func encodeLong(v int64) (string, error) {
	return strconv.FormatInt(v, 10), nil
}

func decodeDouble(raw string) (float64, error) {
	s := TrimSpace(raw)

	switch s {
	case "INF", "+INF":
		return math.Inf(1), nil
	case "-INF":
		return math.Inf(-1), nil
	case "NaN":
		return math.NaN(), nil
	case "":
		return 0, errors.New("empty value")
	}

	// Go also accepts "Inf" and "NaN" spellings that are not XML lexicals.
	if strings.ContainsAny(s, "iInN") {
		return 0, fmt.Errorf("invalid double %q", s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, unwrapNumError(err)
	}

	return f, nil
}

func encodeDouble(v float64) (string, error) {
	switch {
	case math.IsInf(v, 1):
		return "INF", nil
	case math.IsInf(v, -1):
		return "-INF", nil
	case math.IsNaN(v):
		return "NaN", nil
	}

	return strconv.FormatFloat(v, 'g', -1, 64), nil
}

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func decodeDateTime(raw string) (time.Time, error) {
	s := TrimSpace(raw)

	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid dateTime %q", s)
}

func encodeDateTime(v time.Time) (string, error) {
	return v.Format(time.RFC3339Nano), nil
}

var dateLayouts = []string{
	"2006-01-02Z07:00",
	"2006-01-02",
}

func decodeDate(raw string) (time.Time, error) {
	s := TrimSpace(raw)

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func encodeDate(v time.Time) (string, error) {
	if v.Location() == time.UTC {
		return v.Format("2006-01-02"), nil
	}

	return v.Format("2006-01-02Z07:00"), nil
}

func decodeQName(raw string, r qname.Resolver) (qname.QName, error) {
	s := CollapseSpace(raw)
	if s == "" {
		return qname.QName{}, errors.New("empty qualified name")
	}

	return qname.Resolve(s, r, true)
}

func encodeQName(v qname.QName, b Binder) (string, error) {
	if v.IsZero() {
		return "", errors.New("empty qualified name")
	}

	if b == nil {
		if v.Space == "" {
			return v.Local, nil
		}

		return "", fmt.Errorf("no prefix available for namespace %q", v.Space)
	}

	prefix, err := b.PrefixFor(v.Space)
	if err != nil {
		return "", err
	}

	if prefix == "" {
		return v.Local, nil
	}

	return prefix + ":" + v.Local, nil
}

func unwrapNumError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}

	return err
}
