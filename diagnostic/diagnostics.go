package diagnostic

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"xmlbind/internal/common"
)

// Severity of a Diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Diagnostic is a single finding about a schema file.
type Diagnostic struct {
	Severity Severity
	// Code is a stable identifier for the class of problem, e.g. "unknown_type".
	Code    string
	Message string
	// Type and Field locate the finding, either may be empty.
	Type        string
	Field       string
	Suggestions []string
}

func (d Diagnostic) Error() string {
	return d.String()
}

func (d Diagnostic) String() string {
	var b strings.Builder

	where := strings.TrimSpace(strings.Join([]string{bracket(d.Type), d.Field}, " "))
	if where != "" {
		b.WriteString(where)
		b.WriteString(": ")
	}

	if d.Code != "" {
		fmt.Fprintf(&b, "[%s] ", d.Code)
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
	}

	return b.String()
}

func bracket(s string) string {
	if s == "" {
		return ""
	}

	return "[" + s + "]"
}

// Diagnostics is the ordered list of findings of one validation pass.
type Diagnostics struct {
	items []Diagnostic
}

// AddError records an error. Schemas with errors cannot be built.
func (d *Diagnostics) AddError(code, message, typeName, field string) {
	d.add(SeverityError, code, message, typeName, field)
}

// AddWarning records a problem that does not prevent building the schema.
func (d *Diagnostics) AddWarning(code, message, typeName, field string) {
	d.add(SeverityWarning, code, message, typeName, field)
}

func (d *Diagnostics) add(sev Severity, code, message, typeName, field string) {
	d.items = append(d.items, Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Type:     typeName,
		Field:    field,
	})
}

// Suggest attaches suggestions to the most recent finding.
func (d *Diagnostics) Suggest(suggestions ...string) {
	if len(d.items) == 0 || len(suggestions) == 0 {
		return
	}

	last := &d.items[len(d.items)-1]
	last.Suggestions = append(last.Suggestions, suggestions...)
}

// HasErrors reports whether any finding is an error.
func (d *Diagnostics) HasErrors() bool {
	return slices.ContainsFunc(d.items, func(it Diagnostic) bool {
		return it.Severity == SeverityError
	})
}

func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, it := range d.items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}

	return out
}

// All returns every finding, most severe first, otherwise in report order.
func (d *Diagnostics) All() []Diagnostic {
	all := slices.Clone(d.items)
	slices.SortStableFunc(all, func(a, b Diagnostic) int {
		return cmp.Compare(b.Severity, a.Severity)
	})

	return all
}

// Err joins the errors, or returns nil when there are none.
func (d *Diagnostics) Err() error {
	var errs []error

	for _, it := range d.Errors() {
		errs = append(errs, it)
	}

	return errors.Join(errs...)
}
