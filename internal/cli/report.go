package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"xmlbind/diagnostic"
)

var (
	okColor    = color.New(color.FgGreen).SprintFunc()
	failColor  = color.New(color.FgRed, color.Bold).SprintFunc()
	errColor   = color.New(color.FgRed).SprintFunc()
	warnColor  = color.New(color.FgYellow).SprintFunc()
	infoColor  = color.New(color.FgCyan).SprintFunc()
	addColor   = color.New(color.FgGreen).SprintFunc()
	delColor   = color.New(color.FgRed).SprintFunc()
	faintColor = color.New(color.Faint).SprintFunc()
)

// printAnomalies writes one line per anomaly, prefixed with the source.
func printAnomalies(w io.Writer, source string, anomalies []diagnostic.Anomaly) {
	for _, a := range anomalies {
		fmt.Fprintf(w, "%s: %s %s\n", source, warnColor(a.Kind.String()), strings.TrimPrefix(a.Error(), a.Kind.String()+" "))
	}
}

func severityLabel(s diagnostic.Severity) string {
	switch s {
	case diagnostic.SeverityError:
		return errColor(s.String())
	case diagnostic.SeverityWarning:
		return warnColor(s.String())
	default:
		return infoColor(s.String())
	}
}

// printDiagnostics writes errors, warnings and infos, one per line.
func printDiagnostics(w io.Writer, d *diagnostic.Diagnostics) {
	for _, item := range d.All() {
		fmt.Fprintf(w, "%s: %s\n", severityLabel(item.Severity), item.String())
	}
}

// printDiff writes a line diff of from and to, or nothing when they are equal.
// It reports whether they differ.
func printDiff(w io.Writer, from, to string) bool {
	dmp := diffpatch.New()

	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	if !slices.ContainsFunc(diffs, func(d diffpatch.Diff) bool { return d.Type != diffpatch.DiffEqual }) {
		return false
	}

	for _, d := range diffs {
		mark, paint := " ", faintColor

		switch d.Type {
		case diffpatch.DiffInsert:
			mark, paint = "+", addColor
		case diffpatch.DiffDelete:
			mark, paint = "-", delColor
		}

		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}

			fmt.Fprint(w, paint(mark+" "+strings.TrimSuffix(line, "\n")), "\n")
		}
	}

	return true
}
