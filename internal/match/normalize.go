package match

import (
	"strings"
	"unicode"
)

// NormalizeName folds a name for fuzzy comparison: CamelCase is split, case
// is folded and the separators XML names use (- _ . and space) are dropped.
// A namespace prefix ("p:name") is ignored.
func NormalizeName(s string) string {
	if i := strings.LastIndexByte(s, ':'); i >= 0 {
		s = s[i+1:]
	}

	return strings.ToLower(strings.Join(tokenize(s), ""))
}

// TokenizeName splits a name into lowercase tokens, e.g.
// "res-ref-name" and "resRefName" both become ["res", "ref", "name"].
func TokenizeName(s string) []string {
	tokens := tokenize(s)
	for i, t := range tokens {
		tokens[i] = strings.ToLower(t)
	}

	return tokens
}

// tokenize splits on separators and CamelCase boundaries.
// Examples:
//   - "ejbLocalRef" -> ["ejb", "Local", "Ref"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "env-entry_value" -> ["env", "entry", "value"]
func tokenize(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsToken(runes, i) {
			flush()
		}

		current.WriteRune(r)
	}

	flush()

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == '.' || r == ' '
}

// startsToken reports whether a CamelCase token begins at i.
func startsToken(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]

	if isSeparator(prev) {
		return false
	}

	// "orderId" splits before 'I'
	if unicode.IsUpper(r) && !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "XMLParser" splits before 'P'
	nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return unicode.IsUpper(r) && unicode.IsUpper(prev) && nextLower
}
