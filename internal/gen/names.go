package gen

import (
	"strings"
	"unicode"

	"xmlbind/internal/match"
)

var initialisms = map[string]string{
	"api":  "API",
	"http": "HTTP",
	"id":   "ID",
	"json": "JSON",
	"uri":  "URI",
	"url":  "URL",
	"uuid": "UUID",
	"xml":  "XML",
}

// exportedName turns an XML name into an exported Go identifier:
// "shipTo" -> "ShipTo", "order-id" -> "OrderID".
func exportedName(s string) string {
	return joinTokens(match.TokenizeName(s))
}

// typeName is exportedName with a trailing "Type" dropped, so "orderType"
// becomes "Order".
func typeName(s string) string {
	tokens := match.TokenizeName(s)
	if len(tokens) > 1 && tokens[len(tokens)-1] == "type" {
		tokens = tokens[:len(tokens)-1]
	}

	return joinTokens(tokens)
}

func joinTokens(tokens []string) string {
	var b strings.Builder

	for _, tok := range tokens {
		if up, ok := initialisms[tok]; ok {
			b.WriteString(up)
			continue
		}

		for i, r := range tok {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				continue
			}

			if i == 0 {
				r = unicode.ToUpper(r)
			}

			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		return ""
	}

	if !unicode.IsLetter([]rune(name)[0]) {
		name = "X" + name
	}

	return name
}
