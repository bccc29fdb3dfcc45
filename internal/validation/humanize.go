package validation

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

// Humanize turns a camelCase field name into words: "zipCode" becomes "Zip Code".
func Humanize(field string) string {
	var b strings.Builder
	startWord := true
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
			startWord = true
		}
		if r == ' ' {
			startWord = true
			b.WriteRune(r)
			continue
		}
		if startWord {
			r = unicode.ToUpper(r)
			startWord = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

var rolePrefix = regexp.MustCompile(`^(Current holder|Assigned member|Assigned location) \((.*?)\) is missing:`)

// HTML escapes messages and emphasizes the role and holder of each one.
func HTML(messages []string) []string {
	out := make([]string, len(messages))
	for i, msg := range messages {
		out[i] = rolePrefix.ReplaceAllString(html.EscapeString(msg), "<strong>$1</strong> (<strong>$2</strong>) is missing:")
	}
	return out
}
