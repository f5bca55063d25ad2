package recipe

import "strings"

// DefaultBaseURL is the public CyberChef instance shareable URLs point at.
const DefaultBaseURL = "https://gchq.github.io/CyberChef/"

const upperhex = "0123456789ABCDEF"

// ShareableURL places the escaped recipe text in the fragment of base:
// base + "#recipe=" + EscapeRecipe(text).
func ShareableURL(base, text string) string {
	return base + "#recipe=" + EscapeRecipe(text)
}

// EscapeRecipe percent-encodes text with URI-component rules and then
// restores the literal parentheses so the recipe structure stays readable.
// Every other reserved character, including '%' and '#', stays encoded.
func EscapeRecipe(text string) string {
	escaped := escapeComponent(text)
	escaped = strings.ReplaceAll(escaped, "%28", "(")
	return strings.ReplaceAll(escaped, "%29", ")")
}

// escapeComponent matches JavaScript's encodeURIComponent: UTF-8 bytes are
// percent-encoded except for A-Z a-z 0-9 - _ . ! ~ * ' ( ).
// Invalid UTF-8 is encoded as U+FFFD.
func escapeComponent(s string) string {
	s = strings.ToValidUTF8(s, "�")

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
