package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize reduces an operation name to its comparison key: the name is
// lower-cased and every character outside [a-z0-9] is dropped.
//
// "From Base64", "from_base64" and "FROMBASE64" all normalize to "frombase64".
func Normalize(name string) string {
	// Casers carry state and are not safe to share between goroutines.
	lower := cases.Lower(language.Und).String(name)

	var b strings.Builder
	b.Grow(len(lower))
	for i := 0; i < len(lower); i++ {
		c := lower[i]
		if ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
