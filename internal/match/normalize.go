package match

import (
	"strings"
	"unicode"
)

// Normalize folds a name for fuzzy comparison: lower case, with the
// separators used in hal and firmware names ('-', '_', '.', '/', blanks)
// removed.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Tokens splits a name on separators into lower case tokens.
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), isSeparator)
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_' || r == '.' || r == '/' || unicode.IsSpace(r)
}
