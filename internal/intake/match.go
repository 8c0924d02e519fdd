package intake

import (
	"strings"
	"unicode/utf16"
)

// asciiCaseless returns a regexp fragment matching word with ASCII letters in
// either case. Unlike (?i), it never folds non-ASCII letters such as U+017F
// (long s) or U+212A (Kelvin sign) onto ASCII ones.
// word must be a literal; regexp metacharacters are quoted.
func asciiCaseless(word string) string {
	var b strings.Builder
	for _, r := range word {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteString("[" + string(r) + string(r-'a'+'A') + "]")
		case r >= 'A' && r <= 'Z':
			b.WriteString("[" + string(r-'A'+'a') + string(r) + "]")
		case strings.ContainsRune(`\.+*?()|[]{}^$`, r):
			b.WriteString(`\` + string(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// asciiCaselessAlternation joins the caseless forms of words with "|".
func asciiCaselessAlternation(words []string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = asciiCaseless(w)
	}
	return strings.Join(parts, "|")
}

// textLength returns the length of s in UTF-16 code units, the unit request
// length limits are expressed in. Characters outside the Basic Multilingual
// Plane, such as most emoji, count as two.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
