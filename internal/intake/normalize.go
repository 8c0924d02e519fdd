package intake

import (
	"regexp"
	"strings"
)

// blankRunPattern matches three or more consecutive newlines.
var blankRunPattern = regexp.MustCompile(`\n{3,}`)

// Normalize canonicalizes whitespace in raw request text.
//
// The steps run in this order:
//  1. trim leading and trailing whitespace from the whole input
//  2. convert "\r\n" and lone "\r" to "\n"
//  3. strip trailing spaces and tabs from every line (leading whitespace stays)
//  4. collapse runs of three or more newlines into a single blank line
//
// Normalize is idempotent and maps the empty string to itself.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}

	return blankRunPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
}
