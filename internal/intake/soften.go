package intake

import (
	"regexp"
	"strings"
)

// urgencyRule maps one urgency phrase to its calmer replacement.
type urgencyRule struct {
	phrase      string
	replacement string
}

// urgencyRules is the fixed softening table. Matching is whole-word and
// ignores ASCII case only.
var urgencyRules = []urgencyRule{
	{phrase: "ASAP", replacement: "as soon as practical"},
	{phrase: "URGENT", replacement: "time-sensitive"},
	{phrase: "IMMEDIATELY", replacement: "promptly"},
	{phrase: "RIGHT NOW", replacement: "promptly"},
}

// urgencyPattern has one capture group per rule, in table order, so the
// matching rule can be identified without re-folding the matched text.
var urgencyPattern = buildUrgencyPattern(urgencyRules)

func buildUrgencyPattern(rules []urgencyRule) *regexp.Regexp {
	groups := make([]string, len(rules))
	for i, rule := range rules {
		groups[i] = "(" + asciiCaseless(rule.phrase) + ")"
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(groups, "|") + `)\b`)
}

// Soften replaces urgency vocabulary with calmer equivalents.
//
// All matches are located on the input first and replaced in a single pass,
// so a replacement is never re-examined by another rule. Text outside a
// match, including punctuation and casing, is copied unchanged.
func Soften(text string) string {
	matches := urgencyPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		b.WriteString(replacementFor(m))
		last = m[1]
	}
	b.WriteString(text[last:])

	return b.String()
}

// replacementFor returns the replacement of the rule whose group matched.
func replacementFor(loc []int) string {
	for i, rule := range urgencyRules {
		if loc[2*(i+1)] >= 0 {
			return rule.replacement
		}
	}
	return ""
}
