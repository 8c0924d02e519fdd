package intake

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Assumption texts, in the order they are appended.
const (
	// AssumptionImplementationTask is added when a short request names no action.
	AssumptionImplementationTask = "Interpret the request as an implementation task to be completed directly, not a brainstorming prompt."

	// AssumptionWrittenOutput is added when a short request names no artifact.
	AssumptionWrittenOutput = "Deliver the result as written output unless a specific artifact or file type is later specified."

	// AssumptionNoFixedDeadline is added when urgency was softened but no date was given.
	AssumptionNoFixedDeadline = "Treat priority as time-sensitive but without a fixed deadline because no concrete date or time was provided."
)

const (
	// actionVerbLengthLimit is the UTF-16 length below which a request without
	// an action verb is treated as an implementation task.
	actionVerbLengthLimit = 80

	// deliverableLengthLimit is the UTF-16 length below which a request without
	// a deliverable signal defaults to written output.
	deliverableLengthLimit = 120
)

// ActionVerbs are matched as whole words, ignoring ASCII case.
var ActionVerbs = []string{
	"add",
	"build",
	"create",
	"debug",
	"design",
	"document",
	"draft",
	"fix",
	"implement",
	"investigate",
	"make",
	"optimize",
	"plan",
	"refactor",
	"review",
	"ship",
	"update",
	"wire",
	"write",
}

// DeliverableSignals are matched as plain substrings of the lowercased text,
// so "apish" counts as mentioning "api".
var DeliverableSignals = []string{
	"api",
	"app",
	"bug",
	"component",
	"dashboard",
	"doc",
	"docs",
	"endpoint",
	"feature",
	"form",
	"page",
	"route",
	"script",
	"test",
	"ui",
}

var (
	actionVerbPattern = regexp.MustCompile(`\b(?:` + asciiCaselessAlternation(ActionVerbs) + `)\b`)

	deadlinePattern = regexp.MustCompile(
		`\b(?:` + asciiCaselessAlternation([]string{"today", "tomorrow"}) +
			`|` + asciiCaseless("by") + `\s+\w+|` +
			asciiCaselessAlternation([]string{"deadline", "due", "eta"}) +
			`|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2})\b`,
	)
)

// Signals are the lexical cues the assumption rules are evaluated against.
type Signals struct {
	// HasActionVerb is true when any word from ActionVerbs appears.
	HasActionVerb bool `json:"hasActionVerb"`

	// HasDeliverableSignal is true when any DeliverableSignals entry is a
	// substring of the lowercased text.
	HasDeliverableSignal bool `json:"hasDeliverableSignal"`

	// MentionsDeadline is true for today, tomorrow, deadline, due, eta,
	// "by <word>", YYYY-MM-DD or M/D dates.
	MentionsDeadline bool `json:"mentionsDeadline"`

	// HadUrgencyRewrite is true when Soften changed the text.
	HadUrgencyRewrite bool `json:"hadUrgencyRewrite"`
}

// DetectSignals computes Signals. Every signal except HadUrgencyRewrite is
// read from the normalized (pre-softening) text.
func DetectSignals(normalized, softened string) Signals {
	return Signals{
		HasActionVerb:        actionVerbPattern.MatchString(normalized),
		HasDeliverableSignal: containsDeliverable(normalized),
		MentionsDeadline:     deadlinePattern.MatchString(normalized),
		HadUrgencyRewrite:    softened != normalized,
	}
}

// containsDeliverable reports whether the lowercased text contains any
// deliverable signal. A Caser is not safe for concurrent use, so one is
// created per call.
func containsDeliverable(text string) bool {
	lower := cases.Lower(language.Und).String(text)
	for _, signal := range DeliverableSignals {
		if strings.Contains(lower, signal) {
			return true
		}
	}
	return false
}

// InferAssumptions returns the caveats implied by the request text, in the
// fixed catalogue order. The result is never nil and holds at most three
// entries.
func InferAssumptions(normalized, softened string) []string {
	return AssumptionsFromSignals(DetectSignals(normalized, softened), normalized)
}

// AssumptionsFromSignals applies the three independent rules to signals that
// were already computed for normalized. Length limits count UTF-16 code
// units, so an emoji counts as two.
func AssumptionsFromSignals(s Signals, normalized string) []string {
	length := textLength(normalized)
	assumptions := make([]string, 0, 3)

	if !s.HasActionVerb && length < actionVerbLengthLimit {
		assumptions = append(assumptions, AssumptionImplementationTask)
	}

	if !s.HasDeliverableSignal && length < deliverableLengthLimit {
		assumptions = append(assumptions, AssumptionWrittenOutput)
	}

	if s.HadUrgencyRewrite && !s.MentionsDeadline {
		assumptions = append(assumptions, AssumptionNoFixedDeadline)
	}

	return assumptions
}
