package intake

import "strings"

// Section headings and the fixed execution target line of the output document.
const (
	headingRequestedOutcome = "Requested Outcome"
	headingExecutionTarget  = "Execution Target"
	headingAssumptions      = "Assumptions"

	// ExecutionTarget is the fixed instruction placed under "Execution Target".
	ExecutionTarget = "Provide the requested result in final form, ready to use."
)

// Format assembles the output document:
//
//	Requested Outcome
//	<softened text>
//
//	Execution Target
//	Provide the requested result in final form, ready to use.
//
// followed, when assumptions is non-empty, by a blank line, an "Assumptions"
// heading and one "- " bullet per assumption. Lines are joined with "\n" and
// the document has no trailing newline.
func Format(softened string, assumptions []string) string {
	lines := make([]string, 0, 5+2+len(assumptions))
	lines = append(lines,
		headingRequestedOutcome,
		softened,
		"",
		headingExecutionTarget,
		ExecutionTarget,
	)

	if len(assumptions) > 0 {
		lines = append(lines, "", headingAssumptions)
		for _, assumption := range assumptions {
			lines = append(lines, "- "+assumption)
		}
	}

	return strings.Join(lines, "\n")
}
