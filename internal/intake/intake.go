package intake

// Result is the only artifact the intake transform exposes.
// Its JSON form is the success body of the orchestrate endpoint.
type Result struct {
	// OutputText is the formatted document produced by Format.
	OutputText string `json:"outputText"`

	// Assumptions lists the inferred caveats in catalogue order.
	// It is never nil, so it always serializes as a JSON array.
	Assumptions []string `json:"assumptions"`
}

// Orchestrate runs the full transform over inputText.
//
// It is a total function: any string, including the empty string, yields a
// well-formed Result. Callers that must reject empty requests do so before
// calling Orchestrate.
func Orchestrate(inputText string) Result {
	normalized := Normalize(inputText)
	softened := Soften(normalized)
	assumptions := InferAssumptions(normalized, softened)

	return Result{
		OutputText:  Format(softened, assumptions),
		Assumptions: assumptions,
	}
}
