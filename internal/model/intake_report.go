package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/missioncontrol/internal/intake"
)

// IntakeReport is the working record for a single intake request.
// A new report is created for every request and is never shared between
// requests, so no step needs to synchronize access to it.
type IntakeReport struct {
	// ID uniquely identifies the request in logs and in the journal.
	ID string `json:"id"`

	// JournalID is the journal row ID. It is zero until the report has been
	// stored or when it was loaded from somewhere other than the journal.
	JournalID int64 `json:"journal_id,omitempty"`

	// ReceivedAt is when the request entered the pipeline.
	ReceivedAt time.Time `json:"received_at"`

	// Input is the request text as handed to the pipeline.
	Input string `json:"input"`

	// Normalized is Input after whitespace canonicalization.
	Normalized string `json:"normalized"`

	// Softened is Normalized after urgency vocabulary substitution.
	Softened string `json:"softened"`

	// Signals are the lexical cues the assumption rules were evaluated on.
	Signals intake.Signals `json:"signals"`

	// Assumptions are the inferred caveats in catalogue order.
	Assumptions []string `json:"assumptions"`

	// OutputText is the formatted document.
	OutputText string `json:"output_text"`

	// Fingerprint is a hex SHA3-256 digest of Normalized.
	// It lets the journal group identical requests.
	Fingerprint string `json:"fingerprint,omitempty"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the error that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional
}

// NewIntakeReport creates a report for the given request text.
func NewIntakeReport(input string) *IntakeReport {
	return &IntakeReport{
		ID:             uuid.NewString(),
		ReceivedAt:     time.Now(),
		Input:          input,
		Assumptions:    make([]string, 0),
		PerformedSteps: make([]string, 0),
	}
}

// Result projects the report onto the externally visible result.
// The returned value does not share the Assumptions backing array with the
// report.
func (r *IntakeReport) Result() intake.Result {
	assumptions := make([]string, len(r.Assumptions))
	copy(assumptions, r.Assumptions)

	return intake.Result{
		OutputText:  r.OutputText,
		Assumptions: assumptions,
	}
}

// Failed reports whether a pipeline step recorded an error.
func (r *IntakeReport) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
