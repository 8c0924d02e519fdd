package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// JSONWriter outputs results in JSON format.
// A single result is written as the same object the HTTP endpoint returns.
//
// Design decision: We use standard encoding/json because the body is a flat
// two-field object and the endpoint must match it byte for byte.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs a single result object.
func (w *JSONWriter) Write(result intake.Result) (int, error) {
	return w.writeJSON(normalizeResult(result))
}

// WriteAll outputs results as a JSON array.
func (w *JSONWriter) WriteAll(results []intake.Result) (int, error) {
	out := make([]intake.Result, len(results))
	for i, result := range results {
		out[i] = normalizeResult(result)
	}
	return w.writeJSON(out)
}

// historyEntry is the JSON shape of one journal entry.
type historyEntry struct {
	JournalID   int64     `json:"journalId"`
	RequestID   string    `json:"requestId"`
	ReceivedAt  time.Time `json:"receivedAt"`
	InputText   string    `json:"inputText"`
	OutputText  string    `json:"outputText"`
	Assumptions []string  `json:"assumptions"`
}

// WriteHistory outputs journal entries as a JSON array.
func (w *JSONWriter) WriteHistory(entries []*model.IntakeReport) (int, error) {
	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		result := normalizeResult(e.Result())
		out[i] = historyEntry{
			JournalID:   e.JournalID,
			RequestID:   e.ID,
			ReceivedAt:  e.ReceivedAt,
			InputText:   e.Input,
			OutputText:  result.OutputText,
			Assumptions: result.Assumptions,
		}
	}
	return w.writeJSON(out)
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	return w.output.Write(append(data, '\n'))
}

// normalizeResult makes sure assumptions serialize as [] rather than null.
func normalizeResult(result intake.Result) intake.Result {
	if result.Assumptions == nil {
		result.Assumptions = []string{}
	}
	return result
}
