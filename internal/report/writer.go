package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/missioncontrol/internal/config"
	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for unsupported format names.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer defines the interface for result output.
type Writer interface {
	// Write outputs a single intake result.
	// Returns the number of bytes written and any error encountered.
	Write(result intake.Result) (int, error)

	// WriteAll outputs several results as one document, in order.
	WriteAll(results []intake.Result) (int, error)

	// WriteHistory outputs journal entries, newest first as given.
	WriteHistory(entries []*model.IntakeReport) (int, error)
}

// NewWriter returns the writer for format ("text", "json" or "markdown").
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case config.OutputText:
		return NewTextWriter(output), nil
	case config.OutputJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case config.OutputMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in sequence.
// It stops on the first error encountered.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the result to all configured Writers.
func (m *MultiWriter) Write(result intake.Result) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.Write(result) })
}

// WriteAll outputs the results to all configured Writers.
func (m *MultiWriter) WriteAll(results []intake.Result) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteAll(results) })
}

// WriteHistory outputs the entries to all configured Writers.
func (m *MultiWriter) WriteHistory(entries []*model.IntakeReport) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(entries) })
}

func (m *MultiWriter) each(fn func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := fn(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// firstLine returns the first line of s cut to maxLen runes with an ellipsis.
func firstLine(s string, maxLen int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
