package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// resultSeparator separates documents when several results are written.
const resultSeparator = "\n---\n\n"

// historyInputWidth is how many runes of each request are shown in history.
const historyInputWidth = 60

// TextWriter outputs the plain output document, exactly as the HTTP
// endpoint returns it in outputText, followed by a newline.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a single result.
func (w *TextWriter) Write(result intake.Result) (int, error) {
	return io.WriteString(w.output, result.OutputText+"\n")
}

// WriteAll outputs results separated by a "---" line.
func (w *TextWriter) WriteAll(results []intake.Result) (int, error) {
	docs := make([]string, len(results))
	for i, result := range results {
		docs[i] = result.OutputText + "\n"
	}
	return io.WriteString(w.output, strings.Join(docs, resultSeparator))
}

// WriteHistory outputs one line per journal entry.
func (w *TextWriter) WriteHistory(entries []*model.IntakeReport) (int, error) {
	if len(entries) == 0 {
		return io.WriteString(w.output, "No intake requests recorded.\n")
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%-6d %s  assumptions=%d  %s\n",
			e.JournalID,
			e.ReceivedAt.Format(time.RFC3339),
			len(e.Assumptions),
			firstLine(e.Input, historyInputWidth),
		)
	}
	return io.WriteString(w.output, sb.String())
}
