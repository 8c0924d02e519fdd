package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for pasting into tickets and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a single result.
func (w *MarkdownWriter) Write(result intake.Result) (int, error) {
	return w.WriteAll([]intake.Result{result})
}

// WriteAll outputs results separated by horizontal rules.
func (w *MarkdownWriter) WriteAll(results []intake.Result) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Task Intake")
	md.PlainText("")

	for i, result := range results {
		if i > 0 {
			md.HorizontalRule()
			md.PlainText("")
		}
		w.writeResult(md, result)
	}

	return len(md.String()), md.Build()
}

// writeResult writes one result as a code block plus an assumptions list.
func (w *MarkdownWriter) writeResult(md *markdown.Markdown, result intake.Result) {
	md.H2("Orchestrated Request")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlight("text"), result.OutputText)
	md.PlainText("")

	if len(result.Assumptions) == 0 {
		md.Tip("The request was specific enough that no assumptions were needed.")
		md.PlainText("")
		return
	}

	md.H3("Assumptions")
	md.PlainText("")
	md.BulletList(result.Assumptions...)
	md.PlainText("")
}

// WriteHistory outputs journal entries as a table.
func (w *MarkdownWriter) WriteHistory(entries []*model.IntakeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Intake History")
	md.PlainText("")

	if len(entries) == 0 {
		md.Note("No intake requests recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			strconv.FormatInt(e.JournalID, 10),
			e.ReceivedAt.Format(time.RFC3339),
			strconv.Itoa(len(e.Assumptions)),
			firstLine(e.Input, historyInputWidth),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "Received", "Assumptions", "Request"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}
