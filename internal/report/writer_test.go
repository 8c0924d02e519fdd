package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/missioncontrol/internal/intake"
	"github.com/nao1215/missioncontrol/internal/model"
)

// createTestEntries creates journal entries with sample data for testing.
func createTestEntries() []*model.IntakeReport {
	first := model.NewIntakeReport("fix the login bug ASAP")
	first.JournalID = 2
	first.ReceivedAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	first.OutputText = intake.Orchestrate(first.Input).OutputText
	first.Assumptions = intake.Orchestrate(first.Input).Assumptions

	second := model.NewIntakeReport("ping me\nwhen you can")
	second.JournalID = 1
	second.ReceivedAt = time.Date(2026, 2, 28, 18, 0, 0, 0, time.UTC)
	second.OutputText = intake.Orchestrate(second.Input).OutputText
	second.Assumptions = intake.Orchestrate(second.Input).Assumptions

	return []*model.IntakeReport{first, second}
}

// TestNewWriter tests format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   any
	}{
		{format: "text", want: &TextWriter{}},
		{format: "json", want: &JSONWriter{}},
		{format: "markdown", want: &MarkdownWriter{}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := NewWriter(tt.format, &bytes.Buffer{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			switch tt.want.(type) {
			case *TextWriter:
				if _, ok := w.(*TextWriter); !ok {
					t.Errorf("expected *TextWriter, got %T", w)
				}
			case *JSONWriter:
				if _, ok := w.(*JSONWriter); !ok {
					t.Errorf("expected *JSONWriter, got %T", w)
				}
			case *MarkdownWriter:
				if _, ok := w.(*MarkdownWriter); !ok {
					t.Errorf("expected *MarkdownWriter, got %T", w)
				}
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		_, err := NewWriter("html", &bytes.Buffer{})
		if !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("expected ErrUnknownFormat, got %v", err)
		}
	})
}

// TestTextWriter tests the plain text writer.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes the output document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := intake.Orchestrate("ping me")

		n, err := NewTextWriter(&buf).Write(result)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != result.OutputText+"\n" {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}
	})

	t.Run("separates multiple documents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		results := []intake.Result{intake.Orchestrate("a"), intake.Orchestrate("b")}

		if _, err := NewTextWriter(&buf).WriteAll(results); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := results[0].OutputText + "\n\n---\n\n" + results[1].OutputText + "\n"
		if buf.String() != want {
			t.Errorf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("writes history lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).WriteHistory(createTestEntries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
		}
		if !strings.Contains(lines[0], "2026-03-01T09:30:00Z") {
			t.Errorf("expected timestamp in first line, got %q", lines[0])
		}
		if !strings.Contains(lines[1], "ping me ...") {
			t.Errorf("expected multi-line input to be cut, got %q", lines[1])
		}
	})

	t.Run("writes placeholder for empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewTextWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No intake requests recorded.") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes the endpoint body", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := intake.Orchestrate("fix the login bug ASAP")

		if _, err := NewJSONWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got map[string]any
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("expected exactly two fields, got %v", got)
		}
		if got["outputText"] != result.OutputText {
			t.Errorf("unexpected outputText %v", got["outputText"])
		}
	})

	t.Run("nil assumptions serialize as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(intake.Result{OutputText: "x"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"assumptions":[]`) {
			t.Errorf("expected empty array, got %s", buf.String())
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(intake.Orchestrate("ping me")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"outputText\"") {
			t.Errorf("expected indented output, got %s", buf.String())
		}
	})

	t.Run("writes multiple results as array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		results := []intake.Result{intake.Orchestrate("a"), intake.Orchestrate("b")}
		if _, err := NewJSONWriter(&buf).WriteAll(results); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []intake.Result
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if diff := cmp.Diff(results, got); diff != "" {
			t.Errorf("results mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("writes history entries", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(createTestEntries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var got []historyEntry
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(got) != 2 || got[0].JournalID != 2 || got[1].InputText != "ping me\nwhen you can" {
			t.Errorf("unexpected history %+v", got)
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes result with assumptions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		result := intake.Orchestrate("ping me")

		if _, err := NewMarkdownWriter(&buf).Write(result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Task Intake",
			"## Orchestrated Request",
			"```text",
			"Requested Outcome",
			"### Assumptions",
			"- " + intake.AssumptionImplementationTask,
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q:\n%s", want, output)
			}
		}
	})

	t.Run("writes tip when there are no assumptions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(intake.Orchestrate("Write the onboarding doc by 2026-03-01")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Contains(buf.String(), "### Assumptions") {
			t.Errorf("expected no assumptions section:\n%s", buf.String())
		}
		if !strings.Contains(buf.String(), "no assumptions were needed") {
			t.Errorf("expected tip:\n%s", buf.String())
		}
	})

	t.Run("writes history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(createTestEntries()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Intake History") {
			t.Errorf("expected heading:\n%s", output)
		}
		if !strings.Contains(output, "fix the login bug ASAP") {
			t.Errorf("expected request in table:\n%s", output)
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js))

	n, err := mw.Write(intake.Orchestrate("ping me"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d total bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

// TestFirstLine tests history input shortening.
func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{input: "short", maxLen: 10, want: "short"},
		{input: "one\ntwo", maxLen: 20, want: "one ..."},
		{input: "abcdefghij", maxLen: 6, want: "abc..."},
		{input: "ééééé", maxLen: 4, want: "é..."},
	}

	for _, tt := range tests {
		if got := firstLine(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("firstLine(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}
