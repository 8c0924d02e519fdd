package intake

import (
	"regexp"
	"strings"
	"testing"
)

// TestNormalize tests whitespace and line-ending canonicalization.
func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty input stays empty",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only input becomes empty",
			input: " \t\r\n \n\t ",
			want:  "",
		},
		{
			name:  "trims surrounding whitespace",
			input: "  fix the login bug \n",
			want:  "fix the login bug",
		},
		{
			name:  "converts CRLF to LF",
			input: "line one\r\nline two",
			want:  "line one\nline two",
		},
		{
			name:  "converts lone CR to LF",
			input: "line one\rline two",
			want:  "line one\nline two",
		},
		{
			name:  "strips trailing spaces and tabs per line",
			input: "first \t\nsecond  \nthird",
			want:  "first\nsecond\nthird",
		},
		{
			name:  "preserves leading indentation",
			input: "steps:\n  - one\n\t- two",
			want:  "steps:\n  - one\n\t- two",
		},
		{
			name:  "collapses three or more newlines into one blank line",
			input: "a\n\n\n\n\nb",
			want:  "a\n\nb",
		},
		{
			name:  "keeps a single blank line",
			input: "a\n\nb",
			want:  "a\n\nb",
		},
		{
			name:  "whitespace-only lines collapse after stripping",
			input: "a\n \t\n  \nb",
			want:  "a\n\nb",
		},
		{
			name:  "mixed endings with trailing whitespace",
			input: "  a \r\n b\t\r\n\r\n\r\n\r\nc  ",
			want:  "a\n b\n\nc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// normalizeSamples are inputs used by the property tests below.
var normalizeSamples = []string{
	"",
	"ping me",
	"\r\r\r\r",
	"a\r\n\r\n\r\nb",
	" \t a \t \n\n\n\n b \t ",
	"x \n \n \n \n y",
	" indented \nline",
	"tabs\t\t\n\t\t\n\t\tend",
	strings.Repeat("word \r\n", 50),
	strings.Repeat("\n", 1000) + "middle" + strings.Repeat(" \r", 1000),
}

// TestNormalizeIdempotent verifies Normalize(Normalize(x)) == Normalize(x).
func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, input := range normalizeSamples {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize is not idempotent for %q: once=%q twice=%q", input, once, twice)
		}
	}
}

// TestNormalizeInvariants verifies the shape guarantees of normalized text.
func TestNormalizeInvariants(t *testing.T) {
	t.Parallel()

	trailing := regexp.MustCompile(`(?m)[ \t]$`)

	for _, input := range normalizeSamples {
		got := Normalize(input)

		if strings.Contains(got, "\r") {
			t.Errorf("Normalize(%q) contains a carriage return: %q", input, got)
		}
		if trailing.MatchString(got) {
			t.Errorf("Normalize(%q) has a line with trailing whitespace: %q", input, got)
		}
		if strings.Contains(got, "\n\n\n") {
			t.Errorf("Normalize(%q) has three consecutive newlines: %q", input, got)
		}
	}
}
