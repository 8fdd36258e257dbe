package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestFormatterWithColor(t *testing.T) {
	os.Unsetenv("NO_COLOR")
	color.NoColor = false
	defer func() { color.NoColor = true }()

	result := Code.Sprint("giournal --sync")
	if strings.Contains(result, "`") {
		t.Errorf("Code.Sprint should not contain backticks when color is enabled, got: %s", result)
	}
	if !strings.Contains(result, "\x1b[") {
		t.Errorf("Code.Sprint should contain ANSI escape codes when color is enabled, got: %s", result)
	}
}

func TestFormatterWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name      string
		formatter Formatter
		input     string
		want      string
	}{
		{"Code adds backticks", Code, "giournal --list", "`giournal --list`"},
		{"Path has no decoration", Path, "~/journal", "~/journal"},
		{"Entry adds quotes", Entry, "2026-10-15_09-00-00.000000.md", "'2026-10-15_09-00-00.000000.md'"},
		{"Success has no decoration", Success, "✓", "✓"},
		{"Error has no decoration", Error, "✗", "✗"},
		{"Muted adds parentheses", Muted, "offline", "(offline)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.formatter.Sprint(tt.input)
			if got != tt.want {
				t.Errorf("%s.Sprint(%q) = %q, want %q", tt.name, tt.input, got, tt.want)
			}
		})
	}
}

func TestLinesWithNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if got := SuccessLine("done"); got != "✓ done" {
		t.Errorf("SuccessLine = %q", got)
	}
	if got := ErrorLine("failed"); got != "✗ failed" {
		t.Errorf("ErrorLine = %q", got)
	}
	if got := HintLine("run sync"); got != "→ run sync" {
		t.Errorf("HintLine = %q", got)
	}
}

func TestEnsureNewline(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "\n"},
		{"hello", "hello\n"},
		{"hello\n", "hello\n"},
	}
	for _, tt := range tests {
		if got := EnsureNewline(tt.input); got != tt.want {
			t.Errorf("EnsureNewline(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestTableRendersRows(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	Table(&buf, []string{"Entry", "Form"}, [][]string{
		{"2026-10-15_09-00-00.000000.md", "encrypted"},
		{"2026-10-16_09-00-00.000000.md", "plaintext"},
	})

	out := buf.String()
	for _, want := range []string{"ENTRY", "FORM", "encrypted", "plaintext"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
}

func TestBannerWritesArt(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	Banner(&buf)
	if strings.Count(buf.String(), "\n") < 3 {
		t.Errorf("Expected multi-line banner, got %q", buf.String())
	}
}
