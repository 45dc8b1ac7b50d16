package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/id01t/smarttask-ai/pkg/transcript"
)

func fullTranscript() *transcript.Transcript {
	tr := transcript.New()
	tr.Append("You", "What is the capital of France?")
	tr.Append("OpenAI", "The capital of France is Paris.")
	return tr
}

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		input     string
		expected  Format
		shouldErr bool
	}{
		{"md", FormatMarkdown, false},
		{"Markdown", FormatMarkdown, false},
		{"docx", FormatDocx, false},
		{"word", FormatDocx, false},
		{"PDF", FormatPDF, false},
		{"html", "", true},
		{"", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseFormat(tc.input)
		if tc.shouldErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tc.input, err)
			continue
		}
		if got != tc.expected {
			t.Errorf("ParseFormat(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}

func TestExportRefusesEmptyTranscript(t *testing.T) {
	formats := []Format{FormatMarkdown, FormatDocx, FormatPDF}
	exporter := New()

	for _, format := range formats {
		t.Run(string(format), func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "out."+string(format))

			empty := transcript.New()
			empty.Append("You", "   ")

			err := exporter.Export(empty, format, dest)
			if !errors.Is(err, ErrEmptyTranscript) {
				t.Fatalf("Export() error = %v, expected ErrEmptyTranscript", err)
			}
			if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
				t.Error("expected no file to be written for an empty transcript")
			}
		})
	}
}

func TestExportMarkdown(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chat.md")
	exporter := New()

	if err := exporter.Export(fullTranscript(), FormatMarkdown, dest); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	expected := "You: What is the capital of France?\nOpenAI: The capital of France is Paris."
	if string(data) != expected {
		t.Errorf("exported markdown = %q, expected %q", string(data), expected)
	}
}

func TestExportMarkdownLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "chat.md")
	exporter := New()

	if err := exporter.Export(fullTranscript(), FormatMarkdown, dest); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", entry.Name())
		}
	}
}

func TestExportDocxWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chat.docx")
	exporter := New()

	if err := exporter.Export(fullTranscript(), FormatDocx, dest); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat exported file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("exported docx is empty")
	}
}

func TestExportPDFWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chat.pdf")
	exporter := New()

	if err := exporter.Export(fullTranscript(), FormatPDF, dest); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read exported file: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Error("exported file does not start with a PDF header")
	}
}

func TestExportPDFBadFontPathFails(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chat.pdf")
	exporter := New()
	exporter.FontPath = filepath.Join(t.TempDir(), "missing.ttf")

	err := exporter.Export(fullTranscript(), FormatPDF, dest)
	if err == nil {
		t.Fatal("expected an error for a missing font file")
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Error("expected no file at the destination after a failed export")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "chat.xyz")
	exporter := New()

	if err := exporter.Export(fullTranscript(), Format("xyz"), dest); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
