// Package export writes a session transcript to disk in one of the
// supported document formats. Writes go to a temporary file that is
// renamed into place on success, so a failed export never leaves a
// half-written document at the destination.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/id01t/smarttask-ai/pkg/logger"
	"github.com/id01t/smarttask-ai/pkg/transcript"
)

// Format identifies a transcript export target.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatDocx     Format = "docx"
	FormatPDF      Format = "pdf"
)

// ErrEmptyTranscript is returned when the transcript holds no
// non-whitespace content; nothing is written in that case.
var ErrEmptyTranscript = fmt.Errorf("transcript has no content to export")

// ParseFormat maps a user-facing format selector onto a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "docx", "word":
		return FormatDocx, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Exporter renders transcripts to files. FontPath optionally names a TTF
// file used for Unicode PDF output; without it PDF export falls back to a
// core font with codepage translation.
type Exporter struct {
	FontPath string

	logger *logger.Logger
}

// New creates an exporter.
func New() *Exporter {
	return &Exporter{logger: logger.NewComponentLogger("export")}
}

// Export writes the transcript to destPath in the given format. An empty
// or whitespace-only transcript is refused before any file is touched.
func (e *Exporter) Export(tr *transcript.Transcript, format Format, destPath string) error {
	if !tr.HasContent() {
		return ErrEmptyTranscript
	}

	tmpPath := destPath + ".tmp"
	var err error
	switch format {
	case FormatMarkdown:
		err = e.writeMarkdown(tr, tmpPath)
	case FormatDocx:
		err = e.writeDocx(tr, tmpPath)
	case FormatPDF:
		err = e.writePDF(tr, tmpPath)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrapf(err, "export %s", format)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		_ = os.Remove(tmpPath)
		return errors.Wrap(err, "finalize export")
	}
	e.logger.Info("transcript exported", "format", string(format), "path", destPath)
	return nil
}

// writeMarkdown writes the transcript text verbatim.
func (e *Exporter) writeMarkdown(tr *transcript.Transcript, path string) error {
	return os.WriteFile(path, []byte(tr.PlainText()), 0644)
}
