package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/id01t/smarttask-ai/pkg/transcript"
)

const (
	pdfFontSize   = 12
	pdfLineHeight = 10
)

// writePDF lays the transcript out as wrapped multi-line cells. With a
// configured TTF font the text is written as UTF-8; otherwise a core font
// is used and the content is translated to its codepage, which covers
// common Latin accents but not arbitrary scripts.
func (e *Exporter) writePDF(tr *transcript.Transcript, path string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()

	content := tr.PlainText()
	if e.FontPath != "" {
		doc.AddUTF8Font("unicode", "", e.FontPath)
		doc.SetFont("unicode", "", pdfFontSize)
	} else {
		doc.SetFont("Helvetica", "", pdfFontSize)
		translate := doc.UnicodeTranslatorFromDescriptor("")
		content = translate(content)
	}

	doc.MultiCell(0, pdfLineHeight, content, "", "L", false)

	if err := doc.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf document: %w", err)
	}
	return nil
}
