package export

import (
	"fmt"

	"github.com/gomutex/godocx"

	"github.com/id01t/smarttask-ai/pkg/transcript"
)

// writeDocx renders each transcript entry as one paragraph, in order.
func (e *Exporter) writeDocx(tr *transcript.Transcript, path string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx document: %w", err)
	}

	for _, entry := range tr.Entries() {
		doc.AddParagraph(fmt.Sprintf("%s: %s", entry.Speaker, entry.Text))
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx document: %w", err)
	}
	return nil
}
