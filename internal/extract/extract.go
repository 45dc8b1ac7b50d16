// Package extract converts files on disk into plain text for use as AI
// prompt context. Dispatch is by file extension; container formats degrade
// per-page or per-paragraph instead of failing the whole document.
package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat marks an extension the extractor does not handle.
// Callers treat it as "no context available", not as a failure.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Extract reads the file at path and returns its plain-text content.
// Supported extensions (case-insensitive): .txt, .csv, .docx, .pdf.
func Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return extractText(path)
	case ".csv":
		return extractCSV(path)
	case ".docx":
		return extractDocx(path)
	case ".pdf":
		return extractPDF(path)
	default:
		return "", ErrUnsupportedFormat
	}
}

// ContextBlock wraps extracted content with begin/end markers naming its
// source file, ready to prepend to a prompt.
func ContextBlock(path, content string) string {
	base := filepath.Base(path)
	return fmt.Sprintf("--- Context from %s ---\n%s\n--- End of Context ---\n", base, content)
}

// extractText reads the file as UTF-8, dropping undecodable bytes rather
// than failing.
func extractText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// extractCSV re-serializes each row as comma-joined fields, one row per
// line, preserving row order. Rows readable before a parse error are kept.
func extractCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var lines []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Keep the rows that parsed; stop at the first bad one.
			break
		}
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n"), nil
}
