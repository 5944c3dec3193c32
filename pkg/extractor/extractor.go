package extractor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrExtraction marks a document that could not be parsed. The upload is
// rejected and the store is left untouched.
var ErrExtraction = errors.New("document extraction failed")

type Extractor struct{}

func New() Extractor {
	return Extractor{}
}

// Extract converts a runbook file into plain text: one line per paragraph
// and one line per table row (cells joined with " | "), in body order.
// Lines that are empty after trimming are skipped. A readable file with no
// extractable text yields an empty string, not an error.
func (e Extractor) Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return extractHTML(path)
	case ".docx":
		return extractDOCX(path)
	case ".pdf":
		return extractPDF(path)
	case ".txt", ".md":
		return extractPlain(path)
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrExtraction, filepath.Ext(path))
	}
}

func extractPlain(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if text := cleanLine(line); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// cleanLine collapses runs of whitespace and trims the result.
func cleanLine(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// joinRow flattens one table row. Returns "" when every cell is empty so
// the caller can skip the row.
func joinRow(cells []string) string {
	empty := true
	for _, cell := range cells {
		if cell != "" {
			empty = false
			break
		}
	}
	if empty {
		return ""
	}
	return strings.Join(cells, " | ")
}
