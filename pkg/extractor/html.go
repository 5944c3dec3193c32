package extractor

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	var lines []string

	// goquery matches in document order, so paragraphs and tables come out
	// interleaved exactly as they appear in the body.
	doc.Find("body p, body table").Each(func(_ int, sel *goquery.Selection) {
		if goquery.NodeName(sel) == "table" {
			sel.Find("tr").Each(func(_ int, row *goquery.Selection) {
				var cells []string
				row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
					cells = append(cells, cleanLine(cell.Text()))
				})
				if line := joinRow(cells); line != "" {
					lines = append(lines, line)
				}
			})
			return
		}

		// Paragraphs inside table cells are already covered by the row pass.
		if sel.ParentsFiltered("table").Length() > 0 {
			return
		}
		if text := cleanLine(sel.Text()); text != "" {
			lines = append(lines, text)
		}
	})

	return strings.Join(lines, "\n"), nil
}
