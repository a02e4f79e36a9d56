package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles claim-system CSV exports. The first row holds field
// labels; every following row becomes a page of "label: value" lines so
// the labeled field rules apply unchanged.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	doc := &Document{Title: trimExt(filename)}
	if len(records) == 0 {
		return doc, nil
	}

	headers := records[0]
	for _, row := range records[1:] {
		var text strings.Builder
		for j, cell := range row {
			if j >= len(headers) {
				break
			}
			text.WriteString(headers[j] + ": " + cell + "\n")
		}
		doc.Pages = append(doc.Pages, strings.TrimSuffix(text.String(), "\n"))
	}
	return doc, nil
}
