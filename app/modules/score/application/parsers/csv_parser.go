package parsers

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// CSVParser parses comma or tab separated score sheets.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses CSV data into a Sheet.
func (p *CSVParser) Parse(data []byte) (*Sheet, error) {
	if len(data) == 0 {
		return nil, ErrTooFewRows
	}

	cleaned, delimiter := preprocessCSVData(data)

	reader := csv.NewReader(strings.NewReader(cleaned))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return buildSheet(records)
}
