package parsers

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// preprocessCSVData strips a UTF-8 BOM, normalises line endings and picks
// the delimiter (comma or tab) that appears most in the first lines.
func preprocessCSVData(data []byte) (string, rune) {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	lines := strings.Split(cleaned, "\n")
	sampleSize := min(5, len(lines))

	commaCount, tabCount := 0, 0
	for i := 0; i < sampleSize; i++ {
		commaCount += strings.Count(lines[i], ",")
		tabCount += strings.Count(lines[i], "\t")
	}

	delimiter := ','
	if tabCount > commaCount {
		delimiter = '\t'
	}

	return cleaned, delimiter
}

// buildSheet splits rows into header and data, dropping fully blank rows.
func buildSheet(rows [][]string) (*Sheet, error) {
	var kept [][]string
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		kept = append(kept, row)
	}
	if len(kept) < 2 {
		return nil, ErrTooFewRows
	}
	return &Sheet{Header: kept[0], Rows: kept[1:]}, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// headerKey lower-cases a header and removes whitespace and slashes, so
// "Division / Class" and "divisionclass" match.
func headerKey(h string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(h) {
		if r == '/' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// parseNumber returns 0 for anything that is not a finite number.
func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseCount(s string) int {
	f := parseNumber(s)
	if f < 0 {
		return 0
	}
	return int(f)
}
