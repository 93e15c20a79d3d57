package parsers

import (
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFile is returned for anything that is not a spreadsheet or CSV file.
	ErrUnsupportedFile = errors.New("Please upload an Excel (.xlsx, .xls) or CSV file")

	// ErrTooFewRows is returned when a file has no data row under its header.
	ErrTooFewRows = errors.New("File must contain at least a header row and one data row")
)

// Sheet is the raw cell grid of an uploaded file: a header row and the data
// rows beneath it.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Parser turns file bytes into a Sheet.
type Parser interface {
	Parse(data []byte) (*Sheet, error)
}

// ParserFactory picks a Parser for an uploaded file.
type ParserFactory interface {
	GetParser(filename, contentType string) (Parser, error)
}

// Factory creates the appropriate parser from the file extension, falling
// back to the declared content type.
type Factory struct{}

// NewFactory creates a new parser factory
func NewFactory() *Factory {
	return &Factory{}
}

var spreadsheetTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
}

// GetParser returns the parser for filename or contentType.
func (f *Factory) GetParser(filename, contentType string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx", ".xls":
		return NewXLSXParser(), nil
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, ErrUnsupportedFile
	}
	switch {
	case spreadsheetTypes[mediaType]:
		return NewXLSXParser(), nil
	case mediaType == "text/csv":
		return NewCSVParser(), nil
	default:
		return nil, ErrUnsupportedFile
	}
}
