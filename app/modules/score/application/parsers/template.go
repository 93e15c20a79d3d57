package parsers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateHeader is the header row of the downloadable score template.
var TemplateHeader = []string{
	"Event Name", "Match Number", "Shooter Name", "Club", "Division/Class", "Veteran",
	"Series 1", "Series 2", "Series 3", "Series 4", "Series 5", "Series 6",
	"Total", "Place",
}

var templateExample = []interface{}{
	"Prone Match 1", "1", "John Doe", "Pretoria Rifle Club", "Prone A class", "N",
	104.5, 103.2, 105.1, 104.8, 103.9, 104.2,
	625.7, 1,
}

const templateSheet = "Scores"

// WriteTemplate writes an Excel workbook with the template header and one
// example row.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("failed to name template sheet: %w", err)
	}

	header := make([]interface{}, len(TemplateHeader))
	for i, h := range TemplateHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}
	example := append([]interface{}(nil), templateExample...)
	if err := f.SetSheetRow(templateSheet, "A2", &example); err != nil {
		return fmt.Errorf("failed to write template example: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
