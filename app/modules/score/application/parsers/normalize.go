package parsers

import (
	"strings"

	"github.com/araddon/dateparse"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
)

type field int

const (
	fieldEventName field = iota
	fieldMatchNumber
	fieldShooterName
	fieldClub
	fieldClass
	fieldVeteran
	fieldSeries1
	fieldSeries2
	fieldSeries3
	fieldSeries4
	fieldSeries5
	fieldSeries6
	fieldTotal
	fieldPlace
	fieldXCount
	fieldMatchDate
)

// columnAliases maps normalised header text to record fields.
var columnAliases = map[string]field{
	"eventname":        fieldEventName,
	"matchnumber":      fieldMatchNumber,
	"shootername":      fieldShooterName,
	"club":             fieldClub,
	"division":         fieldClass,
	"divisionclass":    fieldClass,
	"class":            fieldClass,
	"competitionclass": fieldClass,
	"veteran":          fieldVeteran,
	"series1":          fieldSeries1,
	"series2":          fieldSeries2,
	"series3":          fieldSeries3,
	"series4":          fieldSeries4,
	"series5":          fieldSeries5,
	"series6":          fieldSeries6,
	"total":            fieldTotal,
	"place":            fieldPlace,
	"xcount":           fieldXCount,
	"x":                fieldXCount,
	"date":             fieldMatchDate,
	"matchdate":        fieldMatchDate,
}

// NormalizeRow maps one data row onto a ScoreRecord using the header row.
// Unrecognised columns are ignored, missing cells read as empty and numbers
// that do not parse become zero. It never fails.
func NormalizeRow(header, row []string) scoredomain.ScoreRecord {
	var rec scoredomain.ScoreRecord

	for i, h := range header {
		f, ok := columnAliases[headerKey(h)]
		if !ok {
			continue
		}
		var cell string
		if i < len(row) {
			cell = strings.TrimSpace(row[i])
		}

		switch f {
		case fieldEventName:
			rec.EventName = cell
		case fieldMatchNumber:
			rec.MatchNumber = cell
		case fieldShooterName:
			rec.ShooterName = cell
		case fieldClub:
			rec.Club = cell
		case fieldClass:
			rec.Class = cell
		case fieldVeteran:
			rec.Veteran = strings.ToUpper(cell)
		case fieldSeries1, fieldSeries2, fieldSeries3, fieldSeries4, fieldSeries5, fieldSeries6:
			rec.Series[f-fieldSeries1] = parseNumber(cell)
		case fieldTotal:
			rec.Total = parseNumber(cell)
		case fieldPlace:
			rec.Place = parseCount(cell)
		case fieldXCount:
			rec.XCount = parseCount(cell)
		case fieldMatchDate:
			if cell == "" {
				continue
			}
			if t, err := dateparse.ParseAny(cell); err == nil {
				rec.MatchDate = t
			}
		}
	}

	return rec
}

// NormalizeSheet normalises every data row. Row numbers are 1-based
// positions among the data rows.
func NormalizeSheet(sheet *Sheet) []scoredomain.ScoreRecord {
	records := make([]scoredomain.ScoreRecord, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		rec := NormalizeRow(sheet.Header, row)
		rec.Row = i + 1
		records = append(records, rec)
	}
	return records
}

// ReadFile parses an uploaded file and returns its records validated and
// placed, ready for review.
func ReadFile(factory ParserFactory, filename, contentType string, data []byte) (*scoredomain.Batch, error) {
	parser, err := factory.GetParser(filename, contentType)
	if err != nil {
		return nil, err
	}
	sheet, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	return scoredomain.NewBatch(NormalizeSheet(sheet)...), nil
}
