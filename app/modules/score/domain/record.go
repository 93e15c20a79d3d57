package scoredomain

import (
	"strings"
	"time"
)

// ScoreRecord is one shooter's result in one match.
//
// Class is the competition class. It is carried as "competitionClass" on the
// wire; "division" is the older name for the same value.
type ScoreRecord struct {
	EventName   string               `json:"eventName"`
	MatchNumber string               `json:"matchNumber"`
	ShooterName string               `json:"shooterName"`
	Club        string               `json:"club"`
	Class       string               `json:"competitionClass"`
	Veteran     string               `json:"veteran"`
	Series      [SeriesCount]float64 `json:"series"`
	Total       float64              `json:"total"`
	XCount      int                  `json:"xCount,omitempty"`
	MatchDate   time.Time            `json:"matchDate,omitempty"`

	// Place is the 1-based finishing position within the record's match
	// group. Zero means the record has no place.
	Place int `json:"place,omitempty"`

	// Row is the 1-based data row the record was read from. Zero for records
	// entered by hand.
	Row int `json:"row,omitempty"`

	Errors []string `json:"errors"`
}

// Valid reports whether the record passed validation.
func (r ScoreRecord) Valid() bool {
	return len(r.Errors) == 0
}

// IsVeteran reports whether the veteran flag is set. Case is ignored.
func (r ScoreRecord) IsVeteran() bool {
	return strings.EqualFold(strings.TrimSpace(r.Veteran), VeteranYes)
}

// SeriesSum returns the plain sum of the six series.
func (r ScoreRecord) SeriesSum() float64 {
	var sum float64
	for _, s := range r.Series {
		sum += s
	}
	return sum
}

// Canonical returns a copy with surrounding whitespace trimmed from the text
// fields and the veteran flag upper-cased.
func (r ScoreRecord) Canonical() ScoreRecord {
	r.EventName = strings.TrimSpace(r.EventName)
	r.MatchNumber = strings.TrimSpace(r.MatchNumber)
	r.ShooterName = strings.TrimSpace(r.ShooterName)
	r.Club = strings.TrimSpace(r.Club)
	r.Class = strings.TrimSpace(r.Class)
	r.Veteran = strings.ToUpper(strings.TrimSpace(r.Veteran))
	return r
}

// VeteranFlag converts a boolean into the stored veteran flag.
func VeteranFlag(v bool) string {
	if v {
		return VeteranYes
	}
	return VeteranNo
}

func cloneRecord(r ScoreRecord) ScoreRecord {
	if r.Errors != nil {
		r.Errors = append([]string(nil), r.Errors...)
	}
	return r
}
