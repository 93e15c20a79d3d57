package scoredomain

import "time"

// ScorePayload is the wire form of one score in an import request.
type ScorePayload struct {
	EventName        string `json:"eventName"`
	MatchNumber      string `json:"matchNumber"`
	ShooterName      string `json:"shooterName"`
	Club             string `json:"club"`
	CompetitionClass string `json:"competitionClass,omitempty"`
	// Deprecated: Division is the older name of CompetitionClass and is still
	// sent and accepted while clients move over.
	Division  string     `json:"division,omitempty"`
	Veteran   bool       `json:"veteran"`
	Series1   float64    `json:"series1"`
	Series2   float64    `json:"series2"`
	Series3   float64    `json:"series3"`
	Series4   float64    `json:"series4"`
	Series5   float64    `json:"series5"`
	Series6   float64    `json:"series6"`
	Total     float64    `json:"total"`
	Place     int        `json:"place,omitempty"`
	XCount    int        `json:"xCount,omitempty"`
	MatchDate *time.Time `json:"matchDate,omitempty"`
}

// ImportRequest is the body of an import call.
type ImportRequest struct {
	Scores []ScorePayload `json:"scores"`
}

// ImportResponse is the body of a successful import call.
type ImportResponse struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	Imported     int      `json:"imported"`
	Errors       int      `json:"errors"`
	ErrorDetails []string `json:"errorDetails"`
	BatchID      string   `json:"batchId,omitempty"`
}

// PayloadFromRecord maps a record onto its wire form. Validation errors are
// not carried.
func PayloadFromRecord(r ScoreRecord) ScorePayload {
	p := ScorePayload{
		EventName:        r.EventName,
		MatchNumber:      r.MatchNumber,
		ShooterName:      r.ShooterName,
		Club:             r.Club,
		CompetitionClass: r.Class,
		Division:         r.Class,
		Veteran:          r.IsVeteran(),
		Series1:          r.Series[0],
		Series2:          r.Series[1],
		Series3:          r.Series[2],
		Series4:          r.Series[3],
		Series5:          r.Series[4],
		Series6:          r.Series[5],
		Total:            r.Total,
		Place:            r.Place,
		XCount:           r.XCount,
	}
	if !r.MatchDate.IsZero() {
		d := r.MatchDate
		p.MatchDate = &d
	}
	return p
}

// Class returns the competition class, preferring the current field name.
func (p ScorePayload) Class() string {
	if p.CompetitionClass != "" {
		return p.CompetitionClass
	}
	return p.Division
}

// Record converts the payload back into a record. row is the 1-based
// position in the request, or zero.
func (p ScorePayload) Record(row int) ScoreRecord {
	r := ScoreRecord{
		EventName:   p.EventName,
		MatchNumber: p.MatchNumber,
		ShooterName: p.ShooterName,
		Club:        p.Club,
		Class:       p.Class(),
		Veteran:     VeteranFlag(p.Veteran),
		Series:      [SeriesCount]float64{p.Series1, p.Series2, p.Series3, p.Series4, p.Series5, p.Series6},
		Total:       p.Total,
		Place:       p.Place,
		XCount:      p.XCount,
		Row:         row,
	}
	if p.MatchDate != nil {
		r.MatchDate = *p.MatchDate
	}
	return r.Canonical()
}
