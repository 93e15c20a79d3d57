package scoredomain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation messages.
const (
	MsgInvalidEvent    = "Invalid or missing event name"
	MsgMissingMatch    = "Missing match number"
	MsgMissingShooter  = "Missing shooter name"
	MsgMissingClub     = "Missing club"
	MsgInvalidClass    = "Invalid or missing division/class"
	MsgInvalidVeteran  = "Veteran must be Y or N"
	MsgTotalMismatch   = "Total score doesn't match sum of series"
	seriesRangeMessage = "Series %d score must be between 0 and 109"
)

var totalTolerance = decimal.NewFromFloat(TotalTolerance)

// SeriesRangeMessage returns the message reported for an out-of-range series.
// n is 1-based.
func SeriesRangeMessage(n int) string {
	return fmt.Sprintf(seriesRangeMessage, n)
}

// Validate checks a record against every rule and returns the failures in
// rule order. An empty result means the record is valid.
func Validate(r ScoreRecord) []string {
	var errs []string

	event := strings.TrimSpace(r.EventName)
	if event == "" || len(event) > MaxEventNameLength || !IsKnownEvent(event) {
		errs = append(errs, MsgInvalidEvent)
	}
	if strings.TrimSpace(r.MatchNumber) == "" {
		errs = append(errs, MsgMissingMatch)
	}
	if strings.TrimSpace(r.ShooterName) == "" {
		errs = append(errs, MsgMissingShooter)
	}
	if strings.TrimSpace(r.Club) == "" {
		errs = append(errs, MsgMissingClub)
	}
	if class := strings.TrimSpace(r.Class); class == "" || !IsCompetitionClass(class) {
		errs = append(errs, MsgInvalidClass)
	}
	if v := strings.ToUpper(strings.TrimSpace(r.Veteran)); v != VeteranYes && v != VeteranNo {
		errs = append(errs, MsgInvalidVeteran)
	}
	for i, s := range r.Series {
		if !finite(s) || s < MinSeriesScore || s > MaxSeriesScore {
			errs = append(errs, SeriesRangeMessage(i+1))
		}
	}
	if !totalMatches(r) {
		errs = append(errs, MsgTotalMismatch)
	}

	return errs
}

// ValidateRecord returns a copy of r with Errors replaced by the result of
// Validate. Records read from a file get a "Row N: " prefix on each message.
func ValidateRecord(r ScoreRecord) ScoreRecord {
	errs := Validate(r)
	if r.Row > 0 {
		for i, msg := range errs {
			errs[i] = RowMessage(r.Row, msg)
		}
	}
	if errs == nil {
		errs = []string{}
	}
	r.Errors = errs
	return r
}

// RowMessage prefixes msg with the data row it belongs to.
func RowMessage(row int, msg string) string {
	return fmt.Sprintf("Row %d: %s", row, msg)
}

// totalMatches compares in decimal so 0.1 steps do not drift.
func totalMatches(r ScoreRecord) bool {
	if !finite(r.Total) {
		return false
	}
	sum := decimal.Zero
	for _, s := range r.Series {
		if !finite(s) {
			return false
		}
		sum = sum.Add(decimal.NewFromFloat(s))
	}
	diff := sum.Sub(decimal.NewFromFloat(r.Total)).Abs()
	return diff.LessThanOrEqual(totalTolerance)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
