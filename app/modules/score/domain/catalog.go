package scoredomain

// SeriesCount is the number of series in one match.
const SeriesCount = 6

const (
	// MinSeriesScore and MaxSeriesScore bound a single series score, inclusive.
	MinSeriesScore = 0.0
	MaxSeriesScore = 109.0

	// TotalTolerance is the largest accepted gap between a total and the sum of its series.
	TotalTolerance = 0.1

	// MaxEventNameLength bounds event names typed by hand.
	MaxEventNameLength = 200
)

// Veteran flag values.
const (
	VeteranYes = "Y"
	VeteranNo  = "N"
)

// KnownEvents lists the event names a score may be recorded against.
var KnownEvents = []string{
	"Prone Match 1",
	"Prone Match 2",
	"3P",
	"Air Rifle",
}

// CompetitionClasses lists the classes a shooter may compete in.
var CompetitionClasses = []string{
	"Prone A class",
	"Prone B class",
	"Prone C class",
	"3P",
	"F-Class",
	"H-class",
}

// IsKnownEvent reports whether name is one of KnownEvents.
func IsKnownEvent(name string) bool {
	return contains(KnownEvents, name)
}

// IsCompetitionClass reports whether class is one of CompetitionClasses.
func IsCompetitionClass(class string) bool {
	return contains(CompetitionClasses, class)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
