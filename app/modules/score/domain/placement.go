package scoredomain

import (
	"sort"
	"strings"
)

type matchKey struct {
	event string
	match string
	class string
}

// PlacementEligible reports whether r takes part in placement: it needs an
// event, match number and class, and a positive total.
func PlacementEligible(r ScoreRecord) bool {
	return strings.TrimSpace(r.EventName) != "" &&
		strings.TrimSpace(r.MatchNumber) != "" &&
		strings.TrimSpace(r.Class) != "" &&
		r.Total > 0
}

// AssignPlaces returns a copy of records with Place recomputed for every
// record. Records are grouped by event, match number and class; within a
// group the highest total places first and equal totals share a place, with
// the next distinct total skipping the shared positions (100, 100, 90 places
// 1, 1, 3). Ineligible records get no place. Input order is preserved.
func AssignPlaces(records []ScoreRecord) []ScoreRecord {
	out := make([]ScoreRecord, len(records))
	groups := make(map[matchKey][]int)
	var order []matchKey

	for i, r := range records {
		out[i] = cloneRecord(r)
		out[i].Place = 0
		if !PlacementEligible(r) {
			continue
		}
		key := matchKey{event: r.EventName, match: r.MatchNumber, class: r.Class}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	for _, key := range order {
		idx := groups[key]
		sort.SliceStable(idx, func(a, b int) bool {
			ra, rb := out[idx[a]], out[idx[b]]
			if ra.Total != rb.Total {
				return ra.Total > rb.Total
			}
			return ra.ShooterName < rb.ShooterName
		})
		for pos, i := range idx {
			if pos > 0 && out[i].Total == out[idx[pos-1]].Total {
				out[i].Place = out[idx[pos-1]].Place
				continue
			}
			out[i].Place = pos + 1
		}
	}

	return out
}
