package scoreservice

import (
	"errors"
	"time"

	"github.com/google/uuid"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
)

func modelFromRecord(r scoredomain.ScoreRecord, batchID string, status scoredomain.Status) *scoredb.Score {
	m := &scoredb.Score{
		BatchID: batchID,
		Status:  string(status),
	}
	applyRecord(m, r)
	return m
}

// applyRecord copies the editable fields of r onto m.
func applyRecord(m *scoredb.Score, r scoredomain.ScoreRecord) {
	m.EventName = r.EventName
	m.MatchNumber = r.MatchNumber
	m.ShooterName = r.ShooterName
	m.Club = r.Club
	m.CompetitionClass = r.Class
	m.Veteran = r.IsVeteran()
	m.Series1, m.Series2, m.Series3 = r.Series[0], r.Series[1], r.Series[2]
	m.Series4, m.Series5, m.Series6 = r.Series[3], r.Series[4], r.Series[5]
	m.Total = r.Total
	m.XCount = r.XCount

	m.Place = nil
	if r.Place > 0 {
		place := r.Place
		m.Place = &place
	}
	m.MatchDate = nil
	if !r.MatchDate.IsZero() {
		d := r.MatchDate.UTC()
		m.MatchDate = &d
	}
}

func storedFromModel(m *scoredb.Score) scoredomain.StoredScore {
	p := scoredomain.ScorePayload{
		EventName:        m.EventName,
		MatchNumber:      m.MatchNumber,
		ShooterName:      m.ShooterName,
		Club:             m.Club,
		CompetitionClass: m.CompetitionClass,
		Division:         m.CompetitionClass,
		Veteran:          m.Veteran,
		Series1:          m.Series1,
		Series2:          m.Series2,
		Series3:          m.Series3,
		Series4:          m.Series4,
		Series5:          m.Series5,
		Series6:          m.Series6,
		Total:            m.Total,
		XCount:           m.XCount,
	}
	if m.Place != nil {
		p.Place = *m.Place
	}
	if m.MatchDate != nil {
		d := *m.MatchDate
		p.MatchDate = &d
	}
	return scoredomain.StoredScore{
		ID:           m.ID.String(),
		BatchID:      m.BatchID,
		Status:       scoredomain.Status(m.Status),
		ScorePayload: p,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidScoreID
	}
	return parsed, nil
}

// notFound maps repository misses onto ErrScoreNotFound.
func notFound(err error) error {
	if errors.Is(err, scoredb.ErrNotFound) || errors.Is(err, scoredb.ErrNoRowsAffected) {
		return ErrScoreNotFound
	}
	return err
}

func nowUTC(now func() time.Time) time.Time {
	return now().UTC()
}
