package scoreservice

import (
	"context"
	"errors"

	"github.com/satrf/scorekeeper/app/events"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/satrf/scorekeeper/app/shared/results"
	"github.com/uptrace/bun"
)

// ListScores returns one page of stored scores, newest first.
func (s *ScoreService) ListScores(ctx context.Context, query ListQuery) (*ScorePage, error) {
	if query.Status != "" && !scoredomain.Status(query.Status).IsValid() {
		return nil, ErrInvalidStatus
	}
	page := max(query.Page, 1)
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	rows, total, err := s.repo.List(ctx, nil, scoredb.ListFilter{
		Status:    query.Status,
		EventName: query.EventName,
		Class:     query.Class,
		Limit:     limit,
		Offset:    (page - 1) * limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]scoredomain.StoredScore, 0, len(rows))
	for i := range rows {
		data = append(data, storedFromModel(&rows[i]))
	}
	return &ScorePage{
		Data:       data,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
	}, nil
}

// GetScore retrieves one stored score.
func (s *ScoreService) GetScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	scoreID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m, err := s.repo.GetByID(ctx, nil, scoreID)
	if err != nil {
		return nil, notFound(err)
	}
	stored := storedFromModel(m)
	return &stored, nil
}

type updateResult = results.OperationResult[scoredomain.StoredScore, ValidationFailure]

// UpdateScore replaces every editable field of a stored score. The status
// is left as it was.
func (s *ScoreService) UpdateScore(ctx context.Context, id string, score scoredomain.ScorePayload) (updateResult, error) {
	return withTelemetry(s, ctx, "UpdateScore", id, func(ctx context.Context) (updateResult, error) {
		scoreID, err := parseID(id)
		if err != nil {
			return updateResult{}, err
		}

		rec := score.Record(0)
		if errs := scoredomain.Validate(rec); len(errs) > 0 {
			return results.FailureResult[scoredomain.StoredScore](ValidationFailure{Errors: errs}), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (updateResult, error) {
			m, err := s.repo.GetByID(ctx, db, scoreID)
			if err != nil {
				return updateResult{}, notFound(err)
			}
			applyRecord(m, rec)
			if err := s.repo.Update(ctx, db, m); err != nil {
				return updateResult{}, notFound(err)
			}
			return results.SuccessResult[scoredomain.StoredScore, ValidationFailure](storedFromModel(m)), nil
		})
		if err != nil {
			return updateResult{}, err
		}

		s.publishChange(ctx, scoreID.String(), events.ChangeUpdated)
		return result, nil
	})
}

// ApproveScore marks a score approved so it counts towards leaderboards.
func (s *ScoreService) ApproveScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	return s.setStatus(ctx, "ApproveScore", id, scoredomain.StatusApproved, events.ChangeApproved)
}

// RejectScore marks a score rejected.
func (s *ScoreService) RejectScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	return s.setStatus(ctx, "RejectScore", id, scoredomain.StatusRejected, events.ChangeRejected)
}

type statusResult = results.OperationResult[scoredomain.StoredScore, struct{}]

func (s *ScoreService) setStatus(ctx context.Context, op, id string, status scoredomain.Status, change string) (*scoredomain.StoredScore, error) {
	result, err := withTelemetry(s, ctx, op, id, func(ctx context.Context) (statusResult, error) {
		scoreID, err := parseID(id)
		if err != nil {
			return statusResult{}, err
		}
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (statusResult, error) {
			if err := s.repo.UpdateStatus(ctx, db, scoreID, string(status)); err != nil {
				return statusResult{}, notFound(err)
			}
			m, err := s.repo.GetByID(ctx, db, scoreID)
			if err != nil {
				return statusResult{}, notFound(err)
			}
			return results.SuccessResult[scoredomain.StoredScore, struct{}](storedFromModel(m)), nil
		})
		if err != nil {
			return statusResult{}, err
		}
		s.publishChange(ctx, scoreID.String(), change)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return result.Success, nil
}

// DeleteScore removes a stored score.
func (s *ScoreService) DeleteScore(ctx context.Context, id string) error {
	_, err := withTelemetry(s, ctx, "DeleteScore", id, func(ctx context.Context) (results.OperationResult[struct{}, struct{}], error) {
		scoreID, err := parseID(id)
		if err != nil {
			return results.OperationResult[struct{}, struct{}]{}, err
		}
		if err := s.repo.Delete(ctx, nil, scoreID); err != nil {
			return results.OperationResult[struct{}, struct{}]{}, notFound(err)
		}
		s.publishChange(ctx, scoreID.String(), events.ChangeDeleted)
		return results.SuccessResult[struct{}, struct{}](struct{}{}), nil
	})
	return err
}

func (s *ScoreService) publishChange(ctx context.Context, id, change string) {
	s.publish(ctx, events.ScoreStatusChangedV1, events.ScoreStatusChangedPayloadV1{
		ScoreID:   id,
		Change:    change,
		ChangedAt: nowUTC(s.now),
	})
}

// IsNotFound reports whether err means the score does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrScoreNotFound)
}
