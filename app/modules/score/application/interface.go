package scoreservice

import (
	"context"

	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	"github.com/satrf/scorekeeper/app/shared/results"
)

// Service defines the score import and review operations.
type Service interface {
	// ImportScores validates and stores a batch of scores.
	ImportScores(ctx context.Context, scores []scoredomain.ScorePayload) (results.OperationResult[ImportOutcome, ImportRejection], error)

	// PreviewUpload reads a spreadsheet and returns its records validated and placed.
	PreviewUpload(ctx context.Context, file UploadFile) (results.OperationResult[UploadPreview, ImportRejection], error)

	ListScores(ctx context.Context, query ListQuery) (*ScorePage, error)
	GetScore(ctx context.Context, id string) (*scoredomain.StoredScore, error)

	// UpdateScore replaces the fields of a stored score after re-validating them.
	UpdateScore(ctx context.Context, id string, score scoredomain.ScorePayload) (results.OperationResult[scoredomain.StoredScore, ValidationFailure], error)

	ApproveScore(ctx context.Context, id string) (*scoredomain.StoredScore, error)
	RejectScore(ctx context.Context, id string) (*scoredomain.StoredScore, error)
	DeleteScore(ctx context.Context, id string) error
}

// EventPublisher publishes domain events as JSON.
type EventPublisher interface {
	PublishJSON(ctx context.Context, topic string, payload any) error
}

var _ Service = (*ScoreService)(nil)
