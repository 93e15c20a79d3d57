package scorehandlers

import (
	"context"

	scoreservice "github.com/satrf/scorekeeper/app/modules/score/application"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	"github.com/satrf/scorekeeper/app/shared/results"
)

// FakeService is a programmable stub for scoreservice.Service.
type FakeService struct {
	ImportScoresFunc  func(ctx context.Context, scores []scoredomain.ScorePayload) (results.OperationResult[scoreservice.ImportOutcome, scoreservice.ImportRejection], error)
	PreviewUploadFunc func(ctx context.Context, file scoreservice.UploadFile) (results.OperationResult[scoreservice.UploadPreview, scoreservice.ImportRejection], error)
	ListScoresFunc    func(ctx context.Context, query scoreservice.ListQuery) (*scoreservice.ScorePage, error)
	GetScoreFunc      func(ctx context.Context, id string) (*scoredomain.StoredScore, error)
	UpdateScoreFunc   func(ctx context.Context, id string, score scoredomain.ScorePayload) (results.OperationResult[scoredomain.StoredScore, scoreservice.ValidationFailure], error)
	ApproveScoreFunc  func(ctx context.Context, id string) (*scoredomain.StoredScore, error)
	RejectScoreFunc   func(ctx context.Context, id string) (*scoredomain.StoredScore, error)
	DeleteScoreFunc   func(ctx context.Context, id string) error
}

func (f *FakeService) ImportScores(ctx context.Context, scores []scoredomain.ScorePayload) (results.OperationResult[scoreservice.ImportOutcome, scoreservice.ImportRejection], error) {
	return f.ImportScoresFunc(ctx, scores)
}

func (f *FakeService) PreviewUpload(ctx context.Context, file scoreservice.UploadFile) (results.OperationResult[scoreservice.UploadPreview, scoreservice.ImportRejection], error) {
	return f.PreviewUploadFunc(ctx, file)
}

func (f *FakeService) ListScores(ctx context.Context, query scoreservice.ListQuery) (*scoreservice.ScorePage, error) {
	return f.ListScoresFunc(ctx, query)
}

func (f *FakeService) GetScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	return f.GetScoreFunc(ctx, id)
}

func (f *FakeService) UpdateScore(ctx context.Context, id string, score scoredomain.ScorePayload) (results.OperationResult[scoredomain.StoredScore, scoreservice.ValidationFailure], error) {
	return f.UpdateScoreFunc(ctx, id, score)
}

func (f *FakeService) ApproveScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	return f.ApproveScoreFunc(ctx, id)
}

func (f *FakeService) RejectScore(ctx context.Context, id string) (*scoredomain.StoredScore, error) {
	return f.RejectScoreFunc(ctx, id)
}

func (f *FakeService) DeleteScore(ctx context.Context, id string) error {
	return f.DeleteScoreFunc(ctx, id)
}

var _ scoreservice.Service = (*FakeService)(nil)
