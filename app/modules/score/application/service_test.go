package scoreservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/satrf/scorekeeper/app/events"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo *FakeScoreRepository, pub *FakePublisher, opts ...Option) *ScoreService {
	s := NewScoreService(repo, pub, testLogger(), nil, nil, nil, opts...)
	s.now = func() time.Time { return time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func validPayload(name string, total float64) scoredomain.ScorePayload {
	each := total / 6
	return scoredomain.ScorePayload{
		EventName:        "Prone Match 1",
		MatchNumber:      "1",
		ShooterName:      name,
		Club:             "Pretoria RC",
		CompetitionClass: "Prone A class",
		Series1:          each,
		Series2:          each,
		Series3:          each,
		Series4:          each,
		Series5:          each,
		Series6:          each,
		Total:            total,
	}
}

func TestScoreService_ImportScores(t *testing.T) {
	invalid := validPayload("Bad", 600)
	invalid.EventName = "Open"
	invalid.Club = ""

	tests := []struct {
		name          string
		scores        []scoredomain.ScorePayload
		requireReview bool
		setup         func(repo *FakeScoreRepository)
		wantErr       bool
		wantFailure   *ImportRejection
		verify        func(t *testing.T, out ImportOutcome, repo *FakeScoreRepository, pub *FakePublisher)
	}{
		{
			name:        "empty request",
			scores:      nil,
			wantFailure: &ImportRejection{Error: MsgNoScoresProvided},
		},
		{
			name:   "nothing valid",
			scores: []scoredomain.ScorePayload{invalid},
			wantFailure: &ImportRejection{
				Error:   MsgNoValidScores,
				Details: []string{"Row 1: Invalid or missing event name, Missing club"},
			},
		},
		{
			name:   "partial import places valid rows",
			scores: []scoredomain.ScorePayload{validPayload("Alice", 600), invalid, validPayload("Bob", 612)},
			verify: func(t *testing.T, out ImportOutcome, repo *FakeScoreRepository, pub *FakePublisher) {
				assert.Equal(t, 2, out.Imported)
				assert.Equal(t, 1, out.Rejected)
				assert.Equal(t, "Successfully imported 2 scores", out.Message)
				assert.Equal(t, []string{"Row 2: Invalid or missing event name, Missing club"}, out.ErrorDetails)
				assert.Equal(t, scoredomain.StatusApproved, out.Status)
				assert.NotEmpty(t, out.BatchID)

				require.Len(t, repo.Inserted, 2)
				assert.Equal(t, "Alice", repo.Inserted[0].ShooterName)
				require.NotNil(t, repo.Inserted[0].Place)
				assert.Equal(t, 2, *repo.Inserted[0].Place)
				require.NotNil(t, repo.Inserted[1].Place)
				assert.Equal(t, 1, *repo.Inserted[1].Place)
				assert.Equal(t, out.BatchID, repo.Inserted[1].BatchID)

				require.Len(t, pub.Events, 1)
				assert.Equal(t, events.ScoresImportedV1, pub.Events[0].Topic)
				payload := pub.Events[0].Payload.(events.ScoresImportedPayloadV1)
				assert.Equal(t, []string{"Prone Match 1"}, payload.EventNames)
				assert.Equal(t, 2, payload.Imported)
			},
		},
		{
			name: "explicit place is kept",
			scores: func() []scoredomain.ScorePayload {
				p := validPayload("Alice", 600)
				p.Place = 7
				return []scoredomain.ScorePayload{p}
			}(),
			verify: func(t *testing.T, _ ImportOutcome, repo *FakeScoreRepository, _ *FakePublisher) {
				require.Len(t, repo.Inserted, 1)
				assert.Equal(t, 7, *repo.Inserted[0].Place)
			},
		},
		{
			name:          "review required stores pending",
			scores:        []scoredomain.ScorePayload{validPayload("Alice", 600)},
			requireReview: true,
			verify: func(t *testing.T, out ImportOutcome, repo *FakeScoreRepository, _ *FakePublisher) {
				assert.Equal(t, scoredomain.StatusPending, out.Status)
				assert.Equal(t, "pending", repo.Inserted[0].Status)
			},
		},
		{
			name: "division alias accepted",
			scores: func() []scoredomain.ScorePayload {
				p := validPayload("Alice", 600)
				p.CompetitionClass = ""
				p.Division = "F-Class"
				return []scoredomain.ScorePayload{p}
			}(),
			verify: func(t *testing.T, out ImportOutcome, repo *FakeScoreRepository, _ *FakePublisher) {
				assert.Equal(t, 1, out.Imported)
				assert.Equal(t, "F-Class", repo.Inserted[0].CompetitionClass)
			},
		},
		{
			name:   "storage failure",
			scores: []scoredomain.ScorePayload{validPayload("Alice", 600)},
			setup: func(repo *FakeScoreRepository) {
				repo.InsertBatchFunc = func(context.Context, bun.IDB, []*scoredb.Score) error {
					return errors.New("connection refused")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepository()
			pub := &FakePublisher{}
			if tt.setup != nil {
				tt.setup(repo)
			}
			s := newTestService(repo, pub, WithRequireReview(tt.requireReview))

			result, err := s.ImportScores(context.Background(), tt.scores)
			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, pub.Events)
				return
			}
			require.NoError(t, err)

			if tt.wantFailure != nil {
				require.True(t, result.IsFailure())
				assert.Equal(t, *tt.wantFailure, *result.Failure)
				assert.NotContains(t, repo.Trace(), "InsertBatch")
				assert.Empty(t, pub.Events)
				return
			}
			require.True(t, result.IsSuccess())
			tt.verify(t, *result.Success, repo, pub)
		})
	}
}

func TestScoreService_ImportScores_PublishFailureKeepsImport(t *testing.T) {
	repo := NewFakeScoreRepository()
	s := newTestService(repo, &FakePublisher{Err: errors.New("bus down")})

	result, err := s.ImportScores(context.Background(), []scoredomain.ScorePayload{validPayload("Alice", 600)})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, 1, result.Success.Imported)
}

func TestImportOutcome_Response(t *testing.T) {
	resp := ImportOutcome{Imported: 3, Message: "Successfully imported 3 scores", BatchID: "b1"}.Response()
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Imported)
	assert.Equal(t, 0, resp.Errors)
	assert.NotNil(t, resp.ErrorDetails)
	assert.Equal(t, "b1", resp.BatchID)
}

func TestScoreService_PreviewUpload(t *testing.T) {
	csvData := "Event Name,Match Number,Shooter Name,Club,Division/Class,Veteran,Series 1,Series 2,Series 3,Series 4,Series 5,Series 6,Total\n" +
		"Prone Match 1,1,Alice,Pretoria RC,Prone A class,N,100,100,100,100,100,100,600\n" +
		"Prone Match 1,1,Bob,Pretoria RC,Prone A class,N,101,101,101,101,101,101,606\n" +
		"Open,1,Carol,,Prone A class,N,100,100,100,100,100,100,600\n"

	tests := []struct {
		name        string
		file        UploadFile
		archiver    *FakeArchiver
		wantFailure string
		verify      func(t *testing.T, p UploadPreview)
	}{
		{
			name:     "csv file",
			file:     UploadFile{Name: "match.csv", ContentType: "text/csv", Data: []byte(csvData)},
			archiver: &FakeArchiver{Key: "uploads/match.csv"},
			verify: func(t *testing.T, p UploadPreview) {
				require.Len(t, p.Records, 3)
				assert.Equal(t, scoredomain.Summary{Total: 3, Valid: 2, Invalid: 1}, p.Summary)
				assert.Equal(t, 2, p.Records[0].Place)
				assert.Equal(t, 1, p.Records[1].Place)
				assert.Contains(t, p.Records[2].Errors, "Row 3: Invalid or missing event name")
				assert.Equal(t, "uploads/match.csv", p.ArchiveKey)
			},
		},
		{
			name:     "archive failure does not fail the preview",
			file:     UploadFile{Name: "match.csv", Data: []byte(csvData)},
			archiver: &FakeArchiver{Err: errors.New("denied")},
			verify: func(t *testing.T, p UploadPreview) {
				assert.Len(t, p.Records, 3)
				assert.Empty(t, p.ArchiveKey)
			},
		},
		{
			name:        "unsupported file",
			file:        UploadFile{Name: "notes.txt", ContentType: "text/plain", Data: []byte("x")},
			archiver:    &FakeArchiver{},
			wantFailure: "Please upload an Excel (.xlsx, .xls) or CSV file",
		},
		{
			name:        "header only",
			file:        UploadFile{Name: "empty.csv", Data: []byte("Event Name,Total\n")},
			archiver:    &FakeArchiver{},
			wantFailure: "File must contain at least a header row and one data row",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(NewFakeScoreRepository(), &FakePublisher{}, WithArchiver(tt.archiver))
			result, err := s.PreviewUpload(context.Background(), tt.file)
			require.NoError(t, err)
			if tt.wantFailure != "" {
				require.True(t, result.IsFailure())
				assert.Equal(t, tt.wantFailure, result.Failure.Error)
				assert.Empty(t, tt.archiver.Names)
				return
			}
			require.True(t, result.IsSuccess())
			tt.verify(t, *result.Success)
		})
	}
}

func storedModel(id uuid.UUID, status string) *scoredb.Score {
	place := 1
	return &scoredb.Score{
		ID:               id,
		BatchID:          "batch",
		EventName:        "Prone Match 1",
		MatchNumber:      "1",
		ShooterName:      "Alice",
		Club:             "Pretoria RC",
		CompetitionClass: "Prone A class",
		Series1:          100, Series2: 100, Series3: 100, Series4: 100, Series5: 100, Series6: 100,
		Total:  600,
		Place:  &place,
		Status: status,
	}
}

func TestScoreService_ListScores(t *testing.T) {
	tests := []struct {
		name      string
		query     ListQuery
		total     int
		wantErr   error
		wantLimit int
		wantPage  int
		wantOff   int
		wantPages int
	}{
		{name: "defaults", query: ListQuery{}, total: 120, wantLimit: 50, wantPage: 1, wantOff: 0, wantPages: 3},
		{name: "limit capped", query: ListQuery{Limit: 500, Page: 2}, total: 120, wantLimit: 100, wantPage: 2, wantOff: 100, wantPages: 2},
		{name: "bad status", query: ListQuery{Status: "archived"}, wantErr: ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepository()
			id := uuid.New()
			repo.ListFunc = func(context.Context, bun.IDB, scoredb.ListFilter) ([]scoredb.Score, int, error) {
				return []scoredb.Score{*storedModel(id, "approved")}, tt.total, nil
			}
			s := newTestService(repo, &FakePublisher{})

			page, err := s.ListScores(context.Background(), tt.query)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, repo.Trace())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.wantOff, repo.LastFilter.Offset)
			require.Len(t, page.Data, 1)
			assert.Equal(t, id.String(), page.Data[0].ID)
			assert.Equal(t, "Prone A class", page.Data[0].CompetitionClass)
			assert.Equal(t, 1, page.Data[0].Place)
		})
	}
}

func TestScoreService_GetScore(t *testing.T) {
	s := newTestService(NewFakeScoreRepository(), &FakePublisher{})

	_, err := s.GetScore(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidScoreID)

	_, err = s.GetScore(context.Background(), uuid.NewString())
	assert.True(t, IsNotFound(err))
}

func TestScoreService_UpdateScore(t *testing.T) {
	id := uuid.New()

	t.Run("invalid fields", func(t *testing.T) {
		repo := NewFakeScoreRepository()
		s := newTestService(repo, &FakePublisher{})
		p := validPayload("Alice", 600)
		p.Total = 650

		result, err := s.UpdateScore(context.Background(), id.String(), p)
		require.NoError(t, err)
		require.True(t, result.IsFailure())
		assert.Equal(t, []string{scoredomain.MsgTotalMismatch}, result.Failure.Errors)
		assert.Empty(t, repo.Trace())
	})

	t.Run("replaces fields and keeps status", func(t *testing.T) {
		repo := NewFakeScoreRepository()
		repo.GetByIDFunc = func(context.Context, bun.IDB, uuid.UUID) (*scoredb.Score, error) {
			return storedModel(id, "pending"), nil
		}
		pub := &FakePublisher{}
		s := newTestService(repo, pub)

		p := validPayload("Alice Smith", 612)
		p.Veteran = true
		result, err := s.UpdateScore(context.Background(), id.String(), p)
		require.NoError(t, err)
		require.True(t, result.IsSuccess())
		assert.Equal(t, "Alice Smith", result.Success.ShooterName)
		assert.True(t, result.Success.Veteran)
		assert.Equal(t, scoredomain.StatusPending, result.Success.Status)
		assert.Equal(t, 0, result.Success.Place)
		assert.Equal(t, []string{"GetByID", "Update"}, repo.Trace())
		assert.Equal(t, []string{events.ScoreStatusChangedV1}, pub.Topics())
	})

	t.Run("missing score", func(t *testing.T) {
		s := newTestService(NewFakeScoreRepository(), &FakePublisher{})
		_, err := s.UpdateScore(context.Background(), id.String(), validPayload("Alice", 600))
		assert.True(t, IsNotFound(err))
	})
}

func TestScoreService_StatusChanges(t *testing.T) {
	id := uuid.New()
	tests := []struct {
		name       string
		call       func(s *ScoreService) (*scoredomain.StoredScore, error)
		wantStatus string
		wantChange string
	}{
		{
			name: "approve",
			call: func(s *ScoreService) (*scoredomain.StoredScore, error) {
				return s.ApproveScore(context.Background(), id.String())
			},
			wantStatus: "approved",
			wantChange: events.ChangeApproved,
		},
		{
			name: "reject",
			call: func(s *ScoreService) (*scoredomain.StoredScore, error) {
				return s.RejectScore(context.Background(), id.String())
			},
			wantStatus: "rejected",
			wantChange: events.ChangeRejected,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepository()
			var written string
			repo.UpdateStatusFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID, status string) error {
				written = status
				return nil
			}
			repo.GetByIDFunc = func(context.Context, bun.IDB, uuid.UUID) (*scoredb.Score, error) {
				return storedModel(id, written), nil
			}
			pub := &FakePublisher{}
			s := newTestService(repo, pub)

			stored, err := tt.call(s)
			require.NoError(t, err)
			assert.Equal(t, scoredomain.Status(tt.wantStatus), stored.Status)
			require.Len(t, pub.Events, 1)
			payload := pub.Events[0].Payload.(events.ScoreStatusChangedPayloadV1)
			assert.Equal(t, tt.wantChange, payload.Change)
			assert.Equal(t, id.String(), payload.ScoreID)
		})
	}

	t.Run("missing score", func(t *testing.T) {
		repo := NewFakeScoreRepository()
		repo.UpdateStatusFunc = func(context.Context, bun.IDB, uuid.UUID, string) error {
			return scoredb.ErrNoRowsAffected
		}
		pub := &FakePublisher{}
		s := newTestService(repo, pub)
		_, err := s.ApproveScore(context.Background(), id.String())
		assert.True(t, IsNotFound(err))
		assert.Empty(t, pub.Events)
	})
}

func TestScoreService_DeleteScore(t *testing.T) {
	id := uuid.New()
	repo := NewFakeScoreRepository()
	pub := &FakePublisher{}
	s := newTestService(repo, pub)

	require.NoError(t, s.DeleteScore(context.Background(), id.String()))
	assert.Equal(t, []string{"Delete"}, repo.Trace())
	assert.Equal(t, []string{events.ScoreStatusChangedV1}, pub.Topics())

	repo.DeleteFunc = func(context.Context, bun.IDB, uuid.UUID) error { return scoredb.ErrNoRowsAffected }
	assert.True(t, IsNotFound(s.DeleteScore(context.Background(), id.String())))
}

func TestScoreService_RecoversPanics(t *testing.T) {
	repo := NewFakeScoreRepository()
	repo.InsertBatchFunc = func(context.Context, bun.IDB, []*scoredb.Score) error {
		panic("boom")
	}
	s := newTestService(repo, &FakePublisher{})

	result, err := s.ImportScores(context.Background(), []scoredomain.ScorePayload{validPayload("Alice", 600)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in ImportScores")
	assert.False(t, result.IsSuccess())
}
