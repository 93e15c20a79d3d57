package scoreservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/satrf/scorekeeper/app/events"
	"github.com/satrf/scorekeeper/app/modules/score/application/parsers"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/satrf/scorekeeper/app/shared/results"
	"github.com/uptrace/bun"
)

type importResult = results.OperationResult[ImportOutcome, ImportRejection]

// ImportScores validates every score, places the valid ones that arrived
// without a place and stores them as one batch.
func (s *ScoreService) ImportScores(ctx context.Context, scores []scoredomain.ScorePayload) (importResult, error) {
	return withTelemetry(s, ctx, "ImportScores", fmt.Sprintf("%d scores", len(scores)), func(ctx context.Context) (importResult, error) {
		if len(scores) == 0 {
			return results.FailureResult[ImportOutcome](ImportRejection{Error: MsgNoScoresProvided}), nil
		}

		var (
			valid   []scoredomain.ScoreRecord
			details []string
		)
		for i, p := range scores {
			rec := p.Record(i + 1)
			if errs := scoredomain.Validate(rec); len(errs) > 0 {
				details = append(details, scoredomain.RowMessage(i+1, strings.Join(errs, ", ")))
				continue
			}
			valid = append(valid, rec)
		}
		rejected := len(scores) - len(valid)

		if len(valid) == 0 {
			s.metrics.RecordImportedScores(ctx, 0, rejected)
			return results.FailureResult[ImportOutcome](ImportRejection{
				Error:   MsgNoValidScores,
				Details: details,
			}), nil
		}

		placed := scoredomain.AssignPlaces(valid)
		for i := range valid {
			if valid[i].Place == 0 {
				valid[i].Place = placed[i].Place
			}
		}

		batchID, err := gonanoid.New()
		if err != nil {
			return importResult{}, fmt.Errorf("failed to generate batch id: %w", err)
		}
		status := scoredomain.StatusApproved
		if s.requireReview {
			status = scoredomain.StatusPending
		}

		models := make([]*scoredb.Score, 0, len(valid))
		eventNames := make([]string, 0)
		seen := make(map[string]bool)
		for _, rec := range valid {
			models = append(models, modelFromRecord(rec, batchID, status))
			if !seen[rec.EventName] {
				seen[rec.EventName] = true
				eventNames = append(eventNames, rec.EventName)
			}
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (importResult, error) {
			if err := s.repo.InsertBatch(ctx, db, models); err != nil {
				return importResult{}, err
			}
			return results.SuccessResult[ImportOutcome, ImportRejection](ImportOutcome{
				BatchID:      batchID,
				Status:       status,
				Imported:     len(models),
				Rejected:     rejected,
				ErrorDetails: details,
				Message:      fmt.Sprintf("Successfully imported %d scores", len(models)),
			}), nil
		})
		if err != nil {
			return importResult{}, err
		}

		s.metrics.RecordImportedScores(ctx, len(models), rejected)
		s.publish(ctx, events.ScoresImportedV1, events.ScoresImportedPayloadV1{
			BatchID:    batchID,
			Imported:   len(models),
			Rejected:   rejected,
			Status:     string(status),
			EventNames: eventNames,
			ImportedAt: nowUTC(s.now),
		})
		return result, nil
	})
}

type previewResult = results.OperationResult[UploadPreview, ImportRejection]

// PreviewUpload parses a spreadsheet into validated, placed records without
// storing them. Structural problems with the file are failures, not errors.
func (s *ScoreService) PreviewUpload(ctx context.Context, file UploadFile) (previewResult, error) {
	return withTelemetry(s, ctx, "PreviewUpload", file.Name, func(ctx context.Context) (previewResult, error) {
		batch, err := parsers.ReadFile(s.parsers, file.Name, file.ContentType, file.Data)
		if err != nil {
			if errors.Is(err, parsers.ErrUnsupportedFile) || errors.Is(err, parsers.ErrTooFewRows) {
				return results.FailureResult[UploadPreview](ImportRejection{Error: err.Error()}), nil
			}
			return results.FailureResult[UploadPreview](ImportRejection{
				Error: fmt.Sprintf("Could not read %s: %v", file.Name, err),
			}), nil
		}

		preview := UploadPreview{
			Records: batch.Records(),
			Summary: batch.Summary(),
		}
		s.metrics.RecordUploadPreview(ctx, preview.Summary.Valid, preview.Summary.Invalid)

		key, err := s.archiver.Archive(ctx, file.Name, file.ContentType, file.Data)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to archive upload",
				slog.String("file", file.Name),
				slog.Any("error", err),
			)
		}
		preview.ArchiveKey = key

		return results.SuccessResult[UploadPreview, ImportRejection](preview), nil
	})
}
