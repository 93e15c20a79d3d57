// Package submitter sends validated score batches to the import endpoint.
package submitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
)

// ImportPath is the import endpoint path on the score server.
const ImportPath = "/api/admin/scores/import"

const fallbackMessage = "Failed to import scores"

var (
	// ErrNoValidScores is returned, without any request being made, when no
	// record in the batch passed validation.
	ErrNoValidScores = errors.New("no valid scores to import")

	// ErrMissingCredential is returned when no bearer token was supplied.
	ErrMissingCredential = errors.New("authentication required")

	// ErrSubmitInFlight is returned when a submission is already running on
	// this Submitter.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// SubmitError is returned when the server rejects the import.
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("import rejected (%d): %s", e.StatusCode, e.Message)
}

// Report describes a completed submission. Imported and Skipped count the
// records this side sent and held back; ErrorDetails lists the validation
// errors of the held-back records.
type Report struct {
	Imported     int
	Skipped      int
	ErrorDetails []string
	Message      string
	BatchID      string
}

// Submitter posts the valid part of a batch to the import endpoint.
type Submitter struct {
	client   *http.Client
	endpoint string
	logger   *slog.Logger
	inFlight atomic.Bool
}

// New creates a Submitter for the server at baseURL.
func New(baseURL string, client *http.Client, logger *slog.Logger) *Submitter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		client:   client,
		endpoint: strings.TrimRight(baseURL, "/") + ImportPath,
		logger:   logger,
	}
}

// Submit sends the valid records in one request authorised by token.
// Invalid records are skipped and reported. The request is not retried.
func (s *Submitter) Submit(ctx context.Context, records []scoredomain.ScoreRecord, token string) (*Report, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	var (
		valid   []scoredomain.ScorePayload
		skipped []scoredomain.ScoreRecord
	)
	for _, r := range records {
		if r.Valid() {
			valid = append(valid, scoredomain.PayloadFromRecord(r))
			continue
		}
		skipped = append(skipped, r)
	}
	if len(valid) == 0 {
		return nil, ErrNoValidScores
	}
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingCredential
	}

	body, err := json.Marshal(scoredomain.ImportRequest{Scores: valid})
	if err != nil {
		return nil, fmt.Errorf("failed to encode import request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build import request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	s.logger.InfoContext(ctx, "Submitting scores",
		slog.String("endpoint", s.endpoint),
		slog.Int("valid", len(valid)),
		slog.Int("skipped", len(skipped)),
	)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send import request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read import response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		submitErr := &SubmitError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
		s.logger.ErrorContext(ctx, "Score import rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("message", submitErr.Message),
		)
		return nil, submitErr
	}

	report := &Report{
		Imported:     len(valid),
		Skipped:      len(skipped),
		ErrorDetails: scoredomain.FlattenErrors(skipped),
	}

	var decoded scoredomain.ImportResponse
	if err := json.Unmarshal(raw, &decoded); err == nil {
		report.Message = decoded.Message
		report.BatchID = decoded.BatchID
	}
	if report.Message == "" {
		report.Message = ImportMessage(report.Imported, report.Skipped)
	}

	s.logger.InfoContext(ctx, "Scores imported",
		slog.Int("imported", report.Imported),
		slog.Int("skipped", report.Skipped),
		slog.String("batch_id", report.BatchID),
	)
	return report, nil
}

// ImportMessage is the operator summary for an import.
func ImportMessage(imported, skipped int) string {
	msg := fmt.Sprintf("Successfully imported %d scores", imported)
	if skipped > 0 {
		msg += fmt.Sprintf(" with %d errors", skipped)
	}
	return msg
}

// serverMessage pulls the error text out of a failure body: "error" first,
// then "details" as a string or list.
func serverMessage(raw []byte) string {
	var body struct {
		Error   string          `json:"error"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return fallbackMessage
	}
	if body.Error != "" {
		return body.Error
	}
	if len(body.Details) > 0 {
		var s string
		if err := json.Unmarshal(body.Details, &s); err == nil && s != "" {
			return s
		}
		var list []string
		if err := json.Unmarshal(body.Details, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	return fallbackMessage
}
