package scoreservice

import (
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
)

// Listing page bounds.
const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ImportOutcome describes a stored import batch.
type ImportOutcome struct {
	BatchID      string
	Status       scoredomain.Status
	Imported     int
	Rejected     int
	ErrorDetails []string
	Message      string
}

// Response renders the outcome as the import endpoint body.
func (o ImportOutcome) Response() scoredomain.ImportResponse {
	details := o.ErrorDetails
	if details == nil {
		details = []string{}
	}
	return scoredomain.ImportResponse{
		Success:      true,
		Message:      o.Message,
		Imported:     o.Imported,
		Errors:       o.Rejected,
		ErrorDetails: details,
		BatchID:      o.BatchID,
	}
}

// ImportRejection is returned when a request or file cannot be imported at all.
type ImportRejection struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// ValidationFailure carries the validator messages for a single score.
type ValidationFailure struct {
	Errors []string `json:"errors"`
}

// UploadFile is a spreadsheet sent for preview.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// UploadPreview is the parsed, validated and placed content of an upload.
type UploadPreview struct {
	Records    []scoredomain.ScoreRecord `json:"records"`
	Summary    scoredomain.Summary       `json:"summary"`
	ArchiveKey string                    `json:"archiveKey,omitempty"`
}

// ListQuery filters the admin score listing.
type ListQuery struct {
	Status    string
	EventName string
	Class     string
	Page      int
	Limit     int
}

// ScorePage is one page of stored scores.
type ScorePage struct {
	Data       []scoredomain.StoredScore `json:"data"`
	Total      int                       `json:"total"`
	Page       int                       `json:"page"`
	Limit      int                       `json:"limit"`
	TotalPages int                       `json:"total_pages"`
}
