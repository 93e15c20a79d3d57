package scoredomain

import "time"

// Status is the review state of a stored score.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// StoredScore is a score as kept by the server.
type StoredScore struct {
	ID      string `json:"id"`
	BatchID string `json:"batchId"`
	Status  Status `json:"status"`
	ScorePayload
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
