// Package events names the topics modules exchange over the event bus and
// the payloads carried on them.
package events

import "time"

const (
	// ScoresImportedV1 is published after an import batch is stored.
	ScoresImportedV1 = "score.imported.v1"

	// ScoreStatusChangedV1 is published when a stored score is approved,
	// rejected, edited or deleted.
	ScoreStatusChangedV1 = "score.status_changed.v1"
)

// ScoresImportedPayloadV1 describes a stored import batch.
type ScoresImportedPayloadV1 struct {
	BatchID    string    `json:"batchId"`
	Imported   int       `json:"imported"`
	Rejected   int       `json:"rejected"`
	Status     string    `json:"status"`
	EventNames []string  `json:"eventNames"`
	ImportedAt time.Time `json:"importedAt"`
}

// Score change kinds.
const (
	ChangeApproved = "approved"
	ChangeRejected = "rejected"
	ChangeUpdated  = "updated"
	ChangeDeleted  = "deleted"
)

// ScoreStatusChangedPayloadV1 describes a change to one stored score.
type ScoreStatusChangedPayloadV1 struct {
	ScoreID   string    `json:"scoreId"`
	Change    string    `json:"change"`
	ChangedAt time.Time `json:"changedAt"`
}
