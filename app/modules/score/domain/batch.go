package scoredomain

import (
	"errors"
	"sync"
)

// ErrRecordIndex is returned when a batch index does not refer to a record.
var ErrRecordIndex = errors.New("record index out of range")

// Summary counts the records of a batch by validity.
type Summary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// Batch is the working set of records an operator is preparing for import.
// Every change re-validates the touched record and recomputes places across
// the whole batch.
type Batch struct {
	mu      sync.Mutex
	records []ScoreRecord
}

// NewBatch validates and places records.
func NewBatch(records ...ScoreRecord) *Batch {
	b := &Batch{records: make([]ScoreRecord, 0, len(records))}
	for _, r := range records {
		b.records = append(b.records, ValidateRecord(r))
	}
	b.records = AssignPlaces(b.records)
	return b
}

// Add appends a record and returns its index.
func (b *Batch) Add(r ScoreRecord) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, ValidateRecord(r))
	b.records = AssignPlaces(b.records)
	return len(b.records) - 1
}

// Update applies edit to the record at index i.
func (b *Batch) Update(i int, edit func(*ScoreRecord)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.records) {
		return ErrRecordIndex
	}
	r := cloneRecord(b.records[i])
	edit(&r)
	b.records[i] = ValidateRecord(r)
	b.records = AssignPlaces(b.records)
	return nil
}

// Remove deletes the record at index i.
func (b *Batch) Remove(i int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i < 0 || i >= len(b.records) {
		return ErrRecordIndex
	}
	b.records = append(b.records[:i], b.records[i+1:]...)
	b.records = AssignPlaces(b.records)
	return nil
}

// Reset empties the batch.
func (b *Batch) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = nil
}

// Len returns the number of records.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Records returns a copy of every record in batch order.
func (b *Batch) Records() []ScoreRecord {
	return b.filter(func(ScoreRecord) bool { return true })
}

// Valid returns the records without validation errors.
func (b *Batch) Valid() []ScoreRecord {
	return b.filter(ScoreRecord.Valid)
}

// Invalid returns the records with at least one validation error.
func (b *Batch) Invalid() []ScoreRecord {
	return b.filter(func(r ScoreRecord) bool { return !r.Valid() })
}

// ErrorMessages flattens the validation errors of every record.
func (b *Batch) ErrorMessages() []string {
	return FlattenErrors(b.Records())
}

// Summary counts the records by validity.
func (b *Batch) Summary() Summary {
	return Summarize(b.Records())
}

func (b *Batch) filter(keep func(ScoreRecord) bool) []ScoreRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ScoreRecord, 0, len(b.records))
	for _, r := range b.records {
		if keep(r) {
			out = append(out, cloneRecord(r))
		}
	}
	return out
}

// FlattenErrors collects the errors of records in order.
func FlattenErrors(records []ScoreRecord) []string {
	var msgs []string
	for _, r := range records {
		msgs = append(msgs, r.Errors...)
	}
	return msgs
}

// Summarize counts records by validity.
func Summarize(records []ScoreRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.Valid() {
			s.Valid++
		}
	}
	s.Invalid = s.Total - s.Valid
	return s
}
