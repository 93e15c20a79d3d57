package scoreservice

import (
	"context"
	"sync"

	"github.com/google/uuid"
	scoredb "github.com/satrf/scorekeeper/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

// FakeScoreRepository provides a programmable stub for the scoredb.Repository interface.
type FakeScoreRepository struct {
	trace []string

	InsertBatchFunc  func(ctx context.Context, db bun.IDB, scores []*scoredb.Score) error
	GetByIDFunc      func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoredb.Score, error)
	ListFunc         func(ctx context.Context, db bun.IDB, filter scoredb.ListFilter) ([]scoredb.Score, int, error)
	UpdateFunc       func(ctx context.Context, db bun.IDB, score *scoredb.Score) error
	UpdateStatusFunc func(ctx context.Context, db bun.IDB, id uuid.UUID, status string) error
	DeleteFunc       func(ctx context.Context, db bun.IDB, id uuid.UUID) error

	Inserted   []*scoredb.Score
	LastFilter scoredb.ListFilter
}

// NewFakeScoreRepository initializes a new FakeScoreRepository with an empty trace.
func NewFakeScoreRepository() *FakeScoreRepository {
	return &FakeScoreRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoreRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeScoreRepository) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepository) InsertBatch(ctx context.Context, db bun.IDB, scores []*scoredb.Score) error {
	f.record("InsertBatch")
	f.Inserted = scores
	if f.InsertBatchFunc != nil {
		return f.InsertBatchFunc(ctx, db, scores)
	}
	return nil
}

func (f *FakeScoreRepository) GetByID(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoredb.Score, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return nil, scoredb.ErrNotFound
}

func (f *FakeScoreRepository) List(ctx context.Context, db bun.IDB, filter scoredb.ListFilter) ([]scoredb.Score, int, error) {
	f.record("List")
	f.LastFilter = filter
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, filter)
	}
	return nil, 0, nil
}

func (f *FakeScoreRepository) Update(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	f.record("Update")
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeScoreRepository) UpdateStatus(ctx context.Context, db bun.IDB, id uuid.UUID, status string) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, db, id, status)
	}
	return nil
}

func (f *FakeScoreRepository) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

var _ scoredb.Repository = (*FakeScoreRepository)(nil)

// ------------------------
// Fake Publisher
// ------------------------

type publishedEvent struct {
	Topic   string
	Payload any
}

// FakePublisher records published events.
type FakePublisher struct {
	mu     sync.Mutex
	Events []publishedEvent
	Err    error
}

func (f *FakePublisher) PublishJSON(_ context.Context, topic string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Events = append(f.Events, publishedEvent{Topic: topic, Payload: payload})
	return f.Err
}

func (f *FakePublisher) Topics() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Events))
	for _, e := range f.Events {
		out = append(out, e.Topic)
	}
	return out
}

// ------------------------
// Fake Archiver
// ------------------------

// FakeArchiver records archived file names.
type FakeArchiver struct {
	Names []string
	Key   string
	Err   error
}

func (f *FakeArchiver) Archive(_ context.Context, filename, _ string, _ []byte) (string, error) {
	f.Names = append(f.Names, filename)
	if f.Err != nil {
		return "", f.Err
	}
	return f.Key, nil
}
