package observability

import (
	"context"
	"time"
)

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

var (
	_ ScoreMetrics       = NoopMetrics{}
	_ LeaderboardMetrics = NoopMetrics{}
)

func (NoopMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoopMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoopMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoopMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoopMetrics) RecordImportedScores(context.Context, int, int)                 {}
func (NoopMetrics) RecordUploadPreview(context.Context, int, int)                  {}
func (NoopMetrics) RecordCacheHit(context.Context, string)                         {}
func (NoopMetrics) RecordCacheMiss(context.Context, string)                        {}
func (NoopMetrics) RecordCacheInvalidation(context.Context)                        {}
