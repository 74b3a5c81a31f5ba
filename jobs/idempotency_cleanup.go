package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskIdempotencyCleanup prunes derivation keys old enough that no client
// will retry them.
const TaskIdempotencyCleanup = "shared:idempotency-cleanup"

// KeyCleaner is implemented by the shared idempotency store.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) error
}

// NewIdempotencyCleanupTask constructs the Asynq task.
func NewIdempotencyCleanupTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskIdempotencyCleanup, nil), nil
}

// IdempotencyCleanupJob holds the handler dependencies.
type IdempotencyCleanupJob struct {
	cleaner   KeyCleaner
	retention time.Duration
	logger    *slog.Logger
}

// NewIdempotencyCleanupJob constructs the job. A zero retention defaults to
// thirty days.
func NewIdempotencyCleanupJob(cleaner KeyCleaner, retention time.Duration, logger *slog.Logger) *IdempotencyCleanupJob {
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	return &IdempotencyCleanupJob{cleaner: cleaner, retention: retention, logger: logger}
}

// Handle processes TaskIdempotencyCleanup tasks.
func (j *IdempotencyCleanupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if err := j.cleaner.Cleanup(ctx, j.retention); err != nil {
		return err
	}
	j.logger.Info("idempotency keys pruned", slog.Duration("retention", j.retention))
	return nil
}
