package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// TaskTasksRefreshSchedules re-expands the occurrence sets of open recurring
// tasks so a changed rule or a crossed year boundary is reflected overnight.
const TaskTasksRefreshSchedules = "tasks:refresh-schedules"

// ScheduleRefresher is implemented by the task service.
type ScheduleRefresher interface {
	RefreshSchedules(ctx context.Context) (int, error)
}

// NewScheduleRefreshTask constructs the Asynq task. It carries no payload.
func NewScheduleRefreshTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskTasksRefreshSchedules, nil), nil
}

// ScheduleRefreshJob holds the handler dependencies.
type ScheduleRefreshJob struct {
	refresher ScheduleRefresher
	logger    *slog.Logger
}

// NewScheduleRefreshJob constructs the job.
func NewScheduleRefreshJob(refresher ScheduleRefresher, logger *slog.Logger) *ScheduleRefreshJob {
	return &ScheduleRefreshJob{refresher: refresher, logger: logger}
}

// Handle processes TaskTasksRefreshSchedules tasks.
func (j *ScheduleRefreshJob) Handle(ctx context.Context, _ *asynq.Task) error {
	start := time.Now()
	refreshed, err := j.refresher.RefreshSchedules(ctx)
	if err != nil {
		return err
	}
	j.logger.Info("task schedules refreshed",
		slog.Int("refreshed", refreshed),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
