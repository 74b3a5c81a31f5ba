package tasks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
)

// auditedFields are the task fields tracked in the audit trail.
var auditedFields = []string{"title", "assigned_to", "pattern", "range_start", "range_end", "status"}

type Service struct {
	repo     Repository
	recorder *audit.Recorder
}

func NewService(repo Repository, recorder *audit.Recorder) *Service {
	return &Service{repo: repo, recorder: recorder}
}

func (s *Service) Get(ctx context.Context, id int64) (*Task, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, status *TaskStatus, limit, offset int) ([]Task, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) Create(ctx context.Context, req CreateTaskRequest, actor audit.Actor) (*Task, error) {
	if req.RangeEnd.Before(req.RangeStart) {
		return nil, errors.New("range_end must not precede range_start")
	}

	task := Task{
		Title:           req.Title,
		Notes:           req.Notes,
		OpportunityCode: req.OpportunityCode,
		AssignedTo:      req.AssignedTo,
		Pattern:         req.Pattern,
		RangeStart:      req.RangeStart,
		RangeEnd:        req.RangeEnd,
		Schedule:        ExpandSchedule(req.Pattern, req.RangeStart, req.RangeEnd, req.ExplicitDates),
	}

	id, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.recorder.Created(ctx, "task", strconv.FormatInt(id, 10), snapshot(created), actor)
	return created, nil
}

// Update applies header changes and recomputes the schedule whenever the
// rule or range moved. Only actual changes reach the audit log; an untouched
// task writes nothing.
func (s *Service) Update(ctx context.Context, id int64, req UpdateTaskRequest, actor audit.Actor) (*Task, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	next := *existing
	updates := make(map[string]interface{})
	if req.Title != nil {
		next.Title = *req.Title
		updates["title"] = *req.Title
	}
	if req.Notes != nil {
		next.Notes = req.Notes
		updates["notes"] = *req.Notes
	}
	if req.AssignedTo != nil {
		next.AssignedTo = *req.AssignedTo
		updates["assigned_to"] = *req.AssignedTo
	}
	if req.Status != nil {
		next.Status = *req.Status
		updates["status"] = *req.Status
	}

	ruleChanged := false
	if req.Pattern != nil {
		next.Pattern = *req.Pattern
		updates["pattern"] = *req.Pattern
		ruleChanged = true
	}
	if req.RangeStart != nil {
		next.RangeStart = *req.RangeStart
		updates["range_start"] = *req.RangeStart
		ruleChanged = true
	}
	if req.RangeEnd != nil {
		next.RangeEnd = *req.RangeEnd
		updates["range_end"] = *req.RangeEnd
		ruleChanged = true
	}
	if ruleChanged || req.ExplicitDates != nil {
		if next.RangeEnd.Before(next.RangeStart) {
			return nil, errors.New("range_end must not precede range_start")
		}
		next.Schedule = ExpandSchedule(next.Pattern, next.RangeStart, next.RangeEnd, req.ExplicitDates)
		updates["schedule"] = next.Schedule
	}

	changes := audit.Diff(snapshot(existing), snapshot(&next), auditedFields)
	if len(updates) == 0 {
		return existing, nil
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	s.recorder.Updated(ctx, "task", strconv.FormatInt(id, 10), changes, actor)
	return s.repo.Get(ctx, id)
}

// RefreshSchedules re-expands the occurrence set of every open recurring
// task. Run from the nightly worker so range edits made directly in the
// store converge.
func (s *Service) RefreshSchedules(ctx context.Context) (int, error) {
	open, err := s.repo.ListOpenRecurring(ctx)
	if err != nil {
		return 0, fmt.Errorf("list open recurring tasks: %w", err)
	}
	refreshed := 0
	for _, t := range open {
		next := ExpandSchedule(t.Pattern, t.RangeStart, t.RangeEnd, nil)
		if schedulesEqual(t.Schedule, next) {
			continue
		}
		if err := s.repo.Update(ctx, t.ID, map[string]interface{}{"schedule": next}); err != nil {
			return refreshed, fmt.Errorf("refresh task %d: %w", t.ID, err)
		}
		refreshed++
	}
	return refreshed, nil
}

func schedulesEqual(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func snapshot(t *Task) map[string]any {
	if t == nil {
		return nil
	}
	return map[string]any{
		"title":       t.Title,
		"assigned_to": t.AssignedTo,
		"pattern":     string(t.Pattern),
		"range_start": t.RangeStart,
		"range_end":   t.RangeEnd,
		"status":      string(t.Status),
	}
}
