package tasks

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bracketsdeveloper/Catalog-management-sub001/internal/audit"
)

type mockRepository struct {
	tasks  map[int64]*Task
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{tasks: make(map[int64]*Task), nextID: 1}
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepository) List(_ context.Context, status *TaskStatus, _, _ int) ([]Task, int, error) {
	var out []Task
	for _, t := range m.tasks {
		if status != nil && t.Status != *status {
			continue
		}
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (m *mockRepository) ListOpenRecurring(_ context.Context) ([]Task, error) {
	var out []Task
	for _, t := range m.tasks {
		if t.Status != TaskStatusOpen || t.Pattern == PatternNone || t.Pattern == PatternExplicit {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockRepository) Create(_ context.Context, t Task) (int64, error) {
	id := m.nextID
	m.nextID++
	t.ID = id
	t.Status = TaskStatusOpen
	m.tasks[id] = &t
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	t, ok := m.tasks[id]
	if !ok {
		return ErrNotFound
	}
	for col, val := range updates {
		switch col {
		case "title":
			t.Title = val.(string)
		case "assigned_to":
			t.AssignedTo = val.(string)
		case "pattern":
			t.Pattern = val.(Pattern)
		case "range_start":
			t.RangeStart = val.(time.Time)
		case "range_end":
			t.RangeEnd = val.(time.Time)
		case "schedule":
			t.Schedule = val.([]time.Time)
		case "status":
			t.Status = val.(TaskStatus)
		}
	}
	return nil
}

type capturingAuditRepo struct {
	entries []audit.Entry
}

func (c *capturingAuditRepo) Insert(_ context.Context, e audit.Entry) error {
	c.entries = append(c.entries, e)
	return nil
}

func (c *capturingAuditRepo) Timeline(_ context.Context, _, _ string, _ int) ([]audit.Entry, error) {
	return c.entries, nil
}

func newTestService() (*Service, *mockRepository, *capturingAuditRepo) {
	repo := newMockRepository()
	auditRepo := &capturingAuditRepo{}
	recorder := audit.NewRecorder(auditRepo, slog.Default())
	return NewService(repo, recorder), repo, auditRepo
}

var noActor = audit.Actor{Name: "tester"}

func TestCreateExpandsSchedule(t *testing.T) {
	svc, _, auditRepo := newTestService()

	created, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Follow up weekly",
		AssignedTo: "ravi",
		Pattern:    PatternWeekly,
		RangeStart: day(2024, 1, 1),
		RangeEnd:   day(2024, 1, 15),
	}, noActor)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 8), day(2024, 1, 15)}, created.Schedule)
	require.Len(t, auditRepo.entries, 1)
	assert.Equal(t, audit.ActionCreate, auditRepo.entries[0].Action)
}

func TestCreateRejectsInvertedRange(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "bad",
		AssignedTo: "ravi",
		Pattern:    PatternDaily,
		RangeStart: day(2024, 2, 1),
		RangeEnd:   day(2024, 1, 1),
	}, noActor)
	assert.Error(t, err)
}

func TestUpdateRecomputesScheduleWhenRuleChanges(t *testing.T) {
	svc, _, auditRepo := newTestService()
	created, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Daily check",
		AssignedTo: "ravi",
		Pattern:    PatternDaily,
		RangeStart: day(2024, 1, 1),
		RangeEnd:   day(2024, 1, 3),
	}, noActor)
	require.NoError(t, err)

	alternate := PatternAlternateDays
	updated, err := svc.Update(context.Background(), created.ID, UpdateTaskRequest{Pattern: &alternate}, noActor)
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day(2024, 1, 1), day(2024, 1, 3)}, updated.Schedule)

	var fields []string
	for _, e := range auditRepo.entries {
		if e.Action == audit.ActionUpdate {
			fields = append(fields, e.Field)
		}
	}
	assert.Equal(t, []string{"pattern"}, fields)
}

func TestUpdateNoopWritesNoAudit(t *testing.T) {
	svc, _, auditRepo := newTestService()
	created, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Quiet",
		AssignedTo: "ravi",
		Pattern:    PatternNone,
		RangeStart: day(2024, 1, 1),
		RangeEnd:   day(2024, 1, 1),
	}, noActor)
	require.NoError(t, err)

	before := len(auditRepo.entries)
	_, err = svc.Update(context.Background(), created.ID, UpdateTaskRequest{}, noActor)
	require.NoError(t, err)
	assert.Equal(t, before, len(auditRepo.entries))
}

func TestRefreshSchedulesConvergesDriftedTasks(t *testing.T) {
	svc, repo, _ := newTestService()
	created, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Weekly sync",
		AssignedTo: "ravi",
		Pattern:    PatternWeekly,
		RangeStart: day(2024, 1, 1),
		RangeEnd:   day(2024, 1, 15),
	}, noActor)
	require.NoError(t, err)

	// Simulate a schedule drifted out from under the rule.
	repo.tasks[created.ID].Schedule = nil

	refreshed, err := svc.RefreshSchedules(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, got.Schedule, 3)

	// A second pass finds nothing to do.
	refreshed, err = svc.RefreshSchedules(context.Background())
	require.NoError(t, err)
	assert.Zero(t, refreshed)
}
