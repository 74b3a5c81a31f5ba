package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Recorder appends audit entries without ever failing the caller: a document
// write must not be rolled back because its audit trail could not be stored.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

// NewRecorder returns a best-effort audit recorder.
func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Actor identifies who performed a mutation and from where.
type Actor struct {
	Name       string
	SourceAddr string
}

// Created logs the creation of an entity with its initial state.
func (r *Recorder) Created(ctx context.Context, entity, entityID string, state map[string]any, actor Actor) {
	r.append(ctx, Entry{
		Entity:   entity,
		EntityID: entityID,
		Action:   ActionCreate,
		NewValue: state,
	}, actor)
}

// Updated logs one entry per changed field. A nil or empty change set writes
// nothing.
func (r *Recorder) Updated(ctx context.Context, entity, entityID string, changes []Change, actor Actor) {
	for _, c := range changes {
		r.append(ctx, Entry{
			Entity:   entity,
			EntityID: entityID,
			Action:   ActionUpdate,
			Field:    c.Field,
			OldValue: c.Old,
			NewValue: c.New,
		}, actor)
	}
}

// Deleted logs the terminal state of a removed entity.
func (r *Recorder) Deleted(ctx context.Context, entity, entityID string, state map[string]any, actor Actor) {
	r.append(ctx, Entry{
		Entity:   entity,
		EntityID: entityID,
		Action:   ActionDelete,
		OldValue: state,
	}, actor)
}

func (r *Recorder) append(ctx context.Context, entry Entry, actor Actor) {
	if r == nil || r.repo == nil {
		return
	}
	entry.ID = uuid.NewString()
	entry.Actor = actor.Name
	entry.SourceAddr = actor.SourceAddr
	entry.At = time.Now()
	if err := r.repo.Insert(ctx, entry); err != nil && r.logger != nil {
		r.logger.Warn("audit entry not recorded",
			slog.String("entity", entry.Entity),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err),
		)
	}
}
