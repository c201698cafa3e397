// Package service implements the task use-cases on top of a repository.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/query"
	"tdl/pkg/repository"
	"tdl/pkg/stats"
	"tdl/pkg/todo"
)

// Service runs the task and category use-cases. It holds no state besides
// its collaborators, so one instance may serve both the TUI and the CLI.
type Service struct {
	repo   *repository.Repository
	engine *query.Engine
	clock  func() time.Time
	newID  func() uuid.UUID
	log    *slog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now. Returned instants are truncated to microseconds.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

func WithEngine(e *query.Engine) Option {
	return func(s *Service) { s.engine = e }
}

func WithIDGenerator(gen func() uuid.UUID) Option {
	return func(s *Service) { s.newID = gen }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

func New(repo *repository.Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		engine: query.DefaultEngine,
		clock:  time.Now,
		newID:  uuid.New,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock().Truncate(time.Microsecond)
}

// NewTask carries the caller-supplied fields of a task to create.
// A zero Priority means todo.DefaultPriority.
type NewTask struct {
	Title       string
	Description *string
	Priority    todo.Priority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
	Completed   bool
}

// Tasks returns every task in store order (newest first).
func (s *Service) Tasks(ctx context.Context) ([]todo.Task, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Task(ctx context.Context, id uuid.UUID) (todo.Task, error) {
	return s.repo.Get(ctx, id)
}

// Search loads every task and narrows it with c.
func (s *Service) Search(ctx context.Context, c query.Criteria) ([]todo.Task, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Apply(all, c), nil
}

// Statistics summarises every stored task as of now.
func (s *Service) Statistics(ctx context.Context) (stats.Snapshot, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return stats.Snapshot{}, err
	}
	return stats.Calculate(all, s.clock()), nil
}

// Add validates in, stamps id and timestamps and persists the new task.
func (s *Service) Add(ctx context.Context, in NewTask) (todo.Task, error) {
	if err := todo.ValidateTitle(in.Title); err != nil {
		return todo.Task{}, err
	}

	prio := in.Priority
	if prio == 0 {
		prio = todo.DefaultPriority
	}
	if !prio.Valid() {
		return todo.Task{}, &todo.ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}

	now := s.now()
	task := todo.Task{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: normalizeDescription(in.Description),
		IsCompleted: in.Completed,
		Priority:    prio,
		DueDate:     in.DueDate,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		s.log.Error("add task failed", "error", err)
		return todo.Task{}, err
	}

	s.log.Debug("task added", "id", created.ID, "title", created.Title)
	return created, nil
}

// Update merges p onto the stored task. Omitted fields keep their value;
// UpdatedAt always moves forward.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p todo.Patch) (todo.Task, error) {
	if err := p.Validate(); err != nil {
		return todo.Task{}, err
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return todo.Task{}, err
	}

	if title, ok := p.Title.Get(); ok {
		p.Title = todo.Set(strings.TrimSpace(title))
	}
	if desc, ok := p.Description.Get(); ok {
		p.Description = todo.Set(normalizeDescription(desc))
	}

	next := todo.Merge(current, p, s.nextUpdatedAt(current.UpdatedAt))
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		s.log.Error("update task failed", "id", id, "error", err)
		return todo.Task{}, err
	}

	s.log.Debug("task updated", "id", id)
	return updated, nil
}

// ToggleCompletion flips the completion flag of the task.
func (s *Service) ToggleCompletion(ctx context.Context, id uuid.UUID) (todo.Task, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return todo.Task{}, err
	}

	next := todo.Merge(current, todo.Patch{IsCompleted: todo.Set(!current.IsCompleted)}, s.nextUpdatedAt(current.UpdatedAt))
	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		s.log.Error("toggle task failed", "id", id, "error", err)
		return todo.Task{}, err
	}

	s.log.Debug("task toggled", "id", id, "completed", updated.IsCompleted)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Debug("task deleted", "id", id)
	return nil
}

// MarkCompleted completes every pending task selected by c. It is not atomic:
// the first failure stops the batch and earlier items stay completed. The
// returned count is the number of tasks changed before stopping.
func (s *Service) MarkCompleted(ctx context.Context, c query.Criteria) (int, error) {
	selected, err := s.Search(ctx, c)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, t := range selected {
		if t.IsCompleted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.Update(ctx, t.ID, todo.Patch{IsCompleted: todo.Set(true)}); err != nil {
			s.log.Warn("mark completed aborted", "id", t.ID, "changed", done, "error", err)
			return done, err
		}
		done++
	}

	s.log.Debug("marked tasks completed", "count", done)
	return done, nil
}

// DeleteCompleted removes every completed task selected by c, with the same
// best-effort semantics as MarkCompleted.
func (s *Service) DeleteCompleted(ctx context.Context, c query.Criteria) (int, error) {
	selected, err := s.Search(ctx, c)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, t := range selected {
		if !t.IsCompleted {
			continue
		}
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if err := s.Delete(ctx, t.ID); err != nil {
			s.log.Warn("delete completed aborted", "id", t.ID, "changed", done, "error", err)
			return done, err
		}
		done++
	}

	s.log.Debug("deleted completed tasks", "count", done)
	return done, nil
}

// ResolveID finds the task whose id starts with prefix. A full UUID is
// parsed directly.
func (s *Service) ResolveID(ctx context.Context, prefix string) (uuid.UUID, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if id, err := uuid.Parse(prefix); err == nil {
		return id, nil
	}
	if prefix == "" {
		return uuid.Nil, &todo.ValidationError{Field: "id", Reason: "must not be empty"}
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	var match []uuid.UUID
	for _, t := range all {
		if strings.HasPrefix(t.ID.String(), prefix) {
			match = append(match, t.ID)
		}
	}

	switch len(match) {
	case 0:
		return uuid.Nil, todo.NotFound("task", prefix)
	case 1:
		return match[0], nil
	default:
		return uuid.Nil, &todo.ValidationError{Field: "id", Reason: "prefix " + prefix + " is ambiguous"}
	}
}

func (s *Service) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		return prev.Add(time.Microsecond)
	}
	return now
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
