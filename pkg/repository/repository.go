// Package repository adapts record-level stores to the domain types.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tdl/pkg/database"
	"tdl/pkg/todo"
)

// Store is the persistence contract. Implementations return todo.ErrNotFound
// for missing ids and wrap every other failure in *todo.PersistenceError.
type Store interface {
	LoadTasks(ctx context.Context) ([]database.TaskRecord, error)
	LoadTask(ctx context.Context, id string) (database.TaskRecord, error)
	AddTask(ctx context.Context, task database.TaskRecord) (database.TaskRecord, error)
	UpdateTask(ctx context.Context, task database.TaskRecord) (database.TaskRecord, error)
	DeleteTask(ctx context.Context, id string) error

	LoadCategories(ctx context.Context) ([]database.CategoryRecord, error)
	LoadCategory(ctx context.Context, id string) (database.CategoryRecord, error)
	AddCategory(ctx context.Context, c database.CategoryRecord) (database.CategoryRecord, error)
	UpdateCategory(ctx context.Context, c database.CategoryRecord) (database.CategoryRecord, error)
	DeleteCategory(ctx context.Context, id string) error

	Close() error
}

var (
	_ Store = (*database.SQLStore)(nil)
	_ Store = (*database.MemoryStore)(nil)
)

// Repository stores domain tasks and categories.
type Repository struct {
	store Store
}

func New(store Store) *Repository {
	return &Repository{store: store}
}

// Open connects to the configured backend and prepares its schema.
func Open(ctx context.Context, driver, dsn string) (*Repository, error) {
	if driver == database.DriverMemory {
		return New(database.NewMemoryStore()), nil
	}

	db, err := database.ConnectDB(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("database ready", "driver", driver)
	return New(database.NewSQLStore(db)), nil
}

func (r *Repository) Close() error {
	return r.store.Close()
}

// GetAll returns every task, newest first.
func (r *Repository) GetAll(ctx context.Context) ([]todo.Task, error) {
	records, err := r.store.LoadTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := make([]todo.Task, 0, len(records))
	for _, rec := range records {
		t, err := taskFromRecord(rec)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (todo.Task, error) {
	rec, err := r.store.LoadTask(ctx, id.String())
	if err != nil {
		return todo.Task{}, err
	}
	return taskFromRecord(rec)
}

func (r *Repository) Create(ctx context.Context, t todo.Task) (todo.Task, error) {
	rec, err := r.store.AddTask(ctx, taskToRecord(t))
	if err != nil {
		return todo.Task{}, err
	}
	return taskFromRecord(rec)
}

func (r *Repository) Update(ctx context.Context, t todo.Task) (todo.Task, error) {
	rec, err := r.store.UpdateTask(ctx, taskToRecord(t))
	if err != nil {
		return todo.Task{}, err
	}
	return taskFromRecord(rec)
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteTask(ctx, id.String())
}

// Categories returns every category ordered by name.
func (r *Repository) Categories(ctx context.Context) ([]todo.Category, error) {
	records, err := r.store.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]todo.Category, 0, len(records))
	for _, rec := range records {
		c, err := categoryFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Repository) Category(ctx context.Context, id uuid.UUID) (todo.Category, error) {
	rec, err := r.store.LoadCategory(ctx, id.String())
	if err != nil {
		return todo.Category{}, err
	}
	return categoryFromRecord(rec)
}

func (r *Repository) CreateCategory(ctx context.Context, c todo.Category) (todo.Category, error) {
	rec, err := r.store.AddCategory(ctx, categoryToRecord(c))
	if err != nil {
		return todo.Category{}, err
	}
	return categoryFromRecord(rec)
}

func (r *Repository) UpdateCategory(ctx context.Context, c todo.Category) (todo.Category, error) {
	rec, err := r.store.UpdateCategory(ctx, categoryToRecord(c))
	if err != nil {
		return todo.Category{}, err
	}
	return categoryFromRecord(rec)
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.store.DeleteCategory(ctx, id.String())
}

func taskToRecord(t todo.Task) database.TaskRecord {
	rec := database.TaskRecord{
		ID:           t.ID.String(),
		Status:       t.IsCompleted,
		Title:        t.Title,
		Priority:     int(t.Priority),
		Created:      t.CreatedAt.UTC(),
		LastModified: t.UpdatedAt.UTC(),
	}
	if t.Description != nil {
		rec.Description = sql.NullString{String: *t.Description, Valid: true}
	}
	if t.DueDate != nil {
		rec.DueDate = sql.NullTime{Time: t.DueDate.UTC(), Valid: true}
	}
	if t.CategoryID != nil {
		rec.CategoryID = sql.NullString{String: t.CategoryID.String(), Valid: true}
	}
	return rec
}

func taskFromRecord(rec database.TaskRecord) (todo.Task, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return todo.Task{}, &todo.PersistenceError{Op: "decode task", Err: fmt.Errorf("id %q: %w", rec.ID, err)}
	}

	prio := todo.Priority(rec.Priority)
	if !prio.Valid() {
		slog.Warn("unknown stored priority, using default", "id", rec.ID, "priority", rec.Priority)
		prio = todo.DefaultPriority
	}

	t := todo.Task{
		ID:          id,
		Title:       rec.Title,
		IsCompleted: rec.Status,
		Priority:    prio,
		CreatedAt:   rec.Created.Local(),
		UpdatedAt:   rec.LastModified.Local(),
	}
	if rec.Description.Valid {
		d := rec.Description.String
		t.Description = &d
	}
	if rec.DueDate.Valid {
		due := rec.DueDate.Time.Local()
		t.DueDate = &due
	}
	if rec.CategoryID.Valid {
		cid, err := uuid.Parse(rec.CategoryID.String)
		if err != nil {
			slog.Warn("dropping malformed category reference", "id", rec.ID, "category", rec.CategoryID.String)
		} else {
			t.CategoryID = &cid
		}
	}
	return t, nil
}

func categoryToRecord(c todo.Category) database.CategoryRecord {
	return database.CategoryRecord{
		ID:           c.ID.String(),
		Name:         c.Name,
		Color:        string(c.Color),
		Icon:         c.Icon,
		Created:      c.CreatedAt.UTC(),
		LastModified: c.UpdatedAt.UTC(),
	}
}

func categoryFromRecord(rec database.CategoryRecord) (todo.Category, error) {
	id, err := uuid.Parse(rec.ID)
	if err != nil {
		return todo.Category{}, &todo.PersistenceError{Op: "decode category", Err: fmt.Errorf("id %q: %w", rec.ID, err)}
	}

	color, err := todo.ParseCategoryColor(rec.Color)
	if err != nil {
		color = todo.DefaultCategoryColor
	}
	return todo.Category{
		ID:        id,
		Name:      rec.Name,
		Color:     color,
		Icon:      rec.Icon,
		CreatedAt: rec.Created.Local(),
		UpdatedAt: rec.LastModified.Local(),
	}, nil
}
