package database

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"tdl/pkg/todo"
)

const (
	taskColumns     = `id, status, title, description, priority, duedate, category_id, created, lastmodified`
	categoryColumns = `id, name, color, icon, created, lastmodified`
)

// SQLStore persists tasks and categories in a SQL database.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open connection. The schema must already exist.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// LoadTasks retrieves every task, newest first.
func (s *SQLStore) LoadTasks(ctx context.Context) ([]TaskRecord, error) {
	items := []TaskRecord{}
	query := `SELECT ` + taskColumns + ` FROM todos ORDER BY created DESC, id ASC`
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, &todo.PersistenceError{Op: "load tasks", Err: err}
	}

	slog.Debug("loaded tasks from database", "count", len(items))
	return items, nil
}

// LoadTask retrieves a single task by id.
func (s *SQLStore) LoadTask(ctx context.Context, id string) (TaskRecord, error) {
	var item TaskRecord
	query := s.db.Rebind(`SELECT ` + taskColumns + ` FROM todos WHERE id = ?`)
	if err := s.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TaskRecord{}, todo.NotFound("task", id)
		}
		return TaskRecord{}, &todo.PersistenceError{Op: "load task", Err: err}
	}
	return item, nil
}

// AddTask inserts a new task and returns the stored row.
func (s *SQLStore) AddTask(ctx context.Context, task TaskRecord) (TaskRecord, error) {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO todos (`+taskColumns+`)
		 VALUES (:id, :status, :title, :description, :priority, :duedate, :category_id, :created, :lastmodified)`,
		task,
	)
	if err != nil {
		return TaskRecord{}, &todo.PersistenceError{Op: "add task", Err: err}
	}

	slog.Debug("added task", "id", task.ID)
	return s.LoadTask(ctx, task.ID)
}

// UpdateTask overwrites every mutable column of an existing task.
func (s *SQLStore) UpdateTask(ctx context.Context, task TaskRecord) (TaskRecord, error) {
	result, err := s.db.NamedExecContext(ctx,
		`UPDATE todos SET status = :status, title = :title, description = :description, priority = :priority,
		 duedate = :duedate, category_id = :category_id, lastmodified = :lastmodified
		 WHERE id = :id`,
		task,
	)
	if err := checkAffected(result, err, "update task", "task", task.ID); err != nil {
		return TaskRecord{}, err
	}

	slog.Debug("updated task", "id", task.ID)
	return s.LoadTask(ctx, task.ID)
}

// DeleteTask removes a task from the database.
func (s *SQLStore) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM todos WHERE id = ?`), id)
	if err := checkAffected(result, err, "delete task", "task", id); err != nil {
		return err
	}

	slog.Debug("deleted task", "id", id)
	return nil
}

// LoadCategories retrieves every category ordered by name.
func (s *SQLStore) LoadCategories(ctx context.Context) ([]CategoryRecord, error) {
	items := []CategoryRecord{}
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC, id ASC`
	if err := s.db.SelectContext(ctx, &items, query); err != nil {
		return nil, &todo.PersistenceError{Op: "load categories", Err: err}
	}
	return items, nil
}

// LoadCategory retrieves a single category by id.
func (s *SQLStore) LoadCategory(ctx context.Context, id string) (CategoryRecord, error) {
	var item CategoryRecord
	query := s.db.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE id = ?`)
	if err := s.db.GetContext(ctx, &item, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CategoryRecord{}, todo.NotFound("category", id)
		}
		return CategoryRecord{}, &todo.PersistenceError{Op: "load category", Err: err}
	}
	return item, nil
}

// AddCategory inserts a new category and returns the stored row.
func (s *SQLStore) AddCategory(ctx context.Context, c CategoryRecord) (CategoryRecord, error) {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`)
		 VALUES (:id, :name, :color, :icon, :created, :lastmodified)`,
		c,
	)
	if err != nil {
		return CategoryRecord{}, &todo.PersistenceError{Op: "add category", Err: err}
	}
	return s.LoadCategory(ctx, c.ID)
}

// UpdateCategory overwrites the mutable columns of an existing category.
func (s *SQLStore) UpdateCategory(ctx context.Context, c CategoryRecord) (CategoryRecord, error) {
	result, err := s.db.NamedExecContext(ctx,
		`UPDATE categories SET name = :name, color = :color, icon = :icon, lastmodified = :lastmodified
		 WHERE id = :id`,
		c,
	)
	if err := checkAffected(result, err, "update category", "category", c.ID); err != nil {
		return CategoryRecord{}, err
	}
	return s.LoadCategory(ctx, c.ID)
}

// DeleteCategory removes a category. Tasks referencing it are left alone.
func (s *SQLStore) DeleteCategory(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	return checkAffected(result, err, "delete category", "category", id)
}

// checkAffected maps a write result to NotFound when no row matched.
func checkAffected(result sql.Result, err error, op, kind, id string) error {
	if err != nil {
		return &todo.PersistenceError{Op: op, Err: err}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &todo.PersistenceError{Op: op, Err: err}
	}
	if n == 0 {
		return todo.NotFound(kind, id)
	}
	return nil
}
