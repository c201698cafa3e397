package database

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"tdl/pkg/todo"
)

var errDuplicateID = errors.New("duplicate id")

// MemoryStore keeps records in maps. It satisfies the same contract as
// SQLStore and is used for the "memory" driver and in tests.
type MemoryStore struct {
	mu         sync.RWMutex
	tasks      map[string]TaskRecord
	categories map[string]CategoryRecord
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks:      make(map[string]TaskRecord),
		categories: make(map[string]CategoryRecord),
	}
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}

// LoadTasks returns every task, newest first.
func (s *MemoryStore) LoadTasks(_ context.Context) ([]TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]TaskRecord, 0, len(s.tasks))
	for _, t := range s.tasks {
		items = append(items, t)
	}
	slices.SortFunc(items, func(a, b TaskRecord) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *MemoryStore) LoadTask(_ context.Context, id string) (TaskRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return TaskRecord{}, todo.NotFound("task", id)
	}
	return t, nil
}

func (s *MemoryStore) AddTask(_ context.Context, task TaskRecord) (TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return TaskRecord{}, &todo.PersistenceError{Op: "add task", Err: errDuplicateID}
	}
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) UpdateTask(_ context.Context, task TaskRecord) (TaskRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[task.ID]
	if !ok {
		return TaskRecord{}, todo.NotFound("task", task.ID)
	}
	task.Created = current.Created
	s.tasks[task.ID] = task
	return task, nil
}

func (s *MemoryStore) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return todo.NotFound("task", id)
	}
	delete(s.tasks, id)
	return nil
}

// LoadCategories returns every category ordered by name.
func (s *MemoryStore) LoadCategories(_ context.Context) ([]CategoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]CategoryRecord, 0, len(s.categories))
	for _, c := range s.categories {
		items = append(items, c)
	}
	slices.SortFunc(items, func(a, b CategoryRecord) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return items, nil
}

func (s *MemoryStore) LoadCategory(_ context.Context, id string) (CategoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.categories[id]
	if !ok {
		return CategoryRecord{}, todo.NotFound("category", id)
	}
	return c, nil
}

func (s *MemoryStore) AddCategory(_ context.Context, c CategoryRecord) (CategoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[c.ID]; exists {
		return CategoryRecord{}, &todo.PersistenceError{Op: "add category", Err: errDuplicateID}
	}
	s.categories[c.ID] = c
	return c, nil
}

func (s *MemoryStore) UpdateCategory(_ context.Context, c CategoryRecord) (CategoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.categories[c.ID]
	if !ok {
		return CategoryRecord{}, todo.NotFound("category", c.ID)
	}
	c.Created = current.Created
	s.categories[c.ID] = c
	return c, nil
}

func (s *MemoryStore) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return todo.NotFound("category", id)
	}
	delete(s.categories, id)
	return nil
}
