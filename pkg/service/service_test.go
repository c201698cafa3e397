package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdl/pkg/database"
	"tdl/pkg/query"
	"tdl/pkg/repository"
	"tdl/pkg/todo"
)

// fakeClock advances by step on every reading.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// flakyStore fails writes once a budget is spent.
type flakyStore struct {
	*database.MemoryStore
	mu      sync.Mutex
	budget  int
	failErr error
}

func (f *flakyStore) spend() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.budget <= 0 {
		return f.failErr
	}
	f.budget--
	return nil
}

func (f *flakyStore) UpdateTask(ctx context.Context, t database.TaskRecord) (database.TaskRecord, error) {
	if err := f.spend(); err != nil {
		return database.TaskRecord{}, err
	}
	return f.MemoryStore.UpdateTask(ctx, t)
}

func (f *flakyStore) DeleteTask(ctx context.Context, id string) error {
	if err := f.spend(); err != nil {
		return err
	}
	return f.MemoryStore.DeleteTask(ctx, id)
}

var start = time.Date(2026, 5, 4, 10, 0, 0, 0, time.Local)

func newService(t *testing.T, step time.Duration) (*Service, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: start, step: step}
	return New(repository.New(database.NewMemoryStore()), WithClock(clock.Now)), clock
}

func strPtr(s string) *string { return &s }

func TestAdd_Defaults(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	added, err := svc.Add(ctx, NewTask{Title: "Buy milk"})
	require.NoError(t, err)

	got, err := svc.Task(ctx, added.ID)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", got.Title)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, todo.PriorityMedium, got.Priority)
	assert.Nil(t, got.Description)
	assert.Nil(t, got.DueDate)
	assert.True(t, got.CreatedAt.Equal(got.UpdatedAt))
	assert.True(t, got.CreatedAt.Equal(start))
}

func TestAdd_Validation(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	tests := []struct {
		name string
		in   NewTask
	}{
		{name: "empty title", in: NewTask{Title: ""}},
		{name: "blank title", in: NewTask{Title: "  \t\n"}},
		{name: "bad priority", in: NewTask{Title: "x", Priority: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(ctx, tt.in)
			assert.ErrorIs(t, err, todo.ErrValidation)
		})
	}

	all, err := svc.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAdd_TrimsAndDropsBlankDescription(t *testing.T) {
	svc, _ := newService(t, time.Second)

	added, err := svc.Add(context.Background(), NewTask{Title: "  Call mom ", Description: strPtr("   ")})
	require.NoError(t, err)
	assert.Equal(t, "Call mom", added.Title)
	assert.Nil(t, added.Description)
}

func TestUpdate_PartialMerge(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	due := start.Add(72 * time.Hour)
	added, err := svc.Add(ctx, NewTask{
		Title:       "Write report",
		Description: strPtr("Q2 numbers"),
		Priority:    todo.PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, added.ID, todo.Patch{IsCompleted: todo.Set(true)})
	require.NoError(t, err)

	assert.True(t, updated.IsCompleted)
	assert.Equal(t, added.Title, updated.Title)
	assert.Equal(t, added.Description, updated.Description)
	assert.Equal(t, added.Priority, updated.Priority)
	require.NotNil(t, updated.DueDate)
	assert.True(t, due.Equal(*updated.DueDate))
	assert.Equal(t, added.ID, updated.ID)
	assert.True(t, added.CreatedAt.Equal(updated.CreatedAt))
	assert.True(t, updated.UpdatedAt.After(added.UpdatedAt))

	cleared, err := svc.Update(ctx, added.ID, todo.Patch{DueDate: todo.Set[*time.Time](nil), Description: todo.Set[*string](nil)})
	require.NoError(t, err)
	assert.Nil(t, cleared.DueDate)
	assert.Nil(t, cleared.Description)
	assert.True(t, cleared.IsCompleted)
}

func TestUpdate_UpdatedAtStrictlyIncreasesWithFrozenClock(t *testing.T) {
	svc, _ := newService(t, 0)
	ctx := context.Background()

	added, err := svc.Add(ctx, NewTask{Title: "frozen"})
	require.NoError(t, err)

	first, err := svc.Update(ctx, added.ID, todo.Patch{Title: todo.Set("frozen 2")})
	require.NoError(t, err)
	second, err := svc.Update(ctx, added.ID, todo.Patch{Title: todo.Set("frozen 3")})
	require.NoError(t, err)

	assert.True(t, first.UpdatedAt.After(added.UpdatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, time.Microsecond, second.UpdatedAt.Sub(first.UpdatedAt))
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), todo.Patch{Title: todo.Set("x")})
	assert.ErrorIs(t, err, todo.ErrNotFound)

	added, err := svc.Add(ctx, NewTask{Title: "keep"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, added.ID, todo.Patch{Title: todo.Set(" ")})
	assert.ErrorIs(t, err, todo.ErrValidation)

	_, err = svc.Update(ctx, added.ID, todo.Patch{Priority: todo.Set(todo.Priority(0))})
	assert.ErrorIs(t, err, todo.ErrValidation)

	got, err := svc.Task(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title)
}

func TestToggleCompletion(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	added, err := svc.Add(ctx, NewTask{Title: "flip"})
	require.NoError(t, err)

	on, err := svc.ToggleCompletion(ctx, added.ID)
	require.NoError(t, err)
	assert.True(t, on.IsCompleted)
	assert.True(t, on.UpdatedAt.After(added.UpdatedAt))

	off, err := svc.ToggleCompletion(ctx, added.ID)
	require.NoError(t, err)
	assert.False(t, off.IsCompleted)

	_, err = svc.ToggleCompletion(ctx, uuid.New())
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	added, err := svc.Add(ctx, NewTask{Title: "bye"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, added.ID))

	_, err = svc.Task(ctx, added.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	err = svc.Delete(ctx, added.ID)
	assert.ErrorIs(t, err, todo.ErrNotFound)
}

func TestSearch_Scenario(t *testing.T) {
	svc, _ := newService(t, time.Minute)
	ctx := context.Background()

	a, err := svc.Add(ctx, NewTask{Title: "A", Priority: todo.PriorityHigh})
	require.NoError(t, err)
	b, err := svc.Add(ctx, NewTask{Title: "B", Priority: todo.PriorityLow})
	require.NoError(t, err)

	byPriority, err := svc.Search(ctx, query.Criteria{SortKey: query.SortByPriority})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids(byPriority))

	byCreated, err := svc.Search(ctx, query.Criteria{SortKey: query.SortByCreatedAt, Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, ids(byCreated))

	unsorted, err := svc.Search(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID, a.ID}, ids(unsorted))
}

func TestMarkCompleted(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	high := todo.PriorityHigh
	a, _ := svc.Add(ctx, NewTask{Title: "a", Priority: todo.PriorityHigh})
	b, _ := svc.Add(ctx, NewTask{Title: "b", Priority: todo.PriorityHigh, Completed: true})
	c, _ := svc.Add(ctx, NewTask{Title: "c", Priority: todo.PriorityLow})

	n, err := svc.MarkCompleted(ctx, query.Criteria{Priority: &high})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := svc.Task(ctx, a.ID)
	assert.True(t, got.IsCompleted)
	got, _ = svc.Task(ctx, b.ID)
	assert.True(t, got.IsCompleted)
	got, _ = svc.Task(ctx, c.ID)
	assert.False(t, got.IsCompleted)
}

func TestDeleteCompleted(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx := context.Background()

	keep, _ := svc.Add(ctx, NewTask{Title: "pending"})
	_, _ = svc.Add(ctx, NewTask{Title: "done 1", Completed: true})
	_, _ = svc.Add(ctx, NewTask{Title: "done 2", Completed: true})

	n, err := svc.DeleteCompleted(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := svc.Tasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep.ID}, ids(all))
}

func TestBulk_PartialFailureIsNotRolledBack(t *testing.T) {
	boom := &todo.PersistenceError{Op: "update task", Err: errors.New("disk full")}
	store := &flakyStore{MemoryStore: database.NewMemoryStore(), budget: 0, failErr: boom}
	clock := &fakeClock{now: start, step: time.Second}
	svc := New(repository.New(store), WithClock(clock.Now))
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Add(ctx, NewTask{Title: title})
		require.NoError(t, err)
	}

	store.budget = 1
	n, err := svc.MarkCompleted(ctx, query.Criteria{})
	assert.ErrorIs(t, err, todo.ErrPersistence)
	assert.Equal(t, 1, n)

	done, err := svc.Search(ctx, query.Criteria{}.WithCompleted(true))
	require.NoError(t, err)
	assert.Len(t, done, 1)
}

func TestBulk_StopsOnCancelledContext(t *testing.T) {
	svc, _ := newService(t, time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	for _, title := range []string{"one", "two"} {
		_, err := svc.Add(ctx, NewTask{Title: title})
		require.NoError(t, err)
	}

	cancel()
	n, err := svc.MarkCompleted(ctx, query.Criteria{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

func TestStatistics(t *testing.T) {
	svc, _ := newService(t, time.Minute)
	ctx := context.Background()

	a, _ := svc.Add(ctx, NewTask{Title: "a", Priority: todo.PriorityLow})
	_, _ = svc.Add(ctx, NewTask{Title: "b"})
	_, err := svc.ToggleCompletion(ctx, a.ID)
	require.NoError(t, err)

	s, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.TotalTodos)
	assert.Equal(t, 1, s.CompletedTodos)
	assert.Equal(t, 0.5, s.CompletionRate)
	assert.Equal(t, 1, s.PriorityBreakdown[todo.PriorityLow])
	assert.Equal(t, 1, s.PriorityBreakdown[todo.PriorityMedium])
	assert.Equal(t, 0, s.PriorityBreakdown[todo.PriorityHigh])
	require.NotNil(t, s.AverageCompletionTime)
	assert.Equal(t, 2*time.Minute, *s.AverageCompletionTime)
}

func TestResolveID(t *testing.T) {
	ids := []uuid.UUID{
		uuid.MustParse("aaaa1111-0000-4000-8000-000000000001"),
		uuid.MustParse("aaaa2222-0000-4000-8000-000000000002"),
		uuid.MustParse("bbbb1111-0000-4000-8000-000000000003"),
	}
	next := 0
	clock := &fakeClock{now: start, step: time.Second}
	svc := New(repository.New(database.NewMemoryStore()),
		WithClock(clock.Now),
		WithIDGenerator(func() uuid.UUID { id := ids[next]; next++; return id }),
	)
	ctx := context.Background()
	for _, title := range []string{"1", "2", "3"} {
		_, err := svc.Add(ctx, NewTask{Title: title})
		require.NoError(t, err)
	}

	id, err := svc.ResolveID(ctx, "bbbb")
	require.NoError(t, err)
	assert.Equal(t, ids[2], id)

	id, err = svc.ResolveID(ctx, "AAAA2")
	require.NoError(t, err)
	assert.Equal(t, ids[1], id)

	_, err = svc.ResolveID(ctx, "aaaa")
	assert.ErrorIs(t, err, todo.ErrValidation)

	_, err = svc.ResolveID(ctx, "cccc")
	assert.ErrorIs(t, err, todo.ErrNotFound)

	id, err = svc.ResolveID(ctx, ids[0].String())
	require.NoError(t, err)
	assert.Equal(t, ids[0], id)
}

func ids(tasks []todo.Task) []uuid.UUID {
	out := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
