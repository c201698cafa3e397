package query

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"tdl/pkg/todo"
)

var base = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func newTask(title string, opts ...func(*todo.Task)) todo.Task {
	t := todo.Task{
		ID:        uuid.New(),
		Title:     title,
		Priority:  todo.PriorityMedium,
		CreatedAt: base,
		UpdatedAt: base,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func titles(tasks []todo.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func fixture() []todo.Task {
	return []todo.Task{
		newTask("Buy milk", func(t *todo.Task) {
			t.Description = ptr("semi-skimmed, two liters")
			t.Priority = todo.PriorityLow
			t.DueDate = ptr(base.Add(24 * time.Hour))
			t.CreatedAt = base.Add(3 * time.Hour)
		}),
		newTask("Write report", func(t *todo.Task) {
			t.Priority = todo.PriorityHigh
			t.IsCompleted = true
			t.CreatedAt = base.Add(2 * time.Hour)
		}),
		newTask("call plumber", func(t *todo.Task) {
			t.Description = ptr("Kitchen MILK tap leaks")
			t.DueDate = ptr(base.Add(26 * time.Hour))
			t.CreatedAt = base.Add(time.Hour)
		}),
		newTask("Água das plantas", func(t *todo.Task) {
			t.IsCompleted = true
			t.DueDate = ptr(base)
		}),
	}
}

func TestApply_NoCriteriaIsIdentity(t *testing.T) {
	tasks := fixture()

	got := Apply(tasks, Criteria{})

	assert.Equal(t, tasks, got)
	got[0].Title = "mutated"
	assert.Equal(t, "Buy milk", tasks[0].Title, "result must not alias the input")
}

func TestApply_EmptyInput(t *testing.T) {
	got := Apply(nil, Criteria{Query: "x", SortKey: SortByTitle})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_Text(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "title case-insensitive", query: "WRITE", want: []string{"Write report"}},
		{name: "title or description", query: "milk", want: []string{"Buy milk", "call plumber"}},
		{name: "non-ascii", query: "ÁGUA", want: []string{"Água das plantas"}},
		{name: "no match", query: "garage", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(fixture(), Criteria{Query: tt.query})
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestFilter_CompletionPartitions(t *testing.T) {
	tasks := fixture()

	done := Apply(tasks, Criteria{}.WithCompleted(true))
	open := Apply(tasks, Criteria{}.WithCompleted(false))

	assert.Len(t, append(done, open...), len(tasks))
	seen := map[uuid.UUID]bool{}
	for _, task := range append(done, open...) {
		assert.False(t, seen[task.ID], "task %s appears twice", task.Title)
		seen[task.ID] = true
	}
	for _, task := range done {
		assert.True(t, task.IsCompleted)
	}
	for _, task := range open {
		assert.False(t, task.IsCompleted)
	}
}

func TestFilter_Priority(t *testing.T) {
	got := Apply(fixture(), Criteria{Priority: ptr(todo.PriorityMedium)})
	assert.Equal(t, []string{"call plumber", "Água das plantas"}, titles(got))
}

func TestFilter_DueOn(t *testing.T) {
	t.Run("same calendar day", func(t *testing.T) {
		day := time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)
		got := Apply(fixture(), Criteria{DueOn: &day})
		assert.Equal(t, []string{"Buy milk", "call plumber"}, titles(got))
	})

	t.Run("uses the day of the requested location", func(t *testing.T) {
		// 2026-04-11 09:00 UTC is 2026-04-10 in UTC-10.
		loc := time.FixedZone("UTC-10", -10*3600)
		day := time.Date(2026, 4, 10, 12, 0, 0, 0, loc)
		got := Apply(fixture(), Criteria{DueOn: &day})
		assert.Equal(t, []string{"Buy milk"}, titles(got))
	})

	t.Run("tasks without due date are excluded", func(t *testing.T) {
		got := Apply(fixture(), Criteria{DueOn: ptr(base)})
		assert.Equal(t, []string{"Água das plantas"}, titles(got))
	})
}

func TestFilter_Composition(t *testing.T) {
	got := Apply(fixture(), Criteria{
		Query:       "milk",
		IsCompleted: ptr(false),
		Priority:    ptr(todo.PriorityMedium),
	})
	assert.Equal(t, []string{"call plumber"}, titles(got))
}

func TestSort_Scenario(t *testing.T) {
	t1 := base
	t2 := base.Add(time.Minute)
	tasks := []todo.Task{
		newTask("A", func(t *todo.Task) { t.Priority = todo.PriorityHigh; t.CreatedAt = t1 }),
		newTask("B", func(t *todo.Task) { t.Priority = todo.PriorityLow; t.CreatedAt = t2 }),
	}

	byPriority := Apply(tasks, Criteria{SortKey: SortByPriority, Ascending: false})
	assert.Equal(t, []string{"A", "B"}, titles(byPriority))

	byCreated := Apply(tasks, Criteria{SortKey: SortByCreatedAt, Ascending: true})
	assert.Equal(t, []string{"A", "B"}, titles(byCreated))
}

func TestSort_Stable(t *testing.T) {
	tasks := []todo.Task{
		newTask("first"),
		newTask("second", func(t *todo.Task) { t.Priority = todo.PriorityHigh }),
		newTask("third"),
		newTask("fourth"),
	}

	asc := Apply(tasks, Criteria{SortKey: SortByPriority, Ascending: true})
	assert.Equal(t, []string{"first", "third", "fourth", "second"}, titles(asc))

	desc := Apply(tasks, Criteria{SortKey: SortByPriority, Ascending: false})
	assert.Equal(t, []string{"second", "first", "third", "fourth"}, titles(desc))

	// all createdAt equal: order untouched either way
	assert.Equal(t, titles(tasks), titles(Apply(tasks, Criteria{SortKey: SortByCreatedAt, Ascending: true})))
	assert.Equal(t, titles(tasks), titles(Apply(tasks, Criteria{SortKey: SortByCreatedAt, Ascending: false})))
}

func TestSort_DueDateMissingLast(t *testing.T) {
	tasks := []todo.Task{
		newTask("none-1"),
		newTask("late", func(t *todo.Task) { t.DueDate = ptr(base.Add(48 * time.Hour)) }),
		newTask("none-2"),
		newTask("early", func(t *todo.Task) { t.DueDate = ptr(base) }),
	}

	asc := Apply(tasks, Criteria{SortKey: SortByDueDate, Ascending: true})
	assert.Equal(t, []string{"early", "late", "none-1", "none-2"}, titles(asc))

	desc := Apply(tasks, Criteria{SortKey: SortByDueDate, Ascending: false})
	assert.Equal(t, []string{"none-1", "none-2", "late", "early"}, titles(desc))
}

func TestSort_UpdatedAt(t *testing.T) {
	tasks := []todo.Task{
		newTask("old", func(t *todo.Task) { t.UpdatedAt = base }),
		newTask("new", func(t *todo.Task) { t.UpdatedAt = base.Add(time.Hour) }),
	}
	got := Apply(tasks, Criteria{SortKey: SortByUpdatedAt})
	assert.Equal(t, []string{"new", "old"}, titles(got))
}

func TestSort_TitleCollation(t *testing.T) {
	tasks := []todo.Task{newTask("banana"), newTask("Água"), newTask("apple"), newTask("Cherry")}

	got := NewEngine(language.English).Apply(tasks, Criteria{SortKey: SortByTitle, Ascending: true})

	assert.Equal(t, []string{"Água", "apple", "banana", "Cherry"}, titles(got))
}

func TestParseSortKey(t *testing.T) {
	for _, k := range SortKeys() {
		got, err := ParseSortKey(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseSortKey("size")
	assert.ErrorIs(t, err, todo.ErrValidation)
	assert.Equal(t, SortNone, SortByTitle.Next())
}
