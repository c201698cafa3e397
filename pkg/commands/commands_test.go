package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tdl/pkg/database"
	"tdl/pkg/repository"
	"tdl/pkg/service"
	"tdl/pkg/todo"
)

func newService(t *testing.T) *service.Service {
	t.Helper()
	svc := service.New(repository.New(database.NewMemoryStore()))
	_, err := svc.SeedDefaultCategories(context.Background())
	require.NoError(t, err)
	return svc
}

func onlyTask(t *testing.T, svc *service.Service) todo.Task {
	t.Helper()
	tasks, err := svc.Tasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	return tasks[0]
}

func TestAdd_WithTag(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var out bytes.Buffer

	err := Add(ctx, svc, &out, "Call the bank +work", AddOptions{Date: "2025-05-06", Priority: "high"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Added ")

	task := onlyTask(t, svc)
	assert.Equal(t, "Call the bank", task.Title)
	assert.Equal(t, todo.PriorityHigh, task.Priority)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, "2025-05-06", task.DueDate.Format(dateLayout))

	work, err := svc.FindCategory(ctx, "Work")
	require.NoError(t, err)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, work.ID, *task.CategoryID)
}

func TestAdd_Errors(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var out bytes.Buffer

	err := Add(ctx, svc, &out, "x +nosuch", AddOptions{})
	assert.ErrorIs(t, err, todo.ErrNotFound)

	err = Add(ctx, svc, &out, "x +work +home", AddOptions{})
	assert.ErrorIs(t, err, todo.ErrValidation)

	err = Add(ctx, svc, &out, "x", AddOptions{Date: "06.05.2025"})
	assert.ErrorIs(t, err, todo.ErrValidation)

	err = Add(ctx, svc, &out, "+work", AddOptions{})
	assert.ErrorIs(t, err, todo.ErrValidation, "a title made only of tags is blank")
}

func TestAdd_NoDate(t *testing.T) {
	svc := newService(t)
	require.NoError(t, Add(context.Background(), svc, &bytes.Buffer{}, "someday", AddOptions{NoDate: true}))
	assert.Nil(t, onlyTask(t, svc).DueDate)
}

func TestTags(t *testing.T) {
	assert.Equal(t, []string{"work", "x1"}, extractTags("a +work b +x1"))
	assert.Equal(t, "a b", removeTags("a +work b +x1"))
	assert.Nil(t, extractTags("no tags"))
}

func TestFilter_Criteria(t *testing.T) {
	c, err := Filter{Done: true, Priority: "low", Date: "2025-01-02", Sort: "title", Asc: true, Query: "q"}.Criteria()
	require.NoError(t, err)
	require.NotNil(t, c.IsCompleted)
	assert.True(t, *c.IsCompleted)
	require.NotNil(t, c.Priority)
	assert.Equal(t, todo.PriorityLow, *c.Priority)
	require.NotNil(t, c.DueOn)
	assert.Equal(t, "q", c.Query)
	assert.True(t, c.Ascending)

	_, err = Filter{Done: true, Undone: true}.Criteria()
	assert.ErrorIs(t, err, todo.ErrValidation)

	_, err = Filter{Sort: "color"}.Criteria()
	assert.ErrorIs(t, err, todo.ErrValidation)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "Buy milk +shopping", AddOptions{NoDate: true}))
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "Write report", AddOptions{NoDate: true}))

	var out bytes.Buffer
	require.NoError(t, List(ctx, svc, &out, Filter{Query: "MILK"}))
	assert.Contains(t, out.String(), "Buy milk")
	assert.Contains(t, out.String(), "Shopping")
	assert.NotContains(t, out.String(), "Write report")

	out.Reset()
	require.NoError(t, List(ctx, svc, &out, Filter{Done: true}))
	assert.Equal(t, "No tasks.\n", out.String())
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "draft +work", AddOptions{Date: "2025-01-01"}))
	task := onlyTask(t, svc)

	title, none, empty, prio := "final", "none", "", "low"
	err := Edit(ctx, svc, &bytes.Buffer{}, task.ShortID(), EditOptions{
		Title:    &title,
		Date:     &none,
		Category: &empty,
		Priority: &prio,
	})
	require.NoError(t, err)

	got := onlyTask(t, svc)
	assert.Equal(t, "final", got.Title)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.CategoryID)
	assert.Equal(t, todo.PriorityLow, got.Priority)

	err = Edit(ctx, svc, &bytes.Buffer{}, task.ShortID(), EditOptions{})
	assert.ErrorIs(t, err, todo.ErrValidation)
}

func TestToggleAndRemove(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "once", AddOptions{}))
	task := onlyTask(t, svc)

	var out bytes.Buffer
	require.NoError(t, Toggle(ctx, svc, &out, task.ID.String()[:6]))
	assert.True(t, strings.HasPrefix(out.String(), "[x] "))
	assert.True(t, onlyTask(t, svc).IsCompleted)

	require.NoError(t, Remove(ctx, svc, &out, []string{task.ShortID()}))
	tasks, err := svc.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	assert.ErrorIs(t, Remove(ctx, svc, &out, []string{task.ShortID()}), todo.ErrNotFound)
}

func TestCompleteAndPurge(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, title, AddOptions{Date: "2025-01-01"}))
	}
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "later", AddOptions{Date: "2025-02-01"}))

	var out bytes.Buffer
	require.NoError(t, Complete(ctx, svc, &out, Filter{Date: "2025-01-01"}))
	assert.Equal(t, "Marked 3 task(s) done\n", out.String())

	out.Reset()
	require.NoError(t, Purge(ctx, svc, strings.NewReader("n\n"), &out, Filter{}, false))
	assert.Contains(t, out.String(), "Operation cancelled.")

	out.Reset()
	require.NoError(t, Purge(ctx, svc, strings.NewReader("y\n"), &out, Filter{}, false))
	assert.Contains(t, out.String(), "Successfully deleted 3 task(s)")
	assert.Equal(t, "later", onlyTask(t, svc).Title)
}

func TestExportImport_Txt(t *testing.T) {
	ctx := context.Background()
	src := newService(t)
	require.NoError(t, Add(ctx, src, &bytes.Buffer{}, "undated", AddOptions{NoDate: true}))
	require.NoError(t, Add(ctx, src, &bytes.Buffer{}, "pay rent +personal", AddOptions{Date: "2025-03-01"}))
	require.NoError(t, Add(ctx, src, &bytes.Buffer{}, "gym", AddOptions{Date: "2025-03-02"}))
	tasks, err := src.Tasks(ctx)
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Title == "gym" {
			_, err := src.ToggleCompletion(ctx, task.ID)
			require.NoError(t, err)
		}
	}

	file := filepath.Join(t.TempDir(), "out", "tasks.txt")
	require.NoError(t, Export(ctx, src, &bytes.Buffer{}, file, "txt"))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "- [ ] undated\n\n01.03.2025:\n- [ ] pay rent +Personal\n\n02.03.2025:\n- [x] gym\n", string(content))

	dst := service.New(repository.New(database.NewMemoryStore()))
	var out bytes.Buffer
	require.NoError(t, Import(ctx, dst, &out, file))
	assert.Contains(t, out.String(), "Successfully imported 3 task(s)")

	imported, err := dst.Tasks(ctx)
	require.NoError(t, err)
	byTitle := make(map[string]todo.Task)
	for _, task := range imported {
		byTitle[task.Title] = task
	}
	assert.Nil(t, byTitle["undated"].DueDate)
	require.NotNil(t, byTitle["gym"].DueDate)
	assert.Equal(t, "2025-03-02", byTitle["gym"].DueDate.Format(dateLayout))
	assert.True(t, byTitle["gym"].IsCompleted)

	personal, err := dst.FindCategory(ctx, "personal")
	require.NoError(t, err, "missing categories are created on import")
	require.NotNil(t, byTitle["pay rent"].CategoryID)
	assert.Equal(t, personal.ID, *byTitle["pay rent"].CategoryID)
}

func TestParseTxt_Headers(t *testing.T) {
	input := `
2025-04-05:
- [x] iso
 - [ ] indented
15.06.2025
- plain
- [ ] meeting at 2025-01-01 room 4
not a task
`
	entries, err := parseTxt(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "iso", entries[0].task.Title)
	assert.True(t, entries[0].task.Completed)
	assert.Equal(t, "2025-04-05", entries[0].task.DueDate.Format(dateLayout))
	assert.Equal(t, "indented", entries[1].task.Title)
	assert.Equal(t, "plain", entries[2].task.Title)
	assert.Equal(t, time.June, entries[2].task.DueDate.Month())
	assert.Equal(t, "meeting at 2025-01-01 room 4", entries[3].task.Title)
	assert.Equal(t, 15, entries[3].task.DueDate.Day())
}

func TestExportImport_JSON(t *testing.T) {
	ctx := context.Background()
	src := newService(t)
	desc := "with milk"
	_, err := src.Add(ctx, service.NewTask{Title: "coffee", Description: &desc, Priority: todo.PriorityLow, Completed: true})
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, Export(ctx, src, &bytes.Buffer{}, file, "json"))

	dst := newService(t)
	require.NoError(t, Import(ctx, dst, &bytes.Buffer{}, file))

	got := onlyTask(t, dst)
	assert.Equal(t, "coffee", got.Title)
	assert.Equal(t, "with milk", got.DescriptionText())
	assert.Equal(t, todo.PriorityLow, got.Priority)
	assert.True(t, got.IsCompleted)
	assert.Nil(t, got.DueDate)
}

func TestExport_UnknownType(t *testing.T) {
	err := Export(context.Background(), newService(t), &bytes.Buffer{}, filepath.Join(t.TempDir(), "x"), "csv")
	assert.ErrorIs(t, err, todo.ErrValidation)
}

func TestImport_SkipsInvalidTasks(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"title":"  "},{"title":"ok","priority":"urgent"}]`), 0644))

	svc := newService(t)
	var out bytes.Buffer
	require.NoError(t, Import(context.Background(), svc, &out, file))
	assert.Contains(t, out.String(), "Error adding task")
	assert.Contains(t, out.String(), "Successfully imported 1 task(s)")
	assert.Equal(t, todo.DefaultPriority, onlyTask(t, svc).Priority)
}

// newServiceWithCategoryID returns a service whose first generated id is id,
// which the "Work" category then owns.
func newServiceWithCategoryID(t *testing.T, id uuid.UUID) (*service.Service, todo.Category) {
	t.Helper()
	first := true
	svc := service.New(repository.New(database.NewMemoryStore()), service.WithIDGenerator(func() uuid.UUID {
		if first {
			first = false
			return id
		}
		return uuid.New()
	}))
	work, err := svc.AddCategory(context.Background(), service.NewCategory{Name: "Work"})
	require.NoError(t, err)
	require.Equal(t, id, work.ID)
	return svc, work
}

func TestAdd_TagDoesNotMatchCategoryIDPrefix(t *testing.T) {
	ctx := context.Background()
	svc, _ := newServiceWithCategoryID(t, uuid.MustParse("ab000000-0000-4000-8000-000000000000"))

	err := Add(ctx, svc, &bytes.Buffer{}, "x +ab", AddOptions{NoDate: true})
	assert.ErrorIs(t, err, todo.ErrNotFound)

	tasks, err := svc.Tasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestImport_CategoryNamedLikeIDPrefixIsCreated(t *testing.T) {
	ctx := context.Background()
	svc, work := newServiceWithCategoryID(t, uuid.MustParse("ab000000-0000-4000-8000-000000000000"))

	file := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"title":"t","category":"ab"}]`), 0644))
	require.NoError(t, Import(ctx, svc, &bytes.Buffer{}, file))

	ab, err := svc.CategoryByName(ctx, "ab")
	require.NoError(t, err)
	assert.NotEqual(t, work.ID, ab.ID)

	task := onlyTask(t, svc)
	require.NotNil(t, task.CategoryID)
	assert.Equal(t, ab.ID, *task.CategoryID)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "a +work", AddOptions{}))
	require.NoError(t, Add(ctx, svc, &bytes.Buffer{}, "b", AddOptions{}))

	var out bytes.Buffer
	require.NoError(t, Stats(ctx, svc, &out))
	assert.Contains(t, out.String(), "Total:                2")
	assert.Contains(t, out.String(), "Completion rate:      0.0%")
	assert.Contains(t, out.String(), "Avg. completion time: no data")
	assert.Contains(t, out.String(), "Work")
}

func TestCategoryCommands(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	var out bytes.Buffer

	require.NoError(t, CategoryAdd(ctx, svc, &out, "Garden", "green", ""))
	assert.Equal(t, "Added category Garden (green)\n", out.String())
	assert.ErrorIs(t, CategoryAdd(ctx, svc, &out, "Bad", "teal", ""), todo.ErrValidation)

	name := "Yard"
	require.NoError(t, CategoryEdit(ctx, svc, &out, "garden", CategoryEditOptions{Name: &name}))

	out.Reset()
	require.NoError(t, CategoryList(ctx, svc, &out))
	assert.Contains(t, out.String(), "Yard")
	assert.Contains(t, out.String(), "folder")

	require.NoError(t, CategoryRemove(ctx, svc, &out, "yard"))
	_, err := svc.FindCategory(ctx, "Yard")
	assert.ErrorIs(t, err, todo.ErrNotFound)
}
