package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"

	"tdl/pkg/query"
	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// Filter is the set of selection flags shared by list, complete and purge.
type Filter struct {
	Date     string
	Query    string
	Priority string
	Done     bool
	Undone   bool
	Sort     string
	Asc      bool
}

// Criteria converts the flags into a query.
func (f Filter) Criteria() (query.Criteria, error) {
	var c query.Criteria

	if f.Done && f.Undone {
		return c, &todo.ValidationError{Field: "filter", Reason: "--done and --undone are exclusive"}
	}
	if f.Done {
		c = c.WithCompleted(true)
	} else if f.Undone {
		c = c.WithCompleted(false)
	}

	if f.Date != "" {
		d, err := parseDate(f.Date)
		if err != nil {
			return c, err
		}
		c.DueOn = &d
	}

	if f.Priority != "" {
		p, err := todo.ParsePriority(f.Priority)
		if err != nil {
			return c, err
		}
		c.Priority = &p
	}

	key, err := query.ParseSortKey(f.Sort)
	if err != nil {
		return c, err
	}
	c.SortKey = key
	c.Ascending = f.Asc
	c.Query = f.Query
	return c, nil
}

// List prints the tasks selected by f.
func List(ctx context.Context, svc *service.Service, w io.Writer, f Filter) error {
	c, err := f.Criteria()
	if err != nil {
		return err
	}

	tasks, err := svc.Search(ctx, c)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return nil
	}

	names, err := categoryNames(ctx, svc)
	if err != nil {
		return err
	}
	printTasks(w, tasks, names)
	return nil
}

func printTasks(w io.Writer, tasks []todo.Task, categories map[uuid.UUID]string) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ShortID(),
			checkbox(t.IsCompleted),
			t.Priority.String(),
			t.Title,
			categoryLabel(t.CategoryID, categories),
			dueLabel(t),
		})
	}

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "", "PRIORITY", "TITLE", "CATEGORY", "DUE").
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func categoryLabel(id *uuid.UUID, categories map[uuid.UUID]string) string {
	if id == nil {
		return ""
	}
	if name, ok := categories[*id]; ok {
		return name
	}
	return "?"
}

func dueLabel(t todo.Task) string {
	if !t.HasDueDate() {
		return ""
	}
	return t.DueDate.Format(dateLayout)
}
