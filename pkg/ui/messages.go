package ui

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"tdl/pkg/query"
	"tdl/pkg/service"
	"tdl/pkg/stats"
	"tdl/pkg/todo"
)

type tasksLoadedMsg struct {
	generation int
	all        []todo.Task
	visible    []todo.Task
	err        error
}

type categoriesLoadedMsg struct {
	categories []todo.Category
	err        error
}

type statsLoadedMsg struct {
	snapshot stats.Snapshot
	err      error
}

// mutationDoneMsg reports the end of a create/update/delete use-case.
type mutationDoneMsg struct {
	op     Operation
	status string
	err    error
}

// reload bumps the generation and fetches the current view.
func (m *Model) reload() tea.Cmd {
	m.generation++
	m.loading = true
	return m.fetch()
}

// fetch loads every task and the visible subset for the current generation.
func (m Model) fetch() tea.Cmd {
	gen, ctx, svc, c := m.generation, m.ctx, m.svc, m.criteria()

	return func() tea.Msg {
		all, err := svc.Tasks(ctx)
		if err != nil {
			return tasksLoadedMsg{generation: gen, err: err}
		}
		visible, err := svc.Search(ctx, c)
		return tasksLoadedMsg{generation: gen, all: all, visible: visible, err: err}
	}
}

func (m Model) loadCategories() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		categories, err := svc.Categories(ctx)
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

func (m Model) loadStats() tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		snapshot, err := svc.Statistics(ctx)
		return statsLoadedMsg{snapshot: snapshot, err: err}
	}
}

func addTaskCmd(m Model, in service.NewTask) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		t, err := svc.Add(ctx, in)
		return mutationDoneMsg{op: OpCreate, status: "added " + t.ShortID(), err: err}
	}
}

func updateTaskCmd(m Model, id uuid.UUID, p todo.Patch) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.Update(ctx, id, p)
		return mutationDoneMsg{op: OpUpdate, err: err}
	}
}

func toggleTaskCmd(m Model, id uuid.UUID) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.ToggleCompletion(ctx, id)
		return mutationDoneMsg{op: OpUpdate, err: err}
	}
}

func deleteTaskCmd(m Model, id uuid.UUID) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		err := svc.Delete(ctx, id)
		return mutationDoneMsg{op: OpDelete, status: "deleted", err: err}
	}
}

func markCompletedCmd(m Model, c query.Criteria) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		n, err := svc.MarkCompleted(ctx, c)
		return mutationDoneMsg{op: OpUpdate, status: plural(n, "task") + " marked done", err: err}
	}
}

func purgeCompletedCmd(m Model, c query.Criteria) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		n, err := svc.DeleteCompleted(ctx, c)
		return mutationDoneMsg{op: OpDelete, status: plural(n, "task") + " purged", err: err}
	}
}

// fail records a failure for display and keeps the detail in the log only.
func (m *Model) fail(op Operation, err error) {
	slog.Error("operation failed", "op", op.String(), "error", err)
	m.errMsg = ErrorMessage(op)
	m.status = ""
}
