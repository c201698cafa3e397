package ui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// setRows rebuilds the table from m.items using the current grouping.
func (m *Model) setRows() {
	groups := GroupTasks(m.items, m.groupBy, m.categories)
	tableRows := []table.Row{}
	m.rows = nil

	for gi, group := range groups {
		if m.groupBy != GroupByNone {
			header := lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(m.styles.AccentColor)).
				Render(fmt.Sprintf("== %s ==", group.GroupName))
			tableRows = append(tableRows, table.Row{header})
			m.rows = append(m.rows, nil)
		}

		for i := range group.Tasks {
			task := group.Tasks[i]
			tableRows = append(tableRows, table.Row{m.renderTask(task)})
			m.rows = append(m.rows, &task)
		}

		if m.groupBy != GroupByNone && gi < len(groups)-1 {
			tableRows = append(tableRows, table.Row{""})
			m.rows = append(m.rows, nil)
		}
	}

	m.table.SetRows(tableRows)
	if c := m.table.Cursor(); c >= len(tableRows) && len(tableRows) > 0 {
		m.table.SetCursor(len(tableRows) - 1)
	}
}

func (m Model) renderTask(t todo.Task) string {
	status := "[ ]"
	if t.IsCompleted {
		status = "[x]"
	}

	title := t.Title
	if t.IsCompleted {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.CompletedColor)).Render(title)
	}

	parts := []string{status, renderPriority(t.Priority, m.styles), title}
	if c, ok := m.category(t.CategoryID); ok {
		parts = append(parts, renderCategory(c))
	}
	if t.DueDate != nil && m.viewMode != DayViewMode {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.styles.BorderColor)).
			Render("due "+t.DueDate.Format(dateLayout)))
	}
	return strings.Join(parts, " ")
}

func (m Model) category(id *uuid.UUID) (todo.Category, bool) {
	if id == nil {
		return todo.Category{}, false
	}
	for _, c := range m.categories {
		if c.ID == *id {
			return c, true
		}
	}
	return todo.Category{}, false
}

func (m Model) categoryByName(name string) (todo.Category, bool) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return todo.Category{}, false
}

// selectedTask returns the task under the cursor, nil on a header row.
func (m Model) selectedTask() *todo.Task {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.rows) {
		return nil
	}
	return m.rows[c]
}

// adjacentDueDay finds the closest calendar day before (dir < 0) or after
// (dir > 0) from that has a task due.
func adjacentDueDay(tasks []todo.Task, from time.Time, dir int) (time.Time, bool) {
	loc := from.Location()
	y, mo, d := from.Date()
	start := time.Date(y, mo, d, 0, 0, 0, 0, loc)

	var days []time.Time
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(loc)
		dy, dm, dd := due.Date()
		days = append(days, time.Date(dy, dm, dd, 0, 0, 0, 0, loc))
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	if dir < 0 {
		for i := len(days) - 1; i >= 0; i-- {
			if days[i].Before(start) {
				return days[i], true
			}
		}
		return time.Time{}, false
	}
	for _, day := range days {
		if day.After(start) {
			return day, true
		}
	}
	return time.Time{}, false
}

// daysWithTasks returns the days of month that have a task due.
func daysWithTasks(tasks []todo.Task, month time.Time) map[int]bool {
	days := make(map[int]bool)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(month.Location())
		if due.Year() == month.Year() && due.Month() == month.Month() {
			days[due.Day()] = true
		}
	}
	return days
}

func (m *Model) focusInput(i int) {
	m.activeInput = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// focusNextInput cycles through the form inputs
func (m *Model) focusNextInput() {
	m.focusInput((m.activeInput + 1) % fieldCount)
}

// focusPreviousInput cycles through the form inputs
func (m *Model) focusPreviousInput() {
	m.focusInput((m.activeInput + fieldCount - 1) % fieldCount)
}

// taskForm is the parsed content of the add/edit form.
type taskForm struct {
	title       string
	description *string
	due         *time.Time
	priority    todo.Priority
	category    *uuid.UUID
}

func (m Model) parseForm() (taskForm, error) {
	f := taskForm{title: strings.TrimSpace(m.inputs[fieldTitle].Value())}
	if f.title == "" {
		return f, fmt.Errorf("title must not be empty")
	}

	if desc := strings.TrimSpace(m.inputs[fieldDesc].Value()); desc != "" {
		f.description = &desc
	}

	if raw := strings.TrimSpace(m.inputs[fieldDue].Value()); raw != "" {
		due, err := time.ParseInLocation(dateLayout, raw, m.viewDate.Location())
		if err != nil {
			return f, fmt.Errorf("invalid date format: use YYYY-MM-DD")
		}
		f.due = &due
	}

	f.priority = todo.DefaultPriority
	if raw := strings.TrimSpace(m.inputs[fieldPriority].Value()); raw != "" {
		p, err := todo.ParsePriority(raw)
		if err != nil {
			return f, fmt.Errorf("priority must be low, medium or high")
		}
		f.priority = p
	}

	if raw := strings.TrimSpace(m.inputs[fieldCategory].Value()); raw != "" {
		c, ok := m.categoryByName(raw)
		if !ok {
			return f, fmt.Errorf("unknown category %q", raw)
		}
		f.category = &c.ID
	}
	return f, nil
}

// fillForm loads t into the inputs for editing.
func (m *Model) fillForm(t todo.Task) {
	m.resetInputs()
	m.inputs[fieldTitle].SetValue(t.Title)
	m.inputs[fieldDesc].SetValue(t.DescriptionText())
	m.inputs[fieldDue].SetValue("")
	if t.DueDate != nil {
		m.inputs[fieldDue].SetValue(t.DueDate.Format(dateLayout))
	}
	m.inputs[fieldPriority].SetValue(t.Priority.String())
	if c, ok := m.category(t.CategoryID); ok {
		m.inputs[fieldCategory].SetValue(c.Name)
	}
}

// submitForm turns the form into an add or update command.
func (m *Model) submitForm() tea.Cmd {
	f, err := m.parseForm()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case AddMode:
		cmd = addTaskCmd(*m, service.NewTask{
			Title:       f.title,
			Description: f.description,
			Priority:    f.priority,
			DueDate:     f.due,
			CategoryID:  f.category,
		})
	case EditMode:
		if m.editingItem == nil {
			return nil
		}
		patch := todo.Patch{
			Title:       todo.Set(f.title),
			Description: todo.Set(f.description),
			DueDate:     todo.Set(f.due),
			Priority:    todo.Set(f.priority),
		}
		// fillForm leaves the field blank for a deleted category; a blank
		// field then means "unchanged", not "clear".
		orig := m.editingItem.CategoryID
		if _, known := m.category(orig); f.category != nil || orig == nil || known {
			patch.CategoryID = todo.Set(f.category)
		}
		cmd = updateTaskCmd(*m, m.editingItem.ID, patch)
	}

	m.mode = NormalMode
	m.editingItem = nil
	m.errMsg = ""
	m.resetInputs()
	return cmd
}

func nextPriority(p todo.Priority) todo.Priority {
	switch p {
	case todo.PriorityLow:
		return todo.PriorityMedium
	case todo.PriorityMedium:
		return todo.PriorityHigh
	default:
		return todo.PriorityLow
	}
}
