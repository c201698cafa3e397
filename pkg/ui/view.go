package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"tdl/pkg/query"
	"tdl/pkg/todo"
)

// View renders the UI based on the current mode
func (m Model) View() string {
	var sb strings.Builder

	switch m.mode {
	case NormalMode:
		if m.viewMode == CalendarViewMode {
			sb.WriteString(m.renderCalendar())
			break
		}

		sb.WriteString(m.banner(" tdl - Todo List ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		if len(m.rows) == 0 && !m.loading {
			empty := "  nothing here"
			if m.criteria().Filtering() {
				empty = "  no tasks match the current filters"
			}
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(m.styles.BorderColor)).
				Render(empty))
			sb.WriteString("\n")
		} else {
			sb.WriteString(m.table.View())
			sb.WriteString("\n")
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor)).Render(m.viewInfo()))
		sb.WriteString("\n")
		if m.status != "" {
			sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.AccentColor)).Render(m.status))
			sb.WriteString("\n")
		}

	case AddMode:
		sb.WriteString(m.banner(" Add New Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case EditMode:
		sb.WriteString(m.banner(" Edit Task ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderForm())

	case DeleteConfirmMode:
		sb.WriteString(m.banner(" Delete Task ", m.styles.ErrorColor))
		sb.WriteString("\n\n")

		if m.editingItem != nil {
			sb.WriteString("Are you sure you want to delete this task?\n\n")
			sb.WriteString(fmt.Sprintf("Title: %s\n", m.editingItem.Title))
			sb.WriteString(fmt.Sprintf("Description: %s\n", m.editingItem.DescriptionText()))
			sb.WriteString("\n")
			sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))
		}

	case PurgeConfirmMode:
		sb.WriteString(m.banner(" Purge Completed ", m.styles.ErrorColor))
		sb.WriteString("\n\n")
		done := 0
		for _, t := range m.items {
			if t.IsCompleted {
				done++
			}
		}
		sb.WriteString(fmt.Sprintf("Delete %s shown in the current view?\n\n", plural(done, "completed task")))
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Press Y to confirm, N to cancel"))

	case SearchMode:
		sb.WriteString(m.banner(" Search Tasks ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString("Enter search term to find tasks:")
		sb.WriteString("\n\n")
		sb.WriteString(m.searchInput.View())

	case StatsMode:
		sb.WriteString(m.banner(" Statistics ", m.styles.AccentColor))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderStats())

	case HelpViewMode:
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render("Available Commands"))
		sb.WriteString("\n\n")
		sb.WriteString(m.renderHelp())
	}

	if m.errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.ErrorColor)).Render("Error: " + m.errMsg))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.helpBar())

	return sb.String()
}

func (m Model) banner(text, bg string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(m.styles.SelectedTextColor)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1).
		Render(text)
}

// viewInfo describes the active view, filters and ordering.
func (m Model) viewInfo() string {
	var viewModePart string
	switch m.viewMode {
	case AllViewMode:
		viewModePart = "all tasks"
	default:
		viewModePart = fmt.Sprintf("tasks due on %s", m.viewDate.Format(dateLayout))
	}

	var filterPart string
	switch m.taskFilter {
	case DoneTasksFilter:
		filterPart = " (completed only)"
	case UndoneTasksFilter:
		filterPart = " (pending only)"
	}
	if m.searchTerm != "" {
		filterPart += fmt.Sprintf(" (search: %s)", m.searchTerm)
	}

	sortInfo := ""
	if m.sortKey != query.SortNone || m.groupBy != GroupByNone {
		order := "desc"
		if m.ascending {
			order = "asc"
		}
		sortInfo = fmt.Sprintf(" | sorted by %s (%s)", m.sortKey, order)
		if m.groupBy != GroupByNone {
			sortInfo += fmt.Sprintf(", grouped by %s", m.groupBy)
		}
	}

	return fmt.Sprintf("Showing %s%s%s", viewModePart, filterPart, sortInfo)
}

func (m Model) renderHelp() string {
	var sb strings.Builder

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))

	section := func(title string, bindings ...key.Binding) {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(title))
		sb.WriteString("\n")
		for _, b := range bindings {
			sb.WriteString(fmt.Sprintf("%s: %s\n", descStyle.Render(b.Help().Desc), keyStyle.Render(b.Help().Key)))
		}
		sb.WriteString("\n")
	}

	km := m.keyMap
	section("Tasks", km.AddTask, km.EditTask, km.DeleteTask, km.ToggleStatus, km.CyclePriority,
		km.MarkAllCompleted, km.PurgeCompleted)
	section("View", km.ToggleViewMode, km.ShowDoneTasks, km.ShowUndoneTasks, km.SearchTasks,
		km.ToggleSortBy, km.ToggleSortOrder, km.ToggleGroupBy, km.ShowStats, km.Refresh, km.ShowHelp, km.QuitApp)
	section("Navigation", km.PrevDay, km.NextDay, km.PrevDayWithTasks, km.NextDayWithTasks, km.JumpToToday)
	section("Calendar", km.ToggleCalendarView, km.CalendarLeft, km.CalendarRight, km.CalendarUp, km.CalendarDown,
		km.CalendarSelect)

	return sb.String()
}

func (m Model) renderStats() string {
	if m.snapshot == nil {
		return "loading..."
	}
	s := m.snapshot

	var sb strings.Builder
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.styles.NormalTextColor)).Width(22)
	line := func(name string, value any) {
		sb.WriteString(label.Render(name))
		sb.WriteString(fmt.Sprint(value))
		sb.WriteString("\n")
	}

	line("Total", s.TotalTodos)
	line("Completed", s.CompletedTodos)
	line("Pending", s.PendingTodos)
	line("Created today", s.TodayTodos)
	line("Completion rate", s.FormattedCompletionRate())
	line("Avg. completion time", s.FormattedAverageCompletionTime())

	sb.WriteString("\nBy priority\n")
	for _, p := range todo.Priorities() {
		line("  "+renderPriority(p, m.styles)+" "+PriorityLabel(p), s.PriorityBreakdown[p])
	}

	if len(s.CategoryBreakdown) > 0 {
		sb.WriteString("\nBy category\n")
		type entry struct {
			name  string
			count int
		}
		var entries []entry
		for id, n := range s.CategoryBreakdown {
			name := deletedCategory
			if c, ok := m.category(&id); ok {
				name = c.Name
			}
			entries = append(entries, entry{name, n})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
		for _, e := range entries {
			line("  "+e.name, e.count)
		}
	}
	return sb.String()
}

// helpBar renders a sleek status bar with available actions
func (m Model) helpBar() string {
	var actions []string

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.AccentColor)).
		Bold(true)
	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.NormalTextColor))
	separator := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.styles.BorderColor)).
		Render(" • ")

	addAction := func(b key.Binding, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(b.Help().Key), descStyle.Render(desc)))
	}
	addRaw := func(k, desc string) {
		actions = append(actions, fmt.Sprintf("%s %s", keyStyle.Render(k), descStyle.Render(desc)))
	}

	km := m.keyMap
	switch m.mode {
	case NormalMode:
		if m.viewMode == CalendarViewMode {
			addRaw("←↑↓→", "nav")
			addAction(km.CalendarSelect, "select")
			addRaw("esc", "exit cal")
		} else {
			addAction(km.AddTask, "add")
			addAction(km.EditTask, "edit")
			addAction(km.DeleteTask, "del")
			addAction(km.ToggleStatus, "toggle")
			addAction(km.CyclePriority, "prio")
			addAction(km.ToggleViewMode, "view")
			addAction(km.SearchTasks, "search")
			addAction(km.ToggleCalendarView, "cal")
			addAction(km.ShowStats, "stats")
		}
		addAction(km.ShowHelp, "help")
		addAction(km.QuitApp, "quit")

	case AddMode, EditMode:
		addRaw("tab", "next field")
		addRaw("enter", "next/save")
		addRaw("esc", "cancel")

	case DeleteConfirmMode, PurgeConfirmMode:
		addRaw("y", "confirm")
		addRaw("n", "cancel")

	case SearchMode:
		addRaw("enter", "search")
		addRaw("esc", "clear")

	case HelpViewMode, StatsMode:
		addRaw("esc", "back")
		addAction(km.QuitApp, "quit")
	}

	return strings.Join(actions, separator)
}

// renderForm renders the input form for adding/editing tasks
func (m Model) renderForm() string {
	var sb strings.Builder

	labels := [fieldCount]string{
		fieldTitle:    "Title:",
		fieldDesc:     "Description:",
		fieldDue:      "Due Date (YYYY-MM-DD):",
		fieldPriority: "Priority:",
		fieldCategory: "Category:",
	}
	for i, input := range m.inputs {
		sb.WriteString(labels[i])
		sb.WriteString("\n")
		sb.WriteString(input.View())
		if i < len(m.inputs)-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(m.categories) > 0 {
		names := make([]string, len(m.categories))
		for i, c := range m.categories {
			names[i] = renderCategory(c)
		}
		sb.WriteString("\n\n")
		sb.WriteString(strings.Join(names, " "))
	}

	return sb.String()
}

// renderCalendar renders the calendar view
func (m Model) renderCalendar() string {
	var sb strings.Builder

	firstDay := m.calendarMonth
	firstWeekday := int(firstDay.Weekday())
	daysInMonth := daysIn(firstDay)

	sb.WriteString(m.banner(" "+firstDay.Format("January 2006")+" ", m.styles.AccentColor))
	sb.WriteString("\n\n")

	weekdayRow := ""
	for _, day := range []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"} {
		weekdayRow += fmt.Sprintf("%-4s", day)
	}
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(weekdayRow))
	sb.WriteString("\n")

	hasTask := daysWithTasks(m.all, firstDay)
	today := m.now()

	currentDay := 1
	for week := 0; week < 6 && currentDay <= daysInMonth; week++ {
		row := ""
		for weekday := 0; weekday < 7; weekday++ {
			if (week == 0 && weekday < firstWeekday) || currentDay > daysInMonth {
				row += "    "
				continue
			}

			dayStyle := lipgloss.NewStyle()
			isToday := today.Year() == firstDay.Year() && today.Month() == firstDay.Month() && today.Day() == currentDay

			switch {
			case currentDay == m.calendarSelectedDay:
				dayStyle = dayStyle.Background(lipgloss.Color(m.styles.AccentColor)).
					Foreground(lipgloss.Color(m.styles.SelectedTextColor)).Bold(true)
			case isToday:
				dayStyle = dayStyle.Background(lipgloss.Color(m.styles.SelectedBgColor)).
					Foreground(lipgloss.Color(m.styles.SelectedTextColor))
			case hasTask[currentDay]:
				dayStyle = dayStyle.Foreground(lipgloss.Color(m.styles.AccentColor)).Bold(true)
			}

			row += dayStyle.Render(fmt.Sprintf("%-4d", currentDay))
			currentDay++
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return sb.String()
}
