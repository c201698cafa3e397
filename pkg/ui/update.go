package ui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"tdl/pkg/todo"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.generation < m.generation {
			slog.Debug("dropping stale load", "generation", msg.generation, "current", m.generation)
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.fail(OpLoad, msg.err)
			return m, nil
		}
		m.all = msg.all
		m.items = msg.visible
		m.setRows()
		return m, nil

	case categoriesLoadedMsg:
		if msg.err != nil {
			m.fail(OpLoad, msg.err)
			return m, nil
		}
		m.categories = msg.categories
		m.setRows()
		return m, nil

	case statsLoadedMsg:
		if msg.err != nil {
			m.fail(OpLoad, msg.err)
			m.mode = NormalMode
			return m, nil
		}
		m.snapshot = &msg.snapshot
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.fail(msg.op, msg.err)
		} else {
			m.errMsg = ""
			m.status = msg.status
		}
		// Bulk operations may have changed some items before failing.
		cmd = m.reload()
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case NormalMode:
			if m.viewMode == CalendarViewMode {
				if handled, next, c := m.updateCalendar(msg); handled {
					return next, c
				}
			}
			next, c, handled := m.updateNormal(msg)
			if handled {
				return next, c
			}

		case AddMode, EditMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.editingItem = nil
				m.errMsg = ""
				m.resetInputs()
				return m, nil

			case "tab", "down":
				m.focusNextInput()
				return m, nil

			case "shift+tab", "up":
				m.focusPreviousInput()
				return m, nil

			case "enter":
				if m.activeInput == fieldCount-1 {
					return m, m.submitForm()
				}
				m.focusNextInput()
				return m, nil
			}

			m.inputs[m.activeInput], cmd = m.inputs[m.activeInput].Update(msg)
			cmds = append(cmds, cmd)

		case SearchMode:
			switch msg.String() {
			case "esc":
				m.mode = NormalMode
				m.searchTerm = ""
				m.searchInput.Blur()
				cmd = m.reload()
				return m, cmd

			case "enter":
				m.searchTerm = m.searchInput.Value()
				slog.Debug("searching", "term", m.searchTerm)
				m.mode = NormalMode
				m.searchInput.Blur()
				cmd = m.reload()
				return m, cmd
			}

			m.searchInput, cmd = m.searchInput.Update(msg)
			cmds = append(cmds, cmd)

		case DeleteConfirmMode:
			switch msg.String() {
			case "y", "Y":
				var c tea.Cmd
				if m.editingItem != nil {
					c = deleteTaskCmd(m, m.editingItem.ID)
				}
				m.mode = NormalMode
				m.editingItem = nil
				return m, c

			case "n", "N", "esc":
				m.mode = NormalMode
				m.editingItem = nil
			}

		case PurgeConfirmMode:
			switch msg.String() {
			case "y", "Y":
				m.mode = NormalMode
				return m, purgeCompletedCmd(m, m.criteria())

			case "n", "N", "esc":
				m.mode = NormalMode
			}

		case HelpViewMode, StatsMode:
			switch {
			case msg.String() == "esc",
				m.mode == HelpViewMode && key.Matches(msg, m.keyMap.ShowHelp),
				m.mode == StatsMode && key.Matches(msg, m.keyMap.ShowStats):
				m.mode = NormalMode
			case key.Matches(msg, m.keyMap.QuitApp):
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table.SetWidth(msg.Width - 4)
		m.table.SetHeight(msg.Height - 6)
		m.table.SetColumns([]table.Column{{Title: "", Width: max(msg.Width-6, 20)}})
	}

	// Only update table in normal mode
	if m.mode == NormalMode && m.viewMode != CalendarViewMode {
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateNormal handles list keys. handled is false when the key should fall
// through to the table.
func (m Model) updateNormal(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keyMap.ShowHelp):
		m.mode = HelpViewMode

	case key.Matches(msg, m.keyMap.QuitApp):
		return m, tea.Quit, true

	case key.Matches(msg, m.keyMap.ShowStats):
		m.mode = StatsMode
		m.snapshot = nil
		return m, m.loadStats(), true

	case key.Matches(msg, m.keyMap.Refresh):
		reload := m.reload()
		return m, tea.Batch(m.loadCategories(), reload), true

	case key.Matches(msg, m.keyMap.JumpToToday):
		m.viewDate = m.now()
		m.viewMode = DayViewMode
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.ToggleStatus):
		if t := m.selectedTask(); t != nil {
			return m, toggleTaskCmd(m, t.ID), true
		}

	case key.Matches(msg, m.keyMap.CyclePriority):
		if t := m.selectedTask(); t != nil {
			return m, updateTaskCmd(m, t.ID, todo.Patch{Priority: todo.Set(nextPriority(t.Priority))}), true
		}

	case key.Matches(msg, m.keyMap.AddTask):
		m.mode = AddMode
		m.errMsg = ""
		m.resetInputs()
		return m, nil, true

	case key.Matches(msg, m.keyMap.EditTask):
		if t := m.selectedTask(); t != nil {
			m.mode = EditMode
			m.errMsg = ""
			item := *t
			m.editingItem = &item
			m.fillForm(item)
		}

	case key.Matches(msg, m.keyMap.DeleteTask):
		if t := m.selectedTask(); t != nil {
			m.mode = DeleteConfirmMode
			item := *t
			m.editingItem = &item
		}

	case key.Matches(msg, m.keyMap.MarkAllCompleted):
		return m, markCompletedCmd(m, m.criteria()), true

	case key.Matches(msg, m.keyMap.PurgeCompleted):
		m.mode = PurgeConfirmMode

	case key.Matches(msg, m.keyMap.ToggleViewMode):
		if m.viewMode == DayViewMode {
			m.viewMode = AllViewMode
		} else {
			m.viewMode = DayViewMode
		}
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.PrevDay):
		if m.viewMode == DayViewMode {
			m.viewDate = m.viewDate.AddDate(0, 0, -1)
			reload := m.reload()
			return m, reload, true
		}

	case key.Matches(msg, m.keyMap.NextDay):
		if m.viewMode == DayViewMode {
			m.viewDate = m.viewDate.AddDate(0, 0, 1)
			reload := m.reload()
			return m, reload, true
		}

	case key.Matches(msg, m.keyMap.PrevDayWithTasks):
		if day, ok := adjacentDueDay(m.all, m.viewDate, -1); ok && m.viewMode == DayViewMode {
			m.viewDate = day
			reload := m.reload()
			return m, reload, true
		}

	case key.Matches(msg, m.keyMap.NextDayWithTasks):
		if day, ok := adjacentDueDay(m.all, m.viewDate, 1); ok && m.viewMode == DayViewMode {
			m.viewDate = day
			reload := m.reload()
			return m, reload, true
		}

	case key.Matches(msg, m.keyMap.ShowDoneTasks):
		if m.taskFilter == DoneTasksFilter {
			m.taskFilter = AllTasksFilter
		} else {
			m.taskFilter = DoneTasksFilter
		}
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.ShowUndoneTasks):
		if m.taskFilter == UndoneTasksFilter {
			m.taskFilter = AllTasksFilter
		} else {
			m.taskFilter = UndoneTasksFilter
		}
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.SearchTasks), msg.String() == "/":
		m.mode = SearchMode
		m.searchInput.SetValue(m.searchTerm)
		m.searchInput.Focus()
		return m, nil, true

	case key.Matches(msg, m.keyMap.ToggleSortBy):
		m.sortKey = m.sortKey.Next()
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.ToggleSortOrder):
		m.ascending = !m.ascending
		reload := m.reload()
		return m, reload, true

	case key.Matches(msg, m.keyMap.ToggleGroupBy):
		m.groupBy = m.groupBy.Next()
		m.setRows()
		return m, nil, true

	case key.Matches(msg, m.keyMap.ToggleCalendarView):
		m.viewMode = CalendarViewMode
		m.calendarMonth = time.Date(m.viewDate.Year(), m.viewDate.Month(), 1, 0, 0, 0, 0, m.viewDate.Location())
		m.calendarSelectedDay = m.viewDate.Day()
		reload := m.reload()
		return m, reload, true

	default:
		return m, nil, false
	}
	return m, nil, true
}

// updateCalendar moves the selection around the month grid.
func (m Model) updateCalendar(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	lastDay := daysIn(m.calendarMonth)

	switch {
	case key.Matches(msg, m.keyMap.CalendarLeft):
		if m.calendarSelectedDay > 1 {
			m.calendarSelectedDay--
		} else {
			m.calendarMonth = m.calendarMonth.AddDate(0, -1, 0)
			m.calendarSelectedDay = daysIn(m.calendarMonth)
		}

	case key.Matches(msg, m.keyMap.CalendarRight):
		if m.calendarSelectedDay < lastDay {
			m.calendarSelectedDay++
		} else {
			m.calendarMonth = m.calendarMonth.AddDate(0, 1, 0)
			m.calendarSelectedDay = 1
		}

	case key.Matches(msg, m.keyMap.CalendarUp):
		newDay := m.calendarSelectedDay - 7
		if newDay < 1 {
			m.calendarMonth = m.calendarMonth.AddDate(0, -1, 0)
			m.calendarSelectedDay = max(daysIn(m.calendarMonth)+newDay, 1)
		} else {
			m.calendarSelectedDay = newDay
		}

	case key.Matches(msg, m.keyMap.CalendarDown):
		newDay := m.calendarSelectedDay + 7
		if newDay > lastDay {
			m.calendarMonth = m.calendarMonth.AddDate(0, 1, 0)
			m.calendarSelectedDay = min(newDay-lastDay, daysIn(m.calendarMonth))
		} else {
			m.calendarSelectedDay = newDay
		}

	case key.Matches(msg, m.keyMap.CalendarSelect):
		m.viewDate = time.Date(m.calendarMonth.Year(), m.calendarMonth.Month(), m.calendarSelectedDay, 0, 0, 0, 0, m.calendarMonth.Location())
		m.viewMode = DayViewMode
		reload := m.reload()
		return true, m, reload

	case msg.String() == "esc", key.Matches(msg, m.keyMap.ToggleCalendarView):
		m.viewMode = DayViewMode
		reload := m.reload()
		return true, m, reload

	default:
		return false, m, nil
	}
	return true, m, nil
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, month.Location()).Day()
}
