package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tdl/pkg/config"
	"tdl/pkg/keymaps"
	"tdl/pkg/query"
	"tdl/pkg/service"
	"tdl/pkg/stats"
	"tdl/pkg/todo"
)

// InputMode represents the current input mode
type InputMode int

const (
	NormalMode InputMode = iota
	AddMode
	EditMode
	DeleteConfirmMode
	PurgeConfirmMode
	SearchMode   // Mode for searching tasks
	HelpViewMode // Mode for displaying help
	StatsMode
)

// ViewMode selects which tasks the list shows.
type ViewMode int

const (
	DayViewMode ViewMode = iota // tasks due on viewDate
	AllViewMode
	CalendarViewMode
)

// TaskFilter restricts the list by completion state.
type TaskFilter int

const (
	AllTasksFilter TaskFilter = iota
	DoneTasksFilter
	UndoneTasksFilter
)

// GroupBy selects how rows are sectioned.
type GroupBy int

const (
	GroupByNone GroupBy = iota
	GroupByPriority
	GroupByCategory
)

var groupByNames = []string{"none", "priority", "category"}

func (g GroupBy) String() string {
	return groupByNames[g]
}

func (g GroupBy) Next() GroupBy {
	return (g + 1) % GroupBy(len(groupByNames))
}

// form field order
const (
	fieldTitle = iota
	fieldDesc
	fieldDue
	fieldPriority
	fieldCategory
	fieldCount
)

const dateLayout = "2006-01-02"

// Model represents the application state
type Model struct {
	ctx context.Context
	svc *service.Service

	table         table.Model
	all           []todo.Task  // every stored task, for calendar and day navigation
	items         []todo.Task  // filtered, ordered tasks
	rows          []*todo.Task // table row -> task; nil for group headers
	categories    []todo.Category
	snapshot      *stats.Snapshot
	width, height int

	// Last failure, already reduced to a user-facing message.
	errMsg string
	status string

	// Configuration
	styles config.Styles
	keyMap keymaps.KeyMap

	// View state
	viewMode   ViewMode
	taskFilter TaskFilter
	viewDate   time.Time
	searchTerm string
	sortKey    query.SortKey
	ascending  bool
	groupBy    GroupBy

	// Pending loads; responses from older generations are dropped.
	generation int
	loading    bool

	// Form state
	mode        InputMode
	inputs      []textinput.Model
	searchInput textinput.Model
	activeInput int

	// Edit/delete state
	editingItem *todo.Task

	calendarMonth       time.Time
	calendarSelectedDay int // Selected day in calendar view (1-31)

	now func() time.Time
}

// NewModel creates a new UI model bound to svc.
func NewModel(ctx context.Context, svc *service.Service, cfg config.Config, styles config.Styles) Model {
	columns := []table.Column{
		{Title: "", Width: 72},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderBottom(false).
		Bold(false).
		Foreground(lipgloss.NoColor{})
	s.Selected = s.Selected.
		Foreground(lipgloss.Color(styles.SelectedTextColor)).
		Background(lipgloss.Color(styles.SelectedBgColor)).
		Bold(true)
	t.SetStyles(s)

	placeholders := [fieldCount]string{
		fieldTitle:    "Title",
		fieldDesc:     "Description (optional)",
		fieldDue:      "Due Date (YYYY-MM-DD, optional)",
		fieldPriority: "Priority (low, medium, high)",
		fieldCategory: "Category name (optional)",
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].Placeholder = placeholders[i]
		inputs[i].Width = 40
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search title and description"
	searchInput.Width = 40

	now := time.Now()
	m := Model{
		ctx:                 ctx,
		svc:                 svc,
		table:               t,
		styles:              styles,
		keyMap:              keymaps.BuildKeyMap(cfg.KeyMap),
		mode:                NormalMode,
		inputs:              inputs,
		searchInput:         searchInput,
		viewMode:            DayViewMode,
		taskFilter:          AllTasksFilter,
		viewDate:            now,
		groupBy:             GroupByNone,
		calendarMonth:       time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()),
		calendarSelectedDay: now.Day(),
		now:                 time.Now,
		loading:             true,
	}
	m.resetInputs()
	return m
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCategories(), m.fetch())
}

// criteria turns the view state into a query for the engine.
func (m Model) criteria() query.Criteria {
	c := query.Criteria{
		Query:     m.searchTerm,
		SortKey:   m.sortKey,
		Ascending: m.ascending,
	}
	switch m.taskFilter {
	case DoneTasksFilter:
		c = c.WithCompleted(true)
	case UndoneTasksFilter:
		c = c.WithCompleted(false)
	}
	if m.viewMode == DayViewMode {
		day := m.viewDate
		c.DueOn = &day
	}
	return c
}

// resetInputs clears all form inputs
func (m *Model) resetInputs() {
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	if m.viewMode == DayViewMode {
		m.inputs[fieldDue].SetValue(m.viewDate.Format(dateLayout))
	}
	m.inputs[fieldPriority].SetValue(todo.DefaultPriority.String())
	m.focusInput(fieldTitle)
}
