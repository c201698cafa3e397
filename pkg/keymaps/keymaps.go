package keymaps

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

var KeyDefinitions = map[string]KeyDefinition{
	"ShowHelp":           {"ctrl+b", "show/hide commands"},
	"QuitApp":            {"q", "quit"},
	"ToggleStatus":       {"space", "toggle status"},
	"AddTask":            {"a", "add task"},
	"EditTask":           {"e", "edit task"},
	"DeleteTask":         {"d", "delete task"},
	"CyclePriority":      {"p", "cycle priority"},
	"ToggleViewMode":     {"ctrl+v", "toggle between day and all tasks"},
	"ShowDoneTasks":      {"ctrl+d", "show only done tasks"},
	"ShowUndoneTasks":    {"ctrl+u", "show only undone tasks"},
	"SearchTasks":        {"ctrl+f", "search tasks"},
	"PrevDay":            {"ctrl+left", "previous day"},
	"NextDay":            {"ctrl+right", "next day"},
	"PrevDayWithTasks":   {"ctrl+shift+left", "previous day with tasks"},
	"NextDayWithTasks":   {"ctrl+shift+right", "next day with tasks"},
	"JumpToToday":        {"h", "jump to today"},
	"ToggleCalendarView": {"c", "toggle calendar view"},
	"CalendarLeft":       {"left", "move left in calendar"},
	"CalendarRight":      {"right", "move right in calendar"},
	"CalendarUp":         {"up", "move up in calendar"},
	"CalendarDown":       {"down", "move down in calendar"},
	"CalendarSelect":     {"enter", "select day in calendar"},
	"ToggleSortBy":       {"s", "cycle sort by"},
	"ToggleGroupBy":      {"g", "cycle group by"},
	"ToggleSortOrder":    {"o", "toggle sort order"},
	"MarkAllCompleted":   {"m", "mark visible tasks done"},
	"PurgeCompleted":     {"x", "purge visible done tasks"},
	"ShowStats":          {"i", "show statistics"},
	"Refresh":            {"r", "reload tasks"},
}

type KeyMap struct {
	ShowHelp           key.Binding
	QuitApp            key.Binding
	ToggleStatus       key.Binding
	AddTask            key.Binding
	EditTask           key.Binding
	DeleteTask         key.Binding
	CyclePriority      key.Binding
	ToggleViewMode     key.Binding
	ShowDoneTasks      key.Binding
	ShowUndoneTasks    key.Binding
	SearchTasks        key.Binding
	PrevDay            key.Binding
	NextDay            key.Binding
	PrevDayWithTasks   key.Binding
	NextDayWithTasks   key.Binding
	JumpToToday        key.Binding
	ToggleCalendarView key.Binding
	CalendarLeft       key.Binding
	CalendarRight      key.Binding
	CalendarUp         key.Binding
	CalendarDown       key.Binding
	CalendarSelect     key.Binding
	ToggleSortBy       key.Binding
	ToggleGroupBy      key.Binding
	ToggleSortOrder    key.Binding
	MarkAllCompleted   key.Binding
	PurgeCompleted     key.Binding
	ShowStats          key.Binding
	Refresh            key.Binding
}

func (km *KeyMap) slots() map[string]*key.Binding {
	return map[string]*key.Binding{
		"ShowHelp":           &km.ShowHelp,
		"QuitApp":            &km.QuitApp,
		"ToggleStatus":       &km.ToggleStatus,
		"AddTask":            &km.AddTask,
		"EditTask":           &km.EditTask,
		"DeleteTask":         &km.DeleteTask,
		"CyclePriority":      &km.CyclePriority,
		"ToggleViewMode":     &km.ToggleViewMode,
		"ShowDoneTasks":      &km.ShowDoneTasks,
		"ShowUndoneTasks":    &km.ShowUndoneTasks,
		"SearchTasks":        &km.SearchTasks,
		"PrevDay":            &km.PrevDay,
		"NextDay":            &km.NextDay,
		"PrevDayWithTasks":   &km.PrevDayWithTasks,
		"NextDayWithTasks":   &km.NextDayWithTasks,
		"JumpToToday":        &km.JumpToToday,
		"ToggleCalendarView": &km.ToggleCalendarView,
		"CalendarLeft":       &km.CalendarLeft,
		"CalendarRight":      &km.CalendarRight,
		"CalendarUp":         &km.CalendarUp,
		"CalendarDown":       &km.CalendarDown,
		"CalendarSelect":     &km.CalendarSelect,
		"ToggleSortBy":       &km.ToggleSortBy,
		"ToggleGroupBy":      &km.ToggleGroupBy,
		"ToggleSortOrder":    &km.ToggleSortOrder,
		"MarkAllCompleted":   &km.MarkAllCompleted,
		"PurgeCompleted":     &km.PurgeCompleted,
		"ShowStats":          &km.ShowStats,
		"Refresh":            &km.Refresh,
	}
}

// BuildKeyMap applies configOverrides on top of the defaults. Action names
// are matched case-insensitively because the config layer lowercases keys.
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[strings.ToLower(action)] = keys
	}

	km := KeyMap{}
	for action, slot := range km.slots() {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[strings.ToLower(action)]; exists && override != "" {
			keyStr = override
		}
		*slot = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if strings.TrimSpace(keyStr) == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = []string{defaultKey}
	}
	// bubbletea reports the space bar as " ", which trimming would drop
	for _, k := range keys {
		if k == "space" {
			keys = append(keys, " ")
			break
		}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keys[0], helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}

// HelpLines renders "key: help" for every binding in a stable order.
func (km KeyMap) HelpLines() []string {
	slots := km.slots()
	actions := make([]string, 0, len(slots))
	for action := range slots {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	lines := make([]string, 0, len(actions))
	for _, action := range actions {
		h := slots[action].Help()
		lines = append(lines, h.Key+": "+h.Desc)
	}
	return lines
}
