package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"tdl/pkg/config"
	"tdl/pkg/todo"
)

// Operation is the category a failure is reported under.
type Operation int

const (
	OpLoad Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpLoad:
		return "load"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ErrorMessage is the only text shown for a failed operation.
func ErrorMessage(op Operation) string {
	switch op {
	case OpLoad:
		return "Could not load tasks."
	case OpCreate:
		return "Could not create the task."
	case OpUpdate:
		return "Could not update the task."
	case OpDelete:
		return "Could not delete the task."
	default:
		return "Something went wrong."
	}
}

type priorityMeta struct {
	label string
	mark  string
}

var priorities = map[todo.Priority]priorityMeta{
	todo.PriorityLow:    {label: "Low", mark: "!"},
	todo.PriorityMedium: {label: "Medium", mark: "!!"},
	todo.PriorityHigh:   {label: "High", mark: "!!!"},
}

// PriorityLabel is the display name of p.
func PriorityLabel(p todo.Priority) string {
	if meta, ok := priorities[p]; ok {
		return meta.label
	}
	return "Medium"
}

func priorityColor(p todo.Priority, styles config.Styles) lipgloss.Color {
	switch p {
	case todo.PriorityHigh:
		return lipgloss.Color(styles.HighPriorityColor)
	case todo.PriorityLow:
		return lipgloss.Color(styles.LowPriorityColor)
	default:
		return lipgloss.Color(styles.MediumPriorityColor)
	}
}

func renderPriority(p todo.Priority, styles config.Styles) string {
	meta, ok := priorities[p]
	if !ok {
		meta = priorities[todo.PriorityMedium]
	}
	return lipgloss.NewStyle().Foreground(priorityColor(p, styles)).Render(fmt.Sprintf("%-3s", meta.mark))
}

// categoryColors maps the domain color tags onto ANSI 256 colors.
var categoryColors = map[todo.CategoryColor]lipgloss.Color{
	todo.ColorRed:    "196",
	todo.ColorOrange: "208",
	todo.ColorYellow: "226",
	todo.ColorGreen:  "34",
	todo.ColorBlue:   "33",
	todo.ColorPurple: "129",
	todo.ColorPink:   "205",
	todo.ColorGray:   "245",
}

// CategoryColor returns the terminal color of a category tag.
func CategoryColor(c todo.CategoryColor) lipgloss.Color {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[todo.DefaultCategoryColor]
}

func renderCategory(c todo.Category) string {
	return lipgloss.NewStyle().Foreground(CategoryColor(c.Color)).Render("#" + c.Name)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
