// Package todo holds the domain model shared by the query engine, the
// statistics aggregator and the use-case layer.
package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority is the urgency of a task. The underlying ordinal defines the sort
// order: low < medium < high. The zero value means "not specified".
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

// DefaultPriority is assigned to new tasks that do not name one.
const DefaultPriority = PriorityMedium

// Priorities returns every priority in ascending order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Valid reports whether p is one of the declared priorities.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return "unspecified"
	}
}

// ParsePriority accepts the names returned by String, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return 0, &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
}

// Task is a single to-do record.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description *string
	IsCompleted bool
	Priority    Priority
	DueDate     *time.Time
	CategoryID  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DescriptionText returns the description or "" when absent.
func (t Task) DescriptionText() string {
	if t.Description == nil {
		return ""
	}
	return *t.Description
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// ShortID is the first eight characters of the identifier, used for display.
func (t Task) ShortID() string {
	return t.ID.String()[:8]
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ValidateTitle rejects blank or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be blank"}
	}
	return nil
}
