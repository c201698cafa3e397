package query

import (
	"strings"
	"time"

	"tdl/pkg/todo"
)

// SortKey selects the attribute results are ordered by.
type SortKey int

const (
	SortNone SortKey = iota // keep store order
	SortByCreatedAt
	SortByUpdatedAt
	SortByDueDate
	SortByPriority
	SortByTitle
)

// SortKeys lists every key, SortNone first, in cycling order.
func SortKeys() []SortKey {
	return []SortKey{SortNone, SortByCreatedAt, SortByUpdatedAt, SortByDueDate, SortByPriority, SortByTitle}
}

func (k SortKey) String() string {
	switch k {
	case SortByCreatedAt:
		return "created"
	case SortByUpdatedAt:
		return "updated"
	case SortByDueDate:
		return "due"
	case SortByPriority:
		return "priority"
	case SortByTitle:
		return "title"
	default:
		return "none"
	}
}

// Next returns the key after k, wrapping back to SortNone.
func (k SortKey) Next() SortKey {
	return (k + 1) % SortKey(len(SortKeys()))
}

// ParseSortKey accepts the names returned by String plus a few aliases.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "created", "createdat", "created_at":
		return SortByCreatedAt, nil
	case "updated", "updatedat", "updated_at":
		return SortByUpdatedAt, nil
	case "due", "duedate", "due_date":
		return SortByDueDate, nil
	case "priority":
		return SortByPriority, nil
	case "title":
		return SortByTitle, nil
	}
	return SortNone, &todo.ValidationError{Field: "sort", Reason: "unknown sort key " + s}
}

// Criteria is a transient filter and sort request. Nil pointers and an
// empty Query mean the corresponding filter is inactive.
type Criteria struct {
	Query       string
	IsCompleted *bool
	Priority    *todo.Priority
	DueOn       *time.Time
	SortKey     SortKey
	Ascending   bool
}

// Filtering reports whether any filter stage is active.
func (c Criteria) Filtering() bool {
	return c.Query != "" || c.IsCompleted != nil || c.Priority != nil || c.DueOn != nil
}

// WithCompleted returns a copy of c restricted to the given completion state.
func (c Criteria) WithCompleted(completed bool) Criteria {
	c.IsCompleted = &completed
	return c
}
