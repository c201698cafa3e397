// Package query filters and orders an in-memory task collection.
//
// Filtering runs as a pipeline: text, completion, priority, then due day.
// Each stage narrows the previous stage's output. Sorting runs afterwards and
// is stable in both directions, so tasks with equal keys keep their input order.
package query

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tdl/pkg/todo"
)

// Predicate keeps a task when it returns true.
type Predicate func(todo.Task) bool

// Engine applies Criteria to task collections. It holds no mutable state and
// is safe for concurrent use; locale-dependent helpers are built per call.
type Engine struct {
	tag language.Tag
}

// NewEngine returns an engine that matches and collates text for tag.
func NewEngine(tag language.Tag) *Engine {
	return &Engine{tag: tag}
}

// DefaultEngine uses root-locale rules.
var DefaultEngine = NewEngine(language.Und)

// Apply returns the filtered, ordered subset of tasks. The input slice is not
// modified.
func (e *Engine) Apply(tasks []todo.Task, c Criteria) []todo.Task {
	out := e.Filter(tasks, c)
	if c.SortKey != SortNone {
		e.Sort(out, c.SortKey, c.Ascending)
	}
	return out
}

// Apply runs DefaultEngine.
func Apply(tasks []todo.Task, c Criteria) []todo.Task {
	return DefaultEngine.Apply(tasks, c)
}

// Filter runs the predicate pipeline and returns a new slice in input order.
func (e *Engine) Filter(tasks []todo.Task, c Criteria) []todo.Task {
	out := slices.Clone(tasks)
	if out == nil {
		out = []todo.Task{}
	}
	for _, keep := range e.stages(c) {
		out = slices.DeleteFunc(out, func(t todo.Task) bool { return !keep(t) })
	}
	return out
}

func (e *Engine) stages(c Criteria) []Predicate {
	var stages []Predicate
	if c.Query != "" {
		stages = append(stages, e.matchText(c.Query))
	}
	if c.IsCompleted != nil {
		want := *c.IsCompleted
		stages = append(stages, func(t todo.Task) bool { return t.IsCompleted == want })
	}
	if c.Priority != nil {
		want := *c.Priority
		stages = append(stages, func(t todo.Task) bool { return t.Priority == want })
	}
	if c.DueOn != nil {
		day := *c.DueOn
		stages = append(stages, func(t todo.Task) bool {
			return t.DueDate != nil && todo.SameDay(*t.DueDate, day, day.Location())
		})
	}
	return stages
}

func (e *Engine) matchText(q string) Predicate {
	lower := cases.Lower(e.tag)
	needle := lower.String(q)
	return func(t todo.Task) bool {
		if strings.Contains(lower.String(t.Title), needle) {
			return true
		}
		return t.Description != nil && strings.Contains(lower.String(*t.Description), needle)
	}
}

// Sort orders tasks in place by key. Ties keep their relative order.
func (e *Engine) Sort(tasks []todo.Task, key SortKey, ascending bool) {
	compare := e.comparator(key)
	if compare == nil {
		return
	}
	slices.SortStableFunc(tasks, func(a, b todo.Task) int {
		if ascending {
			return compare(a, b)
		}
		return compare(b, a)
	})
}

func (e *Engine) comparator(key SortKey) func(a, b todo.Task) int {
	switch key {
	case SortByCreatedAt:
		return func(a, b todo.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortByUpdatedAt:
		return func(a, b todo.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case SortByDueDate:
		return compareDueDate
	case SortByPriority:
		return func(a, b todo.Task) int { return int(a.Priority) - int(b.Priority) }
	case SortByTitle:
		coll := collate.New(e.tag)
		return func(a, b todo.Task) int { return coll.CompareString(a.Title, b.Title) }
	}
	return nil
}

// compareDueDate treats a missing due date as the latest possible instant.
func compareDueDate(a, b todo.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}
