// Package stats computes descriptive statistics over a task collection.
package stats

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/todo"
)

// Snapshot is a read-only summary. It is derived on demand and never stored.
type Snapshot struct {
	TotalTodos     int
	CompletedTodos int
	PendingTodos   int
	TodayTodos     int
	// OverdueTodos is reserved and always 0.
	OverdueTodos      int
	PriorityBreakdown map[todo.Priority]int
	CategoryBreakdown map[uuid.UUID]int
	CompletionRate    float64
	// AverageCompletionTime is the mean of UpdatedAt-CreatedAt over completed
	// tasks, nil when none are completed. UpdatedAt is the last mutation, not
	// necessarily the moment of completion, so this is an approximation.
	AverageCompletionTime *time.Duration
	// StreakDays is reserved and always 0.
	StreakDays int
}

// Calculate summarises tasks. "Today" is the calendar day of now in now's
// location.
func Calculate(tasks []todo.Task, now time.Time) Snapshot {
	s := Snapshot{
		TotalTodos:        len(tasks),
		PriorityBreakdown: make(map[todo.Priority]int, len(todo.Priorities())),
		CategoryBreakdown: make(map[uuid.UUID]int),
	}
	for _, p := range todo.Priorities() {
		s.PriorityBreakdown[p] = 0
	}

	var completedFor time.Duration
	for _, t := range tasks {
		if t.IsCompleted {
			s.CompletedTodos++
			completedFor += t.UpdatedAt.Sub(t.CreatedAt)
		}
		if todo.SameDay(t.CreatedAt, now, now.Location()) {
			s.TodayTodos++
		}
		if _, ok := s.PriorityBreakdown[t.Priority]; ok {
			s.PriorityBreakdown[t.Priority]++
		}
		if t.CategoryID != nil {
			s.CategoryBreakdown[*t.CategoryID]++
		}
	}

	s.PendingTodos = s.TotalTodos - s.CompletedTodos
	if s.TotalTodos > 0 {
		s.CompletionRate = float64(s.CompletedTodos) / float64(s.TotalTodos)
	}
	if s.CompletedTodos > 0 {
		avg := completedFor / time.Duration(s.CompletedTodos)
		s.AverageCompletionTime = &avg
	}
	return s
}

// FormattedCompletionRate renders the rate as a percentage with one decimal.
func (s Snapshot) FormattedCompletionRate() string {
	return fmt.Sprintf("%.1f%%", s.CompletionRate*100)
}

// FormattedAverageCompletionTime renders hours and minutes, or "no data".
func (s Snapshot) FormattedAverageCompletionTime() string {
	if s.AverageCompletionTime == nil {
		return "no data"
	}
	d := *s.AverageCompletionTime
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
