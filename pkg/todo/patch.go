package todo

import (
	"time"

	"github.com/google/uuid"
)

// Field is an optional value in a sparse patch. The zero Field is "omitted".
type Field[T any] struct {
	value T
	set   bool
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// IsSet reports whether the caller supplied a value.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Get returns the value and whether it was supplied.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.set
}

// Or returns the supplied value, or fallback when omitted.
func (f Field[T]) Or(fallback T) T {
	if f.set {
		return f.value
	}
	return fallback
}

// Patch is a partial update of a Task. Omitted fields keep their value;
// pointer-typed fields may be set to nil to clear them.
type Patch struct {
	Title       Field[string]
	Description Field[*string]
	IsCompleted Field[bool]
	Priority    Field[Priority]
	DueDate     Field[*time.Time]
	CategoryID  Field[*uuid.UUID]
}

// Empty reports whether no field was supplied.
func (p Patch) Empty() bool {
	return !p.Title.IsSet() && !p.Description.IsSet() && !p.IsCompleted.IsSet() &&
		!p.Priority.IsSet() && !p.DueDate.IsSet() && !p.CategoryID.IsSet()
}

// Validate checks the supplied fields against the task rules.
func (p Patch) Validate() error {
	if title, ok := p.Title.Get(); ok {
		if err := ValidateTitle(title); err != nil {
			return err
		}
	}
	if prio, ok := p.Priority.Get(); ok && !prio.Valid() {
		return &ValidationError{Field: "priority", Reason: "must be one of low, medium, high"}
	}
	return nil
}

// Merge returns current with every supplied field replaced and UpdatedAt set
// to updatedAt. ID and CreatedAt are carried over untouched.
func Merge(current Task, p Patch, updatedAt time.Time) Task {
	return Task{
		ID:          current.ID,
		Title:       p.Title.Or(current.Title),
		Description: p.Description.Or(current.Description),
		IsCompleted: p.IsCompleted.Or(current.IsCompleted),
		Priority:    p.Priority.Or(current.Priority),
		DueDate:     p.DueDate.Or(current.DueDate),
		CategoryID:  p.CategoryID.Or(current.CategoryID),
		CreatedAt:   current.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}
