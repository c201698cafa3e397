package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

const txtDateLayout = "02.01.2006"

var plainTag = regexp.MustCompile(`^\w+$`)

// exportedTask is the JSON shape of a task. The category travels by name so
// a file can be imported into another database.
type exportedTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    string     `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Export writes every task to filename as json or txt.
func Export(ctx context.Context, svc *service.Service, w io.Writer, filename, exportType string) error {
	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return err
	}
	names, err := categoryNames(ctx, svc)
	if err != nil {
		return err
	}

	var content []byte
	switch exportType {
	case "json":
		content, err = marshalJSON(tasks, names)
		if err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
	case "txt":
		content = []byte(formatTxt(tasks, names))
	default:
		return &todo.ValidationError{Field: "type", Reason: "unknown export type " + exportType}
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(filename, content, 0644); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	fmt.Fprintf(w, "Successfully exported %d task(s) to %s\n", len(tasks), filename)
	return nil
}

func marshalJSON(tasks []todo.Task, names map[uuid.UUID]string) ([]byte, error) {
	out := make([]exportedTask, 0, len(tasks))
	for _, t := range tasks {
		e := exportedTask{
			ID:          t.ID.String(),
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.IsCompleted,
			Priority:    t.Priority.String(),
			DueDate:     t.DueDate,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   t.UpdatedAt,
		}
		if t.CategoryID != nil {
			e.Category = names[*t.CategoryID]
		}
		out = append(out, e)
	}
	return json.MarshalIndent(out, "", "  ")
}

// formatTxt renders tasks as a checklist under DD.MM.YYYY: headers. Tasks
// without a due date come first, before any header.
func formatTxt(tasks []todo.Task, names map[uuid.UUID]string) string {
	sorted := slices.Clone(tasks)
	slices.SortStableFunc(sorted, func(a, b todo.Task) int {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return -1
		case b.DueDate == nil:
			return 1
		}
		return strings.Compare(a.DueDate.Format(dateLayout), b.DueDate.Format(dateLayout))
	})

	var lines []string
	var lastDate string
	for _, task := range sorted {
		if task.DueDate != nil {
			dateStr := task.DueDate.Format(txtDateLayout)
			if dateStr != lastDate {
				lines = append(lines, fmt.Sprintf("\n%s:", dateStr))
				lastDate = dateStr
			}
		}

		line := fmt.Sprintf("- %s %s", checkbox(task.IsCompleted), task.Title)
		if task.CategoryID != nil {
			if name := names[*task.CategoryID]; plainTag.MatchString(name) {
				line += " +" + name
			}
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
