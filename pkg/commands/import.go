package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// A header line is a date alone, DD.MM.YYYY or YYYY-MM-DD, optionally followed by a colon.
var dateHeader = regexp.MustCompile(`^(?:(\d{2})\.(\d{2})\.(\d{4})|(\d{4})-(\d{2})-(\d{2})):?$`)

// importEntry is one task read from a file before it is stored.
type importEntry struct {
	task     service.NewTask
	category string
}

// Import adds the tasks found in filename. Files ending in .json are read as
// an export; anything else is read as a txt checklist. A task that cannot be
// added is reported and skipped.
func Import(ctx context.Context, svc *service.Service, w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	defer f.Close()

	var entries []importEntry
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		entries, err = parseJSON(f)
	} else {
		entries, err = parseTxt(f)
	}
	if err != nil {
		return err
	}

	categories := make(map[string]uuid.UUID)
	var tasksAdded int
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.category != "" {
			id, err := importCategory(ctx, svc, categories, e.category)
			if err != nil {
				return err
			}
			e.task.CategoryID = &id
		}

		if _, err := svc.Add(ctx, e.task); err != nil {
			if errors.Is(err, todo.ErrPersistence) {
				return err
			}
			fmt.Fprintf(w, "Error adding task '%s': %v\n", e.task.Title, err)
			continue
		}
		tasksAdded++
	}

	fmt.Fprintf(w, "Successfully imported %d task(s) from %s\n", tasksAdded, filename)
	return nil
}

// importCategory resolves name, creating the category on first use.
func importCategory(ctx context.Context, svc *service.Service, seen map[string]uuid.UUID, name string) (uuid.UUID, error) {
	key := strings.ToLower(name)
	if id, ok := seen[key]; ok {
		return id, nil
	}

	c, err := svc.CategoryByName(ctx, name)
	if errors.Is(err, todo.ErrNotFound) {
		c, err = svc.AddCategory(ctx, service.NewCategory{Name: name})
	}
	if err != nil {
		return uuid.Nil, err
	}
	seen[key] = c.ID
	return c.ID, nil
}

func parseTxt(r io.Reader) ([]importEntry, error) {
	var entries []importEntry
	var currentDate *time.Time

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if dateMatch := dateHeader.FindStringSubmatch(line); dateMatch != nil {
			var day, month, year int
			if dateMatch[1] != "" {
				day, _ = strconv.Atoi(dateMatch[1])
				month, _ = strconv.Atoi(dateMatch[2])
				year, _ = strconv.Atoi(dateMatch[3])
			} else {
				year, _ = strconv.Atoi(dateMatch[4])
				month, _ = strconv.Atoi(dateMatch[5])
				day, _ = strconv.Atoi(dateMatch[6])
			}
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local)
			currentDate = &d
			continue
		}

		if !strings.HasPrefix(line, "- ") {
			continue
		}
		taskText := strings.TrimSpace(strings.TrimPrefix(line, "- "))

		done := false
		if strings.HasPrefix(taskText, "[x]") || strings.HasPrefix(taskText, "[X]") {
			done = true
			taskText = strings.TrimSpace(taskText[3:])
		} else if strings.HasPrefix(taskText, "[ ]") {
			taskText = strings.TrimSpace(strings.TrimPrefix(taskText, "[ ]"))
		}
		if taskText == "" {
			continue
		}

		e := importEntry{task: service.NewTask{
			Title:     removeTags(taskText),
			Completed: done,
			DueDate:   currentDate,
		}}
		if tags := extractTags(taskText); len(tags) > 0 {
			e.category = tags[0]
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return entries, nil
}

func parseJSON(r io.Reader) ([]importEntry, error) {
	var tasks []exportedTask
	if err := json.NewDecoder(r).Decode(&tasks); err != nil {
		return nil, &todo.ValidationError{Field: "file", Reason: "not a task export: " + err.Error()}
	}

	entries := make([]importEntry, 0, len(tasks))
	for _, t := range tasks {
		// Unknown priorities fall back to the default, as stored rows do.
		prio, err := todo.ParsePriority(t.Priority)
		if err != nil {
			prio = todo.DefaultPriority
		}
		var due *time.Time
		if t.DueDate != nil {
			d := t.DueDate.In(time.Local)
			due = &d
		}
		entries = append(entries, importEntry{
			task: service.NewTask{
				Title:       t.Title,
				Description: t.Description,
				Priority:    prio,
				DueDate:     due,
				Completed:   t.Completed,
			},
			category: t.Category,
		})
	}
	return entries, nil
}
