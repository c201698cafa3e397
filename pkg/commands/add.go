package commands

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

const dateLayout = "2006-01-02"

var (
	tagPattern   = regexp.MustCompile(`\+(\w+)`)
	tagWithSpace = regexp.MustCompile(`\s*\+\w+\s*`)
)

// AddOptions holds the flags of the add command.
type AddOptions struct {
	Date        string // YYYY-MM-DD, today when empty
	NoDate      bool
	Priority    string
	Description string
}

// Add creates a task from text. A "+name" tag picks the category and is
// removed from the title.
func Add(ctx context.Context, svc *service.Service, w io.Writer, text string, opts AddOptions) error {
	in := service.NewTask{Title: removeTags(text)}

	if !opts.NoDate {
		due := today()
		if opts.Date != "" {
			d, err := parseDate(opts.Date)
			if err != nil {
				return err
			}
			due = d
		}
		in.DueDate = &due
	}

	if opts.Priority != "" {
		p, err := todo.ParsePriority(opts.Priority)
		if err != nil {
			return err
		}
		in.Priority = p
	}

	if opts.Description != "" {
		in.Description = &opts.Description
	}

	tags := extractTags(text)
	switch len(tags) {
	case 0:
	case 1:
		c, err := svc.CategoryByName(ctx, tags[0])
		if err != nil {
			return err
		}
		in.CategoryID = &c.ID
	default:
		return &todo.ValidationError{Field: "category", Reason: "only one +tag per task"}
	}

	task, err := svc.Add(ctx, in)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Added %s %s\n", task.ShortID(), task.Title)
	return nil
}

// extractTags finds all +name tags in text
func extractTags(text string) []string {
	var tags []string
	for _, match := range tagPattern.FindAllStringSubmatch(text, -1) {
		tags = append(tags, match[1])
	}
	return tags
}

// removeTags strips +name tags so the title reads cleanly
func removeTags(text string) string {
	return strings.TrimSpace(tagWithSpace.ReplaceAllString(text, " "))
}

func parseDate(s string) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "today":
		return today(), nil
	case "tomorrow":
		return today().AddDate(0, 0, 1), nil
	}
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &todo.ValidationError{Field: "date", Reason: "use YYYY-MM-DD"}
	}
	return d, nil
}

func today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// categoryNames indexes categories for display.
func categoryNames(ctx context.Context, svc *service.Service) (map[uuid.UUID]string, error) {
	categories, err := svc.Categories(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
