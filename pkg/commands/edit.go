package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// EditOptions holds the edit flags. A nil field was not given on the
// command line and is left unchanged.
type EditOptions struct {
	Title       *string
	Description *string
	Date        *string // "" or "none" clears the due date
	Priority    *string
	Category    *string // "" clears the category
}

func (o EditOptions) patch(ctx context.Context, svc *service.Service) (todo.Patch, error) {
	var p todo.Patch

	if o.Title != nil {
		p.Title = todo.Set(*o.Title)
	}
	if o.Description != nil {
		d := *o.Description
		p.Description = todo.Set(&d)
	}

	if o.Date != nil {
		switch strings.ToLower(strings.TrimSpace(*o.Date)) {
		case "", "none":
			p.DueDate = todo.Set[*time.Time](nil)
		default:
			d, err := parseDate(*o.Date)
			if err != nil {
				return p, err
			}
			p.DueDate = todo.Set(&d)
		}
	}

	if o.Priority != nil {
		prio, err := todo.ParsePriority(*o.Priority)
		if err != nil {
			return p, err
		}
		p.Priority = todo.Set(prio)
	}

	if o.Category != nil {
		if strings.TrimSpace(*o.Category) == "" {
			p.CategoryID = todo.Set[*uuid.UUID](nil)
		} else {
			c, err := svc.CategoryByName(ctx, *o.Category)
			if err != nil {
				return p, err
			}
			p.CategoryID = todo.Set(&c.ID)
		}
	}
	return p, nil
}

// Edit applies the given fields to the task identified by ref.
func Edit(ctx context.Context, svc *service.Service, w io.Writer, ref string, opts EditOptions) error {
	id, err := svc.ResolveID(ctx, ref)
	if err != nil {
		return err
	}

	p, err := opts.patch(ctx, svc)
	if err != nil {
		return err
	}
	if p.Empty() {
		return &todo.ValidationError{Field: "edit", Reason: "nothing to change"}
	}

	task, err := svc.Update(ctx, id, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Updated %s %s\n", task.ShortID(), task.Title)
	return nil
}

// Toggle flips the completion state of the task identified by ref.
func Toggle(ctx context.Context, svc *service.Service, w io.Writer, ref string) error {
	id, err := svc.ResolveID(ctx, ref)
	if err != nil {
		return err
	}

	task, err := svc.ToggleCompletion(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s %s\n", checkbox(task.IsCompleted), task.ShortID(), task.Title)
	return nil
}

// Remove deletes every task in refs, stopping at the first failure.
func Remove(ctx context.Context, svc *service.Service, w io.Writer, refs []string) error {
	for _, ref := range refs {
		id, err := svc.ResolveID(ctx, ref)
		if err != nil {
			return err
		}
		if err := svc.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(w, "Deleted %s\n", id.String()[:8])
	}
	return nil
}
