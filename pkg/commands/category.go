package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"tdl/pkg/service"
	"tdl/pkg/todo"
)

// CategoryAdd creates a category. Empty color and icon use the defaults.
func CategoryAdd(ctx context.Context, svc *service.Service, w io.Writer, name, color, icon string) error {
	in := service.NewCategory{Name: name, Icon: icon}
	if color != "" {
		c, err := todo.ParseCategoryColor(color)
		if err != nil {
			return err
		}
		in.Color = c
	}

	c, err := svc.AddCategory(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Added category %s (%s)\n", c.Name, c.Color)
	return nil
}

func CategoryList(ctx context.Context, svc *service.Service, w io.Writer) error {
	categories, err := svc.Categories(ctx)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		fmt.Fprintln(w, "No categories.")
		return nil
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.ID.String()[:8], c.Name, string(c.Color), c.Icon})
	}
	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "COLOR", "ICON").
		Rows(rows...)
	fmt.Fprintln(w, tbl.Render())
	return nil
}

// CategoryEditOptions mirrors EditOptions: nil means unchanged.
type CategoryEditOptions struct {
	Name  *string
	Color *string
	Icon  *string
}

func CategoryEdit(ctx context.Context, svc *service.Service, w io.Writer, ref string, opts CategoryEditOptions) error {
	c, err := svc.FindCategory(ctx, ref)
	if err != nil {
		return err
	}

	var p todo.CategoryPatch
	if opts.Name != nil {
		p.Name = todo.Set(*opts.Name)
	}
	if opts.Color != nil {
		color, err := todo.ParseCategoryColor(*opts.Color)
		if err != nil {
			return err
		}
		p.Color = todo.Set(color)
	}
	if opts.Icon != nil {
		p.Icon = todo.Set(*opts.Icon)
	}

	updated, err := svc.UpdateCategory(ctx, c.ID, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Updated category %s\n", updated.Name)
	return nil
}

// CategoryRemove deletes a category. Its tasks keep pointing at the old id.
func CategoryRemove(ctx context.Context, svc *service.Service, w io.Writer, ref string) error {
	c, err := svc.FindCategory(ctx, ref)
	if err != nil {
		return err
	}
	if err := svc.DeleteCategory(ctx, c.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Deleted category %s\n", c.Name)
	return nil
}
