package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"tdl/pkg/todo"
)

// NewCategory carries the fields of a category to create. Empty Color and
// Icon fall back to the defaults.
type NewCategory struct {
	Name  string
	Color todo.CategoryColor
	Icon  string
}

func (s *Service) AddCategory(ctx context.Context, in NewCategory) (todo.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return todo.Category{}, &todo.ValidationError{Field: "name", Reason: "must not be blank"}
	}

	color := in.Color
	if color == "" {
		color = todo.DefaultCategoryColor
	}
	if _, err := todo.ParseCategoryColor(string(color)); err != nil {
		return todo.Category{}, err
	}

	icon := strings.TrimSpace(in.Icon)
	if icon == "" {
		icon = todo.DefaultCategoryIcon
	}

	now := s.now()
	created, err := s.repo.CreateCategory(ctx, todo.Category{
		ID:        s.newID(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return todo.Category{}, err
	}

	s.log.Debug("category added", "id", created.ID, "name", created.Name)
	return created, nil
}

func (s *Service) Categories(ctx context.Context) ([]todo.Category, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) Category(ctx context.Context, id uuid.UUID) (todo.Category, error) {
	return s.repo.Category(ctx, id)
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, p todo.CategoryPatch) (todo.Category, error) {
	if name, ok := p.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			return todo.Category{}, &todo.ValidationError{Field: "name", Reason: "must not be blank"}
		}
		p.Name = todo.Set(name)
	}
	if color, ok := p.Color.Get(); ok {
		if _, err := todo.ParseCategoryColor(string(color)); err != nil {
			return todo.Category{}, err
		}
	}

	current, err := s.repo.Category(ctx, id)
	if err != nil {
		return todo.Category{}, err
	}

	return s.repo.UpdateCategory(ctx, todo.MergeCategory(current, p, s.nextUpdatedAt(current.UpdatedAt)))
}

// DeleteCategory removes the category. Tasks that reference it keep the id.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.log.Debug("category deleted", "id", id)
	return nil
}

// SeedDefaultCategories inserts the starter categories into an empty store
// and returns how many were created.
func (s *Service) SeedDefaultCategories(ctx context.Context) (int, error) {
	existing, err := s.repo.Categories(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	for i, d := range todo.DefaultCategories {
		if _, err := s.AddCategory(ctx, NewCategory{Name: d.Name, Color: d.Color, Icon: d.Icon}); err != nil {
			return i, err
		}
	}

	s.log.Info("seeded default categories", "count", len(todo.DefaultCategories))
	return len(todo.DefaultCategories), nil
}

// CategoryByName returns the category whose name matches name, ignoring
// case. Unlike FindCategory it never falls back to an id prefix, so a tag
// typed by the user cannot land on an unrelated category.
func (s *Service) CategoryByName(ctx context.Context, name string) (todo.Category, error) {
	name = strings.TrimSpace(name)
	all, err := s.repo.Categories(ctx)
	if err != nil {
		return todo.Category{}, err
	}
	if c, ok := byName(all, name); ok {
		return c, nil
	}
	return todo.Category{}, todo.NotFound("category", name)
}

// FindCategory looks a category up by case-insensitive name or id prefix.
func (s *Service) FindCategory(ctx context.Context, ref string) (todo.Category, error) {
	ref = strings.TrimSpace(ref)
	all, err := s.repo.Categories(ctx)
	if err != nil {
		return todo.Category{}, err
	}

	if c, ok := byName(all, ref); ok {
		return c, nil
	}

	var match []todo.Category
	lower := strings.ToLower(ref)
	for _, c := range all {
		if lower != "" && strings.HasPrefix(c.ID.String(), lower) {
			match = append(match, c)
		}
	}
	switch len(match) {
	case 0:
		return todo.Category{}, todo.NotFound("category", ref)
	case 1:
		return match[0], nil
	default:
		return todo.Category{}, &todo.ValidationError{Field: "category", Reason: "reference " + ref + " is ambiguous"}
	}
}

func byName(all []todo.Category, name string) (todo.Category, bool) {
	for _, c := range all {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return todo.Category{}, false
}
