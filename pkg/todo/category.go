package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryColor is the closed set of color tags a category may carry.
type CategoryColor string

const (
	ColorRed    CategoryColor = "red"
	ColorOrange CategoryColor = "orange"
	ColorYellow CategoryColor = "yellow"
	ColorGreen  CategoryColor = "green"
	ColorBlue   CategoryColor = "blue"
	ColorPurple CategoryColor = "purple"
	ColorPink   CategoryColor = "pink"
	ColorGray   CategoryColor = "gray"
)

const (
	DefaultCategoryColor = ColorBlue
	DefaultCategoryIcon  = "folder"
)

// CategoryColors returns every color in declaration order.
func CategoryColors() []CategoryColor {
	return []CategoryColor{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorBlue, ColorPurple, ColorPink, ColorGray}
}

// ParseCategoryColor accepts a color name case-insensitively.
func ParseCategoryColor(s string) (CategoryColor, error) {
	c := CategoryColor(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range CategoryColors() {
		if c == known {
			return c, nil
		}
	}
	return "", &ValidationError{Field: "color", Reason: "unknown color " + s}
}

// Category groups tasks. Tasks reference it weakly by id.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     CategoryColor
	Icon      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryPatch is a partial update of a Category.
type CategoryPatch struct {
	Name  Field[string]
	Color Field[CategoryColor]
	Icon  Field[string]
}

// MergeCategory applies p onto current and stamps updatedAt.
func MergeCategory(current Category, p CategoryPatch, updatedAt time.Time) Category {
	return Category{
		ID:        current.ID,
		Name:      p.Name.Or(current.Name),
		Color:     p.Color.Or(current.Color),
		Icon:      p.Icon.Or(current.Icon),
		CreatedAt: current.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

// DefaultCategory is a name/color/icon triple used to seed an empty store.
type DefaultCategory struct {
	Name  string
	Color CategoryColor
	Icon  string
}

// DefaultCategories is the starter set offered on first run.
var DefaultCategories = []DefaultCategory{
	{Name: "General", Color: ColorBlue, Icon: "folder"},
	{Name: "Work", Color: ColorOrange, Icon: "briefcase"},
	{Name: "Personal", Color: ColorGreen, Icon: "person"},
	{Name: "Shopping", Color: ColorPurple, Icon: "cart"},
	{Name: "Health", Color: ColorRed, Icon: "heart"},
}
