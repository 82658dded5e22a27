package entity

import (
	"time"

	"github.com/google/uuid"
)

// CategoryType represents the kind of records a category groups.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "EXPENSE"
	CategoryTypeIncome  CategoryType = "INCOME"
)

const (
	DefaultCategoryColor = "#6366F1"
	DefaultCategoryIcon  = "tag"
)

// Category groups expenses or incomes.
// A category is either global (OwnerID nil) or owned by exactly one user.
type Category struct {
	ID        uuid.UUID
	Name      string
	Color     string
	Icon      string
	Type      CategoryType
	OwnerID   *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewCategory creates a new Category entity. A nil owner makes it global.
func NewCategory(name, color, icon string, categoryType CategoryType, ownerID *uuid.UUID) *Category {
	now := time.Now().UTC()

	if color == "" {
		color = DefaultCategoryColor
	}
	if icon == "" {
		icon = DefaultCategoryIcon
	}

	return &Category{
		ID:        uuid.New(),
		Name:      name,
		Color:     color,
		Icon:      icon,
		Type:      categoryType,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsGlobal reports whether the category is shared by all users.
func (c *Category) IsGlobal() bool {
	return c.OwnerID == nil
}

// VisibleTo reports whether the user may reference this category.
func (c *Category) VisibleTo(userID uuid.UUID) bool {
	return c.IsGlobal() || *c.OwnerID == userID
}

// GlobalKey identifies a global category by name and type.
func (c *Category) GlobalKey() string {
	return string(c.Type) + ":" + c.Name
}

// DefaultGlobalCategories returns the categories every installation starts with.
func DefaultGlobalCategories() []*Category {
	defaults := []struct {
		name  string
		color string
		icon  string
		kind  CategoryType
	}{
		{"Groceries", "#22C55E", "shopping-cart", CategoryTypeExpense},
		{"Rent", "#EF4444", "home", CategoryTypeExpense},
		{"Utilities", "#F59E0B", "zap", CategoryTypeExpense},
		{"Transport", "#3B82F6", "car", CategoryTypeExpense},
		{"Dining", "#EC4899", "utensils", CategoryTypeExpense},
		{"Health", "#14B8A6", "heart", CategoryTypeExpense},
		{"Entertainment", "#8B5CF6", "film", CategoryTypeExpense},
		{"Salary", "#10B981", "briefcase", CategoryTypeIncome},
		{"Freelance", "#0EA5E9", "laptop", CategoryTypeIncome},
		{"Investments", "#6366F1", "trending-up", CategoryTypeIncome},
	}

	out := make([]*Category, 0, len(defaults))
	for _, d := range defaults {
		out = append(out, NewCategory(d.name, d.color, d.icon, d.kind, nil))
	}
	return out
}
