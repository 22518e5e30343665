package domain

import "github.com/google/uuid"

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INC"
	CategoryTypeExpense CategoryType = "EXP"
)

const (
	DefaultCategoryIcon  = "🏷️"
	DefaultCategoryColor = "#60A5FA"
)

// Category labels transactions. A category with a nil UserID is global and
// visible to every user; owned categories are visible to their owner only.
type Category struct {
	ID     int32        `json:"id"`
	UserID *uuid.UUID   `json:"-"`
	Name   string       `json:"name"`
	Type   CategoryType `json:"type"`
	Icon   string       `json:"icon"`
	Color  string       `json:"color"`
}

// IsGlobal reports whether the category is shared across all users.
func (c *Category) IsGlobal() bool {
	return c.UserID == nil
}

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	// GetVisibleByID returns the category if it is owned by the user or global.
	GetVisibleByID(userID uuid.UUID, id int32) (*Category, error)
	// GetAllVisible returns the user's own categories plus global ones, by name.
	GetAllVisible(userID uuid.UUID) ([]*Category, error)
	// FindVisibleByName returns the first owned-or-global category with the
	// given name, or ErrCategoryNotFound.
	FindVisibleByName(userID uuid.UUID, name string) (*Category, error)
	// Update and Delete operate on owned categories only; global categories
	// are read-only to users.
	Update(userID uuid.UUID, id int32, name string, catType CategoryType, icon, color string) (*Category, error)
	Delete(userID uuid.UUID, id int32) error
}
