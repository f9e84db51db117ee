package domain

import "time"

// CategoryType classifies what a category tracks. It replaces fragile
// name-substring matching ("savings", "investment", ...) with an explicit tag.
type CategoryType string

const (
	CategoryTypeExpense CategoryType = "expense"
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeSavings CategoryType = "savings"
)

// Valid reports whether the category type is one of the known values
func (t CategoryType) Valid() bool {
	switch t {
	case CategoryTypeExpense, CategoryTypeIncome, CategoryTypeSavings:
		return true
	}
	return false
}

// Category is shared reference data: many transactions and budgets point at one category
type Category struct {
	ID        int32        `json:"id"`
	Name      string       `json:"name"`
	Color     string       `json:"color"`
	Icon      string       `json:"icon"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// UnknownCategoryName is the bucket used for transactions whose category
// is missing from the catalog. Aggregation never fails on a dangling reference.
const UnknownCategoryName = "Unknown"

// CategoryRepository defines the interface for category persistence operations
type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(id int32) (*Category, error)
	GetByName(name string) (*Category, error)
	GetAll() ([]*Category, error)
	Update(id int32, name, color, icon string, categoryType CategoryType) (*Category, error)
	Delete(id int32) error
	HasTransactions(id int32) (bool, error)
}
