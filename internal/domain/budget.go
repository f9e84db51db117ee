package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Budget is a per-category monthly spending ceiling.
// One row exists per (user, category, month, year); setting it again replaces the amount.
type Budget struct {
	ID         int32           `json:"id"`
	UserID     uuid.UUID       `json:"userId"`
	CategoryID int32           `json:"categoryId"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
	Amount     decimal.Decimal `json:"amount"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// BudgetWithCategory pairs a budget amount with its category name for display
type BudgetWithCategory struct {
	CategoryID   int32           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
}

// BudgetRepository defines the interface for budget persistence operations
type BudgetRepository interface {
	Upsert(budget *Budget) (*Budget, error)
	UpsertBatch(budgets []*Budget) error
	GetByMonth(userID uuid.UUID, year, month int) ([]*Budget, error)
	GetByCategory(userID uuid.UUID, categoryID int32, year, month int) (*Budget, error)
	Delete(userID uuid.UUID, categoryID int32, year, month int) error
}
