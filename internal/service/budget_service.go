package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/websocket"
)

// BudgetService handles budget business logic
type BudgetService struct {
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.CategoryRepository
	publisher    websocket.EventPublisher
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// BudgetInput represents a single budget to set in batch requests
type BudgetInput struct {
	CategoryID int32
	Amount     decimal.Decimal
}

// BudgetMonth contains all budgets for a month plus the total
type BudgetMonth struct {
	Year       int                          `json:"year"`
	Month      int                          `json:"month"`
	Total      decimal.Decimal              `json:"total"`
	Categories []*domain.BudgetWithCategory `json:"categories"`
}

// GetBudgetsForMonth retrieves all budgets for a month with category names
func (s *BudgetService) GetBudgetsForMonth(userID uuid.UUID, year, month int) (*BudgetMonth, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	budgets, err := s.budgetRepo.GetByMonth(userID, year, month)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}
	nameByID := make(map[int32]string, len(categories))
	for _, cat := range categories {
		nameByID[cat.ID] = cat.Name
	}

	total := decimal.Zero
	rows := make([]*domain.BudgetWithCategory, 0, len(budgets))
	for _, b := range budgets {
		name := nameByID[b.CategoryID]
		if name == "" {
			name = domain.UnknownCategoryName
		}
		rows = append(rows, &domain.BudgetWithCategory{
			CategoryID:   b.CategoryID,
			CategoryName: name,
			Amount:       b.Amount,
		})
		total = total.Add(b.Amount)
	}

	return &BudgetMonth{
		Year:       year,
		Month:      month,
		Total:      total,
		Categories: rows,
	}, nil
}

// SetBudget creates or replaces the budget for (user, category, month, year)
func (s *BudgetService) SetBudget(userID uuid.UUID, categoryID int32, year, month int, amount decimal.Decimal) (*domain.Budget, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return nil, err
	}

	budget, err := s.budgetRepo.Upsert(&domain.Budget{
		UserID:     userID,
		CategoryID: categoryID,
		Year:       year,
		Month:      month,
		Amount:     amount,
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.BudgetUpdated(budget))
	return budget, nil
}

// SetBudgets sets multiple budgets for a month in a batch (atomic)
func (s *BudgetService) SetBudgets(userID uuid.UUID, year, month int, inputs []BudgetInput) (*BudgetMonth, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	// Validate everything before writing anything
	budgets := make([]*domain.Budget, len(inputs))
	for i, input := range inputs {
		if input.Amount.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		if _, err := s.categoryRepo.GetByID(input.CategoryID); err != nil {
			return nil, err
		}
		budgets[i] = &domain.Budget{
			UserID:     userID,
			CategoryID: input.CategoryID,
			Year:       year,
			Month:      month,
			Amount:     input.Amount,
		}
	}

	if err := s.budgetRepo.UpsertBatch(budgets); err != nil {
		return nil, err
	}

	result, err := s.GetBudgetsForMonth(userID, year, month)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(userID, websocket.BudgetUpdated(result))
	return result, nil
}

// DeleteBudget removes the budget for (user, category, month, year)
func (s *BudgetService) DeleteBudget(userID uuid.UUID, categoryID int32, year, month int) error {
	if _, err := s.categoryRepo.GetByID(categoryID); err != nil {
		return err
	}

	if err := s.budgetRepo.Delete(userID, categoryID, year, month); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.BudgetDeleted(map[string]interface{}{
		"categoryId": categoryID,
		"year":       year,
		"month":      month,
	}))
	return nil
}
