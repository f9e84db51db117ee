package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
)

// SummaryService aggregates transactions and budgets into per-category
// summary rows for a single month
type SummaryService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	categoryRepo    domain.CategoryRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
) *SummaryService {
	return &SummaryService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
	}
}

// GetMonthlySummary returns one CategorySummary per catalog category for the
// given month. Zero month/year default to the current month.
func (s *SummaryService) GetMonthlySummary(userID uuid.UUID, month, year int) ([]*domain.CategorySummary, error) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}

	start, end := util.MonthBounds(year, month)
	transactions, err := s.transactionRepo.GetByUserAndDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgetRepo.GetByMonth(userID, year, month)
	if err != nil {
		return nil, err
	}

	return BuildCategorySummaries(categories, transactions, budgets), nil
}

// BuildCategorySummaries left-joins transactions and budgets onto the full
// category catalog. Categories with no activity still appear with zero values.
// Transactions referencing a category absent from the catalog are collected
// under the "Unknown" bucket instead of failing the aggregation.
// The result is sorted by category name, ascending, case-sensitive.
func BuildCategorySummaries(
	categories []*domain.Category,
	transactions []*domain.Transaction,
	budgets []*domain.Budget,
) []*domain.CategorySummary {
	spent := make(map[int32]decimal.Decimal)
	counts := make(map[int32]int)
	for _, tx := range transactions {
		spent[tx.CategoryID] = spent[tx.CategoryID].Add(tx.Amount)
		counts[tx.CategoryID]++
	}

	budgetByCategory := make(map[int32]decimal.Decimal)
	for _, b := range budgets {
		budgetByCategory[b.CategoryID] = b.Amount
	}

	known := make(map[int32]bool, len(categories))
	summaries := make([]*domain.CategorySummary, 0, len(categories)+1)
	for _, cat := range categories {
		known[cat.ID] = true
		totalSpent := spent[cat.ID]
		budget := budgetByCategory[cat.ID]
		summaries = append(summaries, &domain.CategorySummary{
			CategoryID:       cat.ID,
			CategoryName:     cat.Name,
			TotalSpent:       totalSpent,
			BudgetAmount:     budget,
			RemainingBudget:  budget.Sub(totalSpent),
			TransactionCount: counts[cat.ID],
		})
	}

	// Dangling category references land in a synthetic Unknown row
	unknownSpent := decimal.Zero
	unknownCount := 0
	for categoryID, total := range spent {
		if !known[categoryID] {
			unknownSpent = unknownSpent.Add(total)
			unknownCount += counts[categoryID]
		}
	}
	if unknownCount > 0 {
		summaries = append(summaries, &domain.CategorySummary{
			CategoryName:     domain.UnknownCategoryName,
			TotalSpent:       unknownSpent,
			BudgetAmount:     decimal.Zero,
			RemainingBudget:  unknownSpent.Neg(),
			TransactionCount: unknownCount,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CategoryName < summaries[j].CategoryName
	})

	return summaries
}
