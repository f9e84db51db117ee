package service

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

// DefaultHealthWindowMonths is the trailing window used for health scoring
const DefaultHealthWindowMonths = 3

// essentialCategories are the expense categories counted as essential when
// computing the essential-expense ratio
var essentialCategories = map[string]bool{
	"Housing":        true,
	"Utilities":      true,
	"Groceries":      true,
	"Transportation": true,
}

// HealthService scores the user's overall financial health from income,
// expense and savings flows over a trailing window
type HealthService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
}

// NewHealthService creates a new HealthService
func NewHealthService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *HealthService {
	return &HealthService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
	}
}

// GetFinancialHealth computes the health score over the default window
func (s *HealthService) GetFinancialHealth(userID uuid.UUID) (*domain.FinancialHealth, error) {
	now := time.Now()
	start := now.AddDate(0, -DefaultHealthWindowMonths, 0)

	transactions, err := s.transactionRepo.GetByUserAndDateRange(userID, start, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}

	return BuildFinancialHealth(transactions, categories, DefaultHealthWindowMonths), nil
}

// BuildFinancialHealth classifies transaction flows by category type and
// scores them 0-100. Ratios fall back to zero when their denominator is zero,
// so empty input produces a zero-valued (not erroring) result.
func BuildFinancialHealth(
	transactions []*domain.Transaction,
	categories []*domain.Category,
	windowMonths int,
) *domain.FinancialHealth {
	catByID := make(map[int32]*domain.Category, len(categories))
	for _, cat := range categories {
		catByID[cat.ID] = cat
	}

	income := decimal.Zero
	expenses := decimal.Zero
	savings := decimal.Zero
	essential := decimal.Zero

	for _, tx := range transactions {
		cat, ok := catByID[tx.CategoryID]
		if !ok {
			// Unknown categories count as discretionary expense
			expenses = expenses.Add(tx.Amount)
			continue
		}
		switch cat.Type {
		case domain.CategoryTypeIncome:
			income = income.Add(tx.Amount)
		case domain.CategoryTypeSavings:
			savings = savings.Add(tx.Amount)
		default:
			expenses = expenses.Add(tx.Amount)
			if essentialCategories[cat.Name] {
				essential = essential.Add(tx.Amount)
			}
		}
	}

	health := &domain.FinancialHealth{
		WindowMonths:          windowMonths,
		TotalIncome:           income,
		TotalExpenses:         expenses,
		TotalSavings:          savings,
		EssentialExpenses:     essential,
		DiscretionaryExpenses: expenses.Sub(essential),
		NetCashFlow:           income.Sub(expenses).Sub(savings),
	}

	if income.IsPositive() {
		health.SavingsRate = ratioPercent(savings, income)
		health.ExpenseRatio = ratioPercent(expenses, income)
	}
	if expenses.IsPositive() {
		health.EssentialExpenseRatio = ratioPercent(essential, expenses)
	}

	health.Score = healthScore(health)
	health.Grade = healthGrade(health)
	return health
}

func ratioPercent(numerator, denominator decimal.Decimal) float64 {
	v, _ := numerator.Div(denominator).Mul(decimal.NewFromInt(100)).Float64()
	return v
}

// healthScore combines savings rate, expense ratio, essential-expense ratio
// and net cash flow into a 0-100 score
func healthScore(h *domain.FinancialHealth) float64 {
	score := h.SavingsRate * 2

	if h.ExpenseRatio <= 80 {
		score += 20
	} else {
		score += math.Max(0, 20-(h.ExpenseRatio-80))
	}

	if h.EssentialExpenseRatio <= 60 {
		score += 15
	} else {
		score += math.Max(0, 15-(h.EssentialExpenseRatio-60)*0.5)
	}

	if !h.NetCashFlow.IsNegative() {
		score += 15
	}

	return math.Min(100, math.Max(0, score))
}

func healthGrade(h *domain.FinancialHealth) domain.HealthGrade {
	switch {
	case h.SavingsRate >= 20 && h.ExpenseRatio <= 80 && h.EssentialExpenseRatio <= 60:
		return domain.HealthGradeExcellent
	case h.SavingsRate >= 15 && h.ExpenseRatio <= 85 && h.EssentialExpenseRatio <= 70:
		return domain.HealthGradeGood
	case h.SavingsRate >= 10 && h.ExpenseRatio <= 90 && h.EssentialExpenseRatio <= 80:
		return domain.HealthGradeFair
	default:
		return domain.HealthGradeNeedsImprovement
	}
}
