package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
)

// Risk tier thresholds on predicted-total-to-budget ratio
var (
	riskRatioHigh   = decimal.NewFromFloat(1.2)
	riskRatioMedium = decimal.NewFromFloat(0.9)
)

// ProjectionService extrapolates month-end spending from the rate so far
type ProjectionService struct {
	transactionRepo domain.TransactionRepository
	summaryService  *SummaryService
}

// NewProjectionService creates a new ProjectionService
func NewProjectionService(transactionRepo domain.TransactionRepository, summaryService *SummaryService) *ProjectionService {
	return &ProjectionService{
		transactionRepo: transactionRepo,
		summaryService:  summaryService,
	}
}

// GetProjection builds the current-month projection for a user
func (s *ProjectionService) GetProjection(userID uuid.UUID) (*domain.MonthlyProjection, error) {
	now := time.Now()

	start, end := util.MonthBounds(now.Year(), int(now.Month()))
	transactions, err := s.transactionRepo.GetByUserAndDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaryService.GetMonthlySummary(userID, 0, 0)
	if err != nil {
		return nil, err
	}

	return Project(transactions, summaries, now), nil
}

// Project is the pure projection computation. It produces a cumulative
// actual/predicted series covering every calendar day of today's month, plus
// per-category month-end predictions for categories with a nonzero budget.
//
// Past days carry both values (they coincide); future days carry only a
// predicted value, extrapolated from the average daily spend so far.
func Project(
	transactions []*domain.Transaction,
	summaries []*domain.CategorySummary,
	today time.Time,
) *domain.MonthlyProjection {
	year := today.Year()
	month := int(today.Month())
	daysInMonth := util.DaysInMonth(year, month)
	daysElapsed := today.Day()
	if daysElapsed < 1 {
		daysElapsed = 1
	}

	// Per-day actual spending for this month only
	dayTotals := make(map[int]decimal.Decimal)
	for _, tx := range transactions {
		if tx.Date.Year() != year || int(tx.Date.Month()) != month {
			continue
		}
		day := tx.Date.Day()
		dayTotals[day] = dayTotals[day].Add(tx.Amount)
	}

	monthSpent := decimal.Zero
	for _, summary := range summaries {
		monthSpent = monthSpent.Add(summary.TotalSpent)
	}
	elapsed := decimal.NewFromInt(int64(daysElapsed))

	series := make([]domain.ProjectionPoint, 0, daysInMonth)
	cumulative := decimal.Zero
	for day := 1; day <= daysInMonth; day++ {
		if day <= today.Day() {
			cumulative = cumulative.Add(dayTotals[day])
			actual := cumulative
			series = append(series, domain.ProjectionPoint{
				Day:       day,
				Actual:    &actual,
				Predicted: cumulative,
			})
		} else {
			// Extrapolate each future day from the observed total in one
			// step; accumulating a divided daily average compounds the
			// truncation Div introduces
			extra := monthSpent.Mul(decimal.NewFromInt(int64(day - daysElapsed))).Div(elapsed)
			series = append(series, domain.ProjectionPoint{
				Day:       day,
				Predicted: cumulative.Add(extra),
			})
		}
	}

	confidence := SeriesConfidence(BuildDailySeries(transactions))

	return &domain.MonthlyProjection{
		Year:        year,
		Month:       month,
		Series:      series,
		Predictions: predictCategories(summaries, daysElapsed, daysInMonth, confidence),
	}
}

// predictCategories extrapolates each budgeted category to month end.
// Categories without a budget are excluded entirely: no budget means no
// overrun risk to score, and no divisor to blow up on.
func predictCategories(
	summaries []*domain.CategorySummary,
	daysElapsed, daysInMonth int,
	confidence float64,
) []domain.Prediction {
	predictions := make([]domain.Prediction, 0)
	for _, summary := range summaries {
		if !summary.BudgetAmount.IsPositive() {
			continue
		}

		// Multiply before dividing: Div rounds at a fixed precision, so
		// dividing first turns 200/15*30 into 399.99...
		predictedTotal := summary.TotalSpent.
			Mul(decimal.NewFromInt(int64(daysInMonth))).
			Div(decimal.NewFromInt(int64(daysElapsed)))
		ratio := predictedTotal.Div(summary.BudgetAmount)

		risk := domain.RiskLevelLow
		switch {
		case ratio.GreaterThan(riskRatioHigh):
			risk = domain.RiskLevelHigh
		case ratio.GreaterThan(riskRatioMedium):
			risk = domain.RiskLevelMedium
		}

		predictions = append(predictions, domain.Prediction{
			Category:       summary.CategoryName,
			CurrentSpent:   summary.TotalSpent,
			PredictedTotal: predictedTotal,
			Budget:         summary.BudgetAmount,
			Confidence:     confidence,
			RiskLevel:      risk,
			DaysRemaining:  daysInMonth - daysElapsed,
		})
	}
	return predictions
}
