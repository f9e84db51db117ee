package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

func TestProject_SeriesExtrapolation(t *testing.T) {
	// September has 30 days; 300 spent by the 15th gives an average of 20/day
	today := date(2026, 9, 15)
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(100), Date: date(2026, 9, 5)},
		{Amount: decimal.NewFromInt(200), Date: date(2026, 9, 12)},
	}
	summaries := []*domain.CategorySummary{
		{CategoryName: "Groceries", TotalSpent: decimal.NewFromInt(300)},
	}

	projection := Project(transactions, summaries, today)

	if projection.Year != 2026 || projection.Month != 9 {
		t.Fatalf("expected 2026-09, got %d-%d", projection.Year, projection.Month)
	}
	if len(projection.Series) != 30 {
		t.Fatalf("expected 30 series points, got %d", len(projection.Series))
	}

	// Past days carry both actual and predicted, and they coincide
	day15 := projection.Series[14]
	if day15.Actual == nil {
		t.Fatal("expected actual value on a past day")
	}
	if !day15.Actual.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected cumulative actual 300 on day 15, got %s", day15.Actual.String())
	}
	if !day15.Predicted.Equal(decimal.NewFromInt(300)) {
		t.Errorf("expected predicted 300 on day 15, got %s", day15.Predicted.String())
	}

	// Future days carry only the extrapolated value
	day16 := projection.Series[15]
	if day16.Actual != nil {
		t.Error("expected no actual value on a future day")
	}
	if !day16.Predicted.Equal(decimal.NewFromInt(320)) {
		t.Errorf("expected predicted 320 on day 16, got %s", day16.Predicted.String())
	}

	day30 := projection.Series[29]
	if !day30.Predicted.Equal(decimal.NewFromInt(600)) {
		t.Errorf("expected predicted 600 on day 30, got %s", day30.Predicted.String())
	}
}

func TestProject_CumulativeActuals(t *testing.T) {
	today := date(2026, 9, 10)
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(50), Date: date(2026, 9, 2)},
		{Amount: decimal.NewFromInt(30), Date: date(2026, 9, 5)},
	}

	projection := Project(transactions, nil, today)

	day1 := projection.Series[0]
	if day1.Actual == nil || !day1.Actual.Equal(decimal.Zero) {
		t.Error("expected cumulative 0 before first transaction")
	}
	day2 := projection.Series[1]
	if !day2.Actual.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected cumulative 50 on day 2, got %s", day2.Actual.String())
	}
	day5 := projection.Series[4]
	if !day5.Actual.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected cumulative 80 on day 5, got %s", day5.Actual.String())
	}
}

func TestProject_RiskLevels(t *testing.T) {
	// Day 15 of a 30-day month: predicted total = spent * 2
	today := date(2026, 9, 15)
	summaries := []*domain.CategorySummary{
		// 200 spent -> 400 predicted vs 300 budget: ratio 1.33 -> high
		{CategoryName: "Dining", TotalSpent: decimal.NewFromInt(200), BudgetAmount: decimal.NewFromInt(300)},
		// 150 spent -> 300 predicted vs 300 budget: ratio 1.0 -> medium
		{CategoryName: "Groceries", TotalSpent: decimal.NewFromInt(150), BudgetAmount: decimal.NewFromInt(300)},
		// 50 spent -> 100 predicted vs 300 budget: ratio 0.33 -> low
		{CategoryName: "Utilities", TotalSpent: decimal.NewFromInt(50), BudgetAmount: decimal.NewFromInt(300)},
	}

	projection := Project(nil, summaries, today)

	if len(projection.Predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %d", len(projection.Predictions))
	}

	byCategory := make(map[string]domain.Prediction)
	for _, prediction := range projection.Predictions {
		byCategory[prediction.Category] = prediction
	}

	if byCategory["Dining"].RiskLevel != domain.RiskLevelHigh {
		t.Errorf("expected Dining high risk, got %s", byCategory["Dining"].RiskLevel)
	}
	if byCategory["Groceries"].RiskLevel != domain.RiskLevelMedium {
		t.Errorf("expected Groceries medium risk, got %s", byCategory["Groceries"].RiskLevel)
	}
	if byCategory["Utilities"].RiskLevel != domain.RiskLevelLow {
		t.Errorf("expected Utilities low risk, got %s", byCategory["Utilities"].RiskLevel)
	}

	if !byCategory["Dining"].PredictedTotal.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected Dining predicted 400, got %s", byCategory["Dining"].PredictedTotal.String())
	}
	if byCategory["Dining"].DaysRemaining != 15 {
		t.Errorf("expected 15 days remaining, got %d", byCategory["Dining"].DaysRemaining)
	}
}

func TestProject_ExtrapolationStaysExact(t *testing.T) {
	// 200 over 15 days of a 30-day month has no exact per-day average,
	// but doubling it to month end must still land on exactly 400
	today := date(2026, 9, 15)
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(200), Date: date(2026, 9, 8)},
	}
	summaries := []*domain.CategorySummary{
		{CategoryName: "Dining", TotalSpent: decimal.NewFromInt(200), BudgetAmount: decimal.NewFromInt(500)},
	}

	projection := Project(transactions, summaries, today)

	day30 := projection.Series[29]
	if !day30.Predicted.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected predicted exactly 400 on day 30, got %s", day30.Predicted.String())
	}

	if len(projection.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(projection.Predictions))
	}
	prediction := projection.Predictions[0]
	if !prediction.PredictedTotal.Equal(decimal.NewFromInt(400)) {
		t.Errorf("expected predicted total exactly 400, got %s", prediction.PredictedTotal.String())
	}
	if prediction.RiskLevel != domain.RiskLevelLow {
		t.Errorf("expected low risk at 80%% of budget, got %s", prediction.RiskLevel)
	}
}

func TestProject_SkipsUnbudgetedCategories(t *testing.T) {
	today := date(2026, 9, 15)
	summaries := []*domain.CategorySummary{
		{CategoryName: "Dining", TotalSpent: decimal.NewFromInt(100), BudgetAmount: decimal.NewFromInt(200)},
		{CategoryName: "Misc", TotalSpent: decimal.NewFromInt(100), BudgetAmount: decimal.Zero},
	}

	projection := Project(nil, summaries, today)

	if len(projection.Predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(projection.Predictions))
	}
	if projection.Predictions[0].Category != "Dining" {
		t.Errorf("expected only Dining predicted, got %s", projection.Predictions[0].Category)
	}
}

func TestProject_EmptyMonth(t *testing.T) {
	today := date(2026, 9, 15)

	projection := Project(nil, nil, today)

	if len(projection.Series) != 30 {
		t.Fatalf("expected 30 series points, got %d", len(projection.Series))
	}
	for _, point := range projection.Series {
		if !point.Predicted.Equal(decimal.Zero) {
			t.Errorf("expected zero prediction on day %d, got %s", point.Day, point.Predicted.String())
		}
	}
	if len(projection.Predictions) != 0 {
		t.Errorf("expected no predictions, got %d", len(projection.Predictions))
	}
}
