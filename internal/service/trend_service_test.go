package service

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

func TestBuildDailySeries(t *testing.T) {
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(10), Date: date(2026, 8, 1)},
		{Amount: decimal.NewFromInt(5), Date: date(2026, 8, 1)},
		{Amount: decimal.NewFromInt(20), Date: date(2026, 8, 3)},
	}

	series := BuildDailySeries(transactions)

	if len(series) != 2 {
		t.Fatalf("expected 2 days in series, got %d", len(series))
	}
	if !series["2026-08-01"].Equal(decimal.NewFromInt(15)) {
		t.Errorf("expected 15 on 2026-08-01, got %s", series["2026-08-01"].String())
	}
	if !series["2026-08-03"].Equal(decimal.NewFromInt(20)) {
		t.Errorf("expected 20 on 2026-08-03, got %s", series["2026-08-03"].String())
	}
	// Quiet days are absent, not zero-filled
	if _, ok := series["2026-08-02"]; ok {
		t.Error("expected no entry for a day without spending")
	}
}

func TestAnalyzeTrends_WeekOverWeek(t *testing.T) {
	now := date(2026, 8, 20)
	transactions := []*domain.Transaction{
		// Last 7 days: 150
		{Amount: decimal.NewFromInt(100), Date: date(2026, 8, 18)},
		{Amount: decimal.NewFromInt(50), Date: date(2026, 8, 15)},
		// Previous 7 days: 100
		{Amount: decimal.NewFromInt(100), Date: date(2026, 8, 8)},
		// Outside both windows: ignored
		{Amount: decimal.NewFromInt(999), Date: date(2026, 8, 1)},
	}

	report := AnalyzeTrends(transactions, nil, now)

	if report.WeekOverWeek == nil {
		t.Fatal("expected a week-over-week trend")
	}
	trend := report.WeekOverWeek
	if !trend.RecentTotal.Equal(decimal.NewFromInt(150)) {
		t.Errorf("expected recent total 150, got %s", trend.RecentTotal.String())
	}
	if !trend.PreviousTotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected previous total 100, got %s", trend.PreviousTotal.String())
	}
	if math.Abs(trend.ChangePercent-50) > 0.001 {
		t.Errorf("expected +50%% change, got %f", trend.ChangePercent)
	}
	if !trend.Increasing {
		t.Error("expected increasing trend")
	}
}

func TestAnalyzeTrends_WeekOverWeekUndefinedWithoutPreviousSpend(t *testing.T) {
	now := date(2026, 8, 20)
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(100), Date: date(2026, 8, 18)},
	}

	report := AnalyzeTrends(transactions, nil, now)

	if report.WeekOverWeek != nil {
		t.Error("expected no trend when the previous window saw no spend")
	}
}

func TestSeriesConfidence(t *testing.T) {
	// Steady spending: zero variance, full confidence
	steady := map[string]decimal.Decimal{
		"2026-08-01": decimal.NewFromInt(10),
		"2026-08-02": decimal.NewFromInt(10),
		"2026-08-03": decimal.NewFromInt(10),
	}
	if c := SeriesConfidence(steady); c != 1.0 {
		t.Errorf("expected confidence 1.0 for steady spending, got %f", c)
	}

	// Highly erratic spending bottoms out at the floor
	erratic := map[string]decimal.Decimal{
		"2026-08-01": decimal.NewFromInt(1),
		"2026-08-02": decimal.NewFromInt(1000),
		"2026-08-03": decimal.NewFromInt(1),
		"2026-08-04": decimal.NewFromInt(1),
	}
	if c := SeriesConfidence(erratic); c != ConfidenceFloor {
		t.Errorf("expected confidence floor %f, got %f", ConfidenceFloor, c)
	}

	// Empty series has no variability to distrust
	if c := SeriesConfidence(map[string]decimal.Decimal{}); c != 1.0 {
		t.Errorf("expected confidence 1.0 for empty series, got %f", c)
	}
}

func TestAnalyzeTrends_SpikeDay(t *testing.T) {
	now := date(2026, 8, 20)
	// Average over active days = (10+10+10+90)/4 = 30; spike threshold = 60
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(10), Date: date(2026, 8, 1)},
		{Amount: decimal.NewFromInt(10), Date: date(2026, 8, 2)},
		{Amount: decimal.NewFromInt(10), Date: date(2026, 8, 3)},
		{Amount: decimal.NewFromInt(90), Date: date(2026, 8, 4)},
	}

	report := AnalyzeTrends(transactions, nil, now)

	if report.SpikeDay == nil {
		t.Fatal("expected a spike day")
	}
	if report.SpikeDay.Date != "2026-08-04" {
		t.Errorf("expected spike on 2026-08-04, got %s", report.SpikeDay.Date)
	}
	if !report.SpikeDay.Total.Equal(decimal.NewFromInt(90)) {
		t.Errorf("expected spike total 90, got %s", report.SpikeDay.Total.String())
	}
}

func TestAnalyzeTrends_NoSpikeOnEvenSpending(t *testing.T) {
	now := date(2026, 8, 20)
	transactions := []*domain.Transaction{
		{Amount: decimal.NewFromInt(10), Date: date(2026, 8, 1)},
		{Amount: decimal.NewFromInt(12), Date: date(2026, 8, 2)},
		{Amount: decimal.NewFromInt(11), Date: date(2026, 8, 3)},
	}

	report := AnalyzeTrends(transactions, nil, now)

	if report.SpikeDay != nil {
		t.Errorf("expected no spike day, got %s", report.SpikeDay.Date)
	}
}

func TestAnalyzeTrends_Concentration(t *testing.T) {
	now := date(2026, 8, 20)
	// Dining holds 90/140 = ~64% of spend, above the 40% threshold
	summaries := []*domain.CategorySummary{
		{CategoryName: "Dining", TotalSpent: decimal.NewFromInt(90)},
		{CategoryName: "Groceries", TotalSpent: decimal.NewFromInt(50)},
	}

	report := AnalyzeTrends(nil, summaries, now)

	if report.Concentration == nil {
		t.Fatal("expected a concentration flag")
	}
	if report.Concentration.CategoryName != "Dining" {
		t.Errorf("expected Dining flagged, got %s", report.Concentration.CategoryName)
	}
	if math.Abs(report.Concentration.SharePercent-64.2857) > 0.01 {
		t.Errorf("expected share ~64.29%%, got %f", report.Concentration.SharePercent)
	}
}

func TestAnalyzeTrends_NoConcentrationWhenBalanced(t *testing.T) {
	now := date(2026, 8, 20)
	summaries := []*domain.CategorySummary{
		{CategoryName: "A", TotalSpent: decimal.NewFromInt(30)},
		{CategoryName: "B", TotalSpent: decimal.NewFromInt(35)},
		{CategoryName: "C", TotalSpent: decimal.NewFromInt(35)},
	}

	report := AnalyzeTrends(nil, summaries, now)

	if report.Concentration != nil {
		t.Errorf("expected no concentration flag, got %s", report.Concentration.CategoryName)
	}
}

func TestAnalyzeTrends_FrequentSmallPurchases(t *testing.T) {
	now := date(2026, 8, 20)
	summaries := []*domain.CategorySummary{
		// 25 purchases averaging $4: flagged
		{CategoryName: "Coffee", TotalSpent: decimal.NewFromInt(100), TransactionCount: 25},
		// 25 purchases averaging $20: too large
		{CategoryName: "Dining", TotalSpent: decimal.NewFromInt(500), TransactionCount: 25},
		// 5 purchases averaging $4: too few
		{CategoryName: "Snacks", TotalSpent: decimal.NewFromInt(20), TransactionCount: 5},
	}

	report := AnalyzeTrends(nil, summaries, now)

	if len(report.FrequentSmall) != 1 {
		t.Fatalf("expected 1 frequency flag, got %d", len(report.FrequentSmall))
	}
	flag := report.FrequentSmall[0]
	if flag.CategoryName != "Coffee" {
		t.Errorf("expected Coffee flagged, got %s", flag.CategoryName)
	}
	if !flag.AverageAmount.Equal(decimal.NewFromInt(4)) {
		t.Errorf("expected average 4, got %s", flag.AverageAmount.String())
	}
}

func TestAnalyzeTrends_EmptyInput(t *testing.T) {
	report := AnalyzeTrends(nil, nil, time.Now())

	if len(report.DailySeries) != 0 {
		t.Errorf("expected empty series, got %d entries", len(report.DailySeries))
	}
	if report.WeekOverWeek != nil || report.SpikeDay != nil || report.Concentration != nil {
		t.Error("expected no flags on empty input")
	}
	if len(report.FrequentSmall) != 0 {
		t.Errorf("expected no frequency flags, got %d", len(report.FrequentSmall))
	}
	if report.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", report.Confidence)
	}
}
