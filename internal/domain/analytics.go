package domain

import "github.com/shopspring/decimal"

// CategorySummary is the aggregator output: one row per catalog category for
// a (user, month, year). It is derived fresh on every query and never persisted.
// RemainingBudget may be negative; clamping is a presentation concern.
type CategorySummary struct {
	CategoryID       int32           `json:"categoryId"`
	CategoryName     string          `json:"categoryName"`
	TotalSpent       decimal.Decimal `json:"totalSpent"`
	BudgetAmount     decimal.Decimal `json:"budgetAmount"`
	RemainingBudget  decimal.Decimal `json:"remainingBudget"`
	TransactionCount int             `json:"transactionCount"`
}

// InsightKind classifies a generated observation
type InsightKind string

const (
	InsightKindWarning     InsightKind = "warning"
	InsightKindSuggestion  InsightKind = "suggestion"
	InsightKindAchievement InsightKind = "achievement"
	InsightKindTrend       InsightKind = "trend"
)

// InsightPriority orders insights for display
type InsightPriority string

const (
	InsightPriorityHigh   InsightPriority = "high"
	InsightPriorityMedium InsightPriority = "medium"
	InsightPriorityLow    InsightPriority = "low"
)

// Weight returns the sort weight for the priority (high=3, medium=2, low=1)
func (p InsightPriority) Weight() int {
	switch p {
	case InsightPriorityHigh:
		return 3
	case InsightPriorityMedium:
		return 2
	default:
		return 1
	}
}

// Insight is a single human-readable observation about spending behavior
type Insight struct {
	Kind              InsightKind      `json:"kind"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	RecommendedAction string           `json:"recommendedAction,omitempty"`
	Priority          InsightPriority  `json:"priority"`
	Category          string           `json:"category,omitempty"`
	Value             *decimal.Decimal `json:"value,omitempty"`
}

// RiskLevel classifies the likelihood of a predicted budget overrun
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// Prediction is a month-end forecast for a single budgeted category
type Prediction struct {
	Category       string          `json:"category"`
	CurrentSpent   decimal.Decimal `json:"currentSpent"`
	PredictedTotal decimal.Decimal `json:"predictedTotal"`
	Budget         decimal.Decimal `json:"budget"`
	Confidence     float64         `json:"confidence"`
	RiskLevel      RiskLevel       `json:"riskLevel"`
	DaysRemaining  int             `json:"daysRemaining"`
}

// WeekTrend compares the last 7 days of spending against the 7 days before that.
// It is only produced when the previous window saw nonzero spend.
type WeekTrend struct {
	RecentTotal   decimal.Decimal `json:"recentTotal"`
	PreviousTotal decimal.Decimal `json:"previousTotal"`
	ChangePercent float64         `json:"changePercent"`
	Increasing    bool            `json:"increasing"`
}

// DaySpend is a single day's total spending
type DaySpend struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// ConcentrationFlag marks a category holding an outsized share of total spend
type ConcentrationFlag struct {
	CategoryName string  `json:"categoryName"`
	SharePercent float64 `json:"sharePercent"`
}

// FrequencyFlag marks a category with many small purchases
type FrequencyFlag struct {
	CategoryName     string          `json:"categoryName"`
	TransactionCount int             `json:"transactionCount"`
	AverageAmount    decimal.Decimal `json:"averageAmount"`
}

// TrendReport bundles the trend analyzer outputs.
// Confidence is a heuristic forecast-trust figure derived from the coefficient
// of variation of daily spending, not a statistical confidence interval.
type TrendReport struct {
	DailySeries   map[string]decimal.Decimal `json:"dailySeries"`
	WeekOverWeek  *WeekTrend                 `json:"weekOverWeek,omitempty"`
	Confidence    float64                    `json:"confidence"`
	SpikeDay      *DaySpend                  `json:"spikeDay,omitempty"`
	Concentration *ConcentrationFlag         `json:"concentration,omitempty"`
	FrequentSmall []FrequencyFlag            `json:"frequentSmall,omitempty"`
}

// ProjectionPoint is one calendar day of the month-long cumulative series.
// Actual is nil for days after today: the series distinguishes realized from projected.
type ProjectionPoint struct {
	Day       int              `json:"day"`
	Actual    *decimal.Decimal `json:"actual,omitempty"`
	Predicted decimal.Decimal  `json:"predicted"`
}

// MonthlyProjection is the projector output for the current month
type MonthlyProjection struct {
	Year        int               `json:"year"`
	Month       int               `json:"month"`
	Series      []ProjectionPoint `json:"series"`
	Predictions []Prediction      `json:"predictions"`
}
