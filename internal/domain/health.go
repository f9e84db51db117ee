package domain

import "github.com/shopspring/decimal"

// HealthGrade is a coarse label for the overall financial health score
type HealthGrade string

const (
	HealthGradeExcellent        HealthGrade = "Excellent"
	HealthGradeGood             HealthGrade = "Good"
	HealthGradeFair             HealthGrade = "Fair"
	HealthGradeNeedsImprovement HealthGrade = "Needs Improvement"
)

// FinancialHealth summarizes income, expenses and savings over a trailing
// window and scores them 0-100. Ratios are percentages.
type FinancialHealth struct {
	WindowMonths          int             `json:"windowMonths"`
	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalExpenses         decimal.Decimal `json:"totalExpenses"`
	TotalSavings          decimal.Decimal `json:"totalSavings"`
	EssentialExpenses     decimal.Decimal `json:"essentialExpenses"`
	DiscretionaryExpenses decimal.Decimal `json:"discretionaryExpenses"`
	NetCashFlow           decimal.Decimal `json:"netCashFlow"`
	SavingsRate           float64         `json:"savingsRate"`
	ExpenseRatio          float64         `json:"expenseRatio"`
	EssentialExpenseRatio float64         `json:"essentialExpenseRatio"`
	Score                 float64         `json:"score"`
	Grade                 HealthGrade     `json:"grade"`
}
