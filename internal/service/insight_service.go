package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
)

const (
	// ApproachingLimitPercent is the utilization above which a category is
	// flagged as approaching its budget
	ApproachingLimitPercent = 80.0
	// OverBudgetPercent is the utilization above which a category is over budget
	OverBudgetPercent = 100.0
)

// InsightService is a rule engine over aggregated summaries and raw
// transactions. Each rule is independent; the combined list is sorted by
// priority before being returned.
type InsightService struct {
	transactionRepo domain.TransactionRepository
	summaryService  *SummaryService
}

// NewInsightService creates a new InsightService
func NewInsightService(transactionRepo domain.TransactionRepository, summaryService *SummaryService) *InsightService {
	return &InsightService{
		transactionRepo: transactionRepo,
		summaryService:  summaryService,
	}
}

// GetInsights generates insights for the user's current month
func (s *InsightService) GetInsights(userID uuid.UUID) ([]domain.Insight, error) {
	transactions, err := s.transactionRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaryService.GetMonthlySummary(userID, 0, 0)
	if err != nil {
		return nil, err
	}

	return GenerateInsights(transactions, summaries, time.Now()), nil
}

// GenerateInsights runs every rule and returns the combined list sorted by
// priority descending. The sort is stable so equal-priority insights keep
// their generation order. No triggering condition yields an empty list, which
// callers must treat as "not enough data" rather than an error.
func GenerateInsights(
	transactions []*domain.Transaction,
	summaries []*domain.CategorySummary,
	now time.Time,
) []domain.Insight {
	insights := make([]domain.Insight, 0)

	insights = append(insights, budgetInsights(summaries, now)...)

	trend := AnalyzeTrends(transactions, summaries, now)
	if trend.SpikeDay != nil {
		insights = append(insights, spikeDayInsight(trend.SpikeDay))
	}
	if trend.Concentration != nil {
		insights = append(insights, concentrationInsight(trend.Concentration))
	}
	for _, flag := range trend.FrequentSmall {
		insights = append(insights, frequentSmallInsight(flag))
	}
	if best := bestPerformingInsight(summaries); best != nil {
		insights = append(insights, *best)
	}
	if trend.WeekOverWeek != nil {
		if weekly := weeklyTrendInsight(trend.WeekOverWeek); weekly != nil {
			insights = append(insights, *weekly)
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority.Weight() > insights[j].Priority.Weight()
	})

	return insights
}

// budgetInsights covers the over-budget and approaching-limit rules.
// Categories without a budget are skipped: utilization is undefined for them.
func budgetInsights(summaries []*domain.CategorySummary, now time.Time) []domain.Insight {
	daysLeft := util.DaysInMonth(now.Year(), int(now.Month())) - now.Day()

	var insights []domain.Insight
	for _, summary := range summaries {
		if !summary.BudgetAmount.IsPositive() {
			continue
		}

		utilization, _ := summary.TotalSpent.Div(summary.BudgetAmount).Mul(decimal.NewFromInt(100)).Float64()

		switch {
		case utilization > OverBudgetPercent:
			overspend := summary.TotalSpent.Sub(summary.BudgetAmount)
			insights = append(insights, domain.Insight{
				Kind:  domain.InsightKindWarning,
				Title: fmt.Sprintf("%s is over budget", summary.CategoryName),
				Description: fmt.Sprintf("You have spent $%s against a $%s budget, putting you $%s (%.0f%%) over.",
					summary.TotalSpent.StringFixed(2), summary.BudgetAmount.StringFixed(2),
					overspend.StringFixed(2), utilization-100),
				RecommendedAction: fmt.Sprintf("Pause non-essential %s spending for the rest of the month.", summary.CategoryName),
				Priority:          domain.InsightPriorityHigh,
				Category:          summary.CategoryName,
				Value:             &overspend,
			})
		case utilization > ApproachingLimitPercent:
			remaining := summary.RemainingBudget
			insights = append(insights, domain.Insight{
				Kind:  domain.InsightKindWarning,
				Title: fmt.Sprintf("%s is approaching its budget", summary.CategoryName),
				Description: fmt.Sprintf("You have used %.0f%% of your %s budget with %d days left in the month.",
					utilization, summary.CategoryName, daysLeft),
				RecommendedAction: fmt.Sprintf("You have $%s left; spread it across the remaining days.", remaining.StringFixed(2)),
				Priority:          domain.InsightPriorityMedium,
				Category:          summary.CategoryName,
				Value:             &remaining,
			})
		}
	}
	return insights
}

func spikeDayInsight(spike *domain.DaySpend) domain.Insight {
	total := spike.Total
	return domain.Insight{
		Kind:  domain.InsightKindTrend,
		Title: "High spending day detected",
		Description: fmt.Sprintf("You spent $%s on %s, more than double your typical daily spending.",
			spike.Total.StringFixed(2), spike.Date),
		Priority: domain.InsightPriorityMedium,
		Value:    &total,
	}
}

func concentrationInsight(flag *domain.ConcentrationFlag) domain.Insight {
	share := decimal.NewFromFloat(flag.SharePercent).Round(2)
	return domain.Insight{
		Kind:  domain.InsightKindWarning,
		Title: fmt.Sprintf("Spending concentrated in %s", flag.CategoryName),
		Description: fmt.Sprintf("%s accounts for %.0f%% of your spending this month.",
			flag.CategoryName, flag.SharePercent),
		RecommendedAction: "Check whether this concentration matches your priorities.",
		Priority:          domain.InsightPriorityMedium,
		Category:          flag.CategoryName,
		Value:             &share,
	}
}

func frequentSmallInsight(flag domain.FrequencyFlag) domain.Insight {
	average := flag.AverageAmount
	return domain.Insight{
		Kind:  domain.InsightKindSuggestion,
		Title: fmt.Sprintf("Frequent small purchases in %s", flag.CategoryName),
		Description: fmt.Sprintf("%d purchases averaging $%s each add up quickly.",
			flag.TransactionCount, flag.AverageAmount.StringFixed(2)),
		RecommendedAction: "Consider batching these purchases or setting a weekly allowance.",
		Priority:          domain.InsightPriorityLow,
		Category:          flag.CategoryName,
		Value:             &average,
	}
}

// bestPerformingInsight rewards the healthiest budgeted category: under 80%
// utilization with the largest absolute remaining budget
func bestPerformingInsight(summaries []*domain.CategorySummary) *domain.Insight {
	var best *domain.CategorySummary
	for _, summary := range summaries {
		if !summary.BudgetAmount.IsPositive() {
			continue
		}
		utilization, _ := summary.TotalSpent.Div(summary.BudgetAmount).Mul(decimal.NewFromInt(100)).Float64()
		if utilization >= ApproachingLimitPercent {
			continue
		}
		if best == nil || summary.RemainingBudget.GreaterThan(best.RemainingBudget) {
			best = summary
		}
	}
	if best == nil {
		return nil
	}

	remaining := best.RemainingBudget
	return &domain.Insight{
		Kind:  domain.InsightKindAchievement,
		Title: fmt.Sprintf("%s is on track", best.CategoryName),
		Description: fmt.Sprintf("Your best performing budget: $%s of the %s budget is still available.",
			best.RemainingBudget.StringFixed(2), best.CategoryName),
		Priority: domain.InsightPriorityLow,
		Category: best.CategoryName,
		Value:    &remaining,
	}
}

// weeklyTrendInsight reports significant week-over-week changes. Rising spend
// is a warning, falling spend an achievement; changes beyond
// HighChangePercent escalate to high priority.
func weeklyTrendInsight(trend *domain.WeekTrend) *domain.Insight {
	magnitude := math.Abs(trend.ChangePercent)
	if magnitude <= SignificantChangePercent {
		return nil
	}

	priority := domain.InsightPriorityMedium
	if magnitude > HighChangePercent {
		priority = domain.InsightPriorityHigh
	}

	change := decimal.NewFromFloat(trend.ChangePercent).Round(2)
	if trend.Increasing {
		return &domain.Insight{
			Kind:  domain.InsightKindWarning,
			Title: "Spending is trending up",
			Description: fmt.Sprintf("You spent %.0f%% more this week ($%s) than the week before ($%s).",
				magnitude, trend.RecentTotal.StringFixed(2), trend.PreviousTotal.StringFixed(2)),
			RecommendedAction: "Review this week's purchases for anything unplanned.",
			Priority:          priority,
			Value:             &change,
		}
	}
	return &domain.Insight{
		Kind:  domain.InsightKindAchievement,
		Title: "Spending is trending down",
		Description: fmt.Sprintf("You spent %.0f%% less this week ($%s) than the week before ($%s).",
			magnitude, trend.RecentTotal.StringFixed(2), trend.PreviousTotal.StringFixed(2)),
		Priority: priority,
		Value:    &change,
	}
}
