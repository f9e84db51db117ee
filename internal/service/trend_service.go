package service

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
)

const (
	// SignificantChangePercent is the week-over-week change magnitude that
	// qualifies as a reportable trend
	SignificantChangePercent = 20.0
	// HighChangePercent escalates a week-over-week trend to high priority
	HighChangePercent = 50.0
	// ConfidenceFloor is the minimum forecast-trust value
	ConfidenceFloor = 0.3
	// SpikeMultiplier marks a day as a spike when its total exceeds this many
	// times the average over days with nonzero spend
	SpikeMultiplier = 2
	// ConcentrationThresholdPercent flags one category dominating total spend
	ConcentrationThresholdPercent = 40.0
	// FrequencyCountThreshold and SmallPurchaseLimit together flag categories
	// with many small purchases
	FrequencyCountThreshold = 20
	SmallPurchaseLimit      = 10
)

// TrendService computes daily spending series, short-window trends and
// variability measures over already-fetched transactions
type TrendService struct {
	transactionRepo domain.TransactionRepository
	summaryService  *SummaryService
}

// NewTrendService creates a new TrendService
func NewTrendService(transactionRepo domain.TransactionRepository, summaryService *SummaryService) *TrendService {
	return &TrendService{
		transactionRepo: transactionRepo,
		summaryService:  summaryService,
	}
}

// GetTrends fetches the user's full transaction history plus the current
// month's summaries and runs the trend analysis over them
func (s *TrendService) GetTrends(userID uuid.UUID) (*domain.TrendReport, error) {
	transactions, err := s.transactionRepo.GetAllByUser(userID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.summaryService.GetMonthlySummary(userID, 0, 0)
	if err != nil {
		return nil, err
	}

	return AnalyzeTrends(transactions, summaries, time.Now()), nil
}

// AnalyzeTrends is the pure trend computation. Empty input degrades to a
// report with an empty series and no flags, never an error.
func AnalyzeTrends(
	transactions []*domain.Transaction,
	summaries []*domain.CategorySummary,
	now time.Time,
) *domain.TrendReport {
	series := BuildDailySeries(transactions)

	return &domain.TrendReport{
		DailySeries:   series,
		WeekOverWeek:  weekOverWeek(transactions, now),
		Confidence:    SeriesConfidence(series),
		SpikeDay:      detectSpikeDay(series),
		Concentration: detectConcentration(summaries),
		FrequentSmall: detectFrequentSmall(summaries),
	}
}

// BuildDailySeries buckets transaction amounts by calendar date.
// Dates with no spending are absent from the map, not zero-filled.
func BuildDailySeries(transactions []*domain.Transaction) map[string]decimal.Decimal {
	series := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		key := util.DateKey(tx.Date)
		series[key] = series[key].Add(tx.Amount)
	}
	return series
}

// weekOverWeek partitions transactions into the last 7 days and the 7 days
// before that, relative to now. The percentage change is undefined when the
// previous window saw no spend, in which case no trend is reported.
func weekOverWeek(transactions []*domain.Transaction, now time.Time) *domain.WeekTrend {
	recent := decimal.Zero
	previous := decimal.Zero

	for _, tx := range transactions {
		days := now.Sub(tx.Date).Hours() / 24
		switch {
		case days <= 7:
			recent = recent.Add(tx.Amount)
		case days <= 14:
			previous = previous.Add(tx.Amount)
		}
	}

	if !previous.IsPositive() {
		return nil
	}

	change, _ := recent.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()

	return &domain.WeekTrend{
		RecentTotal:   recent,
		PreviousTotal: previous,
		ChangePercent: change,
		Increasing:    recent.GreaterThan(previous),
	}
}

// SeriesConfidence turns the variability of daily spending into a forecast
// trust value: max(ConfidenceFloor, 1 - stdDev/mean). This is a heuristic,
// not a statistical confidence interval.
func SeriesConfidence(series map[string]decimal.Decimal) float64 {
	if len(series) == 0 {
		return 1.0
	}

	values := make([]float64, 0, len(series))
	sum := 0.0
	for _, total := range series {
		v, _ := total.Float64()
		values = append(values, v)
		sum += v
	}

	mean := sum / float64(len(values))
	if mean == 0 {
		return 1.0
	}

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	cv := math.Sqrt(variance) / mean
	return math.Max(ConfidenceFloor, 1-cv)
}

// detectSpikeDay returns the highest day whose total exceeds SpikeMultiplier
// times the average over active days (days with nonzero spend)
func detectSpikeDay(series map[string]decimal.Decimal) *domain.DaySpend {
	total := decimal.Zero
	activeDays := 0
	for _, daily := range series {
		if daily.IsPositive() {
			total = total.Add(daily)
			activeDays++
		}
	}
	if activeDays == 0 {
		return nil
	}

	threshold := total.Div(decimal.NewFromInt(int64(activeDays))).Mul(decimal.NewFromInt(SpikeMultiplier))

	var spike *domain.DaySpend
	for date, daily := range series {
		if daily.GreaterThan(threshold) {
			if spike == nil || daily.GreaterThan(spike.Total) {
				spike = &domain.DaySpend{Date: date, Total: daily}
			}
		}
	}
	return spike
}

// detectConcentration flags the largest category when it holds more than
// ConcentrationThresholdPercent of total spend across active categories
func detectConcentration(summaries []*domain.CategorySummary) *domain.ConcentrationFlag {
	total := decimal.Zero
	var top *domain.CategorySummary
	for _, summary := range summaries {
		if !summary.TotalSpent.IsPositive() {
			continue
		}
		total = total.Add(summary.TotalSpent)
		if top == nil || summary.TotalSpent.GreaterThan(top.TotalSpent) {
			top = summary
		}
	}
	if top == nil || !total.IsPositive() {
		return nil
	}

	share, _ := top.TotalSpent.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	if share <= ConcentrationThresholdPercent {
		return nil
	}

	return &domain.ConcentrationFlag{
		CategoryName: top.CategoryName,
		SharePercent: share,
	}
}

// detectFrequentSmall flags categories with many low-value purchases
func detectFrequentSmall(summaries []*domain.CategorySummary) []domain.FrequencyFlag {
	var flags []domain.FrequencyFlag
	for _, summary := range summaries {
		if summary.TransactionCount <= FrequencyCountThreshold {
			continue
		}
		average := summary.TotalSpent.Div(decimal.NewFromInt(int64(summary.TransactionCount)))
		if average.LessThan(decimal.NewFromInt(SmallPurchaseLimit)) {
			flags = append(flags, domain.FrequencyFlag{
				CategoryName:     summary.CategoryName,
				TransactionCount: summary.TransactionCount,
				AverageAmount:    average,
			})
		}
	}
	return flags
}
