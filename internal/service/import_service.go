package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/repository/storage"
	"github.com/tanmaygarg901/FinSight/internal/util"
	"github.com/tanmaygarg901/FinSight/internal/websocket"
)

// categoryRule maps a merchant description pattern to a catalog category
type categoryRule struct {
	pattern *regexp.Regexp
	name    string
	catType domain.CategoryType
}

// Merchant patterns for automatic categorization, checked in order
var categoryRules = []categoryRule{
	{regexp.MustCompile(`walmart|target|costco`), "Groceries", domain.CategoryTypeExpense},
	{regexp.MustCompile(`shell|exxon|chevron|gas`), "Transportation", domain.CategoryTypeExpense},
	{regexp.MustCompile(`starbucks|mcdonalds|restaurant`), "Dining", domain.CategoryTypeExpense},
	{regexp.MustCompile(`amazon|ebay|shopping`), "Shopping", domain.CategoryTypeExpense},
	{regexp.MustCompile(`netflix|spotify|subscription`), "Entertainment", domain.CategoryTypeExpense},
	{regexp.MustCompile(`electric|water|utility`), "Utilities", domain.CategoryTypeExpense},
	{regexp.MustCompile(`rent|mortgage|housing`), "Housing", domain.CategoryTypeExpense},
	{regexp.MustCompile(`salary|payroll|income`), "Income", domain.CategoryTypeIncome},
	{regexp.MustCompile(`savings|investment|401k`), "Savings", domain.CategoryTypeSavings},
}

// fallbackCategoryName is used when no merchant pattern matches
const fallbackCategoryName = "Other"

// statementDateLayouts are tried in order when parsing statement dates
var statementDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ImportService parses uploaded CSV statements into transactions: cleaning,
// dedupe, merchant-based categorization, payment method detection, and
// outlier flagging, with the raw file archived for audit
type ImportService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	archive         storage.StatementArchive
	publisher       websocket.EventPublisher
}

// NewImportService creates a new ImportService
func NewImportService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	archive storage.StatementArchive,
	publisher websocket.EventPublisher,
) *ImportService {
	return &ImportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		archive:         archive,
		publisher:       publisher,
	}
}

// parsedRow is a statement row that survived cleaning
type parsedRow struct {
	date        time.Time
	amount      decimal.Decimal
	description string
}

// ImportCSV runs the full pipeline on one uploaded statement
func (s *ImportService) ImportCSV(ctx context.Context, userID uuid.UUID, filename string, r io.Reader) (*domain.ImportResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rows, totalRows, err := parseStatement(raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrEmptyStatement
	}

	rows, duplicates := dedupeRows(rows)
	anomalies := countOutliers(rows)

	transactions := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		categoryID, err := s.resolveCategory(row.description)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, &domain.Transaction{
			UserID:        userID,
			CategoryID:    categoryID,
			Amount:        row.amount,
			Description:   row.description,
			Date:          row.date,
			PaymentMethod: detectPaymentMethod(row.description),
		})
	}

	inserted, err := s.transactionRepo.CreateBatch(transactions)
	if err != nil {
		return nil, err
	}

	result := &domain.ImportResult{
		BatchID:          uuid.New(),
		Processed:        totalRows,
		Inserted:         inserted,
		Skipped:          totalRows - len(rows) - duplicates,
		Duplicates:       duplicates,
		Anomalies:        anomalies,
		DataQualityScore: qualityScore(totalRows, len(rows), anomalies),
	}

	// Archival is best-effort: a failed upload never fails the import
	key, err := s.archive.Store(ctx, userID, result.BatchID, filename, raw)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Statement archival failed")
	} else {
		result.ArchiveKey = key
	}

	s.publisher.Publish(userID, websocket.ImportCompleted(result))
	return result, nil
}

// resolveCategory finds or creates the catalog category for a description
func (s *ImportService) resolveCategory(description string) (int32, error) {
	name := fallbackCategoryName
	catType := domain.CategoryTypeExpense

	lower := strings.ToLower(description)
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(lower) {
			name = rule.name
			catType = rule.catType
			break
		}
	}

	category, err := s.categoryRepo.GetByName(name)
	if err == nil {
		return category.ID, nil
	}

	created, err := s.categoryRepo.Create(&domain.Category{
		Name: name,
		Type: catType,
	})
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// parseStatement extracts usable rows from raw CSV bytes. Returns the clean
// rows and the number of data rows seen (for the quality score).
func parseStatement(raw []byte) ([]parsedRow, int, error) {
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, domain.ErrUnsupportedFormat
	}
	if len(records) < 2 {
		return nil, 0, domain.ErrEmptyStatement
	}

	dateCol, amountCol, descCol := locateColumns(records[0])
	if dateCol < 0 || amountCol < 0 || descCol < 0 {
		return nil, 0, domain.ErrUnsupportedFormat
	}

	dataRows := records[1:]
	rows := make([]parsedRow, 0, len(dataRows))
	for _, record := range dataRows {
		if len(record) <= dateCol || len(record) <= amountCol || len(record) <= descCol {
			continue
		}

		description := strings.TrimSpace(record[descCol])
		if description == "" {
			continue
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(record[amountCol]))
		if err != nil {
			continue
		}
		// Statements encode debits as negatives; amounts are stored positive
		amount = amount.Abs()
		if amount.IsZero() {
			continue
		}

		date, ok := parseStatementDate(strings.TrimSpace(record[dateCol]))
		if !ok {
			continue
		}

		rows = append(rows, parsedRow{
			date:        date,
			amount:      amount,
			description: description,
		})
	}

	return rows, len(dataRows), nil
}

// locateColumns finds the date, amount and description columns in the header
func locateColumns(header []string) (dateCol, amountCol, descCol int) {
	dateCol, amountCol, descCol = -1, -1, -1
	for i, raw := range header {
		name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
		switch name {
		case "date", "transaction_date", "posted_date":
			if dateCol < 0 {
				dateCol = i
			}
		case "amount":
			amountCol = i
		case "description", "memo", "details":
			if descCol < 0 {
				descCol = i
			}
		}
	}
	return dateCol, amountCol, descCol
}

func parseStatementDate(value string) (time.Time, bool) {
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return util.TruncateToDay(t.UTC()), true
		}
	}
	return time.Time{}, false
}

// detectPaymentMethod infers the payment method from the description text
func detectPaymentMethod(description string) domain.PaymentMethod {
	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "debit") || strings.Contains(lower, "atm"):
		return domain.PaymentMethodDebitCard
	case strings.Contains(lower, "credit"):
		return domain.PaymentMethodCreditCard
	case strings.Contains(lower, "check"):
		return domain.PaymentMethodCheck
	case strings.Contains(lower, "transfer"):
		return domain.PaymentMethodBankTransfer
	case strings.Contains(lower, "cash"):
		return domain.PaymentMethodCash
	default:
		return domain.PaymentMethodUnknown
	}
}

// dedupeRows drops exact (date, amount, description) duplicates
func dedupeRows(rows []parsedRow) ([]parsedRow, int) {
	seen := make(map[string]bool, len(rows))
	unique := make([]parsedRow, 0, len(rows))
	duplicates := 0
	for _, row := range rows {
		key := row.date.Format(util.DateKeyLayout) + "|" + row.amount.String() + "|" + row.description
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true
		unique = append(unique, row)
	}
	return unique, duplicates
}

// countOutliers flags rows outside 1.5x the interquartile range of amounts
func countOutliers(rows []parsedRow) int {
	if len(rows) < 4 {
		return 0
	}

	amounts := make([]float64, len(rows))
	for i, row := range rows {
		amounts[i], _ = row.amount.Float64()
	}
	sort.Float64s(amounts)

	q1 := percentile(amounts, 0.25)
	q3 := percentile(amounts, 0.75)
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	count := 0
	for _, v := range amounts {
		if v < lower || v > upper {
			count++
		}
	}
	return count
}

// percentile computes a linearly interpolated percentile of sorted values
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := p * float64(len(sorted)-1)
	low := int(math.Floor(rank))
	high := int(math.Ceil(rank))
	if low == high {
		return sorted[low]
	}
	return sorted[low] + (rank-float64(low))*(sorted[high]-sorted[low])
}

// qualityScore weighs completeness (70%) against anomaly share (30%)
func qualityScore(total, valid, anomalies int) float64 {
	if total == 0 {
		return 0
	}
	completeness := float64(valid) / float64(total)
	anomalyShare := 0.0
	if valid > 0 {
		anomalyShare = float64(anomalies) / float64(valid)
	}
	score := (completeness*0.7 + (1-anomalyShare)*0.3) * 100
	return math.Round(score*100) / 100
}
