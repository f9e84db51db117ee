package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
	"github.com/xuri/excelize/v2"
)

// ExportFormat selects the serialization used for exports
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatJSON ExportFormat = "json"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// Valid reports whether the export format is supported
func (f ExportFormat) Valid() bool {
	switch f {
	case ExportFormatCSV, ExportFormatJSON, ExportFormatXLSX:
		return true
	}
	return false
}

// ExportFile is a rendered export ready to be sent as a download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService renders transactions and summaries as CSV, JSON or XLSX.
// This is pure formatting over the same data the analytics consume.
type ExportService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	summaryService  *SummaryService
}

// NewExportService creates a new ExportService
func NewExportService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	summaryService *SummaryService,
) *ExportService {
	return &ExportService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		summaryService:  summaryService,
	}
}

// ExportTransactions renders the user's transactions for a month
func (s *ExportService) ExportTransactions(userID uuid.UUID, year, month int, format ExportFormat) (*ExportFile, error) {
	if !format.Valid() {
		return nil, domain.ErrUnsupportedFormat
	}
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidMonth
	}

	start, end := util.MonthBounds(year, month)
	transactions, err := s.transactionRepo.GetByUserAndDateRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, err
	}
	nameByID := make(map[int32]string, len(categories))
	for _, cat := range categories {
		nameByID[cat.ID] = cat.Name
	}

	header := []string{"Date", "Description", "Category", "Amount", "Payment Method"}
	rows := make([][]string, 0, len(transactions))
	for _, tx := range transactions {
		name := nameByID[tx.CategoryID]
		if name == "" {
			name = domain.UnknownCategoryName
		}
		rows = append(rows, []string{
			tx.Date.Format(util.DateKeyLayout),
			tx.Description,
			name,
			tx.Amount.StringFixed(2),
			string(tx.PaymentMethod),
		})
	}

	filename := fmt.Sprintf("transactions-%04d-%02d", year, month)
	if format == ExportFormatJSON {
		return renderJSON(filename, transactions)
	}
	return renderTable(filename, format, header, rows)
}

// ExportSummary renders the per-category monthly summary
func (s *ExportService) ExportSummary(userID uuid.UUID, year, month int, format ExportFormat) (*ExportFile, error) {
	if !format.Valid() {
		return nil, domain.ErrUnsupportedFormat
	}

	summaries, err := s.summaryService.GetMonthlySummary(userID, month, year)
	if err != nil {
		return nil, err
	}

	if year == 0 {
		year = time.Now().Year()
	}
	if month == 0 {
		month = int(time.Now().Month())
	}

	header := []string{"Category", "Total Spent", "Budget", "Remaining", "Transactions"}
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		rows = append(rows, []string{
			summary.CategoryName,
			summary.TotalSpent.StringFixed(2),
			summary.BudgetAmount.StringFixed(2),
			summary.RemainingBudget.StringFixed(2),
			fmt.Sprintf("%d", summary.TransactionCount),
		})
	}

	filename := fmt.Sprintf("summary-%04d-%02d", year, month)
	if format == ExportFormatJSON {
		return renderJSON(filename, summaries)
	}
	return renderTable(filename, format, header, rows)
}

func renderJSON(name string, payload interface{}) (*ExportFile, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Name:        name + ".json",
		ContentType: "application/json",
		Data:        data,
	}, nil
}

func renderTable(name string, format ExportFormat, header []string, rows [][]string) (*ExportFile, error) {
	if format == ExportFormatXLSX {
		return renderXLSX(name, header, rows)
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Name:        name + ".csv",
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func renderXLSX(name string, header []string, rows [][]string) (*ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}

	return &ExportFile{
		Name:        name + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}
