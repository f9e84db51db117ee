package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/service"
	"github.com/tanmaygarg901/FinSight/internal/testutil"
)

func newExportHandlerFixture() (*ExportHandler, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	summaryService := service.NewSummaryService(transactionRepo, budgetRepo, categoryRepo)
	exportService := service.NewExportService(transactionRepo, categoryRepo, summaryService)
	return NewExportHandler(exportService), transactionRepo, categoryRepo
}

func TestExportTransactionsHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := newExportHandlerFixture()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(20), Description: "Walmart", Date: testDate(2026, 8, 3),
	})

	c, rec := authedRequest(e, http.MethodGet, "/api/v1/export/transactions?year=2026&month=8&format=csv", "", userID)
	if err := handler.ExportTransactions(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "transactions-2026-08.csv") {
		t.Errorf("expected attachment filename in %q", disposition)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Errorf("expected text/csv, got %s", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Body.String(), "Walmart") {
		t.Error("expected transaction row in export body")
	}
}

func TestExportSummaryHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := newExportHandlerFixture()
	userID := uuid.New()

	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(60), Description: "Walmart", Date: testDate(2026, 8, 10),
	})

	c, rec := authedRequest(e, http.MethodGet, "/api/v1/export/summary?year=2026&month=8&format=json", "", userID)
	if err := handler.ExportSummary(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "application/json") {
		t.Errorf("expected application/json, got %s", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Body.String(), "Groceries") {
		t.Error("expected summary row in export body")
	}
}

func TestExportHandler_BadParams(t *testing.T) {
	e := echo.New()
	handler, _, _ := newExportHandlerFixture()
	userID := uuid.New()

	cases := []struct {
		name  string
		query string
	}{
		{"bad format", "format=pdf"},
		{"bad month", "month=13"},
		{"bad year", "year=1800"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := authedRequest(e, http.MethodGet, "/api/v1/export/transactions?"+tc.query, "", userID)
			if err := handler.ExportTransactions(c); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestExportHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newExportHandlerFixture()

	c, rec := authedRequest(e, http.MethodGet, "/api/v1/export/transactions", "", uuid.Nil)
	if err := handler.ExportTransactions(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
