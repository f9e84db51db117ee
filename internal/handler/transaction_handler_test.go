package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/middleware"
	"github.com/tanmaygarg901/FinSight/internal/service"
	"github.com/tanmaygarg901/FinSight/internal/testutil"
)

func testDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// authedRequest builds an echo context carrying a resolved user, the way the
// auth middleware leaves it
func authedRequest(e *echo.Echo, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != uuid.Nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func newTransactionHandlerFixture() (*TransactionHandler, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, testutil.NewMockPublisher())
	return NewTransactionHandler(transactionService), transactionRepo, categoryRepo
}

func TestCreateTransactionHandler(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	body := `{"categoryId":1,"amount":"45.20","description":"Walmart","date":"2026-08-03"}`
	c, rec := authedRequest(e, http.MethodPost, "/api/v1/transactions", body, userID)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp TransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected valid JSON, got: %v", err)
	}
	if resp.Amount != "45.20" {
		t.Errorf("expected amount 45.20, got %s", resp.Amount)
	}
	if resp.Date != "2026-08-03" {
		t.Errorf("expected date 2026-08-03, got %s", resp.Date)
	}
	if resp.ID == 0 {
		t.Error("expected an assigned ID")
	}
}

func TestCreateTransactionHandler_Unauthenticated(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandlerFixture()

	c, rec := authedRequest(e, http.MethodPost, "/api/v1/transactions", `{}`, uuid.Nil)

	if err := handler.CreateTransaction(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestCreateTransactionHandler_Validation(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	cases := []struct {
		name string
		body string
	}{
		{"missing category", `{"amount":"10.00","description":"x"}`},
		{"bad amount", `{"categoryId":1,"amount":"abc","description":"x"}`},
		{"negative amount", `{"categoryId":1,"amount":"-5.00","description":"x"}`},
		{"blank description", `{"categoryId":1,"amount":"10.00","description":"  "}`},
		{"bad date", `{"categoryId":1,"amount":"10.00","description":"x","date":"08/03/2026"}`},
		{"unknown category", `{"categoryId":99,"amount":"10.00","description":"x"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := authedRequest(e, http.MethodPost, "/api/v1/transactions", tc.body, userID)
			if err := handler.CreateTransaction(c); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}

			var problem ProblemDetails
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("expected a problem details body, got: %v", err)
			}
			if problem.Type != ErrorTypeValidation {
				t.Errorf("expected validation error type, got %s", problem.Type)
			}
		})
	}

	if len(transactionRepo.Transactions) != 0 {
		t.Errorf("expected no stored transactions after rejected requests, got %d", len(transactionRepo.Transactions))
	}
}

func TestUpdateTransactionHandler_Validation(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	cases := []struct {
		name string
		body string
	}{
		{"missing category", `{"amount":"10.00","description":"x"}`},
		{"bad amount", `{"categoryId":1,"amount":"abc","description":"x"}`},
		{"bad date", `{"categoryId":1,"amount":"10.00","description":"x","date":"08/03/2026"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := authedRequest(e, http.MethodPut, "/api/v1/transactions/1", tc.body, userID)
			c.SetParamNames("id")
			c.SetParamValues("1")

			if err := handler.UpdateTransaction(c); err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	for i := 1; i <= 3; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID: int32(i), UserID: userID, CategoryID: 1,
			Amount: decimal.NewFromInt(int64(i * 10)), Description: "tx",
			Date: testDate(2026, 8, i),
		})
	}

	c, rec := authedRequest(e, http.MethodGet, "/api/v1/transactions?page=1&pageSize=2", "", userID)
	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp PaginatedTransactionsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected valid JSON, got: %v", err)
	}
	if resp.TotalItems != 3 {
		t.Errorf("expected 3 total items, got %d", resp.TotalItems)
	}
	if len(resp.Data) != 2 {
		t.Errorf("expected 2 items on page, got %d", len(resp.Data))
	}
	// Newest first
	if resp.Data[0].Date != "2026-08-03" {
		t.Errorf("expected newest transaction first, got %s", resp.Data[0].Date)
	}
}

func TestGetTransactionsHandler_BadQuery(t *testing.T) {
	e := echo.New()
	handler, _, _ := newTransactionHandlerFixture()
	userID := uuid.New()

	c, rec := authedRequest(e, http.MethodGet, "/api/v1/transactions?startDate=notadate", "", userID)
	if err := handler.GetTransactions(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUpdateTransactionHandler_NotFound(t *testing.T) {
	e := echo.New()
	handler, _, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	body := `{"categoryId":1,"amount":"10.00","description":"x","date":"2026-08-03"}`
	c, rec := authedRequest(e, http.MethodPut, "/api/v1/transactions/42", body, userID)
	c.SetParamNames("id")
	c.SetParamValues("42")

	if err := handler.UpdateTransaction(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteTransactionHandler(t *testing.T) {
	e := echo.New()
	handler, transactionRepo, categoryRepo := newTransactionHandlerFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(10), Description: "tx", Date: testDate(2026, 8, 3),
	})

	c, rec := authedRequest(e, http.MethodDelete, "/api/v1/transactions/1", "", userID)
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}

	// Deleting again is a 404
	c, rec = authedRequest(e, http.MethodDelete, "/api/v1/transactions/1", "", userID)
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := handler.DeleteTransaction(c); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
