package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/testutil"
)

func newTransactionFixture() (*TransactionService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository, *testutil.MockPublisher) {
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	publisher := testutil.NewMockPublisher()
	service := NewTransactionService(transactionRepo, categoryRepo, publisher)
	return service, transactionRepo, categoryRepo, publisher
}

func TestCreateTransaction(t *testing.T) {
	service, _, categoryRepo, publisher := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	created, err := service.CreateTransaction(&domain.Transaction{
		UserID:      userID,
		CategoryID:  1,
		Amount:      decimal.NewFromFloat(45.20),
		Description: "Walmart",
		Date:        time.Date(2026, 8, 3, 14, 30, 12, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if created.ID == 0 {
		t.Error("expected an assigned ID")
	}
	// Times are truncated to the day
	if !created.Date.Equal(date(2026, 8, 3)) {
		t.Errorf("expected date truncated to 2026-08-03, got %s", created.Date)
	}
	if created.PaymentMethod != domain.PaymentMethodUnknown {
		t.Errorf("expected unknown payment method default, got %s", created.PaymentMethod)
	}

	if len(publisher.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(publisher.Events))
	}
	if publisher.Events[0].Event.Type != "transaction.created" {
		t.Errorf("expected transaction.created event, got %s", publisher.Events[0].Event.Type)
	}
	if publisher.Events[0].UserID != userID {
		t.Error("expected event scoped to the owning user")
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	service, _, categoryRepo, publisher := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	cases := []struct {
		name        string
		transaction *domain.Transaction
		wantErr     error
	}{
		{
			name: "zero amount",
			transaction: &domain.Transaction{
				UserID: userID, CategoryID: 1,
				Amount: decimal.Zero, Description: "x", Date: date(2026, 8, 3),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			transaction: &domain.Transaction{
				UserID: userID, CategoryID: 1,
				Amount: decimal.NewFromInt(-5), Description: "x", Date: date(2026, 8, 3),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "blank description",
			transaction: &domain.Transaction{
				UserID: userID, CategoryID: 1,
				Amount: decimal.NewFromInt(5), Description: "   ", Date: date(2026, 8, 3),
			},
			wantErr: domain.ErrDescriptionRequired,
		},
		{
			name: "description too long",
			transaction: &domain.Transaction{
				UserID: userID, CategoryID: 1,
				Amount: decimal.NewFromInt(5), Description: strings.Repeat("a", domain.MaxDescriptionLength+1), Date: date(2026, 8, 3),
			},
			wantErr: domain.ErrNameTooLong,
		},
		{
			name: "unknown category",
			transaction: &domain.Transaction{
				UserID: userID, CategoryID: 99,
				Amount: decimal.NewFromInt(5), Description: "x", Date: date(2026, 8, 3),
			},
			wantErr: domain.ErrCategoryNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := service.CreateTransaction(tc.transaction); err != tc.wantErr {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}

	if len(publisher.Events) != 0 {
		t.Errorf("expected no events on failed creates, got %d", len(publisher.Events))
	}
}

func TestGetTransactions_Pagination(t *testing.T) {
	service, transactionRepo, _, _ := newTransactionFixture()
	userID := uuid.New()

	for i := int32(1); i <= 5; i++ {
		transactionRepo.AddTransaction(&domain.Transaction{
			ID: i, UserID: userID, CategoryID: 1,
			Amount: decimal.NewFromInt(10), Description: "tx",
			Date: date(2026, 8, int(i)),
		})
	}

	page, err := service.GetTransactions(userID, &domain.TransactionFilters{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if page.TotalItems != 5 {
		t.Errorf("expected total 5, got %d", page.TotalItems)
	}
	if page.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", page.TotalPages)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 transactions on page, got %d", len(page.Data))
	}
	// Newest first
	if !page.Data[0].Date.After(page.Data[1].Date) {
		t.Error("expected newest-first ordering")
	}

	// Out-of-range values fall back to defaults and caps
	page, err = service.GetTransactions(userID, &domain.TransactionFilters{Page: -1, PageSize: domain.MaxPageSize + 50})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", page.Page)
	}
	if page.PageSize != domain.MaxPageSize {
		t.Errorf("expected page size capped at %d, got %d", domain.MaxPageSize, page.PageSize)
	}

	// Nil filters are allowed
	if _, err := service.GetTransactions(userID, nil); err != nil {
		t.Fatalf("expected no error with nil filters, got: %v", err)
	}
}

func TestGetTransactions_Filters(t *testing.T) {
	service, transactionRepo, _, _ := newTransactionFixture()
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(10), Description: "groceries", Date: date(2026, 8, 3),
	})
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 2, UserID: userID, CategoryID: 2,
		Amount: decimal.NewFromInt(20), Description: "dining", Date: date(2026, 8, 10),
	})
	// Other user's data is never visible
	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 3, UserID: uuid.New(), CategoryID: 1,
		Amount: decimal.NewFromInt(30), Description: "other", Date: date(2026, 8, 3),
	})

	categoryID := int32(1)
	page, err := service.GetTransactions(userID, &domain.TransactionFilters{CategoryID: &categoryID})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(page.Data) != 1 || page.Data[0].ID != 1 {
		t.Errorf("expected only transaction 1, got %v", page.Data)
	}
}

func TestUpdateTransaction(t *testing.T) {
	service, transactionRepo, categoryRepo, publisher := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(10), Description: "before", Date: date(2026, 8, 3),
	})

	updated, err := service.UpdateTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(25), Description: "after", Date: date(2026, 8, 4),
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Description != "after" || !updated.Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if len(publisher.Events) != 1 || publisher.Events[0].Event.Type != "transaction.updated" {
		t.Error("expected a transaction.updated event")
	}
}

func TestUpdateTransaction_NotOwned(t *testing.T) {
	service, transactionRepo, categoryRepo, _ := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: uuid.New(), CategoryID: 1,
		Amount: decimal.NewFromInt(10), Description: "theirs", Date: date(2026, 8, 3),
	})

	_, err := service.UpdateTransaction(&domain.Transaction{
		ID: 1, UserID: uuid.New(), CategoryID: 1,
		Amount: decimal.NewFromInt(25), Description: "mine now", Date: date(2026, 8, 4),
	})
	if err != domain.ErrTransactionNotFound {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDeleteTransaction(t *testing.T) {
	service, transactionRepo, categoryRepo, publisher := newTransactionFixture()
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	userID := uuid.New()

	transactionRepo.AddTransaction(&domain.Transaction{
		ID: 1, UserID: userID, CategoryID: 1,
		Amount: decimal.NewFromInt(10), Description: "tx", Date: date(2026, 8, 3),
	})

	if err := service.DeleteTransaction(userID, 1); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(transactionRepo.Transactions) != 0 {
		t.Error("expected transaction removed")
	}
	if len(publisher.Events) != 1 || publisher.Events[0].Event.Type != "transaction.deleted" {
		t.Error("expected a transaction.deleted event")
	}

	if err := service.DeleteTransaction(userID, 1); err != domain.ErrTransactionNotFound {
		t.Errorf("expected ErrTransactionNotFound on second delete, got %v", err)
	}
}
