package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/util"
	"github.com/tanmaygarg901/FinSight/internal/websocket"
)

// TransactionService handles transaction business logic
type TransactionService struct {
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	publisher       websocket.EventPublisher
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	publisher websocket.EventPublisher,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		publisher:       publisher,
	}
}

// CreateTransaction validates and stores a new transaction for the user
func (s *TransactionService) CreateTransaction(transaction *domain.Transaction) (*domain.Transaction, error) {
	if err := s.validate(transaction); err != nil {
		return nil, err
	}

	transaction.Date = util.TruncateToDay(transaction.Date)
	if transaction.PaymentMethod == "" {
		transaction.PaymentMethod = domain.PaymentMethodUnknown
	}

	created, err := s.transactionRepo.Create(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(created.UserID, websocket.TransactionCreated(created))
	return created, nil
}

// GetTransactions returns a filtered, paginated list of the user's transactions
func (s *TransactionService) GetTransactions(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = domain.DefaultPageSize
	}
	if filters.PageSize > domain.MaxPageSize {
		filters.PageSize = domain.MaxPageSize
	}

	return s.transactionRepo.GetByUser(userID, filters)
}

// UpdateTransaction validates and updates an existing transaction owned by the user
func (s *TransactionService) UpdateTransaction(transaction *domain.Transaction) (*domain.Transaction, error) {
	if err := s.validate(transaction); err != nil {
		return nil, err
	}

	// Ownership check before writing
	if _, err := s.transactionRepo.GetByID(transaction.UserID, transaction.ID); err != nil {
		return nil, err
	}

	transaction.Date = util.TruncateToDay(transaction.Date)
	updated, err := s.transactionRepo.Update(transaction)
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(updated.UserID, websocket.TransactionUpdated(updated))
	return updated, nil
}

// DeleteTransaction removes a transaction owned by the user
func (s *TransactionService) DeleteTransaction(userID uuid.UUID, id int32) error {
	transaction, err := s.transactionRepo.GetByID(userID, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(userID, id); err != nil {
		return err
	}

	s.publisher.Publish(userID, websocket.TransactionDeleted(transaction))
	return nil
}

func (s *TransactionService) validate(transaction *domain.Transaction) error {
	if !transaction.Amount.IsPositive() {
		return domain.ErrInvalidAmount
	}
	if strings.TrimSpace(transaction.Description) == "" {
		return domain.ErrDescriptionRequired
	}
	if len(transaction.Description) > domain.MaxDescriptionLength {
		return domain.ErrNameTooLong
	}

	if _, err := s.categoryRepo.GetByID(transaction.CategoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ErrCategoryNotFound
		}
		return err
	}

	return nil
}
