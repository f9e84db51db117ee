package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = "id, user_id, category_id, amount, description, transaction_date, payment_method, created_at, updated_at"

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var tx domain.Transaction
	var amount pgtype.Numeric
	err := row.Scan(&tx.ID, &tx.UserID, &tx.CategoryID, &amount, &tx.Description,
		&tx.Date, &tx.PaymentMethod, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	tx.Amount = pgNumericToDecimal(amount)
	return &tx, nil
}

// Create inserts a new transaction
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO transactions (user_id, category_id, amount, description, transaction_date, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.CategoryID, amount, transaction.Description,
		transaction.Date, transaction.PaymentMethod)
	return scanTransaction(row)
}

// CreateBatch inserts transactions atomically and returns how many were written
func (r *TransactionRepository) CreateBatch(transactions []*domain.Transaction) (int, error) {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, t := range transactions {
		amount, err := decimalToPgNumeric(t.Amount)
		if err != nil {
			return 0, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO transactions (user_id, category_id, amount, description, transaction_date, payment_method)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.UserID, t.CategoryID, amount, t.Description, t.Date, t.PaymentMethod)
		if err != nil {
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return inserted, nil
}

// GetByID retrieves a transaction owned by the user
func (r *TransactionRepository) GetByID(userID uuid.UUID, id int32) (*domain.Transaction, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = $1 AND id = $2",
		userID, id)
	return scanTransaction(row)
}

// GetByUser returns a filtered, paginated page of the user's transactions
func (r *TransactionRepository) GetByUser(userID uuid.UUID, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()

	where := "WHERE user_id = $1"
	args := []interface{}{userID}
	argPos := 2

	if filters.CategoryID != nil {
		where += fmt.Sprintf(" AND category_id = $%d", argPos)
		args = append(args, *filters.CategoryID)
		argPos++
	}
	if filters.StartDate != nil {
		where += fmt.Sprintf(" AND transaction_date >= $%d", argPos)
		args = append(args, *filters.StartDate)
		argPos++
	}
	if filters.EndDate != nil {
		where += fmt.Sprintf(" AND transaction_date < $%d", argPos)
		args = append(args, *filters.EndDate)
		argPos++
	}

	var totalItems int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM transactions "+where, args...).Scan(&totalItems); err != nil {
		return nil, err
	}

	offset := (filters.Page - 1) * filters.PageSize
	query := fmt.Sprintf(
		"SELECT %s FROM transactions %s ORDER BY transaction_date DESC, id DESC LIMIT $%d OFFSET $%d",
		transactionColumns, where, argPos, argPos+1)
	args = append(args, filters.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*domain.Transaction, 0, filters.PageSize)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := int32((totalItems + int64(filters.PageSize) - 1) / int64(filters.PageSize))

	return &domain.PaginatedTransactions{
		Data:       transactions,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// GetByUserAndDateRange returns transactions in [start, end), oldest first
func (r *TransactionRepository) GetByUserAndDateRange(userID uuid.UUID, start, end time.Time) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+transactionColumns+` FROM transactions
		 WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		 ORDER BY transaction_date, id`,
		userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// GetAllByUser returns the user's full transaction history, oldest first
func (r *TransactionRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+transactionColumns+" FROM transactions WHERE user_id = $1 ORDER BY transaction_date, id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// Update modifies an existing transaction owned by the user
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	amount, err := decimalToPgNumeric(transaction.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE transactions
		SET category_id = $3, amount = $4, description = $5, transaction_date = $6,
		    payment_method = $7, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING `+transactionColumns,
		transaction.UserID, transaction.ID, transaction.CategoryID, amount,
		transaction.Description, transaction.Date, transaction.PaymentMethod)
	return scanTransaction(row)
}

// Delete removes a transaction owned by the user
func (r *TransactionRepository) Delete(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM transactions WHERE user_id = $1 AND id = $2", userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var transactions []*domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
