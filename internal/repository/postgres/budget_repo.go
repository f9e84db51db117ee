package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

const budgetColumns = "id, user_id, category_id, month, year, amount, created_at, updated_at"

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var b domain.Budget
	var amount pgtype.Numeric
	err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &amount, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Amount = pgNumericToDecimal(amount)
	return &b, nil
}

const upsertBudgetSQL = `
	INSERT INTO budgets (user_id, category_id, month, year, amount)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id, category_id, month, year)
	DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()
	RETURNING ` + budgetColumns

// Upsert creates or replaces the budget for (user, category, month, year)
func (r *BudgetRepository) Upsert(budget *domain.Budget) (*domain.Budget, error) {
	amount, err := decimalToPgNumeric(budget.Amount)
	if err != nil {
		return nil, err
	}

	row := r.pool.QueryRow(context.Background(), upsertBudgetSQL,
		budget.UserID, budget.CategoryID, budget.Month, budget.Year, amount)
	return scanBudget(row)
}

// UpsertBatch creates or replaces multiple budgets atomically
func (r *BudgetRepository) UpsertBatch(budgets []*domain.Budget) error {
	ctx := context.Background()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, budget := range budgets {
		amount, err := decimalToPgNumeric(budget.Amount)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, upsertBudgetSQL,
			budget.UserID, budget.CategoryID, budget.Month, budget.Year, amount); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetByMonth retrieves all budgets for a specific month
func (r *BudgetRepository) GetByMonth(userID uuid.UUID, year, month int) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+budgetColumns+" FROM budgets WHERE user_id = $1 AND year = $2 AND month = $3",
		userID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []*domain.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// GetByCategory retrieves the budget for a specific category and month
func (r *BudgetRepository) GetByCategory(userID uuid.UUID, categoryID int32, year, month int) (*domain.Budget, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+budgetColumns+` FROM budgets
		 WHERE user_id = $1 AND category_id = $2 AND year = $3 AND month = $4`,
		userID, categoryID, year, month)
	return scanBudget(row)
}

// Delete removes the budget for (user, category, month, year)
func (r *BudgetRepository) Delete(userID uuid.UUID, categoryID int32, year, month int) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM budgets WHERE user_id = $1 AND category_id = $2 AND year = $3 AND month = $4",
		userID, categoryID, year, month)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}
