package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tanmaygarg901/FinSight/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = "id, name, color, icon, category_type, created_at, updated_at"

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var cat domain.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon, &cat.Type, &cat.CreatedAt, &cat.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create inserts a new category into the catalog
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO categories (name, color, icon, category_type)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		category.Name, category.Color, category.Icon, category.Type)
	return scanCategory(row)
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+categoryColumns+" FROM categories WHERE id = $1", id)
	return scanCategory(row)
}

// GetByName retrieves a category by its unique name
func (r *CategoryRepository) GetByName(name string) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		"SELECT "+categoryColumns+" FROM categories WHERE name = $1", name)
	return scanCategory(row)
}

// GetAll returns the full catalog ordered by name
func (r *CategoryRepository) GetAll() ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(),
		"SELECT "+categoryColumns+" FROM categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

// Update modifies an existing category
func (r *CategoryRepository) Update(id int32, name, color, icon string, categoryType domain.CategoryType) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE categories
		SET name = $2, color = $3, icon = $4, category_type = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+categoryColumns,
		id, name, color, icon, categoryType)
	return scanCategory(row)
}

// Delete removes a category from the catalog
func (r *CategoryRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		"DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

// HasTransactions reports whether any transaction references the category
func (r *CategoryRepository) HasTransactions(id int32) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		"SELECT EXISTS(SELECT 1 FROM transactions WHERE category_id = $1)", id).Scan(&exists)
	return exists, err
}
