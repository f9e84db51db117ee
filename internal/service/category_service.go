package service

import (
	"strings"

	"github.com/tanmaygarg901/FinSight/internal/domain"
)

// CategoryService handles category catalog business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory validates and stores a new catalog category
func (s *CategoryService) CreateCategory(name, color, icon string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if categoryType == "" {
		categoryType = domain.CategoryTypeExpense
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	if _, err := s.categoryRepo.GetByName(name); err == nil {
		return nil, domain.ErrCategoryExists
	}

	return s.categoryRepo.Create(&domain.Category{
		Name:  name,
		Color: color,
		Icon:  icon,
		Type:  categoryType,
	})
}

// GetCategories returns the full category catalog
func (s *CategoryService) GetCategories() ([]*domain.Category, error) {
	return s.categoryRepo.GetAll()
}

// UpdateCategory validates and updates an existing category
func (s *CategoryService) UpdateCategory(id int32, name, color, icon string, categoryType domain.CategoryType) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(name) > domain.MaxCategoryNameLength {
		return nil, domain.ErrNameTooLong
	}
	if !categoryType.Valid() {
		return nil, domain.ErrInvalidCategoryType
	}

	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return nil, err
	}

	// Renames must not collide with another category
	if existing, err := s.categoryRepo.GetByName(name); err == nil && existing.ID != id {
		return nil, domain.ErrCategoryExists
	}

	return s.categoryRepo.Update(id, name, color, icon, categoryType)
}

// DeleteCategory removes a category that has no transactions
func (s *CategoryService) DeleteCategory(id int32) error {
	if _, err := s.categoryRepo.GetByID(id); err != nil {
		return err
	}

	hasTransactions, err := s.categoryRepo.HasTransactions(id)
	if err != nil {
		return err
	}
	if hasTransactions {
		return domain.ErrCategoryInUse
	}

	return s.categoryRepo.Delete(id)
}
