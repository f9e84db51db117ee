package service

import (
	"strings"
	"testing"

	"github.com/tanmaygarg901/FinSight/internal/domain"
	"github.com/tanmaygarg901/FinSight/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)

	created, err := service.CreateCategory("  Groceries  ", "#22c55e", "cart", domain.CategoryTypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if created.Name != "Groceries" {
		t.Errorf("expected trimmed name, got %q", created.Name)
	}
	if created.ID == 0 {
		t.Error("expected an assigned ID")
	}

	// Empty type defaults to expense
	other, err := service.CreateCategory("Misc", "", "", "")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if other.Type != domain.CategoryTypeExpense {
		t.Errorf("expected expense default, got %s", other.Type)
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})

	if _, err := service.CreateCategory("   ", "", "", domain.CategoryTypeExpense); err != domain.ErrNameRequired {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
	longName := strings.Repeat("a", domain.MaxCategoryNameLength+1)
	if _, err := service.CreateCategory(longName, "", "", domain.CategoryTypeExpense); err != domain.ErrNameTooLong {
		t.Errorf("expected ErrNameTooLong, got %v", err)
	}
	if _, err := service.CreateCategory("Gambling", "", "", domain.CategoryType("vice")); err != domain.ErrInvalidCategoryType {
		t.Errorf("expected ErrInvalidCategoryType, got %v", err)
	}
	if _, err := service.CreateCategory("Groceries", "", "", domain.CategoryTypeExpense); err != domain.ErrCategoryExists {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}
}

func TestUpdateCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries", Type: domain.CategoryTypeExpense})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Dining", Type: domain.CategoryTypeExpense})

	updated, err := service.UpdateCategory(1, "Food", "#f97316", "fork", domain.CategoryTypeExpense)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Name != "Food" || updated.Color != "#f97316" {
		t.Errorf("unexpected update result: %+v", updated)
	}

	// Keeping your own name is not a collision
	if _, err := service.UpdateCategory(1, "Food", "", "", domain.CategoryTypeExpense); err != nil {
		t.Errorf("expected self-rename allowed, got %v", err)
	}

	// Renaming onto another category is
	if _, err := service.UpdateCategory(1, "Dining", "", "", domain.CategoryTypeExpense); err != domain.ErrCategoryExists {
		t.Errorf("expected ErrCategoryExists, got %v", err)
	}

	if _, err := service.UpdateCategory(99, "Ghost", "", "", domain.CategoryTypeExpense); err != domain.ErrCategoryNotFound {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestDeleteCategory(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	service := NewCategoryService(categoryRepo)
	categoryRepo.AddCategory(&domain.Category{ID: 1, Name: "Groceries"})
	categoryRepo.AddCategory(&domain.Category{ID: 2, Name: "Dining"})
	categoryRepo.InUse[2] = true

	if err := service.DeleteCategory(1); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, err := categoryRepo.GetByID(1); err != domain.ErrCategoryNotFound {
		t.Error("expected category removed")
	}

	if err := service.DeleteCategory(2); err != domain.ErrCategoryInUse {
		t.Errorf("expected ErrCategoryInUse for referenced category, got %v", err)
	}

	if err := service.DeleteCategory(99); err != domain.ErrCategoryNotFound {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}
}
