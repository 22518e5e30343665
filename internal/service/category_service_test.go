package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
	"github.com/nexora/nexora-backend/internal/testutil"
)

func TestCreateCategory_DefaultsAndValidation(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	category, err := svc.CreateCategory(userID, CategoryInput{Name: "  Voyage  ", Type: domain.CategoryTypeExpense})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if category.Name != "Voyage" {
		t.Errorf("Expected trimmed name, got %q", category.Name)
	}
	if category.Icon != domain.DefaultCategoryIcon || category.Color != domain.DefaultCategoryColor {
		t.Error("Expected default icon and color")
	}
	if category.UserID == nil || *category.UserID != userID {
		t.Error("Expected category to be owned by the user")
	}

	if _, err := svc.CreateCategory(userID, CategoryInput{Name: "X", Type: "WRONG"}); !errors.Is(err, domain.ErrInvalidCategoryType) {
		t.Errorf("Expected ErrInvalidCategoryType, got %v", err)
	}
	if _, err := svc.CreateCategory(userID, CategoryInput{Name: "", Type: domain.CategoryTypeIncome}); !errors.Is(err, domain.ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestUpdateCategory_GlobalIsReadOnly(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()

	global, err := categoryRepo.Create(&domain.Category{Name: "Salaire", Type: domain.CategoryTypeIncome})
	if err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	_, err = svc.UpdateCategory(userID, global.ID, CategoryInput{Name: "Hack", Type: domain.CategoryTypeIncome})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound for global category, got %v", err)
	}
	if err := svc.DeleteCategory(userID, global.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound on delete, got %v", err)
	}
}

func TestGetCategories_IncludesGlobals(t *testing.T) {
	categoryRepo := testutil.NewMockCategoryRepository()
	svc := NewCategoryService(categoryRepo)
	userID := uuid.New()
	other := uuid.New()

	if _, err := categoryRepo.Create(&domain.Category{Name: "Salaire", Type: domain.CategoryTypeIncome}); err != nil {
		t.Fatal(err)
	}
	if _, err := categoryRepo.Create(&domain.Category{UserID: &userID, Name: "Voyage", Type: domain.CategoryTypeExpense}); err != nil {
		t.Fatal(err)
	}
	if _, err := categoryRepo.Create(&domain.Category{UserID: &other, Name: "Cache", Type: domain.CategoryTypeExpense}); err != nil {
		t.Fatal(err)
	}

	categories, err := svc.GetCategories(userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("Expected own plus global categories (2), got %d", len(categories))
	}
}
