package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/nexora/nexora-backend/internal/domain"
)

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo domain.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CategoryInput holds the input for creating or updating a category
type CategoryInput struct {
	Name  string
	Type  domain.CategoryType
	Icon  string
	Color string
}

func (in *CategoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return domain.ErrNameRequired
	}
	if len(in.Name) > domain.MaxCategoryNameLength {
		return domain.ErrNameTooLong
	}
	if in.Type != domain.CategoryTypeIncome && in.Type != domain.CategoryTypeExpense {
		return domain.ErrInvalidCategoryType
	}
	if in.Icon == "" {
		in.Icon = domain.DefaultCategoryIcon
	}
	if in.Color == "" {
		in.Color = domain.DefaultCategoryColor
	}
	return nil
}

// CreateCategory creates a category owned by the user
func (s *CategoryService) CreateCategory(userID uuid.UUID, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	uid := userID
	return s.categoryRepo.Create(&domain.Category{
		UserID: &uid,
		Name:   input.Name,
		Type:   input.Type,
		Icon:   input.Icon,
		Color:  input.Color,
	})
}

// GetCategories lists the categories visible to the user, global ones
// included.
func (s *CategoryService) GetCategories(userID uuid.UUID) ([]*domain.Category, error) {
	return s.categoryRepo.GetAllVisible(userID)
}

// GetCategoryByID retrieves a visible category by id
func (s *CategoryService) GetCategoryByID(userID uuid.UUID, id int32) (*domain.Category, error) {
	return s.categoryRepo.GetVisibleByID(userID, id)
}

// UpdateCategory updates a category the user owns. Global categories are
// read only.
func (s *CategoryService) UpdateCategory(userID uuid.UUID, id int32, input CategoryInput) (*domain.Category, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	return s.categoryRepo.Update(userID, id, input.Name, input.Type, input.Icon, input.Color)
}

// DeleteCategory deletes a category the user owns
func (s *CategoryService) DeleteCategory(userID uuid.UUID, id int32) error {
	return s.categoryRepo.Delete(userID, id)
}
