package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"

	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/domain"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/core/port"
	"github.com/josesojo2828/Dgo-Byke-Server/internal/repository"
)

// ErrCategoryNotFound is returned when the referenced category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryInput captures the payload for creating or updating a category.
type CategoryInput struct {
	Name   string
	MinAge *int
	MaxAge *int
	Gender *string
}

// CategoryService manages the rider category catalog.
type CategoryService struct {
	categories port.CategoryRepository
}

// NewCategoryService constructs a CategoryService.
func NewCategoryService(categories port.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// CreateCategory provisions a category.
func (s *CategoryService) CreateCategory(ctx context.Context, input CategoryInput) (*domain.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	category := domain.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(input.Name),
		MinAge:    input.MinAge,
		MaxAge:    input.MaxAge,
		Gender:    input.Gender,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return &category, nil
}

// GetCategory returns a category by identifier.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory replaces the editable fields of a category.
func (s *CategoryService) UpdateCategory(ctx context.Context, id string, input CategoryInput) (*domain.Category, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}

	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = strings.TrimSpace(input.Name)
	category.MinAge = input.MinAge
	category.MaxAge = input.MaxAge
	category.Gender = input.Gender
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, *category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// DeleteCategory soft deletes a category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func validateCategory(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if input.MinAge != nil && *input.MinAge < 0 {
		return fmt.Errorf("minimum age must not be negative")
	}
	if input.MinAge != nil && input.MaxAge != nil && *input.MaxAge < *input.MinAge {
		return fmt.Errorf("maximum age must not be below minimum age")
	}
	return nil
}
