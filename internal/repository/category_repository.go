package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"product-provider/internal/database"
	"product-provider/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// GetOrCreate returns the category with the given name, inserting it when absent
	GetOrCreate(ctx context.Context, category *domain.Category) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithProductCount(ctx context.Context) ([]*domain.CategoryProductCount, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
}

type categoryRepository struct {
	uow database.UnitOfWork
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(uow database.UnitOfWork) CategoryRepository {
	return &categoryRepository{uow: uow}
}

func (r *categoryRepository) GetOrCreate(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	stored := &domain.Category{}

	err := r.uow.Do(ctx, func(s database.Session) error {
		// Concurrent creators of the same name both end up with the stored row
		_, err := s.NamedExecContext(ctx, `
			INSERT INTO categories (id, name, icon)
			VALUES (:id, :name, :icon)
			ON CONFLICT (name) DO NOTHING
		`, category)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}

		err = s.GetContext(ctx, stored, `SELECT id, name, icon FROM categories WHERE name = $1`, category.Name)
		if err != nil {
			return fmt.Errorf("failed to find category by name: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return stored, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := []*domain.Category{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		if err := s.SelectContext(ctx, &categories, `SELECT id, name, icon FROM categories ORDER BY name ASC`); err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (r *categoryRepository) ListWithProductCount(ctx context.Context) ([]*domain.CategoryProductCount, error) {
	counts := []*domain.CategoryProductCount{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		query := `
			SELECT c.icon, c.name AS category_name, COUNT(p.id) AS product_count
			FROM categories c
			LEFT JOIN products p ON p.category_id = c.id
			GROUP BY c.id, c.icon, c.name
			ORDER BY c.name ASC
		`
		if err := s.SelectContext(ctx, &counts, query); err != nil {
			return fmt.Errorf("failed to count products per category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category := &domain.Category{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.GetContext(ctx, category, `SELECT id, name, icon FROM categories WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find category by ID: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}
