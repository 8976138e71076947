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
	ErrReviewNotFound = errors.New("review not found")
)

// ReviewRepository defines the interface for review data access
type ReviewRepository interface {
	// Create stores a review; the product must exist
	Create(ctx context.Context, review *domain.Review) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type reviewRepository struct {
	uow database.UnitOfWork
}

// NewReviewRepository creates a new instance of ReviewRepository
func NewReviewRepository(uow database.UnitOfWork) ReviewRepository {
	return &reviewRepository{uow: uow}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		if err := ensureProductExists(ctx, s, review.ProductID); err != nil {
			return err
		}

		_, err := s.NamedExecContext(ctx, `
			INSERT INTO reviews (id, product_id, stars, text)
			VALUES (:id, :product_id, :stars, :text)
		`, review)
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		return nil
	})
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	reviews := []*domain.Review{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.SelectContext(ctx, &reviews, `
			SELECT id, product_id, stars, text FROM reviews WHERE product_id = $1 ORDER BY id
		`, productID)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	review := &domain.Review{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.GetContext(ctx, review, `SELECT id, product_id, stars, text FROM reviews WHERE id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrReviewNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find review by ID: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// Update changes stars and text; the owning product is never reassigned
func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		result, err := s.NamedExecContext(ctx, `UPDATE reviews SET stars = :stars, text = :text WHERE id = :id`, review)
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}
		return expectAffected(result, ErrReviewNotFound)
	})
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		result, err := s.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return expectAffected(result, ErrReviewNotFound)
	})
}

func ensureProductExists(ctx context.Context, s database.Session, productID uuid.UUID) error {
	var exists bool
	err := s.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !exists {
		return ErrProductNotFound
	}
	return nil
}

func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
