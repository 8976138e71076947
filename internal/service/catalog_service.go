package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"product-provider/internal/domain"
	"product-provider/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidReview   = errors.New("invalid review")
	ErrInvalidVariant  = errors.New("invalid warehouse variant")
)

// CategoryService defines the interface for category logic
type CategoryService interface {
	// Create returns the existing category when the name is already taken
	Create(ctx context.Context, name, icon string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	ListWithProductCount(ctx context.Context) ([]*domain.CategoryProductCount, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categoryRepo: categoryRepo, logger: logger.Named("categories")}
}

func (s *categoryService) Create(ctx context.Context, name, icon string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidCategory)
	}
	if strings.TrimSpace(icon) == "" {
		icon = domain.DefaultCategoryIcon
	}

	category, err := s.categoryRepo.GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: name, Icon: icon})
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Debug("Category resolved", zap.String("category_id", category.ID.String()), zap.String("name", name))
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) ListWithProductCount(ctx context.Context) ([]*domain.CategoryProductCount, error) {
	return s.categoryRepo.ListWithProductCount(ctx)
}

// ReviewService defines the interface for product review logic
type ReviewService interface {
	Create(ctx context.Context, productID uuid.UUID, stars int, text string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
	GetOne(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	Update(ctx context.Context, id uuid.UUID, stars int, text string) (*domain.Review, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	logger     *zap.Logger
}

// NewReviewService creates a new instance of ReviewService
func NewReviewService(reviewRepo repository.ReviewRepository, logger *zap.Logger) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, logger: logger.Named("reviews")}
}

func validStars(stars int) error {
	if stars < 1 || stars > 5 {
		return fmt.Errorf("%w: stars must be between 1 and 5, got %d", ErrInvalidReview, stars)
	}
	return nil
}

func (s *reviewService) Create(ctx context.Context, productID uuid.UUID, stars int, text string) (*domain.Review, error) {
	if err := validStars(stars); err != nil {
		return nil, err
	}

	review := &domain.Review{ID: uuid.New(), ProductID: productID, Stars: stars, Text: text}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	s.logger.Info("Review created", zap.String("review_id", review.ID.String()), zap.String("product_id", productID.String()))
	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}

func (s *reviewService) GetOne(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	return s.reviewRepo.FindByID(ctx, id)
}

func (s *reviewService) Update(ctx context.Context, id uuid.UUID, stars int, text string) (*domain.Review, error) {
	if err := validStars(stars); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review.Stars = stars
	review.Text = text
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	return true, nil
}

// WarehouseService defines the interface for stock variant logic
type WarehouseService interface {
	CreateVariant(ctx context.Context, productID uuid.UUID, input domain.WarehouseInput) (*domain.WarehouseVariant, error)
	GetVariant(ctx context.Context, id uuid.UUID) (*domain.WarehouseVariant, error)
	ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.WarehouseVariant, error)
	ListVariants(ctx context.Context) ([]*domain.WarehouseVariant, error)
	UpdateVariant(ctx context.Context, id uuid.UUID, input domain.WarehouseInput) (*domain.WarehouseVariant, error)
	SizesByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Size, error)
	ColorsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Color, error)
	CreateColor(ctx context.Context, name, hexadecimalColor string) (*domain.Color, error)
	ListColors(ctx context.Context) ([]*domain.Color, error)
	CreateSize(ctx context.Context, name string) (*domain.Size, error)
	ListSizes(ctx context.Context) ([]*domain.Size, error)
}

type warehouseService struct {
	warehouseRepo repository.WarehouseRepository
	logger        *zap.Logger
}

// NewWarehouseService creates a new instance of WarehouseService
func NewWarehouseService(warehouseRepo repository.WarehouseRepository, logger *zap.Logger) WarehouseService {
	return &warehouseService{warehouseRepo: warehouseRepo, logger: logger.Named("warehouse")}
}

func (s *warehouseService) CreateVariant(ctx context.Context, productID uuid.UUID, input domain.WarehouseInput) (*domain.WarehouseVariant, error) {
	if input.CurrentStock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidVariant)
	}

	variant := &domain.WarehouseVariant{
		UniqueProductID: uuid.New(),
		ProductID:       productID,
		ColorID:         input.ColorID,
		SizeID:          input.SizeID,
		CurrentStock:    input.CurrentStock,
	}
	if err := s.warehouseRepo.Create(ctx, variant); err != nil {
		if errors.Is(err, repository.ErrVariantAlreadyExists) || errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create warehouse variant: %w", err)
	}

	s.logger.Info("Warehouse variant created",
		zap.String("unique_product_id", variant.UniqueProductID.String()),
		zap.String("product_id", productID.String()),
	)
	return variant, nil
}

func (s *warehouseService) GetVariant(ctx context.Context, id uuid.UUID) (*domain.WarehouseVariant, error) {
	return s.warehouseRepo.FindByID(ctx, id)
}

func (s *warehouseService) ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.WarehouseVariant, error) {
	return s.warehouseRepo.ListByProduct(ctx, productID)
}

func (s *warehouseService) ListVariants(ctx context.Context) ([]*domain.WarehouseVariant, error) {
	return s.warehouseRepo.List(ctx)
}

func (s *warehouseService) UpdateVariant(ctx context.Context, id uuid.UUID, input domain.WarehouseInput) (*domain.WarehouseVariant, error) {
	if input.CurrentStock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrInvalidVariant)
	}

	variant, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	variant.ColorID = input.ColorID
	variant.SizeID = input.SizeID
	variant.CurrentStock = input.CurrentStock
	if err := s.warehouseRepo.Update(ctx, variant); err != nil {
		if errors.Is(err, repository.ErrVariantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update warehouse variant: %w", err)
	}
	return variant, nil
}

func (s *warehouseService) SizesByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Size, error) {
	return s.warehouseRepo.SizesByProduct(ctx, productID)
}

func (s *warehouseService) ColorsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Color, error) {
	return s.warehouseRepo.ColorsByProduct(ctx, productID)
}

func (s *warehouseService) CreateColor(ctx context.Context, name, hexadecimalColor string) (*domain.Color, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: color name is required", ErrInvalidVariant)
	}
	color := &domain.Color{ID: uuid.New(), Name: name, HexadecimalColor: hexadecimalColor}
	if err := s.warehouseRepo.CreateColor(ctx, color); err != nil {
		return nil, fmt.Errorf("failed to create color: %w", err)
	}
	return color, nil
}

func (s *warehouseService) ListColors(ctx context.Context) ([]*domain.Color, error) {
	return s.warehouseRepo.ListColors(ctx)
}

func (s *warehouseService) CreateSize(ctx context.Context, name string) (*domain.Size, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: size name is required", ErrInvalidVariant)
	}
	size := &domain.Size{ID: uuid.New(), Name: name}
	if err := s.warehouseRepo.CreateSize(ctx, size); err != nil {
		return nil, fmt.Errorf("failed to create size: %w", err)
	}
	return size, nil
}

func (s *warehouseService) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	return s.warehouseRepo.ListSizes(ctx)
}
