package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"product-provider/internal/domain"
	"product-provider/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNewArrivalsWindow is how far back a product counts as new
const DefaultNewArrivalsWindow = 14 * 24 * time.Hour

var (
	ErrInvalidProduct = errors.New("invalid product")
)

// ProductService defines the interface for product catalog logic.
// Update replaces images, prices and warehouse variants wholesale; callers
// must resend unchanged children.
type ProductService interface {
	Create(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error)
	// GetAll never fails; a store error yields an empty listing and is logged
	GetAll(ctx context.Context) []domain.ProductSummary
	GetOne(ctx context.Context, id uuid.UUID) (*domain.ProductView, error)
	Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.ProductView, error)
	// Delete reports false when no product has the id
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	NewArrivals(ctx context.Context) ([]domain.NewArrival, error)
}

type productService struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	newArrivalsWindow time.Duration
	now               func() time.Time
	logger            *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	newArrivalsWindow time.Duration,
	logger *zap.Logger,
) ProductService {
	if newArrivalsWindow <= 0 {
		newArrivalsWindow = DefaultNewArrivalsWindow
	}
	return &productService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		newArrivalsWindow: newArrivalsWindow,
		now:               time.Now,
		logger:            logger.Named("products"),
	}
}

func (s *productService) Create(ctx context.Context, input domain.ProductInput) (*domain.ProductView, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	createdAt := s.now()
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}

	product := buildProduct(uuid.New(), createdAt, input)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.Int("images", len(product.Images)),
		zap.Int("prices", len(product.Prices)),
		zap.Int("warehouses", len(product.Warehouses)),
	)

	view := toCreatedView(product)
	return &view, nil
}

func (s *productService) GetAll(ctx context.Context) []domain.ProductSummary {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		s.logger.Error("Listing products failed, returning empty catalog", zap.Error(err))
		return []domain.ProductSummary{}
	}

	views := make([]domain.ProductSummary, 0, len(products))
	for _, p := range products {
		views = append(views, toListView(p))
	}
	return views
}

func (s *productService) GetOne(ctx context.Context, id uuid.UUID) (*domain.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	view := toDetailView(product)
	return &view, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.ProductView, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}

	// Zero keeps the stored creation time; the repository fills it back in
	var createdAt time.Time
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}

	product := buildProduct(id, createdAt, input)
	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id.String()))

	view := toCreatedView(product)
	return &view, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return true, nil
}

func (s *productService) NewArrivals(ctx context.Context) ([]domain.NewArrival, error) {
	since := s.now().Add(-s.newArrivalsWindow)

	products, err := s.productRepo.ListCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list new arrivals: %w", err)
	}

	arrivals := make([]domain.NewArrival, 0, len(products))
	for _, p := range products {
		arrivals = append(arrivals, toNewArrival(p))
	}
	return arrivals, nil
}

// validate checks required scalars and that the category exists
func (s *productService) validate(ctx context.Context, input domain.ProductInput) error {
	switch {
	case strings.TrimSpace(input.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	case strings.TrimSpace(input.ShortDescription) == "":
		return fmt.Errorf("%w: short description is required", ErrInvalidProduct)
	case input.CategoryID == uuid.Nil:
		return fmt.Errorf("%w: category is required", ErrInvalidProduct)
	}

	for _, image := range input.Images {
		if strings.TrimSpace(image.ImageURL) == "" {
			return fmt.Errorf("%w: image url is required", ErrInvalidProduct)
		}
	}
	for _, warehouse := range input.Warehouses {
		if warehouse.CurrentStock < 0 {
			return fmt.Errorf("%w: stock cannot be negative", ErrInvalidProduct)
		}
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return fmt.Errorf("%w: category %s does not exist", ErrInvalidProduct, input.CategoryID)
		}
		return fmt.Errorf("failed to check category: %w", err)
	}

	return nil
}
