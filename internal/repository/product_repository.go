package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"product-provider/internal/database"
	"product-provider/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product aggregate data access.
// Every method runs in its own unit of work, so the product row and its
// images, prices and warehouse variants are always written together.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	// List returns every product with images and prices, newest first
	List(ctx context.Context) ([]*domain.Product, error)
	// FindByID loads the full aggregate including warehouses, reviews and category
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	// Update overwrites the scalar fields and replaces all child rows. A zero
	// CreatedAt keeps the stored value and is set on product on return.
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListCreatedSince returns products created at or after since, with images and prices
	ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Product, error)
}

type productRepository struct {
	uow database.UnitOfWork
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(uow database.UnitOfWork) ProductRepository {
	return &productRepository{uow: uow}
}

const selectProducts = `
	SELECT id, name, short_description, long_description, category_id, created_at, is_topseller
	FROM products
`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	product.CreatedAt = product.CreatedAt.UTC()

	return r.uow.Do(ctx, func(s database.Session) error {
		query := `
			INSERT INTO products (id, name, short_description, long_description, category_id, created_at, is_topseller)
			VALUES (:id, :name, :short_description, :long_description, :category_id, :created_at, :is_topseller)
		`
		if _, err := s.NamedExecContext(ctx, query, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		return insertChildren(ctx, s, product)
	})
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product

	err := r.uow.Read(ctx, func(s database.Session) error {
		products = []*domain.Product{}
		if err := s.SelectContext(ctx, &products, selectProducts+` ORDER BY created_at DESC, name ASC`); err != nil {
			return fmt.Errorf("failed to list products: %w", err)
		}
		return attachImagesAndPrices(ctx, s, products)
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Product, error) {
	var products []*domain.Product

	err := r.uow.Read(ctx, func(s database.Session) error {
		products = []*domain.Product{}
		query := selectProducts + ` WHERE created_at >= $1 ORDER BY created_at DESC, name ASC`
		if err := s.SelectContext(ctx, &products, query, since.UTC()); err != nil {
			return fmt.Errorf("failed to list new products: %w", err)
		}
		return attachImagesAndPrices(ctx, s, products)
	})
	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var product *domain.Product

	err := r.uow.Read(ctx, func(s database.Session) error {
		var err error
		product, err = loadAggregate(ctx, s, id, false)
		if err != nil {
			return err
		}

		product.Reviews = []domain.Review{}
		err = s.SelectContext(ctx, &product.Reviews, `
			SELECT id, product_id, stars, text FROM reviews WHERE product_id = $1 ORDER BY id
		`, id)
		if err != nil {
			return fmt.Errorf("failed to load reviews: %w", err)
		}

		category := &domain.Category{}
		err = s.GetContext(ctx, category, `SELECT id, name, icon FROM categories WHERE id = $1`, product.CategoryID)
		switch {
		case err == nil:
			product.Category = category
		case errors.Is(err, sql.ErrNoRows):
			product.Category = nil
		default:
			return fmt.Errorf("failed to load category: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	var createdAt *time.Time
	if !product.CreatedAt.IsZero() {
		createdAt = utcPtr(&product.CreatedAt)
	}

	return r.uow.Do(ctx, func(s database.Session) error {
		query := `
			UPDATE products
			SET name = $2, short_description = $3, long_description = $4, category_id = $5,
			    created_at = COALESCE($6::timestamp, created_at), is_topseller = $7
			WHERE id = $1
			RETURNING created_at
		`
		var stored time.Time
		err := s.GetContext(ctx, &stored, query,
			product.ID, product.Name, product.ShortDescription, product.LongDescription,
			product.CategoryID, createdAt, product.IsTopseller,
		)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return fmt.Errorf("failed to update product: %w", err)
		}
		product.CreatedAt = stored.UTC()

		for _, table := range []string{"images", "prices", "warehouses"} {
			if _, err := s.ExecContext(ctx, `DELETE FROM `+table+` WHERE product_id = $1`, product.ID); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		return insertChildren(ctx, s, product)
	})
}

// Delete loads the aggregate under a row lock and removes its children
// before the product row itself.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		if _, err := loadAggregate(ctx, s, id, true); err != nil {
			return err
		}

		for _, table := range []string{"reviews", "images", "prices", "warehouses"} {
			if _, err := s.ExecContext(ctx, `DELETE FROM `+table+` WHERE product_id = $1`, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}

		if _, err := s.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return nil
	})
}

// loadAggregate reads one product with images, prices and warehouse variants
func loadAggregate(ctx context.Context, s database.Session, id uuid.UUID, forUpdate bool) (*domain.Product, error) {
	query := selectProducts + ` WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	product := &domain.Product{}
	if err := s.GetContext(ctx, product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	if err := attachImagesAndPrices(ctx, s, []*domain.Product{product}); err != nil {
		return nil, err
	}

	product.Warehouses = []domain.WarehouseVariant{}
	err := s.SelectContext(ctx, &product.Warehouses, `
		SELECT unique_product_id, product_id, color_id, size_id, current_stock
		FROM warehouses WHERE product_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load warehouses: %w", err)
	}

	return product, nil
}

// attachImagesAndPrices fills Images and Prices for a batch of products with
// one query per child table
func attachImagesAndPrices(ctx context.Context, s database.Session, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID.String()
	}

	var images []domain.Image
	err := s.SelectContext(ctx, &images, `
		SELECT id, product_id, image_url
		FROM images WHERE product_id = ANY($1::uuid[]) ORDER BY product_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load images: %w", err)
	}

	var prices []domain.Price
	err = s.SelectContext(ctx, &prices, `
		SELECT id, product_id, price, discount, discount_price, start_date, end_date, is_active
		FROM prices WHERE product_id = ANY($1::uuid[]) ORDER BY product_id, position
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load prices: %w", err)
	}

	imagesByProduct := groupByProduct(images, func(i domain.Image) uuid.UUID { return i.ProductID })
	pricesByProduct := groupByProduct(prices, func(p domain.Price) uuid.UUID { return p.ProductID })

	for _, p := range products {
		p.Images = orEmpty(imagesByProduct[p.ID])
		p.Prices = orEmpty(pricesByProduct[p.ID])
		for i := range p.Prices {
			p.Prices[i].StartDate = utcPtr(p.Prices[i].StartDate)
			p.Prices[i].EndDate = utcPtr(p.Prices[i].EndDate)
		}
		p.CreatedAt = p.CreatedAt.UTC()
	}

	return nil
}

// insertChildren writes the child rows of product keeping their slice order
func insertChildren(ctx context.Context, s database.Session, product *domain.Product) error {
	for i, image := range product.Images {
		_, err := s.ExecContext(ctx,
			`INSERT INTO images (id, product_id, image_url, position) VALUES ($1, $2, $3, $4)`,
			image.ID, product.ID, image.ImageURL, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert image: %w", err)
		}
	}

	for i, price := range product.Prices {
		_, err := s.ExecContext(ctx, `
			INSERT INTO prices (id, product_id, price, discount, discount_price, start_date, end_date, is_active, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			price.ID, product.ID, price.Price, price.Discount, price.DiscountPrice,
			utcPtr(price.StartDate), utcPtr(price.EndDate), price.IsActive, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert price: %w", err)
		}
	}

	for i, variant := range product.Warehouses {
		_, err := s.ExecContext(ctx, `
			INSERT INTO warehouses (unique_product_id, product_id, color_id, size_id, current_stock, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			variant.UniqueProductID, product.ID, variant.ColorID, variant.SizeID, variant.CurrentStock, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert warehouse variant: %w", err)
		}
	}

	return nil
}

func groupByProduct[T any](items []T, key func(T) uuid.UUID) map[uuid.UUID][]T {
	grouped := make(map[uuid.UUID][]T)
	for _, item := range items {
		grouped[key(item)] = append(grouped[key(item)], item)
	}
	return grouped
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// utcPtr normalizes a timestamp since TIMESTAMP columns carry no zone
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
