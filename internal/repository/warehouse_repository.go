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
	ErrVariantNotFound      = errors.New("warehouse variant not found")
	ErrVariantAlreadyExists = errors.New("warehouse variant for this product, color and size already exists")
)

// WarehouseRepository defines the interface for stock variants and the
// colors and sizes they reference
type WarehouseRepository interface {
	Create(ctx context.Context, variant *domain.WarehouseVariant) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.WarehouseVariant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.WarehouseVariant, error)
	List(ctx context.Context) ([]*domain.WarehouseVariant, error)
	// Update changes color, size and stock of an existing variant
	Update(ctx context.Context, variant *domain.WarehouseVariant) error
	SizesByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Size, error)
	ColorsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Color, error)

	CreateColor(ctx context.Context, color *domain.Color) error
	ListColors(ctx context.Context) ([]*domain.Color, error)
	CreateSize(ctx context.Context, size *domain.Size) error
	ListSizes(ctx context.Context) ([]*domain.Size, error)
}

type warehouseRepository struct {
	uow database.UnitOfWork
}

// NewWarehouseRepository creates a new instance of WarehouseRepository
func NewWarehouseRepository(uow database.UnitOfWork) WarehouseRepository {
	return &warehouseRepository{uow: uow}
}

const selectVariants = `
	SELECT unique_product_id, product_id, color_id, size_id, current_stock
	FROM warehouses
`

func (r *warehouseRepository) Create(ctx context.Context, variant *domain.WarehouseVariant) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		// Serializes creators of variants for the same product
		var locked uuid.UUID
		err := s.GetContext(ctx, &locked, `SELECT id FROM products WHERE id = $1 FOR UPDATE`, variant.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock product: %w", err)
		}

		var duplicate bool
		err = s.GetContext(ctx, &duplicate, `
			SELECT EXISTS (
				SELECT 1 FROM warehouses
				WHERE product_id = $1 AND color_id IS NOT DISTINCT FROM $2::uuid
				  AND size_id IS NOT DISTINCT FROM $3::uuid
			)
		`, variant.ProductID, variant.ColorID, variant.SizeID)
		if err != nil {
			return fmt.Errorf("failed to check warehouse variant: %w", err)
		}
		if duplicate {
			return ErrVariantAlreadyExists
		}

		_, err = s.ExecContext(ctx, `
			INSERT INTO warehouses (unique_product_id, product_id, color_id, size_id, current_stock, position)
			SELECT $1::uuid, $2::uuid, $3::uuid, $4::uuid, $5::int, COALESCE(MAX(position) + 1, 0)
			FROM warehouses WHERE product_id = $2
		`, variant.UniqueProductID, variant.ProductID, variant.ColorID, variant.SizeID, variant.CurrentStock)
		if err != nil {
			return fmt.Errorf("failed to create warehouse variant: %w", err)
		}
		return nil
	})
}

func (r *warehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WarehouseVariant, error) {
	variant := &domain.WarehouseVariant{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.GetContext(ctx, variant, selectVariants+` WHERE unique_product_id = $1`, id)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVariantNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find warehouse variant by ID: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return variant, nil
}

func (r *warehouseRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.WarehouseVariant, error) {
	return r.selectVariants(ctx, selectVariants+` WHERE product_id = $1 ORDER BY position`, productID)
}

func (r *warehouseRepository) List(ctx context.Context) ([]*domain.WarehouseVariant, error) {
	return r.selectVariants(ctx, selectVariants+` ORDER BY product_id, position`)
}

func (r *warehouseRepository) selectVariants(ctx context.Context, query string, args ...interface{}) ([]*domain.WarehouseVariant, error) {
	variants := []*domain.WarehouseVariant{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		if err := s.SelectContext(ctx, &variants, query, args...); err != nil {
			return fmt.Errorf("failed to list warehouse variants: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return variants, nil
}

func (r *warehouseRepository) Update(ctx context.Context, variant *domain.WarehouseVariant) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		result, err := s.NamedExecContext(ctx, `
			UPDATE warehouses
			SET color_id = :color_id, size_id = :size_id, current_stock = :current_stock
			WHERE unique_product_id = :unique_product_id
		`, variant)
		if err != nil {
			return fmt.Errorf("failed to update warehouse variant: %w", err)
		}
		return expectAffected(result, ErrVariantNotFound)
	})
}

func (r *warehouseRepository) SizesByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Size, error) {
	sizes := []*domain.Size{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.SelectContext(ctx, &sizes, `
			SELECT DISTINCT sz.id, sz.name
			FROM warehouses w
			JOIN sizes sz ON sz.id = w.size_id
			WHERE w.product_id = $1
			ORDER BY sz.name
		`, productID)
		if err != nil {
			return fmt.Errorf("failed to list sizes of product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sizes, nil
}

func (r *warehouseRepository) ColorsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Color, error) {
	colors := []*domain.Color{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		err := s.SelectContext(ctx, &colors, `
			SELECT DISTINCT c.id, c.name, c.hexadecimal_color
			FROM warehouses w
			JOIN colors c ON c.id = w.color_id
			WHERE w.product_id = $1
			ORDER BY c.name
		`, productID)
		if err != nil {
			return fmt.Errorf("failed to list colors of product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return colors, nil
}

func (r *warehouseRepository) CreateColor(ctx context.Context, color *domain.Color) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		_, err := s.NamedExecContext(ctx, `
			INSERT INTO colors (id, name, hexadecimal_color) VALUES (:id, :name, :hexadecimal_color)
		`, color)
		if err != nil {
			return fmt.Errorf("failed to create color: %w", err)
		}
		return nil
	})
}

func (r *warehouseRepository) ListColors(ctx context.Context) ([]*domain.Color, error) {
	colors := []*domain.Color{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		if err := s.SelectContext(ctx, &colors, `SELECT id, name, hexadecimal_color FROM colors ORDER BY name`); err != nil {
			return fmt.Errorf("failed to list colors: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return colors, nil
}

func (r *warehouseRepository) CreateSize(ctx context.Context, size *domain.Size) error {
	return r.uow.Do(ctx, func(s database.Session) error {
		if _, err := s.NamedExecContext(ctx, `INSERT INTO sizes (id, name) VALUES (:id, :name)`, size); err != nil {
			return fmt.Errorf("failed to create size: %w", err)
		}
		return nil
	})
}

func (r *warehouseRepository) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	sizes := []*domain.Size{}

	err := r.uow.Read(ctx, func(s database.Session) error {
		if err := s.SelectContext(ctx, &sizes, `SELECT id, name FROM sizes ORDER BY name`); err != nil {
			return fmt.Errorf("failed to list sizes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sizes, nil
}
