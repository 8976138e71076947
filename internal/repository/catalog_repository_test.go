package repository

import (
	"context"
	"testing"

	"product-provider/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creating a category twice by name yields the same stored row
func TestProperty_CategoryGetOrCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(testUoW)

	properties := gopter.NewProperties(nil)

	properties.Property("same name resolves to the same category", prop.ForAll(
		func(name string) bool {
			first, err := repo.GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: name, Icon: domain.DefaultCategoryIcon})
			if err != nil {
				t.Logf("FAIL: Failed to create category: %v", err)
				return false
			}
			second, err := repo.GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: name, Icon: "other"})
			if err != nil {
				t.Logf("FAIL: Failed to get category: %v", err)
				return false
			}
			if first.ID != second.ID || second.Icon != domain.DefaultCategoryIcon {
				t.Logf("FAIL: Expected existing category, got %+v", second)
				return false
			}
			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{3,12} [0-9]{4}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCategoryRepository_ListWithProductCount(t *testing.T) {
	resetCatalog(t)
	ctx := context.Background()
	categories := NewCategoryRepository(testUoW)
	products := NewProductRepository(testUoW)

	shirts, err := categories.GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: "Shirts", Icon: "s"})
	require.NoError(t, err)
	_, err = categories.GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: "Hats", Icon: "h"})
	require.NoError(t, err)

	require.NoError(t, products.Create(ctx, newTestProduct(shirts.ID, "One", nil, 1)))
	require.NoError(t, products.Create(ctx, newTestProduct(shirts.ID, "Two", nil, 1)))

	counts, err := categories.ListWithProductCount(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, domain.CategoryProductCount{Icon: "h", CategoryName: "Hats", ProductCount: 0}, *counts[0])
	assert.Equal(t, domain.CategoryProductCount{Icon: "s", CategoryName: "Shirts", ProductCount: 2}, *counts[1])

	all, err := categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	found, err := categories.FindByID(ctx, shirts.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirts", found.Name)

	_, err = categories.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestReviewRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	reviews := NewReviewRepository(testUoW)
	product := newTestProduct(seedCategory(t).ID, "Reviewed", nil, 1)
	require.NoError(t, NewProductRepository(testUoW).Create(ctx, product))

	review := &domain.Review{ID: uuid.New(), ProductID: product.ID, Stars: 4, Text: "Good"}
	require.NoError(t, reviews.Create(ctx, review))

	listed, err := reviews.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, *review, *listed[0])

	review.Stars = 2
	review.Text = "Changed my mind"
	require.NoError(t, reviews.Update(ctx, review))

	found, err := reviews.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.Stars)
	assert.Equal(t, "Changed my mind", found.Text)

	require.NoError(t, reviews.Delete(ctx, review.ID))
	assert.ErrorIs(t, reviews.Delete(ctx, review.ID), ErrReviewNotFound)
	_, err = reviews.FindByID(ctx, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewRepository_RequiresProduct(t *testing.T) {
	err := NewReviewRepository(testUoW).Create(context.Background(),
		&domain.Review{ID: uuid.New(), ProductID: uuid.New(), Stars: 5, Text: "?"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestWarehouseRepository_Variants(t *testing.T) {
	ctx := context.Background()
	warehouse := NewWarehouseRepository(testUoW)
	product := newTestProduct(seedCategory(t).ID, "Stocked", nil, 3)
	require.NoError(t, NewProductRepository(testUoW).Create(ctx, product))

	red := &domain.Color{ID: uuid.New(), Name: "Red", HexadecimalColor: "#FF0000"}
	large := &domain.Size{ID: uuid.New(), Name: "L"}
	require.NoError(t, warehouse.CreateColor(ctx, red))
	require.NoError(t, warehouse.CreateSize(ctx, large))

	variant := &domain.WarehouseVariant{
		UniqueProductID: uuid.New(),
		ProductID:       product.ID,
		ColorID:         &red.ID,
		SizeID:          &large.ID,
		CurrentStock:    10,
	}
	require.NoError(t, warehouse.Create(ctx, variant))

	duplicate := *variant
	duplicate.UniqueProductID = uuid.New()
	assert.ErrorIs(t, warehouse.Create(ctx, &duplicate), ErrVariantAlreadyExists)

	// The variant created with the product has neither color nor size
	colorless := &domain.WarehouseVariant{UniqueProductID: uuid.New(), ProductID: product.ID}
	assert.ErrorIs(t, warehouse.Create(ctx, colorless), ErrVariantAlreadyExists)

	byProduct, err := warehouse.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, byProduct, 2)
	assert.Equal(t, variant.UniqueProductID, byProduct[1].UniqueProductID)

	variant.CurrentStock = 4
	require.NoError(t, warehouse.Update(ctx, variant))
	found, err := warehouse.FindByID(ctx, variant.UniqueProductID)
	require.NoError(t, err)
	assert.Equal(t, 4, found.CurrentStock)
	require.NotNil(t, found.ColorID)
	assert.Equal(t, red.ID, *found.ColorID)

	colors, err := warehouse.ColorsByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, "#FF0000", colors[0].HexadecimalColor)

	sizes, err := warehouse.SizesByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, sizes, 1)
	assert.Equal(t, "L", sizes[0].Name)

	_, err = warehouse.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrVariantNotFound)
	assert.ErrorIs(t, warehouse.Update(ctx, &domain.WarehouseVariant{UniqueProductID: uuid.New()}), ErrVariantNotFound)
	assert.ErrorIs(t, warehouse.Create(ctx, &domain.WarehouseVariant{UniqueProductID: uuid.New(), ProductID: uuid.New()}), ErrProductNotFound)
}
