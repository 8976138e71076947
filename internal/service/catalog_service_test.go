package service

import (
	"context"
	"errors"
	"testing"

	"product-provider/internal/domain"
	"product-provider/internal/repository"
	"product-provider/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategoryService_CreateDefaultsIconAndReusesName(t *testing.T) {
	store := memory.NewStore()
	svc := NewCategoryService(store.Categories(), zap.NewNop())
	ctx := context.Background()

	first, err := svc.Create(ctx, "Shoes", "")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategoryIcon, first.Icon)

	second, err := svc.Create(ctx, "  Shoes ", "<i></i>")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.Create(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	counts, err := svc.ListWithProductCount(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 0, counts[0].ProductCount)
}

// Feature: product catalog, review stars are accepted only in 1..5
func TestProperty_ReviewStarsAreBounded(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("stars outside 1..5 are rejected", prop.ForAll(
		func(stars int) bool {
			store := memory.NewStore()
			ctx := context.Background()
			productID := seedProduct(t, store)
			svc := NewReviewService(store.Reviews(), zap.NewNop())

			review, err := svc.Create(ctx, productID, stars, "text")
			valid := stars >= 1 && stars <= 5
			if valid && err != nil {
				t.Logf("FAIL: Valid stars %d rejected: %v", stars, err)
				return false
			}
			if !valid && !errors.Is(err, ErrInvalidReview) {
				t.Logf("FAIL: Stars %d accepted or wrong error: %v", stars, err)
				return false
			}
			if valid && review.Stars != stars {
				t.Logf("FAIL: Stars changed from %d to %d", stars, review.Stars)
				return false
			}
			return true
		},
		gen.IntRange(-3, 9),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func seedProduct(t *testing.T, store *memory.Store) uuid.UUID {
	t.Helper()
	product := &domain.Product{ID: uuid.New(), Name: "Seed", ShortDescription: "Seed"}
	require.NoError(t, store.Products().Create(context.Background(), product))
	return product.ID
}

func TestReviewService_Lifecycle(t *testing.T) {
	store := memory.NewStore()
	svc := NewReviewService(store.Reviews(), zap.NewNop())
	ctx := context.Background()
	productID := seedProduct(t, store)

	_, err := svc.Create(ctx, uuid.New(), 3, "orphan")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	review, err := svc.Create(ctx, productID, 3, "fine")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, review.ID, 5, "great")
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stars)
	assert.Equal(t, productID, updated.ProductID)

	listed, err := svc.ListByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "great", listed[0].Text)

	deleted, err := svc.Delete(ctx, review.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.Delete(ctx, review.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = svc.GetOne(ctx, review.ID)
	assert.ErrorIs(t, err, repository.ErrReviewNotFound)
}

func TestWarehouseService_Variants(t *testing.T) {
	store := memory.NewStore()
	svc := NewWarehouseService(store.Warehouse(), zap.NewNop())
	ctx := context.Background()
	productID := seedProduct(t, store)

	red, err := svc.CreateColor(ctx, "Red", "#FF0000")
	require.NoError(t, err)
	medium, err := svc.CreateSize(ctx, "M")
	require.NoError(t, err)

	variant, err := svc.CreateVariant(ctx, productID, domain.WarehouseInput{ColorID: &red.ID, SizeID: &medium.ID, CurrentStock: 3})
	require.NoError(t, err)

	_, err = svc.CreateVariant(ctx, productID, domain.WarehouseInput{ColorID: &red.ID, SizeID: &medium.ID, CurrentStock: 9})
	assert.ErrorIs(t, err, repository.ErrVariantAlreadyExists)

	_, err = svc.CreateVariant(ctx, uuid.New(), domain.WarehouseInput{})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = svc.CreateVariant(ctx, productID, domain.WarehouseInput{CurrentStock: -1})
	assert.ErrorIs(t, err, ErrInvalidVariant)

	updated, err := svc.UpdateVariant(ctx, variant.UniqueProductID, domain.WarehouseInput{ColorID: &red.ID, CurrentStock: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, updated.CurrentStock)
	assert.Nil(t, updated.SizeID)

	_, err = svc.UpdateVariant(ctx, uuid.New(), domain.WarehouseInput{})
	assert.ErrorIs(t, err, repository.ErrVariantNotFound)

	colors, err := svc.ColorsByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, colors, 1)
	assert.Equal(t, "Red", colors[0].Name)

	sizes, err := svc.SizesByProduct(ctx, productID)
	require.NoError(t, err)
	assert.Empty(t, sizes)

	all, err := svc.ListVariants(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
