package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"product-provider/internal/domain"
	"product-provider/internal/repository"
	"product-provider/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupProductService(t *testing.T) (ProductService, *memory.Store, *domain.Category) {
	t.Helper()
	store := memory.NewStore()
	category, err := store.Categories().GetOrCreate(context.Background(),
		&domain.Category{ID: uuid.New(), Name: "Shirts", Icon: domain.DefaultCategoryIcon})
	require.NoError(t, err)
	return NewProductService(store.Products(), store.Categories(), 0, zap.NewNop()), store, category
}

func productInput(categoryID uuid.UUID, images, prices, warehouses int) domain.ProductInput {
	input := domain.ProductInput{
		Name:             "Test Product",
		ShortDescription: "Test",
		CategoryID:       categoryID,
	}
	for i := 0; i < images; i++ {
		input.Images = append(input.Images, domain.ImageInput{ImageURL: "http://image" + string(rune('1'+i)) + ".com"})
	}
	for i := 0; i < prices; i++ {
		input.Prices = append(input.Prices, domain.PriceInput{
			Price: decimal.NewNullDecimal(decimal.NewFromInt(int64(100 + i))),
		})
	}
	for i := 0; i < warehouses; i++ {
		input.Warehouses = append(input.Warehouses, domain.WarehouseInput{CurrentStock: 50})
	}
	return input
}

func TestProductService_CreateScenario(t *testing.T) {
	svc, _, category := setupProductService(t)
	ctx := context.Background()

	input := productInput(category.ID, 2, 1, 1)
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.Len(t, created.Images, 2)
	assert.Len(t, created.Prices, 1)
	assert.Len(t, created.Warehouses, 1)
	assert.False(t, created.IsTopseller)
	assert.WithinDuration(t, time.Now(), created.CreatedAt, time.Minute)

	fetched, err := svc.GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Images, 2)
	assert.Len(t, fetched.Prices, 1)
	assert.Len(t, fetched.Warehouses, 1)
	assert.Equal(t, category.ID, fetched.CategoryID)
	require.NotNil(t, fetched.Category)
	assert.Equal(t, "Shirts", fetched.Category.Name)
}

// Feature: product catalog, Create then GetOne returns the same children and scalars
func TestProperty_CreateGetOneRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("child counts and scalars survive a round trip", prop.ForAll(
		func(name string, images, prices, warehouses int, topseller bool) bool {
			svc, _, category := setupProductService(t)
			ctx := context.Background()

			input := productInput(category.ID, images, prices, warehouses)
			input.Name = name
			input.IsTopseller = &topseller
			createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
			input.CreatedAt = &createdAt

			created, err := svc.Create(ctx, input)
			if err != nil {
				t.Logf("FAIL: Create failed: %v", err)
				return false
			}

			fetched, err := svc.GetOne(ctx, created.ID)
			if err != nil {
				t.Logf("FAIL: GetOne failed: %v", err)
				return false
			}

			if len(fetched.Images) != images || len(fetched.Prices) != prices || len(fetched.Warehouses) != warehouses {
				t.Logf("FAIL: Expected %d/%d/%d children, got %d/%d/%d", images, prices, warehouses,
					len(fetched.Images), len(fetched.Prices), len(fetched.Warehouses))
				return false
			}
			if fetched.Name != name || fetched.IsTopseller != topseller || !fetched.CreatedAt.Equal(createdAt) {
				t.Logf("FAIL: Scalars changed: %+v", fetched)
				return false
			}
			for i, img := range fetched.Images {
				if img.ImageURL != input.Images[i].ImageURL {
					t.Logf("FAIL: Image %d changed", i)
					return false
				}
			}
			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,20}`),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
		gen.IntRange(0, 5),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: product catalog, Update replaces children instead of merging them
func TestProperty_UpdateReplacesChildren(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("after update only the supplied children remain", prop.ForAll(
		func(before, after int) bool {
			svc, _, category := setupProductService(t)
			ctx := context.Background()

			created, err := svc.Create(ctx, productInput(category.ID, before, before, before))
			if err != nil {
				t.Logf("FAIL: Create failed: %v", err)
				return false
			}

			if _, err := svc.Update(ctx, created.ID, productInput(category.ID, after, after, after)); err != nil {
				t.Logf("FAIL: Update failed: %v", err)
				return false
			}

			fetched, err := svc.GetOne(ctx, created.ID)
			if err != nil {
				t.Logf("FAIL: GetOne failed: %v", err)
				return false
			}
			if len(fetched.Images) != after || len(fetched.Prices) != after || len(fetched.Warehouses) != after {
				t.Logf("FAIL: Expected %d of each child, got %d/%d/%d", after,
					len(fetched.Images), len(fetched.Prices), len(fetched.Warehouses))
				return false
			}
			for _, img := range fetched.Images {
				for _, old := range created.Images {
					if img.ID == old.ID {
						t.Logf("FAIL: Child identity %s reused", img.ID)
						return false
					}
				}
			}
			return true
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProductService_UpdateKeepsCreatedAtWhenOmitted(t *testing.T) {
	svc, _, category := setupProductService(t)
	ctx := context.Background()

	createdAt := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	input := productInput(category.ID, 1, 0, 0)
	input.CreatedAt = &createdAt
	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	topseller := true
	update := productInput(category.ID, 0, 0, 0)
	update.Name = "Renamed"
	update.IsTopseller = &topseller
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.IsTopseller)
	assert.True(t, updated.CreatedAt.Equal(createdAt))
	assert.Empty(t, updated.Images)
}

func TestProductService_CreateReturnsStoredPrecision(t *testing.T) {
	svc, _, category := setupProductService(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.FixedZone("CET", 3600))
	input := productInput(category.ID, 1, 0, 0)
	input.Prices = []domain.PriceInput{{
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("9.999")),
		Discount:  decimal.NewNullDecimal(decimal.RequireFromString("0.125")),
		StartDate: &start,
	}}

	created, err := svc.Create(ctx, input)
	require.NoError(t, err)

	assert.Zero(t, created.CreatedAt.Nanosecond()%1000)
	assert.Equal(t, time.UTC, created.CreatedAt.Location())
	require.Len(t, created.Prices, 1)
	assert.Equal(t, "10", created.Prices[0].Price.Decimal.String())
	assert.Equal(t, "0.13", created.Prices[0].Discount.Decimal.String())
	assert.False(t, created.Prices[0].DiscountPrice.Valid)
	require.NotNil(t, created.Prices[0].StartDate)
	assert.Equal(t, start.UTC().Truncate(time.Microsecond), *created.Prices[0].StartDate)

	fetched, err := svc.GetOne(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ProductSummary, fetched.ProductSummary)
}

func TestProductService_UnknownID(t *testing.T) {
	svc, store, category := setupProductService(t)
	ctx := context.Background()
	unknown := uuid.New()

	_, err := svc.GetOne(ctx, unknown)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = svc.Update(ctx, unknown, productInput(category.ID, 1, 1, 1))
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	deleted, err := svc.Delete(ctx, unknown)
	assert.NoError(t, err)
	assert.False(t, deleted)

	products, err := store.Products().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductService_DeleteRemovesProduct(t *testing.T) {
	svc, _, category := setupProductService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, productInput(category.ID, 2, 1, 1))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.GetOne(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestProductService_GetAll(t *testing.T) {
	svc, store, category := setupProductService(t)
	ctx := context.Background()

	empty := svc.GetAll(ctx)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err := svc.Create(ctx, productInput(category.ID, 2, 1, 1))
	require.NoError(t, err)

	all := svc.GetAll(ctx)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Images, 2)
	assert.Len(t, all[0].Prices, 1)

	store.Err = errors.New("connection refused")
	degraded := svc.GetAll(ctx)
	assert.NotNil(t, degraded)
	assert.Empty(t, degraded)
}

func TestProductService_Validation(t *testing.T) {
	svc, _, category := setupProductService(t)
	ctx := context.Background()

	cases := map[string]func(*domain.ProductInput){
		"missing name":        func(in *domain.ProductInput) { in.Name = " " },
		"missing description": func(in *domain.ProductInput) { in.ShortDescription = "" },
		"missing category":    func(in *domain.ProductInput) { in.CategoryID = uuid.Nil },
		"unknown category":    func(in *domain.ProductInput) { in.CategoryID = uuid.New() },
		"empty image url":     func(in *domain.ProductInput) { in.Images = []domain.ImageInput{{}} },
		"negative stock":      func(in *domain.ProductInput) { in.Warehouses = []domain.WarehouseInput{{CurrentStock: -1}} },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := productInput(category.ID, 1, 1, 1)
			mutate(&input)
			_, err := svc.Create(ctx, input)
			assert.ErrorIs(t, err, ErrInvalidProduct)
		})
	}
}

func TestProductService_NewArrivals(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	category, err := store.Categories().GetOrCreate(ctx, &domain.Category{ID: uuid.New(), Name: "Hats"})
	require.NoError(t, err)

	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	svc := NewProductService(store.Products(), store.Categories(), 14*24*time.Hour, zap.NewNop())
	svc.(*productService).now = func() time.Time { return now }

	early := now.AddDate(0, -1, 0)
	late := now.AddDate(0, 0, -1)
	fresh := productInput(category.ID, 2, 0, 0)
	fresh.Name = "Fresh"
	freshAt := now.AddDate(0, 0, -3)
	fresh.CreatedAt = &freshAt
	fresh.Prices = []domain.PriceInput{
		{Price: decimal.NewNullDecimal(decimal.NewFromInt(20)), StartDate: &late},
		{Price: decimal.NewNullDecimal(decimal.NewFromInt(30)), StartDate: &early},
		{Price: decimal.NewNullDecimal(decimal.NewFromInt(40))},
	}

	stale := productInput(category.ID, 1, 1, 0)
	stale.Name = "Stale"
	staleAt := now.AddDate(0, 0, -30)
	stale.CreatedAt = &staleAt

	bare := productInput(category.ID, 0, 0, 0)
	bare.Name = "Bare"
	bare.CreatedAt = &now

	for _, in := range []domain.ProductInput{fresh, stale, bare} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	arrivals, err := svc.NewArrivals(ctx)
	require.NoError(t, err)
	require.Len(t, arrivals, 2)

	assert.Equal(t, "Bare", arrivals[0].Name)
	assert.False(t, arrivals[0].Price.Valid)
	assert.Nil(t, arrivals[0].ImageURL)

	assert.Equal(t, "Fresh", arrivals[1].Name)
	assert.True(t, arrivals[1].Price.Decimal.Equal(decimal.NewFromInt(20)))
	require.NotNil(t, arrivals[1].ImageURL)
	assert.Equal(t, "http://image1.com", *arrivals[1].ImageURL)
}
