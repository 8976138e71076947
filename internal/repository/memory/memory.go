// Package memory provides in-process implementations of the repository
// interfaces for service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"product-provider/internal/domain"
	"product-provider/internal/repository"

	"github.com/google/uuid"
)

// Store holds every table in memory. Setting Err makes every call fail with it.
type Store struct {
	mu         sync.Mutex
	Err        error
	products   map[uuid.UUID]*domain.Product
	categories map[uuid.UUID]*domain.Category
	reviews    map[uuid.UUID]*domain.Review
	colors     map[uuid.UUID]*domain.Color
	sizes      map[uuid.UUID]*domain.Size
	order      []uuid.UUID
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		products:   make(map[uuid.UUID]*domain.Product),
		categories: make(map[uuid.UUID]*domain.Category),
		reviews:    make(map[uuid.UUID]*domain.Review),
		colors:     make(map[uuid.UUID]*domain.Color),
		sizes:      make(map[uuid.UUID]*domain.Size),
	}
}

func (s *Store) Products() repository.ProductRepository { return productRepo{s} }
func (s *Store) Categories() repository.CategoryRepository { return categoryRepo{s} }
func (s *Store) Reviews() repository.ReviewRepository { return reviewRepo{s} }
func (s *Store) Warehouse() repository.WarehouseRepository { return warehouseRepo{s} }

// clone copies the aggregate so callers never share slices with the store
func clone(p *domain.Product) *domain.Product {
	c := *p
	c.Images = append([]domain.Image{}, p.Images...)
	c.Prices = append([]domain.Price{}, p.Prices...)
	c.Warehouses = append([]domain.WarehouseVariant{}, p.Warehouses...)
	c.Reviews = nil
	c.Category = nil
	return &c
}

type productRepo struct{ s *Store }

func (r productRepo) Create(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.products[product.ID] = clone(product)
	r.s.order = append(r.s.order, product.ID)
	return nil
}

func (r productRepo) list(keep func(*domain.Product) bool) ([]*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	products := []*domain.Product{}
	for _, id := range r.s.order {
		p, ok := r.s.products[id]
		if !ok || !keep(p) {
			continue
		}
		c := clone(p)
		c.Warehouses = nil
		products = append(products, c)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (r productRepo) List(ctx context.Context) ([]*domain.Product, error) {
	return r.list(func(*domain.Product) bool { return true })
}

func (r productRepo) ListCreatedSince(ctx context.Context, since time.Time) ([]*domain.Product, error) {
	return r.list(func(p *domain.Product) bool { return !p.CreatedAt.Before(since) })
}

func (r productRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	c := clone(p)
	c.Reviews = []domain.Review{}
	for _, review := range r.s.reviews {
		if review.ProductID == id {
			c.Reviews = append(c.Reviews, *review)
		}
	}
	if category, ok := r.s.categories[p.CategoryID]; ok {
		cat := *category
		c.Category = &cat
	}
	return c, nil
}

func (r productRepo) Update(ctx context.Context, product *domain.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	existing, ok := r.s.products[product.ID]
	if !ok {
		return repository.ErrProductNotFound
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = existing.CreatedAt
	}
	r.s.products[product.ID] = clone(product)
	return nil
}

func (r productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.s.products, id)
	for reviewID, review := range r.s.reviews {
		if review.ProductID == id {
			delete(r.s.reviews, reviewID)
		}
	}
	return nil
}

type categoryRepo struct{ s *Store }

func (r categoryRepo) GetOrCreate(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, existing := range r.s.categories {
		if existing.Name == category.Name {
			c := *existing
			return &c, nil
		}
	}
	c := *category
	r.s.categories[c.ID] = &c
	stored := c
	return &stored, nil
}

func (r categoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	categories := []*domain.Category{}
	for _, c := range r.s.categories {
		copied := *c
		categories = append(categories, &copied)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (r categoryRepo) ListWithProductCount(ctx context.Context) ([]*domain.CategoryProductCount, error) {
	categories, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := []*domain.CategoryProductCount{}
	for _, c := range categories {
		n := 0
		for _, p := range r.s.products {
			if p.CategoryID == c.ID {
				n++
			}
		}
		counts = append(counts, &domain.CategoryProductCount{Icon: c.Icon, CategoryName: c.Name, ProductCount: n})
	}
	return counts, nil
}

func (r categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	c, ok := r.s.categories[id]
	if !ok {
		return nil, repository.ErrCategoryNotFound
	}
	copied := *c
	return &copied, nil
}

type reviewRepo struct{ s *Store }

func (r reviewRepo) Create(ctx context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.products[review.ProductID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *review
	r.s.reviews[review.ID] = &copied
	return nil
}

func (r reviewRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	reviews := []*domain.Review{}
	for _, review := range r.s.reviews {
		if review.ProductID == productID {
			copied := *review
			reviews = append(reviews, &copied)
		}
	}
	return reviews, nil
}

func (r reviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, repository.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (r reviewRepo) Update(ctx context.Context, review *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored, ok := r.s.reviews[review.ID]
	if !ok {
		return repository.ErrReviewNotFound
	}
	stored.Stars = review.Stars
	stored.Text = review.Text
	return nil
}

func (r reviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.reviews[id]; !ok {
		return repository.ErrReviewNotFound
	}
	delete(r.s.reviews, id)
	return nil
}

type warehouseRepo struct{ s *Store }

func sameRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r warehouseRepo) Create(ctx context.Context, variant *domain.WarehouseVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	p, ok := r.s.products[variant.ProductID]
	if !ok {
		return repository.ErrProductNotFound
	}
	for _, existing := range p.Warehouses {
		if sameRef(existing.ColorID, variant.ColorID) && sameRef(existing.SizeID, variant.SizeID) {
			return repository.ErrVariantAlreadyExists
		}
	}
	p.Warehouses = append(p.Warehouses, *variant)
	return nil
}

// locate returns the stored variant with its owning product
func (r warehouseRepo) locate(id uuid.UUID) (*domain.WarehouseVariant, bool) {
	for _, p := range r.s.products {
		for i := range p.Warehouses {
			if p.Warehouses[i].UniqueProductID == id {
				return &p.Warehouses[i], true
			}
		}
	}
	return nil, false
}

func (r warehouseRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.WarehouseVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	variant, ok := r.locate(id)
	if !ok {
		return nil, repository.ErrVariantNotFound
	}
	copied := *variant
	return &copied, nil
}

func (r warehouseRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.WarehouseVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	variants := []*domain.WarehouseVariant{}
	if p, ok := r.s.products[productID]; ok {
		for _, v := range p.Warehouses {
			copied := v
			variants = append(variants, &copied)
		}
	}
	return variants, nil
}

func (r warehouseRepo) List(ctx context.Context) ([]*domain.WarehouseVariant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	variants := []*domain.WarehouseVariant{}
	for _, id := range r.s.order {
		if p, ok := r.s.products[id]; ok {
			for _, v := range p.Warehouses {
				copied := v
				variants = append(variants, &copied)
			}
		}
	}
	return variants, nil
}

func (r warehouseRepo) Update(ctx context.Context, variant *domain.WarehouseVariant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	stored, ok := r.locate(variant.UniqueProductID)
	if !ok {
		return repository.ErrVariantNotFound
	}
	stored.ColorID = variant.ColorID
	stored.SizeID = variant.SizeID
	stored.CurrentStock = variant.CurrentStock
	return nil
}

func (r warehouseRepo) SizesByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Size, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	sizes := []*domain.Size{}
	seen := map[uuid.UUID]bool{}
	if p, ok := r.s.products[productID]; ok {
		for _, v := range p.Warehouses {
			if v.SizeID == nil || seen[*v.SizeID] {
				continue
			}
			if size, ok := r.s.sizes[*v.SizeID]; ok {
				seen[size.ID] = true
				copied := *size
				sizes = append(sizes, &copied)
			}
		}
	}
	return sizes, nil
}

func (r warehouseRepo) ColorsByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Color, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	colors := []*domain.Color{}
	seen := map[uuid.UUID]bool{}
	if p, ok := r.s.products[productID]; ok {
		for _, v := range p.Warehouses {
			if v.ColorID == nil || seen[*v.ColorID] {
				continue
			}
			if color, ok := r.s.colors[*v.ColorID]; ok {
				seen[color.ID] = true
				copied := *color
				colors = append(colors, &copied)
			}
		}
	}
	return colors, nil
}

func (r warehouseRepo) CreateColor(ctx context.Context, color *domain.Color) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	copied := *color
	r.s.colors[color.ID] = &copied
	return nil
}

func (r warehouseRepo) ListColors(ctx context.Context) ([]*domain.Color, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	colors := []*domain.Color{}
	for _, c := range r.s.colors {
		copied := *c
		colors = append(colors, &copied)
	}
	sort.Slice(colors, func(i, j int) bool { return colors[i].Name < colors[j].Name })
	return colors, nil
}

func (r warehouseRepo) CreateSize(ctx context.Context, size *domain.Size) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	copied := *size
	r.s.sizes[size.ID] = &copied
	return nil
}

func (r warehouseRepo) ListSizes(ctx context.Context) ([]*domain.Size, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	sizes := []*domain.Size{}
	for _, sz := range r.s.sizes {
		copied := *sz
		sizes = append(sizes, &copied)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i].Name < sizes[j].Name })
	return sizes, nil
}
