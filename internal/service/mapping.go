package service

import (
	"time"

	"product-provider/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stored precision of TIMESTAMP and DECIMAL(18,2) columns. Aggregates are
// normalized to it before writing so a write returns what a read would.
const (
	timePrecision  = time.Microsecond
	amountDecimals = 2
)

func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(timePrecision)
}

func storedTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	stored := storedTime(*t)
	return &stored
}

func storedAmount(d decimal.NullDecimal) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(amountDecimals))
}

// buildProduct turns caller input into a new aggregate version. Every child
// gets a fresh identity even on update. A zero createdAt is left for the
// store to fill in.
func buildProduct(id uuid.UUID, createdAt time.Time, input domain.ProductInput) *domain.Product {
	product := &domain.Product{
		ID:               id,
		Name:             input.Name,
		ShortDescription: input.ShortDescription,
		LongDescription:  input.LongDescription,
		CategoryID:       input.CategoryID,
		CreatedAt:        storedTime(createdAt),
		Images:           make([]domain.Image, 0, len(input.Images)),
		Prices:           make([]domain.Price, 0, len(input.Prices)),
		Warehouses:       make([]domain.WarehouseVariant, 0, len(input.Warehouses)),
	}
	if input.IsTopseller != nil {
		product.IsTopseller = *input.IsTopseller
	}

	for _, image := range input.Images {
		product.Images = append(product.Images, domain.Image{
			ID:        uuid.New(),
			ProductID: id,
			ImageURL:  image.ImageURL,
		})
	}

	for _, price := range input.Prices {
		product.Prices = append(product.Prices, domain.Price{
			ID:            uuid.New(),
			ProductID:     id,
			Price:         storedAmount(price.Price),
			Discount:      storedAmount(price.Discount),
			DiscountPrice: storedAmount(price.DiscountPrice),
			StartDate:     storedTimePtr(price.StartDate),
			EndDate:       storedTimePtr(price.EndDate),
			IsActive:      price.IsActive,
		})
	}

	for _, warehouse := range input.Warehouses {
		product.Warehouses = append(product.Warehouses, domain.WarehouseVariant{
			UniqueProductID: uuid.New(),
			ProductID:       id,
			ColorID:         warehouse.ColorID,
			SizeID:          warehouse.SizeID,
			CurrentStock:    warehouse.CurrentStock,
		})
	}

	return product
}

// toListView projects a product for listings: images and prices only
func toListView(p *domain.Product) domain.ProductSummary {
	view := domain.ProductSummary{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		CategoryID:       p.CategoryID,
		CreatedAt:        p.CreatedAt,
		IsTopseller:      p.IsTopseller,
		Images:           make([]domain.ImageView, 0, len(p.Images)),
		Prices:           make([]domain.PriceView, 0, len(p.Prices)),
	}

	for _, image := range p.Images {
		view.Images = append(view.Images, domain.ImageView{ID: image.ID, ImageURL: image.ImageURL})
	}
	for _, price := range p.Prices {
		view.Prices = append(view.Prices, domain.PriceView{
			ID:            price.ID,
			Price:         price.Price,
			Discount:      price.Discount,
			DiscountPrice: price.DiscountPrice,
			StartDate:     price.StartDate,
			EndDate:       price.EndDate,
			IsActive:      price.IsActive,
		})
	}

	return view
}

// toDetailView projects the fully loaded aggregate. The category id is
// taken from the loaded category and is zero when it is missing.
func toDetailView(p *domain.Product) domain.ProductView {
	view := domain.ProductView{ProductSummary: toListView(p)}
	view.Warehouses = append([]domain.WarehouseVariant{}, p.Warehouses...)
	view.Reviews = append([]domain.Review{}, p.Reviews...)
	view.Category = p.Category
	view.CategoryID = uuid.Nil
	if p.Category != nil {
		view.CategoryID = p.Category.ID
	}
	return view
}

// toCreatedView projects an aggregate that was just written
func toCreatedView(p *domain.Product) domain.ProductView {
	return domain.ProductView{
		ProductSummary: toListView(p),
		Warehouses:     append([]domain.WarehouseVariant{}, p.Warehouses...),
		Reviews:        []domain.Review{},
	}
}

// toNewArrival uses the price with the latest start date and the first image
func toNewArrival(p *domain.Product) domain.NewArrival {
	arrival := domain.NewArrival{
		ID:               p.ID,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
	}

	if latest := latestPrice(p.Prices); latest != nil {
		arrival.Price = latest.Price
		arrival.DiscountPrice = latest.DiscountPrice
	}
	if len(p.Images) > 0 {
		url := p.Images[0].ImageURL
		arrival.ImageURL = &url
	}

	return arrival
}

// latestPrice treats a missing start date as older than any set one
func latestPrice(prices []domain.Price) *domain.Price {
	var latest *domain.Price
	for i := range prices {
		candidate := &prices[i]
		switch {
		case latest == nil:
			latest = candidate
		case candidate.StartDate == nil:
		case latest.StartDate == nil || candidate.StartDate.After(*latest.StartDate):
			latest = candidate
		}
	}
	return latest
}
