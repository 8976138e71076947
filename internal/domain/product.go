package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCategoryIcon is used when a category is created without an icon
const DefaultCategoryIcon = `<i class="fa-light fa-bag-shopping"></i>`

// Product is the persisted catalog aggregate root. Images, Prices and
// Warehouses are owned by the product and share its lifetime.
type Product struct {
	ID               uuid.UUID `db:"id"`
	Name             string    `db:"name"`
	ShortDescription string    `db:"short_description"`
	LongDescription  *string   `db:"long_description"`
	CategoryID       uuid.UUID `db:"category_id"`
	CreatedAt        time.Time `db:"created_at"`
	IsTopseller      bool      `db:"is_topseller"`

	Images     []Image            `db:"-"`
	Prices     []Price            `db:"-"`
	Warehouses []WarehouseVariant `db:"-"`

	// Read-only, loaded for single product lookups
	Category *Category `db:"-"`
	Reviews  []Review  `db:"-"`
}

// Image is a product picture
type Image struct {
	ID        uuid.UUID `db:"id"`
	ProductID uuid.UUID `db:"product_id"`
	ImageURL  string    `db:"image_url"`
}

// Price is one scheduled or historical price of a product.
// Ranges of different rows are not checked for overlap.
type Price struct {
	ID            uuid.UUID           `db:"id"`
	ProductID     uuid.UUID           `db:"product_id"`
	Price         decimal.NullDecimal `db:"price"`
	Discount      decimal.NullDecimal `db:"discount"`
	DiscountPrice decimal.NullDecimal `db:"discount_price"`
	StartDate     *time.Time          `db:"start_date"`
	EndDate       *time.Time          `db:"end_date"`
	IsActive      bool                `db:"is_active"`
}

// WarehouseVariant is the stock of one product/color/size combination
type WarehouseVariant struct {
	UniqueProductID uuid.UUID  `json:"uniqueProductId" db:"unique_product_id"`
	ProductID       uuid.UUID  `json:"productId" db:"product_id"`
	ColorID         *uuid.UUID `json:"colorId" db:"color_id"`
	SizeID          *uuid.UUID `json:"sizeId" db:"size_id"`
	CurrentStock    int        `json:"currentStock" db:"current_stock"`
}

// Category groups products
type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Icon string    `json:"icon" db:"icon"`
}

// CategoryProductCount is a category together with the number of products in it
type CategoryProductCount struct {
	Icon         string `json:"icon" db:"icon"`
	CategoryName string `json:"categoryName" db:"category_name"`
	ProductCount int    `json:"productCount" db:"product_count"`
}

// Review is a customer rating of a product
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Stars     int       `json:"stars" db:"stars"`
	Text      string    `json:"text" db:"text"`
}

// Color is a warehouse variant color
type Color struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	HexadecimalColor string    `json:"hexadecimalColor" db:"hexadecimal_color"`
}

// Size is a warehouse variant size
type Size struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}
