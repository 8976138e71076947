package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductInput is the caller-supplied shape for Create and Update.
// On Update the child lists replace the stored ones entirely, so callers
// must resend unchanged children or they are removed.
type ProductInput struct {
	Name             string           `json:"name" validate:"required"`
	ShortDescription string           `json:"shortDescription" validate:"required"`
	LongDescription  *string          `json:"longDescription"`
	CategoryID       uuid.UUID        `json:"categoryId" validate:"required"`
	CreatedAt        *time.Time       `json:"createdAt"`
	IsTopseller      *bool            `json:"isTopseller"`
	Images           []ImageInput     `json:"images" validate:"dive"`
	Prices           []PriceInput     `json:"prices" validate:"dive"`
	Warehouses       []WarehouseInput `json:"warehouses" validate:"dive"`
}

type ImageInput struct {
	ImageURL string `json:"imageUrl" validate:"required"`
}

type PriceInput struct {
	Price         decimal.NullDecimal `json:"price"`
	Discount      decimal.NullDecimal `json:"discount"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	StartDate     *time.Time          `json:"startDate"`
	EndDate       *time.Time          `json:"endDate"`
	IsActive      bool                `json:"isActive"`
}

type WarehouseInput struct {
	ColorID      *uuid.UUID `json:"colorId"`
	SizeID       *uuid.UUID `json:"sizeId"`
	CurrentStock int        `json:"currentStock" validate:"gte=0"`
}

// ProductSummary is the listing projection: scalars, images and prices
type ProductSummary struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	ShortDescription string      `json:"shortDescription"`
	LongDescription  *string     `json:"longDescription"`
	CategoryID       uuid.UUID   `json:"categoryId"`
	CreatedAt        time.Time   `json:"createdAt"`
	IsTopseller      bool        `json:"isTopseller"`
	Images           []ImageView `json:"images"`
	Prices           []PriceView `json:"prices"`
}

// ProductView is the projection of a single product returned by Create,
// Update and GetOne. Category is only set when the product was read back.
type ProductView struct {
	ProductSummary
	Warehouses []WarehouseVariant `json:"warehouses"`
	Reviews    []Review           `json:"reviews"`
	Category   *Category          `json:"category,omitempty"`
}

type ImageView struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"imageUrl"`
}

type PriceView struct {
	ID            uuid.UUID           `json:"id"`
	Price         decimal.NullDecimal `json:"price"`
	Discount      decimal.NullDecimal `json:"discount"`
	DiscountPrice decimal.NullDecimal `json:"discountPrice"`
	StartDate     *time.Time          `json:"startDate"`
	EndDate       *time.Time          `json:"endDate"`
	IsActive      bool                `json:"isActive"`
}

// NewArrival is the teaser projection of a recently created product
type NewArrival struct {
	ID               uuid.UUID           `json:"id"`
	Name             string              `json:"name"`
	ShortDescription string              `json:"shortDescription"`
	Price            decimal.NullDecimal `json:"price"`
	DiscountPrice    decimal.NullDecimal `json:"discountPrice"`
	ImageURL         *string             `json:"imageUrl"`
}
