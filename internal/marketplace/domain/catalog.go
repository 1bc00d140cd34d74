package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	ProductPublished ProductStatus = "Published"
	ProductDraft     ProductStatus = "Draft"
	ProductDisabled  ProductStatus = "Disabled"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPublished, ProductDraft, ProductDisabled:
		return true
	}
	return false
}

type Category struct {
	ID    string
	Title string
	Slug  string
}

// Product is a sellable catalog item. Slug and SKU are assigned once at
// creation; price, regular price and stock stay mutable.
type Product struct {
	ID           string
	VendorID     string
	CategoryID   string
	Name         string
	Description  string
	Price        decimal.Decimal
	RegularPrice decimal.Decimal
	Stock        int
	Shipping     decimal.Decimal
	Status       ProductStatus
	Featured     bool
	SKU          string
	Slug         string
	CreatedAt    time.Time
}

// ProductInput carries the caller-provided product fields.
type ProductInput struct {
	CategoryID   string
	Name         string
	Description  string
	Price        decimal.Decimal
	RegularPrice decimal.Decimal
	Stock        int
	Shipping     decimal.Decimal
	Status       ProductStatus
	Featured     bool
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return NewValidation("product name is required")
	}
	if in.Status != "" && !in.Status.Valid() {
		return NewValidationf("unknown product status %q", in.Status)
	}
	if in.Stock < 0 {
		return NewValidation("stock must not be negative")
	}
	for field, v := range map[string]decimal.Decimal{
		"price":         in.Price,
		"regular_price": in.RegularPrice,
		"shipping":      in.Shipping,
	} {
		if err := validMoney(field, v); err != nil {
			return err
		}
	}
	return nil
}

// ProductFilter narrows ListProducts; zero fields do not filter.
type ProductFilter struct {
	CategoryID string
	VendorID   string
	Status     ProductStatus
	Featured   *bool
}

// SKU prefix and digit count of generated product SKUs.
const (
	SKUPrefix = "DEV"
	SKUDigits = 5
)

// Variant groups selectable options of a product, e.g. "Size" with items
// "S", "M", "L". The variant owns its items.
type Variant struct {
	ID        string
	ProductID string
	Name      string
	Items     []VariantItem
}

type VariantItem struct {
	ID        string
	VariantID string
	Title     string
	Content   string
}

// GalleryCodeDigits is the length of the public gallery image code.
const GalleryCodeDigits = 10

// GalleryImage references an externally stored image.
type GalleryImage struct {
	ID        string
	ProductID string
	Image     string
	Code      string
}
