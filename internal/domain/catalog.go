package domain

import (
	"encoding/json"
	"time"
)

// Category tags a catalog item with its deal source
type Category string

const (
	CategoryTemu    Category = "temu"
	CategoryAmazon  Category = "amazon"
	CategoryDeals   Category = "deals"
	CategoryCoupons Category = "coupons"
)

// Categories lists all valid category values
var Categories = []Category{CategoryTemu, CategoryAmazon, CategoryDeals, CategoryCoupons}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Offer is the purchasable payload of a catalog item. Items without an
// offer are plain articles; the detail view routes on this distinction.
type Offer struct {
	SellPrice float64 `json:"sell_price"`
	ListPrice float64 `json:"list_price,omitempty"`
}

// CatalogItem represents a single deal in the catalog, either an
// informational article or a purchasable product
type CatalogItem struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	LongDescription string    `json:"long_description"`
	ImageRef        string    `json:"image_ref"`
	Category        Category  `json:"category"`
	CreatedAt       time.Time `json:"created_at"`
	ViewCount       int64     `json:"view_count"`
	Featured        bool      `json:"featured"`
	AffiliateURL    string    `json:"affiliate_url,omitempty"`
	CouponCode      string    `json:"coupon_code,omitempty"`
	Offer           *Offer    `json:"offer,omitempty"`
}

// MarshalJSON adds the derived display fields to the item payload so
// the storefront never recomputes pricing rules
func (i CatalogItem) MarshalJSON() ([]byte, error) {
	type plain CatalogItem
	return json.Marshal(struct {
		plain
		IsProduct       bool `json:"is_product"`
		DiscountPercent int  `json:"discount_percent,omitempty"`
	}{
		plain:           plain(i),
		IsProduct:       i.IsProduct(),
		DiscountPercent: i.DiscountPercent(),
	})
}

// IsProduct reports whether the item carries a purchasable offer
func (i *CatalogItem) IsProduct() bool {
	return i.Offer != nil
}

// Price returns the current sell price, or 0 for items without an offer
func (i *CatalogItem) Price() float64 {
	if i.Offer == nil {
		return 0
	}
	return i.Offer.SellPrice
}

// DiscountPercent returns the discount against the list price, rounded
// down to a whole percent. Returns 0 when no meaningful discount can be
// displayed (no offer, no list price, or list price below sell price).
func (i *CatalogItem) DiscountPercent() int {
	if i.Offer == nil || i.Offer.ListPrice <= 0 || i.Offer.ListPrice < i.Offer.SellPrice {
		return 0
	}
	return int((i.Offer.ListPrice - i.Offer.SellPrice) / i.Offer.ListPrice * 100)
}
