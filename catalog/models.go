// Package catalog reads products, categories and listings from the
// marketplace API and resolves variant selections.
package catalog

import "github.com/jrsteele09/go-storefront/internal/utils"

// Variant is one purchasable color/size combination of a product
type Variant struct {
	VariantID             string   `json:"variant_id"`
	Color                 string   `json:"color"`
	Size                  string   `json:"size"`
	InStock               bool     `json:"in_stock"`
	StockAmount           int      `json:"stock_amount"`
	RetailPrice           float64  `json:"retail_price"`
	HasRetailDiscount     bool     `json:"has_retail_discount"`
	RetailDiscount        float64  `json:"retail_discount"`
	RetailDiscountType    string   `json:"retail_discount_type"`
	WholesaleEnabled      bool     `json:"wholesale_enabled"`
	WholesalePrice        *float64 `json:"wholesale_price"`
	WholesaleMinQuantity  *int     `json:"wholesale_min_quantity"`
	WholesaleDiscount     *float64 `json:"wholesale_discount"`
	WholesaleDiscountType *string  `json:"wholesale_discount_type"`
	WeightGrams           int      `json:"weight_grams"`
}

// WholesaleUnitPrice is the wholesale price, 0 when wholesale is off or unpriced
func (v Variant) WholesaleUnitPrice() float64 {
	if !v.WholesaleEnabled {
		return 0
	}
	return utils.Value(v.WholesalePrice)
}

// WholesaleMin is the minimum quantity for the wholesale price, 0 when unset
func (v Variant) WholesaleMin() int {
	return utils.Value(v.WholesaleMinQuantity)
}

// Product is the detail view of a listing
type Product struct {
	ProductID       string    `json:"product_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	CategoryID      string    `json:"category_id"`
	CategoryName    string    `json:"category_name"`
	SellerID        string    `json:"seller_id"`
	SellerStoreName string    `json:"seller_store_name"`
	Images          []string  `json:"images"`
	ImageURLs       []string  `json:"image_urls"`
	PromoVideoURL   string    `json:"promo_video_url"`
	Variants        []Variant `json:"variants"`
}

// Gallery returns the product images whichever field the endpoint used
func (p Product) Gallery() []string {
	if len(p.Images) > 0 {
		return p.Images
	}
	return p.ImageURLs
}

// PrimaryImage is the first gallery image or ""
func (p Product) PrimaryImage() string {
	g := p.Gallery()
	if len(g) == 0 {
		return ""
	}
	return g[0]
}

// PriceRange returns the lowest and highest retail price across variants
func (p Product) PriceRange() (float64, float64) {
	if len(p.Variants) == 0 {
		return 0, 0
	}
	lo, hi := p.Variants[0].RetailPrice, p.Variants[0].RetailPrice
	for _, v := range p.Variants[1:] {
		lo = min(lo, v.RetailPrice)
		hi = max(hi, v.RetailPrice)
	}
	return lo, hi
}

// Page is one page of a feed or search listing
type Page struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
	Total    int       `json:"total"`
}

// HasNext reports whether another page likely exists. Without a total from the
// API a full page is taken as a hint that more follow.
func (p Page) HasNext() bool {
	if p.Total > 0 {
		return p.Page*p.PerPage < p.Total
	}
	return p.PerPage > 0 && len(p.Products) >= p.PerPage
}
