package seller

import (
	"github.com/jrsteele09/go-storefront/internal/utils"
)

// Discount types accepted by the API
const (
	DiscountFlat       = "flat"
	DiscountPercentage = "percentage"
)

// VariantInput is one variant row of the create form
type VariantInput struct {
	Color         string
	Size          string
	RetailPrice   float64
	InStock       bool
	StockQuantity int
	WeightGrams   int

	EnableRetailDiscount bool
	RetailDiscount       float64
	RetailDiscountType   string

	EnableWholesale bool
	WholesalePrice  float64
	MinQtyWholesale int

	EnableWholesaleDiscount bool
	WholesaleDiscount       float64
	WholesaleDiscountType   string
}

// NewVariantInput returns the defaults of a freshly added row
func NewVariantInput() VariantInput {
	return VariantInput{InStock: true}
}

type variantPayload struct {
	Color                 string   `json:"color"`
	Size                  string   `json:"size"`
	RetailPrice           float64  `json:"retail_price"`
	InStock               bool     `json:"in_stock"`
	StockQuantity         int      `json:"stock_quantity"`
	WeightGrams           int      `json:"weight_grams"`
	RetailDiscount        *float64 `json:"retail_discount,omitempty"`
	RetailDiscountType    *string  `json:"retail_discount_type,omitempty"`
	WholesalePrice        *float64 `json:"wholesale_price,omitempty"`
	MinQtyWholesale       *int     `json:"min_qty_wholesale,omitempty"`
	WholesaleDiscount     *float64 `json:"wholesale_discount,omitempty"`
	WholesaleDiscountType *string  `json:"wholesale_discount_type,omitempty"`
}

// payload drops the optional fields whose toggle is off. Wholesale discount
// needs both wholesale and its own toggle.
func (v VariantInput) payload() variantPayload {
	wholesaleDiscount := v.EnableWholesale && v.EnableWholesaleDiscount
	return variantPayload{
		Color:                 v.Color,
		Size:                  v.Size,
		RetailPrice:           v.RetailPrice,
		InStock:               v.InStock,
		StockQuantity:         v.StockQuantity,
		WeightGrams:           v.WeightGrams,
		RetailDiscount:        utils.PtrIf(v.EnableRetailDiscount, v.RetailDiscount),
		RetailDiscountType:    utils.PtrIf(v.EnableRetailDiscount, discountType(v.RetailDiscountType)),
		WholesalePrice:        utils.PtrIf(v.EnableWholesale, v.WholesalePrice),
		MinQtyWholesale:       utils.PtrIf(v.EnableWholesale, v.MinQtyWholesale),
		WholesaleDiscount:     utils.PtrIf(wholesaleDiscount, v.WholesaleDiscount),
		WholesaleDiscountType: utils.PtrIf(wholesaleDiscount, discountType(v.WholesaleDiscountType)),
	}
}

func discountType(t string) string {
	if t == DiscountPercentage {
		return DiscountPercentage
	}
	return DiscountFlat
}
