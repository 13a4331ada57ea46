// Package cart reads the visitor's cart and keeps a per-session cache of the
// quantity held for each variant.
package cart

// Variant is a cart line
type Variant struct {
	VariantID             string   `json:"variant_id"`
	Color                 string   `json:"color"`
	Size                  string   `json:"size"`
	RetailPrice           float64  `json:"retail_price"`
	HasRetailDiscount     bool     `json:"has_retail_discount"`
	RetailDiscount        float64  `json:"retail_discount"`
	RetailDiscountType    string   `json:"retail_discount_type"`
	HasWholesaleEnabled   bool     `json:"has_wholesale_enabled"`
	WholesalePrice        *float64 `json:"wholesale_price"`
	WholesaleMinQty       *int     `json:"wholesale_min_qty"`
	HasWholesaleDiscount  bool     `json:"has_wholesale_discount"`
	WholesaleDiscount     *float64 `json:"wholesale_discount"`
	WholesaleDiscountType *string  `json:"wholesale_discount_type"`
	WeightGrams           int      `json:"weight_grams"`
	QuantityInCart        int      `json:"quantity_in_cart"`
}

// LineTotal is retail price times quantity, before discounts
func (v Variant) LineTotal() float64 {
	return v.RetailPrice * float64(v.QuantityInCart)
}

type Product struct {
	ProductID           string    `json:"product_id"`
	CategoryName        string    `json:"category_name"`
	ProductTitle        string    `json:"product_title"`
	ProductDescription  string    `json:"product_description"`
	ProductPrimaryImage string    `json:"product_primary_image"`
	Variants            []Variant `json:"variants"`
}

// Group is the part of the cart sold by one seller
type Group struct {
	SellerID  string
	StoreName string
	Products  []Product
}

// Subtotal sums the line totals of the group
func (g Group) Subtotal() float64 {
	var total float64
	for _, p := range g.Products {
		for _, v := range p.Variants {
			total += v.LineTotal()
		}
	}
	return total
}

// Quantities flattens groups to variant id -> quantity
func Quantities(groups []Group) map[string]int {
	out := make(map[string]int)
	for _, g := range groups {
		for _, p := range g.Products {
			for _, v := range p.Variants {
				out[v.VariantID] = v.QuantityInCart
			}
		}
	}
	return out
}
