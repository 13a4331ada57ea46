// Package seller covers the seller console: profile metadata, the product
// dashboard, product creation drafts and edits to existing products.
package seller

// MediaItem is an image or promo video attached to a product
type MediaItem struct {
	MediaID    string `json:"media_id"`
	MediaType  string `json:"media_type"`
	MediaURL   string `json:"media_url"`
	IsPrimary  bool   `json:"is_primary"`
	IsArchived bool   `json:"is_archived"`
}

type Variant struct {
	VariantID             string  `json:"variant_id"`
	Color                 string  `json:"color"`
	Size                  string  `json:"size"`
	RetailPrice           float64 `json:"retail_price"`
	HasRetailDiscount     bool    `json:"has_retail_discount"`
	RetailDiscount        float64 `json:"retail_discount"`
	RetailDiscountType    string  `json:"retail_discount_type"`
	IsInStock             bool    `json:"is_in_stock"`
	StockQuantity         int     `json:"stock_quantity"`
	HasWholesaleEnabled   bool    `json:"has_wholesale_enabled"`
	WholesalePrice        float64 `json:"wholesale_price"`
	WholesaleMinQuantity  int     `json:"wholesale_min_quantity"`
	WholesaleDiscount     float64 `json:"wholesale_discount"`
	WholesaleDiscountType string  `json:"wholesale_discount_type"`
	WeightGrams           int     `json:"weight_grams"`
	IsVariantArchived     bool    `json:"is_variant_archived"`
}

// Product is a listing as seen by its seller
type Product struct {
	ProductID        string      `json:"product_id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	CategoryID       string      `json:"category_id"`
	CategoryName     string      `json:"category_name"`
	ImageURLs        []string    `json:"image_urls"`
	PromoVideoURL    string      `json:"promo_video_url,omitempty"`
	PrimaryImageURL  string      `json:"primary_image_url"`
	ValidVariants    []Variant   `json:"valid_variants"`
	ArchivedVariants []Variant   `json:"archived_variants"`
	ImageMediaItems  []MediaItem `json:"image_media_items"`
	PromoVideoItem   *MediaItem  `json:"promo_video_item"`
}

// ActiveImages returns image media that has not been archived
func (p Product) ActiveImages() []MediaItem {
	out := make([]MediaItem, 0, len(p.ImageMediaItems))
	for _, m := range p.ImageMediaItems {
		if !m.IsArchived {
			out = append(out, m)
		}
	}
	return out
}

// Cover picks the image shown on dashboard cards
func (p Product) Cover() string {
	if p.PrimaryImageURL != "" {
		return p.PrimaryImageURL
	}
	for _, m := range p.ImageMediaItems {
		if m.IsPrimary && !m.IsArchived {
			return m.MediaURL
		}
	}
	if len(p.ImageURLs) > 0 {
		return p.ImageURLs[0]
	}
	return ""
}

// Profile is the seller metadata submitted to become a seller
type Profile struct {
	StoreName         string `json:"seller_store_name"`
	ContactNo         string `json:"seller_contact_no"`
	WhatsappContactNo string `json:"seller_whatsapp_contact_no"`
	WebsiteLink       string `json:"seller_website_link"`
	FacebookPageName  string `json:"seller_facebook_page_name"`
	Email             string `json:"seller_email"`
	PhysicalLocation  string `json:"seller_physical_location"`
}
