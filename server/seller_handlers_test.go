package server_test

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/seller"
)

var categoryTree = []map[string]any{
	{"id": "c1", "name": "Clothing", "level": 0, "children": []map[string]any{
		{"id": "c2", "name": "Men", "level": 1, "children": []map[string]any{
			{"id": "c3", "name": "Panjabi", "level": 2, "is_leaf": true},
		}},
	}},
}

func TestSellerProfile(t *testing.T) {
	h := newHarness(t, true)
	h.api.JSON("POST /api/seller/profile/metadata", http.StatusOK, `{"message":"Profile submitted for review"}`)
	store := h.customer()

	rec := h.post("/seller/profile", store, url.Values{"store_name": {"Dhaka Threads"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), seller.MsgProfileIncomplete)
	require.Contains(t, rec.Body.String(), `value="Dhaka Threads"`)
	require.Empty(t, h.api.CallsTo(http.MethodPost, "/api/seller/profile/metadata"))

	rec = h.post("/seller/profile", store, url.Values{
		"store_name":          {"Dhaka Threads"},
		"contact_no":          {"01700000000"},
		"whatsapp_contact_no": {"01700000000"},
		"email":               {"shop@example.com"},
		"physical_location":   {"Gulshan, Dhaka"},
	})
	require.Equal(t, "Profile submitted for review", location(t, rec).Query().Get("notice"))

	calls := h.api.CallsTo(http.MethodPost, "/api/seller/profile/metadata")
	require.Len(t, calls, 1)
	require.Equal(t, "Dhaka Threads", calls[0].Body["seller_store_name"])
}

func TestSellerDashboard(t *testing.T) {
	h := newHarness(t, true)
	h.api.Data("GET /api/seller/products", map[string]any{"valid_non_approved_products": []map[string]any{
		{"product_id": "sp1", "title": "Silk Saree", "category_name": "Saree"},
	}})

	rec := h.get("/seller/dashboard", h.seller())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Silk Saree")
	require.Contains(t, rec.Body.String(), "/seller/products/edit/sp1")
}

func TestDraftFlow(t *testing.T) {
	h := newHarness(t, true)
	h.api.Data("GET /api/categories/tree", categoryTree)
	h.api.Handle("POST /api/media/presign-upload", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"upload_url":"`+h.api.URL+`/storage/front.jpg","media_url":"https://cdn.test/front.jpg"}}`)
	})
	h.api.Handle("PUT /storage/front.jpg", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h.api.Data("POST /api/seller/products", map[string]any{"id": "new-1"})
	store := h.seller()

	// Submitting an empty draft fails on the category first
	rec := h.post("/seller/products/new/submit", store, url.Values{"title": {"Panjabi"}})
	require.Equal(t, seller.MsgLeafCategory, location(t, rec).Query().Get("error"))

	for level, id := range []string{"c1", "c2", "c3"} {
		rec := h.post("/seller/products/new/category", store, url.Values{"level": {strconv.Itoa(level)}, "category_id": {id}})
		require.Equal(t, "/seller/products/new", location(t, rec).Path)
	}

	rec = h.post("/seller/products/new/submit", store, url.Values{})
	require.Equal(t, seller.MsgImageRequired, location(t, rec).Query().Get("error"))

	rec = h.upload("/seller/products/new/images", store, "images", "front.jpg", []byte("jpeg bytes"))
	require.Equal(t, "/seller/products/new", location(t, rec).Path)
	require.Len(t, h.api.CallsTo(http.MethodPut, "/storage/front.jpg"), 1)
	require.Empty(t, h.api.CallsTo(http.MethodPut, "/storage/front.jpg")[0].Header.Get("Authorization"))

	rec = h.post("/seller/products/new/submit", store, url.Values{})
	require.Equal(t, seller.MsgVariantRequired, location(t, rec).Query().Get("error"))

	location(t, h.post("/seller/products/new/variants", store, url.Values{}))
	location(t, h.post("/seller/products/new/variants/0", store, url.Values{
		"color": {"White"}, "size": {"L"}, "retail_price": {"1800"}, "in_stock": {"on"}, "stock_quantity": {"5"},
	}))

	page := h.get("/seller/products/new", store)
	require.Equal(t, http.StatusOK, page.Code)
	require.Contains(t, page.Body.String(), "Clothing › Men › Panjabi")
	require.Contains(t, page.Body.String(), "https://cdn.test/front.jpg")

	rec = h.post("/seller/products/new/submit", store, url.Values{"title": {"White Panjabi"}, "description": {"Cotton"}})
	u := location(t, rec)
	require.Equal(t, "/seller/products/view/new-1", u.Path)

	created := h.api.CallsTo(http.MethodPost, "/api/seller/products")
	require.Len(t, created, 1)
	body := created[0].Body
	require.Equal(t, "c3", body["category_id"])
	require.Equal(t, "White Panjabi", body["title"])
	require.Equal(t, []any{"https://cdn.test/front.jpg"}, body["image_urls"])
	require.NotContains(t, body, "promo_video_url")
	variants := body["variants"].([]any)
	require.Len(t, variants, 1)
	require.NotContains(t, variants[0], "retail_discount")

	t.Run("draft is discarded after creation", func(t *testing.T) {
		page := h.get("/seller/products/new", store)
		require.NotContains(t, page.Body.String(), "https://cdn.test/front.jpg")
	})
}
