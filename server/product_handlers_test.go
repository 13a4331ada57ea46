package server_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/cart"
)

var shirt = map[string]any{
	"product_id":        "p1",
	"title":             "Cotton Panjabi",
	"seller_store_name": "Dhaka Threads",
	"images":            []string{"https://cdn.test/p1.jpg"},
	"variants": []map[string]any{
		{"variant_id": "v1", "color": "Red", "size": "M", "in_stock": true, "stock_amount": 4, "retail_price": 1500},
		{"variant_id": "v2", "color": "Red", "size": "L", "in_stock": true, "stock_amount": 2, "retail_price": 1600},
		{"variant_id": "v3", "color": "Blue", "size": "M", "in_stock": false, "retail_price": 1500},
	},
}

func TestProductPage(t *testing.T) {
	h := newHarness(t, true)
	h.api.Data("GET /api/products/p1", shirt)
	h.api.Data("GET /api/products/p1/reviews", map[string]any{"items": []map[string]any{
		{"review_id": "r1", "reviewer_user_id": "u1", "review_text": "Lovely fabric"},
		{"review_id": "r2", "reviewer_user_id": "u2", "review_text": "Runs small"},
	}})
	h.api.JSON("GET /api/cart/items", http.StatusOK, `{"data":{"valid_items":[{"seller_id":"s1","products":[
		{"product_id":"p1","variants":[{"variant_id":"v1","quantity_in_cart":3}]}]}]}}`)

	t.Run("variant in cart offers update", func(t *testing.T) {
		rec := h.get("/products/p1?color=Red&size=M", h.customer())
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "Cotton Panjabi")
		require.Contains(t, body, "Update cart")
		require.Contains(t, body, `value="3"`)
		require.Contains(t, body, "Lovely fabric")
		// Only the visitor's own review can be edited
		require.Contains(t, body, "/reviews/r1/edit")
		require.NotContains(t, body, "/reviews/r2/edit")
		require.Len(t, h.api.CallsTo(http.MethodGet, "/api/cart/items"), 1)
	})

	t.Run("incomplete selection shows no cart form", func(t *testing.T) {
		rec := h.get("/products/p1?color=Blue", h.customer())
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Choose a color and size")
	})

	t.Run("logged out visitor skips the cart fetch", func(t *testing.T) {
		before := len(h.api.CallsTo(http.MethodGet, "/api/cart/items"))
		rec := h.get("/products/p1?color=Red&size=L", h.sessions.New())
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Add to cart")
		require.Len(t, h.api.CallsTo(http.MethodGet, "/api/cart/items"), before)
	})
}

func TestProductPage_NotFound(t *testing.T) {
	h := newHarness(t, true)
	h.api.JSON("GET /api/products/missing", http.StatusNotFound, `{"message":"not found"}`)

	rec := h.get("/products/missing", h.sessions.New())
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Product not found or unavailable")
}

func TestCartActions(t *testing.T) {
	h := newHarness(t, true)
	h.api.Data("POST /api/cart/add", map[string]any{})
	h.api.Data("PUT /api/cart/update", map[string]any{})
	store := h.customer()

	back := "/products/p1?color=Red&size=M"
	rec := h.post("/products/p1/cart/add", store, url.Values{"variant_id": {"v1"}, "quantity": {"2"}, "return": {back}})
	u := location(t, rec)
	require.Equal(t, "/products/p1", u.Path)
	require.Equal(t, "Red", u.Query().Get("color"))
	require.Equal(t, "Added to cart.", u.Query().Get("notice"))

	add := h.api.CallsTo(http.MethodPost, "/api/cart/add")
	require.Len(t, add, 1)
	require.Equal(t, "p1", add[0].Body["product_id"])
	require.EqualValues(t, 2, add[0].Body["required_quantity"])

	t.Run("unchanged quantity is rejected locally", func(t *testing.T) {
		rec := h.post("/products/p1/cart/update", store, url.Values{"variant_id": {"v1"}, "quantity": {"2"}})
		require.Equal(t, cart.MsgQuantityUnchanged, location(t, rec).Query().Get("error"))
		require.Empty(t, h.api.CallsTo(http.MethodPut, "/api/cart/update"))
	})

	t.Run("return to another product is ignored", func(t *testing.T) {
		rec := h.post("/products/p1/cart/update", store, url.Values{"variant_id": {"v1"}, "quantity": {"5"}, "return": {"/products/p2"}})
		require.Equal(t, "/products/p1", location(t, rec).Path)
		require.Len(t, h.api.CallsTo(http.MethodPut, "/api/cart/update"), 1)
	})
}

func TestReviewActions(t *testing.T) {
	h := newHarness(t, true)
	h.api.Data("POST /api/products/p1/reviews", map[string]any{})
	h.api.Data("GET /api/products/p1/reviews", map[string]any{"items": []any{}})

	rec := h.post("/products/p1/reviews", h.sessions.New(), url.Values{"review_text": {"Great"}})
	require.Equal(t, "Please log in to submit a review.", location(t, rec).Query().Get("error"))

	rec = h.post("/products/p1/reviews", h.customer(), url.Values{"review_text": {"Great"}})
	require.Equal(t, "Review submitted.", location(t, rec).Query().Get("notice"))
	require.Len(t, h.api.CallsTo(http.MethodPost, "/api/products/p1/reviews"), 1)
}
