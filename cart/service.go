package cart

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	MsgLoginRequired     = "Please log in before proceeding."
	MsgQuantityUnchanged = "Please change the quantity before updating."
	MsgLoginToViewCart   = "Please log in to view your cart."
)

type Service struct {
	cache *Cache
}

func NewService(cache *Cache) *Service {
	return &Service{cache: cache}
}

func (s *Service) Cache() *Cache {
	return s.cache
}

// Groups fetches the cart, tolerating both snake_case and Go-style keys on
// the group objects
func (s *Service) Groups(ctx context.Context, r apiclient.Requester) ([]Group, error) {
	body, err := r.Raw(ctx, apiclient.Request{Method: http.MethodGet, Path: "/api/cart/items"})
	if err != nil {
		return nil, errors.Wrapf(err, "get cart items")
	}
	items := gjson.GetBytes(body, "data.valid_items")
	if !items.Exists() {
		if gjson.GetBytes(body, "data").Exists() {
			return []Group{}, nil
		}
		return nil, errors.Wrapf(errors.ErrBadEnvelope, "cart items")
	}

	groups := make([]Group, 0, len(items.Array()))
	for _, item := range items.Array() {
		g := Group{
			SellerID:  firstString(item, "seller_id", "SellerID"),
			StoreName: firstString(item, "store_name", "StoreName"),
		}
		products := firstOf(item, "products", "Products")
		if products.Exists() && products.IsArray() {
			if err := json.Unmarshal([]byte(products.Raw), &g.Products); err != nil {
				return nil, errors.Wrapf(errors.ErrBadEnvelope, "cart products: %v", err)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// Sync reloads the cache for store. It does nothing until the session has
// hydrated and is logged in.
func (s *Service) Sync(ctx context.Context, r apiclient.Requester, store *session.Store) error {
	snap := store.Snapshot()
	if !snap.HasHydrated || !snap.IsLoggedIn {
		return nil
	}
	groups, err := s.Groups(ctx, r)
	if err != nil {
		return err
	}
	s.cache.Replace(store.ID(), Quantities(groups))
	return nil
}

// Quantity returns the cached quantity of variantID for store
func (s *Service) Quantity(store *session.Store, variantID string) (int, bool) {
	return s.cache.Quantity(store.ID(), variantID)
}

// Add puts qty of a variant into the cart and records it in the cache
func (s *Service) Add(ctx context.Context, r apiclient.Requester, store *session.Store, productID, variantID string, qty int) error {
	if !store.Snapshot().IsLoggedIn {
		return errors.LoginRequired(MsgLoginRequired)
	}
	if variantID == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "no variant selected")
	}
	qty = max(qty, 1)

	body := map[string]any{
		"product_id":        productID,
		"variant_id":        variantID,
		"required_quantity": qty,
	}
	if err := apiclient.Post(ctx, r, "/api/cart/add", body, nil); err != nil {
		return errors.Wrapf(err, "add to cart")
	}
	s.cache.Set(store.ID(), variantID, qty)
	return nil
}

// Update changes the quantity of a variant already in the cart. An unchanged
// quantity is rejected without calling the API.
func (s *Service) Update(ctx context.Context, r apiclient.Requester, store *session.Store, variantID string, qty int) error {
	if !store.Snapshot().IsLoggedIn {
		return errors.LoginRequired(MsgLoginRequired)
	}
	if variantID == "" {
		return errors.Wrapf(errors.ErrInvalidInput, "no variant selected")
	}
	qty = max(qty, 1)

	if cached, ok := s.cache.Quantity(store.ID(), variantID); ok && cached == qty {
		return errors.Validation(MsgQuantityUnchanged)
	}

	body := map[string]any{
		"variant_id":        variantID,
		"required_quantity": qty,
	}
	if err := apiclient.Put(ctx, r, "/api/cart/update", body, nil); err != nil {
		return errors.Wrapf(err, "update cart")
	}
	s.cache.Set(store.ID(), variantID, qty)
	return nil
}

func firstOf(r gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(r gjson.Result, keys ...string) string {
	for _, k := range keys {
		if v := r.Get(k); v.Type == gjson.String && v.Str != "" {
			return v.Str
		}
	}
	return ""
}
