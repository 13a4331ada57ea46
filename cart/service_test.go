package cart_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/cart"
	"github.com/jrsteele09/go-storefront/internal/apitest"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
)

const cartItems = `{"data":{"valid_items":[
	{"seller_id":"s1","store_name":"Dhaka Threads","products":[
		{"product_id":"p1","product_title":"Panjabi","variants":[
			{"variant_id":"v1","retail_price":1000,"quantity_in_cart":2},
			{"variant_id":"v2","retail_price":1200,"quantity_in_cart":1}]}]},
	{"SellerID":"s2","StoreName":"Chittagong Leather","Products":[
		{"product_id":"p2","product_title":"Belt","variants":[
			{"variant_id":"v3","retail_price":450,"quantity_in_cart":4}]}]}
]}}`

func newRegistry(t *testing.T, c *cart.Cache) *session.Registry {
	t.Helper()
	reg := session.NewRegistry(nil)
	reg.OnStore(c.Listener())
	reg.Hydrate(context.Background())
	return reg
}

func login(store *session.Store) {
	store.SetAuth(session.Auth{AccessToken: "a", RefreshToken: "r", User: session.User{ID: "u1"}})
}

func TestService_Groups(t *testing.T) {
	api := apitest.New(t)
	api.JSON("GET /api/cart/items", http.StatusOK, cartItems)
	svc := cart.NewService(cart.NewCache())

	groups, err := svc.Groups(context.Background(), api.Client().For(nil, ""))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, "Dhaka Threads", groups[0].StoreName)
	require.Equal(t, "s2", groups[1].SellerID)
	require.Equal(t, "Chittagong Leather", groups[1].StoreName)
	require.Equal(t, "Belt", groups[1].Products[0].ProductTitle)
	require.Equal(t, 3200.0, groups[0].Subtotal())

	require.Equal(t, map[string]int{"v1": 2, "v2": 1, "v3": 4}, cart.Quantities(groups))
}

func TestService_GroupsEmptyCart(t *testing.T) {
	api := apitest.New(t)
	api.JSON("GET /api/cart/items", http.StatusOK, `{"data":{"valid_items":null}}`)
	svc := cart.NewService(cart.NewCache())

	groups, err := svc.Groups(context.Background(), api.Client().For(nil, ""))
	require.NoError(t, err)
	require.Empty(t, groups)
}

func TestService_Sync(t *testing.T) {
	api := apitest.New(t)
	api.JSON("GET /api/cart/items", http.StatusOK, cartItems)
	cache := cart.NewCache()
	svc := cart.NewService(cache)
	reg := newRegistry(t, cache)
	store := reg.New()
	r := api.Client().For(store, "")

	t.Run("skipped when logged out", func(t *testing.T) {
		require.NoError(t, svc.Sync(context.Background(), r, store))
		require.Empty(t, api.Calls())
	})

	login(store)
	require.NoError(t, svc.Sync(context.Background(), r, store))
	qty, ok := svc.Quantity(store, "v3")
	require.True(t, ok)
	require.Equal(t, 4, qty)

	t.Run("logout resets cache", func(t *testing.T) {
		store.Logout()
		_, ok := svc.Quantity(store, "v3")
		require.False(t, ok)
	})
}

func TestService_Add(t *testing.T) {
	api := apitest.New(t)
	api.Data("POST /api/cart/add", map[string]any{})
	cache := cart.NewCache()
	svc := cart.NewService(cache)
	store := newRegistry(t, cache).New()
	r := api.Client().For(store, "")

	err := svc.Add(context.Background(), r, store, "p1", "v1", 2)
	require.True(t, errors.IsValidation(err))
	require.Equal(t, cart.MsgLoginRequired, err.Error())
	require.ErrorIs(t, err, errors.ErrNotLoggedIn)
	require.Empty(t, api.Calls())

	login(store)
	require.NoError(t, svc.Add(context.Background(), r, store, "p1", "v1", 0))

	calls := api.CallsTo(http.MethodPost, "/api/cart/add")
	require.Len(t, calls, 1)
	require.Equal(t, "p1", calls[0].Body["product_id"])
	require.Equal(t, "v1", calls[0].Body["variant_id"])
	require.Equal(t, float64(1), calls[0].Body["required_quantity"])
	require.Equal(t, "Bearer a", calls[0].Header.Get("Authorization"))

	qty, ok := svc.Quantity(store, "v1")
	require.True(t, ok)
	require.Equal(t, 1, qty)
}

func TestService_Update(t *testing.T) {
	api := apitest.New(t)
	api.Data("PUT /api/cart/update", map[string]any{})
	cache := cart.NewCache()
	svc := cart.NewService(cache)
	store := newRegistry(t, cache).New()
	login(store)
	r := api.Client().For(store, "")
	cache.Set(store.ID(), "v1", 3)

	t.Run("unchanged quantity makes no call", func(t *testing.T) {
		err := svc.Update(context.Background(), r, store, "v1", 3)
		require.True(t, errors.IsValidation(err))
		require.Equal(t, cart.MsgQuantityUnchanged, err.Error())
		require.Empty(t, api.Calls())
	})

	t.Run("changed quantity", func(t *testing.T) {
		require.NoError(t, svc.Update(context.Background(), r, store, "v1", 5))
		calls := api.CallsTo(http.MethodPut, "/api/cart/update")
		require.Len(t, calls, 1)
		require.Equal(t, float64(5), calls[0].Body["required_quantity"])
		qty, _ := svc.Quantity(store, "v1")
		require.Equal(t, 5, qty)
	})

	t.Run("api failure leaves cache", func(t *testing.T) {
		failing := apitest.New(t)
		failing.JSON("PUT /api/cart/update", http.StatusBadRequest, `{"message":"Only 4 left in stock"}`)
		err := svc.Update(context.Background(), failing.Client().For(store, ""), store, "v1", 9)
		require.Error(t, err)
		qty, _ := svc.Quantity(store, "v1")
		require.Equal(t, 5, qty)
	})
}

func TestCache_IsolatedPerSession(t *testing.T) {
	cache := cart.NewCache()
	cache.Set("a", "v1", 1)
	cache.Set("b", "v1", 7)

	qty, _ := cache.Quantity("a", "v1")
	require.Equal(t, 1, qty)
	cache.Reset("a")
	_, ok := cache.Quantity("a", "v1")
	require.False(t, ok)
	qty, _ = cache.Quantity("b", "v1")
	require.Equal(t, 7, qty)
}
