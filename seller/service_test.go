package seller_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/internal/apitest"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/seller"
	"github.com/jrsteele09/go-storefront/session"
)

var tree = []catalog.CategoryNode{
	{ID: "men", Name: "Men", Children: []catalog.CategoryNode{
		{ID: "men-shirts", Name: "Shirts", IsLeaf: true},
		{ID: "men-shoes", Name: "Shoes", IsLeaf: true},
	}},
}

func validDraft() seller.Draft {
	d := seller.Draft{
		CategoryPath: []string{"men", "men-shirts"},
		Title:        "Oxford shirt",
		Description:  "Cotton",
		Images:       []string{"https://cdn/x.jpg"},
	}
	d.Variants = []seller.VariantInput{{Color: "Blue", Size: "M", RetailPrice: 1500, InStock: true, StockQuantity: 10}}
	return d
}

func TestService_ValidateOrder(t *testing.T) {
	svc := seller.NewService()

	empty := seller.Draft{}
	_, err := svc.Validate(empty, tree)
	require.Equal(t, seller.MsgLeafCategory, err.Error())

	nonLeaf := validDraft()
	nonLeaf.CategoryPath = []string{"men"}
	nonLeaf.Images = nil
	_, err = svc.Validate(nonLeaf, tree)
	require.Equal(t, seller.MsgLeafCategory, err.Error())

	noImages := validDraft()
	noImages.Images = nil
	noImages.Variants = nil
	_, err = svc.Validate(noImages, tree)
	require.Equal(t, seller.MsgImageRequired, err.Error())

	noVariants := validDraft()
	noVariants.Variants = nil
	_, err = svc.Validate(noVariants, tree)
	require.Equal(t, seller.MsgVariantRequired, err.Error())

	leaf, err := svc.Validate(validDraft(), tree)
	require.NoError(t, err)
	require.Equal(t, "men-shirts", leaf.ID)
}

func TestService_Create(t *testing.T) {
	api := apitest.New(t)
	api.Data("POST /api/seller/products", map[string]string{"id": "new-1"})
	svc := seller.NewService()

	d := validDraft()
	d.Video = "https://cdn/promo.mp4"
	d.Variants = append(d.Variants, seller.VariantInput{
		Color: "Red", Size: "L", RetailPrice: 1600,
		EnableRetailDiscount: true, RetailDiscount: 10, RetailDiscountType: seller.DiscountPercentage,
		EnableWholesale: false, WholesalePrice: 900,
		EnableWholesaleDiscount: true, WholesaleDiscount: 5,
	})

	id, err := svc.Create(context.Background(), api.Client().For(nil, ""), d, tree)
	require.NoError(t, err)
	require.Equal(t, "new-1", id)

	calls := api.CallsTo(http.MethodPost, "/api/seller/products")
	require.Len(t, calls, 1)
	body := calls[0].Body
	require.Equal(t, "men-shirts", body["category_id"])
	require.Equal(t, "https://cdn/promo.mp4", body["promo_video_url"])

	variants := body["variants"].([]any)
	plain := variants[0].(map[string]any)
	require.NotContains(t, plain, "retail_discount")
	require.NotContains(t, plain, "wholesale_price")

	discounted := variants[1].(map[string]any)
	require.Equal(t, float64(10), discounted["retail_discount"])
	require.Equal(t, "percentage", discounted["retail_discount_type"])
	require.NotContains(t, discounted, "wholesale_price")
	require.NotContains(t, discounted, "wholesale_discount", "wholesale discount needs wholesale enabled")

	t.Run("no video omits the field", func(t *testing.T) {
		_, err := svc.Create(context.Background(), api.Client().For(nil, ""), validDraft(), tree)
		require.NoError(t, err)
		calls := api.CallsTo(http.MethodPost, "/api/seller/products")
		require.NotContains(t, calls[1].Body, "promo_video_url")
	})

	t.Run("invalid draft makes no call", func(t *testing.T) {
		before := len(api.Calls())
		_, err := svc.Create(context.Background(), api.Client().For(nil, ""), seller.Draft{}, tree)
		require.True(t, errors.IsValidation(err))
		require.Len(t, api.Calls(), before)
	})
}

func TestService_UpdateInfo(t *testing.T) {
	api := apitest.New(t)
	api.Data("PUT /api/seller/products/p1", map[string]any{})
	svc := seller.NewService()
	r := api.Client().For(nil, "")
	current := seller.Product{ProductID: "p1", Title: "Old", Description: "Same"}

	_, err := svc.UpdateInfo(context.Background(), r, current, "Old", "Same")
	require.Equal(t, seller.MsgNoInfoChanges, err.Error())
	require.Empty(t, api.Calls())

	updated, err := svc.UpdateInfo(context.Background(), r, current, "New", "Same")
	require.NoError(t, err)
	require.Equal(t, "New", updated.Title)
	body := api.Calls()[0].Body
	require.Equal(t, map[string]any{"title": "New"}, body)
}

func TestService_UpdateCategory(t *testing.T) {
	api := apitest.New(t)
	api.Data("PUT /api/seller/products/p1/category", map[string]any{})
	svc := seller.NewService()
	r := api.Client().For(nil, "")
	current := seller.Product{ProductID: "p1", CategoryID: "men-shirts"}

	_, err := svc.UpdateCategory(context.Background(), r, current, "men-shirts", tree)
	require.Equal(t, seller.MsgSameCategory, err.Error())

	_, err = svc.UpdateCategory(context.Background(), r, current, "men", tree)
	require.Equal(t, seller.MsgLeafCategory, err.Error())
	require.Empty(t, api.Calls())

	updated, err := svc.UpdateCategory(context.Background(), r, current, "men-shoes", tree)
	require.NoError(t, err)
	require.Equal(t, "Shoes", updated.CategoryName)
	require.Equal(t, "men-shoes", api.Calls()[0].Body["category_id"])
}

func TestService_MediaEdits(t *testing.T) {
	api := apitest.New(t)
	api.Data("PUT /api/seller/products/p1/images/m2/set-primary", map[string]any{})
	api.Data("DELETE /api/seller/products/p1/media/m3", map[string]any{})
	api.Data("POST /api/seller/products/p1/media", map[string]any{})
	svc := seller.NewService()
	r := api.Client().For(nil, "")
	ctx := context.Background()

	require.NoError(t, svc.SetPrimaryImage(ctx, r, "p1", "m2"))
	require.NoError(t, svc.RemoveMedia(ctx, r, "p1", "m3", seller.KindPromoVideo))
	require.NoError(t, svc.AttachMedia(ctx, r, "p1", "https://cdn/v.mp4", seller.KindPromoVideo))

	calls := api.Calls()
	require.Len(t, calls, 3)
	require.Equal(t, "media_type=promo_video", calls[1].Query)
	require.Equal(t, "promo_video", calls[2].Body["media_type"])
	require.Equal(t, "https://cdn/v.mp4", calls[2].Body["media_url"])
}

func TestService_DashboardAndProduct(t *testing.T) {
	api := apitest.New(t)
	api.JSON("GET /api/seller/products", http.StatusOK, `{"data":{"valid_non_approved_products":[
		{"product_id":"p1","title":"Shirt","primary_image_url":"p.jpg"}]}}`)
	api.JSON("GET /api/seller/products/p1", http.StatusOK, `{"data":{"product_id":"p1",
		"image_media_items":[{"media_id":"m1","media_url":"a.jpg","is_primary":true},{"media_id":"m2","media_url":"b.jpg","is_archived":true}],
		"promo_video_item":{"media_id":"v1","media_url":"v.mp4"}}}`)
	svc := seller.NewService()
	r := api.Client().For(nil, "")

	products, err := svc.Dashboard(context.Background(), r)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "p.jpg", products[0].Cover())

	p, err := svc.Product(context.Background(), r, "p1")
	require.NoError(t, err)
	require.Len(t, p.ActiveImages(), 1)
	require.Equal(t, "a.jpg", p.Cover())
	require.Equal(t, "v1", p.PromoVideoItem.MediaID)
}

func TestService_SubmitProfile(t *testing.T) {
	api := apitest.New(t)
	api.JSON("POST /api/seller/profile/metadata", http.StatusOK, `{"message":"Seller profile submitted for review"}`)
	svc := seller.NewService()
	r := api.Client().For(nil, "")
	profile := seller.Profile{
		StoreName: "Dhaka Threads", ContactNo: "017", WhatsappContactNo: "017",
		Email: "shop@example.com", PhysicalLocation: "Dhaka",
	}

	_, err := svc.SubmitProfile(context.Background(), r, session.Empty(), profile)
	require.Equal(t, seller.MsgLoginFirst, err.Error())

	member := session.Session{IsLoggedIn: true}
	_, err = svc.SubmitProfile(context.Background(), r, member, seller.Profile{StoreName: "x"})
	require.Equal(t, seller.MsgProfileIncomplete, err.Error())
	require.Empty(t, api.Calls())

	msg, err := svc.SubmitProfile(context.Background(), r, member, profile)
	require.NoError(t, err)
	require.Equal(t, "Seller profile submitted for review", msg)
	body := api.Calls()[0].Body
	require.Equal(t, "Dhaka Threads", body["seller_store_name"])
	require.Equal(t, "", body["seller_website_link"])
}
