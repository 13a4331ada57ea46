package seller_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-storefront/seller"
	"github.com/jrsteele09/go-storefront/session"
)

func TestDraft_Category(t *testing.T) {
	var d seller.Draft
	d.SelectCategory(0, "men")
	d.SelectCategory(1, "men-shirts")
	d.SelectCategory(2, "men-formal")
	require.Equal(t, []string{"men", "men-shirts", "men-formal"}, d.CategoryPath)

	d.SelectCategory(1, "men-shoes")
	require.Equal(t, []string{"men", "men-shoes"}, d.CategoryPath)

	d.ResetCategory(0)
	require.Empty(t, d.CategoryPath)

	d.SelectCategory(5, "women")
	require.Equal(t, []string{"women"}, d.CategoryPath)
}

func TestDraft_Media(t *testing.T) {
	var d seller.Draft
	d.AddImages("a", "b")
	require.True(t, d.RemoveImage(0))
	require.Equal(t, []string{"b"}, d.Images)
	require.False(t, d.RemoveImage(0), "last image stays")
	require.False(t, d.RemoveImage(3))

	d.Video = "v.mp4"
	d.RemoveVideo()
	require.Empty(t, d.Video)
}

func TestDraft_Variants(t *testing.T) {
	var d seller.Draft
	d.AddVariant()
	d.AddVariant()
	require.True(t, d.Variants[0].InStock)

	require.True(t, d.SetVariant(1, seller.VariantInput{Color: "Red"}))
	require.True(t, d.RemoveVariant(0))
	require.Len(t, d.Variants, 1)
	require.Equal(t, "Red", d.Variants[0].Color)
	require.False(t, d.RemoveVariant(4))
	require.False(t, d.SetVariant(-1, seller.VariantInput{}))
}

func TestDrafts_PerSession(t *testing.T) {
	drafts := seller.NewDrafts()
	got := drafts.Update("s1", func(d *seller.Draft) { d.Title = "Panjabi" })
	require.Equal(t, "Panjabi", got.Title)
	require.Empty(t, drafts.Get("s2").Title)

	copyOf := drafts.Get("s1")
	copyOf.Title = "changed"
	require.Equal(t, "Panjabi", drafts.Get("s1").Title)

	t.Run("logout discards", func(t *testing.T) {
		reg := session.NewRegistry(nil)
		reg.OnStore(drafts.Listener())
		reg.Hydrate(context.Background())
		store := reg.New()
		drafts.Update(store.ID(), func(d *seller.Draft) { d.Title = "x" })

		store.Logout()
		require.Empty(t, drafts.Get(store.ID()).Title)
	})

	t.Run("sweeping an idle session discards its draft", func(t *testing.T) {
		reg := session.NewRegistry(nil)
		reg.OnStore(drafts.Listener())
		reg.Hydrate(context.Background())
		store := reg.New()
		drafts.Update(store.ID(), func(d *seller.Draft) { d.Title = "abandoned" })
		before := drafts.Len()

		require.Equal(t, 1, reg.Sweep(-time.Second, 0))
		require.Empty(t, drafts.Get(store.ID()).Title)
		require.Equal(t, before-1, drafts.Len())
	})
}
