package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/reviews"
)

const msgProductUnavailable = "Product not found or unavailable"

// VariantOption is one color or size chip
type VariantOption struct {
	Value    string
	Selected bool
	Enabled  bool
	URL      string
}

type ReviewView struct {
	reviews.Review
	Mine bool
}

type ProductView struct {
	Product    *catalog.Product
	Colors     []VariantOption
	Sizes      []VariantOption
	Active     *catalog.Variant
	InCart     bool
	CartQty    int
	Reviews    []ReviewView
	LoggedIn   bool
	ReturnPath string
}

// ProductHandler renders the product detail page. Product, reviews and the
// cart cache are fetched together; only the product is required.
func (s *Server) ProductHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("product.html")

	return func(w http.ResponseWriter, r *http.Request) {
		productID := r.PathValue("id")
		store := sessionFrom(r)
		requester := s.requester(r)

		var (
			product *catalog.Product
			list    []reviews.Review
		)
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			p, err := s.catalog.Product(ctx, requester, productID)
			product = p
			return err
		})
		g.Go(func() error {
			l, err := s.reviews.List(ctx, requester, productID)
			if err != nil {
				log.Err(err).Str("product_id", productID).Msg("Failed to load reviews")
				return nil
			}
			list = l
			return nil
		})
		g.Go(func() error {
			if err := s.cart.Sync(ctx, requester, store); err != nil {
				log.Err(err).Str("product_id", productID).Msg("Failed to sync cart cache")
			}
			return nil
		})
		err := g.Wait()

		snap := store.Snapshot()
		view := &ProductView{LoggedIn: snap.IsLoggedIn, ReturnPath: r.URL.RequestURI()}
		data := s.newPage(r, "Product", view)
		if err != nil {
			log.Err(err).Str("product_id", productID).Msg("Failed to load product")
			data.Error = msgProductUnavailable
			render(w, tmpl, http.StatusNotFound, data)
			return
		}

		q := r.URL.Query()
		selector := catalog.NewSelector(product.Variants, q.Get("color"), q.Get("size"))
		view.Product = product
		data.Title = product.Title
		for _, c := range selector.AllColors() {
			view.Colors = append(view.Colors, VariantOption{
				Value:    c,
				Selected: c == selector.Color(),
				Enabled:  selector.ColorEnabled(c),
				URL:      selectionURL(r.URL, "color", c, selector.Color()),
			})
		}
		for _, sz := range selector.AllSizes() {
			view.Sizes = append(view.Sizes, VariantOption{
				Value:    sz,
				Selected: sz == selector.Size(),
				Enabled:  selector.SizeEnabled(sz),
				URL:      selectionURL(r.URL, "size", sz, selector.Size()),
			})
		}
		if view.Active = selector.Active(); view.Active != nil {
			view.CartQty, view.InCart = s.cart.Quantity(store, view.Active.VariantID)
		}
		for _, rv := range list {
			view.Reviews = append(view.Reviews, ReviewView{Review: rv, Mine: rv.OwnedBy(snap.UserID())})
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// selectionURL toggles key=value on the current product URL. Choosing the
// selected value again clears it.
func selectionURL(u *url.URL, key, value, selected string) string {
	q := u.Query()
	q.Del("error")
	q.Del("notice")
	if value == selected {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	if len(q) == 0 {
		return u.Path
	}
	return u.Path + "?" + q.Encode()
}

// productReturn is the product page a form post goes back to, keeping the
// variant selection when the form carried one
func productReturn(r *http.Request) string {
	if back := r.FormValue("return"); back != "" {
		if u, err := url.Parse(safeReturnURL(back)); err == nil && u.Path == routeProductPrefix+r.PathValue("id") {
			return u.String()
		}
	}
	return routeProductPrefix + url.PathEscape(r.PathValue("id"))
}

func formQuantity(r *http.Request) int {
	qty, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		return 1
	}
	return qty
}

func (s *Server) AddToCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := productReturn(r)
		err := s.cart.Add(r.Context(), s.requester(r), sessionFrom(r), r.PathValue("id"), r.FormValue("variant_id"), formQuantity(r))
		if err != nil {
			redirectWithError(w, r, back, userMessage(r, err, "Could not add to cart."))
			return
		}
		redirectWithNotice(w, r, back, "Added to cart.")
	}
}

func (s *Server) UpdateCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := productReturn(r)
		err := s.cart.Update(r.Context(), s.requester(r), sessionFrom(r), r.FormValue("variant_id"), formQuantity(r))
		if err != nil {
			redirectWithError(w, r, back, userMessage(r, err, "Could not update cart."))
			return
		}
		redirectWithNotice(w, r, back, "Cart updated.")
	}
}

func (s *Server) CreateReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := productReturn(r)
		snap := sessionFrom(r).Snapshot()
		if _, err := s.reviews.Create(r.Context(), s.requester(r), snap, r.PathValue("id"), r.FormValue("review_text")); err != nil {
			redirectWithError(w, r, back, userMessage(r, err, "Could not submit review."))
			return
		}
		redirectWithNotice(w, r, back, "Review submitted.")
	}
}

func (s *Server) EditReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := productReturn(r)
		if _, err := s.reviews.Edit(r.Context(), s.requester(r), r.PathValue("id"), r.PathValue("rid"), r.FormValue("review_text")); err != nil {
			redirectWithError(w, r, back, userMessage(r, err, "Could not update review."))
			return
		}
		redirectWithNotice(w, r, back, "Review updated.")
	}
}

func (s *Server) ArchiveReviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		back := productReturn(r)
		if _, err := s.reviews.Archive(r.Context(), s.requester(r), r.PathValue("id"), r.PathValue("rid")); err != nil {
			redirectWithError(w, r, back, userMessage(r, err, "Could not delete review."))
			return
		}
		redirectWithNotice(w, r, back, "Review deleted.")
	}
}
