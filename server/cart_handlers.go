package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/cart"
)

type CartView struct {
	Loading bool
	Groups  []cart.Group
	Total   float64
}

// CartHandler shows a loading view until the session has hydrated, then the
// cart grouped by seller. Viewing the cart also refreshes the quantity cache.
func (s *Server) CartHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("cart.html")

	return func(w http.ResponseWriter, r *http.Request) {
		store := sessionFrom(r)
		view := &CartView{}
		data := s.newPage(r, "Cart", view)

		snap := store.Snapshot()
		switch {
		case !snap.HasHydrated:
			view.Loading = true
		case !snap.IsLoggedIn:
			data.Error = cart.MsgLoginToViewCart
		default:
			groups, err := s.cart.Groups(r.Context(), s.requester(r))
			if err != nil {
				data.Error = userMessage(r, err, "Could not load your cart.")
				break
			}
			s.cart.Cache().Replace(store.ID(), cart.Quantities(groups))
			view.Groups = groups
			for _, g := range groups {
				view.Total += g.Subtotal()
			}
		}
		render(w, tmpl, http.StatusOK, data)
	}
}
