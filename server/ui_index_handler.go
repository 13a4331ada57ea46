package server

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront/catalog"
)

// ListingView is a page of product cards
type ListingView struct {
	Heading  string
	Query    string
	Products []catalog.Product
	Page     int
	NextURL  string
	PrevURL  string
	Empty    string
}

// IndexHandler renders the home feed
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("listing.html")

	return func(w http.ResponseWriter, r *http.Request) {
		page := pageParam(r)
		view := ListingView{Heading: "Just for you", Page: page, Empty: "No products yet."}

		feed, err := s.catalog.Feed(r.Context(), s.requester(r), page, s.config.GetFeedPageSize())
		data := s.newPage(r, "Home", &view)
		if err != nil {
			data.Error = userMessage(r, err, "Could not load products.")
		} else {
			view.Products = feed.Products
			view.setPaging(r.URL, feed)
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// SearchHandler renders search results for ?q=
func (s *Server) SearchHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("listing.html")

	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		page := pageParam(r)
		view := ListingView{Heading: "Search", Query: query, Page: page, Empty: "No products match your search."}
		if query != "" {
			view.Heading = "Results for “" + query + "”"
		}

		results, err := s.catalog.Search(r.Context(), s.requester(r), query, page, s.config.GetFeedPageSize())
		data := s.newPage(r, "Search", &view)
		if err != nil {
			data.Error = userMessage(r, err, "Search failed.")
		} else {
			view.Products = results.Products
			view.setPaging(r.URL, results)
		}
		render(w, tmpl, http.StatusOK, data)
	}
}

// CategoryProductsHandler lists the products of one leaf category
func (s *Server) CategoryProductsHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("listing.html")

	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := r.URL.Query().Get("category_id")
		view := ListingView{Heading: "Category", Page: 1, Empty: "No products in this category yet."}
		data := s.newPage(r, "Category", &view)

		if node := catalog.Find(data.Nav.Categories, categoryID); node != nil {
			view.Heading = catalog.Breadcrumb(catalog.ResolvePath(data.Nav.Categories, catalog.PathTo(data.Nav.Categories, categoryID)))
		}

		products, err := s.catalog.CategoryProducts(r.Context(), s.requester(r), categoryID)
		status := http.StatusOK
		if err != nil {
			data.Error = userMessage(r, err, "Could not load products.")
			if categoryID == "" {
				status = http.StatusBadRequest
			}
		}
		view.Products = products
		render(w, tmpl, status, data)
	}
}

func (v *ListingView) setPaging(u *url.URL, p *catalog.Page) {
	if p.HasNext() {
		v.NextURL = pageURL(u, v.Page+1)
	}
	if v.Page > 1 {
		v.PrevURL = pageURL(u, v.Page-1)
	}
}

func pageURL(u *url.URL, page int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	return u.Path + "?" + q.Encode()
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func (s *Server) NotFoundHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("notfound.html")

	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, http.StatusNotFound, s.newPage(r, "Not found", nil))
	}
}
