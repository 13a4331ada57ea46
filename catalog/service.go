package catalog

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
)

// Service reads public catalog data. Callers pass the requester of the
// visitor so calls are authenticated when a session exists.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Product(ctx context.Context, r apiclient.Requester, productID string) (*Product, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "product id is required")
	}
	var p Product
	if err := apiclient.Get(ctx, r, "/api/products/"+url.PathEscape(productID), nil, &p); err != nil {
		return nil, errors.Wrapf(err, "get product %s", productID)
	}
	return &p, nil
}

func (s *Service) CategoryTree(ctx context.Context, r apiclient.Requester) ([]CategoryNode, error) {
	var tree []CategoryNode
	if err := apiclient.Get(ctx, r, "/api/categories/tree", nil, &tree); err != nil {
		return nil, errors.Wrapf(err, "get category tree")
	}
	return tree, nil
}

func (s *Service) CategoryProducts(ctx context.Context, r apiclient.Requester, categoryID string) ([]Product, error) {
	if strings.TrimSpace(categoryID) == "" {
		return nil, errors.Validation("category_id is required")
	}
	var products []Product
	q := url.Values{"category_id": {categoryID}}
	if err := apiclient.Get(ctx, r, "/api/category-products", q, &products); err != nil {
		return nil, errors.Wrapf(err, "get category products")
	}
	return products, nil
}

func (s *Service) Feed(ctx context.Context, r apiclient.Requester, page, perPage int) (*Page, error) {
	return s.listing(ctx, r, "/api/feed", url.Values{}, page, perPage)
}

// Search returns an empty page without calling the API when query is blank
func (s *Service) Search(ctx context.Context, r apiclient.Requester, query string, page, perPage int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Page{Page: 1, PerPage: perPage}, nil
	}
	return s.listing(ctx, r, "/api/search", url.Values{"q": {query}}, page, perPage)
}

func (s *Service) listing(ctx context.Context, r apiclient.Requester, path string, q url.Values, page, perPage int) (*Page, error) {
	page = max(page, 1)
	perPage = max(perPage, 1)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out Page
	if err := apiclient.Get(ctx, r, path, q, &out); err != nil {
		return nil, errors.Wrapf(err, "get %s", path)
	}
	if out.Page == 0 {
		out.Page = page
	}
	if out.PerPage == 0 {
		out.PerPage = perPage
	}
	return &out, nil
}
