package seller

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/internal/utils"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	MsgLeafCategory      = "Please select a leaf category"
	MsgImageRequired     = "At least one product image is required"
	MsgVariantRequired   = "At least one variant is required"
	MsgNoInfoChanges     = "No changes made to title or description"
	MsgSameCategory      = "Please choose a different category"
	MsgLoginFirst        = "Please login first"
	MsgProfileIncomplete = "Please fill in every required field"
)

// MediaKind names the slot a media item occupies on a product
type MediaKind string

const (
	KindImage      MediaKind = "image"
	KindPromoVideo MediaKind = "promo_video"
)

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func productPath(productID string) string {
	return "/api/seller/products/" + url.PathEscape(productID)
}

// Validate applies the submission checks in order: leaf category, images,
// variants. tree is the category forest the draft's path refers to.
func (s *Service) Validate(d Draft, tree []catalog.CategoryNode) (catalog.CategoryNode, error) {
	path := catalog.ResolvePath(tree, d.CategoryPath)
	if len(path) != len(d.CategoryPath) || !catalog.IsLeafPath(path) {
		return catalog.CategoryNode{}, errors.Validation(MsgLeafCategory)
	}
	if len(d.Images) < 1 {
		return catalog.CategoryNode{}, errors.Validation(MsgImageRequired)
	}
	if len(d.Variants) < 1 {
		return catalog.CategoryNode{}, errors.Validation(MsgVariantRequired)
	}
	return path[len(path)-1], nil
}

// Create validates d and posts it, returning the new product id
func (s *Service) Create(ctx context.Context, r apiclient.Requester, d Draft, tree []catalog.CategoryNode) (string, error) {
	leaf, err := s.Validate(d, tree)
	if err != nil {
		return "", err
	}

	variants := make([]variantPayload, len(d.Variants))
	for i, v := range d.Variants {
		variants[i] = v.payload()
	}
	body := struct {
		CategoryID    string           `json:"category_id"`
		Title         string           `json:"title"`
		Description   string           `json:"description"`
		ImageURLs     []string         `json:"image_urls"`
		PromoVideoURL string           `json:"promo_video_url,omitempty"`
		Variants      []variantPayload `json:"variants"`
	}{
		CategoryID:    leaf.ID,
		Title:         d.Title,
		Description:   d.Description,
		ImageURLs:     d.Images,
		PromoVideoURL: d.Video,
		Variants:      variants,
	}

	raw, err := r.Raw(ctx, apiclient.Request{Method: http.MethodPost, Path: "/api/seller/products", Body: body})
	if err != nil {
		return "", errors.Wrapf(err, "create product")
	}
	id := gjson.GetBytes(raw, "data.id").String()
	if id == "" {
		id = gjson.GetBytes(raw, "data.product_id").String()
	}
	if id == "" {
		return "", errors.Wrapf(errors.ErrBadEnvelope, "created product has no id")
	}
	return id, nil
}

func (s *Service) Product(ctx context.Context, r apiclient.Requester, productID string) (*Product, error) {
	var p Product
	if err := apiclient.Get(ctx, r, productPath(productID), nil, &p); err != nil {
		return nil, errors.Wrapf(err, "get seller product %s", productID)
	}
	return &p, nil
}

// Dashboard lists the seller's products awaiting approval
func (s *Service) Dashboard(ctx context.Context, r apiclient.Requester) ([]Product, error) {
	var out struct {
		Products []Product `json:"valid_non_approved_products"`
	}
	if err := apiclient.Get(ctx, r, "/api/seller/products", nil, &out); err != nil {
		return nil, errors.Wrapf(err, "list seller products")
	}
	if out.Products == nil {
		out.Products = []Product{}
	}
	return out.Products, nil
}

// UpdateInfo sends only the fields that differ from current
func (s *Service) UpdateInfo(ctx context.Context, r apiclient.Requester, current Product, title, description string) (Product, error) {
	changes := infoPayload{
		Title:       utils.PtrIf(title != current.Title, title),
		Description: utils.PtrIf(description != current.Description, description),
	}
	if changes.Title == nil && changes.Description == nil {
		return current, errors.Validation(MsgNoInfoChanges)
	}

	if err := apiclient.Put(ctx, r, productPath(current.ProductID), changes, nil); err != nil {
		return current, errors.Wrapf(err, "update product info")
	}
	current.Title = title
	current.Description = description
	return current, nil
}

// infoPayload carries only the fields that changed
type infoPayload struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// UpdateCategory moves the product to another leaf category
func (s *Service) UpdateCategory(ctx context.Context, r apiclient.Requester, current Product, categoryID string, tree []catalog.CategoryNode) (Product, error) {
	if categoryID == "" {
		return current, errors.Wrapf(errors.ErrInvalidInput, "no category selected")
	}
	if categoryID == current.CategoryID {
		return current, errors.Validation(MsgSameCategory)
	}
	node := catalog.Find(tree, categoryID)
	if node == nil || !node.IsLeaf {
		return current, errors.Validation(MsgLeafCategory)
	}

	body := map[string]string{"category_id": categoryID}
	if err := apiclient.Put(ctx, r, productPath(current.ProductID)+"/category", body, nil); err != nil {
		return current, errors.Wrapf(err, "update product category")
	}
	current.CategoryID = categoryID
	current.CategoryName = node.Name
	return current, nil
}

func (s *Service) SetPrimaryImage(ctx context.Context, r apiclient.Requester, productID, mediaID string) error {
	path := productPath(productID) + "/images/" + url.PathEscape(mediaID) + "/set-primary"
	return errors.Wrapf(apiclient.Put(ctx, r, path, nil, nil), "set primary image")
}

func (s *Service) RemoveMedia(ctx context.Context, r apiclient.Requester, productID, mediaID string, kind MediaKind) error {
	path := productPath(productID) + "/media/" + url.PathEscape(mediaID)
	q := url.Values{"media_type": {string(kind)}}
	return errors.Wrapf(apiclient.Delete(ctx, r, path, q), "remove %s", kind)
}

// AttachMedia links an already uploaded file to the product
func (s *Service) AttachMedia(ctx context.Context, r apiclient.Requester, productID, mediaURL string, kind MediaKind) error {
	body := map[string]string{"media_url": mediaURL, "media_type": string(kind)}
	return errors.Wrapf(apiclient.Post(ctx, r, productPath(productID)+"/media", body, nil), "attach %s", kind)
}

// SubmitProfile sends the seller metadata and returns the API's message
func (s *Service) SubmitProfile(ctx context.Context, r apiclient.Requester, snap session.Session, p Profile) (string, error) {
	if !snap.IsLoggedIn {
		return "", errors.LoginRequired(MsgLoginFirst)
	}
	required := []string{p.StoreName, p.ContactNo, p.WhatsappContactNo, p.Email, p.PhysicalLocation}
	for _, v := range required {
		if strings.TrimSpace(v) == "" {
			return "", errors.Validation(MsgProfileIncomplete)
		}
	}

	raw, err := r.Raw(ctx, apiclient.Request{Method: http.MethodPost, Path: "/api/seller/profile/metadata", Body: p})
	if err != nil {
		return "", errors.Wrapf(err, "submit seller profile")
	}
	return gjson.GetBytes(raw, "message").String(), nil
}
