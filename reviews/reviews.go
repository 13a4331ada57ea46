// Package reviews lists and mutates product reviews. Every successful
// mutation is followed by a full refetch of the list.
package reviews

import (
	"context"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
)

const (
	MsgLoginRequired = "Please log in to submit a review."
	MsgEmptyReview   = "Review text cannot be empty."
	MsgEmptyUpdate   = "Updated review cannot be empty."
)

type Reply struct {
	ReplyID       string `json:"reply_id"`
	SellerUserID  string `json:"seller_user_id"`
	ReplyText     string `json:"reply_text"`
	ReplyImageURL string `json:"reply_image_url,omitempty"`
	IsEdited      bool   `json:"is_edited"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type Review struct {
	ReviewID       string `json:"review_id"`
	ReviewerUserID string `json:"reviewer_user_id"`
	ReviewText     string `json:"review_text"`
	ReviewImageURL string `json:"review_image_url,omitempty"`
	IsEdited       bool   `json:"is_edited"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
	Reply          *Reply `json:"reply,omitempty"`
}

// OwnedBy reports whether userID may edit or archive the review
func (r Review) OwnedBy(userID string) bool {
	return userID != "" && r.ReviewerUserID == userID
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

func reviewsPath(productID string) string {
	return "/api/products/" + url.PathEscape(productID) + "/reviews"
}

func (s *Service) List(ctx context.Context, r apiclient.Requester, productID string) ([]Review, error) {
	var page struct {
		Items []Review `json:"items"`
	}
	if err := apiclient.Get(ctx, r, reviewsPath(productID), nil, &page); err != nil {
		return nil, errors.Wrapf(err, "list reviews")
	}
	if page.Items == nil {
		page.Items = []Review{}
	}
	return page.Items, nil
}

// Create posts a review and returns the refreshed list
func (s *Service) Create(ctx context.Context, r apiclient.Requester, snap session.Session, productID, text string) ([]Review, error) {
	if !snap.IsLoggedIn {
		return nil, errors.LoginRequired(MsgLoginRequired)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation(MsgEmptyReview)
	}
	if err := apiclient.Post(ctx, r, reviewsPath(productID), map[string]string{"review_text": text}, nil); err != nil {
		return nil, errors.Wrapf(err, "create review")
	}
	return s.List(ctx, r, productID)
}

// Edit replaces the text of a review and returns the refreshed list
func (s *Service) Edit(ctx context.Context, r apiclient.Requester, productID, reviewID, text string) ([]Review, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.Validation(MsgEmptyUpdate)
	}
	path := reviewsPath(productID) + "/" + url.PathEscape(reviewID)
	if err := apiclient.Put(ctx, r, path, map[string]string{"review_text": text}, nil); err != nil {
		return nil, errors.Wrapf(err, "edit review")
	}
	return s.List(ctx, r, productID)
}

// Archive hides a review and returns the refreshed list
func (s *Service) Archive(ctx context.Context, r apiclient.Requester, productID, reviewID string) ([]Review, error) {
	path := reviewsPath(productID) + "/" + url.PathEscape(reviewID) + "/archive"
	if err := apiclient.Put(ctx, r, path, nil, nil); err != nil {
		return nil, errors.Wrapf(err, "archive review")
	}
	return s.List(ctx, r, productID)
}
