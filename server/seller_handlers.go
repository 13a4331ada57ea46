package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/seller"
)

type SellerProfileView struct {
	Profile seller.Profile
}

type DashboardView struct {
	Products []seller.Product
}

type SellerProductView struct {
	Product    *seller.Product
	Images     []seller.MediaItem
	Leaves     []catalog.CategoryNode
	Breadcrumb string
}

// SellerProfileHandler renders the become-a-seller form
func (s *Server) SellerProfileHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("seller_profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, http.StatusOK, s.newPage(r, "Seller profile", &SellerProfileView{}))
	}
}

func (s *Server) SellerProfileSubmitHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("seller_profile.html")

	return func(w http.ResponseWriter, r *http.Request) {
		profile := seller.Profile{
			StoreName:         strings.TrimSpace(r.FormValue("store_name")),
			ContactNo:         strings.TrimSpace(r.FormValue("contact_no")),
			WhatsappContactNo: strings.TrimSpace(r.FormValue("whatsapp_contact_no")),
			WebsiteLink:       strings.TrimSpace(r.FormValue("website_link")),
			FacebookPageName:  strings.TrimSpace(r.FormValue("facebook_page_name")),
			Email:             strings.TrimSpace(r.FormValue("email")),
			PhysicalLocation:  strings.TrimSpace(r.FormValue("physical_location")),
		}

		message, err := s.seller.SubmitProfile(r.Context(), s.requester(r), sessionFrom(r).Snapshot(), profile)
		if err != nil {
			// Re-render so the seller keeps what they typed
			data := s.newPage(r, "Seller profile", &SellerProfileView{Profile: profile})
			data.Error = userMessage(r, err, "Could not submit your profile.")
			render(w, tmpl, http.StatusUnprocessableEntity, data)
			return
		}
		if message == "" {
			message = "Seller profile submitted."
		}
		redirectWithNotice(w, r, RouteSellerProfile, message)
	}
}

// SellerDashboardHandler lists the seller's products awaiting approval
func (s *Server) SellerDashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("seller_dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		view := &DashboardView{}
		data := s.newPage(r, "Seller dashboard", view)
		products, err := s.seller.Dashboard(r.Context(), s.requester(r))
		if err != nil {
			data.Error = userMessage(r, err, "Could not load your products.")
		}
		view.Products = products
		render(w, tmpl, http.StatusOK, data)
	}
}

func (s *Server) SellerProductViewHandler() http.HandlerFunc {
	return s.sellerProductPage("seller_product.html")
}

func (s *Server) SellerEditHandler() http.HandlerFunc {
	return s.sellerProductPage("seller_edit.html")
}

func (s *Server) sellerProductPage(name string) http.HandlerFunc {
	tmpl := mustParseTemplate(name)

	return func(w http.ResponseWriter, r *http.Request) {
		view := &SellerProductView{}
		data := s.newPage(r, "Product", view)

		product, err := s.seller.Product(r.Context(), s.requester(r), r.PathValue("id"))
		if err != nil {
			data.Error = userMessage(r, err, msgProductUnavailable)
			render(w, tmpl, http.StatusNotFound, data)
			return
		}
		tree := data.Nav.Categories
		view.Product = product
		view.Images = product.ActiveImages()
		view.Leaves = catalog.Leaves(tree)
		view.Breadcrumb = catalog.Breadcrumb(catalog.ResolvePath(tree, catalog.PathTo(tree, product.CategoryID)))
		if view.Breadcrumb == "" {
			view.Breadcrumb = product.CategoryName
		}
		data.Title = product.Title
		render(w, tmpl, http.StatusOK, data)
	}
}

func sellerEditURL(r *http.Request) string {
	return routeSellerEditPrefix + url.PathEscape(r.PathValue("id"))
}

// currentSellerProduct loads the product an edit form refers to
func (s *Server) currentSellerProduct(w http.ResponseWriter, r *http.Request) (*seller.Product, bool) {
	product, err := s.seller.Product(r.Context(), s.requester(r), r.PathValue("id"))
	if err != nil {
		redirectWithError(w, r, RouteSellerDashboard, userMessage(r, err, msgProductUnavailable))
		return nil, false
	}
	return product, true
}

func (s *Server) SellerEditInfoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := s.currentSellerProduct(w, r)
		if !ok {
			return
		}
		title := strings.TrimSpace(r.FormValue("title"))
		description := strings.TrimSpace(r.FormValue("description"))
		if _, err := s.seller.UpdateInfo(r.Context(), s.requester(r), *current, title, description); err != nil {
			redirectWithError(w, r, sellerEditURL(r), userMessage(r, err, "Could not update the product."))
			return
		}
		redirectWithNotice(w, r, sellerEditURL(r), "Product details updated.")
	}
}

func (s *Server) SellerEditCategoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current, ok := s.currentSellerProduct(w, r)
		if !ok {
			return
		}
		tree := s.categories.get(r.Context(), s.catalog, s.requester(r))
		if _, err := s.seller.UpdateCategory(r.Context(), s.requester(r), *current, r.FormValue("category_id"), tree); err != nil {
			redirectWithError(w, r, sellerEditURL(r), userMessage(r, err, "Could not change the category."))
			return
		}
		redirectWithNotice(w, r, sellerEditURL(r), "Category updated.")
	}
}

func (s *Server) SellerEditPrimaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.seller.SetPrimaryImage(r.Context(), s.requester(r), r.PathValue("id"), r.PathValue("mid")); err != nil {
			redirectWithError(w, r, sellerEditURL(r), userMessage(r, err, "Could not set the primary image."))
			return
		}
		redirectWithNotice(w, r, sellerEditURL(r), "Primary image updated.")
	}
}

func (s *Server) SellerEditRemoveMediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := mediaKind(r.FormValue("media_type"))
		if err := s.seller.RemoveMedia(r.Context(), s.requester(r), r.PathValue("id"), r.PathValue("mid"), kind); err != nil {
			redirectWithError(w, r, sellerEditURL(r), userMessage(r, err, "Could not remove the media."))
			return
		}
		redirectWithNotice(w, r, sellerEditURL(r), "Media removed.")
	}
}

// SellerEditAttachMediaHandler uploads files through presigned URLs and
// attaches each resulting media URL to the product
func (s *Server) SellerEditAttachMediaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			redirectWithError(w, r, sellerEditURL(r), msgUnreadableUpload)
			return
		}
		kind := mediaKind(r.FormValue("media_type"))
		urls, err := s.uploadFiles(r, "files", uploadType(kind))
		for _, u := range urls {
			if attachErr := s.seller.AttachMedia(r.Context(), s.requester(r), r.PathValue("id"), u, kind); attachErr != nil {
				err = attachErr
				break
			}
		}
		if err != nil {
			redirectWithError(w, r, sellerEditURL(r), userMessage(r, err, "Upload failed."))
			return
		}
		redirectWithNotice(w, r, sellerEditURL(r), "Media uploaded.")
	}
}

func mediaKind(raw string) seller.MediaKind {
	if raw == string(seller.KindPromoVideo) {
		return seller.KindPromoVideo
	}
	return seller.KindImage
}
