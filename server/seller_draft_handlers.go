package server

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront/catalog"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/media"
	"github.com/jrsteele09/go-storefront/seller"
)

const (
	msgUnreadableUpload = "Could not read the uploaded files."
	msgNoFileChosen     = "Please choose a file to upload."
)

// CategoryLevel is one drop-down of the category drill-down
type CategoryLevel struct {
	Level    int
	Options  []catalog.CategoryNode
	Selected string
}

type DraftView struct {
	Draft      seller.Draft
	Levels     []CategoryLevel
	Breadcrumb string
	LeafChosen bool
}

// DraftHandler renders the create-product form from the session's draft
func (s *Server) DraftHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("seller_create.html")

	return func(w http.ResponseWriter, r *http.Request) {
		view := &DraftView{Draft: s.drafts.Get(sessionFrom(r).ID())}
		data := s.newPage(r, "New product", view)

		tree := data.Nav.Categories
		path := catalog.ResolvePath(tree, view.Draft.CategoryPath)
		for i, node := range path {
			options := tree
			if i > 0 {
				options = path[i-1].Children
			}
			view.Levels = append(view.Levels, CategoryLevel{Level: i, Options: options, Selected: node.ID})
		}
		if next := catalog.Options(tree, path); len(next) > 0 {
			view.Levels = append(view.Levels, CategoryLevel{Level: len(path), Options: next})
		}
		view.Breadcrumb = catalog.Breadcrumb(path)
		view.LeafChosen = catalog.IsLeafPath(path)
		render(w, tmpl, http.StatusOK, data)
	}
}

// draftAction wraps a form post that edits the draft and returns to the form
func (s *Server) draftAction(edit func(r *http.Request, d *seller.Draft) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var editErr error
		s.drafts.Update(sessionFrom(r).ID(), func(d *seller.Draft) {
			editErr = edit(r, d)
		})
		if editErr != nil {
			redirectWithError(w, r, RouteDraft, userMessage(r, editErr, "Could not update the draft."))
			return
		}
		redirectSuccess(w, r, RouteDraft)
	}
}

func (s *Server) DraftDetailsHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		applyDetails(r, d)
		return nil
	})
}

func (s *Server) DraftCategoryHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		level, err := strconv.Atoi(r.FormValue("level"))
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "category level %q", r.FormValue("level"))
		}
		if id := r.FormValue("category_id"); id != "" {
			d.SelectCategory(level, id)
		} else {
			d.ResetCategory(level)
		}
		return nil
	})
}

func (s *Server) DraftCategoryResetHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		level, err := strconv.Atoi(r.FormValue("level"))
		if err != nil {
			level = 0
		}
		d.ResetCategory(level)
		return nil
	})
}

// DraftImagesHandler uploads each selected image and keeps its media URL.
// Files uploaded before a failure stay in the draft.
func (s *Server) DraftImagesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			redirectWithError(w, r, RouteDraft, msgUnreadableUpload)
			return
		}
		urls, err := s.uploadFiles(r, "images", media.TypeImage)
		s.drafts.Update(sessionFrom(r).ID(), func(d *seller.Draft) {
			d.AddImages(urls...)
		})
		if err != nil {
			redirectWithError(w, r, RouteDraft, userMessage(r, err, "Image upload failed."))
			return
		}
		redirectSuccess(w, r, RouteDraft)
	}
}

func (s *Server) DraftVideoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			redirectWithError(w, r, RouteDraft, msgUnreadableUpload)
			return
		}
		urls, err := s.uploadFiles(r, "video", media.TypeVideo)
		if err != nil {
			redirectWithError(w, r, RouteDraft, userMessage(r, err, "Video upload failed."))
			return
		}
		s.drafts.Update(sessionFrom(r).ID(), func(d *seller.Draft) {
			d.Video = urls[len(urls)-1]
		})
		redirectSuccess(w, r, RouteDraft)
	}
}

func (s *Server) DraftImageRemoveHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		if !d.RemoveImage(pathIndex(r)) {
			return errors.Validation("At least one image must remain.")
		}
		return nil
	})
}

func (s *Server) DraftVideoRemoveHandler() http.HandlerFunc {
	return s.draftAction(func(_ *http.Request, d *seller.Draft) error {
		d.RemoveVideo()
		return nil
	})
}

func (s *Server) DraftVariantAddHandler() http.HandlerFunc {
	return s.draftAction(func(_ *http.Request, d *seller.Draft) error {
		d.AddVariant()
		return nil
	})
}

func (s *Server) DraftVariantSetHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		if !d.SetVariant(pathIndex(r), variantFromForm(r)) {
			return errors.Wrapf(errors.ErrNotFound, "variant %s", r.PathValue("index"))
		}
		return nil
	})
}

func (s *Server) DraftVariantRemoveHandler() http.HandlerFunc {
	return s.draftAction(func(r *http.Request, d *seller.Draft) error {
		if !d.RemoveVariant(pathIndex(r)) {
			return errors.Wrapf(errors.ErrNotFound, "variant %s", r.PathValue("index"))
		}
		return nil
	})
}

// DraftSubmitHandler validates and creates the product, then discards the
// draft and shows the new product
func (s *Server) DraftSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := sessionFrom(r)
		draft := s.drafts.Update(store.ID(), func(d *seller.Draft) {
			applyDetails(r, d)
		})

		tree := s.categories.get(r.Context(), s.catalog, s.requester(r))
		productID, err := s.seller.Create(r.Context(), s.requester(r), draft, tree)
		if err != nil {
			redirectWithError(w, r, RouteDraft, userMessage(r, err, "Could not create the product."))
			return
		}
		s.drafts.Discard(store.ID())
		redirectWithNotice(w, r, routeSellerViewPrefix+productID, "Product created.")
	}
}

// applyDetails copies title and description when the form carried them
func applyDetails(r *http.Request, d *seller.Draft) {
	_ = r.ParseForm()
	if _, ok := r.PostForm["title"]; ok {
		d.Title = strings.TrimSpace(r.PostForm.Get("title"))
	}
	if _, ok := r.PostForm["description"]; ok {
		d.Description = strings.TrimSpace(r.PostForm.Get("description"))
	}
}

func variantFromForm(r *http.Request) seller.VariantInput {
	checked := func(name string) bool { return r.FormValue(name) != "" }
	float := func(name string) float64 {
		v, _ := strconv.ParseFloat(r.FormValue(name), 64)
		return v
	}
	integer := func(name string) int {
		v, _ := strconv.Atoi(r.FormValue(name))
		return v
	}

	return seller.VariantInput{
		Color:         strings.TrimSpace(r.FormValue("color")),
		Size:          strings.TrimSpace(r.FormValue("size")),
		RetailPrice:   float("retail_price"),
		InStock:       checked("in_stock"),
		StockQuantity: integer("stock_quantity"),
		WeightGrams:   integer("weight_grams"),

		EnableRetailDiscount: checked("enable_retail_discount"),
		RetailDiscount:       float("retail_discount"),
		RetailDiscountType:   r.FormValue("retail_discount_type"),

		EnableWholesale: checked("enable_wholesale"),
		WholesalePrice:  float("wholesale_price"),
		MinQtyWholesale: integer("min_qty_wholesale"),

		EnableWholesaleDiscount: checked("enable_wholesale_discount"),
		WholesaleDiscount:       float("wholesale_discount"),
		WholesaleDiscountType:   r.FormValue("wholesale_discount_type"),
	}
}

func pathIndex(r *http.Request) int {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return -1
	}
	return i
}

// uploadFiles pushes every file of a parsed multipart field to storage and
// returns the media URLs of those that made it
func (s *Server) uploadFiles(r *http.Request, field string, t media.Type) ([]string, error) {
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File[field]
	}
	if len(headers) == 0 {
		return nil, errors.Validation(msgNoFileChosen)
	}

	requester := s.requester(r)
	urls := make([]string, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return urls, errors.Wrapf(err, "open %s", fh.Filename)
		}
		mediaURL, err := s.uploader.Upload(r.Context(), requester, t, media.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		})
		_ = f.Close()
		if err != nil {
			return urls, err
		}
		urls = append(urls, mediaURL)
	}
	return urls, nil
}

func uploadType(kind seller.MediaKind) media.Type {
	if kind == seller.KindPromoVideo {
		return media.TypeVideo
	}
	return media.TypeImage
}
