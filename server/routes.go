package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return ChainMiddleware(h, s.HTMLMiddleWare(s.SessionMiddleware, s.GuardMiddleware)...)
	}

	// SHOP
	s.RegisterRouteFunc("GET "+RouteHome, page(s.IndexHandler()))
	s.RegisterRouteFunc("GET "+RouteSearch, page(s.SearchHandler()))
	s.RegisterRouteFunc("GET "+RouteCategoryProducts, page(s.CategoryProductsHandler()))
	s.RegisterRouteFunc("GET "+RouteProduct, page(s.ProductHandler()))
	s.RegisterRouteFunc("POST "+RouteProductCartAdd, page(s.AddToCartHandler()))
	s.RegisterRouteFunc("POST "+RouteProductCartSet, page(s.UpdateCartHandler()))
	s.RegisterRouteFunc("POST "+RouteReviews, page(s.CreateReviewHandler()))
	s.RegisterRouteFunc("POST "+RouteReviewEdit, page(s.EditReviewHandler()))
	s.RegisterRouteFunc("POST "+RouteReviewArchive, page(s.ArchiveReviewHandler()))
	s.RegisterRouteFunc("GET "+RouteCart, page(s.CartHandler()))

	// LOGIN
	s.RegisterRouteFunc("GET "+RouteLogin, page(s.LoginPageUIHandler()))
	s.RegisterRouteFunc("POST "+RouteAuthGoogle, page(s.GoogleLoginHandler()))
	s.RegisterRouteFunc("GET "+RouteCallback, page(s.OAuthCallbackHandler()))
	s.RegisterRouteFunc("POST "+RouteAuthLogout, page(s.LogoutHandler()))
	s.RegisterRouteFunc("GET "+RouteBecomeSeller, page(s.BecomeSellerHandler()))
	s.RegisterRouteFunc("POST "+RouteSwitchMode, page(s.SwitchModeHandler()))

	// SELLER
	s.RegisterRouteFunc("GET "+RouteSellerProfile, page(s.SellerProfileHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerProfile, page(s.SellerProfileSubmitHandler()))
	s.RegisterRouteFunc("GET "+RouteSellerDashboard, page(s.SellerDashboardHandler()))
	s.RegisterRouteFunc("GET "+RouteSellerView, page(s.SellerProductViewHandler()))

	s.RegisterRouteFunc("GET "+RouteDraft, page(s.DraftHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftDetails, page(s.DraftDetailsHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftCategory, page(s.DraftCategoryHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftCategoryReset, page(s.DraftCategoryResetHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftImages, page(s.DraftImagesHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftImageRemove, page(s.DraftImageRemoveHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftVideo, page(s.DraftVideoHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftVideoRemove, page(s.DraftVideoRemoveHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftVariants, page(s.DraftVariantAddHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftVariant, page(s.DraftVariantSetHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftVariantRemove, page(s.DraftVariantRemoveHandler()))
	s.RegisterRouteFunc("POST "+RouteDraftSubmit, page(s.DraftSubmitHandler()))

	s.RegisterRouteFunc("GET "+RouteSellerEdit, page(s.SellerEditHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerEditInfo, page(s.SellerEditInfoHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerEditCategory, page(s.SellerEditCategoryHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerEditPrimary, page(s.SellerEditPrimaryHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerEditRemove, page(s.SellerEditRemoveMediaHandler()))
	s.RegisterRouteFunc("POST "+RouteSellerEditAttach, page(s.SellerEditAttachMediaHandler()))

	// OPERATIONS
	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteHealthz, s.HealthHandler())

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))

	// Unmatched paths still pass the guard, so /checkout and /profile redirect like real pages
	s.RegisterRouteFunc("GET "+RouteFallback, page(s.NotFoundHandler()))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError(r.Method, filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthHandler reports liveness and whether persisted sessions are restored yet
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if !s.sessions.HasHydrated() {
			_, _ = w.Write([]byte("ok (hydrating)\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}
