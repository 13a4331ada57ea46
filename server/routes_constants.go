package server

// Route path constants
// All storefront routes are defined here to ensure consistency and prevent typos
const (
	// Shop
	RouteHome             = "/{$}"
	RouteSearch           = "/search"
	RouteCategoryProducts = "/category-products"
	RouteProduct          = "/products/{id}"
	RouteProductCartAdd   = "/products/{id}/cart/add"
	RouteProductCartSet   = "/products/{id}/cart/update"
	RouteReviews          = "/products/{id}/reviews"
	RouteReviewEdit       = "/products/{id}/reviews/{rid}/edit"
	RouteReviewArchive    = "/products/{id}/reviews/{rid}/archive"
	RouteCart             = "/cart"

	// Auth & account
	RouteLogin          = "/login"
	RouteAuthGoogle     = "/auth/google"
	RouteCallback       = "/auth/callback"
	RouteAuthLogout     = "/auth/logout"
	RouteBecomeSeller   = "/auth/become-seller"
	RouteSwitchMode     = "/auth/switch-mode"
	RouteAuthPathPrefix = "/auth/"

	// Seller console
	RouteSellerProfile   = "/seller/profile"
	RouteSellerDashboard = "/seller/dashboard"
	RouteSellerView      = "/seller/products/view/{id}"

	RouteDraft              = "/seller/products/new"
	RouteDraftDetails       = "/seller/products/new/details"
	RouteDraftCategory      = "/seller/products/new/category"
	RouteDraftCategoryReset = "/seller/products/new/category/reset"
	RouteDraftImages        = "/seller/products/new/images"
	RouteDraftImageRemove   = "/seller/products/new/images/{index}/remove"
	RouteDraftVideo         = "/seller/products/new/video"
	RouteDraftVideoRemove   = "/seller/products/new/video/remove"
	RouteDraftVariants      = "/seller/products/new/variants"
	RouteDraftVariant       = "/seller/products/new/variants/{index}"
	RouteDraftVariantRemove = "/seller/products/new/variants/{index}/remove"
	RouteDraftSubmit        = "/seller/products/new/submit"
	RouteSellerEdit         = "/seller/products/edit/{id}"
	RouteSellerEditInfo     = "/seller/products/edit/{id}/info"
	RouteSellerEditCategory = "/seller/products/edit/{id}/category"
	RouteSellerEditPrimary  = "/seller/products/edit/{id}/images/{mid}/primary"
	RouteSellerEditRemove   = "/seller/products/edit/{id}/media/{mid}/remove"
	RouteSellerEditAttach   = "/seller/products/edit/{id}/media"
	routeSellerViewPrefix   = "/seller/products/view/"
	routeSellerEditPrefix   = "/seller/products/edit/"
	routeProductPrefix      = "/products/"

	// Operations
	RouteMetrics  = "/metrics"
	RouteHealthz  = "/healthz"
	RouteFallback = "/"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
	RouteStaticJS  = "/js/{file}"
)
