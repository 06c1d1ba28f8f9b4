package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calderagroup/procuremart-backend/api/controllers"
	"github.com/calderagroup/procuremart-backend/api/middleware"
	"github.com/calderagroup/procuremart-backend/internal/analytics"
	"github.com/calderagroup/procuremart-backend/internal/auth"
	"github.com/calderagroup/procuremart-backend/internal/cart"
	checkoutsvc "github.com/calderagroup/procuremart-backend/internal/checkout"
	"github.com/calderagroup/procuremart-backend/internal/dashboard"
	"github.com/calderagroup/procuremart-backend/internal/notifications"
	"github.com/calderagroup/procuremart-backend/internal/orders"
	"github.com/calderagroup/procuremart-backend/internal/products"
	"github.com/calderagroup/procuremart-backend/internal/quotes"
	"github.com/calderagroup/procuremart-backend/internal/suppliers"
	"github.com/calderagroup/procuremart-backend/internal/uploads"
	"github.com/calderagroup/procuremart-backend/internal/users"
	"github.com/calderagroup/procuremart-backend/pkg/auth/session"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	"github.com/calderagroup/procuremart-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Grouping them in a struct
// keeps the constructor signature stable as endpoints come and go.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *redis.Client

	Sessions session.AccessSessionChecker

	AuthService          auth.Service
	RegisterService      auth.RegisterService
	AdminRegisterService auth.AdminRegisterService

	ProductService      products.Service
	CartService         cart.Service
	CheckoutService     checkoutsvc.Service
	OrdersRepo          orders.Repository
	OrdersService       orders.Service
	QuoteService        quotes.Service
	NotificationService notifications.Service
	DashboardService    dashboard.Service
	AnalyticsService    analytics.Service
	UploadService       uploads.Service

	UserRepo     *users.Repository
	SupplierRepo *suppliers.Repository
	CategoryRepo *products.CategoryRepository

	HealthChecks map[string]controllers.Pinger
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.HealthChecks))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(deps.AdminRegisterService, deps.AuthService, cfg, logg))
		}
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	// Public catalog browsing needs no session.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/products", controllers.CatalogList(deps.ProductService, logg))
		r.Get("/products/{productId}", controllers.CatalogDetail(deps.ProductService, logg))
		r.Get("/categories", controllers.CatalogCategories(deps.ProductService, logg))
		r.Get("/suppliers", controllers.SupplierDirectory(deps.SupplierRepo, logg, true))
		r.Get("/suppliers/{supplierId}", controllers.SupplierProfileDetail(deps.SupplierRepo, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItem(deps.CartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(deps.CheckoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.BuyerOrderList(deps.OrdersRepo, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.BuyerOrderCancel(deps.OrdersService, logg))
		})

		r.Route("/quotes", func(r chi.Router) {
			r.Get("/", controllers.QuoteList(deps.QuoteService, logg))
			r.Post("/", controllers.QuoteCreate(deps.QuoteService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUserType(logg, enums.UserTypeSupplier))
				r.Use(middleware.RequireSupplierContext(logg))
				r.Post("/{quoteId}/respond", controllers.QuoteRespond(deps.QuoteService, logg))
				r.Post("/{quoteId}/decline", controllers.QuoteDecline(deps.QuoteService, logg))
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationList(deps.NotificationService, logg))
			r.Post("/{notificationId}/read", controllers.NotificationMarkRead(deps.NotificationService, logg))
			r.Post("/read-all", controllers.NotificationMarkAllRead(deps.NotificationService, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/buyer", controllers.DashboardBuyer(deps.DashboardService, logg))
			r.With(
				middleware.RequireUserType(logg, enums.UserTypeSupplier),
				middleware.RequireSupplierContext(logg),
			).Get("/supplier", controllers.DashboardSupplier(deps.DashboardService, logg))
		})

		r.Route("/supplier", func(r chi.Router) {
			r.Use(middleware.RequireUserType(logg, enums.UserTypeSupplier))
			r.Use(middleware.RequireSupplierContext(logg))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.SupplierProductList(deps.ProductService, logg))
				r.Post("/", controllers.SupplierProductCreate(deps.ProductService, logg))
				r.Patch("/{productId}", controllers.SupplierProductUpdate(deps.ProductService, logg))
				r.Delete("/{productId}", controllers.SupplierProductDelete(deps.ProductService, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.SupplierOrderList(deps.OrdersRepo, logg))
				r.Post("/{orderId}/status", controllers.SupplierOrderStatus(deps.OrdersService, logg))
			})

			r.Route("/uploads", func(r chi.Router) {
				r.Post("/product-image", controllers.UploadProductImage(deps.UploadService, logg))
				r.Post("/logo", controllers.UploadSupplierLogo(deps.UploadService, logg))
			})
			r.Put("/profile/logo", controllers.SupplierLogoCommit(deps.SupplierRepo, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireUserType(logg, enums.UserTypeAdmin))
		r.Use(middleware.Idempotency(deps.Redis, logg))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(deps.UserRepo, logg))
			r.Post("/{userId}/activate", controllers.AdminUserSetActive(deps.UserRepo, logg, true))
			r.Post("/{userId}/deactivate", controllers.AdminUserSetActive(deps.UserRepo, logg, false))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierDirectory(deps.SupplierRepo, logg, false))
			r.Post("/{supplierId}/verify", controllers.AdminSupplierSetVerified(deps.SupplierRepo, logg, true))
			r.Post("/{supplierId}/unverify", controllers.AdminSupplierSetVerified(deps.SupplierRepo, logg, false))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(deps.OrdersRepo, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.Post("/{orderId}/status", controllers.AdminOrderStatus(deps.OrdersService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(deps.CategoryRepo, logg))
			r.Post("/{categoryId}/active", controllers.AdminCategorySetActive(deps.CategoryRepo, logg))
		})

		r.Get("/analytics/marketplace", controllers.AdminMarketplaceAnalytics(deps.AnalyticsService, logg))
	})

	return r
}
