package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmcortes/shoplane-backend/api/controllers"
	"github.com/dmcortes/shoplane-backend/api/middleware"
	"github.com/dmcortes/shoplane-backend/internal/address"
	"github.com/dmcortes/shoplane-backend/internal/auth"
	"github.com/dmcortes/shoplane-backend/internal/cart"
	"github.com/dmcortes/shoplane-backend/internal/catalog"
	checkoutsvc "github.com/dmcortes/shoplane-backend/internal/checkout"
	"github.com/dmcortes/shoplane-backend/internal/orders"
	"github.com/dmcortes/shoplane-backend/internal/payments"
	"github.com/dmcortes/shoplane-backend/internal/users"
	"github.com/dmcortes/shoplane-backend/pkg/auth/session"
	"github.com/dmcortes/shoplane-backend/pkg/config"
	"github.com/dmcortes/shoplane-backend/pkg/db"
	"github.com/dmcortes/shoplane-backend/pkg/logger"
	"github.com/dmcortes/shoplane-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionManager *session.Manager

	Auth     auth.Service
	Users    users.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Address  address.Service
	Payments payments.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.Frontend.BaseURL),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(d.Auth, logg))
		r.Post("/login", controllers.AuthLogin(d.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(d.Auth, logg))
		r.Post("/password-reset-request", controllers.AuthForgotPassword(d.Auth, logg))
		r.Post("/reset-password", controllers.AuthResetPassword(d.Auth, logg))
		r.Get("/google", controllers.AuthGoogleRedirect(d.Auth, logg))
		r.Get("/google/callback", controllers.AuthGoogleCallback(d.Auth, cfg.Frontend.BaseURL, logg))
		r.Post("/google/callback", controllers.AuthGoogleCallback(d.Auth, cfg.Frontend.BaseURL, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
		})
	})

	// Public catalog reads.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(d.Catalog, logg))
		r.Get("/{productId}", controllers.ProductGet(d.Catalog, logg))
	})
	r.Get("/api/v1/categories", controllers.CategoryList(d.Catalog, logg))
	r.Get("/api/v1/categories/{categoryId}", controllers.CategoryGet(d.Catalog, logg))

	// Attached per-endpoint so the route pattern is resolved before the
	// middleware runs.
	idem := middleware.Idempotency(d.Redis, cfg.Checkout.IdempotencyTTL, logg)

	// Authenticated surface.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionManager, logg))

		r.Get("/api/v1/users/profile", controllers.Profile(d.Users, logg))

		r.Route("/api/v1/users/{userId}", func(r chi.Router) {
			r.Use(middleware.RequireSelfOrAdmin("userId", logg))
			r.Get("/", controllers.UserGet(d.Users, logg))
			r.Put("/", controllers.UserUpdate(d.Users, logg))
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Put("/items/{productId}", controllers.CartUpdateItem(d.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Post("/merge", controllers.CartMerge(d.Cart, logg))
			r.With(idem).Post("/{cartId}/checkout", controllers.Checkout(d.Checkout, logg))
		})

		r.With(idem).Post("/api/v1/payments/create-payment-intent", controllers.PaymentIntentCreate(d.Payments, logg))

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(d.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(d.Orders, logg))
		})

		r.Route("/api/v1/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(d.Address, logg))
			r.Post("/", controllers.AddressCreate(d.Address, logg))
			r.Get("/{addressId}", controllers.AddressGet(d.Address, logg))
		})

		// Admin-only surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/api/v1/users", controllers.UserList(d.Users, logg))
			r.Post("/api/v1/products", controllers.ProductCreate(d.Catalog, logg))
			r.Put("/api/v1/products/{productId}", controllers.ProductUpdate(d.Catalog, logg))
			r.Delete("/api/v1/products/{productId}", controllers.ProductDelete(d.Catalog, logg))
			r.Post("/api/v1/categories", controllers.CategoryCreate(d.Catalog, logg))
			r.Delete("/api/v1/categories/{categoryId}", controllers.CategoryDelete(d.Catalog, logg))
			r.Delete("/api/v1/orders/{orderId}", controllers.OrderDelete(d.Orders, logg))
		})
	})

	return r
}
