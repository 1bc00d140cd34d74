package httpx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/adapters/httpx/middlewares"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/metrics"
)

type RouterOptions struct {
	Logger *slog.Logger
	// Metrics and MetricsHandler are optional.
	Metrics        *metrics.ServerMetrics
	MetricsHandler http.Handler
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.Trace)
	r.Use(middlewares.AttachTracingMetadata)
	r.Use(middlewares.Logger(opts.Logger))
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(middlewares.Metrics(opts.Metrics))
	}

	r.Get("/health", handler.Health)
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/users", handler.RegisterUser)
		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", handler.GetUser)
			r.Get("/orders", handler.ListCustomerOrders)
			r.Get("/wishlist", handler.ListWishlist)
			r.Post("/wishlist/{productID}", handler.ToggleWishlist)
			r.Get("/addresses", handler.ListAddresses)
			r.Post("/addresses", handler.SaveAddress)
			r.Put("/addresses/{addressID}", handler.SaveAddress)
			r.Get("/notifications", handler.ListNotifications)
		})
		r.Post("/notifications/{id}/seen", handler.MarkNotificationSeen)

		r.Post("/vendors", handler.CreateVendor)
		r.Route("/vendors/{id}", func(r chi.Router) {
			r.Get("/", handler.GetVendor)
			r.Get("/bank-account", handler.GetBankAccount)
			r.Put("/bank-account", handler.SetBankAccount)
			r.Post("/products", handler.CreateProduct)
			r.Get("/coupons", handler.ListVendorCoupons)
			r.Post("/coupons", handler.CreateCoupon)
			r.Get("/items", handler.ListVendorItems)
			r.Get("/payouts", handler.ListVendorPayouts)
			r.Get("/earnings", handler.VendorEarnings)
		})
		r.Patch("/coupons/{id}", handler.SetCouponActive)

		r.Get("/categories", handler.ListCategories)
		r.Post("/categories", handler.CreateCategory)

		r.Get("/products", handler.ListProducts)
		r.Get("/products/slug/{slug}", handler.GetProductBySlug)
		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/", handler.GetProduct)
			r.Patch("/pricing", handler.UpdatePricing)
			r.Get("/variants", handler.ListVariants)
			r.Post("/variants", handler.AddVariant)
			r.Get("/gallery", handler.ListGallery)
			r.Post("/gallery", handler.AddGalleryImage)
			r.Get("/reviews", handler.ListReviews)
			r.Post("/reviews", handler.AddReview)
		})
		r.Patch("/reviews/{id}", handler.UpdateReview)

		r.Route("/carts/{cartID}", func(r chi.Router) {
			r.Get("/", handler.GetCart)
			r.Delete("/", handler.ClearCart)
			r.Post("/lines", handler.AddLine)
			r.Delete("/lines/{lineID}", handler.RemoveLine)
			r.Post("/checkout", handler.Checkout)
		})

		r.Get("/orders/code/{code}", handler.GetOrderByCode)
		r.Route("/orders/{id}", func(r chi.Router) {
			r.Get("/", handler.GetOrder)
			r.Patch("/status", handler.MarkOrderStatus)
			r.Patch("/payment", handler.MarkPaymentStatus)
			r.Get("/history", handler.OrderHistory)
		})

		r.Route("/order-items/{id}", func(r chi.Router) {
			r.Get("/", handler.GetOrderItem)
			r.Patch("/status", handler.MarkItemStatus)
			r.Post("/coupon", handler.ApplyCoupon)
			r.Post("/payout", handler.CreatePayout)
			r.Get("/history", handler.ItemHistory)
		})
	})
	return r
}
