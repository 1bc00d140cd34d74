// Package ports declares the interfaces the marketplace services depend on.
// Adapters (SQL store, Redis, Kafka) implement them; services never import an
// adapter directly, so tests can swap any of them.
package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

type CatalogRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)

	CreateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error)
	UpdateProductPricing(ctx context.Context, id string, price, regularPrice decimal.Decimal, stock int) error
	// TakeStock decrements stock by qty and fails with domain.ErrOutOfStock
	// when fewer than qty units remain.
	TakeStock(ctx context.Context, productID string, qty int) error

	CreateVariant(ctx context.Context, v *domain.Variant) error
	ListVariants(ctx context.Context, productID string) ([]domain.Variant, error)
	AddGalleryImage(ctx context.Context, g *domain.GalleryImage) error
	ListGallery(ctx context.Context, productID string) ([]domain.GalleryImage, error)
}

type AccountRepository interface {
	CreateUser(ctx context.Context, u *domain.User, p *domain.Profile) error
	GetUser(ctx context.Context, id string) (domain.User, domain.Profile, error)
	CreateVendor(ctx context.Context, v *domain.Vendor) error
	GetVendor(ctx context.Context, id string) (domain.Vendor, error)
	UpsertBankAccount(ctx context.Context, a domain.BankAccount) error
	GetBankAccount(ctx context.Context, vendorID string) (domain.BankAccount, error)
}

type CartRepository interface {
	// UpsertCartLine inserts line or overwrites the line with the same
	// (cart, product, size, color) key; line.ID is set to the stored id.
	UpsertCartLine(ctx context.Context, line *domain.CartLine) error
	DeleteCartLine(ctx context.Context, cartID, lineID string) error
	ListCartLines(ctx context.Context, cartID string) ([]domain.CartLine, error)
	ClearCart(ctx context.Context, cartID string) error
}

type CouponRepository interface {
	CreateCoupon(ctx context.Context, c *domain.Coupon) error
	SetCouponActive(ctx context.Context, id string, active bool) error
	FindCouponsByCode(ctx context.Context, code string) ([]domain.Coupon, error)
	ListVendorCoupons(ctx context.Context, vendorID string) ([]domain.Coupon, error)
}

type OrderRepository interface {
	// CreateOrder inserts the order, its items and its vendor set.
	CreateOrder(ctx context.Context, o *domain.Order) error
	GetOrder(ctx context.Context, id string) (domain.Order, error)
	// GetOrderForUpdate reads the order and locks its row until the
	// transaction ends.
	GetOrderForUpdate(ctx context.Context, id string) (domain.Order, error)
	GetOrderByCode(ctx context.Context, code string) (domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, customerID, key string) (domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error)
	// UpdateOrder writes totals, statuses and payment fields guarded by
	// o.Version and bumps it; a stale version yields
	// domain.ErrConcurrencyConflict.
	UpdateOrder(ctx context.Context, o *domain.Order) error

	GetOrderItem(ctx context.Context, id string) (domain.OrderItem, error)
	GetOrderItemForUpdate(ctx context.Context, id string) (domain.OrderItem, error)
	ListVendorItems(ctx context.Context, vendorID string) ([]domain.OrderItem, error)
	// UpdateOrderItem writes the mutable item fields guarded by item.Version.
	UpdateOrderItem(ctx context.Context, item *domain.OrderItem) error
}

type PayoutRepository interface {
	// CreatePayout fails with domain.ErrAlreadyPaidOut when the item already
	// has a payout, including when a concurrent insert won the race.
	CreatePayout(ctx context.Context, p *domain.Payout) error
	GetPayoutByItem(ctx context.Context, itemID string) (domain.Payout, error)
	ListVendorPayouts(ctx context.Context, vendorID string) ([]domain.Payout, error)
}

type EngagementRepository interface {
	CreateNotification(ctx context.Context, n *domain.Notification) error
	ListNotifications(ctx context.Context, userID string, unseenOnly bool) ([]domain.Notification, error)
	MarkNotificationSeen(ctx context.Context, id string) error

	CreateReview(ctx context.Context, r *domain.Review) error
	GetReview(ctx context.Context, id string) (domain.Review, error)
	UpdateReview(ctx context.Context, r domain.Review) error
	ListProductReviews(ctx context.Context, productID string, activeOnly bool) ([]domain.Review, error)

	AddWishlist(ctx context.Context, e domain.WishlistEntry) error
	RemoveWishlist(ctx context.Context, e domain.WishlistEntry) (bool, error)
	ListWishlist(ctx context.Context, userID string) ([]domain.Product, error)

	SaveAddress(ctx context.Context, a *domain.Address) error
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
}

type HistoryRepository interface {
	AppendStatusChange(ctx context.Context, c domain.StatusChange) error
	ListStatusChanges(ctx context.Context, entity, entityID string) ([]domain.StatusChange, error)
}

type OutboxRepository interface {
	InsertOutbox(ctx context.Context, r domain.OutboxRecord) error
	FetchPendingOutbox(ctx context.Context, limit int) ([]domain.OutboxRecord, error)
	MarkOutboxSent(ctx context.Context, id int64, at time.Time) error
}

// Repository is everything a service can read or write, either directly or
// inside a transaction.
type Repository interface {
	CatalogRepository
	AccountRepository
	CartRepository
	CouponRepository
	OrderRepository
	PayoutRepository
	EngagementRepository
	HistoryRepository
	OutboxRepository
}

// Store opens transactions over a Repository. fn's writes commit together
// when it returns nil and roll back otherwise.
type Store interface {
	Repository
	WithTx(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error
	Close() error
}
