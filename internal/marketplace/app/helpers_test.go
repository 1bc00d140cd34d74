package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/adapters/sqlstore"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixedTax charges the same amount on every line.
func fixedTax(amount string) domain.TaxPolicy {
	return func(domain.Product, decimal.Decimal) decimal.Decimal { return dec(amount) }
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// marketplace is a ledger over a fresh SQLite file with a customer and two
// vendors, each selling one product.
type marketplace struct {
	ctx    context.Context
	store  *sqlstore.Store
	ledger *Ledger

	customer         domain.User
	vendorA, vendorB domain.Vendor
	ownerA, ownerB   domain.User
	shirt, lamp      domain.Product
}

func newLedger(t *testing.T, opts Options) (*Ledger, *sqlstore.Store) {
	t.Helper()
	store, err := sqlstore.Open(context.Background(), sqlstore.DriverSQLite, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	if opts.Tax == nil {
		opts.Tax = fixedTax("2.00")
	}
	if opts.Logger == nil {
		opts.Logger = discard()
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return testNow }
	}
	return New(store, opts), store
}

func newMarketplace(t *testing.T, opts Options) *marketplace {
	t.Helper()
	ledger, store := newLedger(t, opts)
	m := &marketplace{ctx: context.Background(), store: store, ledger: ledger}

	m.customer = m.register(t, "buyer@example.com", domain.UserCustomer)
	m.ownerA = m.register(t, "alice@example.com", domain.UserVendor)
	m.ownerB = m.register(t, "bob@example.com", domain.UserVendor)
	m.vendorA = m.openStore(t, m.ownerA, "Alice Apparel")
	m.vendorB = m.openStore(t, m.ownerB, "Bob Lighting")
	m.shirt = m.product(t, m.vendorA, "Linen Shirt", "10.00", "2.50", 5)
	m.lamp = m.product(t, m.vendorB, "Desk Lamp", "25.00", "5.00", 3)
	return m
}

func (m *marketplace) register(t *testing.T, email string, kind domain.UserType) domain.User {
	t.Helper()
	u, _, err := m.ledger.RegisterUser(m.ctx, RegisterInput{Email: email, UserType: kind})
	require.NoError(t, err)
	return u
}

func (m *marketplace) openStore(t *testing.T, owner domain.User, name string) domain.Vendor {
	t.Helper()
	v, err := m.ledger.CreateVendor(m.ctx, VendorInput{UserID: owner.ID, StoreName: name})
	require.NoError(t, err)
	return v
}

func (m *marketplace) product(t *testing.T, v domain.Vendor, name, price, shipping string, stock int) domain.Product {
	t.Helper()
	p, err := m.ledger.CreateProduct(m.ctx, v.ID, domain.ProductInput{
		Name:         name,
		Price:        dec(price),
		RegularPrice: dec(price),
		Shipping:     dec(shipping),
		Stock:        stock,
	})
	require.NoError(t, err)
	return p
}

func (m *marketplace) add(t *testing.T, cartID string, p domain.Product, qty int) domain.CartLine {
	t.Helper()
	line, err := m.ledger.AddOrUpdateLine(m.ctx, AddLineInput{
		CartID: cartID, UserID: m.customer.ID, ProductID: p.ID, Qty: qty,
	})
	require.NoError(t, err)
	return line
}

func (m *marketplace) checkout(t *testing.T, cartID, key string) domain.Order {
	t.Helper()
	o, err := m.ledger.Checkout(m.ctx, CheckoutInput{
		CartID: cartID, CustomerID: m.customer.ID, PaymentMethod: domain.PaymentStripe, IdempotencyKey: key,
	})
	require.NoError(t, err)
	return o
}

// itemOf returns the item of o sold by vendorID.
func itemOf(t *testing.T, o domain.Order, vendorID string) domain.OrderItem {
	t.Helper()
	for _, it := range o.Items {
		if it.VendorID == vendorID {
			return it
		}
	}
	t.Fatalf("order %s has no item of vendor %s", o.ID, vendorID)
	return domain.OrderItem{}
}

// memCache is an in-memory ports.Cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	gets int
	err  error
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data[key] = value.(string)
	return nil
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.err != nil {
		return "", c.err
	}
	return c.data[key], nil
}

func (c *memCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

// countingRecorder counts metric events.
type countingRecorder struct {
	mu        sync.Mutex
	checkouts int
	coupons   int
	payouts   []decimal.Decimal
	published int
	failed    int
}

func (r *countingRecorder) OrderCheckedOut(int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkouts++
}

func (r *countingRecorder) CouponApplied() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons++
}

func (r *countingRecorder) PayoutCreated(amount decimal.Decimal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts = append(r.payouts, amount)
}

func (r *countingRecorder) OutboxPublish(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.published++
	} else {
		r.failed++
	}
}

var errBroker = errors.New("broker unavailable")
