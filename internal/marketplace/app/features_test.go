package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/adapters/sqlstore"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

const featureCart = "feature-cart"

type ledgerTestContext struct {
	dir      string
	store    *sqlstore.Store
	ledger   *Ledger
	customer domain.User
	vendors  map[string]domain.Vendor
	products map[string]domain.Product
	order    domain.Order
	payout   domain.Payout
	err      error
}

func (c *ledgerTestContext) reset(ctx context.Context) error {
	dir, err := os.MkdirTemp("", "ledger-feature-*")
	if err != nil {
		return err
	}
	store, err := sqlstore.Open(ctx, sqlstore.DriverSQLite, filepath.Join(dir, "ledger.db"))
	if err != nil {
		return err
	}
	*c = ledgerTestContext{
		dir:      dir,
		store:    store,
		ledger:   New(store, Options{Logger: discard()}),
		vendors:  map[string]domain.Vendor{},
		products: map[string]domain.Product{},
	}
	c.customer, _, err = c.ledger.RegisterUser(ctx, RegisterInput{Email: "customer@example.com"})
	return err
}

func (c *ledgerTestContext) close() {
	if c.store != nil {
		_ = c.store.Close()
	}
	if c.dir != "" {
		_ = os.RemoveAll(c.dir)
	}
}

func (c *ledgerTestContext) aLineTaxOf(amount string) error {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	c.ledger.opts.Tax = func(domain.Product, decimal.Decimal) decimal.Decimal { return d }
	return nil
}

func (c *ledgerTestContext) aServiceFeeOfPercent(percent string) error {
	d, err := decimal.NewFromString(percent)
	if err != nil {
		return err
	}
	c.ledger.opts.ServiceFeePercent = d
	return nil
}

func (c *ledgerTestContext) vendor(ctx context.Context, name string) (domain.Vendor, error) {
	if v, ok := c.vendors[name]; ok {
		return v, nil
	}
	u, _, err := c.ledger.RegisterUser(ctx, RegisterInput{Email: name + "@example.com", UserType: domain.UserVendor})
	if err != nil {
		return domain.Vendor{}, err
	}
	v, err := c.ledger.CreateVendor(ctx, VendorInput{UserID: u.ID, StoreName: name})
	if err != nil {
		return domain.Vendor{}, err
	}
	c.vendors[name] = v
	return v, nil
}

func (c *ledgerTestContext) vendorSells(ctx context.Context, vendor, product, price, shipping string, stock int) error {
	v, err := c.vendor(ctx, vendor)
	if err != nil {
		return err
	}
	p, err := c.ledger.CreateProduct(ctx, v.ID, domain.ProductInput{
		Name:         product,
		Price:        decimal.RequireFromString(price),
		RegularPrice: decimal.RequireFromString(price),
		Shipping:     decimal.RequireFromString(shipping),
		Stock:        stock,
	})
	if err != nil {
		return err
	}
	c.products[product] = p
	return nil
}

func (c *ledgerTestContext) vendorOffersCoupon(ctx context.Context, vendor, code string, discount int) error {
	v, err := c.vendor(ctx, vendor)
	if err != nil {
		return err
	}
	_, err = c.ledger.CreateCoupon(ctx, v.ID, code, discount)
	return err
}

func (c *ledgerTestContext) theCartHolds(ctx context.Context, qty int, product string) error {
	_, err := c.ledger.AddOrUpdateLine(ctx, AddLineInput{
		CartID: featureCart, UserID: c.customer.ID, ProductID: c.products[product].ID, Qty: qty,
	})
	return err
}

func (c *ledgerTestContext) checkout(ctx context.Context) error {
	c.order, c.err = c.ledger.Checkout(ctx, CheckoutInput{
		CartID: featureCart, CustomerID: c.customer.ID, PaymentMethod: domain.PaymentStripe,
	})
	return c.err
}

func (c *ledgerTestContext) theCustomerChecksOut(ctx context.Context) error {
	return c.checkout(ctx)
}

func (c *ledgerTestContext) theCustomerAttemptsToCheckOut(ctx context.Context) error {
	_ = c.checkout(ctx)
	return nil
}

func (c *ledgerTestContext) itemOf(product string) (domain.OrderItem, error) {
	for _, it := range c.order.Items {
		if it.ProductID == c.products[product].ID {
			return it, nil
		}
	}
	return domain.OrderItem{}, fmt.Errorf("order has no item of %q", product)
}

func (c *ledgerTestContext) applyCoupon(ctx context.Context, code, product string) error {
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	_, c.err = c.ledger.ApplyCoupon(ctx, it.ID, code)
	return c.err
}

func (c *ledgerTestContext) couponIsApplied(ctx context.Context, code, product string) error {
	return c.applyCoupon(ctx, code, product)
}

func (c *ledgerTestContext) anAttemptToApplyCoupon(ctx context.Context, code, product string) error {
	_ = c.applyCoupon(ctx, code, product)
	return nil
}

func (c *ledgerTestContext) theItemIsFulfilled(ctx context.Context, product string) error {
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	for _, s := range []domain.OrderStatus{domain.StatusProcessing, domain.StatusShipped, domain.StatusFulfilled} {
		if _, err := c.ledger.MarkItemStatus(ctx, ItemStatusInput{ItemID: it.ID, Status: s}); err != nil {
			return err
		}
	}
	return nil
}

func (c *ledgerTestContext) anAttemptToMoveTheItem(ctx context.Context, product, status string) error {
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	_, c.err = c.ledger.MarkItemStatus(ctx, ItemStatusInput{ItemID: it.ID, Status: domain.OrderStatus(status)})
	return nil
}

func (c *ledgerTestContext) payOut(ctx context.Context, product string) error {
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	c.payout, c.err = c.ledger.CreatePayout(ctx, it.ID)
	return c.err
}

func (c *ledgerTestContext) aPayoutIsMade(ctx context.Context, product string) error {
	return c.payOut(ctx, product)
}

func (c *ledgerTestContext) anAttemptToPayOut(ctx context.Context, product string) error {
	_ = c.payOut(ctx, product)
	return nil
}

func (c *ledgerTestContext) refreshOrder(ctx context.Context) error {
	o, err := c.ledger.GetOrder(ctx, c.order.ID)
	if err != nil {
		return err
	}
	c.order = o
	return nil
}

func (c *ledgerTestContext) theOrderTotalIs(ctx context.Context, want string) error {
	if err := c.refreshOrder(ctx); err != nil {
		return err
	}
	if got := c.order.Total.StringFixed(2); got != want {
		return fmt.Errorf("expected order total %s, got %s", want, got)
	}
	if !c.order.Balanced() {
		return fmt.Errorf("order %s does not balance", c.order.ID)
	}
	return nil
}

func (c *ledgerTestContext) theItemTotals(ctx context.Context, product, want string) error {
	if err := c.refreshOrder(ctx); err != nil {
		return err
	}
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	if got := it.Total.StringFixed(2); got != want {
		return fmt.Errorf("expected item total %s, got %s", want, got)
	}
	return nil
}

func (c *ledgerTestContext) theItemIs(ctx context.Context, product, status string) error {
	if err := c.refreshOrder(ctx); err != nil {
		return err
	}
	it, err := c.itemOf(product)
	if err != nil {
		return err
	}
	if string(it.OrderStatus) != status {
		return fmt.Errorf("expected item status %s, got %s", status, it.OrderStatus)
	}
	return nil
}

func (c *ledgerTestContext) theOrderListsVendors(n int) error {
	if len(c.order.VendorIDs) != n {
		return fmt.Errorf("expected %d vendors, got %v", n, c.order.VendorIDs)
	}
	return nil
}

func (c *ledgerTestContext) productHasInStock(ctx context.Context, product string, want int) error {
	p, err := c.ledger.GetProduct(ctx, c.products[product].ID)
	if err != nil {
		return err
	}
	if p.Stock != want {
		return fmt.Errorf("expected %d %s in stock, got %d", want, product, p.Stock)
	}
	return nil
}

func (c *ledgerTestContext) theCartIsEmpty(ctx context.Context) error {
	lines, err := c.ledger.ListLines(ctx, featureCart)
	if err != nil {
		return err
	}
	if len(lines) != 0 {
		return fmt.Errorf("expected an empty cart, got %d lines", len(lines))
	}
	return nil
}

func (c *ledgerTestContext) theCustomerHasOrders(ctx context.Context, n int) error {
	orders, err := c.ledger.ListCustomerOrders(ctx, c.customer.ID)
	if err != nil {
		return err
	}
	if len(orders) != n {
		return fmt.Errorf("expected %d orders, got %d", n, len(orders))
	}
	return nil
}

func (c *ledgerTestContext) vendorHasEarned(ctx context.Context, vendor, want string) error {
	total, err := c.ledger.VendorEarnings(ctx, c.vendors[vendor].ID)
	if err != nil {
		return err
	}
	if got := total.StringFixed(2); got != want {
		return fmt.Errorf("expected %s to have earned %s, got %s", vendor, want, got)
	}
	return nil
}

func (c *ledgerTestContext) theRequestFailsWith(code string) error {
	if c.err == nil {
		return errors.New("expected an error, got none")
	}
	var de *domain.Error
	if !errors.As(c.err, &de) {
		return fmt.Errorf("expected a ledger error, got %v", c.err)
	}
	if de.Code != code {
		return fmt.Errorf("expected error code %q, got %q (%v)", code, de.Code, c.err)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &ledgerTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.close()
		return ctx, tc.reset(ctx)
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.close()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a line tax of "([^"]*)"$`, tc.aLineTaxOf)
	ctx.Step(`^a service fee of "([^"]*)" percent$`, tc.aServiceFeeOfPercent)
	ctx.Step(`^vendor "([^"]*)" sells "([^"]*)" at "([^"]*)" with shipping "([^"]*)" and stock (\d+)$`, tc.vendorSells)
	ctx.Step(`^vendor "([^"]*)" offers coupon "([^"]*)" at (\d+) percent$`, tc.vendorOffersCoupon)
	ctx.Step(`^the cart holds (\d+) of "([^"]*)"$`, tc.theCartHolds)

	// When steps
	ctx.Step(`^the customer checks out$`, tc.theCustomerChecksOut)
	ctx.Step(`^the customer attempts to check out$`, tc.theCustomerAttemptsToCheckOut)
	ctx.Step(`^coupon "([^"]*)" is applied to the item of "([^"]*)"$`, tc.couponIsApplied)
	ctx.Step(`^an attempt is made to apply coupon "([^"]*)" to the item of "([^"]*)"$`, tc.anAttemptToApplyCoupon)
	ctx.Step(`^the item of "([^"]*)" is fulfilled$`, tc.theItemIsFulfilled)
	ctx.Step(`^an attempt is made to move the item of "([^"]*)" to "([^"]*)"$`, tc.anAttemptToMoveTheItem)
	ctx.Step(`^a payout is made for the item of "([^"]*)"$`, tc.aPayoutIsMade)
	ctx.Step(`^an attempt is made to pay out the item of "([^"]*)"$`, tc.anAttemptToPayOut)

	// Then steps
	ctx.Step(`^the order total is "([^"]*)"$`, tc.theOrderTotalIs)
	ctx.Step(`^the item of "([^"]*)" totals "([^"]*)"$`, tc.theItemTotals)
	ctx.Step(`^the item of "([^"]*)" is "([^"]*)"$`, tc.theItemIs)
	ctx.Step(`^the order lists (\d+) vendors$`, tc.theOrderListsVendors)
	ctx.Step(`^"([^"]*)" has (\d+) in stock$`, tc.productHasInStock)
	ctx.Step(`^the cart is empty$`, tc.theCartIsEmpty)
	ctx.Step(`^the customer has (\d+) orders$`, tc.theCustomerHasOrders)
	ctx.Step(`^vendor "([^"]*)" has earned "([^"]*)"$`, tc.vendorHasEarned)
	ctx.Step(`^the request fails with "([^"]*)"$`, tc.theRequestFailsWith)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/ledger.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
