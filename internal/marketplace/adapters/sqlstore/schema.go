package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// The two schemas differ only in column types: SQLite keeps money and
// timestamps as TEXT, PostgreSQL as NUMERIC(12,2) and TIMESTAMPTZ.
// Constraint names are referenced by uniqueRules.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    email       TEXT NOT NULL,
    username    TEXT NOT NULL,
    created_at  {{ts}} NOT NULL,
    CONSTRAINT uq_users_email UNIQUE (email),
    CONSTRAINT uq_users_username UNIQUE (username)
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id    TEXT PRIMARY KEY REFERENCES users(id),
    full_name  TEXT NOT NULL DEFAULT '',
    mobile     TEXT NOT NULL DEFAULT '',
    user_type  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vendors (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users(id),
    store_name   TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    country      TEXT NOT NULL DEFAULT '',
    code         TEXT NOT NULL,
    slug         TEXT NOT NULL,
    created_at   {{ts}} NOT NULL,
    CONSTRAINT uq_vendors_user UNIQUE (user_id),
    CONSTRAINT uq_vendors_slug UNIQUE (slug),
    CONSTRAINT uq_vendors_code UNIQUE (code)
);

CREATE TABLE IF NOT EXISTS bank_accounts (
    vendor_id       TEXT PRIMARY KEY REFERENCES vendors(id),
    account_type    TEXT NOT NULL DEFAULT '',
    bank_name       TEXT NOT NULL,
    account_number  TEXT NOT NULL,
    bank_code       TEXT NOT NULL DEFAULT '',
    stripe_id       TEXT NOT NULL DEFAULT '',
    paypal_address  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS categories (
    id     TEXT PRIMARY KEY,
    title  TEXT NOT NULL,
    slug   TEXT NOT NULL,
    CONSTRAINT uq_categories_slug UNIQUE (slug)
);

CREATE TABLE IF NOT EXISTS products (
    id             TEXT PRIMARY KEY,
    vendor_id      TEXT NOT NULL REFERENCES vendors(id),
    category_id    TEXT REFERENCES categories(id),
    name           TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    price          {{money}} NOT NULL,
    regular_price  {{money}} NOT NULL,
    stock          INTEGER NOT NULL CHECK (stock >= 0),
    shipping       {{money}} NOT NULL,
    status         TEXT NOT NULL,
    featured       {{bool}} NOT NULL,
    sku            TEXT NOT NULL,
    slug           TEXT NOT NULL,
    created_at     {{ts}} NOT NULL,
    CONSTRAINT uq_products_slug UNIQUE (slug),
    CONSTRAINT uq_products_sku UNIQUE (sku)
);
CREATE INDEX IF NOT EXISTS idx_products_vendor ON products(vendor_id);

CREATE TABLE IF NOT EXISTS variants (
    id          TEXT PRIMARY KEY,
    product_id  TEXT NOT NULL REFERENCES products(id),
    name        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS variant_items (
    id          TEXT PRIMARY KEY,
    variant_id  TEXT NOT NULL REFERENCES variants(id) ON DELETE CASCADE,
    title       TEXT NOT NULL,
    content     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS gallery_images (
    id          TEXT PRIMARY KEY,
    product_id  TEXT NOT NULL REFERENCES products(id),
    image       TEXT NOT NULL,
    code        TEXT NOT NULL,
    CONSTRAINT uq_gallery_code UNIQUE (code)
);

CREATE TABLE IF NOT EXISTS cart_lines (
    id          TEXT PRIMARY KEY,
    cart_id     TEXT NOT NULL,
    user_id     TEXT NOT NULL DEFAULT '',
    product_id  TEXT NOT NULL REFERENCES products(id),
    vendor_id   TEXT NOT NULL,
    qty         INTEGER NOT NULL,
    price       {{money}} NOT NULL,
    sub_total   {{money}} NOT NULL,
    shipping    {{money}} NOT NULL,
    tax         {{money}} NOT NULL,
    total       {{money}} NOT NULL,
    size        TEXT NOT NULL DEFAULT '',
    color       TEXT NOT NULL DEFAULT '',
    created_at  {{ts}} NOT NULL,
    CONSTRAINT uq_cart_lines_key UNIQUE (cart_id, product_id, size, color)
);

CREATE TABLE IF NOT EXISTS coupons (
    id         TEXT PRIMARY KEY,
    vendor_id  TEXT NOT NULL REFERENCES vendors(id),
    code       TEXT NOT NULL,
    discount   INTEGER NOT NULL CHECK (discount BETWEEN 1 AND 100),
    active     {{bool}} NOT NULL,
    CONSTRAINT uq_coupons_vendor_code UNIQUE (vendor_id, code)
);
CREATE INDEX IF NOT EXISTS idx_coupons_code ON coupons(code);

CREATE TABLE IF NOT EXISTS orders (
    id               TEXT PRIMARY KEY,
    code             TEXT NOT NULL,
    customer_id      TEXT NOT NULL,
    sub_total        {{money}} NOT NULL,
    shipping         {{money}} NOT NULL,
    tax              {{money}} NOT NULL,
    service_fee      {{money}} NOT NULL,
    total            {{money}} NOT NULL,
    initial_total    {{money}} NOT NULL,
    saved            {{money}} NOT NULL,
    payment_status   TEXT NOT NULL,
    payment_method   TEXT NOT NULL DEFAULT '',
    payment_id       TEXT NOT NULL DEFAULT '',
    order_status     TEXT NOT NULL,
    idempotency_key  TEXT,
    version          INTEGER NOT NULL DEFAULT 1,
    created_at       {{ts}} NOT NULL,
    CONSTRAINT uq_orders_code UNIQUE (code),
    CONSTRAINT uq_orders_idempotency UNIQUE (customer_id, idempotency_key)
);
CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at);

CREATE TABLE IF NOT EXISTS order_vendors (
    order_id   TEXT NOT NULL REFERENCES orders(id),
    vendor_id  TEXT NOT NULL,
    PRIMARY KEY (order_id, vendor_id)
);

CREATE TABLE IF NOT EXISTS order_items (
    id                TEXT PRIMARY KEY,
    order_id          TEXT NOT NULL REFERENCES orders(id),
    code              TEXT NOT NULL,
    product_id        TEXT NOT NULL,
    vendor_id         TEXT NOT NULL,
    qty               INTEGER NOT NULL,
    size              TEXT NOT NULL DEFAULT '',
    color             TEXT NOT NULL DEFAULT '',
    price             {{money}} NOT NULL,
    sub_total         {{money}} NOT NULL,
    shipping          {{money}} NOT NULL,
    tax               {{money}} NOT NULL,
    total             {{money}} NOT NULL,
    initial_total     {{money}} NOT NULL,
    saved             {{money}} NOT NULL,
    coupon_id         TEXT NOT NULL DEFAULT '',
    applied_coupon    {{bool}} NOT NULL,
    order_status      TEXT NOT NULL,
    shipping_service  TEXT NOT NULL DEFAULT '',
    tracking_id       TEXT NOT NULL DEFAULT '',
    version           INTEGER NOT NULL DEFAULT 1,
    created_at        {{ts}} NOT NULL,
    CONSTRAINT uq_order_items_code UNIQUE (code)
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id);
CREATE INDEX IF NOT EXISTS idx_order_items_vendor ON order_items(vendor_id, created_at);

CREATE TABLE IF NOT EXISTS payouts (
    id          TEXT PRIMARY KEY,
    code        TEXT NOT NULL,
    vendor_id   TEXT NOT NULL,
    item_id     TEXT NOT NULL REFERENCES order_items(id),
    amount      {{money}} NOT NULL,
    created_at  {{ts}} NOT NULL,
    CONSTRAINT uq_payouts_item UNIQUE (item_id),
    CONSTRAINT uq_payouts_code UNIQUE (code)
);
CREATE INDEX IF NOT EXISTS idx_payouts_vendor ON payouts(vendor_id, created_at);

CREATE TABLE IF NOT EXISTS notifications (
    id             TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL,
    type           TEXT NOT NULL,
    order_item_id  TEXT NOT NULL DEFAULT '',
    seen           {{bool}} NOT NULL,
    created_at     {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at);

CREATE TABLE IF NOT EXISTS reviews (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    product_id  TEXT NOT NULL REFERENCES products(id),
    review      TEXT NOT NULL DEFAULT '',
    reply       TEXT NOT NULL DEFAULT '',
    rating      INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
    active      {{bool}} NOT NULL,
    created_at  {{ts}} NOT NULL
);

CREATE TABLE IF NOT EXISTS wishlist (
    user_id     TEXT NOT NULL,
    product_id  TEXT NOT NULL REFERENCES products(id),
    PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS addresses (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    full_name  TEXT NOT NULL DEFAULT '',
    mobile     TEXT NOT NULL DEFAULT '',
    email      TEXT NOT NULL DEFAULT '',
    country    TEXT NOT NULL,
    state      TEXT NOT NULL DEFAULT '',
    city       TEXT NOT NULL DEFAULT '',
    address    TEXT NOT NULL,
    zip_code   TEXT NOT NULL DEFAULT ''
);

-- Append-only: one row per status transition.
CREATE TABLE IF NOT EXISTS status_history (
    id           {{serial}},
    entity       TEXT NOT NULL,
    entity_id    TEXT NOT NULL,
    field        TEXT NOT NULL,
    from_status  TEXT NOT NULL,
    to_status    TEXT NOT NULL,
    trace_id     TEXT NOT NULL DEFAULT '',
    span_id      TEXT NOT NULL DEFAULT '',
    created_at   {{ts}} NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_status_history_entity ON status_history(entity, entity_id, id);
CREATE INDEX IF NOT EXISTS idx_status_history_trace ON status_history(trace_id);

CREATE TABLE IF NOT EXISTS outbox (
    id          {{serial}},
    event_id    TEXT NOT NULL,
    type        TEXT NOT NULL,
    msg_key     TEXT NOT NULL,
    payload     TEXT NOT NULL,
    created_at  {{ts}} NOT NULL,
    sent_at     {{ts}},
    CONSTRAINT uq_outbox_event UNIQUE (event_id)
);
CREATE INDEX IF NOT EXISTS idx_outbox_pending ON outbox(sent_at, id)
`

func schemaFor(d dialect) string {
	r := strings.NewReplacer(
		"{{ts}}", "TEXT",
		"{{money}}", "TEXT",
		"{{bool}}", "INTEGER",
		"{{serial}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
	)
	if d.name == DriverPostgres {
		r = strings.NewReplacer(
			"{{ts}}", "TIMESTAMPTZ",
			"{{money}}", "NUMERIC(12,2)",
			"{{bool}}", "BOOLEAN",
			"{{serial}}", "BIGSERIAL PRIMARY KEY",
		)
	}
	return r.Replace(schemaTemplate)
}

// applySchema runs the DDL statements one by one. Idempotent due to
// IF NOT EXISTS.
func applySchema(ctx context.Context, db *sql.DB, d dialect) error {
	for _, stmt := range strings.Split(schemaFor(d), ";\n") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: apply schema: %w", err)
		}
	}
	return nil
}
