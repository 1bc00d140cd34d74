package sqlstore

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// Supported values of the DB_DRIVER setting.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type dialect struct {
	name string
}

func dialectFor(driver string) (dialect, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "sqlite3", "":
		return dialect{name: DriverSQLite}, nil
	case DriverPostgres, "postgresql", "pgx":
		return dialect{name: DriverPostgres}, nil
	}
	return dialect{}, fmt.Errorf("sqlstore: unsupported driver %q", driver)
}

func (d dialect) driverName() string {
	if d.name == DriverPostgres {
		return "pgx"
	}
	return "sqlite"
}

// dsn turns a bare SQLite path into a DSN with WAL, foreign keys and a busy
// timeout. Anything that already looks like a DSN is used as is.
func (d dialect) dsn(raw string) string {
	if d.name != DriverSQLite || strings.HasPrefix(raw, "file:") || strings.Contains(raw, "?") {
		return raw
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", raw)
}

// rebind rewrites ? placeholders to $1..$n for PostgreSQL. Queries never
// contain a literal question mark.
func (d dialect) rebind(q string) string {
	if d.name != DriverPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 16)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

// forUpdate is the row-lock suffix for SELECTs inside a transaction. SQLite
// has no row locks; its single connection already excludes other writers.
func (d dialect) forUpdate() string {
	if d.name == DriverPostgres {
		return " FOR UPDATE"
	}
	return ""
}

// timeLayout sorts lexically, so SQLite can ORDER BY the TEXT column.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ts converts t to the representation the timestamp columns hold.
func (d dialect) ts(t time.Time) any {
	if d.name == DriverPostgres {
		return t.UTC()
	}
	return t.UTC().Format(timeLayout)
}

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// uniqueRule maps one unique constraint to the ledger error it means. The
// SQLite key is the column list from the driver message, the Postgres key
// the constraint name from the schema.
type uniqueRule struct {
	sqlite   string
	postgres string
	err      *domain.Error
}

// Generated values (slugs, codes) are retryable; natural keys are
// duplicates.
var uniqueRules = []uniqueRule{
	{"users.email", "uq_users_email", domain.ErrDuplicate},
	{"users.username", "uq_users_username", domain.ErrUniqueConflict},
	{"vendors.user_id", "uq_vendors_user", domain.ErrDuplicate},
	{"vendors.slug", "uq_vendors_slug", domain.ErrUniqueConflict},
	{"vendors.code", "uq_vendors_code", domain.ErrUniqueConflict},
	{"categories.slug", "uq_categories_slug", domain.ErrUniqueConflict},
	{"products.slug", "uq_products_slug", domain.ErrUniqueConflict},
	{"products.sku", "uq_products_sku", domain.ErrUniqueConflict},
	{"gallery_images.code", "uq_gallery_code", domain.ErrUniqueConflict},
	{"coupons.vendor_id, coupons.code", "uq_coupons_vendor_code", domain.ErrDuplicate},
	{"orders.code", "uq_orders_code", domain.ErrUniqueConflict},
	{"orders.customer_id, orders.idempotency_key", "uq_orders_idempotency", domain.ErrDuplicate},
	{"order_items.code", "uq_order_items_code", domain.ErrUniqueConflict},
	{"payouts.item_id", "uq_payouts_item", domain.ErrAlreadyPaidOut},
	{"payouts.code", "uq_payouts_code", domain.ErrUniqueConflict},
	{"outbox.event_id", "uq_outbox_event", domain.ErrDuplicate},
}

// translate maps driver errors to ledger errors and leaves the rest alone.
func (d dialect) translate(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return uniqueError(func(r uniqueRule) bool { return r.postgres == pgErr.ConstraintName }, pgErr.ConstraintName)
		case "40001", "40P01":
			return domain.ErrConcurrencyConflict.Withf("%s", pgErr.Message)
		}
		return err
	}

	var sqErr *sqlite.Error
	if errors.As(err, &sqErr) {
		code := sqErr.Code()
		if code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKey {
			cols := sqliteConstraintColumns(sqErr.Error())
			return uniqueError(func(r uniqueRule) bool { return r.sqlite == cols }, cols)
		}
	}
	return err
}

func uniqueError(match func(uniqueRule) bool, name string) error {
	for _, r := range uniqueRules {
		if match(r) {
			return r.err.Withf("%s", name)
		}
	}
	return domain.ErrUniqueConflict.Withf("%s", name)
}

// sqliteConstraintColumns extracts "t.a, t.b" from
// "... UNIQUE constraint failed: t.a, t.b (2067)".
func sqliteConstraintColumns(msg string) string {
	const marker = "constraint failed: "
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return ""
	}
	cols := msg[i+len(marker):]
	if j := strings.LastIndex(cols, " ("); j >= 0 {
		cols = cols[:j]
	}
	return strings.TrimSpace(cols)
}
