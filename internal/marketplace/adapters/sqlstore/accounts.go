package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// CreateUser inserts the user and its profile.
func (r *repo) CreateUser(ctx context.Context, u *domain.User, p *domain.Profile) error {
	if _, err := r.exec(ctx, `INSERT INTO users (id, email, username, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.Username, r.d.ts(u.CreatedAt)); err != nil {
		return fmt.Errorf("sqlstore: create user %q: %w", u.Email, err)
	}
	if _, err := r.exec(ctx, `INSERT INTO profiles (user_id, full_name, mobile, user_type) VALUES (?, ?, ?, ?)`,
		u.ID, p.FullName, p.Mobile, string(p.UserType)); err != nil {
		return fmt.Errorf("sqlstore: create profile %q: %w", u.ID, err)
	}
	p.UserID = u.ID
	return nil
}

func (r *repo) GetUser(ctx context.Context, id string) (domain.User, domain.Profile, error) {
	const q = `
		SELECT u.id, u.email, u.username, u.created_at,
		       COALESCE(p.full_name, ''), COALESCE(p.mobile, ''), COALESCE(p.user_type, '')
		FROM   users u
		LEFT JOIN profiles p ON p.user_id = u.id
		WHERE  u.id = ?`
	var u domain.User
	var p domain.Profile
	err := r.queryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.Username, timeCol{&u.CreatedAt},
		&p.FullName, &p.Mobile, &p.UserType)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.Profile{}, domain.NewNotFound("user", id)
	}
	if err != nil {
		return domain.User{}, domain.Profile{}, fmt.Errorf("sqlstore: get user %q: %w", id, err)
	}
	p.UserID = u.ID
	return u, p, nil
}

func (r *repo) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	const q = `
		INSERT INTO vendors (id, user_id, store_name, description, country, code, slug, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.exec(ctx, q, v.ID, v.UserID, v.StoreName, v.Description, v.Country, v.Code, v.Slug,
		r.d.ts(v.CreatedAt)); err != nil {
		return fmt.Errorf("sqlstore: create vendor %q: %w", v.Slug, err)
	}
	return nil
}

func (r *repo) GetVendor(ctx context.Context, id string) (domain.Vendor, error) {
	const q = `
		SELECT id, user_id, store_name, description, country, code, slug, created_at
		FROM   vendors WHERE id = ?`
	var v domain.Vendor
	err := r.queryRow(ctx, q, id).Scan(&v.ID, &v.UserID, &v.StoreName, &v.Description, &v.Country,
		&v.Code, &v.Slug, timeCol{&v.CreatedAt})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Vendor{}, domain.NewNotFound("vendor", id)
	}
	if err != nil {
		return domain.Vendor{}, fmt.Errorf("sqlstore: get vendor %q: %w", id, err)
	}
	return v, nil
}

func (r *repo) UpsertBankAccount(ctx context.Context, a domain.BankAccount) error {
	const q = `
		INSERT INTO bank_accounts
			(vendor_id, account_type, bank_name, account_number, bank_code, stripe_id, paypal_address)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (vendor_id) DO UPDATE SET
			account_type = excluded.account_type,
			bank_name = excluded.bank_name,
			account_number = excluded.account_number,
			bank_code = excluded.bank_code,
			stripe_id = excluded.stripe_id,
			paypal_address = excluded.paypal_address`
	if _, err := r.exec(ctx, q, a.VendorID, string(a.AccountType), a.BankName, a.AccountNumber,
		a.BankCode, a.StripeID, a.PayPalAddress); err != nil {
		return fmt.Errorf("sqlstore: upsert bank account for %q: %w", a.VendorID, err)
	}
	return nil
}

func (r *repo) GetBankAccount(ctx context.Context, vendorID string) (domain.BankAccount, error) {
	const q = `
		SELECT vendor_id, account_type, bank_name, account_number, bank_code, stripe_id, paypal_address
		FROM   bank_accounts WHERE vendor_id = ?`
	var a domain.BankAccount
	err := r.queryRow(ctx, q, vendorID).Scan(&a.VendorID, &a.AccountType, &a.BankName, &a.AccountNumber,
		&a.BankCode, &a.StripeID, &a.PayPalAddress)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BankAccount{}, domain.NewNotFound("bank account", vendorID)
	}
	if err != nil {
		return domain.BankAccount{}, fmt.Errorf("sqlstore: get bank account %q: %w", vendorID, err)
	}
	return a, nil
}
