package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

type RegisterInput struct {
	Email    string
	Username string
	FullName string
	Mobile   string
	UserType domain.UserType
}

// RegisterUser creates the identity record and profile of a user. A blank
// username is taken from the email's local part and suffixed if taken; a
// blank full name falls back to the username.
func (l *Ledger) RegisterUser(ctx context.Context, in RegisterInput) (domain.User, domain.Profile, error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, domain.Profile{}, err
	}
	if in.UserType == "" {
		in.UserType = domain.UserCustomer
	}
	if in.UserType != domain.UserCustomer && in.UserType != domain.UserVendor {
		return domain.User{}, domain.Profile{}, domain.NewValidationf("unknown user type %q", in.UserType)
	}

	explicit := strings.TrimSpace(in.Username) != ""
	base := strings.TrimSpace(in.Username)
	if !explicit {
		base = domain.UsernameFromEmail(email)
	}

	u := domain.User{ID: uuid.NewString(), Email: email, CreatedAt: l.now()}
	p := domain.Profile{Mobile: in.Mobile, UserType: in.UserType}
	err = l.retryUnique(ctx, "register_user", func(tx ports.Repository, attempt int) error {
		if explicit && attempt > 0 {
			return domain.ErrDuplicate.Withf("username %s", base)
		}
		u.Username = domain.SlugCandidate(base, attempt)
		p.FullName = strings.TrimSpace(in.FullName)
		if p.FullName == "" {
			p.FullName = domain.FullNameFromUsername(u.Username)
		}
		return tx.CreateUser(ctx, &u, &p)
	})
	if err != nil {
		return domain.User{}, domain.Profile{}, err
	}
	return u, p, nil
}

func (l *Ledger) GetUser(ctx context.Context, id string) (domain.User, domain.Profile, error) {
	return l.store.GetUser(ctx, id)
}

type VendorInput struct {
	UserID      string
	StoreName   string
	Description string
	Country     string
}

// CreateVendor opens a store for an existing user. One store per user.
func (l *Ledger) CreateVendor(ctx context.Context, in VendorInput) (domain.Vendor, error) {
	name := strings.TrimSpace(in.StoreName)
	if name == "" {
		return domain.Vendor{}, domain.NewValidation("store name is required")
	}
	base := domain.Slugify(name)
	if base == "" {
		base = "store"
	}

	v := domain.Vendor{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		StoreName:   name,
		Description: in.Description,
		Country:     in.Country,
		CreatedAt:   l.now(),
	}
	err := l.retryUnique(ctx, "create_vendor", func(tx ports.Repository, attempt int) error {
		if _, _, err := tx.GetUser(ctx, in.UserID); err != nil {
			return err
		}
		v.Slug = domain.SlugCandidate(base, attempt)
		v.Code = domain.NumericCode(domain.VendorCodeDigits)
		return tx.CreateVendor(ctx, &v)
	})
	if err != nil {
		return domain.Vendor{}, err
	}
	l.log.InfoContext(ctx, "vendor created", "vendor_id", v.ID, "slug", v.Slug)
	return v, nil
}

func (l *Ledger) GetVendor(ctx context.Context, id string) (domain.Vendor, error) {
	return l.store.GetVendor(ctx, id)
}

// SetBankAccount creates or replaces the payout destination of a vendor.
func (l *Ledger) SetBankAccount(ctx context.Context, a domain.BankAccount) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return l.store.WithTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.GetVendor(ctx, a.VendorID); err != nil {
			return err
		}
		return tx.UpsertBankAccount(ctx, a)
	})
}

func (l *Ledger) GetBankAccount(ctx context.Context, vendorID string) (domain.BankAccount, error) {
	return l.store.GetBankAccount(ctx, vendorID)
}

// vendorUser resolves the user that receives a vendor's notifications.
func vendorUser(ctx context.Context, tx ports.Repository, vendorID string, cache map[string]string) (string, error) {
	if id, ok := cache[vendorID]; ok {
		return id, nil
	}
	v, err := tx.GetVendor(ctx, vendorID)
	if err != nil {
		return "", err
	}
	cache[vendorID] = v.UserID
	return v.UserID, nil
}
