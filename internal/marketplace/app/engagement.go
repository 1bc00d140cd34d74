package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/ports"
)

type ReviewInput struct {
	UserID    string
	ProductID string
	Rating    int
	Review    string
}

// AddReview stores an inactive review and notifies the product's vendor.
// Reviews are hidden until SetReviewActive approves them.
func (l *Ledger) AddReview(ctx context.Context, in ReviewInput) (domain.Review, error) {
	rv := domain.Review{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		ProductID: in.ProductID,
		Review:    strings.TrimSpace(in.Review),
		Rating:    in.Rating,
		CreatedAt: l.now(),
	}
	if err := rv.Validate(); err != nil {
		return domain.Review{}, err
	}

	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		p, err := tx.GetProduct(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if err := tx.CreateReview(ctx, &rv); err != nil {
			return err
		}
		userID, err := vendorUser(ctx, tx, p.VendorID, map[string]string{})
		if err != nil {
			return err
		}
		return tx.CreateNotification(ctx, &domain.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Type:      domain.NotifyNewReview,
			CreatedAt: rv.CreatedAt,
		})
	})
	if err != nil {
		return domain.Review{}, err
	}
	return rv, nil
}

func (l *Ledger) SetReviewActive(ctx context.Context, id string, active bool) (domain.Review, error) {
	return l.updateReview(ctx, id, func(rv *domain.Review) { rv.Active = active })
}

func (l *Ledger) ReplyToReview(ctx context.Context, id, reply string) (domain.Review, error) {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return domain.Review{}, domain.NewValidation("reply is required")
	}
	return l.updateReview(ctx, id, func(rv *domain.Review) { rv.Reply = reply })
}

func (l *Ledger) updateReview(ctx context.Context, id string, change func(*domain.Review)) (domain.Review, error) {
	var rv domain.Review
	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		var err error
		if rv, err = tx.GetReview(ctx, id); err != nil {
			return err
		}
		change(&rv)
		return tx.UpdateReview(ctx, rv)
	})
	return rv, err
}

// ListProductReviews returns the approved reviews of a product.
func (l *Ledger) ListProductReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	return l.store.ListProductReviews(ctx, productID, true)
}

// ToggleWishlist adds the product to the user's wishlist, or removes it if
// already there, and reports whether it is now on the list.
func (l *Ledger) ToggleWishlist(ctx context.Context, userID, productID string) (bool, error) {
	if userID == "" {
		return false, domain.NewValidation("user id is required")
	}
	e := domain.WishlistEntry{UserID: userID, ProductID: productID}

	var added bool
	err := l.store.WithTx(ctx, func(tx ports.Repository) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			return err
		}
		removed, err := tx.RemoveWishlist(ctx, e)
		if err != nil || removed {
			return err
		}
		added = true
		return tx.AddWishlist(ctx, e)
	})
	return added, err
}

func (l *Ledger) ListWishlist(ctx context.Context, userID string) ([]domain.Product, error) {
	return l.store.ListWishlist(ctx, userID)
}

// SaveAddress creates the address, or updates it when a.ID is set.
func (l *Ledger) SaveAddress(ctx context.Context, a domain.Address) (domain.Address, error) {
	if err := a.Validate(); err != nil {
		return domain.Address{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if err := l.store.SaveAddress(ctx, &a); err != nil {
		return domain.Address{}, err
	}
	return a, nil
}

func (l *Ledger) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	return l.store.ListAddresses(ctx, userID)
}

func (l *Ledger) ListNotifications(ctx context.Context, userID string, unseenOnly bool) ([]domain.Notification, error) {
	return l.store.ListNotifications(ctx, userID, unseenOnly)
}

func (l *Ledger) MarkNotificationSeen(ctx context.Context, id string) error {
	return l.store.MarkNotificationSeen(ctx, id)
}
