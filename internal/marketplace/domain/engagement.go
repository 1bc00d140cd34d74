package domain

import (
	"strings"
	"time"
)

type NotificationType string

const (
	NotifyNewOrder      NotificationType = "New Order"
	NotifyItemShipped   NotificationType = "Item Shipped"
	NotifyItemDelivered NotificationType = "Item Delivered"
	NotifyNewReview     NotificationType = "New Review"
)

// Notification is a record for a user to read. Delivery is not handled here.
type Notification struct {
	ID          string
	UserID      string
	Type        NotificationType
	OrderItemID string
	Seen        bool
	CreatedAt   time.Time
}

// NotificationFor maps an item status change to the customer notification
// it produces, if any.
func NotificationFor(status OrderStatus) (NotificationType, bool) {
	switch status {
	case StatusShipped:
		return NotifyItemShipped, true
	case StatusFulfilled:
		return NotifyItemDelivered, true
	}
	return "", false
}

type Review struct {
	ID        string
	UserID    string
	ProductID string
	Review    string
	Reply     string
	Rating    int
	Active    bool
	CreatedAt time.Time
}

func (r Review) Validate() error {
	if r.ProductID == "" || r.UserID == "" {
		return NewValidation("review needs a user and a product")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return NewValidation("rating must be between 1 and 5")
	}
	return nil
}

type WishlistEntry struct {
	UserID    string
	ProductID string
}

type Address struct {
	ID       string
	UserID   string
	FullName string
	Mobile   string
	Email    string
	Country  string
	State    string
	City     string
	Address  string
	ZipCode  string
}

func (a Address) Validate() error {
	if a.UserID == "" {
		return NewValidation("address user is required")
	}
	if strings.TrimSpace(a.Address) == "" || strings.TrimSpace(a.Country) == "" {
		return NewValidation("address and country are required")
	}
	return nil
}
