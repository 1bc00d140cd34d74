package domain

import (
	"errors"
	"fmt"
)

// Kind is the category of a ledger failure. Adapters translate kinds into
// transport status codes; the ledger itself never recovers from them.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindStateTransition
	KindConcurrencyConflict
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindStateTransition:
		return "STATE_TRANSITION"
	case KindConcurrencyConflict:
		return "CONCURRENCY_CONFLICT"
	case KindBusinessRule:
		return "BUSINESS_RULE"
	default:
		return "UNKNOWN"
	}
}

// Error is returned when an operation is rejected by the ledger rules.
// Two errors match under errors.Is when their codes are equal, so sentinel
// values below can be decorated with detail and still be compared.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Withf returns a copy of e with formatted detail appended to the message.
func (e *Error) Withf(format string, args ...any) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

// NewValidation creates an error for bad input shape.
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation", Message: message}
}

// NewValidationf creates a validation error with a formatted message.
func NewValidationf(format string, args ...any) *Error {
	return NewValidation(fmt.Sprintf(format, args...))
}

// NewNotFound creates an error for a missing referenced entity.
func NewNotFound(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Message: fmt.Sprintf("%s %q not found", entity, id)}
}

// KindOf reports the kind of err and whether err carries one.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

var (
	ErrNotFound             = &Error{Kind: KindNotFound, Code: "not_found", Message: "not found"}
	ErrInvalidTransition    = &Error{Kind: KindStateTransition, Code: "invalid_transition", Message: "invalid status transition"}
	ErrConcurrencyConflict  = &Error{Kind: KindConcurrencyConflict, Code: "concurrent_update", Message: "record was modified concurrently"}
	ErrUniqueConflict       = &Error{Kind: KindConcurrencyConflict, Code: "unique_conflict", Message: "unique value already taken"}
	ErrDuplicate            = &Error{Kind: KindBusinessRule, Code: "duplicate", Message: "record already exists"}
	ErrEmptyCart            = &Error{Kind: KindBusinessRule, Code: "empty_cart", Message: "cart has no lines"}
	ErrOutOfStock           = &Error{Kind: KindBusinessRule, Code: "out_of_stock", Message: "quantity exceeds available stock"}
	ErrProductUnavailable   = &Error{Kind: KindBusinessRule, Code: "product_unavailable", Message: "product is not published"}
	ErrCouponNotFound       = &Error{Kind: KindNotFound, Code: "coupon_not_found", Message: "coupon not found"}
	ErrCouponVendorMismatch = &Error{Kind: KindBusinessRule, Code: "coupon_vendor_mismatch", Message: "coupon does not belong to the item's vendor"}
	ErrCouponNoDiscount     = &Error{Kind: KindBusinessRule, Code: "coupon_no_discount", Message: "coupon yields no discount"}
	ErrOrderSettled         = &Error{Kind: KindBusinessRule, Code: "order_settled", Message: "order can no longer be repriced"}
	ErrAlreadyPaidOut       = &Error{Kind: KindBusinessRule, Code: "already_paid_out", Message: "order item already has a payout"}
	ErrItemNotFulfilled     = &Error{Kind: KindBusinessRule, Code: "item_not_fulfilled", Message: "order item is not fulfilled"}
)
