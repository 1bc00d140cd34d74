package domain

// OrderStatus is the fulfillment state shared by orders and order items.
// Each order and each item runs its own copy of the state machine.
type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusFulfilled  OrderStatus = "Fulfilled"
	StatusCancelled  OrderStatus = "Cancelled"
)

// rank orders the forward path; Cancelled sits outside it.
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusFulfilled:  3,
}

func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok || s == StatusCancelled
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusFulfilled || s == StatusCancelled
}

// CanTransition reports whether s may move to next: strictly forward along
// Pending → Processing → Shipped → Fulfilled, or into Cancelled from any
// non-terminal state.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

// CheckTransition returns ErrInvalidTransition decorated with both states when
// the move is not allowed.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() {
		return NewValidationf("unknown order status %q", to)
	}
	if !from.CanTransition(to) {
		return ErrInvalidTransition.Withf("%s -> %s", from, to)
	}
	return nil
}

// PaymentStatus tracks the customer's payment for an order.
type PaymentStatus string

const (
	PaymentProcessing PaymentStatus = "Processing"
	PaymentPaid       PaymentStatus = "Paid"
	PaymentFailed     PaymentStatus = "Failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentProcessing, PaymentPaid, PaymentFailed:
		return true
	}
	return false
}

// Settled reports whether the payment reached a terminal state.
func (s PaymentStatus) Settled() bool {
	return s == PaymentPaid || s == PaymentFailed
}

// CheckPaymentTransition allows only Processing → Paid and Processing → Failed.
func CheckPaymentTransition(from, to PaymentStatus) error {
	if !to.Valid() {
		return NewValidationf("unknown payment status %q", to)
	}
	if from != PaymentProcessing || !to.Settled() {
		return ErrInvalidTransition.Withf("payment %s -> %s", from, to)
	}
	return nil
}
