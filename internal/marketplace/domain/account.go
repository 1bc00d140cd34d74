package domain

import "time"

type UserType string

const (
	UserVendor   UserType = "Vendor"
	UserCustomer UserType = "Customer"
)

// User is the identity record referenced by carts, orders and vendors.
// Authentication lives elsewhere.
type User struct {
	ID        string
	Email     string
	Username  string
	CreatedAt time.Time
}

type Profile struct {
	UserID   string
	FullName string
	Mobile   string
	UserType UserType
}

type Vendor struct {
	ID          string
	UserID      string
	StoreName   string
	Description string
	Country     string
	Code        string
	Slug        string
	CreatedAt   time.Time
}

// VendorCodeDigits is the length of the public vendor code.
const VendorCodeDigits = 6

type PayoutMethod string

const (
	PayoutPayPal          PayoutMethod = "PayPal"
	PayoutStripe          PayoutMethod = "Stripe"
	PayoutBankTransfer    PayoutMethod = "Bank Transfer"
	PayoutUzbekistanBank  PayoutMethod = "Uzbekistan Bank Account"
	PayoutKoreanBank      PayoutMethod = "Korean Bank Account"
	PayoutWesternUnion    PayoutMethod = "Western Union"
	PayoutAmericanExpress PayoutMethod = "American Express"
)

func (m PayoutMethod) Valid() bool {
	switch m {
	case PayoutPayPal, PayoutStripe, PayoutBankTransfer, PayoutUzbekistanBank,
		PayoutKoreanBank, PayoutWesternUnion, PayoutAmericanExpress:
		return true
	}
	return false
}

// BankAccount is where a vendor's payouts are sent. One per vendor.
type BankAccount struct {
	VendorID      string
	AccountType   PayoutMethod
	BankName      string
	AccountNumber string
	BankCode      string
	StripeID      string
	PayPalAddress string
}

func (a BankAccount) Validate() error {
	if a.AccountType != "" && !a.AccountType.Valid() {
		return NewValidationf("unknown payout method %q", a.AccountType)
	}
	if a.BankName == "" || a.AccountNumber == "" {
		return NewValidation("bank name and account number are required")
	}
	return nil
}
