package httpx

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/app"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

// Amounts are sent as strings with two decimals ("10.00"). Requests accept
// either a JSON string or number.

type RegisterUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Mobile   string `json:"mobile"`
	UserType string `json:"user_type"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Mobile    string `json:"mobile,omitempty"`
	UserType  string `json:"user_type"`
	CreatedAt string `json:"created_at"`
}

type CreateVendorRequest struct {
	UserID      string `json:"user_id"`
	StoreName   string `json:"store_name"`
	Description string `json:"description"`
	Country     string `json:"country"`
}

type VendorResponse struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	StoreName   string `json:"store_name"`
	Description string `json:"description,omitempty"`
	Country     string `json:"country,omitempty"`
	Code        string `json:"code"`
	Slug        string `json:"slug"`
	CreatedAt   string `json:"created_at"`
}

type BankAccountDTO struct {
	AccountType   string `json:"account_type"`
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code,omitempty"`
	StripeID      string `json:"stripe_id,omitempty"`
	PayPalAddress string `json:"paypal_address,omitempty"`
}

type CreateCategoryRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type CategoryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

type CreateProductRequest struct {
	CategoryID   string          `json:"category_id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	Stock        int             `json:"stock"`
	Shipping     decimal.Decimal `json:"shipping"`
	Status       string          `json:"status"`
	Featured     bool            `json:"featured"`
}

type UpdatePricingRequest struct {
	Price        decimal.Decimal `json:"price"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	Stock        int             `json:"stock"`
}

type ProductResponse struct {
	ID           string `json:"id"`
	VendorID     string `json:"vendor_id"`
	CategoryID   string `json:"category_id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price"`
	RegularPrice string `json:"regular_price"`
	Stock        int    `json:"stock"`
	Shipping     string `json:"shipping"`
	Status       string `json:"status"`
	Featured     bool   `json:"featured"`
	SKU          string `json:"sku"`
	Slug         string `json:"slug"`
	CreatedAt    string `json:"created_at"`
}

type VariantRequest struct {
	Name  string           `json:"name"`
	Items []VariantItemDTO `json:"items"`
}

type VariantItemDTO struct {
	ID      string `json:"id,omitempty"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type VariantResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Name      string           `json:"name"`
	Items     []VariantItemDTO `json:"items"`
}

type GalleryRequest struct {
	Image string `json:"image"`
}

type GalleryResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Image     string `json:"image"`
	Code      string `json:"code"`
}

type AddLineRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type CartLineResponse struct {
	ID        string `json:"id"`
	CartID    string `json:"cart_id"`
	ProductID string `json:"product_id"`
	VendorID  string `json:"vendor_id"`
	Qty       int    `json:"qty"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Price     string `json:"price"`
	SubTotal  string `json:"sub_total"`
	Shipping  string `json:"shipping"`
	Tax       string `json:"tax"`
	Total     string `json:"total"`
}

type CartResponse struct {
	CartID   string             `json:"cart_id"`
	Lines    []CartLineResponse `json:"lines"`
	Items    int                `json:"items"`
	SubTotal string             `json:"sub_total"`
	Shipping string             `json:"shipping"`
	Tax      string             `json:"tax"`
	Total    string             `json:"total"`
}

type CheckoutRequest struct {
	CustomerID    string `json:"customer_id"`
	PaymentMethod string `json:"payment_method"`
}

type CreateCouponRequest struct {
	Code     string `json:"code"`
	Discount int    `json:"discount"`
}

type SetActiveRequest struct {
	Active bool `json:"active"`
}

type CouponResponse struct {
	ID       string `json:"id"`
	VendorID string `json:"vendor_id"`
	Code     string `json:"code"`
	Discount int    `json:"discount"`
	Active   bool   `json:"active"`
}

type ApplyCouponRequest struct {
	Code string `json:"code"`
}

type StatusRequest struct {
	Status          string `json:"status"`
	ShippingService string `json:"shipping_service"`
	TrackingID      string `json:"tracking_id"`
}

type PaymentRequest struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	Code          string              `json:"order_id"`
	CustomerID    string              `json:"customer_id"`
	Vendors       []string            `json:"vendors"`
	SubTotal      string              `json:"sub_total"`
	Shipping      string              `json:"shipping"`
	Tax           string              `json:"tax"`
	ServiceFee    string              `json:"service_fee"`
	Total         string              `json:"total"`
	InitialTotal  string              `json:"initial_total"`
	Saved         string              `json:"saved"`
	PaymentStatus string              `json:"payment_status"`
	PaymentMethod string              `json:"payment_method"`
	PaymentID     string              `json:"payment_id,omitempty"`
	OrderStatus   string              `json:"order_status"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     string              `json:"created_at"`
}

type OrderItemResponse struct {
	ID              string `json:"id"`
	OrderID         string `json:"order"`
	Code            string `json:"item_id"`
	ProductID       string `json:"product_id"`
	VendorID        string `json:"vendor_id"`
	Qty             int    `json:"qty"`
	Size            string `json:"size,omitempty"`
	Color           string `json:"color,omitempty"`
	Price           string `json:"price"`
	SubTotal        string `json:"sub_total"`
	Shipping        string `json:"shipping"`
	Tax             string `json:"tax"`
	Total           string `json:"total"`
	InitialTotal    string `json:"initial_total"`
	Saved           string `json:"saved"`
	CouponID        string `json:"coupon_id,omitempty"`
	AppliedCoupon   bool   `json:"applied_coupon"`
	OrderStatus     string `json:"order_status"`
	ShippingService string `json:"shipping_service,omitempty"`
	TrackingID      string `json:"tracking_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

type StatusChangeResponse struct {
	Field     string `json:"field"`
	From      string `json:"from"`
	To        string `json:"to"`
	TraceID   string `json:"trace_id,omitempty"`
	CreatedAt string `json:"created_at"`
}

type PayoutResponse struct {
	ID        string `json:"id"`
	Code      string `json:"payout_id"`
	VendorID  string `json:"vendor_id"`
	ItemID    string `json:"item_id"`
	Amount    string `json:"amount"`
	CreatedAt string `json:"created_at"`
}

type EarningsResponse struct {
	VendorID string `json:"vendor_id"`
	Total    string `json:"total"`
}

type ReviewRequest struct {
	UserID string `json:"user_id"`
	Rating int    `json:"rating"`
	Review string `json:"review"`
}

type UpdateReviewRequest struct {
	Active *bool  `json:"active"`
	Reply  string `json:"reply"`
}

type ReviewResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Review    string `json:"review"`
	Reply     string `json:"reply,omitempty"`
	Rating    int    `json:"rating"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type WishlistResponse struct {
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
}

type AddressDTO struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Mobile   string `json:"mobile"`
	Email    string `json:"email"`
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
	Address  string `json:"address"`
	ZipCode  string `json:"zip_code"`
}

type NotificationResponse struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	OrderItemID string `json:"order_item_id,omitempty"`
	Seen        bool   `json:"seen"`
	CreatedAt   string `json:"created_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapUser(u domain.User, p domain.Profile) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  p.FullName,
		Mobile:    p.Mobile,
		UserType:  string(p.UserType),
		CreatedAt: timestamp(u.CreatedAt),
	}
}

func mapVendor(v domain.Vendor) VendorResponse {
	return VendorResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		StoreName:   v.StoreName,
		Description: v.Description,
		Country:     v.Country,
		Code:        v.Code,
		Slug:        v.Slug,
		CreatedAt:   timestamp(v.CreatedAt),
	}
}

func mapBankAccount(a domain.BankAccount) BankAccountDTO {
	return BankAccountDTO{
		AccountType:   string(a.AccountType),
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		BankCode:      a.BankCode,
		StripeID:      a.StripeID,
		PayPalAddress: a.PayPalAddress,
	}
}

func mapCategories(cs []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(cs))
	for i, c := range cs {
		out[i] = CategoryResponse{ID: c.ID, Title: c.Title, Slug: c.Slug}
	}
	return out
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		VendorID:     p.VendorID,
		CategoryID:   p.CategoryID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        money(p.Price),
		RegularPrice: money(p.RegularPrice),
		Stock:        p.Stock,
		Shipping:     money(p.Shipping),
		Status:       string(p.Status),
		Featured:     p.Featured,
		SKU:          p.SKU,
		Slug:         p.Slug,
		CreatedAt:    timestamp(p.CreatedAt),
	}
}

func mapVariant(v domain.Variant) VariantResponse {
	items := make([]VariantItemDTO, len(v.Items))
	for i, it := range v.Items {
		items[i] = VariantItemDTO{ID: it.ID, Title: it.Title, Content: it.Content}
	}
	return VariantResponse{ID: v.ID, ProductID: v.ProductID, Name: v.Name, Items: items}
}

func mapGallery(g domain.GalleryImage) GalleryResponse {
	return GalleryResponse{ID: g.ID, ProductID: g.ProductID, Image: g.Image, Code: g.Code}
}

func mapCartLine(l domain.CartLine) CartLineResponse {
	return CartLineResponse{
		ID:        l.ID,
		CartID:    l.CartID,
		ProductID: l.ProductID,
		VendorID:  l.VendorID,
		Qty:       l.Qty,
		Size:      l.Size,
		Color:     l.Color,
		Price:     money(l.Price),
		SubTotal:  money(l.SubTotal),
		Shipping:  money(l.Shipping),
		Tax:       money(l.Tax),
		Total:     money(l.Total),
	}
}

func mapCart(cartID string, lines []domain.CartLine, s app.CartSummary) CartResponse {
	out := CartResponse{
		CartID:   cartID,
		Lines:    make([]CartLineResponse, len(lines)),
		Items:    s.Items,
		SubTotal: money(s.SubTotal),
		Shipping: money(s.Shipping),
		Tax:      money(s.Tax),
		Total:    money(s.Total),
	}
	for i, l := range lines {
		out.Lines[i] = mapCartLine(l)
	}
	return out
}

func mapCoupon(c domain.Coupon) CouponResponse {
	return CouponResponse{ID: c.ID, VendorID: c.VendorID, Code: c.Code, Discount: c.Discount, Active: c.Active}
}

func mapOrder(o domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = mapItem(it)
	}
	vendors := o.VendorIDs
	if vendors == nil {
		vendors = []string{}
	}
	return OrderResponse{
		ID:            o.ID,
		Code:          o.Code,
		CustomerID:    o.CustomerID,
		Vendors:       vendors,
		SubTotal:      money(o.SubTotal),
		Shipping:      money(o.Shipping),
		Tax:           money(o.Tax),
		ServiceFee:    money(o.ServiceFee),
		Total:         money(o.Total),
		InitialTotal:  money(o.InitialTotal),
		Saved:         money(o.Saved),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		PaymentID:     o.PaymentID,
		OrderStatus:   string(o.OrderStatus),
		Items:         items,
		CreatedAt:     timestamp(o.CreatedAt),
	}
}

func mapItem(it domain.OrderItem) OrderItemResponse {
	return OrderItemResponse{
		ID:              it.ID,
		OrderID:         it.OrderID,
		Code:            it.Code,
		ProductID:       it.ProductID,
		VendorID:        it.VendorID,
		Qty:             it.Qty,
		Size:            it.Size,
		Color:           it.Color,
		Price:           money(it.Price),
		SubTotal:        money(it.SubTotal),
		Shipping:        money(it.Shipping),
		Tax:             money(it.Tax),
		Total:           money(it.Total),
		InitialTotal:    money(it.InitialTotal),
		Saved:           money(it.Saved),
		CouponID:        it.CouponID,
		AppliedCoupon:   it.AppliedCoupon,
		OrderStatus:     string(it.OrderStatus),
		ShippingService: string(it.ShippingService),
		TrackingID:      it.TrackingID,
		CreatedAt:       timestamp(it.CreatedAt),
	}
}

func mapHistory(cs []domain.StatusChange) []StatusChangeResponse {
	out := make([]StatusChangeResponse, len(cs))
	for i, c := range cs {
		out[i] = StatusChangeResponse{Field: c.Field, From: c.From, To: c.To, TraceID: c.TraceID, CreatedAt: timestamp(c.CreatedAt)}
	}
	return out
}

func mapPayout(p domain.Payout) PayoutResponse {
	return PayoutResponse{
		ID:        p.ID,
		Code:      p.Code,
		VendorID:  p.VendorID,
		ItemID:    p.ItemID,
		Amount:    money(p.Amount),
		CreatedAt: timestamp(p.CreatedAt),
	}
}

func mapReview(r domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		ProductID: r.ProductID,
		Review:    r.Review,
		Reply:     r.Reply,
		Rating:    r.Rating,
		Active:    r.Active,
		CreatedAt: timestamp(r.CreatedAt),
	}
}

func mapAddress(a domain.Address) AddressDTO {
	return AddressDTO{
		ID:       a.ID,
		FullName: a.FullName,
		Mobile:   a.Mobile,
		Email:    a.Email,
		Country:  a.Country,
		State:    a.State,
		City:     a.City,
		Address:  a.Address,
		ZipCode:  a.ZipCode,
	}
}

func mapNotification(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        string(n.Type),
		OrderItemID: n.OrderItemID,
		Seen:        n.Seen,
		CreatedAt:   timestamp(n.CreatedAt),
	}
}

// mapSlice applies f to every element of in.
func mapSlice[T, R any](in []T, f func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = f(v)
	}
	return out
}
