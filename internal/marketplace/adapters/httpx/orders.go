package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/app"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
	"github.com/jcmexdev/marketplace-ledger/internal/pkg/interceptors"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")
	lines, err := h.ledger.ListLines(r.Context(), cartID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	sum, err := h.ledger.SummarizeCart(r.Context(), cartID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCart(cartID, lines, sum))
}

func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if !decode(w, r, &req) {
		return
	}
	line, err := h.ledger.AddOrUpdateLine(r.Context(), app.AddLineInput{
		CartID:    chi.URLParam(r, "cartID"),
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Qty:       req.Qty,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCartLine(line))
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.RemoveLine(r.Context(), chi.URLParam(r, "cartID"), chi.URLParam(r, "lineID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.ClearCart(r.Context(), chi.URLParam(r, "cartID")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout converts the cart into an order. A retried request carrying the
// same idempotency key gets the first order back.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	order, err := h.ledger.Checkout(r.Context(), app.CheckoutInput{
		CartID:         chi.URLParam(r, "cartID"),
		CustomerID:     req.CustomerID,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: interceptors.IdempotencyKeyFromContext(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.ledger.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) GetOrderByCode(w http.ResponseWriter, r *http.Request) {
	o, err := h.ledger.GetOrderByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.ledger.ListCustomerOrders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(orders, mapOrder))
}

func (h *Handler) MarkOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.ledger.MarkOrderStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) MarkPaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.ledger.MarkPaymentStatus(r.Context(), chi.URLParam(r, "id"), domain.PaymentStatus(req.Status), req.PaymentID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.EntityOrder)
}

func (h *Handler) ItemHistory(w http.ResponseWriter, r *http.Request) {
	h.history(w, r, domain.EntityOrderItem)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request, entity string) {
	cs, err := h.ledger.History(r.Context(), entity, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapHistory(cs))
}

func (h *Handler) GetOrderItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.ledger.GetOrderItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapItem(it))
}

func (h *Handler) MarkItemStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !decode(w, r, &req) {
		return
	}
	it, err := h.ledger.MarkItemStatus(r.Context(), app.ItemStatusInput{
		ItemID:          chi.URLParam(r, "id"),
		Status:          domain.OrderStatus(req.Status),
		ShippingService: domain.ShippingService(req.ShippingService),
		TrackingID:      req.TrackingID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapItem(it))
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req ApplyCouponRequest
	if !decode(w, r, &req) {
		return
	}
	it, err := h.ledger.ApplyCoupon(r.Context(), chi.URLParam(r, "id"), req.Code)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapItem(it))
}

func (h *Handler) CreatePayout(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.CreatePayout(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapPayout(p))
}
