package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/app"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !decode(w, r, &req) {
		return
	}
	u, p, err := h.ledger.RegisterUser(r.Context(), app.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		FullName: req.FullName,
		Mobile:   req.Mobile,
		UserType: domain.UserType(req.UserType),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapUser(u, p))
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, p, err := h.ledger.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapUser(u, p))
}

func (h *Handler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := h.ledger.CreateVendor(r.Context(), app.VendorInput{
		UserID:      req.UserID,
		StoreName:   req.StoreName,
		Description: req.Description,
		Country:     req.Country,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapVendor(v))
}

func (h *Handler) GetVendor(w http.ResponseWriter, r *http.Request) {
	v, err := h.ledger.GetVendor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapVendor(v))
}

func (h *Handler) SetBankAccount(w http.ResponseWriter, r *http.Request) {
	var req BankAccountDTO
	if !decode(w, r, &req) {
		return
	}
	a := domain.BankAccount{
		VendorID:      chi.URLParam(r, "id"),
		AccountType:   domain.PayoutMethod(req.AccountType),
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		BankCode:      req.BankCode,
		StripeID:      req.StripeID,
		PayPalAddress: req.PayPalAddress,
	}
	if err := h.ledger.SetBankAccount(r.Context(), a); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBankAccount(a))
}

func (h *Handler) GetBankAccount(w http.ResponseWriter, r *http.Request) {
	a, err := h.ledger.GetBankAccount(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBankAccount(a))
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.ledger.CreateCoupon(r.Context(), chi.URLParam(r, "id"), req.Code, req.Discount)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapCoupon(c))
}

func (h *Handler) ListVendorCoupons(w http.ResponseWriter, r *http.Request) {
	cs, err := h.ledger.ListVendorCoupons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(cs, mapCoupon))
}

func (h *Handler) SetCouponActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.ledger.SetCouponActive(r.Context(), chi.URLParam(r, "id"), req.Active); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListVendorItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.ledger.ListVendorItems(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(items, mapItem))
}

func (h *Handler) ListVendorPayouts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ledger.ListVendorPayouts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(ps, mapPayout))
}

func (h *Handler) VendorEarnings(w http.ResponseWriter, r *http.Request) {
	vendorID := chi.URLParam(r, "id")
	total, err := h.ledger.VendorEarnings(r.Context(), vendorID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, EarningsResponse{VendorID: vendorID, Total: money(total)})
}
