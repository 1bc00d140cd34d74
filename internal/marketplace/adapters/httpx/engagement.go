package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/app"
	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !decode(w, r, &req) {
		return
	}
	rv, err := h.ledger.AddReview(r.Context(), app.ReviewInput{
		UserID:    req.UserID,
		ProductID: chi.URLParam(r, "id"),
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapReview(rv))
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := h.ledger.ListProductReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(rs, mapReview))
}

// UpdateReview approves or hides a review and/or stores the vendor's reply.
func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req UpdateReviewRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Active == nil && req.Reply == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "active or reply is required")
		return
	}

	id := chi.URLParam(r, "id")
	var (
		rv  domain.Review
		err error
	)
	if req.Active != nil {
		if rv, err = h.ledger.SetReviewActive(r.Context(), id, *req.Active); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	if req.Reply != "" {
		if rv, err = h.ledger.ReplyToReview(r.Context(), id, req.Reply); err != nil {
			h.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, mapReview(rv))
}

func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	added, err := h.ledger.ToggleWishlist(r.Context(), chi.URLParam(r, "id"), productID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, WishlistResponse{ProductID: productID, Added: added})
}

func (h *Handler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	ps, err := h.ledger.ListWishlist(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(ps, mapProduct))
}

func (h *Handler) SaveAddress(w http.ResponseWriter, r *http.Request) {
	var req AddressDTO
	if !decode(w, r, &req) {
		return
	}
	if id := chi.URLParam(r, "addressID"); id != "" {
		req.ID = id
	}
	a, err := h.ledger.SaveAddress(r.Context(), domain.Address{
		ID:       req.ID,
		UserID:   chi.URLParam(r, "id"),
		FullName: req.FullName,
		Mobile:   req.Mobile,
		Email:    req.Email,
		Country:  req.Country,
		State:    req.State,
		City:     req.City,
		Address:  req.Address,
		ZipCode:  req.ZipCode,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapAddress(a))
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	as, err := h.ledger.ListAddresses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(as, mapAddress))
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	unseen, err := queryBool(r, "unseen")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	ns, err := h.ledger.ListNotifications(r.Context(), chi.URLParam(r, "id"), unseen != nil && *unseen)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(ns, mapNotification))
}

func (h *Handler) MarkNotificationSeen(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.MarkNotificationSeen(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
