package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/marketplace-ledger/internal/marketplace/domain"
)

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.ledger.CreateCategory(r.Context(), req.Title, req.Slug)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CategoryResponse{ID: c.ID, Title: c.Title, Slug: c.Slug})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cs, err := h.ledger.ListCategories(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapCategories(cs))
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.ledger.CreateProduct(r.Context(), chi.URLParam(r, "id"), domain.ProductInput{
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		RegularPrice: req.RegularPrice,
		Stock:        req.Stock,
		Shipping:     req.Shipping,
		Status:       domain.ProductStatus(req.Status),
		Featured:     req.Featured,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	featured, err := queryBool(r, "featured")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	ps, err := h.ledger.ListProducts(r.Context(), domain.ProductFilter{
		CategoryID: q.Get("category"),
		VendorID:   q.Get("vendor"),
		Status:     domain.ProductStatus(q.Get("status")),
		Featured:   featured,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(ps, mapProduct))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) GetProductBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.ledger.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	var req UpdatePricingRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := h.ledger.UpdateProductPricing(r.Context(), chi.URLParam(r, "id"), req.Price, req.RegularPrice, req.Stock)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) AddVariant(w http.ResponseWriter, r *http.Request) {
	var req VariantRequest
	if !decode(w, r, &req) {
		return
	}
	items := make([]domain.VariantItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = domain.VariantItem{Title: it.Title, Content: it.Content}
	}
	v, err := h.ledger.AddVariant(r.Context(), chi.URLParam(r, "id"), req.Name, items)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapVariant(v))
}

func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	vs, err := h.ledger.ListVariants(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(vs, mapVariant))
}

func (h *Handler) AddGalleryImage(w http.ResponseWriter, r *http.Request) {
	var req GalleryRequest
	if !decode(w, r, &req) {
		return
	}
	g, err := h.ledger.AddGalleryImage(r.Context(), chi.URLParam(r, "id"), req.Image)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapGallery(g))
}

func (h *Handler) ListGallery(w http.ResponseWriter, r *http.Request) {
	gs, err := h.ledger.ListGallery(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(gs, mapGallery))
}
