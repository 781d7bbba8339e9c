package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/toko-pricing/internal/common"
	"github.com/noah-isme/toko-pricing/internal/pricing"
)

// ProductView is the public product payload.
type ProductView struct {
	ID    string        `json:"id"`
	Name  string        `json:"name,omitempty"`
	Price pricing.Money `json:"price"`
	Bulk  *BulkView     `json:"bulk,omitempty"`
}

// BulkView describes a bulk offer, e.g. 3 units for 250.
type BulkView struct {
	Units int           `json:"units"`
	Price pricing.Money `json:"price"`
}

func viewOf(p *Product) ProductView {
	v := ProductView{ID: p.ID(), Name: p.Name(), Price: p.Price()}
	if p.HasBulkPricing() {
		v.Bulk = &BulkView{Units: p.UnitsInBulk(), Price: p.PriceInBulk()}
	}
	return v
}

// Handler exposes public catalog endpoints.
type Handler struct {
	catalog *Catalog
}

// NewHandler constructs a Handler over c.
func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

// Products handles GET /api/v1/products.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog not configured", nil)
		return
	}
	products := h.catalog.Products()
	page, perPage := common.ParsePagination(r, 50, 200)
	pagination := common.Pagination{Page: page, PerPage: perPage, TotalItems: len(products)}
	start, end := pagination.Window()
	views := make([]ProductView, 0, end-start)
	for _, p := range products[start:end] {
		views = append(views, viewOf(p))
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       views,
		"pagination": pagination,
	})
}

// ProductDetail handles GET /api/v1/products/{id}.
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		common.JSONError(w, http.StatusInternalServerError, common.CodeInternal, "catalog not configured", nil)
		return
	}
	id := chi.URLParam(r, "id")
	p, err := h.catalog.ProductByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			common.WriteError(w, common.NotFound("product not found", err))
			return
		}
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, viewOf(p))
}
