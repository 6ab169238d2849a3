package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lamasat/storefront/internal/catalog"
	"github.com/lamasat/storefront/internal/currency"
	"github.com/lamasat/storefront/internal/domain"
)

type ProductHandler struct {
	catalog   *catalog.Service
	converter *currency.Converter
	timeout   time.Duration
}

func NewProductHandler(catalogSvc *catalog.Service, converter *currency.Converter, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog:   catalogSvc,
		converter: converter,
		timeout:   timeout,
	}
}

// ProductDTO is a catalog product plus its display price in the requested
// currency. Conversion happens here, at render time only.
type ProductDTO struct {
	domain.Product
	DisplayPrice   float64 `json:"display_price"`
	Currency       string  `json:"currency"`
	CurrencySymbol string  `json:"currency_symbol"`
}

func (h *ProductHandler) toDTO(p domain.Product, code string) ProductDTO {
	code = h.converter.Normalize(code)
	return ProductDTO{
		Product:        p,
		DisplayPrice:   h.converter.Convert(p.Price, code),
		Currency:       code,
		CurrencySymbol: h.converter.SymbolFor(code),
	}
}

func (h *ProductHandler) toDTOs(products []domain.Product, code string) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = h.toDTO(p, code)
	}
	return dtos
}

// GET /api/v1/products?category=rings&featured=true&currency=SYP
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var (
		products []domain.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("featured") == "true":
		products, err = h.catalog.ListFeatured(ctx)
	case r.URL.Query().Get("category") != "":
		products, err = h.catalog.ListByCategory(ctx, domain.Category(r.URL.Query().Get("category")))
	default:
		products, err = h.catalog.ListAll(ctx)
	}

	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDTOs(products, r.URL.Query().Get("currency")))
}

// GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return
	}

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDTO(product, r.URL.Query().Get("currency")))
}
