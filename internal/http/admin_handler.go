package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lamasat/storefront/internal/catalog"
	"github.com/lamasat/storefront/internal/domain"
)

const maxUploadSize = 5 << 20 // 5MB

type AdminHandler struct {
	catalog   *catalog.Service
	uploadDir string
	timeout   time.Duration
}

func NewAdminHandler(catalogSvc *catalog.Service, uploadDir string, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		catalog:   catalogSvc,
		uploadDir: uploadDir,
		timeout:   timeout,
	}
}

type ProductRequestDTO struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
	Stock      int     `json:"stock"`
	ImageURL   string  `json:"image_url"`
	IsNew      bool    `json:"is_new"`
	IsFeatured bool    `json:"is_featured"`
}

type SetFeaturedRequestDTO struct {
	Featured bool `json:"featured"`
}

type UploadResponseDTO struct {
	URL string `json:"url"`
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	created, err := h.catalog.CreateProduct(ctx, productFromDTO(req))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/admin/products/{id}
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	product := productFromDTO(req)
	product.ID = id

	if err := h.catalog.UpdateProduct(ctx, product); err != nil {
		handleDomainError(w, err)
		return
	}

	updated, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, updated)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(ctx, id); err != nil {
		handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PUT /api/v1/admin/products/{id}/featured
func (h *AdminHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req SetFeaturedRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.catalog.SetFeatured(ctx, id, req.Featured); err != nil {
		handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/admin/uploads
// Accepts a multipart "image" part and returns the public URL for the stored file.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_upload", "missing or oversized image part")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".svg":
	default:
		respondError(w, http.StatusBadRequest, "unsupported_image_type", fmt.Sprintf("unsupported image extension %q", ext))
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		handleDomainError(w, fmt.Errorf("create upload dir: %w", err))
		return
	}

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		handleDomainError(w, fmt.Errorf("create upload file: %w", err))
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		handleDomainError(w, fmt.Errorf("write upload file: %w", err))
		return
	}

	respondJSON(w, http.StatusCreated, UploadResponseDTO{URL: "/uploads/" + name})
}

func productFromDTO(req ProductRequestDTO) domain.Product {
	return domain.Product{
		Name:       req.Name,
		Price:      req.Price,
		Category:   domain.Category(req.Category),
		Stock:      req.Stock,
		ImageURL:   req.ImageURL,
		IsNew:      req.IsNew,
		IsFeatured: req.IsFeatured,
	}
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product id must be a positive integer")
		return 0, false
	}
	return id, true
}
