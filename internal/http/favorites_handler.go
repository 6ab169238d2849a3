package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lamasat/storefront/internal/favorites"
)

type FavoritesHandler struct {
	favorites *favorites.Store
}

func NewFavoritesHandler(store *favorites.Store) *FavoritesHandler {
	return &FavoritesHandler{favorites: store}
}

type FavoritesDTO struct {
	ProductIDs []int64 `json:"product_ids"`
	Count      int     `json:"count"`
}

type ToggleFavoriteResponseDTO struct {
	ProductID int64 `json:"product_id"`
	Favorite  bool  `json:"favorite"`
	Count     int   `json:"count"`
}

// GET /api/v1/favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())
	respondJSON(w, http.StatusOK, FavoritesDTO{
		ProductIDs: h.favorites.List(sessionID),
		Count:      h.favorites.Count(sessionID),
	})
}

// POST /api/v1/favorites/{product_id}/toggle
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sessionID := getSessionIDFromContext(r.Context())

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	favorite := h.favorites.Toggle(sessionID, productID)
	respondJSON(w, http.StatusOK, ToggleFavoriteResponseDTO{
		ProductID: productID,
		Favorite:  favorite,
		Count:     h.favorites.Count(sessionID),
	})
}
