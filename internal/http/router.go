package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the wired handlers and auth settings for the API router.
type RouterConfig struct {
	Products  *ProductHandler
	Cart      *CartHandler
	Checkout  *CheckoutHandler
	Favorites *FavoritesHandler
	Admin     *AdminHandler

	AdminToken string
	UploadDir  string
}

func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.Products.ListProducts)
			r.Get("/{id}", cfg.Products.GetProduct)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cfg.Cart.GetCart)
			r.Delete("/", cfg.Cart.ClearCart)
			r.Post("/toggle", cfg.Cart.ToggleCart)
			r.Post("/items", cfg.Cart.AddItem)
			r.Put("/items/{product_id}", cfg.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", cfg.Cart.RemoveItem)
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", cfg.Favorites.List)
			r.Post("/{product_id}/toggle", cfg.Favorites.Toggle)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", cfg.Checkout.Checkout)
			r.Get("/cities", cfg.Checkout.Cities)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminToken))
			r.Post("/products", cfg.Admin.CreateProduct)
			r.Put("/products/{id}", cfg.Admin.UpdateProduct)
			r.Delete("/products/{id}", cfg.Admin.DeleteProduct)
			r.Put("/products/{id}/featured", cfg.Admin.SetFeatured)
			r.Post("/uploads", cfg.Admin.UploadImage)
		})
	})

	if cfg.UploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir)))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	return r
}
