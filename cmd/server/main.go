package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/lamasat/storefront/internal/cart"
	"github.com/lamasat/storefront/internal/catalog"
	"github.com/lamasat/storefront/internal/catalog/cache"
	"github.com/lamasat/storefront/internal/checkout"
	"github.com/lamasat/storefront/internal/config"
	"github.com/lamasat/storefront/internal/currency"
	"github.com/lamasat/storefront/internal/favorites"
	h "github.com/lamasat/storefront/internal/http"
	"github.com/lamasat/storefront/internal/notify"
	"github.com/lamasat/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	logg := logger.New(logger.Options{
		Service: "storefront",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	// Catalog storage
	repo, err := catalog.NewSQLiteRepository(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open catalog database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	// Catalog cache is optional; without redis every read hits sqlite
	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		productCache = cache.NewRedisCache(client)
		logg.Info("catalog cache enabled", "addr", cfg.RedisAddr)
	}

	catalogSvc := catalog.NewService(repo, productCache)
	carts := cart.NewMemoryStore()
	favoritesStore := favorites.NewStore()
	converter := currency.NewConverter()

	notifier := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
	if !notifier.Configured() {
		logg.Warn("telegram credentials missing, checkout submissions will fail")
	}

	checkoutSvc := checkout.NewService(carts, notifier)

	router := h.NewRouter(h.RouterConfig{
		Products:   h.NewProductHandler(catalogSvc, converter, cfg.RequestTimeout),
		Cart:       h.NewCartHandler(carts, catalogSvc, cfg.RequestTimeout),
		Checkout:   h.NewCheckoutHandler(checkoutSvc, converter, cfg.RequestTimeout),
		Favorites:  h.NewFavoritesHandler(favoritesStore),
		Admin:      h.NewAdminHandler(catalogSvc, cfg.UploadDir, cfg.RequestTimeout),
		AdminToken: cfg.AdminToken,
		UploadDir:  cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
		IdleTimeout:  cfg.RequestTimeout * 2,
	}

	go func() {
		logg.Info("storefront starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logg.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	logg.Info("server exited")
}
