package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamasat/storefront/internal/cart"
	"github.com/lamasat/storefront/internal/catalog"
	"github.com/lamasat/storefront/internal/checkout"
	"github.com/lamasat/storefront/internal/currency"
	"github.com/lamasat/storefront/internal/domain"
	"github.com/lamasat/storefront/internal/favorites"
)

// stubRepository implements catalog.Repository over a slice.
type stubRepository struct {
	m        sync.Mutex
	products []domain.Product
	nextID   int64
}

func (s *stubRepository) GetAll(context.Context) ([]domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]domain.Product(nil), s.products...), nil
}

func (s *stubRepository) GetByID(_ context.Context, id int64) (domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, catalog.ErrProductNotFound
}

func (s *stubRepository) GetByCategory(_ context.Context, category domain.Category) ([]domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepository) GetFeatured(context.Context) ([]domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	var out []domain.Product
	for _, p := range s.products {
		if p.IsFeatured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepository) Create(_ context.Context, p domain.Product) (domain.Product, error) {
	s.m.Lock()
	defer s.m.Unlock()
	s.nextID++
	p.ID = s.nextID
	s.products = append(s.products, p)
	return p, nil
}

func (s *stubRepository) Update(_ context.Context, p domain.Product) error {
	s.m.Lock()
	defer s.m.Unlock()
	for i := range s.products {
		if s.products[i].ID == p.ID {
			s.products[i] = p
			return nil
		}
	}
	return catalog.ErrProductNotFound
}

func (s *stubRepository) Delete(_ context.Context, id int64) error {
	s.m.Lock()
	defer s.m.Unlock()
	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return catalog.ErrProductNotFound
}

func (s *stubRepository) SetFeatured(_ context.Context, id int64, featured bool) error {
	s.m.Lock()
	defer s.m.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products[i].IsFeatured = featured
			return nil
		}
	}
	return catalog.ErrProductNotFound
}

func (s *stubRepository) Close() error { return nil }

type stubNotifier struct {
	m     sync.Mutex
	calls int
	err   error
}

func (s *stubNotifier) Send(context.Context, domain.Order) error {
	s.m.Lock()
	defer s.m.Unlock()
	s.calls++
	return s.err
}

type testEnv struct {
	router   http.Handler
	repo     *stubRepository
	carts    *cart.MemoryStore
	notifier *stubNotifier
}

func setupRouter(t *testing.T) *testEnv {
	t.Helper()

	repo := &stubRepository{}
	catalogSvc := catalog.NewService(repo, nil)
	carts := cart.NewMemoryStore()
	converter := currency.NewConverter()
	notifier := &stubNotifier{}
	checkoutSvc := checkout.NewService(carts, notifier)

	router := NewRouter(RouterConfig{
		Products:   NewProductHandler(catalogSvc, converter, 5*time.Second),
		Cart:       NewCartHandler(carts, catalogSvc, 5*time.Second),
		Checkout:   NewCheckoutHandler(checkoutSvc, converter, 5*time.Second),
		Favorites:  NewFavoritesHandler(favorites.NewStore()),
		Admin:      NewAdminHandler(catalogSvc, t.TempDir(), 5*time.Second),
		AdminToken: "secret-token",
	})

	return &testEnv{router: router, repo: repo, carts: carts, notifier: notifier}
}

func (e *testEnv) do(t *testing.T, method, path, sessionID string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedProduct(t *testing.T, p domain.Product) domain.Product {
	t.Helper()
	created, err := e.repo.Create(context.Background(), p)
	require.NoError(t, err)
	return created
}

func seedRing() domain.Product {
	return domain.Product{
		Name:     "خاتم ذهبي كلاسيكي",
		Price:    250,
		Category: domain.CategoryRings,
		Stock:    15,
	}
}

func TestHealth(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodGet, "/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProducts_ByCategoryAndFeatured(t *testing.T) {
	env := setupRouter(t)
	env.seedProduct(t, seedRing())
	watch := seedRing()
	watch.Name = "ساعة ذهبية"
	watch.Category = domain.CategoryWatches
	watch.IsFeatured = true
	env.seedProduct(t, watch)

	rec := env.do(t, http.MethodGet, "/api/v1/products?category=watches", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var products []ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, domain.CategoryWatches, products[0].Category)

	rec = env.do(t, http.MethodGet, "/api/v1/products?featured=true", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products = nil
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.True(t, products[0].IsFeatured)

	rec = env.do(t, http.MethodGet, "/api/v1/products?category=gadgets", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct_CurrencyConversionAtRenderTime(t *testing.T) {
	env := setupRouter(t)
	created := env.seedProduct(t, seedRing())

	rec := env.do(t, http.MethodGet, "/api/v1/products/1?currency=TRY", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, created.Price, dto.Price, "stored price stays canonical")
	assert.Equal(t, created.Price*41, dto.DisplayPrice)
	assert.Equal(t, "₺", dto.CurrencySymbol)

	// Unknown currency falls back to the default
	rec = env.do(t, http.MethodGet, "/api/v1/products/1?currency=XXX", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "$", dto.CurrencySymbol)
	assert.Equal(t, "USD", dto.Currency)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodGet, "/api/v1/products/99", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := setupRouter(t)
	env.seedProduct(t, seedRing())

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 2}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var c domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, "خاتم ذهبي كلاسيكي", c.Items[0].Name, "line snapshots the catalog name at add time")

	rec = env.do(t, http.MethodPut, "/api/v1/cart/items/1", "sess", UpdateQuantityRequestDTO{Quantity: 5}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/v1/cart/items/1", "sess", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Empty(t, c.Items)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 42, Quantity: 1}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItem_OutOfStock(t *testing.T) {
	env := setupRouter(t)
	p := seedRing()
	p.Stock = 0
	env.seedProduct(t, p)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 1}, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddItem_ClampsQuantityToStock(t *testing.T) {
	env := setupRouter(t)
	p := seedRing()
	p.Stock = 3
	env.seedProduct(t, p)

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 10}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var c domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestSessionMiddleware_MintsSessionID(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodGet, "/api/v1/cart", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Session-ID"))
}

func TestFavoritesFlow(t *testing.T) {
	env := setupRouter(t)

	rec := env.do(t, http.MethodPost, "/api/v1/favorites/7/toggle", "sess", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var toggled ToggleFavoriteResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&toggled))
	assert.True(t, toggled.Favorite)
	assert.Equal(t, 1, toggled.Count)

	rec = env.do(t, http.MethodPost, "/api/v1/favorites/7/toggle", "sess", nil, nil)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&toggled))
	assert.False(t, toggled.Favorite)
	assert.Equal(t, 0, toggled.Count)

	rec = env.do(t, http.MethodGet, "/api/v1/favorites", "sess", nil, nil)
	var list FavoritesDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Empty(t, list.ProductIDs)
}

func checkoutBody() CheckoutRequestDTO {
	return CheckoutRequestDTO{
		Name:            "أحمد محمد",
		Phone:           "+963911234567",
		City:            "دمشق",
		DetailedAddress: "المزة، شارع الجلاء",
		Currency:        "USD",
	}
}

func TestCheckout_Success(t *testing.T) {
	env := setupRouter(t)
	env.seedProduct(t, seedRing())

	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 2}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", "sess", checkoutBody(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CheckoutResponseDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 502.0, resp.Total) // 250*2 + shipping 2
	assert.NotEmpty(t, resp.OrderID)

	// Cart is cleared after a successful submission
	rec = env.do(t, http.MethodGet, "/api/v1/cart", "sess", nil, nil)
	var c domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Empty(t, c.Items)
}

func TestCheckout_ValidationErrorsReturnFieldMap(t *testing.T) {
	env := setupRouter(t)
	env.seedProduct(t, seedRing())
	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := checkoutBody()
	body.Phone = "12345"
	body.Name = ""

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", "sess", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "validation_failed", resp.Code)
	assert.Equal(t, "رقم الهاتف غير صحيح", resp.Fields["phone"])
	assert.Equal(t, "الاسم مطلوب", resp.Fields["name"])

	env.notifier.m.Lock()
	assert.Equal(t, 0, env.notifier.calls)
	env.notifier.m.Unlock()
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodPost, "/api/v1/checkout", "sess", checkoutBody(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_DeliveryFailure(t *testing.T) {
	env := setupRouter(t)
	env.seedProduct(t, seedRing())
	rec := env.do(t, http.MethodPost, "/api/v1/cart/items", "sess", AddItemRequestDTO{ProductID: 1, Quantity: 1}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	env.notifier.m.Lock()
	env.notifier.err = assert.AnError
	env.notifier.m.Unlock()

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", "sess", checkoutBody(), nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// Cart is preserved for retry
	rec = env.do(t, http.MethodGet, "/api/v1/cart", "sess", nil, nil)
	var c domain.Cart
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Len(t, c.Items, 1)
}

func TestCheckout_Cities(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodGet, "/api/v1/checkout/cities", "", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cities []checkout.City
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&cities))
	assert.Len(t, cities, 14)
	assert.Equal(t, 2.0, cities[0].ShippingFee)
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	env := setupRouter(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", "", ProductRequestDTO{}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/products", "", ProductRequestDTO{}, map[string]string{
		"Authorization": "Bearer wrong-token",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminProductCRUD(t *testing.T) {
	env := setupRouter(t)
	auth := map[string]string{"Authorization": "Bearer secret-token"}

	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", "", ProductRequestDTO{
		Name:     "نظارة شمسية",
		Price:    120,
		Category: "glasses",
		Stock:    5,
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created domain.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotZero(t, created.ID)

	rec = env.do(t, http.MethodPut, "/api/v1/admin/products/1", "", ProductRequestDTO{
		Name:     "نظارة شمسية فاخرة",
		Price:    150,
		Category: "glasses",
		Stock:    4,
	}, auth)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/v1/admin/products/1/featured", "", SetFeaturedRequestDTO{Featured: true}, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products?featured=true", "", nil, nil)
	var products []ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "نظارة شمسية فاخرة", products[0].Name)

	rec = env.do(t, http.MethodDelete, "/api/v1/admin/products/1", "", nil, auth)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/products/1", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminCreateProduct_InvalidCategory(t *testing.T) {
	env := setupRouter(t)
	rec := env.do(t, http.MethodPost, "/api/v1/admin/products", "", ProductRequestDTO{
		Name:     "شيء غريب",
		Price:    10,
		Category: "gadgets",
		Stock:    1,
	}, map[string]string{"Authorization": "Bearer secret-token"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	repo := &stubRepository{}
	catalogSvc := catalog.NewService(repo, nil)
	router := NewRouter(RouterConfig{
		Products:   NewProductHandler(catalogSvc, currency.NewConverter(), time.Second),
		Cart:       NewCartHandler(cart.NewMemoryStore(), catalogSvc, time.Second),
		Checkout:   NewCheckoutHandler(checkout.NewService(cart.NewMemoryStore(), &stubNotifier{}), currency.NewConverter(), time.Second),
		Favorites:  NewFavoritesHandler(favorites.NewStore()),
		Admin:      NewAdminHandler(catalogSvc, t.TempDir(), time.Second),
		AdminToken: "",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products", bytes.NewReader([]byte("{}")))
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
