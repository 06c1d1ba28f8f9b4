package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderagroup/procuremart-backend/internal/cart"
	"github.com/calderagroup/procuremart-backend/internal/products"
	pkgauth "github.com/calderagroup/procuremart-backend/pkg/auth"
	"github.com/calderagroup/procuremart-backend/pkg/auth/session"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

type allowAllSessions struct{}

func (allowAllSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubProducts struct{}

func (stubProducts) BrowseCatalog(ctx context.Context, params pagination.Params, filters products.CatalogFilters) (*products.ProductList, error) {
	return &products.ProductList{Products: []products.ProductDTO{}}, nil
}

func (stubProducts) GetDetail(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (stubProducts) ListCategories(ctx context.Context) ([]products.CategoryDTO, error) {
	return nil, nil
}

func (stubProducts) Create(ctx context.Context, supplierID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{SupplierID: supplierID}, nil
}

func (stubProducts) Update(ctx context.Context, supplierID, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (stubProducts) Delete(ctx context.Context, supplierID, productID uuid.UUID) error {
	return nil
}

func (stubProducts) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

type stubCart struct{}

func (stubCart) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	return &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}, nil
}

func (stubCart) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	return &models.CartItem{ID: itemID, Quantity: quantity}, nil
}

func (stubCart) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return nil
}

func (stubCart) GetCart(ctx context.Context, userID uuid.UUID) (*cart.View, error) {
	return &cart.View{Items: []models.CartItem{}}, nil
}

func (stubCart) Clear(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func testRouterConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{
		Secret:            "router-test-secret",
		Issuer:            "procuremart-test",
		ExpirationMinutes: 15,
	}
	cfg.AuthRateLimit.LoginWindow = time.Minute
	cfg.AuthRateLimit.LoginIPLimit = 10
	cfg.AuthRateLimit.LoginEmailLimit = 10
	cfg.AuthRateLimit.RegisterWindow = time.Minute
	cfg.AuthRateLimit.RegisterIPLimit = 10
	cfg.AuthRateLimit.RegisterEmailLimit = 10
	return cfg
}

func newTestRouter(cfg *config.Config) http.Handler {
	return NewRouter(Deps{
		Config:         cfg,
		Logger:         logger.New(logger.Options{ServiceName: "router-test"}),
		Sessions:       allowAllSessions{},
		ProductService: stubProducts{},
		CartService:    stubCart{},
	})
}

func mintToken(t *testing.T, cfg *config.Config, userType enums.UserType, supplierID *uuid.UUID) string {
	t.Helper()

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:     uuid.New(),
		UserType:   userType,
		SupplierID: supplierID,
		JTI:        session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func TestRouterPublicCatalogNeedsNoSession(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterPrivateSurfaceRequiresToken(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterBuyerTokenReachesCart(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeBuyer, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterSupplierSurfaceRejectsBuyers(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeBuyer, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterSupplierSurfaceAcceptsSupplier(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	supplierID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/supplier/products", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeSupplier, &supplierID))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminSurfaceRejectsNonAdmins(t *testing.T) {
	cfg := testRouterConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserTypeBuyer, nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouterAdminRegisterHiddenInProd(t *testing.T) {
	cfg := testRouterConfig()
	cfg.App.Env = "production"
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/auth/register", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
