package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderagroup/procuremart-backend/api/middleware"
	"github.com/calderagroup/procuremart-backend/internal/cart"
	"github.com/calderagroup/procuremart-backend/internal/products"
	"github.com/calderagroup/procuremart-backend/internal/quotes"
	"github.com/calderagroup/procuremart-backend/pkg/config"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test"})
}

func authedRequest(method, target string, body []byte, userID uuid.UUID, userType enums.UserType, supplierID *uuid.UUID) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithUserType(ctx, string(userType))
	if supplierID != nil {
		ctx = middleware.WithSupplierID(ctx, supplierID.String())
	}
	return req.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type stubCartService struct {
	addItem   func(userID, productID uuid.UUID, quantity int) (*models.CartItem, error)
	view      *cart.View
	removed   []uuid.UUID
	clearHits int
}

func (s *stubCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if s.addItem != nil {
		return s.addItem(userID, productID, quantity)
	}
	return &models.CartItem{ID: uuid.New(), UserID: userID, ProductID: productID, Quantity: quantity}, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	return &models.CartItem{ID: itemID, UserID: userID, Quantity: quantity}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	s.removed = append(s.removed, itemID)
	return nil
}

func (s *stubCartService) GetCart(ctx context.Context, userID uuid.UUID) (*cart.View, error) {
	if s.view != nil {
		return s.view, nil
	}
	return &cart.View{Items: []models.CartItem{}}, nil
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.clearHits++
	return nil
}

func TestCartAddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	var gotUser, gotProduct uuid.UUID
	var gotQuantity int
	svc := &stubCartService{addItem: func(u, p uuid.UUID, q int) (*models.CartItem, error) {
		gotUser, gotProduct, gotQuantity = u, p, q
		return &models.CartItem{ID: uuid.New(), UserID: u, ProductID: p, Quantity: q}, nil
	}}

	body, _ := json.Marshal(map[string]any{"product_id": productID, "quantity": 3})
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, userID, enums.UserTypeBuyer, nil)
	rec := httptest.NewRecorder()

	CartAddItem(svc, testLogger())(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, productID, gotProduct)
	assert.Equal(t, 3, gotQuantity)
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	svc := &stubCartService{}

	body := []byte(`{"product_id":"not-a-uuid","quantity":0}`)
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New(), enums.UserTypeBuyer, nil)
	rec := httptest.NewRecorder()

	CartAddItem(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAddItemRequiresAuthContext(t *testing.T) {
	svc := &stubCartService{}

	body, _ := json.Marshal(map[string]any{"product_id": uuid.New(), "quantity": 1})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	CartAddItem(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRemoveItem(t *testing.T) {
	svc := &stubCartService{}
	itemID := uuid.New()

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+itemID.String(), nil, uuid.New(), enums.UserTypeBuyer, nil)
	req = withURLParam(req, "itemId", itemID.String())
	rec := httptest.NewRecorder()

	CartRemoveItem(svc, testLogger())(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.removed, 1)
	assert.Equal(t, itemID, svc.removed[0])
}

type stubQuoteService struct {
	buyerCalls    int
	supplierCalls int
	lastBuyer     uuid.UUID
	lastSupplier  uuid.UUID
	lastFilters   quotes.ListFilters
}

func (s *stubQuoteService) Create(ctx context.Context, input quotes.CreateQuoteInput) (*quotes.QuoteDTO, error) {
	return &quotes.QuoteDTO{ID: uuid.New()}, nil
}

func (s *stubQuoteService) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters quotes.ListFilters) (*quotes.QuoteList, error) {
	s.buyerCalls++
	s.lastBuyer = buyerID
	s.lastFilters = filters
	return &quotes.QuoteList{}, nil
}

func (s *stubQuoteService) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters quotes.ListFilters) (*quotes.QuoteList, error) {
	s.supplierCalls++
	s.lastSupplier = supplierID
	s.lastFilters = filters
	return &quotes.QuoteList{}, nil
}

func (s *stubQuoteService) Respond(ctx context.Context, input quotes.RespondInput) (*quotes.QuoteDTO, error) {
	return &quotes.QuoteDTO{ID: input.QuoteID}, nil
}

func (s *stubQuoteService) Decline(ctx context.Context, input quotes.DeclineInput) (*quotes.QuoteDTO, error) {
	return &quotes.QuoteDTO{ID: input.QuoteID}, nil
}

func (s *stubQuoteService) ExpireStale(ctx context.Context) (int, error) {
	return 0, nil
}

func TestQuoteListRoutesByRole(t *testing.T) {
	buyerID := uuid.New()
	supplierID := uuid.New()

	t.Run("buyer sees own requests", func(t *testing.T) {
		svc := &stubQuoteService{}
		req := authedRequest(http.MethodGet, "/api/v1/quotes?status=pending", nil, buyerID, enums.UserTypeBuyer, nil)
		rec := httptest.NewRecorder()

		QuoteList(svc, testLogger())(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.buyerCalls)
		assert.Zero(t, svc.supplierCalls)
		assert.Equal(t, buyerID, svc.lastBuyer)
		require.NotNil(t, svc.lastFilters.Status)
		assert.Equal(t, enums.QuoteStatusPending, *svc.lastFilters.Status)
	})

	t.Run("supplier sees inbox", func(t *testing.T) {
		svc := &stubQuoteService{}
		req := authedRequest(http.MethodGet, "/api/v1/quotes", nil, uuid.New(), enums.UserTypeSupplier, &supplierID)
		rec := httptest.NewRecorder()

		QuoteList(svc, testLogger())(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, svc.supplierCalls)
		assert.Zero(t, svc.buyerCalls)
		assert.Equal(t, supplierID, svc.lastSupplier)
	})

	t.Run("supplier without profile context is rejected", func(t *testing.T) {
		svc := &stubQuoteService{}
		req := authedRequest(http.MethodGet, "/api/v1/quotes", nil, uuid.New(), enums.UserTypeSupplier, nil)
		rec := httptest.NewRecorder()

		QuoteList(svc, testLogger())(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, svc.supplierCalls)
	})
}

func TestQuoteListRejectsUnknownStatus(t *testing.T) {
	svc := &stubQuoteService{}
	req := authedRequest(http.MethodGet, "/api/v1/quotes?status=bogus", nil, uuid.New(), enums.UserTypeBuyer, nil)
	rec := httptest.NewRecorder()

	QuoteList(svc, testLogger())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.buyerCalls)
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.Env = "test"

	t.Run("all dependencies up", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()

		HealthReady(cfg, testLogger(), map[string]Pinger{
			"postgres": &stubPinger{},
			"redis":    &stubPinger{},
		})(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "test", rec.Header().Get("X-ProcureMart-Env"))
	})

	t.Run("one dependency down flips to 503", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()

		HealthReady(cfg, testLogger(), map[string]Pinger{
			"postgres": &stubPinger{},
			"redis":    &stubPinger{err: fmt.Errorf("connection refused")},
		})(rec, req)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)

		var envelope struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "up", envelope.Data["postgres"])
		assert.Equal(t, "down", envelope.Data["redis"])
	})

	t.Run("nil check is skipped", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		rec := httptest.NewRecorder()

		HealthReady(cfg, testLogger(), map[string]Pinger{"bigquery": nil})(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var envelope struct {
			Data map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
		assert.Equal(t, "skipped", envelope.Data["bigquery"])
	})
}

type noopProductService struct{}

func (noopProductService) BrowseCatalog(ctx context.Context, params pagination.Params, filters products.CatalogFilters) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (noopProductService) GetDetail(ctx context.Context, productID uuid.UUID) (*products.ProductDTO, error) {
	return &products.ProductDTO{ID: productID}, nil
}

func (noopProductService) ListCategories(ctx context.Context) ([]products.CategoryDTO, error) {
	return nil, nil
}

func (noopProductService) Create(ctx context.Context, supplierID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (noopProductService) Update(ctx context.Context, supplierID, productID uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	return &products.ProductDTO{}, nil
}

func (noopProductService) Delete(ctx context.Context, supplierID, productID uuid.UUID) error {
	return nil
}

func (noopProductService) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func TestCatalogListRejectsBadPriceFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products?price_min_cents=abc", nil)
	rec := httptest.NewRecorder()

	CatalogList(&noopProductService{}, testLogger())(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
