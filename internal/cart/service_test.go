package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

type stubCartRepo struct {
	items      map[uuid.UUID]*models.CartItem
	cleared    bool
	listResult []models.CartItem
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{items: make(map[uuid.UUID]*models.CartItem)}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	if s.listResult != nil {
		return s.listResult, nil
	}
	out := make([]models.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if item.UserID == userID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *stubCartRepo) FindItem(ctx context.Context, userID, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCartRepo) FindByProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items {
		if item.UserID == userID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubCartRepo) Create(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ID] = &copied
	return item, nil
}

func (s *stubCartRepo) UpdateQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if item, ok := s.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (s *stubCartRepo) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubCartRepo) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	for id, item := range s.items {
		if item.UserID == userID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubCartTx struct{}

func (stubCartTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type stubProducts struct {
	product *models.Product
}

func (s *stubProducts) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.product == nil || s.product.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.product, nil
}

func activeProduct(priceCents int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		SupplierID: uuid.New(),
		Name:       "Pallet Wrap",
		PriceCents: priceCents,
		MOQ:        1,
		StockQty:   100,
		IsActive:   true,
	}
}

func newCartService(t *testing.T, repo Repository, products productLoader) Service {
	t.Helper()
	svc, err := NewService(repo, stubCartTx{}, products)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddItemSnapshotsPrice(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(4200)
	svc := newCartService(t, repo, &stubProducts{product: product})

	userID := uuid.New()
	item, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.UnitPriceCents != 4200 {
		t.Fatalf("price not snapshotted, got %d", item.UnitPriceCents)
	}
	if item.Quantity != 2 {
		t.Fatalf("quantity wrong: %d", item.Quantity)
	}
}

func TestAddItemIncrementsExisting(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	svc := newCartService(t, repo, &stubProducts{product: product})

	userID := uuid.New()
	first, err := svc.AddItem(context.Background(), userID, product.ID, 2)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.AddItem(context.Background(), userID, product.ID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.ID != first.ID {
		t.Fatal("expected the same cart row")
	}
	if second.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", second.Quantity)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected one row, got %d", len(repo.items))
	}
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	product.IsActive = false
	svc := newCartService(t, repo, &stubProducts{product: product})

	_, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 1)
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestAddItemValidation(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	svc := newCartService(t, repo, &stubProducts{product: product})

	if _, err := svc.AddItem(context.Background(), uuid.Nil, product.ID, 1); pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), uuid.New(), product.ID, 0); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := svc.AddItem(context.Background(), uuid.New(), uuid.New(), 1); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateQuantity(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	svc := newCartService(t, repo, &stubProducts{product: product})

	userID := uuid.New()
	item, err := svc.AddItem(context.Background(), userID, product.ID, 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	updated, err := svc.UpdateQuantity(context.Background(), userID, item.ID, 9)
	if err != nil {
		t.Fatalf("update quantity: %v", err)
	}
	if updated.Quantity != 9 {
		t.Fatalf("expected 9, got %d", updated.Quantity)
	}

	if _, err := svc.UpdateQuantity(context.Background(), uuid.New(), item.ID, 2); pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestGetCartComputesTotals(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	svc := newCartService(t, repo, &stubProducts{product: product})

	userID := uuid.New()
	price := 30000
	repo.listResult = []models.CartItem{
		{UserID: userID, Quantity: 2, Product: &models.Product{PriceCents: price}},
		{UserID: userID, Quantity: 1, Product: &models.Product{PriceCents: price}},
	}

	view, err := svc.GetCart(context.Background(), userID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if view.Totals.SubtotalCents != 90000 {
		t.Fatalf("subtotal wrong: %d", view.Totals.SubtotalCents)
	}
	if view.Totals.DeliveryFeeCents != 5000 {
		t.Fatalf("fee should apply at 90000, got %d", view.Totals.DeliveryFeeCents)
	}
	if view.Totals.TotalCents != 95000 {
		t.Fatalf("total wrong: %d", view.Totals.TotalCents)
	}
}

func TestClearCart(t *testing.T) {
	repo := newStubCartRepo()
	product := activeProduct(1000)
	svc := newCartService(t, repo, &stubProducts{product: product})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), userID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !repo.cleared {
		t.Fatal("repository clear not invoked")
	}
}
