package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/internal/orders"
	pkgcheckout "github.com/calderagroup/procuremart-backend/pkg/checkout"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

type stubUsers struct {
	user *models.User
}

func (s *stubUsers) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

type stubCart struct {
	items    []models.CartItem
	clearErr error
	cleared  bool
}

func (s *stubCart) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.items, nil
}

func (s *stubCart) ClearForUser(ctx context.Context, userID uuid.UUID) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.cleared = true
	return nil
}

type stubCreator struct {
	mu      sync.Mutex
	inputs  []orders.CreateOrderInput
	failFor map[string]error
}

func (s *stubCreator) Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[input.SupplierName]; ok {
		return nil, err
	}
	s.inputs = append(s.inputs, input)
	return &models.Order{
		ID:           uuid.New(),
		OrderNumber:  "ORD-20260901-TEST",
		BuyerID:      input.BuyerID,
		SupplierID:   input.SupplierID,
		SupplierName: input.SupplierName,
		Status:       enums.OrderStatusPending,
		TotalCents:   input.TotalCents,
	}, nil
}

func activeBuyer() *models.User {
	return &models.User{
		ID:       uuid.New(),
		UserType: enums.UserTypeBuyer,
		IsActive: true,
	}
}

func cartItemFor(supplierID uuid.UUID, supplierName string, priceCents, qty int) models.CartItem {
	return models.CartItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  qty,
		Product: &models.Product{
			ID:         uuid.New(),
			SupplierID: supplierID,
			Name:       "Machine Oil 5L",
			Unit:       enums.UnitLiter,
			PriceCents: priceCents,
			MOQ:        1,
			IsActive:   true,
			Supplier: &models.SupplierProfile{
				UserID:       supplierID,
				BusinessName: supplierName,
			},
		},
	}
}

func validSubmitInput() SubmitInput {
	return SubmitInput{
		ContactPerson:   "Dana Voss",
		Phone:           "+1 405 555 0100",
		DeliveryAddress: "500 Industrial Pkwy, Norman OK",
	}
}

func newCheckoutService(t *testing.T, users *stubUsers, cart *stubCart, creator *stubCreator) Service {
	t.Helper()
	svc, err := NewService(users, cart, creator, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestSubmitCreatesOrderPerSupplier(t *testing.T) {
	buyer := activeBuyer()
	supplierA := uuid.New()
	supplierB := uuid.New()
	cart := &stubCart{items: []models.CartItem{
		cartItemFor(supplierA, "Apex Industrial", 40000, 2),
		cartItemFor(supplierB, "Borealis Supply", 30000, 4),
		cartItemFor(supplierA, "Apex Industrial", 10000, 1),
	}}
	creator := &stubCreator{}
	svc := newCheckoutService(t, &stubUsers{user: buyer}, cart, creator)

	result, err := svc.Submit(context.Background(), buyer.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(result.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.Orders))
	}
	if !cart.cleared {
		t.Fatal("cart should be cleared after successful submission")
	}

	totalsBySupplier := map[string]orders.CreateOrderInput{}
	for _, input := range creator.inputs {
		totalsBySupplier[input.SupplierName] = input
	}
	apex := totalsBySupplier["Apex Industrial"]
	// 2*40000 + 1*10000 = 90000, under the free delivery threshold.
	if apex.SubtotalCents != 90000 || apex.DeliveryFeeCents != 5000 || apex.TotalCents != 95000 {
		t.Fatalf("apex totals wrong: %+v", apex)
	}
	borealis := totalsBySupplier["Borealis Supply"]
	// 4*30000 = 120000 waives the delivery fee.
	if borealis.SubtotalCents != 120000 || borealis.DeliveryFeeCents != 0 || borealis.TotalCents != 120000 {
		t.Fatalf("borealis totals wrong: %+v", borealis)
	}

	if result.TotalCents != 95000+120000 {
		t.Fatalf("aggregate total wrong: %d", result.TotalCents)
	}
}

func TestSubmitValidationMessagesOrdered(t *testing.T) {
	buyer := activeBuyer()
	cart := &stubCart{items: []models.CartItem{cartItemFor(uuid.New(), "Apex Industrial", 1000, 1)}}
	svc := newCheckoutService(t, &stubUsers{user: buyer}, cart, &stubCreator{})

	_, err := svc.Submit(context.Background(), buyer.ID, SubmitInput{
		ContactPerson:   "D",
		Phone:           "123",
		DeliveryAddress: "short",
	})
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	messages, ok := details["errors"].([]string)
	if !ok || len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %#v", details["errors"])
	}
	want := []string{
		pkgcheckout.MsgContactPersonRequired,
		pkgcheckout.MsgPhoneInvalid,
		pkgcheckout.MsgDeliveryAddressTooShort,
	}
	for i, msg := range want {
		if messages[i] != msg {
			t.Fatalf("message %d: want %q got %q", i, msg, messages[i])
		}
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	buyer := activeBuyer()
	svc := newCheckoutService(t, &stubUsers{user: buyer}, &stubCart{}, &stubCreator{})

	_, err := svc.Submit(context.Background(), buyer.ID, validSubmitInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestSubmitRejectsNonBuyer(t *testing.T) {
	supplier := activeBuyer()
	supplier.UserType = enums.UserTypeSupplier
	svc := newCheckoutService(t, &stubUsers{user: supplier}, &stubCart{}, &stubCreator{})

	_, err := svc.Submit(context.Background(), supplier.ID, validSubmitInput())
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for supplier actor, got %v", err)
	}
}

func TestSubmitPartialFailureKeepsCart(t *testing.T) {
	buyer := activeBuyer()
	supplierA := uuid.New()
	supplierB := uuid.New()
	cart := &stubCart{items: []models.CartItem{
		cartItemFor(supplierA, "Apex Industrial", 40000, 1),
		cartItemFor(supplierB, "Borealis Supply", 30000, 1),
	}}
	creator := &stubCreator{failFor: map[string]error{
		"Borealis Supply": errors.New("connection refused"),
	}}
	svc := newCheckoutService(t, &stubUsers{user: buyer}, cart, creator)

	_, err := svc.Submit(context.Background(), buyer.ID, validSubmitInput())
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeOrderSubmit {
		t.Fatalf("expected order submission failure, got %v", err)
	}
	if cart.cleared {
		t.Fatal("cart must stay intact after a partial failure")
	}
	details, ok := typed.Details().(submitFailureDetails)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if len(details.CreatedOrderIDs) != 1 {
		t.Fatalf("expected one created order in details, got %d", len(details.CreatedOrderIDs))
	}
	if len(details.FailedSuppliers) != 1 || details.FailedSuppliers[0] != "Borealis Supply" {
		t.Fatalf("failed suppliers wrong: %v", details.FailedSuppliers)
	}
}

func TestSubmitCartClearFailure(t *testing.T) {
	buyer := activeBuyer()
	cart := &stubCart{
		items:    []models.CartItem{cartItemFor(uuid.New(), "Apex Industrial", 40000, 1)},
		clearErr: errors.New("deadlock detected"),
	}
	svc := newCheckoutService(t, &stubUsers{user: buyer}, cart, &stubCreator{})

	_, err := svc.Submit(context.Background(), buyer.ID, validSubmitInput())
	typed := pkgerrors.As(err)
	if typed.Code() != pkgerrors.CodeCartClear {
		t.Fatalf("expected cart clear failure, got %v", err)
	}
	details, ok := typed.Details().(cartClearDetails)
	if !ok {
		t.Fatalf("unexpected details type %T", typed.Details())
	}
	if len(details.CreatedOrderIDs) != 1 {
		t.Fatalf("expected the created order id in details, got %v", details.CreatedOrderIDs)
	}
}

func TestSubmitUnknownSupplierBucket(t *testing.T) {
	buyer := activeBuyer()
	orphan := models.CartItem{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
	}
	cart := &stubCart{items: []models.CartItem{orphan}}
	creator := &stubCreator{}
	svc := newCheckoutService(t, &stubUsers{user: buyer}, cart, creator)

	result, err := svc.Submit(context.Background(), buyer.ID, validSubmitInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(result.Orders) != 1 {
		t.Fatalf("expected one order, got %d", len(result.Orders))
	}
	order := result.Orders[0]
	if order.SupplierID != nil {
		t.Fatal("sentinel bucket must carry no supplier id")
	}
	if order.SupplierName != "Unknown Supplier" {
		t.Fatalf("unexpected supplier name %q", order.SupplierName)
	}
	// Missing product join counts as zero, so only the delivery fee is charged.
	input := creator.inputs[0]
	if input.SubtotalCents != 0 || input.TotalCents != 5000 {
		t.Fatalf("orphan totals wrong: %+v", input)
	}
	if input.Items[0].ProductName != "Unknown Product" || input.Items[0].Unit != enums.UnitPiece {
		t.Fatalf("orphan snapshot wrong: %+v", input.Items[0])
	}
}
