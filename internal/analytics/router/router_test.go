package router

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

func TestRouterRejectsUnsupportedEventType(t *testing.T) {
	router := newTestRouter(t, nil)
	err := router.Handle(context.Background(), types.Envelope{
		EventType: enums.OutboxEventType("unsupported"),
		Payload:   json.RawMessage(`{}`),
	})
	if !errors.Is(err, ErrUnsupportedEventType) {
		t.Fatalf("expected unsupported event type error, got %v", err)
	}
}

func TestRouterRejectsEmptyPayload(t *testing.T) {
	router := newTestRouter(t, nil)
	err := router.Handle(context.Background(), types.Envelope{
		EventType: enums.EventOrderCreated,
	})
	if err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestRouterOverrideHandler(t *testing.T) {
	called := false
	override := handlerFunc(func(ctx context.Context, envelope types.Envelope, payload any) error {
		called = true
		if _, ok := payload.(*outboxpayloads.OrderCreatedEvent); !ok {
			t.Fatalf("expected decoded order payload, got %T", payload)
		}
		return nil
	})

	router := newTestRouter(t, map[enums.OutboxEventType]Handler{
		enums.EventOrderCreated: override,
	})

	envelope := orderCreatedEnvelope(t, outboxpayloads.OrderCreatedEvent{
		OrderID: uuid.New(),
		BuyerID: uuid.New(),
	})
	if err := router.Handle(context.Background(), envelope); err != nil {
		t.Fatalf("unexpected handle error: %v", err)
	}
	if !called {
		t.Fatal("expected override handler to run")
	}
}

func TestRouterDispatchesAllDomainEvents(t *testing.T) {
	writer := &fakeWriter{}
	router, err := NewRouter(writer, testLogger(), nil)
	if err != nil {
		t.Fatalf("construct router: %v", err)
	}

	supplierID := uuid.New()
	price := 42000
	cases := []struct {
		eventType enums.OutboxEventType
		payload   any
	}{
		{enums.EventOrderCreated, outboxpayloads.OrderCreatedEvent{OrderID: uuid.New(), BuyerID: uuid.New(), SupplierID: &supplierID, TotalCents: 95000, ItemCount: 3}},
		{enums.EventOrderStatusChanged, outboxpayloads.OrderStatusChangedEvent{OrderID: uuid.New(), BuyerID: uuid.New(), OldStatus: enums.OrderStatusPending, NewStatus: enums.OrderStatusConfirmed}},
		{enums.EventOrderCancelled, outboxpayloads.OrderCancelledEvent{OrderID: uuid.New(), BuyerID: uuid.New()}},
		{enums.EventQuoteRequested, outboxpayloads.QuoteRequestedEvent{QuoteID: uuid.New(), BuyerID: uuid.New(), SupplierID: supplierID}},
		{enums.EventQuoteResponded, outboxpayloads.QuoteRespondedEvent{QuoteID: uuid.New(), BuyerID: uuid.New(), SupplierID: supplierID, Status: enums.QuoteStatusResponded, PriceCents: &price}},
		{enums.EventQuoteExpired, outboxpayloads.QuoteExpiredEvent{QuoteID: uuid.New(), BuyerID: uuid.New(), SupplierID: supplierID}},
	}

	for _, tc := range cases {
		data, err := json.Marshal(tc.payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", tc.eventType, err)
		}
		envelope := types.Envelope{
			EventID:    uuid.NewString(),
			EventType:  tc.eventType,
			OccurredAt: time.Now().UTC(),
			Payload:    data,
		}
		if err := router.Handle(context.Background(), envelope); err != nil {
			t.Fatalf("handle %s: %v", tc.eventType, err)
		}
	}

	if len(writer.inserted) != len(cases) {
		t.Fatalf("expected %d rows inserted, got %d", len(cases), len(writer.inserted))
	}
	for i, tc := range cases {
		if writer.inserted[i].EventType != string(tc.eventType) {
			t.Fatalf("row %d: expected event type %s, got %s", i, tc.eventType, writer.inserted[i].EventType)
		}
	}
}

type handlerFunc func(ctx context.Context, envelope types.Envelope, payload any) error

func (fn handlerFunc) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	return fn(ctx, envelope, payload)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "analytics-router-test"})
}

func newTestRouter(t *testing.T, overrides map[enums.OutboxEventType]Handler) *Router {
	t.Helper()
	router, err := NewRouter(&fakeWriter{}, testLogger(), overrides)
	if err != nil {
		t.Fatalf("construct router: %v", err)
	}
	return router
}

func orderCreatedEnvelope(t *testing.T, event outboxpayloads.OrderCreatedEvent) types.Envelope {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal order payload: %v", err)
	}
	return types.Envelope{
		EventID:       uuid.NewString(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   event.OrderID.String(),
		OccurredAt:    time.Now().UTC(),
		Payload:       data,
	}
}
