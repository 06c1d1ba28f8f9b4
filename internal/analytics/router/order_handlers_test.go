package router

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

func TestOrderCreatedHandlerInsertsRow(t *testing.T) {
	writer := &fakeWriter{}
	handler := newOrderCreatedHandler(writer, testLogger())

	supplierID := uuid.New()
	event := &outboxpayloads.OrderCreatedEvent{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20260901-7GQ2",
		BuyerID:     uuid.New(),
		SupplierID:  &supplierID,
		TotalCents:  95000,
		ItemCount:   3,
	}
	envelope := types.Envelope{
		EventID:       uuid.NewString(),
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   event.OrderID.String(),
		OccurredAt:    time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}
	if len(writer.inserted) != 1 {
		t.Fatalf("expected one row, got %d", len(writer.inserted))
	}

	row := writer.inserted[0]
	if row.EventID != envelope.EventID {
		t.Fatalf("expected event id %s, got %s", envelope.EventID, row.EventID)
	}
	if row.OrderID == nil || *row.OrderID != event.OrderID.String() {
		t.Fatalf("unexpected order id column: %v", row.OrderID)
	}
	if row.OrderNumber == nil || *row.OrderNumber != event.OrderNumber {
		t.Fatalf("unexpected order number column: %v", row.OrderNumber)
	}
	if row.SupplierID == nil || *row.SupplierID != supplierID.String() {
		t.Fatalf("unexpected supplier column: %v", row.SupplierID)
	}
	if row.TotalCents == nil || *row.TotalCents != 95000 {
		t.Fatalf("unexpected total column: %v", row.TotalCents)
	}
	if row.ItemCount == nil || *row.ItemCount != 3 {
		t.Fatalf("unexpected item count column: %v", row.ItemCount)
	}
	if row.NewStatus == nil || *row.NewStatus != string(enums.OrderStatusPending) {
		t.Fatalf("unexpected status column: %v", row.NewStatus)
	}
	if !row.Payload.Valid {
		t.Fatal("expected payload json to be stored")
	}
}

func TestOrderCreatedHandlerRejectsWrongPayload(t *testing.T) {
	handler := newOrderCreatedHandler(&fakeWriter{}, testLogger())
	err := handler.Handle(context.Background(), types.Envelope{}, &outboxpayloads.QuoteExpiredEvent{})
	if err == nil {
		t.Fatal("expected payload type error")
	}
}

func TestOrderStatusChangedHandlerRecordsTransition(t *testing.T) {
	writer := &fakeWriter{}
	handler := newOrderStatusChangedHandler(writer, testLogger())

	event := &outboxpayloads.OrderStatusChangedEvent{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20260901-7GQ2",
		BuyerID:     uuid.New(),
		OldStatus:   enums.OrderStatusConfirmed,
		NewStatus:   enums.OrderStatusShipped,
	}
	envelope := types.Envelope{
		EventID:    uuid.NewString(),
		EventType:  enums.EventOrderStatusChanged,
		OccurredAt: time.Now().UTC(),
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	row := writer.inserted[0]
	if row.OldStatus == nil || *row.OldStatus != "confirmed" {
		t.Fatalf("unexpected old status: %v", row.OldStatus)
	}
	if row.NewStatus == nil || *row.NewStatus != "shipped" {
		t.Fatalf("unexpected new status: %v", row.NewStatus)
	}
	if row.SupplierID != nil {
		t.Fatalf("expected nil supplier column, got %v", row.SupplierID)
	}
}

func TestOrderCancelledHandlerMarksCancelled(t *testing.T) {
	writer := &fakeWriter{}
	handler := newOrderCancelledHandler(writer, testLogger())

	event := &outboxpayloads.OrderCancelledEvent{
		OrderID:     uuid.New(),
		OrderNumber: "ORD-20260901-7GQ2",
		BuyerID:     uuid.New(),
		CancelledAt: time.Now().UTC(),
		Reason:      "ordered by mistake",
	}
	envelope := types.Envelope{
		EventID:    uuid.NewString(),
		EventType:  enums.EventOrderCancelled,
		OccurredAt: time.Now().UTC(),
	}

	if err := handler.Handle(context.Background(), envelope, event); err != nil {
		t.Fatalf("unexpected handler error: %v", err)
	}

	row := writer.inserted[0]
	if row.NewStatus == nil || *row.NewStatus != string(enums.OrderStatusCancelled) {
		t.Fatalf("unexpected status column: %v", row.NewStatus)
	}
	if row.BuyerID == nil || *row.BuyerID != event.BuyerID.String() {
		t.Fatalf("unexpected buyer column: %v", row.BuyerID)
	}
}
