package router

import (
	"context"
	"fmt"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

type orderCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCreatedHandler{writer: writer, logg: logg}
}

func (h *orderCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_created")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type":  envelope.EventType,
		"order_id":    event.OrderID,
		"buyer_id":    event.BuyerID,
		"supplier_id": event.SupplierID,
	})

	row, err := buildOrderCreatedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "order_created handler inserted marketplace row")
	return nil
}

func buildOrderCreatedRow(envelope types.Envelope, event *outboxpayloads.OrderCreatedEvent) (types.MarketplaceEventRow, error) {
	row, err := baseRow(envelope, event)
	if err != nil {
		return types.MarketplaceEventRow{}, err
	}

	row.OrderID = stringPtr(event.OrderID.String())
	row.OrderNumber = stringPtr(event.OrderNumber)
	row.BuyerID = stringPtr(event.BuyerID.String())
	row.SupplierID = uuidStringPtr(event.SupplierID)
	row.TotalCents = int64Ptr(int64(event.TotalCents))
	row.ItemCount = int64Ptr(int64(event.ItemCount))
	row.NewStatus = stringPtr(string(enums.OrderStatusPending))
	return row, nil
}
