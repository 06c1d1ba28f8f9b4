package router

import (
	"context"
	"fmt"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

type orderStatusChangedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderStatusChangedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderStatusChangedHandler{writer: writer, logg: logg}
}

func (h *orderStatusChangedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_status_changed")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"old_status": event.OldStatus,
		"new_status": event.NewStatus,
	})

	row, err := baseRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}
	row.OrderID = stringPtr(event.OrderID.String())
	row.OrderNumber = stringPtr(event.OrderNumber)
	row.BuyerID = stringPtr(event.BuyerID.String())
	row.SupplierID = uuidStringPtr(event.SupplierID)
	row.OldStatus = stringPtr(string(event.OldStatus))
	row.NewStatus = stringPtr(string(event.NewStatus))

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "order_status_changed handler inserted marketplace row")
	return nil
}
