package router

import (
	"context"
	"fmt"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

type orderCancelledHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCancelledHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCancelledHandler{writer: writer, logg: logg}
}

func (h *orderCancelledHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.OrderCancelledEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_cancelled")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"buyer_id":   event.BuyerID,
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
	row.NewStatus = stringPtr(string(enums.OrderStatusCancelled))

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "order_cancelled handler inserted marketplace row")
	return nil
}
