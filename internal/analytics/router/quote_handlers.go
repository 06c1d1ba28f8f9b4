package router

import (
	"context"
	"fmt"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	outboxpayloads "github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

type quoteRequestedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newQuoteRequestedHandler(writer Writer, logg *logger.Logger) Handler {
	return &quoteRequestedHandler{writer: writer, logg: logg}
}

func (h *quoteRequestedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.QuoteRequestedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for quote_requested")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type":  envelope.EventType,
		"quote_id":    event.QuoteID,
		"supplier_id": event.SupplierID,
	})

	row, err := baseRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}
	row.QuoteID = stringPtr(event.QuoteID.String())
	row.BuyerID = stringPtr(event.BuyerID.String())
	row.SupplierID = stringPtr(event.SupplierID.String())
	row.NewStatus = stringPtr(string(enums.QuoteStatusPending))

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "quote_requested handler inserted marketplace row")
	return nil
}

type quoteRespondedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newQuoteRespondedHandler(writer Writer, logg *logger.Logger) Handler {
	return &quoteRespondedHandler{writer: writer, logg: logg}
}

func (h *quoteRespondedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.QuoteRespondedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for quote_responded")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type":  envelope.EventType,
		"quote_id":    event.QuoteID,
		"supplier_id": event.SupplierID,
		"status":      event.Status,
	})

	row, err := baseRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}
	row.QuoteID = stringPtr(event.QuoteID.String())
	row.BuyerID = stringPtr(event.BuyerID.String())
	row.SupplierID = stringPtr(event.SupplierID.String())
	row.OldStatus = stringPtr(string(enums.QuoteStatusPending))
	row.NewStatus = stringPtr(string(event.Status))
	if event.PriceCents != nil {
		row.TotalCents = int64Ptr(int64(*event.PriceCents))
	}

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "quote_responded handler inserted marketplace row")
	return nil
}

type quoteExpiredHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newQuoteExpiredHandler(writer Writer, logg *logger.Logger) Handler {
	return &quoteExpiredHandler{writer: writer, logg: logg}
}

func (h *quoteExpiredHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*outboxpayloads.QuoteExpiredEvent)
	if !ok {
		return fmt.Errorf("invalid payload for quote_expired")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"quote_id":   event.QuoteID,
	})

	row, err := baseRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build marketplace row", err)
		return err
	}
	row.QuoteID = stringPtr(event.QuoteID.String())
	row.BuyerID = stringPtr(event.BuyerID.String())
	row.SupplierID = stringPtr(event.SupplierID.String())
	row.OldStatus = stringPtr(string(enums.QuoteStatusPending))
	row.NewStatus = stringPtr(string(enums.QuoteStatusExpired))

	if err := h.writer.InsertMarketplace(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert marketplace row", err)
		return err
	}

	h.logg.Info(logCtx, "quote_expired handler inserted marketplace row")
	return nil
}
