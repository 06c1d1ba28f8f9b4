package router

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	analyticswriter "github.com/calderagroup/procuremart-backend/internal/analytics/writer"
)

// baseRow fills the envelope columns and stores the full payload as JSON.
// Handlers layer the event-specific columns on top.
func baseRow(envelope types.Envelope, payload any) (types.MarketplaceEventRow, error) {
	payloadJSON, err := analyticswriter.EncodeJSON(payload)
	if err != nil {
		return types.MarketplaceEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}
	return types.MarketplaceEventRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		AggregateType: string(envelope.AggregateType),
		AggregateID:   envelope.AggregateID,
		OccurredAt:    envelope.OccurredAt,
		Payload:       payloadJSON,
	}, nil
}

// stringPtr returns a trimmed pointer or nil when the input is empty.
func stringPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// uuidStringPtr renders an optional UUID as a column value.
func uuidStringPtr(id *uuid.UUID) *string {
	if id == nil || *id == uuid.Nil {
		return nil
	}
	value := id.String()
	return &value
}

// int64Ptr returns a pointer to the provided int64 value.
func int64Ptr(value int64) *int64 {
	return &value
}
