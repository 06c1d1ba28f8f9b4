package quotes

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// CreateQuoteInput is the buyer's request for custom pricing.
type CreateQuoteInput struct {
	BuyerID    uuid.UUID
	SupplierID uuid.UUID
	ProductID  *uuid.UUID
	Title      string
	Details    string
	Quantity   *int
}

// RespondInput carries the supplier's answer to an open quote.
type RespondInput struct {
	QuoteID         uuid.UUID
	SupplierID      uuid.UUID
	ActorUserID     uuid.UUID
	PriceCents      int
	ResponseMessage *string
}

// DeclineInput carries the supplier's refusal of an open quote.
type DeclineInput struct {
	QuoteID         uuid.UUID
	SupplierID      uuid.UUID
	ActorUserID     uuid.UUID
	ResponseMessage *string
}

// ListFilters narrow a quote listing.
type ListFilters struct {
	Status *enums.QuoteStatus
}

// QuoteDTO is the transport shape of a quote request.
type QuoteDTO struct {
	ID                 uuid.UUID         `json:"id"`
	BuyerID            uuid.UUID         `json:"buyer_id"`
	SupplierID         uuid.UUID         `json:"supplier_id"`
	ProductID          *uuid.UUID        `json:"product_id,omitempty"`
	Title              string            `json:"title"`
	Details            string            `json:"details"`
	Quantity           *int              `json:"quantity,omitempty"`
	Status             enums.QuoteStatus `json:"status"`
	ResponsePriceCents *int              `json:"response_price_cents,omitempty"`
	ResponseMessage    *string           `json:"response_message,omitempty"`
	RespondedAt        *time.Time        `json:"responded_at,omitempty"`
	ExpiresAt          time.Time         `json:"expires_at"`
	CreatedAt          time.Time         `json:"created_at"`
}

// QuoteList is one page of quotes plus the next cursor.
type QuoteList struct {
	Quotes     []QuoteDTO `json:"quotes"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

func FromModel(q *models.QuoteRequest) *QuoteDTO {
	if q == nil {
		return nil
	}
	return &QuoteDTO{
		ID:                 q.ID,
		BuyerID:            q.BuyerID,
		SupplierID:         q.SupplierID,
		ProductID:          q.ProductID,
		Title:              q.Title,
		Details:            q.Details,
		Quantity:           q.Quantity,
		Status:             q.Status,
		ResponsePriceCents: q.ResponsePriceCents,
		ResponseMessage:    q.ResponseMessage,
		RespondedAt:        q.RespondedAt,
		ExpiresAt:          q.ExpiresAt,
		CreatedAt:          q.CreatedAt,
	}
}
