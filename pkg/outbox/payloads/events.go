package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// OrderCreatedEvent signals one per-supplier order produced at checkout.
type OrderCreatedEvent struct {
	OrderID      uuid.UUID  `json:"order_id"`
	OrderNumber  string     `json:"order_number"`
	BuyerID      uuid.UUID  `json:"buyer_id"`
	SupplierID   *uuid.UUID `json:"supplier_id,omitempty"`
	SupplierName string     `json:"supplier_name"`
	TotalCents   int        `json:"total_cents"`
	ItemCount    int        `json:"item_count"`
}

// OrderStatusChangedEvent is emitted on every supplier/admin status move.
type OrderStatusChangedEvent struct {
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	SupplierID  *uuid.UUID        `json:"supplier_id,omitempty"`
	OldStatus   enums.OrderStatus `json:"old_status"`
	NewStatus   enums.OrderStatus `json:"new_status"`
}

// OrderCancelledEvent is emitted when a buyer cancels a pending order.
type OrderCancelledEvent struct {
	OrderID     uuid.UUID  `json:"order_id"`
	OrderNumber string     `json:"order_number"`
	BuyerID     uuid.UUID  `json:"buyer_id"`
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
	CancelledAt time.Time  `json:"cancelled_at"`
	Reason      string     `json:"reason,omitempty"`
}

// QuoteRequestedEvent signals a new quote request for a supplier.
type QuoteRequestedEvent struct {
	QuoteID    uuid.UUID  `json:"quote_id"`
	BuyerID    uuid.UUID  `json:"buyer_id"`
	SupplierID uuid.UUID  `json:"supplier_id"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	Title      string     `json:"title"`
	ExpiresAt  time.Time  `json:"expires_at"`
}

// QuoteRespondedEvent is emitted when a supplier answers or declines.
type QuoteRespondedEvent struct {
	QuoteID    uuid.UUID         `json:"quote_id"`
	BuyerID    uuid.UUID         `json:"buyer_id"`
	SupplierID uuid.UUID         `json:"supplier_id"`
	Status     enums.QuoteStatus `json:"status"`
	PriceCents *int              `json:"price_cents,omitempty"`
}

// QuoteExpiredEvent is emitted by the expiry cron for stale pending quotes.
type QuoteExpiredEvent struct {
	QuoteID    uuid.UUID `json:"quote_id"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	ExpiredAt  time.Time `json:"expired_at"`
}
