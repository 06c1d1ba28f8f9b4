package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// CreateOrderItemInput snapshots one cart line for a new order.
type CreateOrderItemInput struct {
	ProductID      uuid.UUID
	ProductName    string
	Unit           enums.ProductUnit
	UnitPriceCents int
	Quantity       int
}

// CreateOrderInput carries everything needed to persist one per-supplier
// order. Totals are computed by the caller so the same figures that were
// shown at checkout are the ones written.
type CreateOrderInput struct {
	BuyerID          uuid.UUID
	SupplierID       *uuid.UUID
	SupplierName     string
	Urgency          enums.Urgency
	PaymentTerms     enums.PaymentTerms
	ContactPerson    string
	Phone            string
	DeliveryAddress  string
	Notes            *string
	SubtotalCents    int
	DeliveryFeeCents int
	TotalCents       int
	Items            []CreateOrderItemInput
}

// StatusChangeInput captures a supplier or admin status move.
type StatusChangeInput struct {
	OrderID       uuid.UUID
	NewStatus     enums.OrderStatus
	ActorUserID   uuid.UUID
	ActorUserType enums.UserType
	// ActorSupplierID scopes supplier actors to their own orders; nil for admins.
	ActorSupplierID *uuid.UUID
}

// CancelInput captures a buyer-initiated cancellation.
type CancelInput struct {
	OrderID     uuid.UUID
	BuyerID     uuid.UUID
	Reason      string
	ActorUserID uuid.UUID
}

// BuyerOrderFilters describe the inputs supported by the buyer orders list.
type BuyerOrderFilters struct {
	Status   *enums.OrderStatus
	Urgency  *enums.Urgency
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// SupplierOrderFilters describe the inputs supported by the supplier list.
type SupplierOrderFilters struct {
	Status   *enums.OrderStatus
	Urgency  *enums.Urgency
	DateFrom *time.Time
	DateTo   *time.Time
	Query    string
}

// AdminOrderFilters describe the inputs supported by the admin-wide list,
// which can additionally scope to one buyer or supplier.
type AdminOrderFilters struct {
	Status     *enums.OrderStatus
	Urgency    *enums.Urgency
	BuyerID    *uuid.UUID
	SupplierID *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Query      string
}

// OrderSummary exposes the aggregated fields returned in order lists.
type OrderSummary struct {
	ID                 uuid.UUID          `json:"id"`
	OrderNumber        string             `json:"order_number"`
	CreatedAt          time.Time          `json:"created_at"`
	Status             enums.OrderStatus  `json:"status"`
	Urgency            enums.Urgency      `json:"urgency"`
	PaymentTerms       enums.PaymentTerms `json:"payment_terms"`
	SupplierID         *uuid.UUID         `json:"supplier_id,omitempty"`
	SupplierName       string             `json:"supplier_name"`
	BuyerID            uuid.UUID          `json:"buyer_id"`
	TotalCents         int                `json:"total_cents"`
	ItemCount          int                `json:"item_count"`
	ExpectedDeliveryAt time.Time          `json:"expected_delivery_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}
