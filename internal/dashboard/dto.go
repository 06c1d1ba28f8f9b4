package dashboard

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// RecentOrder is the compact order line shown on dashboard cards.
type RecentOrder struct {
	ID           uuid.UUID         `json:"id"`
	OrderNumber  string            `json:"order_number"`
	Status       enums.OrderStatus `json:"status"`
	SupplierName string            `json:"supplier_name"`
	TotalCents   int               `json:"total_cents"`
	CreatedAt    time.Time         `json:"created_at"`
}

// BuyerSummary aggregates a buyer's recent purchasing activity.
type BuyerSummary struct {
	OrdersLast30Days int64                       `json:"orders_last_30_days"`
	SpendCents       int64                       `json:"spend_cents"`
	Spend            string                      `json:"spend"`
	StatusCounts     map[enums.OrderStatus]int64 `json:"status_counts"`
	RecentOrders     []RecentOrder               `json:"recent_orders"`
}

// SupplierSummary aggregates a supplier's incoming order book.
type SupplierSummary struct {
	OrdersLast30Days int64                       `json:"orders_last_30_days"`
	RevenueCents     int64                       `json:"revenue_cents"`
	Revenue          string                      `json:"revenue"`
	StatusCounts     map[enums.OrderStatus]int64 `json:"status_counts"`
	OpenQuotes       int64                       `json:"open_quotes"`
	LowStockProducts int64                       `json:"low_stock_products"`
	RecentOrders     []RecentOrder               `json:"recent_orders"`
}

func recentFromModel(order models.Order) RecentOrder {
	return RecentOrder{
		ID:           order.ID,
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		SupplierName: order.SupplierName,
		TotalCents:   order.TotalCents,
		CreatedAt:    order.CreatedAt,
	}
}
