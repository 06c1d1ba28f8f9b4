package types

import (
	"time"

	"github.com/google/uuid"
)

// MarketplaceQueryRequest carries the input parameters for marketplace analytics queries.
// SupplierID scopes the report to one supplier; admins leave it nil for a
// marketplace-wide view.
type MarketplaceQueryRequest struct {
	SupplierID *uuid.UUID
	Start      time.Time
	End        time.Time
}

// TimeSeriesPoint describes a single date/value pair returned by the query service.
type TimeSeriesPoint struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// LabelValue represents a top-N entry such as a supplier or buyer.
type LabelValue struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// MarketplaceQueryResponse wraps the marketplace KPIs for the admin dashboard.
type MarketplaceQueryResponse struct {
	OrdersSeries    []TimeSeriesPoint `json:"orders"`
	GMVSeries       []TimeSeriesPoint `json:"gmv"`
	TopSuppliers    []LabelValue      `json:"top_suppliers"`
	AOV             float64           `json:"aov"`
	CancelledOrders int64             `json:"cancelled_orders"`
	QuotesRequested int64             `json:"quotes_requested"`
	QuotesResponded int64             `json:"quotes_responded"`
	NewBuyers       int64             `json:"new_buyers"`
	ReturningBuyers int64             `json:"returning_buyers"`
}
