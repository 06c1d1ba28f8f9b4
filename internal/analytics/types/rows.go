package types

import (
	"time"

	cbigquery "cloud.google.com/go/bigquery"
)

// MarketplaceEventRow mirrors the marketplace_events BigQuery schema. Every
// order and quote lifecycle event lands here as one append-only fact row.
type MarketplaceEventRow struct {
	EventID       string             `bigquery:"event_id"`
	EventType     string             `bigquery:"event_type"`
	AggregateType string             `bigquery:"aggregate_type"`
	AggregateID   string             `bigquery:"aggregate_id"`
	OccurredAt    time.Time          `bigquery:"occurred_at"`
	OrderID       *string            `bigquery:"order_id"`
	OrderNumber   *string            `bigquery:"order_number"`
	QuoteID       *string            `bigquery:"quote_id"`
	BuyerID       *string            `bigquery:"buyer_id"`
	SupplierID    *string            `bigquery:"supplier_id"`
	TotalCents    *int64             `bigquery:"total_cents"`
	ItemCount     *int64             `bigquery:"item_count"`
	OldStatus     *string            `bigquery:"old_status"`
	NewStatus     *string            `bigquery:"new_status"`
	Payload       cbigquery.NullJSON `bigquery:"payload"`
}
