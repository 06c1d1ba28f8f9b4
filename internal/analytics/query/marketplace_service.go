package query

import (
	"context"
	"fmt"

	cloudbigquery "cloud.google.com/go/bigquery"
	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	"github.com/calderagroup/procuremart-backend/pkg/bigquery"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"google.golang.org/api/iterator"
)

const (
	ordersSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  COUNT(DISTINCT order_id) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	gmvSeriesSQL = `
SELECT
  FORMAT_DATE('%%F', DATE_TRUNC(occurred_at, DAY)) AS day,
  SUM(COALESCE(total_cents, 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY day
ORDER BY day ASC
`

	topSuppliersSQL = `
SELECT supplier_id AS label, SUM(COALESCE(total_cents, 0)) AS value
FROM %s
WHERE %s
  AND supplier_id IS NOT NULL
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
GROUP BY supplier_id
ORDER BY value DESC
LIMIT 5
`

	aovSQL = `
SELECT SAFE_DIVIDE(SUM(COALESCE(total_cents, 0)), NULLIF(COUNT(DISTINCT order_id), 0)) AS value
FROM %s
WHERE %s
  AND event_type = 'order_created'
  AND occurred_at BETWEEN @start AND @end
`

	cancelledOrdersSQL = `
SELECT COUNT(DISTINCT order_id) AS value
FROM %s
WHERE %s
  AND event_type = 'order_cancelled'
  AND occurred_at BETWEEN @start AND @end
`

	quoteCountsSQL = `
SELECT
  COUNTIF(event_type = 'quote_requested') AS requested,
  COUNTIF(event_type = 'quote_responded') AS responded
FROM %s
WHERE %s
  AND occurred_at BETWEEN @start AND @end
`

	newReturningSQL = `
WITH prior_buyers AS (
  SELECT DISTINCT buyer_id
  FROM %s
  WHERE %s
    AND event_type = 'order_created'
    AND occurred_at < @start
    AND buyer_id IS NOT NULL
),
current_buyers AS (
  SELECT DISTINCT buyer_id,
    CASE
      WHEN buyer_id IN (SELECT buyer_id FROM prior_buyers) THEN 'returning'
      ELSE 'new'
    END AS category
  FROM %s
  WHERE %s
    AND event_type = 'order_created'
    AND occurred_at BETWEEN @start AND @end
    AND buyer_id IS NOT NULL
)
SELECT
  COUNTIF(category = 'new') AS new_buyers,
  COUNTIF(category = 'returning') AS returning_buyers
FROM current_buyers
`
)

// MarketplaceService provides dashboard KPIs from BigQuery marketplace_events.
type MarketplaceService interface {
	Query(ctx context.Context, req types.MarketplaceQueryRequest) (*types.MarketplaceQueryResponse, error)
}

type marketplaceService struct {
	client   *bigquery.Client
	tableRef string
}

// NewMarketplaceService builds a service backed by BigQuery.
func NewMarketplaceService(client *bigquery.Client, project, dataset, table string) (MarketplaceService, error) {
	if client == nil {
		return nil, fmt.Errorf("bigquery client required")
	}
	if project == "" || dataset == "" || table == "" {
		return nil, fmt.Errorf("project, dataset, and table are required")
	}
	return &marketplaceService{
		client:   client,
		tableRef: fmt.Sprintf("`%s.%s.%s`", project, dataset, table),
	}, nil
}

func (s *marketplaceService) Query(ctx context.Context, req types.MarketplaceQueryRequest) (*types.MarketplaceQueryResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	scopeClause := "TRUE"
	if req.SupplierID != nil {
		scopeClause = "supplier_id = @supplierID"
	}
	params := baseParams(req)

	orders, err := s.querySeries(ctx, fmt.Sprintf(ordersSeriesSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	gmv, err := s.querySeries(ctx, fmt.Sprintf(gmvSeriesSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	topSuppliers, err := s.queryTopLabels(ctx, fmt.Sprintf(topSuppliersSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	aov, err := s.queryAOV(ctx, fmt.Sprintf(aovSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.queryCount(ctx, fmt.Sprintf(cancelledOrdersSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	requested, responded, err := s.queryQuoteCounts(ctx, fmt.Sprintf(quoteCountsSQL, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}
	newBuyers, returningBuyers, err := s.queryNewReturning(ctx, fmt.Sprintf(newReturningSQL, s.tableRef, scopeClause, s.tableRef, scopeClause), params)
	if err != nil {
		return nil, err
	}

	return &types.MarketplaceQueryResponse{
		OrdersSeries:    orders,
		GMVSeries:       gmv,
		TopSuppliers:    topSuppliers,
		AOV:             aov,
		CancelledOrders: cancelled,
		QuotesRequested: requested,
		QuotesResponded: responded,
		NewBuyers:       newBuyers,
		ReturningBuyers: returningBuyers,
	}, nil
}

func validateRequest(req types.MarketplaceQueryRequest) error {
	if req.Start.IsZero() || req.End.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "start and end are required")
	}
	if req.End.Before(req.Start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "end must be after start")
	}
	return nil
}

func baseParams(req types.MarketplaceQueryRequest) []cloudbigquery.QueryParameter {
	params := []cloudbigquery.QueryParameter{
		{Name: "start", Value: req.Start},
		{Name: "end", Value: req.End},
	}
	if req.SupplierID != nil {
		params = append(params, cloudbigquery.QueryParameter{Name: "supplierID", Value: req.SupplierID.String()})
	}
	return params
}

func (s *marketplaceService) querySeries(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.TimeSeriesPoint, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}

	var points []types.TimeSeriesPoint
	for {
		var row struct {
			Day   string `bigquery:"day"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading series row: %w", err)
		}
		points = append(points, types.TimeSeriesPoint{Date: row.Day, Value: row.Value})
	}
	return points, nil
}

func (s *marketplaceService) queryTopLabels(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) ([]types.LabelValue, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return nil, fmt.Errorf("query top labels: %w", err)
	}

	var result []types.LabelValue
	for {
		var row struct {
			Label string `bigquery:"label"`
			Value int64  `bigquery:"value"`
		}
		if err := iter.Next(&row); err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("reading top label row: %w", err)
		}
		result = append(result, types.LabelValue{Label: row.Label, Value: row.Value})
	}
	return result, nil
}

func (s *marketplaceService) queryAOV(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (float64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("query aov: %w", err)
	}
	var row struct {
		Value cloudbigquery.NullFloat64 `bigquery:"value"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, nil
		}
		return 0, fmt.Errorf("reading aov row: %w", err)
	}
	if !row.Value.Valid {
		return 0, nil
	}
	return row.Value.Float64, nil
}

func (s *marketplaceService) queryCount(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, fmt.Errorf("query count: %w", err)
	}
	var row struct {
		Value int64 `bigquery:"value"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, nil
		}
		return 0, fmt.Errorf("reading count row: %w", err)
	}
	return row.Value, nil
}

func (s *marketplaceService) queryQuoteCounts(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, 0, fmt.Errorf("query quote counts: %w", err)
	}
	var row struct {
		Requested int64 `bigquery:"requested"`
		Responded int64 `bigquery:"responded"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("reading quote counts row: %w", err)
	}
	return row.Requested, row.Responded, nil
}

func (s *marketplaceService) queryNewReturning(ctx context.Context, sql string, params []cloudbigquery.QueryParameter) (int64, int64, error) {
	iter, err := s.client.Query(ctx, sql, params)
	if err != nil {
		return 0, 0, fmt.Errorf("query new vs returning: %w", err)
	}
	var row struct {
		NewBuyers       int64 `bigquery:"new_buyers"`
		ReturningBuyers int64 `bigquery:"returning_buyers"`
	}
	if err := iter.Next(&row); err != nil {
		if err == iterator.Done {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("reading new vs returning row: %w", err)
	}
	return row.NewBuyers, row.ReturningBuyers, nil
}
