package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

const (
	recentOrdersLimit = 5
	activityWindow    = 30 * 24 * time.Hour
	lowStockThreshold = 10
)

// Service assembles the role-specific dashboard summaries.
type Service interface {
	BuyerSummary(ctx context.Context, buyerID uuid.UUID) (*BuyerSummary, error)
	SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*SupplierSummary, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService wires the dashboard service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dashboard repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) BuyerSummary(ctx context.Context, buyerID uuid.UUID) (*BuyerSummary, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity required")
	}
	since := s.now().UTC().Add(-activityWindow)

	stats, err := s.repo.BuyerStats(ctx, buyerID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "buyer order stats")
	}
	counts, err := s.repo.BuyerStatusCounts(ctx, buyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "buyer status counts")
	}
	recent, err := s.repo.RecentBuyerOrders(ctx, buyerID, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent buyer orders")
	}

	summary := &BuyerSummary{
		OrdersLast30Days: stats.Orders,
		SpendCents:       stats.TotalCents,
		Spend:            formatDollars(stats.TotalCents),
		StatusCounts:     counts,
		RecentOrders:     make([]RecentOrder, 0, len(recent)),
	}
	for _, order := range recent {
		summary.RecentOrders = append(summary.RecentOrders, recentFromModel(order))
	}
	return summary, nil
}

func (s *service) SupplierSummary(ctx context.Context, supplierID uuid.UUID) (*SupplierSummary, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "supplier account required")
	}
	since := s.now().UTC().Add(-activityWindow)

	stats, err := s.repo.SupplierStats(ctx, supplierID, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supplier order stats")
	}
	counts, err := s.repo.SupplierStatusCounts(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "supplier status counts")
	}
	openQuotes, err := s.repo.CountOpenQuotes(ctx, supplierID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open quote count")
	}
	lowStock, err := s.repo.CountLowStockProducts(ctx, supplierID, lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "low stock count")
	}
	recent, err := s.repo.RecentSupplierOrders(ctx, supplierID, recentOrdersLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recent supplier orders")
	}

	summary := &SupplierSummary{
		OrdersLast30Days: stats.Orders,
		RevenueCents:     stats.TotalCents,
		Revenue:          formatDollars(stats.TotalCents),
		StatusCounts:     counts,
		OpenQuotes:       openQuotes,
		LowStockProducts: lowStock,
		RecentOrders:     make([]RecentOrder, 0, len(recent)),
	}
	for _, order := range recent {
		summary.RecentOrders = append(summary.RecentOrders, recentFromModel(order))
	}
	return summary, nil
}

// formatDollars renders a cent amount as a fixed two-decimal dollar string.
func formatDollars(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
