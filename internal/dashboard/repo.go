package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// OrderStats carries a count/amount pair for an aggregation window.
type OrderStats struct {
	Orders     int64
	TotalCents int64
}

// Repository exposes the aggregate reads behind the dashboard cards.
type Repository interface {
	BuyerStats(ctx context.Context, buyerID uuid.UUID, since time.Time) (OrderStats, error)
	BuyerStatusCounts(ctx context.Context, buyerID uuid.UUID) (map[enums.OrderStatus]int64, error)
	RecentBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit int) ([]models.Order, error)
	SupplierStats(ctx context.Context, supplierID uuid.UUID, since time.Time) (OrderStats, error)
	SupplierStatusCounts(ctx context.Context, supplierID uuid.UUID) (map[enums.OrderStatus]int64, error)
	RecentSupplierOrders(ctx context.Context, supplierID uuid.UUID, limit int) ([]models.Order, error)
	CountLowStockProducts(ctx context.Context, supplierID uuid.UUID, threshold int) (int64, error)
	CountOpenQuotes(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository over the shared gorm handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// BuyerStats counts orders placed since the cutoff and their spend.
// Cancelled orders are excluded from both figures.
func (r *repository) BuyerStats(ctx context.Context, buyerID uuid.UUID, since time.Time) (OrderStats, error) {
	var stats OrderStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_cents), 0) AS total_cents").
		Where("buyer_id = ? AND status <> ? AND created_at >= ?", buyerID, enums.OrderStatusCancelled, since).
		Scan(&stats).Error
	return stats, err
}

func (r *repository) BuyerStatusCounts(ctx context.Context, buyerID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	return r.statusCounts(ctx, "buyer_id = ?", buyerID)
}

func (r *repository) RecentBuyerOrders(ctx context.Context, buyerID uuid.UUID, limit int) ([]models.Order, error) {
	return r.recentOrders(ctx, "buyer_id = ?", buyerID, limit)
}

// SupplierStats counts delivered orders since the cutoff and their revenue.
func (r *repository) SupplierStats(ctx context.Context, supplierID uuid.UUID, since time.Time) (OrderStats, error) {
	var stats OrderStats
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*) AS orders, COALESCE(SUM(total_cents), 0) AS total_cents").
		Where("supplier_id = ? AND status = ? AND created_at >= ?", supplierID, enums.OrderStatusDelivered, since).
		Scan(&stats).Error
	return stats, err
}

func (r *repository) SupplierStatusCounts(ctx context.Context, supplierID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	return r.statusCounts(ctx, "supplier_id = ?", supplierID)
}

func (r *repository) RecentSupplierOrders(ctx context.Context, supplierID uuid.UUID, limit int) ([]models.Order, error) {
	return r.recentOrders(ctx, "supplier_id = ?", supplierID, limit)
}

func (r *repository) CountLowStockProducts(ctx context.Context, supplierID uuid.UUID, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("supplier_id = ? AND is_active = ? AND stock_qty < ?", supplierID, true, threshold).
		Count(&count).Error
	return count, err
}

func (r *repository) CountOpenQuotes(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.QuoteRequest{}).
		Where("supplier_id = ? AND status = ?", supplierID, enums.QuoteStatusPending).
		Count(&count).Error
	return count, err
}

func (r *repository) statusCounts(ctx context.Context, ownerClause string, ownerID uuid.UUID) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Where(ownerClause, ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) recentOrders(ctx context.Context, ownerClause string, ownerID uuid.UUID, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where(ownerClause, ownerID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
