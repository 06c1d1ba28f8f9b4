package quotes

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

// Repository exposes quote request persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, quote *models.QuoteRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.QuoteRequest, string, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.QuoteRequest, string, error)
	SetResponse(ctx context.Context, id uuid.UUID, status enums.QuoteStatus, priceCents *int, message *string, at time.Time) error
	ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.QuoteRequest, error)
	MarkExpired(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, quote *models.QuoteRequest) error {
	return r.db.WithContext(ctx).Create(quote).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.QuoteRequest, error) {
	var quote models.QuoteRequest
	if err := r.db.WithContext(ctx).First(&quote, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}

func (r *repository) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.QuoteRequest, string, error) {
	return r.list(ctx, "buyer_id = ?", buyerID, params, filters)
}

func (r *repository) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.QuoteRequest, string, error) {
	return r.list(ctx, "supplier_id = ?", supplierID, params, filters)
}

func (r *repository) list(ctx context.Context, ownerClause string, ownerID uuid.UUID, params pagination.Params, filters ListFilters) ([]models.QuoteRequest, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Model(&models.QuoteRequest{}).
		Where(ownerClause, ownerID)
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.QuoteRequest
	err = query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, "", err
	}

	rows, hasMore := pagination.TrimPage(rows, params.Limit)
	next := ""
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, next, nil
}

// SetResponse writes the supplier's decision. The pending guard keeps the
// write idempotent under concurrent responses.
func (r *repository) SetResponse(ctx context.Context, id uuid.UUID, status enums.QuoteStatus, priceCents *int, message *string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&models.QuoteRequest{}).
		Where("id = ? AND status = ?", id, enums.QuoteStatusPending).
		Updates(map[string]any{
			"status":               status,
			"response_price_cents": priceCents,
			"response_message":     message,
			"responded_at":         at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListStalePending(ctx context.Context, cutoff time.Time, limit int) ([]models.QuoteRequest, error) {
	var rows []models.QuoteRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", enums.QuoteStatusPending, cutoff).
		Order("expires_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.QuoteRequest{}).
		Where("id = ? AND status = ?", id, enums.QuoteStatusPending).
		Update("status", enums.QuoteStatusExpired)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
