package suppliers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	dbtypes "github.com/calderagroup/procuremart-backend/pkg/db/types"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

// Repository exposes supplier profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a supplier profile for a freshly registered user.
func (r *Repository) Create(ctx context.Context, dto CreateSupplierDTO) (*models.SupplierProfile, error) {
	profile := &models.SupplierProfile{
		ID:           uuid.New(),
		UserID:       dto.UserID,
		BusinessName: dto.BusinessName,
		Description:  dto.Description,
		Address:      dto.Address,
		CategoryIDs:  dbtypes.UUIDArray(dto.CategoryIDs),
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByID loads a supplier profile by its primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUserID loads the profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.SupplierProfile, error) {
	var profile models.SupplierProfile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Update applies the editable profile fields.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateSupplierDTO) error {
	updates := map[string]any{}
	if dto.BusinessName != nil {
		updates["business_name"] = *dto.BusinessName
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Address != nil {
		updates["address"] = dto.Address
	}
	if dto.CategoryIDs != nil {
		updates["category_ids"] = dbtypes.UUIDArray(dto.CategoryIDs)
	}
	if dto.LeadTimeDays != nil {
		updates["lead_time_days"] = *dto.LeadTimeDays
	}
	if dto.MinOrderCents != nil {
		updates["min_order_cents"] = *dto.MinOrderCents
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.SupplierProfile{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetVerified flips the admin verification flag.
func (r *Repository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&models.SupplierProfile{}).
		Where("id = ?", id).
		Update("is_verified", verified).Error
}

// SetLogoObjectPath records the uploaded logo location.
func (r *Repository) SetLogoObjectPath(ctx context.Context, id uuid.UUID, objectPath string) error {
	return r.db.WithContext(ctx).
		Model(&models.SupplierProfile{}).
		Where("id = ?", id).
		Update("logo_object_path", objectPath).Error
}

// ListFilters narrow the public supplier directory.
type ListFilters struct {
	VerifiedOnly bool
	CategoryID   *uuid.UUID
	Query        string
}

// List returns a cursor-paginated page of supplier profiles.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) ([]models.SupplierProfile, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).Model(&models.SupplierProfile{})
	if filters.VerifiedOnly {
		query = query.Where("is_verified = ?", true)
	}
	if filters.CategoryID != nil {
		query = query.Where("? = ANY(category_ids)", *filters.CategoryID)
	}
	if trimmed := strings.TrimSpace(filters.Query); trimmed != "" {
		query = query.Where("LOWER(business_name) LIKE ?", "%"+strings.ToLower(trimmed)+"%")
	}
	if cursor != nil {
		query = query.Where(
			"created_at < ? OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.SupplierProfile
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
