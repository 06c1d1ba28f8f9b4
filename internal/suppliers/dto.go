package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/types"
)

// SupplierDTO is the public storefront shape of a supplier.
type SupplierDTO struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	BusinessName  string         `json:"business_name"`
	Description   *string        `json:"description,omitempty"`
	CategoryIDs   []uuid.UUID    `json:"category_ids"`
	Address       *types.Address `json:"address,omitempty"`
	LeadTimeDays  int            `json:"lead_time_days"`
	MinOrderCents int            `json:"min_order_cents"`
	Rating        float64        `json:"rating"`
	RatingCount   int            `json:"rating_count"`
	IsVerified    bool           `json:"is_verified"`
	LogoURL       *string        `json:"logo_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CreateSupplierDTO holds the fields persisted at registration time.
type CreateSupplierDTO struct {
	UserID       uuid.UUID
	BusinessName string
	Description  *string
	Address      *types.Address
	CategoryIDs  []uuid.UUID
}

// UpdateSupplierDTO carries the profile fields a supplier may edit.
type UpdateSupplierDTO struct {
	BusinessName  *string
	Description   *string
	Address       *types.Address
	CategoryIDs   []uuid.UUID
	LeadTimeDays  *int
	MinOrderCents *int
}

func FromModel(p *models.SupplierProfile) *SupplierDTO {
	if p == nil {
		return nil
	}
	return &SupplierDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		BusinessName:  p.BusinessName,
		Description:   p.Description,
		CategoryIDs:   append([]uuid.UUID(nil), []uuid.UUID(p.CategoryIDs)...),
		Address:       p.Address,
		LeadTimeDays:  p.LeadTimeDays,
		MinOrderCents: p.MinOrderCents,
		Rating:        p.Rating,
		RatingCount:   p.RatingCount,
		IsVerified:    p.IsVerified,
		LogoURL:       p.LogoObjectPath,
		CreatedAt:     p.CreatedAt,
	}
}
