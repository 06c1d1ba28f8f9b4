package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/calderagroup/procuremart-backend/pkg/db/types"
	"github.com/calderagroup/procuremart-backend/pkg/types"
)

// SupplierProfile carries the storefront-facing identity of a supplier user.
type SupplierProfile struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	BusinessName    string            `gorm:"column:business_name;not null"`
	Description     *string           `gorm:"column:description"`
	CategoryIDs     dbtypes.UUIDArray `gorm:"type:uuid[];column:category_ids;not null;default:ARRAY[]::uuid[]"`
	Address         *types.Address    `gorm:"column:address;type:jsonb;serializer:json"`
	LeadTimeDays    int               `gorm:"column:lead_time_days;not null;default:7"`
	MinOrderCents   int               `gorm:"column:min_order_cents;not null;default:0"`
	Rating          float64           `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	RatingCount     int               `gorm:"column:rating_count;not null;default:0"`
	IsVerified      bool              `gorm:"column:is_verified;not null;default:false"`
	LogoObjectPath  *string           `gorm:"column:logo_object_path"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
