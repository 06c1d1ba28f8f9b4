package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// QuoteRequest lets a buyer ask a supplier for custom pricing outside the
// standard catalog flow.
type QuoteRequest struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID            uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index"`
	SupplierID         uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null;index"`
	ProductID          *uuid.UUID        `gorm:"column:product_id;type:uuid"`
	Title              string            `gorm:"column:title;not null"`
	Details            string            `gorm:"column:details;not null"`
	Quantity           *int              `gorm:"column:quantity"`
	Status             enums.QuoteStatus `gorm:"column:status;type:quote_status;not null;default:'pending'"`
	ResponsePriceCents *int              `gorm:"column:response_price_cents"`
	ResponseMessage    *string           `gorm:"column:response_message"`
	RespondedAt        *time.Time        `gorm:"column:responded_at"`
	ExpiresAt          time.Time         `gorm:"column:expires_at;not null"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
