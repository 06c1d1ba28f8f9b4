package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// OrderItem snapshots a cart line at submission time. Product name, unit and
// price are copied so later catalog edits never rewrite order history.
type OrderItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	ProductName    string            `gorm:"column:product_name;not null"`
	Unit           enums.ProductUnit `gorm:"column:unit;type:product_unit;not null;default:'piece'"`
	UnitPriceCents int               `gorm:"column:unit_price_cents;not null"`
	Quantity       int               `gorm:"column:quantity;not null"`
	LineTotalCents int               `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}
