package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// Product represents a supplier listing in the catalog.
type Product struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID         `gorm:"column:supplier_id;type:uuid;not null;index"`
	CategoryID      uuid.UUID         `gorm:"column:category_id;type:uuid;not null;index"`
	SKU             string            `gorm:"column:sku;not null"`
	Name            string            `gorm:"column:name;not null"`
	Description     *string           `gorm:"column:description"`
	Unit            enums.ProductUnit `gorm:"column:unit;type:product_unit;not null;default:'piece'"`
	PriceCents      int               `gorm:"column:price_cents;not null"`
	MOQ             int               `gorm:"column:moq;not null;default:1"`
	StockQty        int               `gorm:"column:stock_qty;not null;default:0"`
	ImageObjectPath *string           `gorm:"column:image_object_path"`
	IsActive        bool              `gorm:"column:is_active;not null;default:true"`
	Supplier        *SupplierProfile  `gorm:"foreignKey:SupplierID"`
	Category        *Category         `gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
