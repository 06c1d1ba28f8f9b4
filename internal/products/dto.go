package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// ProductDTO is the catalog-facing shape of a listing.
type ProductDTO struct {
	ID           uuid.UUID         `json:"id"`
	SupplierID   uuid.UUID         `json:"supplier_id"`
	SupplierName string            `json:"supplier_name,omitempty"`
	CategoryID   uuid.UUID         `json:"category_id"`
	CategoryName string            `json:"category_name,omitempty"`
	SKU          string            `json:"sku"`
	Name         string            `json:"name"`
	Description  *string           `json:"description,omitempty"`
	Unit         enums.ProductUnit `json:"unit"`
	PriceCents   int               `json:"price_cents"`
	MOQ          int               `json:"moq"`
	StockQty     int               `json:"stock_qty"`
	ImageURL     *string           `json:"image_url,omitempty"`
	IsActive     bool              `json:"is_active"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// CreateProductInput holds the validated payload to create a listing.
type CreateProductInput struct {
	CategoryID      uuid.UUID
	SKU             string
	Name            string
	Description     *string
	Unit            enums.ProductUnit
	PriceCents      int
	MOQ             int
	StockQty        int
	ImageObjectPath *string
	IsActive        *bool
}

// UpdateProductInput holds optional mutation values for a listing.
type UpdateProductInput struct {
	CategoryID      *uuid.UUID
	SKU             *string
	Name            *string
	Description     *string
	Unit            *enums.ProductUnit
	PriceCents      *int
	MOQ             *int
	StockQty        *int
	ImageObjectPath *string
	IsActive        *bool
}

// CatalogFilters describe the filter knobs for the public browse endpoint.
type CatalogFilters struct {
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	SupplierID    *uuid.UUID `json:"supplier_id,omitempty"`
	PriceMinCents *int       `json:"price_min_cents,omitempty"`
	PriceMaxCents *int       `json:"price_max_cents,omitempty"`
	Query         string     `json:"q,omitempty"`
}

// ProductList is one page of listings plus the cursor for the next.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CategoryDTO is the public taxonomy shape.
type CategoryDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	IsActive    bool       `json:"is_active"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          p.ID,
		SupplierID:  p.SupplierID,
		CategoryID:  p.CategoryID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		PriceCents:  p.PriceCents,
		MOQ:         p.MOQ,
		StockQty:    p.StockQty,
		ImageURL:    p.ImageObjectPath,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Supplier != nil {
		dto.SupplierName = p.Supplier.BusinessName
	}
	if p.Category != nil {
		dto.CategoryName = p.Category.Name
	}
	return dto
}

func CategoryFromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ParentID:    c.ParentID,
		IsActive:    c.IsActive,
	}
}
