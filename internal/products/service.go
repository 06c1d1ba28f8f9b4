package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

// Service exposes catalog reads and supplier listing management.
type Service interface {
	BrowseCatalog(ctx context.Context, params pagination.Params, filters CatalogFilters) (*ProductList, error)
	GetDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	Create(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, supplierID, productID uuid.UUID) error
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductList, error)
}

type productRepo interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCatalog(ctx context.Context, params pagination.Params, filters CatalogFilters) ([]models.Product, string, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) ([]models.Product, string, error)
	CountBySKU(ctx context.Context, supplierID uuid.UUID, sku string, excludeID *uuid.UUID) (int64, error)
}

type categoryReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
}

type service struct {
	repo       productRepo
	categories categoryReader
}

// NewService constructs the catalog service.
func NewService(repo productRepo, categories categoryReader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "product repository required")
	}
	if categories == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "category repository required")
	}
	return &service{repo: repo, categories: categories}, nil
}

// BrowseCatalog pages through active listings for any authenticated user.
func (s *service) BrowseCatalog(ctx context.Context, params pagination.Params, filters CatalogFilters) (*ProductList, error) {
	if filters.PriceMinCents != nil && filters.PriceMaxCents != nil && *filters.PriceMinCents > *filters.PriceMaxCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min_cents exceeds price_max_cents")
	}
	rows, next, err := s.repo.ListCatalog(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list catalog")
	}
	return listFrom(rows, next), nil
}

// GetDetail returns a single active listing.
func (s *service) GetDetail(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return FromModel(product), nil
}

// ListCategories returns the active taxonomy.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	dtos := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *CategoryFromModel(&rows[i]))
	}
	return dtos, nil
}

// Create validates and persists a new listing for the supplier.
func (s *service) Create(ctx context.Context, supplierID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if err := validateListing(sku, name, input.Unit, input.PriceCents, input.MOQ, input.StockQty); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, supplierID, sku, nil); err != nil {
		return nil, err
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}
	product := &models.Product{
		ID:              uuid.New(),
		SupplierID:      supplierID,
		CategoryID:      input.CategoryID,
		SKU:             sku,
		Name:            name,
		Description:     input.Description,
		Unit:            input.Unit,
		PriceCents:      input.PriceCents,
		MOQ:             input.MOQ,
		StockQty:        input.StockQty,
		ImageObjectPath: input.ImageObjectPath,
		IsActive:        isActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

// Update applies the supplier's partial edit to their own listing.
func (s *service) Update(ctx context.Context, supplierID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, supplierID, productID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku must not be empty")
		}
		if err := s.ensureSKUFree(ctx, supplierID, sku, &productID); err != nil {
			return nil, err
		}
		updates["sku"] = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
		}
		updates["unit"] = *input.Unit
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.MOQ != nil {
		if *input.MOQ < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "moq must be at least 1")
		}
		updates["moq"] = *input.MOQ
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock_qty must not be negative")
		}
		updates["stock_qty"] = *input.StockQty
	}
	if input.ImageObjectPath != nil {
		updates["image_object_path"] = *input.ImageObjectPath
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return FromModel(product), nil
	}
	if err := s.repo.Update(ctx, productID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload product")
	}
	return FromModel(updated), nil
}

// Delete removes the supplier's own listing.
func (s *service) Delete(ctx context.Context, supplierID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, supplierID, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ListForSupplier pages through the supplier's own listings, drafts included.
func (s *service) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params) (*ProductList, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}
	rows, next, err := s.repo.ListBySupplier(ctx, supplierID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier products")
	}
	return listFrom(rows, next), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadOwned(ctx context.Context, supplierID, productID uuid.UUID) (*models.Product, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another supplier")
	}
	return product, nil
}

func (s *service) ensureCategory(ctx context.Context, categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !category.IsActive {
		return pkgerrors.New(pkgerrors.CodeValidation, "category is not active")
	}
	return nil
}

func (s *service) ensureSKUFree(ctx context.Context, supplierID uuid.UUID, sku string, excludeID *uuid.UUID) error {
	count, err := s.repo.CountBySKU(ctx, supplierID, sku, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "sku already in use")
	}
	return nil
}

func validateListing(sku, name string, unit enums.ProductUnit, priceCents, moq, stockQty int) error {
	if sku == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !unit.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product unit")
	}
	if priceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	if moq < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "moq must be at least 1")
	}
	if stockQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock_qty must not be negative")
	}
	return nil
}

func listFrom(rows []models.Product, next string) *ProductList {
	dtos := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &ProductList{Products: dtos, NextCursor: next}
}
