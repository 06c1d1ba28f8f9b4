package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/products"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

type productCreateRequest struct {
	CategoryID      uuid.UUID         `json:"category_id" validate:"required"`
	SKU             string            `json:"sku" validate:"required,max=64"`
	Name            string            `json:"name" validate:"required,max=200"`
	Description     *string           `json:"description,omitempty" validate:"omitempty,max=5000"`
	Unit            enums.ProductUnit `json:"unit" validate:"required"`
	PriceCents      int               `json:"price_cents" validate:"required,min=1"`
	MOQ             int               `json:"moq" validate:"required,min=1"`
	StockQty        int               `json:"stock_qty" validate:"min=0"`
	ImageObjectPath *string           `json:"image_object_path,omitempty" validate:"omitempty,max=500"`
	IsActive        *bool             `json:"is_active,omitempty"`
}

type productUpdateRequest struct {
	CategoryID      *uuid.UUID         `json:"category_id,omitempty"`
	SKU             *string            `json:"sku,omitempty" validate:"omitempty,max=64"`
	Name            *string            `json:"name,omitempty" validate:"omitempty,max=200"`
	Description     *string            `json:"description,omitempty" validate:"omitempty,max=5000"`
	Unit            *enums.ProductUnit `json:"unit,omitempty"`
	PriceCents      *int               `json:"price_cents,omitempty" validate:"omitempty,min=1"`
	MOQ             *int               `json:"moq,omitempty" validate:"omitempty,min=1"`
	StockQty        *int               `json:"stock_qty,omitempty" validate:"omitempty,min=0"`
	ImageObjectPath *string            `json:"image_object_path,omitempty" validate:"omitempty,max=500"`
	IsActive        *bool              `json:"is_active,omitempty"`
}

// SupplierProductList pages through the caller's own listings, active or not.
func SupplierProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForSupplier(r.Context(), supplierID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SupplierProductCreate publishes a new listing under the caller's profile.
func SupplierProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Create(r.Context(), supplierID, products.CreateProductInput{
			CategoryID:      body.CategoryID,
			SKU:             body.SKU,
			Name:            body.Name,
			Description:     body.Description,
			Unit:            body.Unit,
			PriceCents:      body.PriceCents,
			MOQ:             body.MOQ,
			StockQty:        body.StockQty,
			ImageObjectPath: body.ImageObjectPath,
			IsActive:        body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// SupplierProductUpdate applies a partial update to one of the caller's listings.
func SupplierProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body productUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Update(r.Context(), supplierID, productID, products.UpdateProductInput{
			CategoryID:      body.CategoryID,
			SKU:             body.SKU,
			Name:            body.Name,
			Description:     body.Description,
			Unit:            body.Unit,
			PriceCents:      body.PriceCents,
			MOQ:             body.MOQ,
			StockQty:        body.StockQty,
			ImageObjectPath: body.ImageObjectPath,
			IsActive:        body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// SupplierProductDelete retires one of the caller's listings.
func SupplierProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), supplierID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
