package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/products"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

type categoryCreateRequest struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
}

type categoryActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// AdminCategoryCreate adds a node to the catalog taxonomy.
func AdminCategoryCreate(repo *products.CategoryRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category repository unavailable"))
			return
		}

		var body categoryCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := repo.Create(r.Context(), body.Name, body.Description, body.ParentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminCategorySetActive hides or restores a taxonomy node.
func AdminCategorySetActive(repo *products.CategoryRepository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "category repository unavailable"))
			return
		}

		categoryID, err := pathUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body categoryActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetActive(r.Context(), categoryID, *body.IsActive); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}
