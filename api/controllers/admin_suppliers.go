package controllers

import (
	"net/http"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/suppliers"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

const maxSupplierQueryLen = 120

// SupplierDirectory pages through supplier profiles. The public surface
// mounts it with verifiedOnly forced on; admins see every profile.
func SupplierDirectory(repo *suppliers.Repository, logg *logger.Logger, verifiedOnly bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers repository unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := suppliers.ListFilters{
			VerifiedOnly: verifiedOnly,
			Query:        validators.SanitizeString(r.URL.Query().Get("q"), maxSupplierQueryLen),
		}
		if filters.CategoryID, err = optionalQueryUUID(r, "category_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, nextCursor, err := repo.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]*suppliers.SupplierDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, suppliers.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"suppliers":   dtos,
			"next_cursor": nextCursor,
		})
	}
}

// SupplierProfileDetail returns one supplier's public profile.
func SupplierProfileDetail(repo *suppliers.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers repository unavailable"))
			return
		}

		supplierID, err := pathUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := repo.FindByID(r.Context(), supplierID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suppliers.FromModel(profile))
	}
}

// AdminSupplierSetVerified toggles the verified badge on a profile.
func AdminSupplierSetVerified(repo *suppliers.Repository, logg *logger.Logger, verified bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "suppliers repository unavailable"))
			return
		}

		supplierID, err := pathUUID(r, "supplierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetVerified(r.Context(), supplierID, verified); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := "unverified"
		if verified {
			status = "verified"
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}
