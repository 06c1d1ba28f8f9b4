package controllers

import (
	"net/http"
	"strings"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/users"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

const maxUserQueryLen = 120

// AdminUserList pages through every account with optional type, activity,
// and search filters.
func AdminUserList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters users.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("user_type")); raw != "" {
			userType, err := enums.ParseUserType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user_type filter"))
				return
			}
			filters.UserType = &userType
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("is_active")); raw != "" {
			switch strings.ToLower(raw) {
			case "true":
				active := true
				filters.IsActive = &active
			case "false":
				active := false
				filters.IsActive = &active
			default:
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "is_active must be true or false"))
				return
			}
		}
		filters.Query = validators.SanitizeString(r.URL.Query().Get("q"), maxUserQueryLen)

		rows, nextCursor, err := repo.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dtos := make([]*users.UserDTO, 0, len(rows))
		for i := range rows {
			dtos = append(dtos, users.FromModel(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{
			"users":       dtos,
			"next_cursor": nextCursor,
		})
	}
}

// AdminUserSetActive flips an account's active flag. Deactivated accounts
// fail login and token refresh.
func AdminUserSetActive(repo *users.Repository, logg *logger.Logger, active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "users repository unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := repo.SetActive(r.Context(), userID, active); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := "deactivated"
		if active {
			status = "activated"
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}
