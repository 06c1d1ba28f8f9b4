package controllers

import (
	"net/http"
	"time"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/internal/analytics"
	"github.com/calderagroup/procuremart-backend/internal/analytics/types"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

// AdminMarketplaceAnalytics runs the warehouse KPI query. Omitting the
// date range defaults to the trailing thirty days; supplier_id narrows
// the report to one supplier.
func AdminMarketplaceAnalytics(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		start, err := optionalQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := optionalQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := optionalQueryUUID(r, "supplier_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		now := time.Now().UTC()
		req := types.MarketplaceQueryRequest{SupplierID: supplierID}
		if end != nil {
			req.End = *end
		} else {
			req.End = now
		}
		if start != nil {
			req.Start = *start
		} else {
			req.Start = req.End.Add(-defaultAnalyticsWindow)
		}

		report, err := svc.Query(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
