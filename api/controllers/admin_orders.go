package controllers

import (
	"net/http"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/orders"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

// AdminOrderList pages through every order on the marketplace, optionally
// scoped to one buyer or supplier.
func AdminOrderList(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		shared, err := parseOrderListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.AdminOrderFilters{
			Status:   shared.status,
			Urgency:  shared.urgency,
			DateFrom: shared.dateFrom,
			DateTo:   shared.dateTo,
			Query:    shared.query,
		}
		if filters.BuyerID, err = optionalQueryUUID(r, "buyer_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.SupplierID, err = optionalQueryUUID(r, "supplier_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListAllOrders(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOrderStatus lets an operator force an order to any lifecycle state.
func AdminOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		order, err := svc.ChangeStatus(r.Context(), orders.StatusChangeInput{
			OrderID:       orderID,
			NewStatus:     status,
			ActorUserID:   userID,
			ActorUserType: enums.UserTypeAdmin,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
