package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/orders"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

const maxOrderQueryLen = 120

type orderCancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// orderListFilters gathers the query-string filters shared by every order
// list endpoint.
type orderListFilters struct {
	status   *enums.OrderStatus
	urgency  *enums.Urgency
	dateFrom *time.Time
	dateTo   *time.Time
	query    string
}

func parseOrderListFilters(r *http.Request) (orderListFilters, error) {
	var filters orderListFilters

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.status = &status
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("urgency")); raw != "" {
		urgency, err := enums.ParseUrgency(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid urgency filter")
		}
		filters.urgency = &urgency
	}

	var err error
	if filters.dateFrom, err = optionalQueryDate(r, "date_from"); err != nil {
		return filters, err
	}
	if filters.dateTo, err = optionalQueryDate(r, "date_to"); err != nil {
		return filters, err
	}
	filters.query = validators.SanitizeString(r.URL.Query().Get("q"), maxOrderQueryLen)
	return filters, nil
}

// BuyerOrderList pages through the authenticated buyer's orders.
func BuyerOrderList(repo orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders repository unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseOrderListFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := repo.ListBuyerOrders(r.Context(), userID, params, orders.BuyerOrderFilters{
			Status:   filters.status,
			Urgency:  filters.urgency,
			DateFrom: filters.dateFrom,
			DateTo:   filters.dateTo,
			Query:    filters.query,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// OrderDetail returns one order with line items, scoped to the caller's role.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		userType, ok := actorUserType(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		order, err := svc.DetailForActor(r.Context(), orderID, userID, userType, optionalActorSupplierID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// BuyerOrderCancel cancels a pending order on behalf of its buyer.
func BuyerOrderCancel(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body orderCancelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Cancel(r.Context(), orders.CancelInput{
			OrderID:     orderID,
			BuyerID:     userID,
			Reason:      body.Reason,
			ActorUserID: userID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
