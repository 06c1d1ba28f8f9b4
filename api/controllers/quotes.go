package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/quotes"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

type quoteCreateRequest struct {
	SupplierID uuid.UUID  `json:"supplier_id" validate:"required"`
	ProductID  *uuid.UUID `json:"product_id,omitempty"`
	Title      string     `json:"title" validate:"required,max=200"`
	Details    string     `json:"details" validate:"required,max=2000"`
	Quantity   *int       `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type quoteRespondRequest struct {
	PriceCents      int     `json:"price_cents" validate:"required,min=1"`
	ResponseMessage *string `json:"response_message,omitempty" validate:"omitempty,max=2000"`
}

type quoteDeclineRequest struct {
	ResponseMessage *string `json:"response_message,omitempty" validate:"omitempty,max=2000"`
}

// QuoteCreate lets a buyer open a quote request against one supplier.
func QuoteCreate(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteCreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Create(r.Context(), quotes.CreateQuoteInput{
			BuyerID:    userID,
			SupplierID: body.SupplierID,
			ProductID:  body.ProductID,
			Title:      body.Title,
			Details:    body.Details,
			Quantity:   body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, quote)
	}
}

// QuoteList routes buyers to their own requests and suppliers to their inbox.
func QuoteList(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
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

		var filters quotes.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseQuoteStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		userType, ok := actorUserType(r)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var list *quotes.QuoteList
		switch userType {
		case enums.UserTypeSupplier:
			supplierID, err := actorSupplierID(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			list, err = svc.ListForSupplier(r.Context(), supplierID, params, filters)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		default:
			list, err = svc.ListForBuyer(r.Context(), userID, params, filters)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, list)
	}
}

// QuoteRespond records a supplier's priced answer to an open request.
func QuoteRespond(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteRespondRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Respond(r.Context(), quotes.RespondInput{
			QuoteID:         quoteID,
			SupplierID:      supplierID,
			ActorUserID:     userID,
			PriceCents:      body.PriceCents,
			ResponseMessage: body.ResponseMessage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// QuoteDecline closes an open request without a price.
func QuoteDecline(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotes service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		supplierID, err := actorSupplierID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID, err := pathUUID(r, "quoteId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quoteDeclineRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Decline(r.Context(), quotes.DeclineInput{
			QuoteID:         quoteID,
			SupplierID:      supplierID,
			ActorUserID:     userID,
			ResponseMessage: body.ResponseMessage,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
