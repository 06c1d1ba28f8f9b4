package controllers

import (
	"net/http"

	"github.com/calderagroup/procuremart-backend/api/responses"
	"github.com/calderagroup/procuremart-backend/api/validators"
	"github.com/calderagroup/procuremart-backend/internal/checkout"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

type checkoutSubmitRequest struct {
	ContactPerson   string             `json:"contact_person" validate:"required,max=120"`
	Phone           string             `json:"phone" validate:"required,max=32"`
	DeliveryAddress string             `json:"delivery_address" validate:"required,max=500"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Urgency         enums.Urgency      `json:"urgency" validate:"required"`
	PaymentTerms    enums.PaymentTerms `json:"payment_terms" validate:"required"`
}

// CheckoutSubmit validates the delivery form, splits the cart into
// per-supplier orders, and returns the created batch.
func CheckoutSubmit(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := actorUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), userID, checkout.SubmitInput{
			ContactPerson:   body.ContactPerson,
			Phone:           body.Phone,
			DeliveryAddress: body.DeliveryAddress,
			Notes:           body.Notes,
			Urgency:         body.Urgency,
			PaymentTerms:    body.PaymentTerms,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
