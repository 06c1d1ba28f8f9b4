package helpers

import (
	"github.com/calderagroup/procuremart-backend/pkg/checkout"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

// ValidateBuyer ensures the submitting user may place orders.
func ValidateBuyer(user *models.User) error {
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authenticated user is required")
	}
	if user.UserType != enums.UserTypeBuyer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only buyers can submit orders")
	}
	if !user.IsActive {
		return pkgerrors.New(pkgerrors.CodeForbidden, "account is deactivated")
	}
	return nil
}

// ValidateCartMOQ enforces minimum order quantities across the joined cart.
func ValidateCartMOQ(items []models.CartItem) error {
	inputs := make([]checkout.MOQValidationInput, 0, len(items))
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		inputs = append(inputs, checkout.MOQValidationInput{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			MOQ:         item.Product.MOQ,
			Quantity:    item.Quantity,
		})
	}
	return checkout.ValidateMOQ(inputs)
}
