package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
)

const (
	minContactPersonLen   = 2
	minDeliveryAddressLen = 10
)

// phonePattern accepts an optional leading "+" followed by at least ten
// characters drawn from digits, spaces, hyphens and parentheses.
var phonePattern = regexp.MustCompile(`^\+?[0-9()\s-]{10,}$`)

// Validation messages, in the order they are reported.
const (
	MsgContactPersonRequired   = "Contact person is required (minimum 2 characters)"
	MsgPhoneInvalid            = "A valid phone number is required"
	MsgDeliveryAddressTooShort = "Delivery address is required (minimum 10 characters)"
)

// OrderDetails carries the buyer-entered contact fields of an order draft.
type OrderDetails struct {
	ContactPerson   string
	Phone           string
	DeliveryAddress string
}

// ValidatePhone reports whether the input looks like a dialable phone number.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// ValidateOrderDetails returns one human-readable message per violated rule,
// always in contact-person, phone, address order. An empty slice means the
// details are valid. Pure function, no side effects.
func ValidateOrderDetails(details OrderDetails) []string {
	var messages []string
	if len(strings.TrimSpace(details.ContactPerson)) < minContactPersonLen {
		messages = append(messages, MsgContactPersonRequired)
	}
	if !ValidatePhone(details.Phone) {
		messages = append(messages, MsgPhoneInvalid)
	}
	if len(strings.TrimSpace(details.DeliveryAddress)) < minDeliveryAddressLen {
		messages = append(messages, MsgDeliveryAddressTooShort)
	}
	return messages
}

// MOQValidationInput describes the data required to verify a line item's MOQ.
type MOQValidationInput struct {
	ProductID   uuid.UUID
	ProductName string
	MOQ         int
	Quantity    int
}

// MOQViolationDetail exposes the data returned to callers when a validation fails.
type MOQViolationDetail struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name,omitempty"`
	RequiredQty  int       `json:"required_qty"`
	RequestedQty int       `json:"requested_qty"`
}

// ValidateMOQ ensures every provided line item meets its product's minimum order quantity.
func ValidateMOQ(items []MOQValidationInput) error {
	var violations []MOQViolationDetail
	for _, item := range items {
		if item.MOQ <= 1 {
			continue
		}
		if item.Quantity < item.MOQ {
			violations = append(violations, MOQViolationDetail{
				ProductID:    item.ProductID,
				ProductName:  item.ProductName,
				RequiredQty:  item.MOQ,
				RequestedQty: item.Quantity,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("minimum order quantity not met for %d item(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
