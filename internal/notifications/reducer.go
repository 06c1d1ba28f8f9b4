package notifications

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

// The reducers below are pure event-to-row mappings. The consumer resolves
// recipients and handles transport; nothing here touches storage or I/O.

// OrderReceived notifies the supplier's user about a new incoming order.
func OrderReceived(recipient uuid.UUID, p payloads.OrderCreatedEvent) *models.Notification {
	link := fmt.Sprintf("/supplier/orders/%s", p.OrderID)
	return &models.Notification{
		UserID:  recipient,
		Type:    enums.NotificationOrderReceived,
		Title:   "New order received",
		Message: fmt.Sprintf("Order %s was placed for %s.", p.OrderNumber, formatCents(p.TotalCents)),
		Link:    &link,
	}
}

// OrderStatusChanged notifies the buyer that a supplier moved their order.
func OrderStatusChanged(p payloads.OrderStatusChangedEvent) *models.Notification {
	link := fmt.Sprintf("/orders/%s", p.OrderID)
	return &models.Notification{
		UserID:  p.BuyerID,
		Type:    enums.NotificationOrderStatus,
		Title:   "Order status updated",
		Message: fmt.Sprintf("Order %s is now %s.", p.OrderNumber, p.NewStatus),
		Link:    &link,
	}
}

// OrderCancelled notifies the supplier's user that the buyer cancelled.
func OrderCancelled(recipient uuid.UUID, p payloads.OrderCancelledEvent) *models.Notification {
	link := fmt.Sprintf("/supplier/orders/%s", p.OrderID)
	message := fmt.Sprintf("Order %s was cancelled by the buyer.", p.OrderNumber)
	if p.Reason != "" {
		message = fmt.Sprintf("Order %s was cancelled by the buyer: %s", p.OrderNumber, p.Reason)
	}
	return &models.Notification{
		UserID:  recipient,
		Type:    enums.NotificationOrderStatus,
		Title:   "Order cancelled",
		Message: message,
		Link:    &link,
	}
}

// QuoteRequested notifies the supplier's user about a new quote request.
func QuoteRequested(recipient uuid.UUID, p payloads.QuoteRequestedEvent) *models.Notification {
	link := fmt.Sprintf("/supplier/quotes/%s", p.QuoteID)
	return &models.Notification{
		UserID:  recipient,
		Type:    enums.NotificationQuoteRequested,
		Title:   "New quote request",
		Message: fmt.Sprintf("A buyer requested a quote: %s", p.Title),
		Link:    &link,
	}
}

// QuoteResponded notifies the buyer that the supplier answered.
func QuoteResponded(p payloads.QuoteRespondedEvent) *models.Notification {
	link := fmt.Sprintf("/quotes/%s", p.QuoteID)
	title := "Quote declined"
	message := "The supplier declined your quote request."
	if p.Status == enums.QuoteStatusResponded && p.PriceCents != nil {
		title = "Quote received"
		message = fmt.Sprintf("The supplier quoted %s.", formatCents(*p.PriceCents))
	}
	return &models.Notification{
		UserID:  p.BuyerID,
		Type:    enums.NotificationQuoteResponded,
		Title:   title,
		Message: message,
		Link:    &link,
	}
}

// QuoteExpired notifies the buyer that their quote request lapsed unanswered.
func QuoteExpired(p payloads.QuoteExpiredEvent) *models.Notification {
	link := fmt.Sprintf("/quotes/%s", p.QuoteID)
	return &models.Notification{
		UserID:  p.BuyerID,
		Type:    enums.NotificationQuoteResponded,
		Title:   "Quote request expired",
		Message: "Your quote request expired without a response.",
		Link:    &link,
	}
}

func formatCents(cents int) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
