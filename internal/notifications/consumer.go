package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
	"github.com/calderagroup/procuremart-backend/pkg/outbox"
	"github.com/calderagroup/procuremart-backend/pkg/outbox/idempotency"
	"github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

const notificationConsumer = "user-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type supplierResolver interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SupplierProfile, error)
}

// Consumer materializes notification rows from order and quote events.
type Consumer struct {
	repo         repository
	suppliers    supplierResolver
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds the notification consumer.
func NewConsumer(repo repository, suppliers supplierResolver, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier resolver required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("domain subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		suppliers:    suppliers,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := msg.Attributes["event_type"]
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, notificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification, err := c.reduce(ctx, enums.OutboxEventType(eventType), envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
		return processResult{nack: true}
	}
	if notification == nil {
		c.logg.Info(logCtx, "event type not handled")
		return processResult{ack: true}
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "failed to store notification", err)
		_ = c.idempotency.Delete(ctx, notificationConsumer, eventID)
		return processResult{nack: true}
	}
	return processResult{ack: true}
}

// reduce resolves the recipient where needed and applies the pure mapping.
// A nil notification with a nil error means the event carries nothing to show.
func (c *Consumer) reduce(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage) (*models.Notification, error) {
	switch eventType {
	case enums.EventOrderCreated:
		var p payloads.OrderCreatedEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		if p.SupplierID == nil {
			return nil, nil
		}
		recipient, err := c.supplierUser(ctx, *p.SupplierID)
		if err != nil {
			return nil, err
		}
		return OrderReceived(recipient, p), nil

	case enums.EventOrderStatusChanged:
		var p payloads.OrderStatusChangedEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return OrderStatusChanged(p), nil

	case enums.EventOrderCancelled:
		var p payloads.OrderCancelledEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		if p.SupplierID == nil {
			return nil, nil
		}
		recipient, err := c.supplierUser(ctx, *p.SupplierID)
		if err != nil {
			return nil, err
		}
		return OrderCancelled(recipient, p), nil

	case enums.EventQuoteRequested:
		var p payloads.QuoteRequestedEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		recipient, err := c.supplierUser(ctx, p.SupplierID)
		if err != nil {
			return nil, err
		}
		return QuoteRequested(recipient, p), nil

	case enums.EventQuoteResponded:
		var p payloads.QuoteRespondedEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return QuoteResponded(p), nil

	case enums.EventQuoteExpired:
		var p payloads.QuoteExpiredEvent
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return QuoteExpired(p), nil

	default:
		return nil, nil
	}
}

func (c *Consumer) supplierUser(ctx context.Context, supplierID uuid.UUID) (uuid.UUID, error) {
	profile, err := c.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve supplier %s: %w", supplierID, err)
	}
	return profile.UserID, nil
}
