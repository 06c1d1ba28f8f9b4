package orders

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/calderagroup/procuremart-backend/pkg/db"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/outbox"
	"github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
)

const orderNumberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	ChangeStatus(ctx context.Context, input StatusChangeInput) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) (*models.Order, error)
	DetailForActor(ctx context.Context, orderID, actorUserID uuid.UUID, userType enums.UserType, actorSupplierID *uuid.UUID) (*models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:   repo,
		tx:     tx,
		outbox: outboxSvc,
		now:    time.Now,
	}, nil
}

// Create persists one per-supplier order with its item snapshots and queues
// the order_created event, all in a single transaction.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	if input.SupplierName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name required")
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = enums.UrgencyStandard
	}
	if !urgency.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid urgency %q", urgency))
	}
	terms := input.PaymentTerms
	if terms == "" {
		terms = enums.PaymentTermsNet30
	}
	if !terms.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment terms %q", terms))
	}

	submittedAt := s.now()

	var created *models.Order
	var lastErr error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order := &models.Order{
			OrderNumber:        generateOrderNumber(submittedAt),
			BuyerID:            input.BuyerID,
			SupplierID:         input.SupplierID,
			SupplierName:       input.SupplierName,
			Status:             enums.OrderStatusPending,
			Urgency:            urgency,
			PaymentTerms:       terms,
			SubtotalCents:      input.SubtotalCents,
			DeliveryFeeCents:   input.DeliveryFeeCents,
			TotalCents:         input.TotalCents,
			ContactPerson:      input.ContactPerson,
			Phone:              input.Phone,
			DeliveryAddress:    input.DeliveryAddress,
			Notes:              input.Notes,
			ExpectedDeliveryAt: submittedAt.Add(urgency.LeadTime()),
		}

		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if _, err := repo.CreateOrder(ctx, order); err != nil {
				return err
			}

			items := make([]models.OrderItem, 0, len(input.Items))
			for _, item := range input.Items {
				items = append(items, models.OrderItem{
					OrderID:        order.ID,
					ProductID:      item.ProductID,
					ProductName:    item.ProductName,
					Unit:           item.Unit,
					UnitPriceCents: item.UnitPriceCents,
					Quantity:       item.Quantity,
					LineTotalCents: item.UnitPriceCents * item.Quantity,
				})
			}
			if err := repo.CreateOrderItems(ctx, items); err != nil {
				return err
			}
			order.Items = items

			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventOrderCreated,
				AggregateType: enums.AggregateOrder,
				AggregateID:   order.ID,
				Version:       1,
				Actor:         &outbox.ActorRef{UserID: input.BuyerID, UserType: enums.UserTypeBuyer},
				Data: payloads.OrderCreatedEvent{
					OrderID:      order.ID,
					OrderNumber:  order.OrderNumber,
					BuyerID:      order.BuyerID,
					SupplierID:   order.SupplierID,
					SupplierName: order.SupplierName,
					TotalCents:   order.TotalCents,
					ItemCount:    len(order.Items),
				},
			})
		})
		if lastErr == nil {
			created = order
			break
		}
		if !dbpkg.IsUniqueViolation(lastErr, "order_number") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "create order")
		}
	}
	if created == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "allocate order number")
	}
	return created, nil
}

// ChangeStatus applies a supplier or admin status move after checking the
// transition table.
func (s *service) ChangeStatus(ctx context.Context, input StatusChangeInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", input.NewStatus))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		switch input.ActorUserType {
		case enums.UserTypeAdmin:
		case enums.UserTypeSupplier:
			if input.ActorSupplierID == nil || order.SupplierID == nil || *order.SupplierID != *input.ActorSupplierID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to supplier")
			}
		default:
			return pkgerrors.New(pkgerrors.CodeForbidden, "status changes require a supplier or admin actor")
		}

		if order.Status == input.NewStatus {
			updated = order
			return nil
		}
		if !order.Status.CanTransitionTo(input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.NewStatus))
		}

		oldStatus := order.Status
		if err := repo.UpdateOrderStatus(ctx, order.ID, input.NewStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = input.NewStatus
		updated = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, UserType: input.ActorUserType},
			Data: payloads.OrderStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				BuyerID:     order.BuyerID,
				SupplierID:  order.SupplierID,
				OldStatus:   oldStatus,
				NewStatus:   order.Status,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel lets a buyer withdraw an order that is still pending.
func (s *service) Cancel(ctx context.Context, input CancelInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var cancelled *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.BuyerID != input.BuyerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled")
		}

		at := s.now()
		if err := repo.MarkCancelled(ctx, order.ID, at); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}
		order.Status = enums.OrderStatusCancelled
		order.CancelledAt = &at
		cancelled = order

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCancelled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, UserType: enums.UserTypeBuyer},
			Data: payloads.OrderCancelledEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				BuyerID:     order.BuyerID,
				SupplierID:  order.SupplierID,
				CancelledAt: at,
				Reason:      input.Reason,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// DetailForActor loads an order with items, enforcing per-role visibility.
func (s *service) DetailForActor(ctx context.Context, orderID, actorUserID uuid.UUID, userType enums.UserType, actorSupplierID *uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrderDetail(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order detail")
	}

	switch userType {
	case enums.UserTypeAdmin:
	case enums.UserTypeBuyer:
		if order.BuyerID != actorUserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
		}
	case enums.UserTypeSupplier:
		if actorSupplierID == nil || order.SupplierID == nil || *order.SupplierID != *actorSupplierID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to supplier")
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown actor type")
	}
	return order, nil
}

const orderNumberChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateOrderNumber builds ORD-YYYYMMDD-XXXX. The random suffix keeps the
// number unguessable; the unique index plus the retry loop in Create handles
// the rare collision.
func generateOrderNumber(at time.Time) string {
	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderNumberChars[rand.Intn(len(orderNumberChars))]
	}
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("20060102"), string(suffix))
}
