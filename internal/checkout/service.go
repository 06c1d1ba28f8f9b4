package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/internal/checkout/helpers"
	"github.com/calderagroup/procuremart-backend/internal/orders"
	pkgcheckout "github.com/calderagroup/procuremart-backend/pkg/checkout"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type cartReader interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error)
	ClearForUser(ctx context.Context, userID uuid.UUID) error
}

type orderCreator interface {
	Create(ctx context.Context, input orders.CreateOrderInput) (*models.Order, error)
}

// SubmitInput is the buyer-provided half of an order submission; everything
// else comes from the cart.
type SubmitInput struct {
	ContactPerson   string
	Phone           string
	DeliveryAddress string
	Notes           *string
	Urgency         enums.Urgency
	PaymentTerms    enums.PaymentTerms
}

// SubmissionResult reports every order produced by one checkout.
type SubmissionResult struct {
	Orders     []*models.Order `json:"orders"`
	TotalCents int             `json:"total_cents"`
}

// submitFailureDetails is attached to ORDER_SUBMISSION_FAILED responses so
// the buyer can see which orders did go through.
type submitFailureDetails struct {
	CreatedOrderIDs []uuid.UUID `json:"created_order_ids"`
	FailedSuppliers []string    `json:"failed_suppliers"`
}

type cartClearDetails struct {
	CreatedOrderIDs []uuid.UUID `json:"created_order_ids"`
}

// Service executes the order submission workflow.
type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmissionResult, error)
}

type service struct {
	users  userLoader
	cart   cartReader
	orders orderCreator
	logg   *logger.Logger
}

// NewService builds the checkout service.
func NewService(users userLoader, cart cartReader, orderSvc orderCreator, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, fmt.Errorf("user loader required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if orderSvc == nil {
		return nil, fmt.Errorf("order creator required")
	}
	return &service{
		users:  users,
		cart:   cart,
		orders: orderSvc,
		logg:   logg,
	}, nil
}

// Submit validates the buyer and the order details, splits the cart by
// supplier and creates one order per supplier concurrently. Each order
// commits in its own transaction; a failed supplier never rolls back the
// others. The cart is cleared only after every order succeeded.
func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*SubmissionResult, error) {
	buyer, err := s.loadBuyer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := helpers.ValidateBuyer(buyer); err != nil {
		return nil, err
	}

	if messages := pkgcheckout.ValidateOrderDetails(pkgcheckout.OrderDetails{
		ContactPerson:   input.ContactPerson,
		Phone:           input.Phone,
		DeliveryAddress: input.DeliveryAddress,
	}); len(messages) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order details invalid").
			WithDetails(map[string]any{"errors": messages})
	}

	items, err := s.cart.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if err := helpers.ValidateCartMOQ(items); err != nil {
		return nil, err
	}

	buckets := helpers.GroupCartItemsBySupplier(items)
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	type outcome struct {
		order *models.Order
		err   error
	}
	outcomes := make([]outcome, len(keys))

	var wg sync.WaitGroup
	for i, key := range keys {
		wg.Add(1)
		go func(slot int, bucket *helpers.SupplierBucket) {
			defer wg.Done()
			order, err := s.orders.Create(ctx, s.buildOrderInput(userID, input, bucket))
			outcomes[slot] = outcome{order: order, err: err}
		}(i, buckets[key])
	}
	wg.Wait()

	result := &SubmissionResult{}
	var failed []string
	var errs error
	for i, out := range outcomes {
		if out.err != nil {
			failed = append(failed, buckets[keys[i]].SupplierName)
			errs = multierr.Append(errs, out.err)
			continue
		}
		result.Orders = append(result.Orders, out.order)
		result.TotalCents += out.order.TotalCents
	}

	if errs != nil {
		createdIDs := orderIDs(result.Orders)
		if s.logg != nil {
			s.logg.Error(ctx, "order submission partially failed", errs)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderSubmit, errs, "one or more supplier orders failed").
			WithDetails(submitFailureDetails{
				CreatedOrderIDs: createdIDs,
				FailedSuppliers: failed,
			})
	}

	if err := s.cart.ClearForUser(ctx, userID); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart clear failed after submission", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeCartClear, err, "orders created but cart clear failed").
			WithDetails(cartClearDetails{CreatedOrderIDs: orderIDs(result.Orders)})
	}

	return result, nil
}

func (s *service) loadBuyer(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	buyer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return buyer, nil
}

func (s *service) buildOrderInput(userID uuid.UUID, input SubmitInput, bucket *helpers.SupplierBucket) orders.CreateOrderInput {
	totals := helpers.BucketTotals(bucket)

	items := make([]orders.CreateOrderItemInput, 0, len(bucket.Items))
	for _, item := range bucket.Items {
		snapshot := orders.CreateOrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			snapshot.ProductName = item.Product.Name
			snapshot.Unit = item.Product.Unit
			snapshot.UnitPriceCents = item.Product.PriceCents
		} else {
			snapshot.ProductName = "Unknown Product"
			snapshot.Unit = enums.UnitPiece
		}
		items = append(items, snapshot)
	}

	return orders.CreateOrderInput{
		BuyerID:          userID,
		SupplierID:       bucket.SupplierID,
		SupplierName:     bucket.SupplierName,
		Urgency:          input.Urgency,
		PaymentTerms:     input.PaymentTerms,
		ContactPerson:    input.ContactPerson,
		Phone:            input.Phone,
		DeliveryAddress:  input.DeliveryAddress,
		Notes:            input.Notes,
		SubtotalCents:    totals.SubtotalCents,
		DeliveryFeeCents: totals.DeliveryFeeCents,
		TotalCents:       totals.TotalCents,
		Items:            items,
	}
}

func orderIDs(created []*models.Order) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(created))
	for _, order := range created {
		ids = append(ids, order.ID)
	}
	return ids
}
