package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calderagroup/procuremart-backend/pkg/db/models"
	"github.com/calderagroup/procuremart-backend/pkg/enums"
	pkgerrors "github.com/calderagroup/procuremart-backend/pkg/errors"
	"github.com/calderagroup/procuremart-backend/pkg/outbox"
	"github.com/calderagroup/procuremart-backend/pkg/outbox/payloads"
	"github.com/calderagroup/procuremart-backend/pkg/pagination"
)

// Quotes that never hear back close automatically after this window.
const defaultQuoteTTL = 7 * 24 * time.Hour

const expiryBatchSize = 100

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the quote request lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error)
	Respond(ctx context.Context, input RespondInput) (*QuoteDTO, error)
	Decline(ctx context.Context, input DeclineInput) (*QuoteDTO, error)
	ExpireStale(ctx context.Context) (int, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	ttl    time.Duration
	now    func() time.Time
}

// NewService builds a quote service with the required dependencies.
func NewService(repo Repository, tx txRunner, outboxSvc outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotes repository required")
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
		ttl:    defaultQuoteTTL,
		now:    time.Now,
	}, nil
}

// Create persists a pending quote and queues the quote_requested event in
// one transaction.
func (s *service) Create(ctx context.Context, input CreateQuoteInput) (*QuoteDTO, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	if input.SupplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	details := strings.TrimSpace(input.Details)
	if details == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "details are required")
	}
	if input.Quantity != nil && *input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	createdAt := s.now()
	quote := &models.QuoteRequest{
		ID:         uuid.New(),
		BuyerID:    input.BuyerID,
		SupplierID: input.SupplierID,
		ProductID:  input.ProductID,
		Title:      title,
		Details:    details,
		Quantity:   input.Quantity,
		Status:     enums.QuoteStatusPending,
		ExpiresAt:  createdAt.Add(s.ttl),
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Create(ctx, quote); err != nil {
			return err
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteRequested,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.BuyerID, UserType: enums.UserTypeBuyer},
			Data: payloads.QuoteRequestedEvent{
				QuoteID:    quote.ID,
				BuyerID:    quote.BuyerID,
				SupplierID: quote.SupplierID,
				ProductID:  quote.ProductID,
				Title:      quote.Title,
				ExpiresAt:  quote.ExpiresAt,
			},
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create quote")
	}
	return FromModel(quote), nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "buyer identity required")
	}
	rows, next, err := s.repo.ListForBuyer(ctx, buyerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer quotes")
	}
	return listFrom(rows, next), nil
}

func (s *service) ListForSupplier(ctx context.Context, supplierID uuid.UUID, params pagination.Params, filters ListFilters) (*QuoteList, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}
	rows, next, err := s.repo.ListForSupplier(ctx, supplierID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list supplier quotes")
	}
	return listFrom(rows, next), nil
}

// Respond records the supplier's price on an open quote.
func (s *service) Respond(ctx context.Context, input RespondInput) (*QuoteDTO, error) {
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be positive")
	}
	return s.answer(ctx, input.QuoteID, input.SupplierID, input.ActorUserID,
		enums.QuoteStatusResponded, &input.PriceCents, input.ResponseMessage)
}

// Decline closes an open quote without a price.
func (s *service) Decline(ctx context.Context, input DeclineInput) (*QuoteDTO, error) {
	return s.answer(ctx, input.QuoteID, input.SupplierID, input.ActorUserID,
		enums.QuoteStatusDeclined, nil, input.ResponseMessage)
}

func (s *service) answer(ctx context.Context, quoteID, supplierID, actorUserID uuid.UUID, status enums.QuoteStatus, priceCents *int, message *string) (*QuoteDTO, error) {
	if supplierID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "supplier identity required")
	}

	quote, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "quote belongs to another supplier")
	}
	if !quote.Status.IsOpen() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("quote is %s and can no longer be answered", quote.Status))
	}
	respondedAt := s.now()
	if !quote.ExpiresAt.After(respondedAt) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote has expired")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SetResponse(ctx, quote.ID, status, priceCents, message, respondedAt); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "quote was already answered")
			}
			return err
		}
		quote.Status = status
		quote.ResponsePriceCents = priceCents
		quote.ResponseMessage = message
		quote.RespondedAt = &respondedAt

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventQuoteResponded,
			AggregateType: enums.AggregateQuote,
			AggregateID:   quote.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: actorUserID, UserType: enums.UserTypeSupplier},
			Data: payloads.QuoteRespondedEvent{
				QuoteID:    quote.ID,
				BuyerID:    quote.BuyerID,
				SupplierID: quote.SupplierID,
				Status:     status,
				PriceCents: priceCents,
			},
		})
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "answer quote")
	}
	return FromModel(quote), nil
}

// ExpireStale closes pending quotes past their deadline and emits one
// quote_expired event per row. Returns the number of quotes expired.
func (s *service) ExpireStale(ctx context.Context) (int, error) {
	cutoff := s.now()
	stale, err := s.repo.ListStalePending(ctx, cutoff, expiryBatchSize)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stale quotes")
	}

	expired := 0
	for i := range stale {
		quote := stale[i]
		marked := false
		err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if err := repo.MarkExpired(ctx, quote.ID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil
				}
				return err
			}
			marked = true
			return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventQuoteExpired,
				AggregateType: enums.AggregateQuote,
				AggregateID:   quote.ID,
				Version:       1,
				Data: payloads.QuoteExpiredEvent{
					QuoteID:    quote.ID,
					BuyerID:    quote.BuyerID,
					SupplierID: quote.SupplierID,
					ExpiredAt:  cutoff,
				},
			})
		})
		if err != nil {
			return expired, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire quote")
		}
		if marked {
			expired++
		}
	}
	return expired, nil
}

func (s *service) loadQuote(ctx context.Context, quoteID uuid.UUID) (*models.QuoteRequest, error) {
	quote, err := s.repo.FindByID(ctx, quoteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quote")
	}
	return quote, nil
}

func listFrom(rows []models.QuoteRequest, next string) *QuoteList {
	dtos := make([]QuoteDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	return &QuoteList{Quotes: dtos, NextCursor: next}
}
