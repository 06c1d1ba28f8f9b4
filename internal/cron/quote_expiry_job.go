package cron

import (
	"context"
	"fmt"

	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

// QuoteExpiryJobParams configure the quote expiry sweep.
type QuoteExpiryJobParams struct {
	Logger *logger.Logger
	Quotes quoteExpirer
}

type quoteExpirer interface {
	ExpireStale(ctx context.Context) (int, error)
}

// NewQuoteExpiryJob builds the job that expires quote requests past their deadline.
func NewQuoteExpiryJob(params QuoteExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Quotes == nil {
		return nil, fmt.Errorf("quotes service required")
	}
	return &quoteExpiryJob{
		logg:   params.Logger,
		quotes: params.Quotes,
	}, nil
}

type quoteExpiryJob struct {
	logg   *logger.Logger
	quotes quoteExpirer
}

func (j *quoteExpiryJob) Name() string { return "quote-expiry" }

func (j *quoteExpiryJob) Run(ctx context.Context) error {
	expired, err := j.quotes.ExpireStale(ctx)
	if err != nil {
		return fmt.Errorf("quote expiry: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "quotes_expired", expired)
	j.logg.Info(logCtx, "quote expiry sweep complete")
	return nil
}
