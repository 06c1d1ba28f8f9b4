package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/calderagroup/procuremart-backend/pkg/logger"
)

func TestQuoteExpiryJobRunsSweep(t *testing.T) {
	expirer := &fakeQuoteExpirer{expired: 3}
	job, err := NewQuoteExpiryJob(QuoteExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Quotes: expirer,
	})
	if err != nil {
		t.Fatalf("NewQuoteExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expirer.called != 1 {
		t.Fatalf("expected one sweep, got %d", expirer.called)
	}
	if job.Name() != "quote-expiry" {
		t.Fatalf("unexpected job name %s", job.Name())
	}
}

func TestQuoteExpiryJobPropagatesError(t *testing.T) {
	expirer := &fakeQuoteExpirer{err: errors.New("boom")}
	job, err := NewQuoteExpiryJob(QuoteExpiryJobParams{
		Logger: logger.New(logger.Options{ServiceName: "test"}),
		Quotes: expirer,
	})
	if err != nil {
		t.Fatalf("NewQuoteExpiryJob: %v", err)
	}

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestQuoteExpiryJobRequiresDependencies(t *testing.T) {
	if _, err := NewQuoteExpiryJob(QuoteExpiryJobParams{Quotes: &fakeQuoteExpirer{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewQuoteExpiryJob(QuoteExpiryJobParams{Logger: logger.New(logger.Options{ServiceName: "test"})}); err == nil {
		t.Fatal("expected error without quotes service")
	}
}

type fakeQuoteExpirer struct {
	expired int
	err     error
	called  int
}

func (f *fakeQuoteExpirer) ExpireStale(ctx context.Context) (int, error) {
	f.called++
	if f.err != nil {
		return 0, f.err
	}
	return f.expired, nil
}
