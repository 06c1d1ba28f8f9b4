package enums

import "fmt"

// QuoteStatus maps to the quote_status enum in Postgres.
type QuoteStatus string

const (
	QuoteStatusPending   QuoteStatus = "pending"
	QuoteStatusResponded QuoteStatus = "responded"
	QuoteStatusDeclined  QuoteStatus = "declined"
	QuoteStatusExpired   QuoteStatus = "expired"
)

var validQuoteStatuses = []QuoteStatus{
	QuoteStatusPending,
	QuoteStatusResponded,
	QuoteStatusDeclined,
	QuoteStatusExpired,
}

func (s QuoteStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches the canonical quote_status enum.
func (s QuoteStatus) IsValid() bool {
	for _, candidate := range validQuoteStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsOpen reports whether a supplier can still respond to the quote.
func (s QuoteStatus) IsOpen() bool {
	return s == QuoteStatusPending
}

// ParseQuoteStatus converts raw input into QuoteStatus.
func ParseQuoteStatus(value string) (QuoteStatus, error) {
	for _, candidate := range validQuoteStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quote status %q", value)
}
