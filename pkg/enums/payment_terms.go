package enums

import "fmt"

// PaymentTerms maps to the payment_terms enum in Postgres. Terms are
// recorded on the order for invoicing; no processor is involved.
type PaymentTerms string

const (
	PaymentTermsImmediate PaymentTerms = "immediate"
	PaymentTermsNet15     PaymentTerms = "net_15"
	PaymentTermsNet30     PaymentTerms = "net_30"
	PaymentTermsNet60     PaymentTerms = "net_60"
)

var validPaymentTerms = []PaymentTerms{
	PaymentTermsImmediate,
	PaymentTermsNet15,
	PaymentTermsNet30,
	PaymentTermsNet60,
}

func (p PaymentTerms) String() string {
	return string(p)
}

// IsValid reports whether the value matches the canonical payment_terms enum.
func (p PaymentTerms) IsValid() bool {
	for _, candidate := range validPaymentTerms {
		if candidate == p {
			return true
		}
	}
	return false
}

// NetDays returns the invoice due window in days.
func (p PaymentTerms) NetDays() int {
	switch p {
	case PaymentTermsNet15:
		return 15
	case PaymentTermsNet30:
		return 30
	case PaymentTermsNet60:
		return 60
	default:
		return 0
	}
}

// ParsePaymentTerms converts raw input into PaymentTerms.
func ParsePaymentTerms(value string) (PaymentTerms, error) {
	for _, candidate := range validPaymentTerms {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment terms %q", value)
}
