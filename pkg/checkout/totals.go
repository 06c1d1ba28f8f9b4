package checkout

// Delivery fee policy. The fee is waived only when the subtotal strictly
// exceeds the threshold; a subtotal exactly at the threshold still pays.
const (
	DeliveryFeeCents           = 5000
	FreeDeliveryThresholdCents = 100000
)

// LineItem is the minimal shape the calculator needs. A nil unit price
// (broken product join) counts as zero rather than failing the cart.
type LineItem struct {
	UnitPriceCents *int
	Quantity       int
}

// Totals is the result of one calculation pass.
type Totals struct {
	SubtotalCents    int `json:"subtotal_cents"`
	DeliveryFeeCents int `json:"delivery_fee_cents"`
	TotalCents       int `json:"total_cents"`
}

// FeePolicy allows deployments to override the flat fee and waiver threshold.
type FeePolicy struct {
	FeeCents       int
	ThresholdCents int
}

// DefaultFeePolicy returns the stock fee policy.
func DefaultFeePolicy() FeePolicy {
	return FeePolicy{FeeCents: DeliveryFeeCents, ThresholdCents: FreeDeliveryThresholdCents}
}

// CalculateTotals sums the items and applies the default delivery fee policy.
// It is pure and idempotent: the whole-cart summary and the per-supplier
// buckets at submission both call it and must agree for equal inputs.
func CalculateTotals(items []LineItem) Totals {
	return CalculateTotalsWithPolicy(items, DefaultFeePolicy())
}

// CalculateTotalsWithPolicy is CalculateTotals under an explicit fee policy.
func CalculateTotalsWithPolicy(items []LineItem, policy FeePolicy) Totals {
	var subtotal int
	for _, item := range items {
		if item.UnitPriceCents == nil {
			continue
		}
		subtotal += *item.UnitPriceCents * item.Quantity
	}

	fee := policy.FeeCents
	if subtotal > policy.ThresholdCents {
		fee = 0
	}

	return Totals{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: fee,
		TotalCents:       subtotal + fee,
	}
}
