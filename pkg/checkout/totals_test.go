package checkout

import "testing"

func price(cents int) *int { return &cents }

func TestCalculateTotalsIdentity(t *testing.T) {
	t.Parallel()
	cases := [][]LineItem{
		nil,
		{},
		{{UnitPriceCents: price(2500), Quantity: 4}},
		{{UnitPriceCents: price(2500), Quantity: 4}, {UnitPriceCents: nil, Quantity: 10}},
		{{UnitPriceCents: price(60000), Quantity: 2}},
	}
	for _, items := range cases {
		got := CalculateTotals(items)
		if got.TotalCents != got.SubtotalCents+got.DeliveryFeeCents {
			t.Fatalf("identity violated: %+v", got)
		}
	}
}

func TestCalculateTotalsFeeBoundary(t *testing.T) {
	t.Parallel()
	// Exactly at the threshold the fee still applies; one cent above waives it.
	atThreshold := CalculateTotals([]LineItem{{UnitPriceCents: price(FreeDeliveryThresholdCents), Quantity: 1}})
	if atThreshold.DeliveryFeeCents != DeliveryFeeCents {
		t.Fatalf("expected fee at threshold, got %d", atThreshold.DeliveryFeeCents)
	}
	if atThreshold.TotalCents != FreeDeliveryThresholdCents+DeliveryFeeCents {
		t.Fatalf("unexpected total %d", atThreshold.TotalCents)
	}

	aboveThreshold := CalculateTotals([]LineItem{{UnitPriceCents: price(FreeDeliveryThresholdCents + 1), Quantity: 1}})
	if aboveThreshold.DeliveryFeeCents != 0 {
		t.Fatalf("expected waived fee above threshold, got %d", aboveThreshold.DeliveryFeeCents)
	}
}

func TestCalculateTotalsMissingPriceCountsAsZero(t *testing.T) {
	t.Parallel()
	got := CalculateTotals([]LineItem{
		{UnitPriceCents: nil, Quantity: 3},
		{UnitPriceCents: price(1500), Quantity: 2},
	})
	if got.SubtotalCents != 3000 {
		t.Fatalf("expected 3000 subtotal, got %d", got.SubtotalCents)
	}
}

func TestCalculateTotalsEmptyCart(t *testing.T) {
	t.Parallel()
	got := CalculateTotals(nil)
	if got.SubtotalCents != 0 || got.DeliveryFeeCents != DeliveryFeeCents || got.TotalCents != DeliveryFeeCents {
		t.Fatalf("unexpected empty-cart totals %+v", got)
	}
}

func TestCalculateTotalsIdempotent(t *testing.T) {
	t.Parallel()
	items := []LineItem{
		{UnitPriceCents: price(2000), Quantity: 10},
		{UnitPriceCents: price(4500), Quantity: 1},
	}
	first := CalculateTotals(items)
	second := CalculateTotals(items)
	if first != second {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestCalculateTotalsWithPolicyOverride(t *testing.T) {
	t.Parallel()
	policy := FeePolicy{FeeCents: 1000, ThresholdCents: 5000}
	got := CalculateTotalsWithPolicy([]LineItem{{UnitPriceCents: price(4000), Quantity: 1}}, policy)
	if got.DeliveryFeeCents != 1000 || got.TotalCents != 5000 {
		t.Fatalf("unexpected policy totals %+v", got)
	}
	waived := CalculateTotalsWithPolicy([]LineItem{{UnitPriceCents: price(6000), Quantity: 1}}, policy)
	if waived.DeliveryFeeCents != 0 {
		t.Fatalf("expected waived fee, got %+v", waived)
	}
}
