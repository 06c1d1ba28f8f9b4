package helpers

import (
	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/checkout"
	"github.com/calderagroup/procuremart-backend/pkg/db/models"
)

const (
	// UnknownSupplierKey buckets items whose product join carries no supplier.
	UnknownSupplierKey = "unknown"
	// FallbackSupplierName labels buckets with no resolvable display name.
	FallbackSupplierName = "Unknown Supplier"
)

// SupplierBucket is one per-supplier partition of the cart. SupplierID is nil
// for the sentinel bucket.
type SupplierBucket struct {
	SupplierID   *uuid.UUID
	SupplierName string
	Items        []models.CartItem
}

// GroupCartItemsBySupplier partitions cart items into buckets keyed by
// supplier id string. Items without a supplier land in the sentinel bucket
// instead of being dropped; item order is preserved within each bucket.
func GroupCartItemsBySupplier(items []models.CartItem) map[string]*SupplierBucket {
	grouped := make(map[string]*SupplierBucket, len(items))
	for _, item := range items {
		key, supplierID := supplierKey(item)
		bucket, ok := grouped[key]
		if !ok {
			bucket = &SupplierBucket{SupplierID: supplierID}
			grouped[key] = bucket
		}
		if bucket.SupplierName == "" {
			bucket.SupplierName = supplierDisplayName(item)
		}
		bucket.Items = append(bucket.Items, item)
	}

	for key, bucket := range grouped {
		if bucket.SupplierName != "" {
			continue
		}
		if key == UnknownSupplierKey {
			bucket.SupplierName = FallbackSupplierName
		} else {
			bucket.SupplierName = key
		}
	}
	return grouped
}

// BucketTotals runs the shared totals calculator over one bucket's items so
// the per-order numbers and the cart summary can never diverge.
func BucketTotals(bucket *SupplierBucket) checkout.Totals {
	return checkout.CalculateTotals(BucketLineItems(bucket.Items))
}

// BucketLineItems projects cart items onto calculator inputs. A missing
// product join yields a nil price, which the calculator counts as zero.
func BucketLineItems(items []models.CartItem) []checkout.LineItem {
	lines := make([]checkout.LineItem, 0, len(items))
	for _, item := range items {
		line := checkout.LineItem{Quantity: item.Quantity}
		if item.Product != nil {
			p := item.Product.PriceCents
			line.UnitPriceCents = &p
		}
		lines = append(lines, line)
	}
	return lines
}

func supplierKey(item models.CartItem) (string, *uuid.UUID) {
	if item.Product == nil || item.Product.SupplierID == uuid.Nil {
		return UnknownSupplierKey, nil
	}
	id := item.Product.SupplierID
	return id.String(), &id
}

func supplierDisplayName(item models.CartItem) string {
	if item.Product == nil || item.Product.Supplier == nil {
		return ""
	}
	return item.Product.Supplier.BusinessName
}
