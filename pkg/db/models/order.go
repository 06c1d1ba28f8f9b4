package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/calderagroup/procuremart-backend/pkg/enums"
)

// Order is a per-supplier purchase order produced from a single checkout.
// One checkout submission yields one Order per distinct supplier in the cart.
type Order struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber        string             `gorm:"column:order_number;not null;uniqueIndex"`
	BuyerID            uuid.UUID          `gorm:"column:buyer_id;type:uuid;not null;index"`
	SupplierID         *uuid.UUID         `gorm:"column:supplier_id;type:uuid;index"`
	SupplierName       string             `gorm:"column:supplier_name;not null"`
	Status             enums.OrderStatus  `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Urgency            enums.Urgency      `gorm:"column:urgency;type:urgency;not null;default:'standard'"`
	PaymentTerms       enums.PaymentTerms `gorm:"column:payment_terms;type:payment_terms;not null;default:'net_30'"`
	SubtotalCents      int                `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents   int                `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents         int                `gorm:"column:total_cents;not null"`
	ContactPerson      string             `gorm:"column:contact_person;not null"`
	Phone              string             `gorm:"column:phone;not null"`
	DeliveryAddress    string             `gorm:"column:delivery_address;not null"`
	Notes              *string            `gorm:"column:notes"`
	ExpectedDeliveryAt time.Time          `gorm:"column:expected_delivery_at;not null"`
	CancelledAt        *time.Time         `gorm:"column:cancelled_at"`
	Items              []OrderItem        `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
