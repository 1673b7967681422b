package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryStatus is the seller-facing fulfillment state of an order line.
type DeliveryStatus string

const (
	DeliveryStatusPending    DeliveryStatus = "pending"
	DeliveryStatusProcessing DeliveryStatus = "processing"
	DeliveryStatusCompleted  DeliveryStatus = "completed"
	DeliveryStatusCancelled  DeliveryStatus = "cancelled"
)

// DeliveryStatuses lists every accepted status value.
var DeliveryStatuses = []DeliveryStatus{
	DeliveryStatusPending,
	DeliveryStatusProcessing,
	DeliveryStatusCompleted,
	DeliveryStatusCancelled,
}

// IsValid reports whether s is one of the four delivery statuses.
func (s DeliveryStatus) IsValid() bool {
	for _, v := range DeliveryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// OrderItem is one line of a customer order, owned by exactly one seller.
type OrderItem struct {
	ID             uuid.UUID       `json:"id"`
	OrderID        uuid.UUID       `json:"order_id"`
	SellerID       uuid.UUID       `json:"seller_id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	DeliveryStatus DeliveryStatus  `json:"delivery_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// OwnedBy returns true if userID is the item's seller.
func (o *OrderItem) OwnedBy(userID uuid.UUID) bool {
	return o.SellerID == userID
}
