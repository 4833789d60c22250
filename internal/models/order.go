package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "PENDING"
	OrderStatusPaid       = "PAID"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"

	PaymentStatusPending = "PENDING"
	PaymentStatusPaid    = "PAID"

	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCreditCard   = "credit_card"
)

type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID          uint            `gorm:"index;not null"              json:"user_id"`
	OrderNumber     string          `gorm:"uniqueIndex;not null"        json:"order_number"`
	Status          string          `gorm:"not null"                    json:"status"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_fee"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod   string          `gorm:"not null"                    json:"payment_method"`
	PaymentStatus   string          `gorm:"not null"                    json:"payment_status"`
	ShippingAddress string          `gorm:"not null"                    json:"shipping_address"`
	ShippingPhone   string          `gorm:"not null"                    json:"shipping_phone"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// OrderItem is a snapshot taken at checkout. ProductID is a weak
// reference: the product row may be deleted later without touching
// historical orders, so name and price are copied onto the item.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID     uint            `gorm:"index;not null"              json:"order_id"`
	ProductID   uint            `gorm:"not null"                    json:"product_id"`
	ProductName string          `gorm:"not null"                    json:"product_name"`
	Quantity    int             `gorm:"not null;check:quantity>0"   json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusPaid, OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusPaid:       {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to
// another. DELIVERED and CANCELLED are terminal.
func CanTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cancellable statuses are the ones where inventory has not shipped.
func Cancellable(status string) bool {
	return status == OrderStatusPending || status == OrderStatusPaid
}
