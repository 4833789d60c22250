package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null"     json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

type CartItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"                json:"id"`
	CartID    uint            `gorm:"uniqueIndex:idx_cart_product;not null"   json:"cart_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_cart_product;not null"   json:"product_id"`
	Quantity  int             `gorm:"not null;default:1;check:quantity>0"     json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"             json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
