package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItem struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	OrderID     string          `gorm:"size:36;not null;index" json:"order_id"`
	Order       Order           `gorm:"foreignKey:OrderID;references:ID"`
	ProductID   string          `gorm:"size:36;not null;index" json:"product_id"`
	Product     Product         `gorm:"foreignKey:ProductID;references:ID"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	SellerID    string          `gorm:"size:36;not null;index" json:"seller_id"`
	Qty         int             `gorm:"not null" json:"qty"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"subtotal"`
	Shipped     bool            `gorm:"default:false" json:"shipped"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if oi.ID == "" {
		oi.ID = uuid.New().String()
	}
	return
}
