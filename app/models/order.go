package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

type Order struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID    string    `gorm:"size:36;index"`
	User      User      `gorm:"foreignKey:UserID"`
	OrderCode string    `gorm:"type:varchar(255);unique;not null" json:"order_code"`
	OrderDate time.Time `gorm:"not null" json:"order_date"`

	OrderItems []OrderItem
	// Distinct sellers with items in this order. Shrinks when a seller
	// removes their items.
	SellerIDs []string `gorm:"serializer:json;type:text" json:"seller_ids"`

	BaseTotalPrice decimal.Decimal `gorm:"type:decimal(16,2);"`
	FreightCost    decimal.Decimal `gorm:"type:decimal(16,2);"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(16,2);"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(16,2);"`

	CouponID *string `gorm:"size:36;index"`
	Coupon   *Coupon `gorm:"foreignKey:CouponID"`

	// Shipping address snapshot, denormalized at placement. Not a live
	// reference to the user's stored address.
	ShippingName       string `gorm:"size:255"`
	ShippingStreet     string `gorm:"type:text"`
	ShippingCity       string `gorm:"size:100"`
	ShippingPostalCode string `gorm:"size:20"`
	ShippingState      string `gorm:"size:100"`
	ShippingCountry    string `gorm:"size:100"`

	Notes  string `gorm:"type:text"`
	Status string `gorm:"size:20;default:'pending'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return
}

func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

func (o *Order) IsDelivered() bool {
	return o.Status == OrderStatusDelivered
}

func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// TotalItemCount sums quantities across all line items.
func (o *Order) TotalItemCount() int {
	total := 0
	for _, item := range o.OrderItems {
		total += item.Qty
	}
	return total
}

// HasSeller reports whether the given seller still has items in this order.
func (o *Order) HasSeller(sellerID string) bool {
	for _, id := range o.SellerIDs {
		if id == sellerID {
			return true
		}
	}
	return false
}

// AllItemsShipped reports whether every remaining line item has been flagged
// shipped. An order with no items is never "all shipped".
func (o *Order) AllItemsShipped() bool {
	if len(o.OrderItems) == 0 {
		return false
	}
	for _, item := range o.OrderItems {
		if !item.Shipped {
			return false
		}
	}
	return true
}

// ItemsForSeller returns the line items owned by one seller.
func (o *Order) ItemsForSeller(sellerID string) []OrderItem {
	var items []OrderItem
	for _, item := range o.OrderItems {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	return items
}
