package models

import (
	"time"

	"github.com/TekNegr/Projet-Ecommerce/app/utils/calc"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Coupon carries either a fixed discount amount or a percentage (at least one
// is set at creation). A nil UserID means the coupon is public.
type Coupon struct {
	ID                 string           `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Code               string           `gorm:"size:20;not null;uniqueIndex" json:"code"`
	DiscountAmount     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"discount_amount"`
	DiscountPercentage *decimal.Decimal `gorm:"type:decimal(5,2)" json:"discount_percentage"`
	MinOrderAmount     decimal.Decimal  `gorm:"type:decimal(10,2);default:0" json:"min_order_amount"`
	UserID             *string          `gorm:"size:36;index" json:"user_id"`
	User               *User            `gorm:"foreignKey:UserID"`
	OrderID            *string          `gorm:"size:36;index" json:"order_id"`
	IsUsed             bool             `gorm:"default:false" json:"is_used"`
	UsedAt             *time.Time       `json:"used_at"`
	ExpiresAt          *time.Time       `json:"expires_at"`
	Reason             string           `gorm:"type:text" json:"reason"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (c *Coupon) IsExpired() bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now())
}

// IsValid reports whether the coupon can still be redeemed. Once used it is
// permanently invalid.
func (c *Coupon) IsValid() bool {
	return !c.IsUsed && !c.IsExpired()
}

// CalculateDiscount computes the discount against the current order total.
// A fixed amount never exceeds the order total; a coupon with neither field
// set is inert.
func (c *Coupon) CalculateDiscount(orderTotal decimal.Decimal) decimal.Decimal {
	if !c.IsValid() || orderTotal.LessThan(c.MinOrderAmount) {
		return decimal.Zero
	}

	if c.DiscountAmount != nil && c.DiscountAmount.IsPositive() {
		if c.DiscountAmount.GreaterThan(orderTotal) {
			return orderTotal
		}
		return *c.DiscountAmount
	}

	if c.DiscountPercentage != nil && c.DiscountPercentage.IsPositive() {
		return calc.CalculatePercentageDiscount(orderTotal, *c.DiscountPercentage).Round(2)
	}

	return decimal.Zero
}
