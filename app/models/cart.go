package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-session cart aggregate. Its ID is the cart id minted into
// the cookie session, so there is exactly one cart per browser session.
type Cart struct {
	ID             string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID         string `gorm:"size:36;index"`
	CartItems      []CartItem
	BaseTotalPrice decimal.Decimal `gorm:"type:decimal(16,2);"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(16,2);"`
	TotalItems     int             `gorm:"-"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
