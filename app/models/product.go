package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

type Product struct {
	ID            string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	UserID        string `gorm:"size:36;index"`
	Seller        User   `gorm:"foreignKey:UserID"`
	Name          string `gorm:"size:255;not null"`
	Slug          string `gorm:"size:255;not null;uniqueIndex"`
	Description   string `gorm:"type:text"`
	Price         decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Stock         int             `gorm:"not null"`
	Category      string          `gorm:"size:100;index"`
	Status        string          `gorm:"size:20;default:'active'"`
	ProductImages []ProductImage
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) IsInStock() bool {
	return p.Stock > 0
}

type ProductImage struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ProductID string `gorm:"size:36;index"`
	Path      string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (pi *ProductImage) BeforeCreate(tx *gorm.DB) (err error) {
	if pi.ID == "" {
		pi.ID = uuid.New().String()
	}
	return
}
