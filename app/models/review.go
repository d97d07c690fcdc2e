package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is one customer's review of one order; the unique index enforces a
// single review per (user, order).
type Review struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_order" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID"`
	OrderID   string    `gorm:"size:36;not null;uniqueIndex:idx_reviews_user_order" json:"order_id"`
	Order     Order     `gorm:"foreignKey:OrderID"`
	Rating    int       `gorm:"not null" json:"rating"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	AnswerRaw *string   `gorm:"column:answer;type:text" json:"answer"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

func (r *Review) IsAnswered() bool {
	return r.AnswerRaw != nil && *r.AnswerRaw != ""
}

func (r *Review) Answer() string {
	if r.AnswerRaw == nil {
		return ""
	}
	return *r.AnswerRaw
}
