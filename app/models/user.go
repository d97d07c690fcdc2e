package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	Email     string `gorm:"size:100;not null;uniqueIndex"`
	Phone     string `gorm:"size:20"`
	Password  string `gorm:"size:255;not null" json:"-"`
	Role      string `gorm:"size:20;default:'customer';not null"`

	Street  string `gorm:"size:255"`
	City    string `gorm:"size:100"`
	State   string `gorm:"size:100"`
	ZipCode string `gorm:"size:20"`
	Country string `gorm:"size:100"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}

const (
	RoleAdmin    = "admin"
	RoleSeller   = "seller"
	RoleCustomer = "customer"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// FullAddress is the free-text form handed to the geocoder.
func (u *User) FullAddress() string {
	parts := []string{}
	for _, p := range []string{u.Street, u.ZipCode, u.City, u.State, u.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (u *User) IsSeller() bool {
	return u.Role == RoleSeller
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
