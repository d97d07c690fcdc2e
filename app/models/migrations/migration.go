package migrations

import (
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
		&models.Notification{},
		&models.Review{},
	)
}
