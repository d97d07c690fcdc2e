package seeders

import (
	"log"

	"github.com/TekNegr/Projet-Ecommerce/app/db/fakers"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"gorm.io/gorm"
)

const (
	seedSellerCount          = 3
	seedCustomerCount        = 5
	seedProductsPerSeller    = 4
)

// DBSeed populates a development database with sellers, customers and a
// small catalog per seller.
func DBSeed(db *gorm.DB) error {
	for i := 0; i < seedSellerCount; i++ {
		seller := fakers.UserFaker(db, models.RoleSeller)
		if err := db.Create(seller).Error; err != nil {
			return err
		}
		for j := 0; j < seedProductsPerSeller; j++ {
			product := fakers.ProductFaker(db, seller)
			if err := db.Create(product).Error; err != nil {
				return err
			}
		}
	}

	for i := 0; i < seedCustomerCount; i++ {
		customer := fakers.UserFaker(db, models.RoleCustomer)
		if err := db.Create(customer).Error; err != nil {
			return err
		}
	}

	log.Printf("Seeded %d sellers, %d customers, %d products",
		seedSellerCount, seedCustomerCount, seedSellerCount*seedProductsPerSeller)
	return nil
}
