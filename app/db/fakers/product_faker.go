package fakers

import (
	"math"
	"math/rand"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var fakerCategories = []string{
	"electronics",
	"books",
	"clothing",
	"home_garden",
	"sports",
	"toys",
}

func ProductFaker(db *gorm.DB, seller *models.User) *models.Product {
	name := faker.Word() + " " + faker.Word()
	productID := uuid.New().String()

	imagePaths := []string{
		"/images/products/placeholder.jpg",
		"/images/products/placeholder1.jpg",
		"/images/products/placeholder2.jpg",
	}

	numImages := rand.Intn(3) + 1
	productImages := make([]models.ProductImage, numImages)
	for i := 0; i < numImages; i++ {
		productImages[i] = models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			Path:      imagePaths[rand.Intn(len(imagePaths))],
		}
	}

	return &models.Product{
		ID:            productID,
		UserID:        seller.ID,
		Name:          name,
		Slug:          slug.Make(name + "-" + uuid.NewString()[:6]),
		Description:   faker.Paragraph(),
		Price:         decimal.NewFromFloat(fakePrice()),
		Stock:         rand.Intn(20) + 1,
		Category:      fakerCategories[rand.Intn(len(fakerCategories))],
		Status:        models.ProductStatusActive,
		ProductImages: productImages,
	}
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(4))+1, 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
