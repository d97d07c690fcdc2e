package fakers

import (
	"math/rand"

	"github.com/TekNegr/Projet-Ecommerce/app/helpers"
	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var fakerCities = []struct {
	City    string
	State   string
	ZipCode string
	Country string
}{
	{"Paris", "Ile-de-France", "75001", "France"},
	{"Lyon", "Auvergne-Rhone-Alpes", "69001", "France"},
	{"Marseille", "Provence-Alpes-Cote d'Azur", "13001", "France"},
	{"Lille", "Hauts-de-France", "59000", "France"},
	{"Bordeaux", "Nouvelle-Aquitaine", "33000", "France"},
}

func UserFaker(db *gorm.DB, role string) *models.User {
	city := fakerCities[rand.Intn(len(fakerCities))]

	return &models.User{
		ID:        uuid.New().String(),
		FirstName: faker.FirstName(),
		LastName:  faker.LastName(),
		Email:     faker.Email(),
		Phone:     faker.Phonenumber(),
		Password:  helpers.HashPassword("password123"),
		Role:      role,
		Street:    faker.Word() + " street " + faker.Word(),
		City:      city.City,
		State:     city.State,
		ZipCode:   city.ZipCode,
		Country:   city.Country,
	}
}
