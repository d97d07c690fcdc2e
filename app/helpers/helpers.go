package helpers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/TekNegr/Projet-Ecommerce/app/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyCartID contextKey = "cartID"
	ContextKeyUser   contextKey = "userObject"
)

// UserIDFromContext pulls the authenticated user's id set by the auth
// middleware.
func UserIDFromContext(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value(ContextKeyUserID).(string)
	return userID, ok && userID != ""
}

func UserFromContext(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(ContextKeyUser).(*models.User)
	return user, ok && user != nil
}

func CartIDFromContext(r *http.Request) (string, bool) {
	cartID, ok := r.Context().Value(ContextKeyCartID).(string)
	return cartID, ok && cartID != ""
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters/value.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters/value.", err.Field(), err.Param())
		case "gt":
			errorMessages[field] = fmt.Sprintf("%s must be greater than %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}

func PasswordCompare(hashPass string, password []byte) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashPass), password)
	if err != nil {
		log.Printf("PasswordCompare: password does not match or error: %v", err)
		return false
	}
	return true
}

func HashPassword(password string) string {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return ""
	}
	return string(bytes)
}
