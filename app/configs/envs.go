package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	Port       string

	SESSION_KEY string
	AppAuthKey  string
	AppEncKey   string
	APP_URL     string
	APP_ENV     string

	GEOAPIFY_BASE_URL string
	GEOAPIFY_API_KEY  string

	PREDICTION_BASE_URL string

	FreightRatePerKm       float64
	PaymentCountAssumption int
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		Port:       os.Getenv("APP_PORT"),

		SESSION_KEY: os.Getenv("SESSION_KEY"),
		AppAuthKey:  os.Getenv("APP_AUTH_KEY"),
		AppEncKey:   os.Getenv("APP_ENC_KEY"),
		APP_URL:     os.Getenv("APP_URL"),
		APP_ENV:     os.Getenv("APP_ENV"),

		GEOAPIFY_BASE_URL: getEnvDefault("GEOAPIFY_BASE_URL", "https://api.geoapify.com/v1"),
		GEOAPIFY_API_KEY:  os.Getenv("GEOAPIFY_API_KEY"),

		PREDICTION_BASE_URL: getEnvDefault("PREDICTION_BASE_URL", "http://fastapi:8000"),

		FreightRatePerKm:       getEnvFloat("FREIGHT_RATE_PER_KM", 1.0),
		PaymentCountAssumption: getEnvInt("PAYMENT_COUNT_ASSUMPTION", 1),
	}

}

var LoadENV = LoadEnv()

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: invalid float for %s: %q, using default %v", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: invalid int for %s: %q, using default %v", key, v, fallback)
		return fallback
	}
	return i
}
