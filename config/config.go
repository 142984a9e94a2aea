package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	MongoURI string
	MongoDB  string

	JWTSecret string

	RazorpayKeyID         string
	RazorpayKeySecret     string
	RazorpayWebhookSecret string

	NATSURL string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	if fallback != "" {
		log.Printf("Warning: Environment variable %s not set, using default value: %s\n", key, fallback)
	} else {
		log.Printf("Warning: Environment variable %s not set and no default value provided\n", key)
	}
	return fallback
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		if os.IsNotExist(err) {
			log.Println("Warning: .env file not found, using environment variables or defaults.")
		} else {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	return &Config{
		Port:                  getEnv("PORT", ":8080"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		MongoURI:              getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:               getEnv("MONGO_DB", "emadhyam"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		RazorpayKeyID:         getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:     getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayWebhookSecret: getEnv("RAZORPAY_WEBHOOK_SECRET", ""),
		NATSURL:               getEnv("NATS_URL", ""),
	}
}

// Validate rejects configurations that cannot serve authenticated or paid
// traffic.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.RazorpayKeyID == "" || c.RazorpayKeySecret == "" {
		return fmt.Errorf("RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET must be set")
	}
	if c.RazorpayWebhookSecret == "" {
		return fmt.Errorf("RAZORPAY_WEBHOOK_SECRET must be set")
	}
	return nil
}
