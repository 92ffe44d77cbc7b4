package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type Config struct {
	Port string
	Env  string

	MongoURI     string
	DatabaseName string

	FrontendURL string

	JWTSecret     string
	JWTExpiration time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	MailgunAPIKey string
	MailgunDomain string
	FromEmail     string

	TrashRetentionDays   int
	TrashCleanupInterval time.Duration

	AllowedOrigins []string
}

var AppConfig *Config
var DB *mongo.Database

func LoadConfig() {
	AppConfig = &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DatabaseName: getEnv("DATABASE_NAME", "scribehub"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		JWTExpiration: parseDuration(getEnv("JWT_EXPIRATION", "168h")),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),

		MailgunAPIKey: getEnv("MAILGUN_API_KEY", ""),
		MailgunDomain: getEnv("MAILGUN_DOMAIN", ""),
		FromEmail:     getEnv("FROM_EMAIL", "noreply@scribehub.app"),

		TrashRetentionDays:   parseInt(getEnv("TRASH_RETENTION_DAYS", "30")),
		TrashCleanupInterval: parseDuration(getEnv("TRASH_CLEANUP_INTERVAL", "24h")),

		AllowedOrigins: parseStringSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")),
	}

	logConfig()
	validateConfig()
}

func logConfig() {
	log.Println("Configuration loaded:")
	log.Printf("  Port: %s", AppConfig.Port)
	log.Printf("  Environment: %s", AppConfig.Env)
	log.Printf("  Database: %s", AppConfig.DatabaseName)
	log.Printf("  MongoDB URI: %s", maskConnectionString(AppConfig.MongoURI))
	log.Printf("  JWT Secret: %s", maskSecret(AppConfig.JWTSecret))
	log.Printf("  JWT Expiration: %v", AppConfig.JWTExpiration)
	log.Printf("  Google Client ID: %s", maskSecret(AppConfig.GoogleClientID))
	log.Printf("  Google Redirect URL: %s", AppConfig.GoogleRedirectURL)
	log.Printf("  Trash Retention: %d days", AppConfig.TrashRetentionDays)
	log.Printf("  Trash Cleanup Interval: %v", AppConfig.TrashCleanupInterval)
	log.Printf("  Allowed Origins: %v", AppConfig.AllowedOrigins)
}

func maskSecret(secret string) string {
	if secret == "" {
		return "[NOT SET]"
	}
	if len(secret) <= 8 {
		return "[HIDDEN]"
	}
	return secret[:4] + "***" + secret[len(secret)-4:]
}

func maskConnectionString(uri string) string {
	if uri == "" {
		return "[NOT SET]"
	}
	if strings.Contains(uri, "@") {
		parts := strings.Split(uri, "@")
		if len(parts) >= 2 {
			return "[CREDENTIALS_HIDDEN]@" + parts[len(parts)-1]
		}
	}
	return uri
}

func validateConfig() {
	var missingVars []string

	required := map[string]string{
		"MONGO_URI":  AppConfig.MongoURI,
		"JWT_SECRET": AppConfig.JWTSecret,
	}

	for key, value := range required {
		if value == "" {
			missingVars = append(missingVars, key)
		}
	}

	if len(missingVars) > 0 {
		log.Printf("Missing required environment variables: %v", missingVars)
		log.Fatal("Please set all required environment variables")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("Failed to parse int: %s", s)
	}
	return i
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Failed to parse duration: %s", s)
	}
	return d
}

func parseStringSlice(s string) []string {
	if s == "" {
		return []string{}
	}

	parts := strings.Split(s, ",")
	var result []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func CreateContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
