package Config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port      string
	JWTSecret string

	// Database. When DB_HOST is empty the server falls back to a local
	// sqlite file, which is what development and tests use.
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	SQLitePath string

	// Cloudflare R2 (S3-compatible)
	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2Bucket          string

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string

	// Stream Chat
	StreamKey    string
	StreamSecret string

	// OCR receipt scanning
	OCRAPIKey string
	OCRURL    string

	// LLM / embeddings (OpenAI-compatible endpoint)
	LLMAPIKey       string
	LLMBaseURL      string
	LLMModel        string
	EmbeddingsModel string

	// Firebase service account for push notifications
	FirebaseCredentialsFile string

	// Geo matching radius for media assignment, in meters
	GeoMatchRadiusM float64

	// SMTP digest sender
	SMTPServer   string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

var AppConfig Config

// Load reads .env if present and populates AppConfig. Missing integration
// keys are allowed; the corresponding features report themselves disabled.
func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = Config{
		Port:      getEnv("PORT", "3000"),
		JWTSecret: getEnv("JWT_SECRET", "secret"),

		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		SQLitePath: getEnv("SQLITE_PATH", "database.db"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2Bucket:          getEnv("R2_BUCKET", "crane-documents"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		StreamKey:    os.Getenv("STREAM_KEY"),
		StreamSecret: os.Getenv("STREAM_SECRET"),

		OCRAPIKey: os.Getenv("OCR_API_KEY"),
		OCRURL:    getEnv("OCR_URL", "https://api.taggun.io/api/receipt/v1/verbose/file"),

		LLMAPIKey:       os.Getenv("LLM_API_KEY"),
		LLMBaseURL:      getEnv("LLM_BASE_URL", "https://api.deepseek.com/v1"),
		LLMModel:        getEnv("LLM_MODEL", "deepseek-chat"),
		EmbeddingsModel: getEnv("EMBEDDINGS_MODEL", "text-embedding-3-small"),

		FirebaseCredentialsFile: os.Getenv("FIREBASE_CREDENTIALS_FILE"),

		GeoMatchRadiusM: getEnvFloat("GEO_MATCH_RADIUS_M", 250),

		SMTPServer:   os.Getenv("SMTP_SERVER"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using default %d", key, err, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Invalid value for %s: %v, using default %f", key, err, fallback)
		return fallback
	}
	return f
}
