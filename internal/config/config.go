package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable the process reads from the environment.
type Config struct {
	Port        string
	DatabaseDSN string
	RedisAddr   string
	VisionAddr  string

	JWTSecret   string
	JWTAudience string

	UploadDir string

	FaceTolerance float64
	OCRTimeout    time.Duration
	FaceTimeout   time.Duration
	TokenTTL      time.Duration

	LogLevel string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present; explicit
// env vars always win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "host=postgres user=postgres password=postgres dbname=idverify port=5432 sslmode=disable"),
		RedisAddr:      getEnv("REDIS_ADDR", "redis:6379"),
		VisionAddr:     getEnv("VISION_ADDR", "vision-service:50051"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		JWTAudience:    os.Getenv("JWT_AUDIENCE"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		FaceTolerance:  getFloat("FACE_TOLERANCE", 0.5),
		OCRTimeout:     getDuration("OCR_TIMEOUT", 30*time.Second),
		FaceTimeout:    getDuration("FACE_TIMEOUT", 30*time.Second),
		TokenTTL:       getDuration("TOKEN_TTL", time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
