package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup from the environment (optionally seeded
// from a .env file) and treated as immutable for the process lifetime.
type Config struct {
	Port      string
	JWTSecret []byte

	// Database
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	// Store call behavior
	StoreTimeout    time.Duration
	StoreRetries    int
	StoreRetryDelay time.Duration

	// Quiz grading
	QuizPassingScore int
	QuizMaxAttempts  int

	// Search
	HybridKeywordWeight  float64
	HybridSemanticWeight float64
	SearchMaxResults     int

	// Entitlement
	UpgradeURL string
}

func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env file")
	}

	return Config{
		Port:      getEnv("PORT", "8080"),
		JWTSecret: []byte(getEnv("JWT_SECRET", "course-companion-staging-signing-key-2026")),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "companion_user"),
		DBPass:    getEnv("DB_PASSWORD", "companion_password"),
		DBName:    getEnv("DB_NAME", "course_companion"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		StoreTimeout:    getEnvDuration("STORE_TIMEOUT", 5*time.Second),
		StoreRetries:    getEnvInt("STORE_RETRIES", 3),
		StoreRetryDelay: getEnvDuration("STORE_RETRY_DELAY", 100*time.Millisecond),

		QuizPassingScore: getEnvInt("QUIZ_PASSING_SCORE", 70),
		QuizMaxAttempts:  getEnvInt("QUIZ_MAX_ATTEMPTS", 5),

		HybridKeywordWeight:  getEnvFloat("HYBRID_KEYWORD_WEIGHT", 0.6),
		HybridSemanticWeight: getEnvFloat("HYBRID_SEMANTIC_WEIGHT", 0.4),
		SearchMaxResults:     getEnvInt("SEARCH_MAX_RESULTS", 20),

		UpgradeURL: getEnv("UPGRADE_URL", "/pricing"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
		log.Printf("[config] invalid int for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
		log.Printf("[config] invalid float for %s, using default %g", key, fallback)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
		log.Printf("[config] invalid duration for %s, using default %s", key, fallback)
	}
	return fallback
}
