package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	DBDriver        string
	MySQLDSN        string
	SQLitePath      string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	URLSignerSecret string
	SignedURLTTL    time.Duration
	ListingCacheTTL time.Duration
	MaxUploadBytes  int64
	LogLevel        string
	ResetDB         bool
	SwaggerHost     string
}

// Load builds Config from environment with sensible defaults. A .env file in
// the working directory is read first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := getEnv("JWT_SECRET", "change-me")
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		DBDriver:        getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:        getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/market?charset=utf8mb4&parseTime=True&loc=Local"),
		SQLitePath:      getEnv("SQLITE_PATH", "market.db"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       jwtSecret,
		URLSignerSecret: getEnv("URL_SIGNER_SECRET", jwtSecret),
		SignedURLTTL:    getEnvDuration("SIGNED_URL_TTL", time.Hour),
		ListingCacheTTL: getEnvDuration("LISTING_CACHE_TTL", 5*time.Minute),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 5<<20)),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ResetDB:         os.Getenv("RESET_DB") == "true",
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
