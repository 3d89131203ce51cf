package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	devJWTSecret = "dev-only-insecure-secret"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Storage
	StorageDriver string
	DBUrl         string
	DBMaxConns    int32
	DBMinConns    int32

	// Authentication
	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration
	JWKSURL   string // Optional external identity provider (RS256)

	CORSOrigins []string

	// Redis Configuration
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitAuthThreshold   int

	// NATS domain events
	NATSURL         string
	NATSConnTimeout time.Duration

	// S3 resume uploads
	S3Region           string
	S3Bucket           string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	S3Endpoint         string
	ResumeUploadExpiry time.Duration

	// Any recruiter may update or delete any user record
	RecruitersManageUsers bool
}

func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

func LoadConfig() (*Config, error) {
	// .env is only present locally; ignore its absence
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		DBUrl:         getEnv("DATABASE_URL", ""),
		DBMaxConns:    int32(getEnvInt("DB_MAX_CONNS", 25)),
		DBMinConns:    int32(getEnvInt("DB_MIN_CONNS", 5)),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "jobconnect"),
		JWTExpiry: getEnvDuration("JWT_EXPIRY", 30*24*time.Hour),
		JWKSURL:   strings.TrimRight(getEnv("JWKS_URL", ""), "/"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),

		RedisURL:                 getEnv("REDIS_URL", ""),
		RedisPassword:            getEnv("REDIS_PASSWORD", ""),
		RateLimitWindowSeconds:   getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60),
		RateLimitGlobalThreshold: getEnvInt("RATE_LIMIT_GLOBAL_THRESHOLD", 100),
		RateLimitAuthThreshold:   getEnvInt("RATE_LIMIT_AUTH_THRESHOLD", 10),

		NATSURL:         getEnv("NATS_URL", ""),
		NATSConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),

		S3Region:           getEnv("S3_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:         strings.TrimRight(getEnv("S3_ENDPOINT", ""), "/"),
		ResumeUploadExpiry: getEnvDuration("RESUME_UPLOAD_EXPIRY", 15*time.Minute),

		RecruitersManageUsers: getEnvBool("RECRUITERS_MANAGE_USERS", true),
	}

	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		return nil, errors.New("STORAGE_DRIVER must be postgres or memory")
	}
	if cfg.StorageDriver == StorageDriverPostgres && cfg.DBUrl == "" {
		return nil, errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsRelease() {
			return nil, errors.New("JWT_SECRET is required in release mode")
		}
		log.Println("WARNING: JWT_SECRET not set. Using an insecure development secret.")
		cfg.JWTSecret = devJWTSecret
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt returns an integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.TrimRight(part, "/"))
		}
	}
	return out
}
