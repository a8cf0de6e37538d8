package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv                  string
	LogLevel                slog.Level
	ApiServicePort          string
	ApiGrpcPort             string
	PostgreSQLHost          string
	PostgreSQLPort          int64
	PostgreSQLUser          string
	PostgreSQLPassword      string
	PostgreSQLDatabase      string
	RedisHost               string
	RedisPort               int64
	RedisPassword           string
	RedisDB                 int64
	IdentityAPIURL          string
	IdentitySecretKey       string
	SessionJWTSecret        string
	SessionCookieName       string
	TokenEncryptionKey      string
	DevDelayMin             time.Duration
	DevDelayMax             time.Duration
	ProjectDailyCreateLimit int64 // 0 disables the limit
	CORSAllowedOrigins      []string
	ShutdownTimeout         time.Duration
}

func LoadConfig() *Config {
	// A missing .env file is fine; real deployments use the process environment.
	_ = godotenv.Load()

	return &Config{
		AppEnv:                  getEnv("APP_ENV", "development"),                                         // Default development
		LogLevel:                getLogLevel(),                                                            // Default INFO
		ApiServicePort:          getEnv("API_SERVICE_PORT", "8080"),                                       // Default 8080
		ApiGrpcPort:             getEnv("API_GRPC_PORT", "50052"),                                         // Default 50052 (gRPC health)
		PostgreSQLHost:          getEnv("POSTGRESQL_HOST", "db"),                                          // Default db
		PostgreSQLPort:          getEnvAsInt64("POSTGRESQL_PORT", 5432),                                   // Default 5432
		PostgreSQLUser:          getEnv("POSTGRESQL_USER", "prayog_user"),                                 // Default user
		PostgreSQLPassword:      getEnv("POSTGRESQL_PASSWORD", "prayog_password"),                         // Default password
		PostgreSQLDatabase:      getEnv("POSTGRESQL_DATABASE", "prayog_db"),                               // Default database name
		RedisHost:               getEnv("REDIS_HOST", "redis"),                                            // Default redis
		RedisPort:               getEnvAsInt64("REDIS_PORT", 6379),                                        // Default 6379
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),                                             // Default empty
		RedisDB:                 getEnvAsInt64("REDIS_DATABASE", 0),                                       // Default 0
		IdentityAPIURL:          getEnv("IDENTITY_API_URL", "https://api.clerk.com"),                      // Default Clerk backend API
		IdentitySecretKey:       getEnv("IDENTITY_SECRET_KEY", ""),                                        // Default empty
		SessionJWTSecret:        getEnv("SESSION_JWT_SECRET", "prayog_session_secret"),                    // Default secret key
		SessionCookieName:       getEnv("SESSION_COOKIE_NAME", "__session"),                               // Default __session
		TokenEncryptionKey:      getEnv("TOKEN_ENCRYPTION_KEY", "prayog_token_key"),                       // Default key material
		DevDelayMin:             getEnvAsMillis("DEV_DELAY_MIN_MS", 100),                                  // Default 100ms
		DevDelayMax:             getEnvAsMillis("DEV_DELAY_MAX_MS", 500),                                  // Default 500ms
		ProjectDailyCreateLimit: getEnvAsInt64("PROJECT_DAILY_CREATE_LIMIT", 0),                           // Default unlimited
		CORSAllowedOrigins:      getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}), // Default Next.js dev server
		ShutdownTimeout:         time.Duration(getEnvAsInt64("SHUTDOWN_TIMEOUT", 10)) * time.Second,       // Default 10 seconds
	}
}

// IsDevelopment reports whether the artificial latency of the timing middleware applies.
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.AppEnv) == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	if valueStr, exists := os.LookupEnv(key); exists {
		if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
			return value
		}
	}
	return fallback
}

func getEnvAsMillis(key string, fallback int64) time.Duration {
	return time.Duration(getEnvAsInt64(key, fallback)) * time.Millisecond
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func getLogLevel() slog.Level {
	levelStr := getEnv("LOG_LEVEL", "INFO")

	switch strings.ToUpper(levelStr) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// PostgresDSN builds the connection string for the gorm postgres driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=UTC",
		c.PostgreSQLHost,
		c.PostgreSQLUser,
		c.PostgreSQLPassword,
		c.PostgreSQLDatabase,
		c.PostgreSQLPort,
	)
}
