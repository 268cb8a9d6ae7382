package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the movieflix server. It is built once
// at process start and passed by reference into the components that need it.
type Config struct {
	DB           DBConfig
	Redis        RedisConfig
	TMDB         TMDBConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	Port         string
	ClientOrigin string
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// TMDBConfig holds TMDB API configuration.
type TMDBConfig struct {
	APIKey  string
	BaseURL string
}

// JWTConfig holds token-signing configuration.
type JWTConfig struct {
	Secret     string
	ExpiryDays int
}

// RateLimitConfig holds the per-window request limits. Auth endpoints get a
// stricter limit than the general API surface.
type RateLimitConfig struct {
	APIMax     int
	AuthMax    int
	WindowSecs int
}

// Load reads configuration from environment variables. It fails when the
// TMDB API key is missing or the JWT secret is too short to be safe.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	jwtExpiry, _ := strconv.Atoi(getEnv("JWT_EXPIRY_DAYS", "30"))
	apiMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_API_MAX", "100"))
	authMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_AUTH_MAX", "10"))
	windowSecs, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECS", "900"))

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movieflix"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		TMDB: TMDBConfig{
			APIKey:  os.Getenv("TMDB_API_KEY"),
			BaseURL: getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			ExpiryDays: jwtExpiry,
		},
		RateLimit: RateLimitConfig{
			APIMax:     apiMax,
			AuthMax:    authMax,
			WindowSecs: windowSecs,
		},
		Port:         getEnv("SERVER_PORT", "5000"),
		ClientOrigin: getEnv("CLIENT_URL", "http://localhost:5173"),
	}

	if cfg.TMDB.APIKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY is required")
	}
	if len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
