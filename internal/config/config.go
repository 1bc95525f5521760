package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Env         string
	Port        int
	ServiceName string

	Storage    string
	DBURL      string
	DBMaxConns int32

	JWTSecret string
	TokenTTL  time.Duration
	CookieTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	CORSAllowedOrigins []string
	MaxBodyBytes       int64

	OTLPEndpoint string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	// a missing .env is normal outside local dev
	_ = godotenv.Load()

	tokenTTL := getEnvDuration("AUTH_TOKEN_TTL", time.Hour)

	return Config{
		// no default: an unset APP_ENV gets production behavior
		Env:         strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))),
		Port:        getEnvInt("PORT", 8080),
		ServiceName: getEnv("SERVICE_NAME", "tasktracker"),

		Storage:    strings.ToLower(getEnv("STORAGE", StoragePostgres)),
		DBURL:      getEnv("DATABASE_URL", buildDBURL()),
		DBMaxConns: int32(getEnvInt("DB_MAX_CONNS", 5)),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  tokenTTL,
		CookieTTL: getEnvDuration("AUTH_COOKIE_TTL", tokenTTL),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", 30*time.Second),

		CORSAllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}
}

// Validate reports settings the process cannot start with.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT %d", c.Port))
	}

	switch c.Storage {
	case StoragePostgres:
		if c.DBURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for postgres storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE %q", c.Storage))
	}

	if c.JWTSecret == "" && !c.IsDev() {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("AUTH_TOKEN_TTL must be positive"))
	}

	return errors.Join(errs...)
}

// IsDev is true only when APP_ENV names dev or test explicitly.
func (c Config) IsDev() bool {
	return c.Env == "dev" || c.Env == "test"
}

// IsProd covers every environment that did not opt into dev, including an unset one.
func (c Config) IsProd() bool {
	return !c.IsDev()
}

// Secret returns the signing key, falling back to a fixed key only in an
// explicit dev/test environment.
func (c Config) Secret() string {
	if c.JWTSecret == "" && c.IsDev() {
		return "dev-only-insecure-secret"
	}
	return c.JWTSecret
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "tasktracker")
	pass := getEnv("DB_PASSWORD", "tasktracker")
	name := getEnv("DB_NAME", "tasktracker")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
