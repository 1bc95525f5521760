package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "PORT", "STORAGE", "DATABASE_URL", "JWT_SECRET", "AUTH_TOKEN_TTL", "AUTH_COOKIE_TTL", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	if cfg.Env != "" || cfg.IsDev() {
		t.Fatalf("unset APP_ENV must not mean dev, got %q", cfg.Env)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port: got %d want 8080", cfg.Port)
	}
	if cfg.Storage != StoragePostgres {
		t.Fatalf("storage: got %q", cfg.Storage)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("token ttl: got %s want 1h", cfg.TokenTTL)
	}
	if cfg.CookieTTL != cfg.TokenTTL {
		t.Fatalf("cookie ttl should default to token ttl, got %s", cfg.CookieTTL)
	}
	if cfg.DBURL == "" {
		t.Fatalf("expected a DB URL built from defaults")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "MEMORY")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("AUTH_COOKIE_TTL", "3456h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("DATABASE_URL", "postgres://x@y/z")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Fatalf("port: got %d", cfg.Port)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("storage: got %q", cfg.Storage)
	}
	if cfg.TokenTTL != 15*time.Minute || cfg.CookieTTL != 3456*time.Hour {
		t.Fatalf("ttl mismatch: token=%s cookie=%s", cfg.TokenTTL, cfg.CookieTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("origins: got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.DBURL != "postgres://x@y/z" {
		t.Fatalf("db url: got %q", cfg.DBURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "dev_without_secret",
			cfg:  Config{Env: "dev", Port: 8080, Storage: StorageMemory, TokenTTL: time.Hour},
		},
		{
			name:    "prod_without_secret",
			cfg:     Config{Env: "prod", Port: 8080, Storage: StorageMemory, TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "unset_env_without_secret",
			cfg:     Config{Port: 8080, Storage: StorageMemory, TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "unknown_storage",
			cfg:     Config{Env: "dev", Port: 8080, Storage: "mongo", TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "postgres_without_url",
			cfg:     Config{Env: "prod", Port: 8080, Storage: StoragePostgres, JWTSecret: "s", TokenTTL: time.Hour},
			wantErr: true,
		},
		{
			name:    "bad_port",
			cfg:     Config{Env: "dev", Port: 0, Storage: StorageMemory, TokenTTL: time.Hour},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}

func TestSecret_DevFallback(t *testing.T) {
	if (Config{Env: "dev"}).Secret() == "" {
		t.Fatalf("dev config should fall back to a non-empty secret")
	}
	if (Config{Env: "prod"}).Secret() != "" {
		t.Fatalf("prod config must not invent a secret")
	}
	if (Config{}).Secret() != "" {
		t.Fatalf("unset env must not invent a secret")
	}
}

func TestLoad_NoEnvNoSecretFailsValidation(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE", StorageMemory)

	cfg := Load()

	if err := cfg.Validate(); err == nil {
		t.Fatalf("a deploy without APP_ENV and JWT_SECRET must not start")
	}
	if !cfg.IsProd() {
		t.Fatalf("unset APP_ENV should get production behavior")
	}
}

func TestLoad_ExplicitDevUsesFallbackSecret(t *testing.T) {
	t.Setenv("APP_ENV", "Dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORAGE", StorageMemory)

	cfg := Load()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("explicit dev should start without a secret: %v", err)
	}
	if cfg.Secret() == "" {
		t.Fatalf("expected the dev fallback secret")
	}
}
