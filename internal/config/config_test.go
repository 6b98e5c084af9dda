package config

import (
	"strings"
	"testing"
	"time"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TOKEN_SECRET", "")
	t.Setenv("ADVICE_API_KEY", "")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")
}

func TestLoadDevelopmentDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !cfg.UseInMemoryStore() {
		t.Fatal("expected in-memory store by default")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default TTL 24h, got %s", cfg.TokenTTL)
	}
	if cfg.TokenSecret == "" {
		t.Fatal("expected development fallback token secret")
	}
	if cfg.HTTPAddress() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.HTTPAddress())
	}
}

func TestLoadRequiresGoogleClientOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("TOKEN_SECRET", "prod-secret")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when GOOGLE_CLIENT_ID missing outside development")
	}
	if !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRequiresTokenSecretOutsideDevelopment(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when TOKEN_SECRET missing outside development")
	}
	if !strings.Contains(err.Error(), "TOKEN_SECRET is required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TOKEN_TTL", "yesterday")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid TOKEN_TTL")
	}
}

func TestLoadRejectsPostgresWithoutURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATA_STORE", "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when postgres store has no DATABASE_URL")
	}
}

func TestLoadParsesOrigins(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}
