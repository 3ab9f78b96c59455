package core

import (
	"reflect"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_URL", "POSTGRES_URL", "SESSION_BACKEND", "BCRYPT_COST", "BOOTSTRAP_ADMIN", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "5000" {
		t.Fatalf("Port = %q, want 5000", cfg.Port)
	}
	if cfg.SessionBackend != "memory" {
		t.Fatalf("SessionBackend = %q, want memory", cfg.SessionBackend)
	}
	if !cfg.BootstrapAdminEnabled {
		t.Fatal("BootstrapAdminEnabled = false, want true")
	}
	if cfg.BcryptCost != 0 {
		t.Fatalf("BcryptCost = %d, want 0 (library default)", cfg.BcryptCost)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("AllowedOrigins = %v, want empty", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("BOOTSTRAP_ADMIN", "false")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.SessionBackend != "redis" {
		t.Fatalf("SessionBackend = %q", cfg.SessionBackend)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.BootstrapAdminEnabled {
		t.Fatal("BootstrapAdminEnabled = true, want false")
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Fatalf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}
}

func TestEnvHelpers(t *testing.T) {
	if got := firstNonEmpty("", "", "x", "y"); got != "x" {
		t.Fatalf("firstNonEmpty = %q", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Fatalf("firstNonEmpty() = %q", got)
	}

	t.Setenv("TEST_BOOL", "not-a-bool")
	if got := boolFromEnv("TEST_BOOL", true); got != true {
		t.Fatal("boolFromEnv should fall back on invalid value")
	}
	t.Setenv("TEST_INT", "7")
	if got := intFromEnv("TEST_INT", 3); got != 7 {
		t.Fatalf("intFromEnv = %d", got)
	}
	t.Setenv("TEST_INT", "zzz")
	if got := intFromEnv("TEST_INT", 3); got != 3 {
		t.Fatalf("intFromEnv fallback = %d", got)
	}
}
