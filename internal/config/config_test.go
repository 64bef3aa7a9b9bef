package config

import (
	"strings"
	"testing"
)

func TestLoadRequiresTokenSecret(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing RB_TOKEN_SECRET")
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "too-short")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for short secret")
	}
	if !strings.Contains(err.Error(), "at least") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadRejectsKnownWeakSecret(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "change-me-to-32-byte-secret-key!")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for known weak secret")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "Xk29!mPq8$vL4nR7@wT3zY6bN1cF5dG0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DBDriver != "sqlite" {
		t.Errorf("DBDriver = %q, want sqlite", cfg.DBDriver)
	}
	if cfg.ServerAddr() != "localhost:8080" {
		t.Errorf("ServerAddr = %q, want localhost:8080", cfg.ServerAddr())
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode by default")
	}
	if cfg.StrictNetworkView {
		t.Error("strict network view must default to off for compatibility")
	}
	if cfg.AutomationCron != "0 * * * *" {
		t.Errorf("AutomationCron = %q, want hourly", cfg.AutomationCron)
	}
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "Xk29!mPq8$vL4nR7@wT3zY6bN1cF5dG0")
	t.Setenv("RB_DB_DRIVER", "postgres")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestLoadMySQLRequiresDSN(t *testing.T) {
	t.Setenv("RB_TOKEN_SECRET", "Xk29!mPq8$vL4nR7@wT3zY6bN1cF5dG0")
	t.Setenv("RB_DB_DRIVER", "mysql")
	t.Setenv("RB_DB_DSN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing MySQL DSN")
	}
}
