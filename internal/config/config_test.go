package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_RequiresAppPassword(t *testing.T) {
	os.Clearenv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() = nil error, want APP_PASSWORD required error")
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("APP_PASSWORD", "test-password-1!")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Server.Env != "development" {
		t.Errorf("Env: got %q, want %q", cfg.Server.Env, "development")
	}
	if cfg.Auth.SessionMaxAge != 24*time.Hour {
		t.Errorf("SessionMaxAge: got %v, want %v", cfg.Auth.SessionMaxAge, 24*time.Hour)
	}
	if cfg.Printer.BaseURL == "" {
		t.Error("Printer.BaseURL should have a default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("APP_PASSWORD", "test-password-1!")
	os.Setenv("PORT", "9090")
	os.Setenv("SESSION_MAX_AGE", "1h")
	os.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port: got %q, want %q", cfg.Server.Port, "9090")
	}
	if cfg.Auth.SessionMaxAge != time.Hour {
		t.Errorf("SessionMaxAge: got %v, want %v", cfg.Auth.SessionMaxAge, time.Hour)
	}
	if len(cfg.Server.TrustedProxies) != 2 || cfg.Server.TrustedProxies[0] != "10.0.0.0/8" {
		t.Errorf("TrustedProxies: got %v", cfg.Server.TrustedProxies)
	}
}

func TestLoad_RejectsWeakPassword(t *testing.T) {
	weak := []string{"changeme", "password", "BANANANA", "short"}

	for _, pw := range weak {
		os.Clearenv()
		os.Setenv("APP_PASSWORD", pw)

		if _, err := Load(); err == nil {
			t.Errorf("Load() accepted weak password %q", pw)
		}
	}
	os.Clearenv()
}

func TestLoad_ProductionRequiresLongerPassword(t *testing.T) {
	os.Setenv("APP_PASSWORD", "elevenchars")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Error("Load() accepted an 11-character password in production")
	}
}
