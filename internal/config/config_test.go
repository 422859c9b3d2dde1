//go:build !integration

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults over a minimal file", func(t *testing.T) {
		// --- Arrange ---
		path := writeConfig(t, `
payment:
  esewa:
    product_code: EPAYTEST
    secret: form-secret
session:
  secret: session-secret
`)

		// --- Act ---
		cfg, err := config.LoadConfig(path, false)

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("port = %d, want 8080", cfg.Server.Port)
		}
		if cfg.Redis.IntentTTL != 30*time.Minute {
			t.Errorf("intent ttl = %v, want 30m", cfg.Redis.IntentTTL)
		}
		if cfg.Checkout.ShippingFreeAbove != 100 || cfg.Checkout.ShippingFee != 10 {
			t.Errorf("shipping = %d/%d, want 100/10", cfg.Checkout.ShippingFreeAbove, cfg.Checkout.ShippingFee)
		}
		if cfg.Reaper.Interval != time.Minute || cfg.Reaper.StaleAfter != time.Hour {
			t.Errorf("reaper = %v/%v", cfg.Reaper.Interval, cfg.Reaper.StaleAfter)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("log = %s/%s", cfg.Log.Level, cfg.Log.Format)
		}
	})

	t.Run("honors explicit values", func(t *testing.T) {
		// --- Arrange ---
		path := writeConfig(t, `
server:
  port: 9090
redis:
  intent_ttl: 10m
payment:
  return_url: https://shop.example/payment/return
  esewa:
    product_code: LIVECODE
    secret: form-secret
    sandbox: true
session:
  secret: session-secret
  ttl: 2h
`)

		// --- Act ---
		cfg, err := config.LoadConfig(path, false)

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Server.Port != 9090 {
			t.Errorf("port = %d, want 9090", cfg.Server.Port)
		}
		if cfg.Redis.IntentTTL != 10*time.Minute {
			t.Errorf("intent ttl = %v, want 10m", cfg.Redis.IntentTTL)
		}
		if !cfg.Payment.Esewa.Sandbox {
			t.Error("sandbox flag lost")
		}
		if cfg.Session.TTL != 2*time.Hour {
			t.Errorf("session ttl = %v, want 2h", cfg.Session.TTL)
		}
	})

	t.Run("requires the signing and session secrets outside dev", func(t *testing.T) {
		// --- Arrange ---
		path := writeConfig(t, `
payment:
  esewa:
    product_code: EPAYTEST
`)

		// --- Act ---
		_, err := config.LoadConfig(path, false)

		// --- Assert ---
		if err == nil {
			t.Fatal("expected an error for missing secrets")
		}
	})

	t.Run("allows missing secrets in dev", func(t *testing.T) {
		// --- Arrange ---
		path := writeConfig(t, `
server:
  port: 8081
`)

		// --- Act ---
		cfg, err := config.LoadConfig(path, true)

		// --- Assert ---
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !cfg.Runtime.Dev {
			t.Error("dev flag not carried")
		}
	})

	t.Run("fails on an unreadable file", func(t *testing.T) {
		if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), false); err == nil {
			t.Fatal("expected an error for a missing file")
		}
	})
}
