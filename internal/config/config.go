// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	IntentTTL time.Duration `yaml:"intent_ttl"` // staged-intent expiry
}

type BackendConfig struct {
	BaseURL      string        `yaml:"base_url"`
	ServiceToken string        `yaml:"service_token"`
	Timeout      time.Duration `yaml:"timeout"`
}

type PaymentConfig struct {
	ReturnURL string `yaml:"return_url"` // absolute URL of the return route
	Esewa     struct {
		ProductCode string `yaml:"product_code"`
		Secret      string `yaml:"secret"`
		Sandbox     bool   `yaml:"sandbox"`
	} `yaml:"esewa"`
}

type CheckoutConfig struct {
	ShippingFreeAbove int64 `yaml:"shipping_free_above"`
	ShippingFee       int64 `yaml:"shipping_fee"`
}

type SessionConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

type ReaperConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Backend  BackendConfig  `yaml:"backend"`
	Payment  PaymentConfig  `yaml:"payment"`
	Checkout CheckoutConfig `yaml:"checkout"`
	Session  SessionConfig  `yaml:"session"`
	Reaper   ReaperConfig   `yaml:"reaper"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Redis.IntentTTL <= 0 {
		cfg.Redis.IntentTTL = 30 * time.Minute
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = 10 * time.Second
	}
	if cfg.Checkout.ShippingFreeAbove <= 0 {
		cfg.Checkout.ShippingFreeAbove = 100
	}
	if cfg.Checkout.ShippingFee <= 0 {
		cfg.Checkout.ShippingFee = 10
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 30 * time.Minute
	}
	if cfg.Reaper.Interval <= 0 {
		cfg.Reaper.Interval = time.Minute
	}
	if cfg.Reaper.StaleAfter <= 0 {
		cfg.Reaper.StaleAfter = time.Hour
	}
	cfg.Runtime.Dev = dev

	if !dev {
		if cfg.Payment.Esewa.Secret == "" {
			return nil, fmt.Errorf("payment.esewa.secret is required")
		}
		if cfg.Session.Secret == "" {
			return nil, fmt.Errorf("session.secret is required")
		}
	}
	return &cfg, nil
}
