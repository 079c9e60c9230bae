// Package config loads and validates the bot's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"bitwyre-maker-go/order"
)

// AppConfig holds the main runtime configuration.
type AppConfig struct {
	Env        string           `yaml:"env"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Instrument InstrumentConfig `yaml:"instrument"`
	Loop       LoopConfig       `yaml:"loop"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type GatewayConfig struct {
	BaseURL        string  `yaml:"baseURL"`
	WSURL          string  `yaml:"wsURL"`
	APIKey         string  `yaml:"apiKey"`
	APISecret      string  `yaml:"apiSecret"`
	TimeoutSeconds int     `yaml:"timeoutSeconds"`
	RESTRate       float64 `yaml:"restRate"`
	RESTBurst      int     `yaml:"restBurst"`
}

// InstrumentConfig carries the quoting parameters for the one instrument
// the bot trades. Decimal-valued fields stay strings in YAML so precision
// survives the parse; Validate checks them.
type InstrumentConfig struct {
	ID             string  `yaml:"id"`
	MidPrice       string  `yaml:"midPrice"`
	Quantity       string  `yaml:"quantity"`
	PricePrecision int32   `yaml:"pricePrecision"`
	QtyPrecision   int32   `yaml:"qtyPrecision"`
	MinSpread      float64 `yaml:"minSpread"`
	MaxSpread      float64 `yaml:"maxSpread"`
	MaxCancels     int     `yaml:"maxCancels"`
}

type LoopConfig struct {
	DelaySeconds int `yaml:"delaySeconds"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// MidPriceDecimal returns the parsed starting mid. Call after Validate.
func (c InstrumentConfig) MidPriceDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.MidPrice)
}

// QuantityDecimal returns the parsed order quantity. Call after Validate.
func (c InstrumentConfig) QuantityDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.Quantity)
}

// Load reads YAML config from path and applies basic validation.
func Load(path string) (AppConfig, error) {
	var cfg AppConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvOverrides loads config then overrides sensitive fields from
// env vars if present.
func LoadWithEnvOverrides(path string) (AppConfig, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if v := os.Getenv("BW_API_KEY"); v != "" {
		cfg.Gateway.APIKey = v
	}
	if v := os.Getenv("BW_API_SECRET"); v != "" {
		cfg.Gateway.APISecret = v
	}
	return cfg, Validate(cfg)
}

// Validate ensures required fields are present and well-formed.
func Validate(cfg AppConfig) error {
	if cfg.Env == "" {
		return errors.New("env is required")
	}
	if cfg.Gateway.BaseURL == "" {
		return errors.New("gateway.baseURL is required")
	}
	if cfg.Gateway.APIKey == "" || cfg.Gateway.APISecret == "" {
		return errors.New("gateway.apiKey/apiSecret is required (or env overrides)")
	}
	if cfg.Gateway.TimeoutSeconds <= 0 {
		return errors.New("gateway.timeoutSeconds must be > 0")
	}
	inst := cfg.Instrument
	if _, err := order.ParseInstrument(inst.ID); err != nil {
		return fmt.Errorf("instrument.id: %w", err)
	}
	mid, err := decimal.NewFromString(inst.MidPrice)
	if err != nil || !mid.IsPositive() {
		return fmt.Errorf("instrument.midPrice must be a positive decimal, got %q", inst.MidPrice)
	}
	qty, err := decimal.NewFromString(inst.Quantity)
	if err != nil || !qty.IsPositive() {
		return fmt.Errorf("instrument.quantity must be a positive decimal, got %q", inst.Quantity)
	}
	if inst.PricePrecision < 0 || inst.QtyPrecision < 0 {
		return errors.New("instrument precisions must be >= 0")
	}
	if inst.MinSpread < 0 {
		return errors.New("instrument.minSpread must be >= 0")
	}
	if inst.MaxSpread < inst.MinSpread {
		return errors.New("instrument.maxSpread must be >= minSpread")
	}
	if inst.MaxCancels < 0 {
		return errors.New("instrument.maxCancels must be >= 0")
	}
	if cfg.Loop.DelaySeconds <= 0 {
		return errors.New("loop.delaySeconds must be > 0")
	}
	return nil
}
