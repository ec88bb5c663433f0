package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/MoisesNEY/hotel-management-system-sub000/utils"
)

type DatabaseConfig struct {
	Driver string // mysql | postgres
	DSN    string
	Name   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

func (c TwilioConfig) Enabled() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.From != ""
}

type InvoiceConfig struct {
	TaxRate       decimal.Decimal
	ChargeTaxRate decimal.Decimal
	Currency      string
}

type Config struct {
	Port        string
	ServiceName string
	CORSOrigins string

	Database DatabaseConfig
	Redis    RedisConfig
	SMTP     utils.SMTPConfig
	Twilio   TwilioConfig
	Invoice  InvoiceConfig

	LockTimeout         time.Duration
	NotifyRetrySchedule string

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	db, err := resolveDatabase(env)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        env("PORT", "8080"),
		ServiceName: env("SERVICE_NAME", "hotel-backend"),
		CORSOrigins: env("CORS_ORIGINS", ""),
		Database:    db,
		Redis: RedisConfig{
			Addr:     env("REDIS_ADDR", ""),
			Password: env("REDIS_PASSWORD", ""),
		},
		SMTP: utils.SMTPConfig{
			Host:     env("SMTP_HOST", ""),
			Port:     env("SMTP_PORT", ""),
			Username: env("SMTP_USERNAME", ""),
			Password: env("SMTP_PASSWORD", ""),
			FromName: env("SMTP_FROM_NAME", "Hotel"),
		},
		Twilio: TwilioConfig{
			AccountSID: env("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  env("TWILIO_AUTH_TOKEN", ""),
			From:       env("TWILIO_PHONE_NUMBER", ""),
		},
		NotifyRetrySchedule: env("NOTIFY_RETRY_SCHEDULE", "@every 5m"),
		LogLevel:            env("LOG_LEVEL", "info"),
		LogFormat:           env("LOG_FORMAT", "json"),
	}

	if _, err := fmt.Sscanf(env("REDIS_DB", "0"), "%d", &cfg.Redis.DB); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}

	if cfg.Invoice.TaxRate, err = rate(env("INVOICE_TAX_RATE", "0.15")); err != nil {
		return nil, fmt.Errorf("INVOICE_TAX_RATE: %w", err)
	}
	if cfg.Invoice.ChargeTaxRate, err = rate(env("INVOICE_CHARGE_TAX_RATE", "0")); err != nil {
		return nil, fmt.Errorf("INVOICE_CHARGE_TAX_RATE: %w", err)
	}
	cfg.Invoice.Currency = strings.ToUpper(env("INVOICE_CURRENCY", "USD"))
	if len(cfg.Invoice.Currency) != 3 {
		return nil, fmt.Errorf("INVOICE_CURRENCY: %q is not a 3-letter code", cfg.Invoice.Currency)
	}

	if cfg.LockTimeout, err = time.ParseDuration(env("LOCK_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("LOCK_TIMEOUT: %w", err)
	}
	return cfg, nil
}

func rate(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("rate %s must be between 0 and 1", s)
	}
	return d, nil
}
