package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/wekeepgrowing/charge-orchestrator/pkg/config"
	"github.com/wekeepgrowing/charge-orchestrator/pkg/logger"
)

const serviceName = "charge"

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Store     StoreConfig     `mapstructure:"store"`
	Stripe    StripeConfig    `mapstructure:"stripe"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
	Log       logger.Config   `mapstructure:"log"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// LoadConfig reads configs/charge.yaml (or CONFIG_PATH) with CHARGE_*
// environment overrides and validates the result.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := pkgconfig.Load(serviceName, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every deployment needs.
func (c *Config) Validate() error {
	if c.Store.Currency == "" {
		return fmt.Errorf("store.currency is required")
	}
	if c.Stripe.SecretKey() == "" {
		return fmt.Errorf("stripe secret key for %s mode is not configured", c.Stripe.Mode())
	}
	return nil
}

// StoreConfig describes the storefront the charges are made for.
type StoreConfig struct {
	Name string `mapstructure:"name"`
	// Currency is the store's ISO currency; it is lowercased before use.
	Currency string `mapstructure:"currency"`
	// DescriptionTemplate accepts {{store}}, {{order_id}} and {{kind}}.
	DescriptionTemplate string `mapstructure:"description_template"`
}

// ChargeCurrency returns the currency as sent to the processor.
func (s StoreConfig) ChargeCurrency() string {
	return strings.ToLower(s.Currency)
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Spec is a six-field cron expression (seconds first).
	Spec      string `mapstructure:"spec"`
	BatchSize int    `mapstructure:"batch_size"`
	// Timeout bounds a single run; defaults to four minutes.
	Timeout time.Duration `mapstructure:"timeout"`
}
