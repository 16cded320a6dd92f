package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	ClientURL   string `mapstructure:"client_url"`
	// RenewalToken guards the internal renewal trigger endpoint.
	RenewalToken string `mapstructure:"renewal_token"`
	// EncryptionKey is a 64 hex character AES-256 key for stored wallets.
	EncryptionKey string `mapstructure:"encryption_key"`
}

// StripeConfig holds both key pairs; TestMode selects which one is used.
type StripeConfig struct {
	TestMode      bool          `mapstructure:"test_mode"`
	TestSecretKey string        `mapstructure:"test_secret_key"`
	LiveSecretKey string        `mapstructure:"live_secret_key"`
	APIURL        string        `mapstructure:"api_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetries    int64         `mapstructure:"max_retries"`
}

func (c StripeConfig) SecretKey() string {
	if c.TestMode {
		return c.TestSecretKey
	}
	return c.LiveSecretKey
}

// Mode is "test" or "live". Customer records are kept per mode since
// processor customer ids do not carry over between them.
func (c StripeConfig) Mode() string {
	if c.TestMode {
		return "test"
	}
	return "live"
}
