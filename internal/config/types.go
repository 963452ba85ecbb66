// Package config provides configuration loading for hospitalcalld.
package config

import (
	"fmt"
	"time"
)

// Secret wraps strings that should be redacted in logs and serialization.
// Use Value() to access the actual secret value.
type Secret string

// String implements fmt.Stringer. Always returns a redacted value.
func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "Secret([REDACTED])"
}

// Value returns the actual secret value. Use sparingly.
func (s Secret) Value() string {
	return string(s)
}

// Config is the full daemon configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	NATS       NATSConfig       `koanf:"nats"`
	Twilio     TwilioConfig     `koanf:"twilio"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Telephony  TelephonyConfig  `koanf:"telephony"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// NATSConfig configures the event bus connection.
type NATSConfig struct {
	URL string `koanf:"url"`
}

// TwilioConfig configures the SMS provider.
type TwilioConfig struct {
	AccountSID string `koanf:"account_sid"`
	AuthToken  Secret `koanf:"auth_token"`
	FromNumber string `koanf:"from_number"`
	BaseURL    string `koanf:"base_url"`
}

// ExtractionConfig configures the transcript extractor.
type ExtractionConfig struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   Secret `koanf:"api_key"`
	BaseURL  string `koanf:"base_url"`
}

// CatalogConfig configures the slot catalog source.
type CatalogConfig struct {
	Path string `koanf:"path"`
}

// TelephonyConfig configures the webhook surface.
type TelephonyConfig struct {
	// BaseURL is the externally visible host the telephony provider
	// calls back to.
	BaseURL string `koanf:"base_url"`
}

// Validate checks the configuration. Credentials are validated by presence
// only; their format is the provider's problem.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be 1-65535, got %d", c.Server.Port)
	}
	if c.Twilio.AccountSID == "" {
		return fmt.Errorf("twilio account SID required (TWILIO_ACCOUNT_SID)")
	}
	if c.Twilio.AuthToken == "" {
		return fmt.Errorf("twilio auth token required (TWILIO_AUTH_TOKEN)")
	}
	if c.Twilio.FromNumber == "" {
		return fmt.Errorf("outbound caller number required (OUTBOUND_CALLER_NUMBER)")
	}
	if c.Telephony.BaseURL == "" {
		return fmt.Errorf("telephony base URL required (TELEPHONY_SERVER_BASE_URL)")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog path required (AVAILABLE_TIMES_PATH)")
	}
	if c.Extraction.Provider == "openai" && c.Extraction.APIKey == "" {
		return fmt.Errorf("openai API key required for openai extraction (OPENAI_API_KEY)")
	}
	return nil
}
