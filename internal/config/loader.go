package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envAliases maps the environment variable names the original deployment
// used to their config keys. Anything not listed here goes through the
// generic SECTION_FIELD_NAME -> section.field_name transform.
var envAliases = map[string]string{
	"OUTBOUND_CALLER_NUMBER":    "twilio.from_number",
	"TELEPHONY_SERVER_BASE_URL": "telephony.base_url",
	"OPENAI_API_KEY":            "extraction.api_key",
	"AVAILABLE_TIMES_PATH":      "catalog.path",
	"EXTRACTION_PROVIDER":       "extraction.provider",
	"EXTRACTION_MODEL":          "extraction.model",
	"NATS_URL":                  "nats.url",
}

// defaults returns the hardcoded default configuration.
func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            3000,
			ShutdownTimeout: 10 * time.Second,
		},
		NATS: NATSConfig{
			URL: "nats://localhost:4222",
		},
		Extraction: ExtractionConfig{
			Provider: "openai",
			Model:    "gpt-4",
		},
		Catalog: CatalogConfig{
			Path: "available_times.txt",
		},
	}
}

// Load loads configuration from an optional YAML file, then overrides with
// environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TWILIO_ACCOUNT_SID, SERVER_PORT, ...)
//  2. YAML config file (configPath, skipped when empty or missing)
//  3. Hardcoded defaults
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err == nil {
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", configPath, err)
			}
		}
	}

	// Override with environment variables.
	// Example: TWILIO_ACCOUNT_SID -> twilio.account_sid
	if err := k.Load(env.Provider("", ".", func(s string) string {
		if key, ok := envAliases[s]; ok {
			return key
		}
		lower := strings.ToLower(s)
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
