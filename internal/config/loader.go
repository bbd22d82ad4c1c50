package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables read outside the prefixed namespace.
const (
	envPrefix    = "SITEFN_"
	envFile      = "SITEFN_CONFIG"
	envFromEmail = "FROM_EMAIL"
	envToEmail   = "TO_EMAIL"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SITEFN_CONFIG is set
//  3. env (prefix SITEFN_)
//
// FROM_EMAIL and TO_EMAIL fill the sender and recipient when still empty.
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// SITEFN_COUNTER_BACKEND -> counter_backend (flat keys)
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.FromEmail == "" {
		cfg.FromEmail = os.Getenv(envFromEmail)
	}
	if cfg.ToEmail == "" {
		cfg.ToEmail = os.Getenv(envToEmail)
	}

	cfg.MailBackend = strings.ToLower(strings.TrimSpace(cfg.MailBackend))
	cfg.CounterBackend = strings.ToLower(strings.TrimSpace(cfg.CounterBackend))
	return &cfg, nil
}

// ValidateContact checks the values the contact relay needs.
func (c *Config) ValidateContact() error {
	switch c.MailBackend {
	case MailSES, MailLog:
	default:
		return fmt.Errorf("%w: unknown mail_backend %q", ErrInvalidConfig, c.MailBackend)
	}
	if strings.TrimSpace(c.FromEmail) == "" {
		return fmt.Errorf("%w: from_email must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.ToEmail) == "" {
		return fmt.Errorf("%w: to_email must not be empty", ErrInvalidConfig)
	}
	return nil
}

// ValidateCounter checks the values the visitor counter needs.
func (c *Config) ValidateCounter() error {
	origin := strings.TrimSpace(c.AllowedOrigin)
	switch {
	case origin == "":
		return fmt.Errorf("%w: allowed_origin must not be empty", ErrInvalidConfig)
	case origin == "*":
		return fmt.Errorf("%w: allowed_origin must name a single origin, not *", ErrInvalidConfig)
	case strings.TrimSpace(c.CounterKey) == "":
		return fmt.Errorf("%w: counter_key must not be empty", ErrInvalidConfig)
	}

	switch c.CounterBackend {
	case CounterDynamoDB, CounterMongo, CounterDatastore:
		if strings.TrimSpace(c.CounterTable) == "" {
			return fmt.Errorf("%w: counter_table must not be empty", ErrInvalidConfig)
		}
	case CounterRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("%w: redis_addr must not be empty", ErrInvalidConfig)
		}
	case CounterMemory:
	default:
		return fmt.Errorf("%w: unknown counter_backend %q", ErrInvalidConfig, c.CounterBackend)
	}
	if c.CounterBackend == CounterDatastore && strings.TrimSpace(c.GCPProject) == "" {
		return fmt.Errorf("%w: gcp_project must not be empty for datastore", ErrInvalidConfig)
	}
	return nil
}

// Validate checks everything; used by binaries that run both handlers.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.ValidateContact(); err != nil {
		return err
	}
	return c.ValidateCounter()
}
