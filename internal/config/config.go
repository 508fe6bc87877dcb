// Package config loads environment backed configuration for the console API.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all environment backed configuration for lente-console.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`
	// Optional read replica DSN routed through dbresolver when set.
	DatabaseReadURL string `env:"DATABASE_READ_URL"`

	// Agent platform
	AgentAPIBaseURL string        `env:"AGENT_API_BASE_URL" envDefault:"https://api.stack-ai.com"`
	AgentAPIKey     string        `env:"AGENT_API_KEY"`
	AgentAPITimeout time.Duration `env:"AGENT_API_TIMEOUT" envDefault:"30s"`

	// Identity provider / Auth
	AuthBaseURL         string        `env:"AUTH_BASE_URL,notEmpty"`
	AuthServiceKey      string        `env:"AUTH_SERVICE_KEY"`
	JWKSURL             string        `env:"JWKS_URL"`
	OIDCDiscoveryURL    string        `env:"OIDC_DISCOVERY_URL"`
	Issuer              string        `env:"ISSUER,notEmpty"`
	Audience            string        `env:"AUDIENCE,notEmpty"`
	RefreshJWKSInterval time.Duration `env:"JWKS_REFRESH_INTERVAL" envDefault:"5m"`
	AuthClockSkew       time.Duration `env:"AUTH_CLOCK_SKEW" envDefault:"30s"`

	// Admin bootstrap. Transitional: profiles with these emails are treated
	// as admins before their role row says so. Empty disables the allowlist.
	AdminBootstrapEmails []string `env:"ADMIN_BOOTSTRAP_EMAILS" envSeparator:","`
	AdminAllowlistFile   string   `env:"ADMIN_ALLOWLIST_FILE"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string        `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"lente-console"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"lente"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate   bool `env:"AUTO_MIGRATE" envDefault:"true"`
	EnableSwagger bool `env:"ENABLE_SWAGGER" envDefault:"true"`

	// Conversation retention. Zero disables the sweep.
	ConversationRetention   time.Duration `env:"CONVERSATION_RETENTION"`
	ConversationSweepMinute int           `env:"CONVERSATION_SWEEP_MINUTES" envDefault:"60"`
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWKSURL == "" && cfg.OIDCDiscoveryURL == "" {
		return nil, errors.New("either JWKS_URL or OIDC_DISCOVERY_URL must be provided")
	}

	if cfg.JWKSURL != "" {
		if _, err := url.ParseRequestURI(cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("invalid JWKS_URL: %w", err)
		}
	}

	if cfg.OIDCDiscoveryURL != "" {
		if _, err := url.ParseRequestURI(cfg.OIDCDiscoveryURL); err != nil {
			return nil, fmt.Errorf("invalid OIDC_DISCOVERY_URL: %w", err)
		}
	}

	if _, err := url.ParseRequestURI(cfg.AuthBaseURL); err != nil {
		return nil, fmt.Errorf("invalid AUTH_BASE_URL: %w", err)
	}

	if cfg.AgentAPIBaseURL != "" {
		if _, err := url.ParseRequestURI(cfg.AgentAPIBaseURL); err != nil {
			return nil, fmt.Errorf("invalid AGENT_API_BASE_URL: %w", err)
		}
	}

	if cfg.AdminAllowlistFile != "" {
		emails, err := loadAdminAllowlist(cfg.AdminAllowlistFile)
		if err != nil {
			return nil, fmt.Errorf("load admin allowlist: %w", err)
		}
		cfg.AdminBootstrapEmails = append(cfg.AdminBootstrapEmails, emails...)
	}
	cfg.AdminBootstrapEmails = normalizeEmails(cfg.AdminBootstrapEmails)

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	return cfg, nil
}

// ResolveJWKSURL returns the JWKS endpoint using either the explicit JWKS_URL
// or the OIDC discovery document.
func (c *Config) ResolveJWKSURL(ctx context.Context) (string, error) {
	if c.JWKSURL != "" {
		return c.JWKSURL, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.OIDCDiscoveryURL, nil)
	if err != nil {
		return "", fmt.Errorf("oidc discovery request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch oidc discovery: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oidc discovery unexpected status: %s", resp.Status)
	}

	var doc struct {
		JWKSURL string `json:"jwks_uri"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return "", fmt.Errorf("decode oidc discovery: %w", err)
	}

	if doc.JWKSURL == "" {
		return "", errors.New("jwks_uri not found in discovery document")
	}

	return doc.JWKSURL, nil
}

// IsBootstrapAdmin reports whether the email is on the transitional admin
// allowlist. Comparison is case-insensitive.
func (c *Config) IsBootstrapAdmin(email string) bool {
	if email == "" {
		return false
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for _, candidate := range c.AdminBootstrapEmails {
		if candidate == email {
			return true
		}
	}
	return false
}

type adminAllowlist struct {
	Admins []string `yaml:"admins"`
}

func loadAdminAllowlist(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc adminAllowlist
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Admins, nil
}

func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	var out []string
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		out = append(out, email)
	}
	return out
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
