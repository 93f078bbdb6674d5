package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is read from the environment (after an optional .env file is loaded by main).
type Config struct {
	Port   string `env:"SERVER_PORT"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	EnableTLS       bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertPath     string `env:"TLS_CERT_PATH"`
	TLSKeyPath      string `env:"TLS_KEY_PATH"`
	TLSCertPEM      string `env:"TLS_CERT"`
	TLSKeyPEM       string `env:"TLS_KEY"`
	TLSAllowSelfSig bool   `env:"TLS_SELF_SIGNED" envDefault:"true"`

	// Empty DatabaseURL keeps every slot in memory.
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	DBMaxConnIdleTime  time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	ApplySchemaOnStart bool          `env:"APPLY_SCHEMA_ON_START" envDefault:"true"`
	SchemaPath         string        `env:"SCHEMA_PATH" envDefault:"pkg/db/schema.sql"`

	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`

	SendGridAPIKey      string `env:"SENDGRID_API_KEY"`
	SendGridSenderEmail string `env:"SENDGRID_SENDER_EMAIL"`
	SendGridSenderName  string `env:"SENDGRID_SENDER_NAME" envDefault:"assetdeck"`
	ReminderWindowDays  int    `env:"REMINDER_WINDOW_DAYS" envDefault:"7"`
}

// Load parses the environment into a Config and normalizes it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	if cfg.IsProduction() {
		cfg.EnableTLS = true
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		if cfg.EnableTLS {
			cfg.Port = "8443"
		}
	}
	cfg.CORSAllowedOrigins = cleanOrigins(cfg.CORSAllowedOrigins)
	if cfg.ReminderWindowDays <= 0 {
		cfg.ReminderWindowDays = 7
	}
	return cfg, cfg.Validate()
}

func (c Config) IsProduction() bool { return c.AppEnv == "production" }

// Validate ensures TLS settings are safe for the selected environment.
func (c Config) Validate() error {
	if c.IsProduction() && (c.TLSCertPath == "" || c.TLSKeyPath == "") {
		return fmt.Errorf("TLS_CERT_PATH and TLS_KEY_PATH are required in production")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	return nil
}

func cleanOrigins(in []string) []string {
	origins := make([]string, 0, len(in))
	for _, p := range in {
		if o := strings.TrimSpace(p); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
