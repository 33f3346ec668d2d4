package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Tokens    TokenConfig     `yaml:"tokens"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Log       LogConfig       `yaml:"log"`
	Operators OperatorsConfig `yaml:"operators"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// PublicBaseURL is the externally reachable base used when composing
	// public submission links and approval links embedded in emails.
	PublicBaseURL string `yaml:"public_base_url"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// TokenConfig contains secrets and lifetimes for the two token kinds
type TokenConfig struct {
	SigningSecret           string `yaml:"signing_secret"`
	ApprovalValidityMinutes int    `yaml:"approval_validity_minutes"`
	PublicLinkExpiryHours   int    `yaml:"public_link_expiry_hours"`
}

// SweepConfig contains the trigger credential and cron schedules
type SweepConfig struct {
	BearerSecret              string `yaml:"bearer_secret"`
	ExpireStaleLinks          string `yaml:"expire_stale_links"`
	RemindPendingRequests     string `yaml:"remind_pending_requests"`
	EscalateUnresolvedEvents  string `yaml:"escalate_unresolved_events"`
	PendingReminderAfterHours int    `yaml:"pending_reminder_after_hours"`
}

// OperatorsConfig contains the internal team's notification targets
type OperatorsConfig struct {
	InboxEmail string `yaml:"inbox_email"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	// Secrets
	if val := os.Getenv("TOKEN_SIGNING_SECRET"); val != "" {
		c.Tokens.SigningSecret = val
	}
	if val := os.Getenv("SWEEP_BEARER_SECRET"); val != "" {
		c.Sweep.BearerSecret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("PUBLIC_BASE_URL"); val != "" {
		c.Server.PublicBaseURL = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.PublicBaseURL == "" {
		return fmt.Errorf("public base URL is required")
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Email validation
	if c.Email.APIKey == "" {
		return fmt.Errorf("SendGrid API key is required")
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}

	// Token validation
	if c.Tokens.SigningSecret == "" {
		return fmt.Errorf("token signing secret is required")
	}
	if len(c.Tokens.SigningSecret) < 32 {
		return fmt.Errorf("token signing secret must be at least 32 characters")
	}
	if c.Sweep.BearerSecret == "" {
		return fmt.Errorf("sweep bearer secret is required")
	}

	// Token lifetime defaults
	if c.Tokens.ApprovalValidityMinutes == 0 {
		c.Tokens.ApprovalValidityMinutes = 72 * 60 // 3 days
	}
	if c.Tokens.PublicLinkExpiryHours == 0 {
		c.Tokens.PublicLinkExpiryHours = 14 * 24 // 2 weeks
	}

	// Sweep defaults
	if c.Sweep.ExpireStaleLinks == "" {
		c.Sweep.ExpireStaleLinks = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Sweep.RemindPendingRequests == "" {
		c.Sweep.RemindPendingRequests = "0 0 9 * * *" // 9 AM UTC
	}
	if c.Sweep.EscalateUnresolvedEvents == "" {
		c.Sweep.EscalateUnresolvedEvents = "0 30 9 * * *" // 9:30 AM UTC
	}
	if c.Sweep.PendingReminderAfterHours == 0 {
		c.Sweep.PendingReminderAfterHours = 48
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
