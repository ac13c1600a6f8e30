package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	WebhookSecret string `yaml:"webhook_secret"`
}

// DatabaseConfig contains PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid delivery settings.
type EmailConfig struct {
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig contains engine tunables. Operator-adjustable values
// (platform fee, mileage defaults) may additionally be overridden at runtime
// through the settings table; these are the fallback defaults.
type BookingConfig struct {
	Currency                string `yaml:"currency"`
	TurnaroundBufferHours   int    `yaml:"turnaround_buffer_hours"`
	PlatformFeeBps          int64  `yaml:"platform_fee_bps"`
	DefaultDriverRateCents  int64  `yaml:"default_driver_rate_cents"`
	DefaultIncludedKmPerDay int64  `yaml:"default_included_km_per_day"`
	DefaultExcessKmCents    int64  `yaml:"default_excess_km_cents"`
	// AdjustmentThresholdCents is the minimum absolute proration delta that
	// produces an adjustment transaction.
	AdjustmentThresholdCents int64 `yaml:"adjustment_threshold_cents"`
	ReminderLeadHours        int   `yaml:"reminder_lead_hours"`
	NoShowAfterHours         int   `yaml:"no_show_after_hours"`
	DepositRefundDueDays     int   `yaml:"deposit_refund_due_days"`
}

// SchedulerConfig contains cron schedule settings.
type SchedulerConfig struct {
	DispatchDueJobs        string `yaml:"dispatch_due_jobs"`
	MarkNoShowBookings     string `yaml:"mark_no_show_bookings"`
	SendOverdueReturnNotes string `yaml:"send_overdue_return_notes"`
}

// Load reads configuration from a YAML file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables.
func (c *Config) overrideWithEnv() {
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

	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.From = val
	}

	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}
	if val := os.Getenv("WEBHOOK_SECRET"); val != "" {
		c.Server.WebhookSecret = val
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.Server.WebhookSecret == "" {
		return fmt.Errorf("webhook secret is required")
	}

	// Booking defaults
	if c.Booking.Currency == "" {
		c.Booking.Currency = "GHS"
	}
	if c.Booking.TurnaroundBufferHours == 0 {
		c.Booking.TurnaroundBufferHours = 4
	}
	if c.Booking.PlatformFeeBps == 0 {
		c.Booking.PlatformFeeBps = 1500 // 15%
	}
	if c.Booking.DefaultDriverRateCents == 0 {
		c.Booking.DefaultDriverRateCents = 15000
	}
	if c.Booking.DefaultIncludedKmPerDay == 0 {
		c.Booking.DefaultIncludedKmPerDay = 250
	}
	if c.Booking.DefaultExcessKmCents == 0 {
		c.Booking.DefaultExcessKmCents = 150
	}
	if c.Booking.AdjustmentThresholdCents == 0 {
		c.Booking.AdjustmentThresholdCents = 1 // 0.01 currency units
	}
	if c.Booking.ReminderLeadHours == 0 {
		c.Booking.ReminderLeadHours = 24
	}
	if c.Booking.NoShowAfterHours == 0 {
		c.Booking.NoShowAfterHours = 24
	}
	if c.Booking.DepositRefundDueDays == 0 {
		c.Booking.DepositRefundDueDays = 7
	}

	// Scheduler defaults
	if c.Scheduler.DispatchDueJobs == "" {
		c.Scheduler.DispatchDueJobs = "0 */5 * * * *" // every 5 minutes
	}
	if c.Scheduler.MarkNoShowBookings == "" {
		c.Scheduler.MarkNoShowBookings = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.SendOverdueReturnNotes == "" {
		c.Scheduler.SendOverdueReturnNotes = "0 0 3 * * *" // 3 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string.
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

// GetServerAddress returns the HTTP server address.
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
