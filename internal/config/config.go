package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/rentflow/rentflow/internal/types"
)

// Configuration is the root application configuration, loaded from
// config files and RENTFLOW_* environment variables.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Billing    BillingConfig    `mapstructure:"billing"`
	Leases     LeaseConfig      `mapstructure:"leases"`
	Email      EmailConfig      `mapstructure:"email"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

type PostgresConfig struct {
	Host                  string `mapstructure:"host"`
	Port                  int    `mapstructure:"port"`
	User                  string `mapstructure:"user"`
	Password              string `mapstructure:"password"`
	DBName                string `mapstructure:"dbname"`
	SSLMode               string `mapstructure:"sslmode"`
	MaxOpenConns          int    `mapstructure:"max_open_conns"`
	MaxIdleConns          int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinute int    `mapstructure:"conn_max_lifetime_minute"`
	AutoMigrate           bool   `mapstructure:"auto_migrate"`
}

// DSN builds the postgres connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

type SchedulerConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	BackoffInterval time.Duration `mapstructure:"backoff_interval"`
}

// BillingConfig controls invoice generation and number formatting.
type BillingConfig struct {
	InvoiceNumberPrefix    string `mapstructure:"invoice_number_prefix" validate:"required"`
	LeaseNumberPrefix      string `mapstructure:"lease_number_prefix" validate:"required"`
	NumberSeparator        string `mapstructure:"number_separator"`
	NumberSuffixLength     int    `mapstructure:"number_suffix_length" validate:"min=3,max=10"`
	BlockPaymentsOnDispute bool   `mapstructure:"block_payments_on_dispute"`
}

// LeaseConfig controls lease lifecycle policy knobs.
type LeaseConfig struct {
	RenewalWindowDays       int `mapstructure:"renewal_window_days" validate:"min=1"`
	MinTerminationReasonLen int `mapstructure:"min_termination_reason_len" validate:"min=1"`
}

type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	APIKey      string `mapstructure:"api_key"`
	FromAddress string `mapstructure:"from_address"`
}

// NewConfig loads configuration from ./config.yaml (optional), .env (optional)
// and environment variables.
func NewConfig() (*Configuration, error) {
	// .env is optional; environment wins either way.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("RENTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "local")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "rentflow")
	v.SetDefault("postgres.dbname", "rentflow")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime_minute", 60)
	v.SetDefault("postgres.auto_migrate", false)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.backoff_interval", time.Hour)
	v.SetDefault("billing.invoice_number_prefix", "INV")
	v.SetDefault("billing.lease_number_prefix", "LSE")
	v.SetDefault("billing.number_separator", "-")
	v.SetDefault("billing.number_suffix_length", 5)
	v.SetDefault("billing.block_payments_on_dispute", true)
	v.SetDefault("leases.renewal_window_days", 60)
	v.SetDefault("leases.min_termination_reason_len", 10)
	v.SetDefault("email.enabled", false)
	v.SetDefault("email.from_address", "billing@rentflow.io")
}

// Validate validates the loaded configuration.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}

// GetDefaultConfig returns a configuration suitable for tests and scripts.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "test"},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Scheduler: SchedulerConfig{
			Enabled:         true,
			BackoffInterval: time.Hour,
		},
		Billing: BillingConfig{
			InvoiceNumberPrefix:    "INV",
			LeaseNumberPrefix:      "LSE",
			NumberSeparator:        "-",
			NumberSuffixLength:     5,
			BlockPaymentsOnDispute: true,
		},
		Leases: LeaseConfig{
			RenewalWindowDays:       60,
			MinTerminationReasonLen: 10,
		},
		Email: EmailConfig{
			Enabled:     false,
			FromAddress: "billing@rentflow.io",
		},
	}
}
