package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config Application Configuration
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Kafka       KafkaConfig       `mapstructure:"kafka"`
	Reservation ReservationConfig `mapstructure:"reservation"`
	Shipping    ShippingConfig    `mapstructure:"shipping"`
	Platform    PlatformConfig    `mapstructure:"platform"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Worker      WorkerConfig      `mapstructure:"worker"`
	Log         LogConfig         `mapstructure:"log"`
	CORS        CORSConfig        `mapstructure:"cors"`
}

// AppConfig Application Configuration
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig Server Configuration
type ServerConfig struct {
	Port            string          `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig Rate Limiting Configuration
// When Redis is enabled the window counter is shared by every instance.
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Rate    float64       `mapstructure:"rate"`   // Requests per second
	Burst   int           `mapstructure:"burst"`  // Burst capacity
	Window  time.Duration `mapstructure:"window"` // Redis fixed window
}

// DatabaseConfig Database Configuration
type DatabaseConfig struct {
	Type            string        `mapstructure:"type"` // mysql, mock
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	LogLevel        string        `mapstructure:"log_level"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	TxTimeout       time.Duration `mapstructure:"tx_timeout"`
	Retry           RetryConfig   `mapstructure:"retry"`
}

// RetryConfig Retry configuration for optimistic concurrency control
type RetryConfig struct {
	Enabled                       bool          `mapstructure:"enabled"`
	MaxAttempts                   int           `mapstructure:"max_attempts"`
	InitialDelay                  time.Duration `mapstructure:"initial_delay"`
	MaxDelay                      time.Duration `mapstructure:"max_delay"`
	BackoffFactor                 float64       `mapstructure:"backoff_factor"`
	JitterEnabled                 bool          `mapstructure:"jitter_enabled"`
	RetryOnConcurrentModification bool          `mapstructure:"retry_on_concurrent_modification"`
	RetryOnDeadlock               bool          `mapstructure:"retry_on_deadlock"`
	RetryOnLockTimeout            bool          `mapstructure:"retry_on_lock_timeout"`
}

// RedisConfig Redis Configuration
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// KafkaConfig Kafka Configuration
type KafkaConfig struct {
	Enabled           bool     `mapstructure:"enabled"`
	Brokers           []string `mapstructure:"brokers"`
	EventsTopic       string   `mapstructure:"events_topic"`
	NotificationTopic string   `mapstructure:"notification_topic"`
}

// ReservationConfig Stock reservation configuration
type ReservationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// ShippingConfig Shipping rate configuration
type ShippingConfig struct {
	HubPostalCode   string        `mapstructure:"hub_postal_code"`
	ProviderURL     string        `mapstructure:"provider_url"` // empty disables the external provider
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
}

// PlatformConfig Marketplace money settings
type PlatformConfig struct {
	Currency string  `mapstructure:"currency"`
	FeeRate  float64 `mapstructure:"fee_rate"`
}

// AuthConfig Bearer token verification
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// WorkerConfig Outbox worker configuration
type WorkerConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	PollInterval  time.Duration `mapstructure:"poll_interval"`
	BatchSize     int           `mapstructure:"batch_size"`
	MaxRetries    int           `mapstructure:"max_retries"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"` // 0 disables the reservation sweep
}

// LogConfig Log Configuration
type LogConfig struct {
	Level    string `mapstructure:"level"`  // debug, info, warn, error
	Format   string `mapstructure:"format"` // json, console
	Output   string `mapstructure:"output"` // stdout, file
	FilePath string `mapstructure:"file_path"`
}

// CORSConfig CORS Configuration
type CORSConfig struct {
	AllowOrigins     []string `mapstructure:"allow_origins"`
	AllowMethods     []string `mapstructure:"allow_methods"`
	AllowHeaders     []string `mapstructure:"allow_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// IsDevelopment Whether it's development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction Whether it's production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// UsesMySQL reports whether the GORM/MySQL persistence layer is selected
func (c *Config) UsesMySQL() bool {
	return c.Database.Type == "mysql"
}

// Load Load Configuration
// A .env file in the working directory is applied to the process environment first,
// so POSI_* variables declared there override the YAML file.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Set default values
	setDefaults(v)

	// Configuration file settings
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Read environment variables
	v.SetEnvPrefix("POSI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Use default values when config file doesn't exist
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultJWTSecret development-only signing key; production configs must replace it
const DefaultJWTSecret = "change-me"

func (c *Config) validate() error {
	if c.Platform.FeeRate < 0 || c.Platform.FeeRate >= 1 {
		return fmt.Errorf("platform.fee_rate must be in [0, 1), got %v", c.Platform.FeeRate)
	}
	if c.Reservation.TTL <= 0 {
		return fmt.Errorf("reservation.ttl must be positive")
	}
	if c.Database.Type != "mysql" && c.Database.Type != "mock" {
		return fmt.Errorf("database.type must be mysql or mock, got %q", c.Database.Type)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.IsProduction() && c.Auth.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("auth.jwt_secret must be set in production")
	}
	return nil
}

// setDefaults Set default configuration
func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "posimarket")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")

	// Server
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.rate", 100)
	v.SetDefault("server.rate_limit.burst", 200)
	v.SetDefault("server.rate_limit.window", "1s")

	// Database
	v.SetDefault("database.type", "mock")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "posimarket")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.tx_timeout", "10s")

	// Retry configuration defaults
	v.SetDefault("database.retry.enabled", true)
	v.SetDefault("database.retry.max_attempts", 3)
	v.SetDefault("database.retry.initial_delay", "100ms")
	v.SetDefault("database.retry.max_delay", "2s")
	v.SetDefault("database.retry.backoff_factor", 2.0)
	v.SetDefault("database.retry.jitter_enabled", true)
	v.SetDefault("database.retry.retry_on_concurrent_modification", true)
	v.SetDefault("database.retry.retry_on_deadlock", true)
	v.SetDefault("database.retry.retry_on_lock_timeout", true)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 20)

	// Kafka
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.events_topic", "posimarket.events")
	v.SetDefault("kafka.notification_topic", "posimarket.notifications")

	// Reservation
	v.SetDefault("reservation.ttl", "15m")

	// Shipping
	v.SetDefault("shipping.hub_postal_code", "01310100")
	v.SetDefault("shipping.provider_url", "")
	v.SetDefault("shipping.provider_timeout", "2s")

	// Platform
	v.SetDefault("platform.currency", "BRL")
	v.SetDefault("platform.fee_rate", 0.10)

	// Auth
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)

	// Worker
	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.poll_interval", "2s")
	v.SetDefault("worker.batch_size", 100)
	v.SetDefault("worker.max_retries", 5)
	v.SetDefault("worker.sweep_interval", "1m")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file_path", "logs/app.log")

	// CORS
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("cors.allow_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allow_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)
}
