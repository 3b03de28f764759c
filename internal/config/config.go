package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CLINIC_SERVER_PORT.
const EnvPrefix = "CLINIC"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Backend   BackendConfig   `mapstructure:"backend"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Clinic    ClinicConfig    `mapstructure:"clinic"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Log       LogConfig       `mapstructure:"log"`
	Report    ReportConfig    `mapstructure:"report"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Events    EventsConfig    `mapstructure:"events"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
	// ShutdownSeconds bounds graceful shutdown.
	ShutdownSeconds int `mapstructure:"shutdownSeconds"`
}

type BackendConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	// Breaker trips after this many consecutive failures.
	BreakerFailures    uint32 `mapstructure:"breaker_failures"`
	BreakerOpenSeconds int    `mapstructure:"breaker_open_seconds"`
	DoctorCacheSeconds int    `mapstructure:"doctor_cache_seconds"`
	// ServiceToken authenticates the worker's read-only calls.
	ServiceToken string `mapstructure:"service_token"`
}

type SessionConfig struct {
	// Store is "memory" or "redis".
	Store       string `mapstructure:"store"`
	JWTSecret   string `mapstructure:"jwt_secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	// EncryptionKey seals sessions kept in redis. Empty stores them in clear.
	EncryptionKey string `mapstructure:"encryption_key"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	MaxRetries   int    `mapstructure:"max_retries"`
	KeyPrefix    string `mapstructure:"key_prefix"`
}

type ClinicConfig struct {
	// Name heads the daily report.
	Name        string `mapstructure:"name"`
	Timezone    string `mapstructure:"timezone"`
	BookingDays int    `mapstructure:"booking_days"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

type ReportConfig struct {
	// SendAt is the local HH:MM the worker mails the daily report.
	SendAt     string   `mapstructure:"send_at"`
	Recipients []string `mapstructure:"recipients"`
	OutputDir  string   `mapstructure:"output_dir"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type EventsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
}

// secrets are read with envconfig after the file so they never have to live in config.yaml.
type secrets struct {
	JWTSecret    string `envconfig:"JWT_SECRET"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	RedisURL     string `envconfig:"REDIS_URL"`
	BackendURL   string `envconfig:"BACKEND_URL"`
	ServiceToken string `envconfig:"SERVICE_TOKEN"`
	SessionKey   string `envconfig:"SESSION_KEY"`
}

// LoadConfig reads .env, then config.yaml from . or ./config, then the environment.
func LoadConfig() (*Config, error) {
	return load("")
}

// LoadFile is LoadConfig with an explicit config file.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var s secrets
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}
	config.applySecrets(s)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeoutSeconds", 30)
	v.SetDefault("server.shutdownSeconds", 10)

	v.SetDefault("backend.timeout_seconds", 10)
	v.SetDefault("backend.breaker_failures", 5)
	v.SetDefault("backend.breaker_open_seconds", 30)
	v.SetDefault("backend.doctor_cache_seconds", 30)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.issuer", "clinic-dashboard")
	v.SetDefault("session.expiry_hours", 24)

	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.max_retries", 3)
	v.SetDefault("redis.key_prefix", "clinic:")

	v.SetDefault("clinic.name", "Clinic")
	v.SetDefault("clinic.timezone", "Asia/Kolkata")
	v.SetDefault("clinic.booking_days", 10)

	v.SetDefault("rate_limit.requests_per_second", 20)
	v.SetDefault("rate_limit.burst", 40)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("log.level", "info")

	v.SetDefault("report.send_at", "20:00")
	v.SetDefault("report.output_dir", "reports")

	v.SetDefault("smtp.port", 587)

	v.SetDefault("events.channel", "clinic.events")
}

func (c *Config) applySecrets(s secrets) {
	if s.JWTSecret != "" {
		c.Session.JWTSecret = s.JWTSecret
	}
	if s.SMTPPassword != "" {
		c.SMTP.Password = s.SMTPPassword
	}
	if s.RedisURL != "" {
		c.Redis.URL = s.RedisURL
	}
	if s.BackendURL != "" {
		c.Backend.BaseURL = s.BackendURL
	}
	if s.ServiceToken != "" {
		c.Backend.ServiceToken = s.ServiceToken
	}
	if s.SessionKey != "" {
		c.Session.EncryptionKey = s.SessionKey
	}
}

// Validate checks the settings every binary needs.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.New("backend.base_url is required")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Clinic.BookingDays < 1 {
		return fmt.Errorf("clinic.booking_days must be positive, got %d", c.Clinic.BookingDays)
	}
	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis session store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	if c.Events.Enabled && c.Redis.URL == "" {
		return errors.New("redis.url is required when events are enabled")
	}
	if _, err := time.Parse("15:04", c.Report.SendAt); err != nil {
		return fmt.Errorf("report.send_at must be HH:MM: %w", err)
	}
	return nil
}

// Location is the clinic's reference zone for "today" and booking dates.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid clinic.timezone %q: %w", c.Clinic.Timezone, err)
	}
	return loc, nil
}

func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.ExpiryHours) * time.Hour
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
