package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/session"
	"github.com/xy-planning-network/checkpoint/logger"
	"github.com/xy-planning-network/checkpoint/postgres"
	"gopkg.in/yaml.v3"
)

// DefaultPrefix prefixes every environment variable Load reads.
const DefaultPrefix = "CHECKPOINT"

// AdminKeyHeader carries the AdminKey on requests administering a service.
const AdminKeyHeader = "X-Admin-Key"

// Config holds every setting a checkpoint service runs with.
type Config struct {
	Env       checkpoint.Environment `envconfig:"ENVIRONMENT" default:"DEVELOPMENT" yaml:"environment"`
	Port      string                 `envconfig:"PORT" default:":8150" yaml:"port"`
	LogLevel  string                 `envconfig:"LOG_LEVEL" default:"INFO" yaml:"logLevel"`
	SentryDSN string                 `envconfig:"SENTRY_DSN" yaml:"sentryDsn"`
	Manifest  string                 `envconfig:"MANIFEST" yaml:"manifest"`

	// AdminKey, when set, enables reading and replacing the CORS allow-list
	// by requests carrying it in the AdminKeyHeader header.
	AdminKey string `envconfig:"ADMIN_KEY" yaml:"adminKey"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" yaml:"allowedOrigins"`

	Server    ServerConfig    `envconfig:"SERVER" yaml:"server"`
	RateLimit RateLimitConfig `envconfig:"RATE_LIMIT" yaml:"rateLimit"`
	Database  DatabaseConfig  `envconfig:"DATABASE" yaml:"database"`
	Redis     RedisConfig     `envconfig:"REDIS" yaml:"redis"`
	Session   SessionConfig   `envconfig:"SESSION" yaml:"session"`
}

type ServerConfig struct {
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s" yaml:"readTimeout"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"5s" yaml:"writeTimeout"`
	IdleTimeout     time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s" yaml:"idleTimeout"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s" yaml:"shutdownTimeout"`
}

type RateLimitConfig struct {
	Enabled bool    `envconfig:"ENABLED" default:"true" yaml:"enabled"`
	RPS     float64 `envconfig:"RPS" default:"5" yaml:"rps"`
	Burst   int     `envconfig:"BURST" default:"20" yaml:"burst"`
}

// DatabaseConfig locates the Postgres database API keys are stored in.
// URL replaces every other field.
type DatabaseConfig struct {
	URL      string `envconfig:"URL" yaml:"url"`
	Host     string `envconfig:"HOST" default:"localhost" yaml:"host"`
	Port     string `envconfig:"PORT" default:"5432" yaml:"port"`
	Name     string `envconfig:"NAME" yaml:"name"`
	User     string `envconfig:"USER" yaml:"user"`
	Password string `envconfig:"PASSWORD" yaml:"password"`
	SSLMode  string `envconfig:"SSLMODE" default:"prefer" yaml:"sslMode"`
}

// RedisConfig locates the Redis server, as host:port,
// sessions and cached API keys are stored in.
type RedisConfig struct {
	Addr     string        `envconfig:"ADDR" yaml:"addr"`
	Password string        `envconfig:"PASSWORD" yaml:"password"`
	CacheTTL time.Duration `envconfig:"CACHE_TTL" default:"5m" yaml:"cacheTtl"`
}

type SessionConfig struct {
	Name       string `envconfig:"NAME" default:"checkpoint" yaml:"name"`
	AuthKey    string `envconfig:"AUTH_KEY" yaml:"authKey"`
	EncryptKey string `envconfig:"ENCRYPTION_KEY" yaml:"encryptionKey"`
	MaxAge     int    `envconfig:"MAX_AGE" default:"604800" yaml:"maxAge"`
}

// A LoadOpt configures how Load reads a Config.
type LoadOpt func(*loader)

type loader struct {
	envFiles []string
	file     string
}

// WithEnvFiles sets the .env files Load reads; ".env" by default.
// Missing files are skipped.
func WithEnvFiles(files ...string) LoadOpt {
	return func(l *loader) {
		l.envFiles = files
	}
}

// WithFile sets the YAML file overlaying the environment.
// Unlike an env file, the file must exist.
func WithFile(path string) LoadOpt {
	return func(l *loader) {
		l.file = path
	}
}

// Load reads a Config from environment variables beginning with prefix.
//
// Load returns an error wrapping checkpoint.ErrBadConfig
// when a value cannot be parsed or the Config is not valid.
func Load(prefix string, opts ...LoadOpt) (Config, error) {
	l := &loader{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(l)
	}

	for _, f := range l.envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: reading %s: %s", checkpoint.ErrBadConfig, f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %s", checkpoint.ErrBadConfig, err)
	}

	if l.file != "" {
		b, err := os.ReadFile(l.file)
		if err != nil {
			return Config{}, fmt.Errorf("%w: reading %s: %s", checkpoint.ErrBadConfig, l.file, err)
		}

		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parsing %s: %s", checkpoint.ErrBadConfig, l.file, err)
		}
	}

	if err := cfg.Valid(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Valid asserts cfg can run a service.
func (cfg Config) Valid() error {
	if err := cfg.Env.Valid(); err != nil {
		return fmt.Errorf("%w: %s", checkpoint.ErrBadConfig, err)
	}

	if logger.NewLogLevel(cfg.LogLevel) == logger.LogLevelUnk {
		return fmt.Errorf("%w: unknown log level %q", checkpoint.ErrBadConfig, cfg.LogLevel)
	}

	if strings.TrimPrefix(cfg.Port, ":") == "" {
		return fmt.Errorf("%w: port cannot be empty", checkpoint.ErrBadConfig)
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.RPS <= 0 || cfg.RateLimit.Burst < 1) {
		return fmt.Errorf("%w: rate limit of %v/s with bursts of %d", checkpoint.ErrBadConfig, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	if cfg.Env.IsProduction() && cfg.Session.AuthKey == "" {
		return fmt.Errorf("%w: %s requires a session auth key", checkpoint.ErrBadConfig, cfg.Env)
	}

	return nil
}

// Addr is the address the service listens on.
func (cfg Config) Addr() string {
	if strings.HasPrefix(cfg.Port, ":") {
		return cfg.Port
	}

	return ":" + cfg.Port
}

// Level is the logger.LogLevel the service logs at.
func (cfg Config) Level() logger.LogLevel { return logger.NewLogLevel(cfg.LogLevel) }

// HasDatabase reports whether a database is configured.
func (cfg Config) HasDatabase() bool { return cfg.Database.URL != "" || cfg.Database.Name != "" }

// Postgres constructs the *postgres.CxnConfig for the configured database.
func (cfg Config) Postgres() *postgres.CxnConfig {
	if cfg.Database.URL != "" {
		return &postgres.CxnConfig{URL: cfg.Database.URL, IsTestDB: cfg.Env.IsTesting()}
	}

	return &postgres.CxnConfig{
		IsTestDB: cfg.Env.IsTesting(),
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		Name:     cfg.Database.Name,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		SSLMode:  cfg.Database.SSLMode,
	}
}

// SessionStore constructs the session.Service sessions are read from,
// storing them in Redis when configured and in cookies otherwise.
func (cfg Config) SessionStore() (session.Service, error) {
	opts := []session.ServiceOpt{session.WithMaxAge(cfg.Session.MaxAge)}
	if cfg.Redis.Addr != "" {
		opts = append(opts, session.WithRedis(cfg.Redis.Addr, cfg.Redis.Password))
	} else {
		opts = append(opts, session.WithCookie())
	}

	return session.NewStoreService(session.Config{
		Env:         cfg.Env,
		SessionName: cfg.Session.Name,
		AuthKey:     cfg.Session.AuthKey,
		EncryptKey:  cfg.Session.EncryptKey,
	}, opts...)
}
