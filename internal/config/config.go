package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates runtime configuration for the MentorIA web front-end and auth API.
type Config struct {
	Web      ServerConfig `envPrefix:"MENTORIA_WEB_"`
	API      ServerConfig `envPrefix:"MENTORIA_API_"`
	Upstream UpstreamConfig
	Cookies  CookieConfig
	Postgres PostgresConfig
	Assets   AssetsConfig
	Auth     AuthConfig
	CORS     CORSConfig
	Metrics  MetricsConfig
	Log      LogConfig
}

// ServerConfig parameterizes an HTTP server.
type ServerConfig struct {
	Host         string        `env:"HOST"`
	Port         int           `env:"PORT"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT"`
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig locates the REST auth API used by the front-end.
type UpstreamConfig struct {
	BaseURL string        `env:"MENTORIA_API_BASE_URL"`
	Timeout time.Duration `env:"MENTORIA_API_CLIENT_TIMEOUT"`
}

// CookieConfig controls how tokens are persisted in the browser.
type CookieConfig struct {
	Secure bool          `env:"MENTORIA_COOKIE_SECURE"`
	Domain string        `env:"MENTORIA_COOKIE_DOMAIN"`
	MaxAge time.Duration `env:"MENTORIA_COOKIE_MAX_AGE"`
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST"`
	Port     int    `env:"POSTGRES_PORT"`
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Database string `env:"POSTGRES_DB"`
	SSLMode  string `env:"POSTGRES_SSL_MODE"`
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, strings.ToLower(p.SSLMode))
}

// AssetsConfig optionally points static assets at a MinIO bucket.
type AssetsConfig struct {
	Endpoint        string `env:"MENTORIA_ASSETS_MINIO_ENDPOINT"`
	AccessKeyID     string `env:"MENTORIA_ASSETS_MINIO_ACCESS_KEY"`
	SecretAccessKey string `env:"MENTORIA_ASSETS_MINIO_SECRET_KEY"`
	Bucket          string `env:"MENTORIA_ASSETS_MINIO_BUCKET"`
	Prefix          string `env:"MENTORIA_ASSETS_MINIO_PREFIX"`
	UseSSL          bool   `env:"MENTORIA_ASSETS_MINIO_USE_SSL"`
	Region          string `env:"MENTORIA_ASSETS_MINIO_REGION"`
}

// Enabled reports whether assets should be read from MinIO instead of the binary.
func (a AssetsConfig) Enabled() bool {
	return strings.TrimSpace(a.Endpoint) != "" && strings.TrimSpace(a.Bucket) != ""
}

// AuthConfig groups token and password settings of the auth API.
type AuthConfig struct {
	AccessTokenSecret  string        `env:"MENTORIA_JWT_SECRET"`
	RefreshTokenSecret string        `env:"MENTORIA_JWT_REFRESH_SECRET"`
	AccessTokenTTL     time.Duration `env:"MENTORIA_AUTH_ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `env:"MENTORIA_AUTH_REFRESH_TOKEN_TTL"`
	BcryptCost         int           `env:"MENTORIA_AUTH_BCRYPT_COST"`
}

// CORSConfig lists browser origins allowed to call the auth API directly.
type CORSConfig struct {
	AllowedOrigins []string `env:"MENTORIA_CORS_ORIGINS" envSeparator:","`
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string `env:"MENTORIA_METRICS_PATH"`
}

// LogConfig selects the zap level: debug, info, warn, error.
type LogConfig struct {
	Level string `env:"LOG_LEVEL"`
}

// Load reads configuration values from environment variables over the defaults.
func Load() (Config, error) {
	cfg := Defaults()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		cfg.Auth.BcryptCost = 12
	}
	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if cfg.Upstream.BaseURL == "" {
		return Config{}, fmt.Errorf("MENTORIA_API_BASE_URL must not be empty")
	}

	return cfg, nil
}

// Defaults returns the configuration used when no variable is set.
func Defaults() Config {
	return Config{
		Web: ServerConfig{
			Host:         "0.0.0.0",
			Port:         3000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		API: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Cookies: CookieConfig{
			MaxAge: 30 * 24 * time.Hour,
		},
		Postgres: PostgresConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "mentoria",
			Password: "change-me",
			Database: "mentoria",
			SSLMode:  "disable",
		},
		Auth: AuthConfig{
			AccessTokenSecret:  "change-me-to-a-32-byte-secret",
			RefreshTokenSecret: "change-me-to-a-64-byte-secret",
			AccessTokenTTL:     60 * time.Minute,
			RefreshTokenTTL:    7 * 24 * time.Hour,
			BcryptCost:         12,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Metrics: MetricsConfig{
			PrometheusPath: "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
