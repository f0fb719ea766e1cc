package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for the storefront service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Fetcher FetcherConfig `mapstructure:"fetcher" yaml:"fetcher"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Cart    CartConfig    `mapstructure:"cart"    yaml:"cart"`
	Auth    AuthConfig    `mapstructure:"auth"    yaml:"auth"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             yaml:"port"`
	CORSOrigin      string        `mapstructure:"cors_origin"      yaml:"cors_origin"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"    yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// FetcherConfig controls the remote document fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"` // http or browser
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
}

// StorageConfig selects and configures the catalog/settings store.
type StorageConfig struct {
	Type          string `mapstructure:"type"           yaml:"type"` // memory, file, mongodb, postgres
	Path          string `mapstructure:"path"           yaml:"path"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
	PostgresDSN   string `mapstructure:"postgres_dsn"   yaml:"postgres_dsn"`
}

// CartConfig selects and configures the session cart store.
type CartConfig struct {
	Store         string        `mapstructure:"store"          yaml:"store"` // memory or redis
	RedisAddr     string        `mapstructure:"redis_addr"     yaml:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"       yaml:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"            yaml:"ttl"`
}

// AuthConfig controls the admin password gate.
type AuthConfig struct {
	// PasswordHash overrides the default admin password hash. Empty means
	// the built-in default (the hash of "admin123").
	PasswordHash string        `mapstructure:"password_hash" yaml:"password_hash"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"     yaml:"token_ttl"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the Prometheus metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			CORSOrigin:      "*",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  15 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    100,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36",
			},
		},
		Storage: StorageConfig{
			Type:          "file",
			Path:          "./data",
			MongoDatabase: "storefront",
		},
		Cart: CartConfig{
			Store:     "memory",
			RedisAddr: "localhost:6379",
			TTL:       72 * time.Hour,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
	}
}
