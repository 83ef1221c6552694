package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultJWTSecret is the development-only signing secret
const DefaultJWTSecret = "change-me-in-production"

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server" toml:"server" json:"server"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database" toml:"database" json:"database"`
	Auth     AuthConfig     `mapstructure:"auth" yaml:"auth" toml:"auth" json:"auth"`
	Log      LogConfig      `mapstructure:"log" yaml:"log" toml:"log" json:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `mapstructure:"port" yaml:"port" toml:"port" json:"port"`
	Mode        string   `mapstructure:"mode" yaml:"mode" toml:"mode" json:"mode"` // "development" or "production"
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins" toml:"cors_origins" json:"cors_origins"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver" toml:"driver" json:"driver"`                                        // "sqlite" or "postgres"
	DSN             string `mapstructure:"dsn" yaml:"dsn" toml:"dsn" json:"dsn"`                                                    // Connection string
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns" toml:"max_idle_conns" json:"max_idle_conns"`        // Postgres only
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns" toml:"max_open_conns" json:"max_open_conns"`        // Postgres only
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime" toml:"conn_max_lifetime" json:"conn_max_lifetime"` // minutes
	LogLevel        string `mapstructure:"log_level" yaml:"log_level" toml:"log_level" json:"log_level"`                            // defaults to log.level
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       string          `mapstructure:"jwt_secret" yaml:"jwt_secret" toml:"jwt_secret" json:"jwt_secret"`
	Issuer          string          `mapstructure:"issuer" yaml:"issuer" toml:"issuer" json:"issuer"`
	AccessTokenTTL  time.Duration   `mapstructure:"access_token_ttl" yaml:"access_token_ttl" toml:"access_token_ttl" json:"access_token_ttl"`
	RefreshTokenTTL time.Duration   `mapstructure:"refresh_token_ttl" yaml:"refresh_token_ttl" toml:"refresh_token_ttl" json:"refresh_token_ttl"`
	Blacklist       BlacklistConfig `mapstructure:"blacklist" yaml:"blacklist" toml:"blacklist" json:"blacklist"`
	OIDC            OIDCConfig      `mapstructure:"oidc" yaml:"oidc" toml:"oidc" json:"oidc"`
}

// BlacklistConfig selects where revoked refresh tokens are kept
type BlacklistConfig struct {
	Type          string        `mapstructure:"type" yaml:"type" toml:"type" json:"type"` // "database", "valkey" or "memory"
	ValkeyAddr    string        `mapstructure:"valkey_addr" yaml:"valkey_addr" toml:"valkey_addr" json:"valkey_addr"`
	PurgeInterval time.Duration `mapstructure:"purge_interval" yaml:"purge_interval" toml:"purge_interval" json:"purge_interval"`
}

// OIDCConfig holds the optional single sign-on provider settings
type OIDCConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled" toml:"enabled" json:"enabled"`
	IssuerURL    string   `mapstructure:"issuer_url" yaml:"issuer_url" toml:"issuer_url" json:"issuer_url"`
	ClientID     string   `mapstructure:"client_id" yaml:"client_id" toml:"client_id" json:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" yaml:"client_secret" toml:"client_secret" json:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url" yaml:"redirect_url" toml:"redirect_url" json:"redirect_url"`
	Scopes       []string `mapstructure:"scopes" yaml:"scopes" toml:"scopes" json:"scopes"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Format string `mapstructure:"format" yaml:"format" toml:"format" json:"format"` // "json" or "text"
	Level  string `mapstructure:"level" yaml:"level" toml:"level" json:"level"`     // "debug", "info", "warn", "error"
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read from config file if exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/depotdesk/")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override
	v.SetEnvPrefix("DEPOTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "development")
	v.SetDefault("server.cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./depotdesk.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_level", "")
	v.SetDefault("auth.jwt_secret", DefaultJWTSecret)
	v.SetDefault("auth.issuer", "depotdesk")
	v.SetDefault("auth.access_token_ttl", "60m")
	v.SetDefault("auth.refresh_token_ttl", "24h")
	v.SetDefault("auth.blacklist.type", "database")
	v.SetDefault("auth.blacklist.valkey_addr", "localhost:6379")
	v.SetDefault("auth.blacklist.purge_interval", "1h")
	v.SetDefault("auth.oidc.enabled", false)
	v.SetDefault("auth.oidc.issuer_url", "")
	v.SetDefault("auth.oidc.client_id", "")
	v.SetDefault("auth.oidc.client_secret", "")
	v.SetDefault("auth.oidc.redirect_url", "")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
}

// Validate rejects configurations the server cannot run with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "postgresql":
	default:
		return fmt.Errorf("unsupported database driver: %s (supported: sqlite, postgres)", c.Database.Driver)
	}

	switch c.Auth.Blacklist.Type {
	case "database", "memory":
	case "valkey":
		if c.Auth.Blacklist.ValkeyAddr == "" {
			return fmt.Errorf("valkey address is required when blacklist type is valkey")
		}
	default:
		return fmt.Errorf("unsupported blacklist type: %s (supported: database, valkey, memory)", c.Auth.Blacklist.Type)
	}

	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}

	if c.Server.Mode == "production" {
		if c.Auth.JWTSecret == DefaultJWTSecret {
			return fmt.Errorf("auth.jwt_secret must be set in production")
		}
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be at least 32 characters in production")
		}
	}

	if c.Auth.OIDC.Enabled && (c.Auth.OIDC.IssuerURL == "" || c.Auth.OIDC.ClientID == "") {
		return fmt.Errorf("auth.oidc.issuer_url and auth.oidc.client_id are required when OIDC is enabled")
	}

	return nil
}

// Redacted returns a copy that is safe to print
func (c Config) Redacted() Config {
	if c.Auth.JWTSecret != "" {
		c.Auth.JWTSecret = "********"
	}
	if c.Auth.OIDC.ClientSecret != "" {
		c.Auth.OIDC.ClientSecret = "********"
	}
	return c
}
