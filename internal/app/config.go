package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the SMUnity backend.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Guard       GuardConfig       `mapstructure:"guard"`
	Identity    IdentityConfig    `mapstructure:"identity_provider"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// AuthConfig captures token issuance settings.
type AuthConfig struct {
	JWT     JWTSettings     `mapstructure:"jwt"`
	Session SessionSettings `mapstructure:"session"`
}

// JWTSettings configures JWT access tokens.
type JWTSettings struct {
	Secret string        `mapstructure:"secret"`
	Issuer string        `mapstructure:"issuer"`
	TTL    time.Duration `mapstructure:"access_token_ttl"`
}

// SessionSettings configures refresh tokens and session lifetimes.
type SessionSettings struct {
	RefreshTTL    time.Duration `mapstructure:"refresh_token_ttl"`
	RefreshLength int           `mapstructure:"refresh_token_length"`
}

// GuardConfig carries the access policy inputs.
type GuardConfig struct {
	InstitutionalDomain string        `mapstructure:"institutional_domain"`
	InviteExpiry        time.Duration `mapstructure:"invite_expiry"`
}

// IdentityConfig points session resolution at an external provider. When
// disabled, sessions are resolved locally against the database.
type IdentityConfig struct {
	Remote  bool          `mapstructure:"remote"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// MaintenanceConfig tunes the background cleanup scheduler.
type MaintenanceConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	AuditRetentionDays int    `mapstructure:"audit_retention_days"`
	SessionSchedule    string `mapstructure:"session_schedule"`
	InviteSchedule     string `mapstructure:"invite_schedule"`
	AuditSchedule      string `mapstructure:"audit_schedule"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("SMUNITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/smunity.sqlite")

	v.SetDefault("auth.jwt.issuer", "smunity")
	v.SetDefault("auth.jwt.access_token_ttl", "15m")
	v.SetDefault("auth.session.refresh_token_ttl", "720h") // 30 days
	v.SetDefault("auth.session.refresh_token_length", 48)

	v.SetDefault("guard.institutional_domain", "smu.edu.sg")
	v.SetDefault("guard.invite_expiry", "168h") // 7 days

	v.SetDefault("identity_provider.remote", false)
	v.SetDefault("identity_provider.base_url", "")
	v.SetDefault("identity_provider.timeout", "5s")

	v.SetDefault("maintenance.enabled", true)
	v.SetDefault("maintenance.audit_retention_days", 90)
	v.SetDefault("maintenance.session_schedule", "@hourly")
	v.SetDefault("maintenance.invite_schedule", "@daily")
	v.SetDefault("maintenance.audit_schedule", "@daily")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
