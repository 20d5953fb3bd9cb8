package app

import (
	"strings"

	iauth "github.com/smunity/smunity/internal/auth"
	"github.com/smunity/smunity/internal/database"
)

// JWTServiceConfig adapts the loaded settings into the auth package's config.
func (c AuthConfig) JWTServiceConfig() iauth.JWTConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = iauth.DefaultAccessTokenTTL
	}
	return iauth.JWTConfig{
		Secret:         c.JWT.Secret,
		Issuer:         c.JWT.Issuer,
		AccessTokenTTL: ttl,
	}
}

// SessionServiceConfig adapts the loaded settings into the session config.
func (c AuthConfig) SessionServiceConfig() iauth.SessionConfig {
	ttl := c.Session.RefreshTTL
	if ttl <= 0 {
		ttl = iauth.DefaultRefreshTokenTTL
	}
	length := c.Session.RefreshLength
	if length <= 0 {
		length = 48
	}
	return iauth.SessionConfig{
		RefreshTokenTTL: ttl,
		RefreshLength:   length,
	}
}

// GuardServiceConfig adapts the guard settings into the auth package's config.
func (c GuardConfig) GuardServiceConfig() iauth.GuardConfig {
	return iauth.GuardConfig{
		InstitutionalDomain: strings.TrimSpace(c.InstitutionalDomain),
	}
}

// DatabaseServiceConfig flattens the driver-specific sections into the
// database package's connection config.
func (c DatabaseConfig) DatabaseServiceConfig() database.Config {
	cfg := database.Config{
		Driver: strings.ToLower(strings.TrimSpace(c.Driver)),
		Path:   c.Path,
		DSN:    c.DSN,
	}

	switch cfg.Driver {
	case "postgres":
		cfg.Host = c.Postgres.Host
		cfg.Port = c.Postgres.Port
		cfg.Name = c.Postgres.Database
		cfg.User = c.Postgres.Username
		cfg.Password = c.Postgres.Password
	case "mysql":
		cfg.Host = c.MySQL.Host
		cfg.Port = c.MySQL.Port
		cfg.Name = c.MySQL.Database
		cfg.User = c.MySQL.Username
		cfg.Password = c.MySQL.Password
	}

	return cfg
}
