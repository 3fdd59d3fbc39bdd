package tably

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a .env file (when present) into the process
	// environment before FromEnv reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// ConnectionInfo identifies a Postgres server and the credentials used to
// reach it. CreateDatabase consumes it directly; Connect combines it with
// Database and SSLMode to build the pool DSN.
type ConnectionInfo struct {
	Host     string
	Port     int // defaults to 5432
	User     string
	Password string
}

// dsn assembles a postgres:// URL for the given database. The user and
// password are URL-escaped and the host/port joined IPv6-safely. An empty
// sslMode leaves the driver default in place.
func (i ConnectionInfo) dsn(database, sslMode string) string {
	port := i.Port
	if port == 0 {
		port = 5432
	}
	hostPort := net.JoinHostPort(i.Host, strconv.Itoa(port))

	u := fmt.Sprintf("postgres://%s:%s@%s/%s",
		url.QueryEscape(i.User), url.QueryEscape(i.Password), hostPort, database)
	if sslMode != "" {
		u += "?sslmode=" + sslMode
	}
	return u
}

// Config controls pool construction.
type Config struct {
	// ConnectionString is the full DSN. When set it takes precedence over
	// the discrete fields below.
	ConnectionString string `koanf:"url"`

	Host     string `koanf:"host" validate:"required_without=ConnectionString"`
	Port     int    `koanf:"port" validate:"omitempty,min=1,max=65535"`
	User     string `koanf:"user" validate:"required_without=ConnectionString"`
	Password string `koanf:"password"`
	Database string `koanf:"dbname" validate:"required_without=ConnectionString"`
	SSLMode  string `koanf:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	// MaxConns defaults to 10.
	MaxConns int32 `koanf:"maxconns"`

	// MinConns defaults to 0.
	MinConns int32 `koanf:"minconns"`

	// HealthCheckPeriod defaults to 30s.
	HealthCheckPeriod time.Duration `koanf:"-"`

	// MaxConnLifetime defaults to 30m.
	MaxConnLifetime time.Duration `koanf:"-"`

	// MaxConnIdleTime defaults to 5m.
	MaxConnIdleTime time.Duration `koanf:"-"`

	// ConnectTimeout defaults to 10s.
	ConnectTimeout time.Duration `koanf:"-"`
}

// Info returns the server half of the config, as CreateDatabase consumes it.
func (c Config) Info() ConnectionInfo {
	return ConnectionInfo{Host: c.Host, Port: c.Port, User: c.User, Password: c.Password}
}

const envPrefix = "TABLY_"

// FromEnv loads Config from TABLY_-prefixed environment variables:
// TABLY_URL, or TABLY_HOST / TABLY_PORT / TABLY_USER / TABLY_PASSWORD /
// TABLY_DBNAME / TABLY_SSLMODE, plus TABLY_MAXCONNS and TABLY_MINCONNS.
// Pool timing knobs are code-level settings and are not read from the
// environment. A .env file in the working directory is honored.
func FromEnv() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("tably: load env config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("tably: unmarshal env config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("tably: invalid config: %w", err)
	}

	return cfg, nil
}
