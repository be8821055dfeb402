package api_gateway_config

import (
	"fmt"
	"strings"
	"time"

	"github.com/NordCoder/Carelink/internal/obs"
	pg "github.com/NordCoder/Carelink/internal/repository/postgres"
)

// InsecureDefaultSecret is the out-of-the-box signing secret. It is refused
// in production.
const InsecureDefaultSecret = "CHANGE_THIS_SECRET"

const EnvProd = "prod"

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	HTTPAddr        string        `mapstructure:"http_addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	GracefulTimeout time.Duration `mapstructure:"graceful_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type API struct {
	Prefix string `mapstructure:"prefix"`
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig(app App) *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:         oc.Enable,
		Endpoint:       oc.OTLPEndpoint,
		ServiceName:    oc.ServiceName,
		ServiceVersion: app.Version,
		SampleRatio:    oc.SampleRatio,
	}
}

type Log struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func (lc *Log) AsLoggerConfig(app App) *obs.LogConfig {
	return &obs.LogConfig{
		Level:  lc.Level,
		Pretty: lc.Pretty,
		App:    "carelink/" + app.Name,
		Env:    app.Env,
		Ver:    app.Version,
	}
}

type Auth struct {
	SecretKey         string `mapstructure:"secret_key"`
	AccessExpireMin   int    `mapstructure:"access_expire_min"`
	RefreshExpireDays int    `mapstructure:"refresh_expire_days"`

	// Argon2 cost. Zero values fall back to the library defaults.
	ArgonMemoryKiB   uint32 `mapstructure:"argon_memory_kib"`
	ArgonTime        uint32 `mapstructure:"argon_time"`
	ArgonParallelism uint8  `mapstructure:"argon_parallelism"`
}

func (a Auth) AccessTTL() time.Duration  { return time.Duration(a.AccessExpireMin) * time.Minute }
func (a Auth) RefreshTTL() time.Duration { return time.Duration(a.RefreshExpireDays) * 24 * time.Hour }

// InsecureSecret reports whether the signing secret is the shipped default.
func (a Auth) InsecureSecret() bool { return a.SecretKey == InsecureDefaultSecret }

type Config struct {
	App    App       `mapstructure:"app"`
	Server Server    `mapstructure:"server"`
	API    API       `mapstructure:"api"`
	DB     pg.Config `mapstructure:"db"`
	OTEL   OTEL      `mapstructure:"otel"`
	Log    Log       `mapstructure:"log"`
	Auth   Auth      `mapstructure:"auth"`
	Outbox Outbox    `mapstructure:"outbox"`
}

// Outbox controls how the gateway records events for the relay.
type Outbox struct {
	Enable bool `mapstructure:"enable"`
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }

func (c *Config) Validate() error {
	if c.DB.DSN == "" {
		return ErrConfig("db.dsn (DATABASE_URL) is empty")
	}
	if c.Auth.SecretKey == "" {
		return ErrConfig("auth.secret_key (SECRET_KEY) is empty")
	}
	if c.Auth.AccessExpireMin <= 0 {
		return ErrConfig(fmt.Sprintf("auth.access_expire_min must be positive, got %d", c.Auth.AccessExpireMin))
	}
	if c.Auth.RefreshExpireDays <= 0 {
		return ErrConfig(fmt.Sprintf("auth.refresh_expire_days must be positive, got %d", c.Auth.RefreshExpireDays))
	}
	if c.App.Env == EnvProd && c.Auth.InsecureSecret() {
		return ErrConfig("SECRET_KEY must be set in production")
	}
	return nil
}

// NormalizePrefix turns "api/v1/", "/api/v1" and " /api/v1 " into "/api/v1".
// An empty prefix or "/" mounts the API at the root.
func NormalizePrefix(prefix string) string {
	p := strings.TrimSpace(prefix)
	if p == "" || p == "/" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(p, "/")
}
