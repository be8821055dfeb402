package api_gateway_config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pg "github.com/NordCoder/Carelink/internal/repository/postgres"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1", cfg.API.Prefix)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL())
	assert.True(t, cfg.Auth.InsecureSecret())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.DB.QueryTimeout)
}

func TestLoad_FlatEnv(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cr3t")
	t.Setenv("ACCESS_EXPIRE_MIN", "5")
	t.Setenv("REFRESH_EXPIRE_DAYS", "14")
	t.Setenv("API_PREFIX", "v2/")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("APP_ENV", "prod")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Auth.SecretKey)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, 14*24*time.Hour, cfg.Auth.RefreshTTL())
	assert.Equal(t, "/v2", cfg.API.Prefix)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.DSN)
	assert.Equal(t, "prod", cfg.App.Env)
}

func TestLoad_ProdRejectsDefaultSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	_, err := Load("")
	require.Error(t, err)
	assert.IsType(t, ErrConfig(""), err)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  secret_key: from-file
  access_expire_min: 10
api:
  prefix: /
server:
  cors_origins: ["https://app.example"]
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.SecretKey)
	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTTL())
	assert.Equal(t, "", cfg.API.Prefix)
	assert.Equal(t, []string{"https://app.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{
		DB:   pgConfig("postgres://x"),
		Auth: Auth{SecretKey: "k", AccessExpireMin: 1, RefreshExpireDays: 1},
	}
	require.NoError(t, base.Validate())

	c := base
	c.Auth.AccessExpireMin = 0
	assert.Error(t, c.Validate())

	c = base
	c.Auth.RefreshExpireDays = -1
	assert.Error(t, c.Validate())

	c = base
	c.DB.DSN = ""
	assert.Error(t, c.Validate())

	c = base
	c.Auth.SecretKey = InsecureDefaultSecret
	assert.NoError(t, c.Validate())
	c.App.Env = EnvProd
	assert.Error(t, c.Validate())
}

func TestNormalizePrefix(t *testing.T) {
	cases := map[string]string{
		"":          "",
		"/":         "",
		"  ":        "",
		"/api/v1":   "/api/v1",
		"api/v1/":   "/api/v1",
		" /api/v1 ": "/api/v1",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizePrefix(in), in)
	}
}

func pgConfig(dsn string) pg.Config { return pg.Config{DSN: dsn} }
