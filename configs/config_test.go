package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

const baseYAML = `
app:
  name: soqdz
  http_addr: ":8080"
  log_level: info
  log_file: ./logs/app.log
mysql:
  dsn: "u:p@tcp(localhost:3306)/soqdz?parseTime=true"
ratelimit:
  store: memory
  window: 10m
  max_per_window: 5
  cleanup_interval: 5m
security:
  jwt_secret: base-secret
  issuer: soqdz
  audience: soqdz-admin
  ttl: 12h
`

func TestLoadBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", baseYAML)

	cfg, err := Load(dir, "missing-env")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.HTTPAddr)
	assert.Equal(t, 10*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.MaxPerWindow)
	assert.Equal(t, 12*time.Hour, cfg.Security.TTL)
}

func TestEnvFileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", baseYAML)
	writeConfig(t, dir, "prod.yaml", `
app:
  http_addr: ":9090"
ratelimit:
  store: redis
redis:
  addr: "redis:6379"
`)

	cfg, err := Load(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.App.HTTPAddr)
	assert.Equal(t, "redis", cfg.RateLimit.Store)
}

func TestEnvVarsOverrideFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", baseYAML)

	t.Setenv("SOQDZ_SECURITY__JWT_SECRET", "from-env")
	t.Setenv("SOQDZ_MYSQL__DSN", "env:dsn@tcp(db:3306)/soqdz")

	cfg, err := Load(dir, "dev")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Security.JWTSecret)
	assert.Equal(t, "env:dsn@tcp(db:3306)/soqdz", cfg.MySQL.DSN)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "base.yaml", `
app:
  http_addr: ":8080"
mysql:
  dsn: "u:p@tcp(localhost:3306)/soqdz"
security:
  jwt_secret: s
ratelimit:
  store: redis
`)

	_, err := Load(dir, "dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr required")
}
