package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.APIPort)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "/data/ledgertrack.db", cfg.Database.Path)
	assert.True(t, cfg.Database.WALMode)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "dev-secret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.Backup.Enabled)
	assert.NotEmpty(t, cfg.CORSOrigins)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yml")
	content := `
apiPort: 9000
database:
  type: sqlite
  path: /tmp/test.db
  walMode: false
auth:
  jwtSecret: file-secret
  tokenDuration: 48h
corsOrigins:
  - https://app.ledgertrack.app
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.APIPort)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.False(t, cfg.Database.WALMode, "explicit walMode: false must stick")
	assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, []string{"https://app.ledgertrack.app"}, cfg.CORSOrigins)
}

func TestLoadConfig_EnvSecretWins(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoadConfig_BackupNeedsBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yml")
	content := `
backup:
  enabled: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Backup.Enabled, "backup without a bucket is disabled")
}
