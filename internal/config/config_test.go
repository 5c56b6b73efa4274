package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
  mode: debug
jwt:
  secret: short
  expire_hours: 12
storage:
  type: minio
quiz:
  site_url: https://dream.example.com
cors:
  allowed_origins: ["https://dream.example.com"]
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, []string{"https://dream.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 30, cfg.Quiz.ReferralCookieTTL)
	assert.Equal(t, "https://dream.example.com/audit", cfg.Quiz.QuizURL())
	assert.Equal(t, "https://dream.example.com/audit/results/abc", cfg.Quiz.ResultURL("abc"))
}

func TestLoadConfig_ReleaseRequiresStrongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  type: minio
`)

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
