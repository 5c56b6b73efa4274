package logger

import (
	"dream_site_backend/internal/config"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, levelFor("warn", "debug"))
	assert.Equal(t, zapcore.DebugLevel, levelFor("", "debug"))
	assert.Equal(t, zapcore.InfoLevel, levelFor("", "release"))
	assert.Equal(t, zapcore.InfoLevel, levelFor("loud", "release"))
}

func TestNew_WritesJSONFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	log := New(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1}, "release", false)

	log.Debug("hidden")
	log.Info("Assessment completed", zap.String("tier", "mini"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Assessment completed", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "mini", entry["tier"])
	assert.Equal(t, "dream-site", entry["service"])
}
