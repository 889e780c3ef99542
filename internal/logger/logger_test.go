package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfigDefaults(t *testing.T) {
	cfg := buildConfig(Options{})

	assert.Equal(t, "console", cfg.Encoding)
	assert.Equal(t, zapcore.InfoLevel, cfg.Level.Level())
	assert.Equal(t, []string{"stderr"}, cfg.OutputPaths)
	assert.Empty(t, cfg.InitialFields)
	assert.Equal(t, "step", cfg.EncoderConfig.MessageKey)
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dang-matcher.log")

	log, err := New(Options{App: "dang-matcher", JSON: true, Debug: true, File: path})
	require.NoError(t, err)

	log.Debug("photo analyzed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "photo analyzed", entry["step"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "dang-matcher", entry[FieldApp])
}
