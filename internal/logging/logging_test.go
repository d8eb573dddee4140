package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/siting/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"Warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNew_ConsoleLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, done := New(config.LoggingConfig{Level: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", zap.Int("fitness", 7))
	done()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "siting")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"fitness": 7`)
}

func TestNew_FileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "siting.log")
	var console bytes.Buffer
	logger, done := New(config.LoggingConfig{Level: "debug", File: path}, &console)

	logger.Debug("iteration", zap.Int("best", 3))
	done()

	assert.Contains(t, console.String(), "iteration")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	sc := bufio.NewScanner(f)
	require.True(t, sc.Scan(), "log file is empty")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
	assert.Equal(t, "iteration", entry["msg"])
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, float64(3), entry["best"])
}

func TestNew_DevAddsStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger, done := New(config.LoggingConfig{Dev: true}, &buf)
	logger.Warn("careful")
	done()

	// The caller field is always present; only the stack names the test.
	assert.Contains(t, buf.String(), "TestNew_DevAddsStacktrace")
}
