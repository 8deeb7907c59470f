package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_JSONLogger(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BlankConfigDefaults(t *testing.T) {
	log, err := New(&Config{})
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	log, err := New(&Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("invoice sent", zap.String("invoice_number", "INV-202608-00001"))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "invoice sent")
	assert.Contains(t, string(data), "INV-202608-00001")
}

func TestNew_UnwritableFileFallsBack(t *testing.T) {
	log, err := New(&Config{Level: "info", Output: "/nonexistent-dir/app.log"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestLevelFor(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"ERROR":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for input, want := range cases {
		assert.Equal(t, want, levelFor(input), input)
	}
}

func TestSync_DoesNotPanic(t *testing.T) {
	log, err := New(&Config{Level: "info", Format: "console", Output: "stderr"})
	require.NoError(t, err)

	// Syncing stderr can return ENOTTY in CI, only a panic is a failure.
	_ = Sync(log)
}

func TestNew_ConsoleFormatCaseInsensitive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.log")

	log, err := New(&Config{Level: "info", Format: "CONSOLE", Output: path})
	require.NoError(t, err)

	log.Info("registration approved")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// Console encoding is tab separated, not a JSON object.
	assert.False(t, strings.HasPrefix(strings.TrimSpace(string(data)), "{"))
	assert.Contains(t, string(data), "registration approved")
}
