package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	log, err := New("test", Options{File: logFile})
	require.NoError(t, err)

	log.Infow("something happened", "count", 3)
	log.Debugw("detail") // file sink records debug regardless of console level
	require.NoError(t, log.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "something happened")
	assert.Contains(t, content, `"count":3`)
	assert.Contains(t, content, "detail")
}

func TestFileSinkAppends(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	for _, msg := range []string{"first", "second"} {
		log, err := New("test", Options{File: logFile})
		require.NoError(t, err)
		log.Info(msg)
		require.NoError(t, log.Close())
	}

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestFileSinkOpenError(t *testing.T) {
	_, err := New("test", Options{File: filepath.Join(t.TempDir(), "missing", "app.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
}

func TestConsoleLevelControl(t *testing.T) {
	log, err := New("test", Options{Console: true, Level: zapcore.InfoLevel})
	require.NoError(t, err)
	defer log.Close()

	assert.False(t, log.consoleLevel.Enabled(zapcore.DebugLevel))

	log.ShowDebug()
	assert.True(t, log.consoleLevel.Enabled(zapcore.DebugLevel))

	log.HideDebug()
	assert.False(t, log.consoleLevel.Enabled(zapcore.DebugLevel))

	log.Silence()
	assert.False(t, log.consoleLevel.Enabled(zapcore.ErrorLevel))
}

func TestNull(t *testing.T) {
	log := Null()
	// Must not panic and must be safe to use.
	log.Infow("discarded", "k", "v")
	assert.NoError(t, log.Close())
}

func TestNoSinks(t *testing.T) {
	log, err := New("test", Options{})
	require.NoError(t, err)
	log.Info("goes nowhere")
	assert.NoError(t, log.Close())
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.True(t, opts.Console)
	assert.True(t, opts.Color)
	assert.Equal(t, zapcore.InfoLevel, opts.Level)
	assert.False(t, opts.JSON)
	assert.True(t, strings.TrimSpace(opts.File) == "")
}
