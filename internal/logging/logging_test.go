package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdg-garage/camp-registration-api/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"
)

func TestNew(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		logger, err := New(&config.Config{LogLevel: "debug", LogFormat: "json", LogOutput: "stdout"})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
		assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
		assert.Equal(t, os.Stdout, logger.Out)
	})

	t.Run("text to rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "api.log")
		logger, err := New(&config.Config{LogLevel: "warn", LogFormat: "text", LogOutput: "file", LogFile: path, LogMaxSizeMB: 1})
		require.NoError(t, err)
		assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)

		rotating, ok := logger.Out.(*lumberjack.Logger)
		require.True(t, ok)
		assert.Equal(t, path, rotating.Filename)

		logger.Warn("hello")
		require.NoError(t, rotating.Close())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello")
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := New(&config.Config{LogLevel: "loud"})
		assert.Error(t, err)
	})
}
