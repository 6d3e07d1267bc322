package logging

import (
	"os"
	"path/filepath"
	"testing"

	"safarinova/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "safarinova"})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Nil(t, closer)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewParsesLevel(t *testing.T) {
	logger, _, err := New(config.LoggingConfig{Level: "debug"}, config.AppConfig{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	// Unknown levels fall back to info.
	logger, _, err = New(config.LoggingConfig{Level: "loud"}, config.AppConfig{})
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path},
		config.AppConfig{Name: "safarinova", Environment: "test"})
	require.NoError(t, err)
	require.NotNil(t, closer)

	logger.Info().Msg("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app":"safarinova"`)
	assert.Contains(t, string(data), "hello")
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	assert.Error(t, err)
}
