package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConsoleOnly(t *testing.T) {
	logger, err := New(Options{Level: "info", Color: false})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Info("hello")
}

func TestNewWithFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lambdac.log")

	logger, err := New(Options{Level: "debug", FilePath: path})
	require.NoError(t, err)
	logger.Debug("trace message")
	require.NoError(t, logger.Sync())

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Options{Level: "not-a-level"})
	assert.Error(t, err)
}
