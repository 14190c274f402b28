package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	c := Default()
	assert.Equal(t, "cc", c.GetString("toolchain.cc"))
	assert.Equal(t, "", c.GetString("store.path"))
	assert.Equal(t, "info", c.GetString("log.level"))
	assert.True(t, c.GetBool("log.color"))
	assert.Equal(t, 10, c.GetInt("server.eval_timeout_seconds"))
}

func TestGetWrongTypePanics(t *testing.T) {
	c := Default()
	assert.Panics(t, func() { c.GetInt("toolchain.cc") })
}

func TestGetMissingPanics(t *testing.T) {
	c := Default()
	assert.Panics(t, func() { c.GetString("no.such.setting") })
}

func TestSetReassignSameTypeOK(t *testing.T) {
	c := Default()
	assert.NotPanics(t, func() { c.SetString("toolchain.cc", "clang") })
	assert.Equal(t, "clang", c.GetString("toolchain.cc"))
}

func TestSetReassignDifferentTypePanics(t *testing.T) {
	c := Default()
	c.SetString("x", "y")
	assert.Panics(t, func() { c.SetBool("x", true) })
}

func TestLoadDotenvMissingFileIsNotError(t *testing.T) {
	c := Default()
	err := c.LoadDotenv("/nonexistent/path/.env")
	assert.NoError(t, err)
}

func TestLoadDotenvOverridesFromEnvironment(t *testing.T) {
	t.Setenv("LAMBDAC_CC", "tcc")
	t.Setenv("LAMBDAC_LOG_LEVEL", "debug")
	c := Default()
	req := require.New(t)
	err := c.LoadDotenv("/nonexistent/path/.env")
	req.NoError(err)
	req.Equal("tcc", c.GetString("toolchain.cc"))
	req.Equal("debug", c.GetString("log.level"))
}

func TestLoadYAMLMissingFileIsNotError(t *testing.T) {
	c := Default()
	assert.NoError(t, c.LoadYAML("/nonexistent/path/lambdac.yaml"))
}

func TestLoadYAMLOverridesSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lambdac.yaml")
	content := "cc: clang\nlog_level: debug\neval_timeout_seconds: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c := Default()
	require.NoError(t, c.LoadYAML(path))
	assert.Equal(t, "clang", c.GetString("toolchain.cc"))
	assert.Equal(t, "debug", c.GetString("log.level"))
	assert.Equal(t, 30, c.GetInt("server.eval_timeout_seconds"))
}

func TestLoadYAMLLeavesUnsetFieldsUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lambdac.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cc: clang\n"), 0o644))

	c := Default()
	require.NoError(t, c.LoadYAML(path))
	assert.Equal(t, "clang", c.GetString("toolchain.cc"))
	assert.Equal(t, "info", c.GetString("log.level"))
}
