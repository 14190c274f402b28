package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateCommandWritesCSourceToStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "id.lc")
	require.NoError(t, os.WriteFile(path, []byte("λx. x"), 0o644))

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"translate", path})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "#include")
	assert.Contains(t, out.String(), "dummy_lambda")
}

func TestTranslateCommandRejectsUnbound(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.lc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"translate", path})
	root.SetOut(new(bytes.Buffer))
	assert.Error(t, root.Execute())
}

func TestTranslateCommandWritesToOutFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "id.lc")
	out := filepath.Join(dir, "id.c")
	require.NoError(t, os.WriteFile(in, []byte("λx. x"), 0o644))

	root := newRootCmd()
	root.SetArgs([]string{"translate", in, "--out", out})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "#include")
}
