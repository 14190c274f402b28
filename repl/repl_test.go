package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Joker-vD/onepass-lambda-compiler/store"
	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	st, err := store.Open("")
	require.NoError(t, err)
	var out bytes.Buffer
	r := New(strings.NewReader(""), &out, st, toolchain.DefaultConfig(), zap.NewNop())
	r.NoColor = true
	return r, &out
}

func TestChop(t *testing.T) {
	first, rest := chop("  s name = value")
	assert.Equal(t, "s", first)
	assert.Equal(t, "name = value", rest)

	first, rest = chop("q")
	assert.Equal(t, "q", first)
	assert.Equal(t, "", rest)
}

func TestDispatchHelp(t *testing.T) {
	r, out := newTestREPL(t)
	require.NoError(t, r.dispatch("?"))
	assert.Contains(t, out.String(), "One-pass λ compiler")
}

func TestDispatchComment(t *testing.T) {
	r, out := newTestREPL(t)
	require.NoError(t, r.dispatch("# a comment"))
	assert.Empty(t, out.String())
}

func TestDispatchUnknownCommand(t *testing.T) {
	r, _ := newTestREPL(t)
	err := r.dispatch(":bogus")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestDispatchQuitSetsFlag(t *testing.T) {
	r, _ := newTestREPL(t)
	require.NoError(t, r.dispatch(":q"))
	assert.True(t, r.quit)
}

func TestCmdSetAndListRoundTrip(t *testing.T) {
	r, out := newTestREPL(t)
	require.NoError(t, r.dispatch(":s id = λx. x"))
	require.NoError(t, r.dispatch(":l"))
	assert.Contains(t, out.String(), "id")
	assert.Contains(t, out.String(), "λx. x")
}

func TestCmdSetRejectsBadName(t *testing.T) {
	r, _ := newTestREPL(t)
	err := r.dispatch(":s 1bad = λx. x")
	assert.Error(t, err)
}

func TestCmdForgetRemovesMacro(t *testing.T) {
	r, out := newTestREPL(t)
	require.NoError(t, r.dispatch(":s id = λx. x"))
	require.NoError(t, r.dispatch(":f id"))
	out.Reset()
	require.NoError(t, r.dispatch(":l"))
	assert.Empty(t, out.String())
}

func TestCmdExecuteFileQueuesLinesAheadOfIn(t *testing.T) {
	r, _ := newTestREPL(t)
	path := filepath.Join(t.TempDir(), "macros.lc")
	require.NoError(t, os.WriteFile(path, []byte(":s id = λx. x\n:s k = λa. λb. a\n"), 0o644))

	require.NoError(t, r.dispatch(":o "+path))
	assert.Equal(t, ":s id = λx. x\n:s k = λa. λb. a\n", r.buffer)

	line, err := r.readLine("> ")
	require.NoError(t, err)
	assert.Equal(t, ":s id = λx. x", line)
	assert.Equal(t, ":s k = λa. λb. a\n", r.buffer)
}

func TestCmdExecuteFileAppendsMissingTrailingNewline(t *testing.T) {
	r, _ := newTestREPL(t)
	path := filepath.Join(t.TempDir(), "nonewline.lc")
	require.NoError(t, os.WriteFile(path, []byte(":q"), 0o644))

	require.NoError(t, r.dispatch(":o "+path))
	assert.Equal(t, ":q\n", r.buffer)
}

func TestCmdExecuteFileMissingFileErrors(t *testing.T) {
	r, _ := newTestREPL(t)
	err := r.dispatch(":o /nonexistent/path/file.lc")
	assert.Error(t, err)
}

func TestDispatchExecuteFileDrainedThroughRun(t *testing.T) {
	r, out := newTestREPL(t)
	path := filepath.Join(t.TempDir(), "macros.lc")
	require.NoError(t, os.WriteFile(path, []byte(":s id = λx. x\n:l\n"), 0o644))

	require.NoError(t, r.dispatch(":o "+path))
	for r.buffer != "" {
		line, err := r.readLine("> ")
		require.NoError(t, err)
		require.NoError(t, r.dispatch(line))
	}
	assert.Contains(t, out.String(), "id")
	assert.Contains(t, out.String(), "λx. x")
}
