// Package toolchain drives an external C compiler over translator
// output: write the C source to disk, compile it, run the resulting
// binary, and parse back the residual value and heap-usage line.
//
// Grounded on original_source/main.py's get_cc_invocation and
// compile_and_run, generalized to a context-bounded, concurrency-safe
// version — the original wrote to a fixed tmp.c/tmp.exe pair, which
// cannot survive the examples batch runner or a multi-request HTTP
// server touching the same working directory at once.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Config names the C compiler invocation. The zero value compiles
// with "cc" in os.TempDir(); DefaultConfig also honors $LAMBDAC_CC
// and $CC.
type Config struct {
	CC      string
	CFlags  []string
	WorkDir string // defaults to os.TempDir() when empty
	KeepC   bool   // skip cleanup of the generated .c file and binary
}

// DefaultConfig returns a Config pointed at "cc" with no extra flags,
// honoring $LAMBDAC_CC / $CC the same way the original's
// get_cc_invocation falls back to "cc" when no override is set.
func DefaultConfig() Config {
	cc := os.Getenv("LAMBDAC_CC")
	if cc == "" {
		cc = os.Getenv("CC")
	}
	if cc == "" {
		cc = "cc"
	}
	return Config{CC: cc}
}

// Result is the outcome of compiling and running one residual program.
type Result struct {
	Stdout         string
	HeapUsageBytes uint64
	CSourcePath    string // empty unless Config.KeepC
	BinaryPath     string // empty unless Config.KeepC
}

// String renders the residual value alongside a humanized heap-usage
// figure, e.g. `42 (heap usage: 96 B)`.
func (r Result) String() string {
	return fmt.Sprintf("%s (heap usage: %s)", r.Stdout, humanize.Bytes(r.HeapUsageBytes))
}

// CompileAndRun writes csrc to a uniquely named temp file, compiles
// it with the configured C compiler, and runs the resulting binary
// under ctx. Both compilation and execution are bounded by ctx, so a
// caller embedding a compiler — the CLI, the REPL, or the HTTP server
// — can enforce a timeout the original tool never needed.
func (c Config) CompileAndRun(ctx context.Context, csrc string) (Result, error) {
	dir := c.WorkDir
	if dir == "" {
		dir = os.TempDir()
	}

	id := uuid.NewString()
	cPath := filepath.Join(dir, "lambdac_"+id+".c")
	binPath := filepath.Join(dir, "lambdac_"+id+".bin")

	if err := os.WriteFile(cPath, []byte(csrc), 0o644); err != nil {
		return Result{}, fmt.Errorf("toolchain: write source: %w", err)
	}
	if !c.KeepC {
		defer os.Remove(cPath)
	}

	cc := c.CC
	if cc == "" {
		cc = "cc"
	}
	args := append(append([]string{}, c.CFlags...), "-o", binPath, cPath)
	compile := exec.CommandContext(ctx, cc, args...)
	var compileErr bytes.Buffer
	compile.Stderr = &compileErr
	if err := compile.Run(); err != nil {
		return Result{}, fmt.Errorf("toolchain: compile: %w: %s", err, compileErr.String())
	}
	if !c.KeepC {
		defer os.Remove(binPath)
	}

	run := exec.CommandContext(ctx, binPath)
	var stdout, stderr bytes.Buffer
	run.Stdout = &stdout
	run.Stderr = &stderr
	if err := run.Run(); err != nil {
		return Result{}, fmt.Errorf("toolchain: run: %w: %s", err, stderr.String())
	}

	heap, err := parseHeapUsage(stderr.String())
	if err != nil {
		return Result{}, fmt.Errorf("toolchain: %w", err)
	}

	res := Result{
		Stdout:         strings.TrimRight(stdout.String(), "\n"),
		HeapUsageBytes: heap,
	}
	if c.KeepC {
		res.CSourcePath = cPath
		res.BinaryPath = binPath
	}
	return res, nil
}

var errNoHeapLine = errors.New("no heap usage line in stderr")

// parseHeapUsage extracts the "heap usage: N" line emitted by
// translator's epilogue to the residual binary's stderr.
func parseHeapUsage(stderr string) (uint64, error) {
	for _, line := range strings.Split(stderr, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "heap usage: ")
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(strings.TrimSpace(rest), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed heap usage line %q: %w", line, err)
		}
		return n, nil
	}
	return 0, errNoHeapLine
}
