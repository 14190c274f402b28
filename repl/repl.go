// Package repl implements lambdac's interactive shell: read a line,
// dispatch on leading ":"/"?"/"#", otherwise parse-translate-run the
// line as a term.
//
// Grounded directly on original_source/main.py's Interaction class for
// command dispatch and on the teacher's cmd/langlang/main.go for the
// Go-side shell loop shape (bufio reader, prompt, EOF exit; blank
// lines are skipped). The macro environment (Interaction.defs) is generalized to
// the persistent store package so `:s`/`:f`/`:l` survive restarts.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/Joker-vD/onepass-lambda-compiler/parse"
	"github.com/Joker-vD/onepass-lambda-compiler/store"
	"github.com/Joker-vD/onepass-lambda-compiler/term"
	"github.com/Joker-vD/onepass-lambda-compiler/toolchain"
	"github.com/Joker-vD/onepass-lambda-compiler/translator"
)

const helpText = `One-pass λ compiler

Enter a λ-calculus term to evaluate or a special command. Special commands are:
	• :h — prints this help message
	• :q — quits the program
	• :s NAME [=] λ-TERM — adds λ-TERM under name NAME to the evaluation environment. NAME must be a valid variable name
	• :f NAME — removes all λ-terms with name NAME from the evaluation environment
	• :l — prints the evaluation environment
	• :o FILENAME — reads and evaluates all lines from the file named FILENAME
	• # text... — comment until the end of the line

The supported syntax of the λ-calculus term is this EBNF grammar:
	TERM  ::=  LAM | APP
	LAM   ::=  ('λ' | '\') VAR ('.' | ':') TERM
	APP   ::=  ATOM { ATOM }
	ATOM  ::=  VAR | '(' TERM ')'
	VAR    ~   [a-z_][a-zA-Z0-9_']*

Input of multiline terms is supported: pressing [ENTER] while there are unbalanced open
parentheses makes the program expect the continuation of the input on the next line(s).
Continuation lines are marked by a "." prompt instead of the normal ">" prompt. Pressing
[ENTER] on the continuation line without any non-whitespace input immediately aborts input.

Evaluation model is call-by-value. Before evaluating the input term, it is merged with the
evaluation environment using the usual let=>λ conversion.`

// REPL is one interactive session, reading from In and writing to Out.
type REPL struct {
	In          *bufio.Reader
	Out         io.Writer
	Store       *store.Store
	Toolchain   toolchain.Config
	EvalTimeout time.Duration
	Logger      *zap.Logger
	NoColor     bool
	Verbose     bool // also print the compiled program's heap-usage line

	quit   bool
	buffer string // queued lines from ":o FILENAME", drained before In
}

// New builds a REPL over the given streams and dependencies.
func New(in io.Reader, out io.Writer, st *store.Store, cc toolchain.Config, logger *zap.Logger) *REPL {
	return &REPL{
		In:          bufio.NewReader(in),
		Out:         out,
		Store:       st,
		Toolchain:   cc,
		EvalTimeout: 10 * time.Second,
		Logger:      logger,
	}
}

// Run drives the read-dispatch loop until :q or EOF, mirroring
// Interaction.interact's try/except-EOFError/except-Exception shape.
func (r *REPL) Run() {
	for !r.quit {
		line, err := r.readLine("> ")
		if err == io.EOF {
			r.quit = true
			break
		}
		if err := r.dispatch(line); err != nil {
			fmt.Fprintf(r.Out, "Failed: %s\n", err)
			r.Logger.Warn("repl command failed", zap.Error(err))
		}
	}
	fmt.Fprintln(r.Out, "Goodbye!")
}

// readLine returns the next line of input, mirroring
// Interaction.input: lines queued by ":o FILENAME" are drained first,
// without re-printing the prompt, before falling back to In.
func (r *REPL) readLine(prompt string) (string, error) {
	if r.buffer != "" {
		if i := strings.IndexByte(r.buffer, '\n'); i != -1 {
			line := r.buffer[:i]
			r.buffer = r.buffer[i+1:]
			return line, nil
		}
		line := r.buffer
		r.buffer = ""
		return line, nil
	}

	fmt.Fprint(r.Out, prompt)
	line, err := r.In.ReadString('\n')
	if err != nil && line == "" {
		return "", io.EOF
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// continuation implements parse.LineSource for multi-line terms typed
// at the prompt: "." instead of ">" while continuing, and an empty
// continuation line aborts the parse, same as the original.
func (r *REPL) continuation(continued bool) (string, bool) {
	prompt := "> "
	if continued {
		prompt = ". "
	}
	line, err := r.readLine(prompt)
	if err != nil || line == "" {
		return "", false
	}
	return line, true
}

func (r *REPL) dispatch(s string) error {
	s = strings.TrimLeft(s, " \t")

	if s == "" || strings.HasPrefix(s, "#") {
		return nil
	}
	if strings.HasPrefix(s, "?") {
		fmt.Fprintln(r.Out, helpText)
		return nil
	}
	if !strings.HasPrefix(s, ":") {
		return r.evalAndPrint(s)
	}

	cmd, rest := chop(s[1:])
	switch cmd {
	case "q":
		r.quit = true
		return nil
	case "s":
		return r.cmdSet(rest)
	case "f":
		return r.cmdForget(rest)
	case "l":
		return r.cmdList()
	case "o":
		return r.cmdExecuteFile(rest)
	case "h":
		fmt.Fprintln(r.Out, helpText)
		return nil
	default:
		return fmt.Errorf("unknown command: %s. Try \":h\" for help", cmd)
	}
}

func (r *REPL) evalAndPrint(s string) error {
	tm, err := parse.Parse(s, r.continuation)
	if err != nil {
		return err
	}

	if r.NoColor {
		fmt.Fprintln(r.Out, term.String(tm))
	} else {
		fmt.Fprintln(r.Out, term.Highlighted(tm))
	}

	full, err := r.Store.Build(tm)
	if err != nil {
		return err
	}
	csrc, err := translator.Translate(full)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.EvalTimeout)
	defer cancel()
	res, err := r.Toolchain.CompileAndRun(ctx, csrc)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, res.Stdout)
	if r.Verbose {
		fmt.Fprintf(r.Out, "heap usage: %s\n", humanize.Bytes(res.HeapUsageBytes))
	}
	return nil
}

func (r *REPL) cmdSet(s string) error {
	name, rest := chop(s)
	if !parse.IsVar(name) {
		return fmt.Errorf("invalid name: %s", name)
	}
	rest = strings.TrimPrefix(strings.TrimLeft(rest, " \t"), "=")

	tm, err := parse.Parse(rest, r.continuation)
	if err != nil {
		return err
	}
	return r.Store.Set(name, tm)
}

// cmdExecuteFile queues filename's contents ahead of whatever is left
// in r.buffer, mirroring Interaction.cmd_execute_file: subsequent
// readLine calls drain the file's lines as if they'd been typed at
// the prompt, one command per line, before resuming interactive
// input.
func (r *REPL) cmdExecuteFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	r.buffer = text + r.buffer
	return nil
}

func (r *REPL) cmdForget(s string) error {
	return r.Store.Forget(strings.TrimSpace(s))
}

func (r *REPL) cmdList() error {
	defs, err := r.Store.List()
	if err != nil {
		return err
	}
	for _, d := range defs {
		if r.NoColor {
			fmt.Fprintf(r.Out, "%s = %s\n", d.Name, term.String(d.Term))
		} else {
			fmt.Fprintf(r.Out, "%s = %s\n", color.New(color.FgCyan).Sprint(d.Name), term.Highlighted(d.Term))
		}
	}
	return nil
}

// chop splits s on the first run of whitespace, returning the first
// word and the (left-trimmed) remainder — mirrors utils.chop.
func chop(s string) (first, rest string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i == -1 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " \t")
}
