// Package translator implements the closure-conversion pass that
// turns a closed λ-calculus term into a self-contained C translation
// unit. See the package-level design notes in SPEC_FULL.md §4.2 for
// the algorithm; this file is a direct transcription of it.
//
// The translator fuses three concerns in one downward pass over the
// term: free-variable discovery (via a memoized per-scope lookup),
// closure-record layout (assigning each free variable a stable,
// dense, 0-based environment slot), and code emission split between
// the routine currently being built and the top-level stream of
// already-lifted routines.
package translator

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Joker-vD/onepass-lambda-compiler/internal/emit"
	"github.com/Joker-vD/onepass-lambda-compiler/internal/mangle"
	"github.com/Joker-vD/onepass-lambda-compiler/term"
)

//go:embed runtime_prelude.c
var runtimePrelude string

//go:embed runtime_epilogue.c
var runtimeEpilogue string

// ShowEntry records everything the residual printer generator needs
// about one lifted lambda: its original Term (walked at generation
// time to decide what's printf'd literally vs. shown recursively),
// the routine name it was lifted to, and the captures map recorded
// when its scope was popped.
type ShowEntry struct {
	Term     term.Term
	Routine  string
	Captures []string // Captures[k] is the source name bound to slot k.
}

// scope is the per-lambda state described in the data model: env maps
// a source name to the C expression that evaluates to its Value at
// runtime, and captures records, in first-encounter order, every free
// variable of the current body.
type scope struct {
	env      map[string]string
	captures []string
}

// Translator closure-converts one Term into one C translation unit.
// It is a one-shot builder: call Translate at most once. Reusing a
// Translator is a programming error (ErrConsumed), not a silent
// correctness issue, because its counters and scope stack carry state
// across Translate calls that would corrupt the second translation.
type Translator struct {
	buf         *emit.Buffer
	counter     mangle.Counter
	scopes      []*scope
	showEntries []ShowEntry
	consumed    bool
}

// New returns a fresh, ready-to-use Translator.
func New() *Translator {
	return &Translator{}
}

// Translate closure-converts top into a complete C translation unit.
//
// top is treated as the body of an invisible outer lambda with a
// synthetic parameter; if that produces any captures, the term was
// not closed and UnboundVariable is returned. Otherwise emission is
// total: Translate always succeeds on a well-formed closed Term.
func (t *Translator) Translate(top term.Term) (out string, err error) {
	if t.consumed {
		return "", ErrConsumed
	}
	t.consumed = true

	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(panicErr); ok {
				out, err = "", pe.err
				return
			}
			panic(r)
		}
	}()

	t.buf = emit.NewBuffer("    ")
	t.buf.Raw(runtimePrelude)
	t.buf.Blank()
	t.buf.Linef("// %s", term.String(top))
	t.buf.Blank()

	t.push("", "_")
	bodyVal, bodyStmts := t.translateTerm(top)

	t.buf.Line("Value body(Value* env, Value _) {")
	t.buf.Indent()
	for _, stmt := range bodyStmts {
		t.buf.Line(stmt)
	}
	t.buf.Linef("return %s;", bodyVal)
	t.buf.Dedent()
	t.buf.Line("}")
	t.buf.Blank()

	leftover := t.pop()
	if len(t.scopes) != 0 {
		panic(panicErr{&EmissionInvariant{Msg: "scope stack not empty after translating the top-level term"}})
	}
	if len(leftover) > 0 {
		return "", &UnboundVariable{Names: leftover}
	}

	writeShow(t.buf, t.showEntries)
	t.buf.Raw(runtimeEpilogue)

	return t.buf.String(), nil
}

// translateTerm is the recursive descent at the heart of the pass. It
// returns a C expression that evaluates to the term's Value, and the
// list of C statements that must run before that expression is valid
// (in source order).
func (t *Translator) translateTerm(tm term.Term) (string, []string) {
	switch n := tm.(type) {
	case *term.Var:
		return t.translateVar(n), nil
	case *term.Lam:
		return t.translateLam(n)
	case *term.App:
		return t.translateApp(n)
	default:
		panic(panicErr{&term.MalformedTerm{Got: tm}})
	}
}

// translateVar consults the current scope. If the name is already
// bound, its access expression is returned unchanged; otherwise it is
// a newly discovered free variable, assigned the next dense capture
// slot and memoized so later occurrences in the same body reuse it.
func (t *Translator) translateVar(v *term.Var) string {
	return t.lookupVar(v.Name)
}

func (t *Translator) lookupVar(name string) string {
	s := t.top()
	if acc, ok := s.env[name]; ok {
		return acc
	}
	slot := len(s.captures)
	acc := fmt.Sprintf("env[%d]", slot)
	s.env[name] = acc
	s.captures = append(s.captures, name)
	return acc
}

// translateLam lifts l's body to a fresh top-level C routine, then
// builds the Value that packages that routine with a flat,
// heap-allocated copy of every variable it captured.
func (t *Translator) translateLam(l *term.Lam) (string, []string) {
	routine := t.counter.NextRoutine()
	argName := mangle.ArgName(l.Param)

	t.push(l.Param, argName)
	bodyVal, bodyStmts := t.translateTerm(l.Body)

	t.buf.Linef("Value %s(Value* env, Value %s) {", routine, argName)
	t.buf.Indent()
	for _, stmt := range bodyStmts {
		t.buf.Line(stmt)
	}
	t.buf.Linef("return %s;", bodyVal)
	t.buf.Dedent()
	t.buf.Line("}")
	t.buf.Blank()

	captures := t.pop()
	t.showEntries = append(t.showEntries, ShowEntry{Term: l, Routine: routine, Captures: captures})

	return t.buildLambdaValue(routine, captures)
}

// buildLambdaValue constructs the Value for a just-lifted routine.
// Crucially, each captured name is looked up in the scope that is now
// on top — the lambda's enclosing scope — which is how a free
// variable of a nested lambda propagates outward: looking it up here
// may itself record a new capture in the enclosing scope.
func (t *Translator) buildLambdaValue(routine string, captures []string) (string, []string) {
	value := t.counter.NextTemp()

	accesses := make([]string, len(captures))
	for i, name := range captures {
		accesses[i] = t.lookupVar(name)
	}

	var env string
	if len(accesses) == 0 {
		env = "NULL"
	} else {
		memSize := fmt.Sprintf("%d * sizeof(Value)", len(accesses))
		parts := make([]string, 0, len(accesses)+2)
		parts = append(parts, fmt.Sprintf("tmpenv = malloc(%s)", memSize))
		parts = append(parts, fmt.Sprintf("heap_usage += %s", memSize))
		for i, acc := range accesses {
			parts = append(parts, fmt.Sprintf("tmpenv[%d] = %s", i, acc))
		}
		parts = append(parts, "tmpenv")
		env = "(" + strings.Join(parts, ", ") + ")"
	}

	stmt := fmt.Sprintf("Value %s = { .fun = %s, .env = %s };", value, routine, env)
	return value, []string{stmt}
}

// translateApp translates fun then arg, in that order — the order is
// observable because it determines which side's free variables claim
// the lower capture slots when the same free variable appears on both
// sides of an application.
func (t *Translator) translateApp(a *term.App) (string, []string) {
	funVal, funStmts := t.translateTerm(a.Fun)
	argVal, argStmts := t.translateTerm(a.Arg)

	value := t.counter.NextTemp()
	callStmt := fmt.Sprintf("Value %s = %s.fun(%s.env, %s);", value, funVal, funVal, argVal)

	stmts := make([]string, 0, len(funStmts)+len(argStmts)+1)
	stmts = append(stmts, funStmts...)
	stmts = append(stmts, argStmts...)
	stmts = append(stmts, callStmt)
	return value, stmts
}

func (t *Translator) push(param, access string) {
	t.scopes = append(t.scopes, &scope{env: map[string]string{param: access}})
}

func (t *Translator) pop() []string {
	n := len(t.scopes)
	s := t.scopes[n-1]
	t.scopes = t.scopes[:n-1]
	return s.captures
}

func (t *Translator) top() *scope {
	return t.scopes[len(t.scopes)-1]
}

// Translate is a convenience wrapper for the common case of a single
// one-shot translation.
func Translate(top term.Term) (string, error) {
	return New().Translate(top)
}
