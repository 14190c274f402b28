// Package term defines the closed algebraic term representation of
// untyped λ-calculus described in the language model: Var, Lam, and
// App. Terms are immutable and finite; they are only ever shared by
// value.
package term

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// level is the precedence level used while pretty-printing a Term.
//
//	level 0: inside a lambda body or top
//	level 1: left-hand side of an application
//	level 2: right-hand side of an application
type level int

const (
	levelTop level = iota
	levelAppFun
	levelAppArg
)

// Term is a node of the λ-calculus AST. The three implementations —
// Var, Lam, and App — are the only legal shapes; any other value
// satisfying this interface is a MalformedTerm as far as the
// translator and printer are concerned.
type Term interface {
	// Accept dispatches to the matching Visit method.
	Accept(Visitor) error

	// String returns the term using the three-level precedence
	// scheme from the language model.
	String() string
}

// Visitor lets callers walk a Term without a type switch at every
// call site.
type Visitor interface {
	VisitVar(*Var) error
	VisitLam(*Lam) error
	VisitApp(*App) error
}

// Var is a use of an identifier.
type Var struct {
	Name string
}

func NewVar(name string) *Var { return &Var{Name: name} }

func (v *Var) Accept(vi Visitor) error { return vi.VisitVar(v) }
func (v *Var) String() string          { return v.Name }

// Lam is a one-argument abstraction. Param is drawn from
// [a-z_][a-zA-Z0-9_']* — callers constructing a Term by hand (rather
// than through the parser) are responsible for that invariant.
type Lam struct {
	Param string
	Body  Term
}

func NewLam(param string, body Term) *Lam { return &Lam{Param: param, Body: body} }

func (l *Lam) Accept(vi Visitor) error { return vi.VisitLam(l) }
func (l *Lam) String() string          { return render(l, levelTop, false) }

// App is an application of fun to arg.
type App struct {
	Fun Term
	Arg Term
}

func NewApp(fun, arg Term) *App { return &App{Fun: fun, Arg: arg} }

func (a *App) Accept(vi Visitor) error { return vi.VisitApp(a) }
func (a *App) String() string          { return render(a, levelTop, false) }

// MalformedTerm is reported when a node is neither Var, Lam, nor App.
// Under normal use this can only happen via a hand-rolled Term
// implementation outside this package, since Var/Lam/App are the only
// exported constructors.
type MalformedTerm struct {
	Got Term
}

func (e *MalformedTerm) Error() string {
	return fmt.Sprintf("malformed term: %T is neither Var, Lam, nor App", e.Got)
}

// String pretty-prints t using the three-level precedence scheme:
// Var is never parenthesized; Lam is parenthesized iff the
// surrounding level is >= 1; App is parenthesized iff the surrounding
// level is >= 2.
func String(t Term) string {
	return render(t, levelTop, false)
}

// Highlighted pretty-prints t the same way as String, but wraps
// parameter binders and variable occurrences in ANSI color so the
// REPL can visually separate binding sites from uses.
func Highlighted(t Term) string {
	return render(t, levelTop, true)
}

func render(t Term, lv level, highlight bool) string {
	var b strings.Builder
	w := &writer{b: &b, highlight: highlight}
	w.term(t, lv)
	return b.String()
}

type writer struct {
	b         *strings.Builder
	highlight bool
}

func (w *writer) term(t Term, lv level) {
	switch n := t.(type) {
	case *Var:
		w.variable(n.Name)
	case *Lam:
		w.lam(n, lv)
	case *App:
		w.app(n, lv)
	default:
		// A hand-rolled Term outside this package; render its
		// MalformedTerm message rather than panic.
		w.b.WriteString((&MalformedTerm{Got: t}).Error())
	}
}

func (w *writer) lam(n *Lam, lv level) {
	paren := lv >= levelAppFun
	if paren {
		w.b.WriteByte('(')
	}
	w.b.WriteString("λ")
	w.binder(n.Param)
	w.b.WriteString(". ")
	w.term(n.Body, levelTop)
	if paren {
		w.b.WriteByte(')')
	}
}

func (w *writer) app(n *App, lv level) {
	paren := lv >= levelAppArg
	if paren {
		w.b.WriteByte('(')
	}
	w.term(n.Fun, levelAppFun)
	w.b.WriteByte(' ')
	w.term(n.Arg, levelAppArg)
	if paren {
		w.b.WriteByte(')')
	}
}

func (w *writer) binder(name string) {
	if !w.highlight {
		w.b.WriteString(name)
		return
	}
	w.b.WriteString(color.New(color.FgYellow, color.Bold).Sprint(name))
}

func (w *writer) variable(name string) {
	if !w.highlight {
		w.b.WriteString(name)
		return
	}
	w.b.WriteString(color.New(color.FgCyan).Sprint(name))
}

// FreeVars returns the set of free variable names in t. It is not
// used by the translator (which discovers free variables on the fly
// while emitting code, per the single-pass design), but is useful for
// the surface tooling (REPL diagnostics, the examples runner).
func FreeVars(t Term) map[string]struct{} {
	free := make(map[string]struct{})
	collectFreeVars(t, map[string]struct{}{}, free)
	return free
}

func collectFreeVars(t Term, bound map[string]struct{}, free map[string]struct{}) {
	switch n := t.(type) {
	case *Var:
		if _, isBound := bound[n.Name]; !isBound {
			free[n.Name] = struct{}{}
		}
	case *Lam:
		inner := make(map[string]struct{}, len(bound)+1)
		for k := range bound {
			inner[k] = struct{}{}
		}
		inner[n.Param] = struct{}{}
		collectFreeVars(n.Body, inner, free)
	case *App:
		collectFreeVars(n.Fun, bound, free)
		collectFreeVars(n.Arg, bound, free)
	}
}

// Equal compares two Terms for structural (not α-) equality.
func Equal(a, b Term) bool {
	switch x := a.(type) {
	case *Var:
		y, ok := b.(*Var)
		return ok && x.Name == y.Name
	case *Lam:
		y, ok := b.(*Lam)
		return ok && x.Param == y.Param && Equal(x.Body, y.Body)
	case *App:
		y, ok := b.(*App)
		return ok && Equal(x.Fun, y.Fun) && Equal(x.Arg, y.Arg)
	default:
		return false
	}
}
