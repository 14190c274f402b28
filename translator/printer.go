package translator

import (
	"fmt"

	"github.com/Joker-vD/onepass-lambda-compiler/internal/emit"
	"github.com/Joker-vD/onepass-lambda-compiler/term"
)

// writeShow emits the single C function `show(Value v, int level)`
// consumed by main to render the residual value. It dispatches on
// v.fun compared against every recorded routine pointer — function
// pointers aren't switchable constants in C, since linkers exist, so
// this is a linear chain of ifs, not a switch.
//
// For each branch it walks the *original* Term at generation time
// using the same three-level precedence scheme as the source-side
// printer: the residual form is the original syntactic body, not its
// reduced form, with captured variables substituted by a runtime
// show() call and everything else printed as a literal name.
func writeShow(buf *emit.Buffer, entries []ShowEntry) {
	buf.Line("void show(Value v, int level) {")
	buf.Indent()

	for _, e := range entries {
		inv := make(map[string]string, len(e.Captures))
		for slot, name := range e.Captures {
			inv[name] = fmt.Sprintf("v.env[%d]", slot)
		}

		buf.Linef("if (v.fun == %s) {", e.Routine)
		buf.Indent()
		buf.Line(`if (level) { printf("("); }`)
		writeShowMeat(buf, e.Term, inv, 0)
		buf.Line(`if (level) { printf(")"); }`)
		buf.Line("return;")
		buf.Dedent()
		buf.Line("}")
	}

	// Unreachable for well-formed closed inputs: every Value ever
	// constructed carries a routine pointer recorded above.
	buf.Line(`fprintf(stderr, "unknown function pointer: ");`)
	buf.Line("unsigned char *funptr = (unsigned char *)&v.fun;")
	buf.Line("for (size_t i = 0; i < sizeof(Lambda); i++) {")
	buf.Indent()
	buf.Line(`fprintf(stderr, "%02x", funptr[i]);`)
	buf.Dedent()
	buf.Line("}")
	buf.Line(`fprintf(stderr, "\n");`)
	buf.Line("exit(1);")

	buf.Dedent()
	buf.Line("}")
	buf.Blank()
}

// writeShowMeat walks t at generation time, emitting the C statements
// that print it at runtime. level tracks the same three-level
// precedence scheme as term.String, checked both here (to decide
// whether to emit the C code for parens at all) and inside the
// emitted code itself (the "if (level) { ... }" guard above, which
// handles the level-0-vs-not distinction for the whole value).
func writeShowMeat(buf *emit.Buffer, t term.Term, inv map[string]string, lv int) {
	switch n := t.(type) {
	case *term.Var:
		if acc, ok := inv[n.Name]; ok {
			buf.Linef("show(%s, %d);", acc, lv)
		} else {
			buf.Linef(`printf("%%s", "%s");`, n.Name)
		}

	case *term.App:
		if lv > 1 {
			buf.Line(`printf("(");`)
		}
		writeShowMeat(buf, n.Fun, inv, 1)
		buf.Line(`printf(" ");`)
		writeShowMeat(buf, n.Arg, inv, 2)
		if lv > 1 {
			buf.Line(`printf(")");`)
		}

	case *term.Lam:
		if lv > 0 {
			buf.Line(`printf("(");`)
		}
		buf.Linef(`printf("\xce\xbb%%s. ", "%s");`, n.Param)
		writeShowMeat(buf, n.Body, inv, 0)
		if lv > 0 {
			buf.Line(`printf(")");`)
		}

	default:
		panic(panicErr{&term.MalformedTerm{Got: t}})
	}
}
