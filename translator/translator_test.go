package translator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joker-vD/onepass-lambda-compiler/term"
)

func v(name string) term.Term               { return term.NewVar(name) }
func lam(param string, body term.Term) term.Term { return term.NewLam(param, body) }
func app(fun, arg term.Term) term.Term       { return term.NewApp(fun, arg) }

func TestTranslateClosedIdentity(t *testing.T) {
	id := lam("x", v("x"))

	out, err := Translate(id)
	require.NoError(t, err)

	assert.Contains(t, out, "struct Value {")
	assert.Contains(t, out, "Lambda fun;")
	assert.Contains(t, out, "Value lambda_0(Value* env, Value arg_x) {")
	assert.Contains(t, out, "return arg_x;")
	assert.Contains(t, out, "Value body(Value* env, Value _) {")
	// Closed term, no captures: the environment pointer is NULL.
	assert.Contains(t, out, ".env = NULL")
	assert.Contains(t, out, "int main(int argc, char **argv) {")
	assert.Contains(t, out, "show(body(NULL, dummy), 0);")
}

func TestTranslateRejectsOpenTerm(t *testing.T) {
	// λx. λy. x y z -- z is unbound.
	open := lam("x", lam("y", app(app(v("x"), v("y")), v("z"))))

	_, err := Translate(open)
	require.Error(t, err)

	var ub *UnboundVariable
	require.ErrorAs(t, err, &ub)
	assert.Equal(t, []string{"z"}, ub.Names)
}

func TestCaptureSlotStability(t *testing.T) {
	// λk. λx. k x k -- k is captured exactly once, reused on its
	// second occurrence, and its value comes from the outer
	// lambda's own parameter access.
	tm := lam("k", lam("x", app(app(v("k"), v("x")), v("k"))))

	out, err := Translate(tm)
	require.NoError(t, err)

	// The inner routine captures exactly one slot (k), so every
	// access to that capture must be env[0] -- never env[1], since
	// the same free variable is memoized after its first occurrence.
	// "env[0]" occurs six times: three in the inner routine's body
	// (env[0].fun, env[0].env, and the second k argument), once in the
	// closure build's "tmpenv[0] = arg_k", and twice in the inner
	// routine's show branch (one show(v.env[0], ...) per use of k).
	assert.Equal(t, 6, strings.Count(out, "env[0]"))
	assert.NotContains(t, out, "env[1]")
	assert.Contains(t, out, "tmpenv[0] = arg_k")
}

func TestFlatClosureLayoutTwoCaptures(t *testing.T) {
	// λa. λb. λx. a x b -- the innermost routine captures a then b,
	// in first-encounter (left-to-right, App's fun before arg) order.
	innermost := lam("x", app(app(v("a"), v("x")), v("b")))
	closed := lam("a", lam("b", innermost))

	out, err := Translate(closed)
	require.NoError(t, err)

	assert.Contains(t, out, "env[0]")
	assert.Contains(t, out, "env[1]")
	assert.Contains(t, out, "2 * sizeof(Value)")
}

func TestAppTieBreakFunSideClaimsLowerSlot(t *testing.T) {
	// λa. λb. λx. (b a) (a b) -- the innermost lambda uses both a and
	// b on each side of its outer application. The function side
	// (b a) is translated first, so b claims slot 0 and a slot 1;
	// translating the argument side (a b) first would have given the
	// opposite order. In the enclosing λb, b is the parameter and a
	// is that lambda's own capture env[0].
	innermost := lam("x", app(app(v("b"), v("a")), app(v("a"), v("b"))))
	closed := lam("a", lam("b", innermost))

	out, err := Translate(closed)
	require.NoError(t, err)
	assert.Contains(t, out, "tmpenv[0] = arg_b, tmpenv[1] = env[0]")
}

func TestMangling(t *testing.T) {
	id := lam("_", v("_"))
	out, err := Translate(id)
	require.NoError(t, err)
	assert.Contains(t, out, "arg__x5F")

	prime := lam("x'", v("x'"))
	out, err = Translate(prime)
	require.NoError(t, err)
	assert.Contains(t, out, "arg_x_x27")
}

func TestDeterminism(t *testing.T) {
	churchFour := lam("s", lam("z", app(v("s"), app(v("s"), app(v("s"), app(v("s"), v("z")))))))

	out1, err := Translate(churchFour)
	require.NoError(t, err)
	out2, err := Translate(churchFour)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestTranslatorIsOneShot(t *testing.T) {
	tr := New()
	_, err := tr.Translate(v("x"))
	require.Error(t, err) // unbound, but that still consumes the Translator

	_, err = tr.Translate(lam("x", v("x")))
	assert.ErrorIs(t, err, ErrConsumed)
}

func TestResidualPrinterTextForConstantFunction(t *testing.T) {
	// λx. λy. x -- closed constant function; the outer lambda has no
	// captures, the inner one captures x.
	constFn := lam("x", lam("y", v("x")))

	out, err := Translate(constFn)
	require.NoError(t, err)

	// y is the inner routine's own parameter, not a capture: printed
	// as a literal in the lambda header, never shown via a runtime
	// env lookup.
	assert.Contains(t, out, `printf("\xce\xbb%s. ", "y");`)
	// x is captured by the inner lambda from the outer one.
	assert.Contains(t, out, "show(v.env[0], 0);")
}

func TestMalformedTermRejectsUnknownNode(t *testing.T) {
	_, err := Translate(fakeTerm{})

	var malformed *term.MalformedTerm
	require.ErrorAs(t, err, &malformed)
}

// fakeTerm satisfies term.Term without being Var, Lam, or App, to
// exercise the MalformedTerm path without reaching into the term
// package's internals.
type fakeTerm struct{}

func (fakeTerm) Accept(v term.Visitor) error { return nil }
func (fakeTerm) String() string              { return "<fake>" }
