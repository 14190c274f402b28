package translator

import (
	"fmt"
	"strings"
)

// UnboundVariable is reported when the top-level term is not closed.
// Its payload is the full set of offending names, in first-encounter
// order, discovered once the synthetic outer scope is resolved.
type UnboundVariable struct {
	Names []string
}

func (e *UnboundVariable) Error() string {
	return fmt.Sprintf("unbound variables: %s", strings.Join(e.Names, ", "))
}

// EmissionInvariant is reserved for debug assertions about the
// translator's own bookkeeping (scope stack balance, capture-slot
// density). It must never fire for a well-formed closed Term; seeing
// one surfaced to a caller indicates a bug in the translator itself,
// not in the input.
type EmissionInvariant struct {
	Msg string
}

func (e *EmissionInvariant) Error() string {
	return "emission invariant violated: " + e.Msg
}

// ErrConsumed is returned by Translate when called on a Translator
// whose Translate has already been called, whether or not that first
// call succeeded. A Translator is a one-shot
// builder (see package doc); reuse is a programming error.
var ErrConsumed = fmt.Errorf("translator: Translate called twice on the same Translator")

// panicErr wraps an error so Translate's recover can distinguish an
// intentional abort (MalformedTerm, EmissionInvariant) from a genuine
// runtime panic, which it re-raises rather than swallows.
type panicErr struct{ err error }
