// Package emit provides the append-only, indentation-aware text
// buffer the translator writes C source into.
//
// The translator logically has two streams — a current-position
// stream for value-construction statements and a top-level stream for
// lifted lambda routines — but both are realized as one Buffer: a
// lifted routine is written to the buffer in its entirety before the
// surrounding statement is returned to its caller, so a single
// append-only buffer stays correct despite the logical two-stream
// structure.
package emit

import (
	"fmt"
	"strings"
)

// Buffer is an indentation-tracking text accumulator.
type Buffer struct {
	b      strings.Builder
	indent int
	step   string
}

// NewBuffer returns a Buffer that indents nested blocks by step
// (e.g. "    " or "\t").
func NewBuffer(step string) *Buffer {
	return &Buffer{step: step}
}

// Indent increases the indentation level for subsequent lines.
func (b *Buffer) Indent() { b.indent++ }

// Dedent decreases the indentation level for subsequent lines.
func (b *Buffer) Dedent() {
	if b.indent > 0 {
		b.indent--
	}
}

// Line writes s at the current indentation, followed by a newline.
func (b *Buffer) Line(s string) {
	b.writeIndent()
	b.b.WriteString(s)
	b.b.WriteByte('\n')
}

// Linef is Line with fmt-style formatting.
func (b *Buffer) Linef(format string, args ...any) {
	b.Line(fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (b *Buffer) Blank() { b.b.WriteByte('\n') }

// Raw writes s verbatim, with no indentation or trailing newline
// added — used to splice in an already-formatted block such as the
// embedded runtime template.
func (b *Buffer) Raw(s string) { b.b.WriteString(s) }

func (b *Buffer) writeIndent() {
	for i := 0; i < b.indent; i++ {
		b.b.WriteString(b.step)
	}
}

// String returns the accumulated text.
func (b *Buffer) String() string { return b.b.String() }

// Len returns the number of bytes accumulated so far.
func (b *Buffer) Len() int { return b.b.Len() }
