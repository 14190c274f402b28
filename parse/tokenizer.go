// Package parse implements the surface syntax accepted by the driver,
// as fixed by the EBNF grammar:
//
//	TERM  ::= LAM | APP
//	LAM   ::= ('λ' | '\') VAR ('.' | ':') TERM
//	APP   ::= ATOM { ATOM }
//	ATOM  ::= VAR | '(' TERM ')'
//	VAR    ~  [a-z_][a-zA-Z0-9_']*
//
// It is a hand-rolled recursive-descent parser with one token of
// explicit lookahead, in the style of the teacher's own PEG-generated
// parsers — but written by hand, since this grammar is small and
// fixed rather than user-authored, matching the shape of
// original_source/olc_parser.py.
package parse

import "strings"

const eofToken = "EOF"

func isVarStart(ch byte) bool { return (ch >= 'a' && ch <= 'z') || ch == '_' }

func isVarCont(ch byte) bool {
	return isVarStart(ch) || ch == '\'' || (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'Z')
}

// IsVar reports whether token looks like a variable, i.e. whether it
// could have been produced by the VAR production. Used by the REPL to
// validate `:s NAME` and `:f NAME` arguments.
func IsVar(token string) bool {
	if token == "" || !isVarStart(token[0]) {
		return false
	}
	for i := 1; i < len(token); i++ {
		if !isVarCont(token[i]) {
			return false
		}
	}
	return true
}

// LineSource supplies additional input when a term's parentheses are
// still unbalanced at end of the current line. continued is true when
// the tokenizer is mid-term (prompt should read "… continuing", e.g.
// "." instead of ">"); an empty returned line aborts the read, same as
// Ctrl-D on stdin in the original tool.
type LineSource func(continued bool) (line string, ok bool)

// Tokenizer scans one token at a time out of a string, pulling more
// input from a LineSource when parentheses are open and input runs
// out — this is how multi-line terms are supported while a single
// [ENTER] still terminates input at top level.
type Tokenizer struct {
	src     LineSource
	s       string
	pos     int
	prevPos int
}

// NewTokenizer returns a Tokenizer seeded with the first chunk of
// input; src supplies continuation lines.
func NewTokenizer(initChunk string, src LineSource) *Tokenizer {
	return &Tokenizer{src: src, s: initChunk}
}

// Pos returns the byte offset of the most recently returned token,
// for error reporting.
func (tz *Tokenizer) Pos() int { return tz.prevPos }

func (tz *Tokenizer) skipWS() {
	for tz.pos < len(tz.s) {
		switch tz.s[tz.pos] {
		case '\t', '\r', ' ', '\v', '\f':
			tz.pos++
		default:
			return
		}
	}
}

// Next returns the next token. continueLine controls whether running
// out of input should pull another line (continueLine is normally
// "parenthesis nesting > 0", passed in by Parser). "EOF" is returned
// once input truly ends; since variables can never start with
// uppercase, "EOF" can never collide with a real token.
func (tz *Tokenizer) Next(continueLine bool) string {
	tz.skipWS()
	tz.prevPos = tz.pos

	if tz.pos == len(tz.s) {
		if !continueLine {
			return eofToken
		}
		line, ok := tz.src(true)
		if !ok {
			return eofToken
		}
		tz.s = line
		tz.pos = 0
		tz.prevPos = 0
		return tz.Next(false)
	}

	start := tz.pos
	if isVarStart(tz.s[start]) {
		end := start + 1
		for end < len(tz.s) && isVarCont(tz.s[end]) {
			end++
		}
		tz.pos = end
		return tz.s[start:end]
	}

	// λ is multi-byte in UTF-8; everything else in the grammar
	// (\, ., :, (, )) is a single ASCII byte, so special-case the
	// Greek letter and otherwise advance by one byte.
	if strings.HasPrefix(tz.s[start:], "λ") {
		tz.pos = start + len("λ")
		return "λ"
	}

	tz.pos = start + 1
	return tz.s[start:tz.pos]
}
