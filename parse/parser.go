package parse

import (
	"fmt"

	"github.com/Joker-vD/onepass-lambda-compiler/term"
)

// SyntaxError reports a malformed surface term. Pos is the byte
// offset of the offending token within the line it was scanned from
// (not across continuation lines — this grammar is small enough that
// a single-line offset, rather than the full Range/Span machinery
// used for the grammar-definition language, is enough to locate the
// problem).
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %d", e.Msg, e.Pos)
}

// Parser is a recursive-descent parser over the EBNF grammar in the
// package doc, threading one token of explicit lookahead through each
// parse_xxx call rather than keeping a prev/curr token pair on the
// receiver.
type Parser struct {
	tz     *Tokenizer
	parens int
}

// NewParser returns a Parser seeded with the first chunk of input;
// src supplies continuation lines for multi-line terms.
func NewParser(initChunk string, src LineSource) *Parser {
	return &Parser{tz: NewTokenizer(initChunk, src)}
}

// Parse parses exactly one TERM and reports an error if anything is
// left over afterward.
func (p *Parser) Parse() (term.Term, error) {
	t, tok, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	if tok != eofToken {
		return nil, &SyntaxError{Pos: p.tz.Pos(), Msg: "extraneous symbols"}
	}
	return t, nil
}

func (p *Parser) next() string {
	return p.tz.Next(p.parens != 0)
}

func (p *Parser) parseTerm() (term.Term, string, error) {
	tok := p.next()
	if tok == "λ" || tok == "\\" {
		return p.parseLambda()
	}
	return p.parseApp(tok)
}

func (p *Parser) parseLambda() (term.Term, string, error) {
	tok := p.next()
	if !IsVar(tok) {
		return nil, "", &SyntaxError{Pos: p.tz.Pos(), Msg: fmt.Sprintf("expected variable after start of lambda but found %q", tok)}
	}
	param := tok

	tok = p.next()
	if tok != "." && tok != ":" {
		return nil, "", &SyntaxError{Pos: p.tz.Pos(), Msg: fmt.Sprintf(`expected "." or ":" after lambda head but found %q`, tok)}
	}

	body, next, err := p.parseTerm()
	if err != nil {
		return nil, "", err
	}
	return term.NewLam(param, body), next, nil
}

func (p *Parser) parseApp(tok string) (term.Term, string, error) {
	fun, next, err := p.parseAtomic(tok)
	if err != nil {
		return nil, "", err
	}
	result := fun

	for IsVar(next) || next == "(" {
		arg, n, err := p.parseAtomic(next)
		if err != nil {
			return nil, "", err
		}
		result = term.NewApp(result, arg)
		next = n
	}

	return result, next, nil
}

func (p *Parser) parseAtomic(tok string) (term.Term, string, error) {
	if tok == "(" {
		p.parens++
		inner, next, err := p.parseTerm()
		if err != nil {
			return nil, "", err
		}
		if next != ")" {
			return nil, "", &SyntaxError{Pos: p.tz.Pos(), Msg: fmt.Sprintf(`expected ")" after parenthesized expression but found %q`, next)}
		}
		p.parens--
		return inner, p.next(), nil
	}

	if IsVar(tok) {
		return term.NewVar(tok), p.next(), nil
	}

	return nil, "", &SyntaxError{Pos: p.tz.Pos(), Msg: fmt.Sprintf(`expected "(" or a variable but found %q`, tok)}
}

// Parse parses a single TERM from initChunk, pulling continuation
// lines from src as needed.
func Parse(initChunk string, src LineSource) (term.Term, error) {
	return NewParser(initChunk, src).Parse()
}
