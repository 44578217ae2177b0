package parser

import (
	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/lexer"
	"go.hammerjs.dev/hammer/internal/js/token"
)

// Parser is a recursive-descent ES5 parser driving a Builder. It is
// generic over the Builder's factory methods only in spirit — Go has no
// template parameter here, but every grammar production is written purely
// against Builder's public surface, so a different Builder implementation
// (e.g. a free-variable analyzer) could replace it without touching this
// file's control flow, matching spec.md §4.2/§9.
type Parser struct {
	lex *lexer.Lexer
	b   *Builder

	tokens []token.Token
	pos    int

	failed    bool
	errorLine int
}

// New returns a Parser reading from lex and building into b.
func New(lex *lexer.Lexer, b *Builder) *Parser {
	return &Parser{lex: lex, b: b}
}

// Failed reports whether a syntax or lexical error has occurred.
func (p *Parser) Failed() bool { return p.failed }

// ErrorLine returns the first failing line, valid only after Failed.
func (p *Parser) ErrorLine() int { return p.errorLine }

func (p *Parser) fail(line int) ast.Handle {
	if !p.failed {
		p.failed = true
		p.errorLine = line
	}
	return ast.NoNode
}

func (p *Parser) fetch(n int) {
	for len(p.tokens) <= n {
		p.tokens = append(p.tokens, p.lex.Next())
	}
}

func (p *Parser) cur() token.Token {
	p.fetch(p.pos)
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(off int) token.Token {
	p.fetch(p.pos + off)
	return p.tokens[p.pos+off]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	p.pos++
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) (token.Token, bool) {
	if t, ok := p.accept(k); ok {
		return t, true
	}
	p.fail(p.cur().Start.Line)
	return token.Token{}, false
}

// expectSemicolon implements automatic semicolon insertion (spec.md
// §4.1/§4.2): a real `;` is always accepted; otherwise ASI fires at `}`,
// at end-of-input, or when the current token was preceded by a line
// terminator.
func (p *Parser) expectSemicolon() bool {
	if _, ok := p.accept(token.Semicolon); ok {
		return true
	}
	if p.at(token.RBrace) || p.at(token.EOF) || p.cur().PrecededByNewline {
		return true
	}
	p.fail(p.cur().Start.Line)
	return false
}

// ParseProgram parses a complete source file into a SourceElements node
// (the eventual ESTree Program root).
func (p *Parser) ParseProgram() ast.Handle {
	start := p.cur().Start
	var body []ast.Handle
	for !p.at(token.EOF) && !p.failed {
		body = append(body, p.parseSourceElement())
	}
	if p.lex.Errored() && !p.failed {
		p.fail(p.lex.ErrorLine())
	}
	if p.failed {
		return ast.NoNode
	}
	return p.b.CreateSourceElements(body, start, p.cur().End)
}

func (p *Parser) parseSourceElement() ast.Handle {
	if p.at(token.Function) {
		return p.parseFunctionDeclaration()
	}
	return p.parseStatement()
}
