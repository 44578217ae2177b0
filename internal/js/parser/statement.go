package parser

import (
	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/token"
)

func (p *Parser) parseStatement() ast.Handle {
	if p.failed {
		return ast.NoNode
	}
	switch p.cur().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Var:
		return p.parseVariableStatement()
	case token.Const:
		return p.parseConstStatement()
	case token.Semicolon:
		t := p.advance()
		return p.b.CreateEmptyStatement(t.Start, t.End)
	case token.If:
		return p.parseIf()
	case token.Do:
		return p.parseDoWhile()
	case token.While:
		return p.parseWhile()
	case token.For:
		return p.parseFor()
	case token.Continue:
		return p.parseContinue()
	case token.Break:
		return p.parseBreak()
	case token.Return:
		return p.parseReturn()
	case token.With:
		return p.parseWith()
	case token.Switch:
		return p.parseSwitch()
	case token.Throw:
		return p.parseThrow()
	case token.Try:
		return p.parseTry()
	case token.Debugger:
		t := p.advance()
		p.expectSemicolon()
		return p.b.CreateDebugger(t.Start, p.prevEnd())
	case token.Function:
		// A FunctionDeclaration at statement position, e.g. nested
		// inside a block's SourceElements.
		return p.parseFunctionDeclaration()
	case token.Reserved:
		p.fail(p.cur().Start.Line)
		return ast.NoNode
	case token.Ident:
		if p.peekAt(1).Kind == token.Colon {
			return p.parseLabelledStatement()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlock() ast.Handle {
	start := p.cur().Start
	p.advance() // '{'
	var body []ast.Handle
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.failed {
		body = append(body, p.parseSourceElement())
	}
	p.expect(token.RBrace)
	return p.b.CreateBlock(body, start, p.prevEnd())
}

func (p *Parser) parseVariableStatement() ast.Handle {
	start := p.cur().Start
	p.advance() // 'var'
	decls := p.parseDeclaratorList(false, false, false)
	p.expectSemicolon()
	return p.b.CreateVariableDeclaration(decls, start, p.prevEnd())
}

func (p *Parser) parseConstStatement() ast.Handle {
	start := p.cur().Start
	p.advance() // 'const'
	decls := p.parseDeclaratorList(true, false, false)
	p.expectSemicolon()
	return p.b.CreateConstStatement(decls, start, p.prevEnd())
}

// parseDeclaratorList parses one or more comma-separated declarators. noIn
// suppresses the `in` operator in each initializer (spec.md §4.2's no-in
// context, which spans a for-header's entire init clause). When
// singleOnly is true, parsing stops after the first declarator without
// consuming a comma — used for the for-in disambiguation probe, since a
// `for (var ... in ...)` head permits only one declarator.
func (p *Parser) parseDeclaratorList(isConst, noIn, singleOnly bool) []ast.Handle {
	var decls []ast.Handle
	for {
		start := p.cur().Start
		name, ok := p.expect(token.Ident)
		if !ok {
			return decls
		}
		var init ast.Handle = ast.NoNode
		if _, ok := p.accept(token.Assign); ok {
			init = p.parseAssignment(noIn)
		}
		decls = append(decls, p.b.CreateVariableDeclarator(isConst, name.Text, init, start, p.prevEnd()))
		if singleOnly {
			return decls
		}
		if _, ok := p.accept(token.Comma); !ok {
			return decls
		}
	}
}

func (p *Parser) parseIf() ast.Handle {
	start := p.cur().Start
	p.advance() // 'if'
	p.expect(token.LParen)
	test := p.parseExpression(false)
	p.expect(token.RParen)
	consequent := p.parseStatement()
	var alternate ast.Handle = ast.NoNode
	if _, ok := p.accept(token.Else); ok {
		alternate = p.parseStatement()
	}
	return p.b.CreateIf(test, consequent, alternate, start, p.prevEnd())
}

func (p *Parser) parseDoWhile() ast.Handle {
	start := p.cur().Start
	p.advance() // 'do'
	body := p.parseStatement()
	p.expect(token.While)
	p.expect(token.LParen)
	test := p.parseExpression(false)
	p.expect(token.RParen)
	p.expectSemicolon()
	return p.b.CreateDoWhile(body, test, start, p.prevEnd())
}

func (p *Parser) parseWhile() ast.Handle {
	start := p.cur().Start
	p.advance() // 'while'
	p.expect(token.LParen)
	test := p.parseExpression(false)
	p.expect(token.RParen)
	body := p.parseStatement()
	return p.b.CreateWhile(test, body, start, p.prevEnd())
}

// parseFor disambiguates a C-style `for` from `for…in` per spec.md §4.2:
// parse an optional `var` then one init expression in no-in context, then
// check for `in`.
func (p *Parser) parseFor() ast.Handle {
	start := p.cur().Start
	p.advance() // 'for'
	p.expect(token.LParen)

	if _, ok := p.accept(token.Var); ok {
		first := p.parseDeclaratorList(false, true, true)
		if _, ok := p.accept(token.In); ok {
			decl := p.b.CreateVariableDeclaration(first, start, p.prevEnd())
			right := p.parseExpression(false)
			p.expect(token.RParen)
			body := p.parseStatement()
			return p.b.CreateForIn(decl, right, body, start, p.prevEnd())
		}
		// Not a for-in after all: continue the declarator list (still
		// inside the no-in init clause) for the C-style form.
		rest := p.finishDeclaratorListAfterForIn(false)
		all := append(first, rest...)
		initDecl := p.b.CreateVariableDeclaration(all, start, p.prevEnd())
		p.expect(token.Semicolon)
		return p.finishCStyleFor(start, initDecl)
	}

	var init ast.Handle = ast.NoNode
	if !p.at(token.Semicolon) {
		init = p.parseExpression(true)
		if _, ok := p.accept(token.In); ok {
			right := p.parseExpression(false)
			p.expect(token.RParen)
			body := p.parseStatement()
			return p.b.CreateForIn(init, right, body, start, p.prevEnd())
		}
	}
	p.expect(token.Semicolon)
	return p.finishCStyleFor(start, init)
}

// finishDeclaratorListAfterForIn continues a var-declarator list when the
// for-in disambiguation check failed and additional comma-separated
// declarators remain (a C-style `for (var i=0, j=1; ...)`).
func (p *Parser) finishDeclaratorListAfterForIn(isConst bool) []ast.Handle {
	if _, ok := p.accept(token.Comma); !ok {
		return nil
	}
	return p.parseDeclaratorList(isConst, true, false)
}

func (p *Parser) finishCStyleFor(start token.Position, init ast.Handle) ast.Handle {
	var test ast.Handle = ast.NoNode
	if !p.at(token.Semicolon) {
		test = p.parseExpression(false)
	}
	p.expect(token.Semicolon)
	var update ast.Handle = ast.NoNode
	if !p.at(token.RParen) {
		update = p.parseExpression(false)
	}
	p.expect(token.RParen)
	body := p.parseStatement()
	return p.b.CreateFor(init, test, update, body, start, p.prevEnd())
}

func (p *Parser) parseContinue() ast.Handle {
	start := p.cur().Start
	p.advance()
	label := ""
	if !p.cur().PrecededByNewline {
		if t, ok := p.accept(token.Ident); ok {
			label = t.Text
		}
	}
	p.expectSemicolon()
	return p.b.CreateContinue(label, start, p.prevEnd())
}

func (p *Parser) parseBreak() ast.Handle {
	start := p.cur().Start
	p.advance()
	label := ""
	if !p.cur().PrecededByNewline {
		if t, ok := p.accept(token.Ident); ok {
			label = t.Text
		}
	}
	p.expectSemicolon()
	return p.b.CreateBreak(label, start, p.prevEnd())
}

// parseReturn applies ASI's argument-suppression rule (spec.md §4.1): a
// line terminator between `return` and what follows forces an empty
// return.
func (p *Parser) parseReturn() ast.Handle {
	start := p.cur().Start
	p.advance()
	var argument ast.Handle = ast.NoNode
	if !p.cur().PrecededByNewline && !p.at(token.Semicolon) && !p.at(token.RBrace) && !p.at(token.EOF) {
		argument = p.parseExpression(false)
	}
	p.expectSemicolon()
	return p.b.CreateReturn(argument, start, p.prevEnd())
}

func (p *Parser) parseWith() ast.Handle {
	start := p.cur().Start
	p.advance()
	p.expect(token.LParen)
	object := p.parseExpression(false)
	p.expect(token.RParen)
	body := p.parseStatement()
	return p.b.CreateWith(object, body, start, p.prevEnd())
}

func (p *Parser) parseSwitch() ast.Handle {
	start := p.cur().Start
	p.advance()
	p.expect(token.LParen)
	discriminant := p.parseExpression(false)
	p.expect(token.RParen)
	p.expect(token.LBrace)

	var pre, post []ast.Handle
	var defaultClause ast.Handle = ast.NoNode
	seenDefault := false
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.failed {
		switch p.cur().Kind {
		case token.Case:
			clauseStart := p.cur().Start
			p.advance()
			test := p.parseExpression(false)
			p.expect(token.Colon)
			body := p.parseClauseBody()
			clause := p.b.CreateClause(test, body, clauseStart, p.prevEnd())
			if seenDefault {
				post = append(post, clause)
			} else {
				pre = append(pre, clause)
			}
		case token.Default:
			clauseStart := p.cur().Start
			p.advance()
			p.expect(token.Colon)
			body := p.parseClauseBody()
			defaultClause = p.b.CreateClause(ast.NoNode, body, clauseStart, p.prevEnd())
			seenDefault = true
		default:
			p.fail(p.cur().Start.Line)
			return ast.NoNode
		}
	}
	p.expect(token.RBrace)
	return p.b.CreateSwitch(discriminant, pre, defaultClause, post, start, p.prevEnd())
}

func (p *Parser) parseClauseBody() []ast.Handle {
	var body []ast.Handle
	for !p.at(token.Case) && !p.at(token.Default) && !p.at(token.RBrace) && !p.at(token.EOF) && !p.failed {
		body = append(body, p.parseSourceElement())
	}
	return body
}

func (p *Parser) parseThrow() ast.Handle {
	start := p.cur().Start
	p.advance()
	argument := p.parseExpression(false)
	p.expectSemicolon()
	return p.b.CreateThrow(argument, start, p.prevEnd())
}

// parseTry requires at least one of catch/finally per spec.md §4.2.
func (p *Parser) parseTry() ast.Handle {
	start := p.cur().Start
	p.advance()
	block := p.parseBlock()

	catchParam := ""
	var handlerBody ast.Handle = ast.NoNode
	if _, ok := p.accept(token.Catch); ok {
		p.expect(token.LParen)
		if t, ok := p.expect(token.Ident); ok {
			catchParam = t.Text
		}
		p.expect(token.RParen)
		handlerBody = p.parseBlock()
	}

	var finalizer ast.Handle = ast.NoNode
	if _, ok := p.accept(token.Finally); ok {
		finalizer = p.parseBlock()
	}

	if handlerBody == ast.NoNode && finalizer == ast.NoNode {
		p.fail(p.cur().Start.Line)
		return ast.NoNode
	}
	return p.b.CreateTry(block, catchParam, handlerBody, finalizer, start, p.prevEnd())
}

func (p *Parser) parseLabelledStatement() ast.Handle {
	start := p.cur().Start
	name, _ := p.expect(token.Ident)
	p.expect(token.Colon)
	statement := p.parseStatement()
	return p.b.CreateLabel(name.Text, statement, start, p.prevEnd())
}

func (p *Parser) parseExpressionStatement() ast.Handle {
	start := p.cur().Start
	expr := p.parseExpression(false)
	p.expectSemicolon()
	return p.b.CreateExpressionStatement(expr, start, p.prevEnd())
}

// --- functions ---

func (p *Parser) parseFunctionDeclaration() ast.Handle {
	start := p.cur().Start
	p.advance() // 'function'
	name, _ := p.expect(token.Ident)
	params := p.parseFormalParameterList()
	body := p.parseFunctionBody()
	return p.b.CreateFunctionDecl(name.Text, params, body, start, p.prevEnd())
}

func (p *Parser) parseFunctionExpression() ast.Handle {
	start := p.cur().Start
	p.advance() // 'function'
	name := ""
	if t, ok := p.accept(token.Ident); ok {
		name = t.Text
	}
	params := p.parseFormalParameterList()
	body := p.parseFunctionBody()
	return p.b.CreateFunctionExpression(name, params, body, start, p.prevEnd())
}

func (p *Parser) parseFormalParameterList() ast.Handle {
	start := p.cur().Start
	p.expect(token.LParen)
	var names []string
	if !p.at(token.RParen) {
		for {
			if t, ok := p.expect(token.Ident); ok {
				names = append(names, t.Text)
			}
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	p.expect(token.RParen)
	return p.b.CreateFormalParameterList(names, start, p.prevEnd())
}

func (p *Parser) parseFunctionBody() ast.Handle {
	start := p.cur().Start
	p.expect(token.LBrace)
	var body []ast.Handle
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.failed {
		body = append(body, p.parseSourceElement())
	}
	p.expect(token.RBrace)
	return p.b.CreateFunctionBody(body, start, p.prevEnd())
}
