package parser

import (
	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/token"
)

// parseExpression parses a full comma expression: `AssignmentExpression
// (',' AssignmentExpression)*`, left-associative per spec.md §4.2.
func (p *Parser) parseExpression(noIn bool) ast.Handle {
	start := p.cur().Start
	left := p.parseAssignment(noIn)
	for {
		if _, ok := p.accept(token.Comma); !ok {
			return left
		}
		right := p.parseAssignment(noIn)
		left = p.b.CreateComma(left, right, start, p.prevEnd())
	}
}

func (p *Parser) prevEnd() token.Position {
	if p.pos == 0 {
		return p.cur().Start
	}
	return p.tokens[p.pos-1].End
}

// parseAssignment parses `ConditionalExpression` or, if the next token is
// an assignment operator, a right-associative AssignmentExpression.
func (p *Parser) parseAssignment(noIn bool) ast.Handle {
	if p.failed {
		return ast.NoNode
	}
	start := p.cur().Start
	left := p.parseConditional(noIn)
	if op, ok := assignmentOp(p.cur().Kind); ok {
		p.advance()
		right := p.parseAssignment(noIn)
		return p.b.CreateAssignmentExpression(op, left, right, start, p.prevEnd())
	}
	return left
}

func (p *Parser) parseConditional(noIn bool) ast.Handle {
	start := p.cur().Start
	test := p.parseBinary(noIn, 1)
	if _, ok := p.accept(token.Question); !ok {
		return test
	}
	consequent := p.parseAssignment(false)
	if _, ok := p.expect(token.Colon); !ok {
		return ast.NoNode
	}
	alternate := p.parseAssignment(noIn)
	return p.b.CreateConditionalExpression(test, consequent, alternate, start, p.prevEnd())
}

// parseBinary drives the Builder's explicit operand/operator stacks
// through precedence climbing (spec.md §4.2): while the pending operator's
// precedence is at least as tight as an incoming operator, reduce first.
func (p *Parser) parseBinary(noIn bool, minPrec int) ast.Handle {
	baseOperands := p.b.OperandLen()
	baseOperators := p.b.OperatorLen()

	start := p.cur().Start
	p.b.PushOperand(p.parseUnary())

	for {
		op, prec, ok := binaryOp(p.cur().Kind, noIn)
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		for p.b.OperatorLen() > baseOperators {
			topPrec, _ := p.b.PeekOperatorPrec()
			if topPrec < prec {
				break
			}
			p.reduceOne(start)
		}
		p.b.PushOperator(op, prec)
		p.b.PushOperand(p.parseUnary())
	}

	for p.b.OperatorLen() > baseOperators {
		p.reduceOne(start)
	}

	result := p.b.PopOperand()
	_ = baseOperands
	return result
}

func (p *Parser) reduceOne(start token.Position) {
	right := p.b.PopOperand()
	left := p.b.PopOperand()
	op, _ := p.b.PopOperator()
	p.b.PushOperand(p.b.CreateBinaryExpression(op, left, right, start, p.prevEnd()))
}

// parseUnary parses the prefix unary productions (`! ~ + - typeof void
// delete ++ --`), pushing onto the Builder's unary stack before
// descending, then wrapping the left-hand-side expression on the way back
// up — mirroring spec.md §4.2's three-stack description.
func (p *Parser) parseUnary() ast.Handle {
	if p.failed {
		return ast.NoNode
	}
	start := p.cur().Start
	if op, ok := unaryOp(p.cur().Kind); ok {
		p.advance()
		p.b.PushUnary(op, start)
		operand := p.parseUnary()
		uop, ustart := p.b.PopUnary()
		if uop == ast.OpPrefixIncrement || uop == ast.OpPrefixDecrement {
			return p.b.CreatePrefix(uop, operand, ustart, p.prevEnd())
		}
		return p.b.CreateUnary(uop, operand, ustart, p.prevEnd())
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Handle {
	start := p.cur().Start
	expr := p.parseLeftHandSide()
	if p.cur().PrecededByNewline {
		return expr
	}
	switch p.cur().Kind {
	case token.PlusPlus:
		p.advance()
		return p.b.CreatePostfix(ast.OpPostfixIncrement, expr, start, p.prevEnd())
	case token.MinusMinus:
		p.advance()
		return p.b.CreatePostfix(ast.OpPostfixDecrement, expr, start, p.prevEnd())
	}
	return expr
}

// parseLeftHandSide parses the unified NewExpression/CallExpression/Member
// grammar: a chain of `new`, `.ident`, `[expr]` and `(args)` applied to a
// primary expression.
func (p *Parser) parseLeftHandSide() ast.Handle {
	start := p.cur().Start
	var expr ast.Handle
	if _, ok := p.accept(token.New); ok {
		callee := p.parseLeftHandSideNoCall()
		var args []ast.Handle
		if p.at(token.LParen) {
			args = p.parseArguments()
		}
		expr = p.b.CreateNew(callee, args, start, p.prevEnd())
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallTail(expr, start)
}

// parseLeftHandSideNoCall parses the callee of a `new` expression: member
// access chains bind tighter than the call that follows, so `new` must not
// itself consume a `(...)` as part of the callee unless it belongs to a
// nested `new`.
func (p *Parser) parseLeftHandSideNoCall() ast.Handle {
	start := p.cur().Start
	var expr ast.Handle
	if _, ok := p.accept(token.New); ok {
		callee := p.parseLeftHandSideNoCall()
		var args []ast.Handle
		if p.at(token.LParen) {
			args = p.parseArguments()
		}
		expr = p.b.CreateNew(callee, args, start, p.prevEnd())
	} else {
		expr = p.parsePrimary()
	}
	for {
		switch p.cur().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident)
			if !ok {
				return expr
			}
			expr = p.b.CreateDotAccess(expr, name.Text, start, p.prevEnd())
		case token.LBracket:
			p.advance()
			index := p.parseExpression(false)
			if _, ok := p.expect(token.RBracket); !ok {
				return expr
			}
			expr = p.b.CreateBracketAccess(expr, index, start, p.prevEnd())
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallTail(expr ast.Handle, start token.Position) ast.Handle {
	for {
		switch p.cur().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident)
			if !ok {
				return expr
			}
			expr = p.b.CreateDotAccess(expr, name.Text, start, p.prevEnd())
		case token.LBracket:
			p.advance()
			index := p.parseExpression(false)
			if _, ok := p.expect(token.RBracket); !ok {
				return expr
			}
			expr = p.b.CreateBracketAccess(expr, index, start, p.prevEnd())
		case token.LParen:
			args := p.parseArguments()
			expr = p.b.CreateFunctionCall(expr, args, start, p.prevEnd())
		default:
			return expr
		}
	}
}

func (p *Parser) parseArguments() []ast.Handle {
	if _, ok := p.expect(token.LParen); !ok {
		return nil
	}
	var args []ast.Handle
	if !p.at(token.RParen) {
		for {
			args = append(args, p.parseAssignment(false))
			if _, ok := p.accept(token.Comma); !ok {
				break
			}
		}
	}
	p.expect(token.RParen)
	return args
}

func (p *Parser) parsePrimary() ast.Handle {
	t := p.cur()
	switch t.Kind {
	case token.This:
		p.advance()
		return p.b.CreateThis(t.Start, t.End)
	case token.Null:
		p.advance()
		return p.b.CreateNull(t.Start, t.End)
	case token.True:
		p.advance()
		return p.b.CreateBoolean(true, t.Start, t.End)
	case token.False:
		p.advance()
		return p.b.CreateBoolean(false, t.Start, t.End)
	case token.Number:
		p.advance()
		return p.b.CreateNumber(t.Number, t.Start, t.End)
	case token.String:
		p.advance()
		return p.b.CreateString(t.Text, t.Start, t.End)
	case token.RegexLiteral:
		p.advance()
		return p.b.CreateRegex(t.Text, t.Flags, t.Start, t.End)
	case token.Ident:
		p.advance()
		return p.b.CreateResolve(t.Text, t.Start, t.End)
	case token.Function:
		return p.parseFunctionExpression()
	case token.LParen:
		p.advance()
		expr := p.parseExpression(false)
		p.expect(token.RParen)
		return expr
	case token.LBracket:
		return p.parseArrayLiteral()
	case token.LBrace:
		return p.parseObjectLiteral()
	case token.Reserved:
		p.fail(t.Start.Line)
		return ast.NoNode
	default:
		p.fail(t.Start.Line)
		return ast.NoNode
	}
}

// parseArrayLiteral represents elisions as explicit ast.NoNode slots so
// the serializer can emit strict-ESTree `null` elements (spec.md §9's
// elision recommendation) instead of silently collapsing them.
func (p *Parser) parseArrayLiteral() ast.Handle {
	start := p.cur().Start
	p.advance() // '['
	var elements []ast.Handle
	for !p.at(token.RBracket) && !p.failed {
		if p.at(token.Comma) {
			elements = append(elements, ast.NoNode)
			p.advance()
			continue
		}
		elements = append(elements, p.parseAssignment(false))
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBracket)
	return p.b.CreateArray(elements, start, p.prevEnd())
}

func (p *Parser) parseObjectLiteral() ast.Handle {
	start := p.cur().Start
	p.advance() // '{'
	var props []ast.Handle
	for !p.at(token.RBrace) && !p.failed {
		props = append(props, p.parseObjectProperty())
		if _, ok := p.accept(token.Comma); !ok {
			break
		}
	}
	p.expect(token.RBrace)
	return p.b.CreateObjectLiteral(props, start, p.prevEnd())
}

func (p *Parser) parseObjectProperty() ast.Handle {
	start := p.cur().Start

	if p.b.AllowAccessors && (p.at(token.Ident) && (p.cur().Text == "get" || p.cur().Text == "set")) && p.peekAt(1).Kind != token.Colon && p.peekAt(1).Kind != token.Comma && p.peekAt(1).Kind != token.RBrace {
		isGetter := p.cur().Text == "get"
		p.advance()
		keyName := p.parsePropertyKeyName()
		params := p.parseFormalParameterList()
		body := p.parseFunctionBody()
		fn := p.b.CreateFunctionExpression("", params, body, start, p.prevEnd())
		kind := ast.PropertyGetter
		if !isGetter {
			kind = ast.PropertySetter
		}
		return p.b.CreateProperty(kind, keyName, fn, start, p.prevEnd())
	}

	keyName := p.parsePropertyKeyName()
	if _, ok := p.expect(token.Colon); !ok {
		return ast.NoNode
	}
	value := p.parseAssignment(false)
	return p.b.CreateProperty(ast.PropertyConstant, keyName, value, start, p.prevEnd())
}

func (p *Parser) parsePropertyKeyName() string {
	t := p.cur()
	switch t.Kind {
	case token.String:
		p.advance()
		return t.Text
	case token.Number:
		p.advance()
		return p.b.CreateNumericPropertyKey(t.Number)
	default:
		// Any IdentifierName, including keywords, is a valid property
		// key in ES5 object-literal position.
		p.advance()
		return t.Text
	}
}
