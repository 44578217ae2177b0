// Package parser implements ES5 expression and statement grammar over a
// token stream from internal/js/lexer, producing an AST in an
// internal/js/ast.Arena through a Builder.
package parser

import (
	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/token"
	"go.hammerjs.dev/hammer/internal/js/ustring"
)

// Builder is the sole allocator of AST nodes for one parse. It owns the
// arena and the three explicit stacks the expression parser's
// precedence-climbing algorithm drives: operands, pending operators, and
// pending prefix/postfix unary operators.
//
// AllowAccessors controls whether object-literal getter/setter properties
// are accepted; the reference rejects them fatally (spec.md §4.2/§4.3),
// but an implementation MAY support them, so this defaults to true and a
// caller wanting reference-identical rejection sets it false.
type Builder struct {
	Arena          *ast.Arena
	Interner       *ustring.Interner
	AllowAccessors bool

	operands  []ast.Handle
	operators []operatorEntry
	unaries   []unaryEntry
}

type operatorEntry struct {
	op   ast.Operator
	prec int
}

type unaryEntry struct {
	op    ast.Operator
	start token.Position
}

// NewBuilder returns a Builder over a fresh arena, with accessor support
// enabled by default.
func NewBuilder() *Builder {
	return &Builder{
		Arena:          ast.NewArena(),
		Interner:       ustring.NewInterner(),
		AllowAccessors: true,
	}
}

// --- operand stack ---

func (b *Builder) PushOperand(h ast.Handle) { b.operands = append(b.operands, h) }

func (b *Builder) PopOperand() ast.Handle {
	n := len(b.operands) - 1
	h := b.operands[n]
	b.operands = b.operands[:n]
	return h
}

func (b *Builder) OperandLen() int { return len(b.operands) }

// --- operator stack ---

func (b *Builder) PushOperator(op ast.Operator, prec int) {
	b.operators = append(b.operators, operatorEntry{op, prec})
}

func (b *Builder) PopOperator() (ast.Operator, int) {
	n := len(b.operators) - 1
	e := b.operators[n]
	b.operators = b.operators[:n]
	return e.op, e.prec
}

func (b *Builder) PeekOperatorPrec() (int, bool) {
	if len(b.operators) == 0 {
		return 0, false
	}
	return b.operators[len(b.operators)-1].prec, true
}

func (b *Builder) OperatorLen() int { return len(b.operators) }

// --- unary stack ---

func (b *Builder) PushUnary(op ast.Operator, start token.Position) {
	b.unaries = append(b.unaries, unaryEntry{op, start})
}

func (b *Builder) PopUnary() (ast.Operator, token.Position) {
	n := len(b.unaries) - 1
	e := b.unaries[n]
	b.unaries = b.unaries[:n]
	return e.op, e.start
}

// --- literal / primary factories ---

func (b *Builder) create(kind ast.Kind, start, end token.Position) ast.Handle {
	h := b.Arena.New(kind)
	n := b.Arena.Node(h)
	n.Start, n.End = start, end
	return h
}

func (b *Builder) CreateNumber(value float64, start, end token.Position) ast.Handle {
	h := b.create(ast.KindNumber, start, end)
	b.Arena.Node(h).Number = value
	return h
}

func (b *Builder) CreateString(value string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindString, start, end)
	b.Arena.Node(h).Text = value
	return h
}

func (b *Builder) CreateBoolean(value bool, start, end token.Position) ast.Handle {
	h := b.create(ast.KindBoolean, start, end)
	b.Arena.Node(h).Bool = value
	return h
}

func (b *Builder) CreateNull(start, end token.Position) ast.Handle {
	return b.create(ast.KindNull, start, end)
}

func (b *Builder) CreateThis(start, end token.Position) ast.Handle {
	return b.create(ast.KindThis, start, end)
}

func (b *Builder) CreateRegex(pattern, flags string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindRegex, start, end)
	n := b.Arena.Node(h)
	n.Text, n.Flags = pattern, flags
	return h
}

// CreateResolve creates an identifier reference node (ESTree `Identifier`
// used in expression position).
func (b *Builder) CreateResolve(name string, start, end token.Position) ast.Handle {
	b.Interner.Intern(name)
	h := b.create(ast.KindResolve, start, end)
	b.Arena.Node(h).Name = name
	return h
}

// CreateIdentifierExpression creates an identifier used as a declaration
// target (e.g. a function parameter or a VariableDeclarator's id).
func (b *Builder) CreateIdentifierExpression(name string, start, end token.Position) ast.Handle {
	b.Interner.Intern(name)
	h := b.create(ast.KindIdentifierExpression, start, end)
	b.Arena.Node(h).Name = name
	return h
}

// --- composite expressions ---

func (b *Builder) CreateArray(elements []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindArray, start, end)
	b.Arena.Node(h).Children = elements
	return h
}

// CreateNumericPropertyKey canonicalizes a numeric object-literal key via
// ustring.NumberToString (spec.md §4.3), so `{1e2: 0}` and `{100: 0}`
// produce the same key text.
func (b *Builder) CreateNumericPropertyKey(value float64) string {
	return ustring.NumberToString(value)
}

func (b *Builder) CreateProperty(kind ast.PropertyKind, keyName string, value ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindProperty, start, end)
	n := b.Arena.Node(h)
	n.Property = kind
	n.Name = keyName
	n.Children = []ast.Handle{value}
	return h
}

func (b *Builder) CreateObjectLiteral(properties []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindObjectLiteral, start, end)
	b.Arena.Node(h).Children = properties
	return h
}

func (b *Builder) CreateDotAccess(base ast.Handle, name string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindDotAccess, start, end)
	n := b.Arena.Node(h)
	n.Name = name
	n.Children = []ast.Handle{base}
	return h
}

func (b *Builder) CreateBracketAccess(base, index ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindBracketAccess, start, end)
	b.Arena.Node(h).Children = []ast.Handle{base, index}
	return h
}

func (b *Builder) CreateFunctionCall(callee ast.Handle, args []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFunctionCall, start, end)
	n := b.Arena.Node(h)
	n.Children = append([]ast.Handle{callee}, args...)
	return h
}

func (b *Builder) CreateNew(callee ast.Handle, args []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindNew, start, end)
	n := b.Arena.Node(h)
	n.Children = append([]ast.Handle{callee}, args...)
	return h
}

func (b *Builder) CreatePostfix(op ast.Operator, operand ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindPostfix, start, end)
	n := b.Arena.Node(h)
	n.Operator = op
	n.Children = []ast.Handle{operand}
	return h
}

func (b *Builder) CreatePrefix(op ast.Operator, operand ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindPrefix, start, end)
	n := b.Arena.Node(h)
	n.Operator = op
	n.Children = []ast.Handle{operand}
	return h
}

func (b *Builder) CreateUnary(op ast.Operator, operand ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindUnary, start, end)
	n := b.Arena.Node(h)
	n.Operator = op
	n.Children = []ast.Handle{operand}
	return h
}

func (b *Builder) CreateBinaryExpression(op ast.Operator, left, right ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindBinaryExpression, start, end)
	n := b.Arena.Node(h)
	n.Operator = op
	n.Children = []ast.Handle{left, right}
	return h
}

func (b *Builder) CreateConditionalExpression(test, consequent, alternate ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindConditionalExpression, start, end)
	b.Arena.Node(h).Children = []ast.Handle{test, consequent, alternate}
	return h
}

func (b *Builder) CreateAssignmentExpression(op ast.Operator, left, right ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindAssignmentExpression, start, end)
	n := b.Arena.Node(h)
	n.Operator = op
	n.Children = []ast.Handle{left, right}
	return h
}

func (b *Builder) CreateComma(left, right ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindComma, start, end)
	b.Arena.Node(h).Children = []ast.Handle{left, right}
	return h
}

// --- declarations ---

// CreateVariableDeclarator creates a single id/init pair. For `var` it is
// tagged KindVariableDeclaration; for `const`, KindConstDeclaration —
// matching the fixed enumeration, which gives `const` a dedicated
// declarator kind but overloads VariableDeclaration as both the statement
// wrapper and each of its declarators.
func (b *Builder) CreateVariableDeclarator(isConst bool, name string, init ast.Handle, start, end token.Position) ast.Handle {
	kind := ast.KindVariableDeclaration
	if isConst {
		kind = ast.KindConstDeclaration
	}
	h := b.create(kind, start, end)
	id := b.CreateIdentifierExpression(name, start, start)
	n := b.Arena.Node(h)
	n.Children = []ast.Handle{id, init}
	return h
}

// CreateVariableDeclaration wraps one or more declarators produced by
// CreateVariableDeclarator(false, ...) as a `var` statement (or a for-in
// header's left-hand side, per spec.md's scenario 4).
func (b *Builder) CreateVariableDeclaration(declarators []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindVariableDeclaration, start, end)
	b.Arena.Node(h).Children = declarators
	return h
}

// CreateConstStatement wraps one or more CreateVariableDeclarator(true,
// ...) declarators as a `const` statement.
func (b *Builder) CreateConstStatement(declarators []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindConstStatement, start, end)
	b.Arena.Node(h).Children = declarators
	return h
}

// --- statements ---

func (b *Builder) CreateBlock(body []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindBlock, start, end)
	b.Arena.Node(h).Children = body
	return h
}

func (b *Builder) CreateSourceElements(body []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindSourceElements, start, end)
	b.Arena.Node(h).Children = body
	return h
}

func (b *Builder) CreateEmptyStatement(start, end token.Position) ast.Handle {
	return b.create(ast.KindEmptyStatement, start, end)
}

func (b *Builder) CreateExpressionStatement(expr ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindExpressionStatement, start, end)
	b.Arena.Node(h).Children = []ast.Handle{expr}
	return h
}

func (b *Builder) CreateIf(test, consequent, alternate ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindIf, start, end)
	b.Arena.Node(h).Children = []ast.Handle{test, consequent, alternate}
	return h
}

func (b *Builder) CreateWhile(test, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindWhile, start, end)
	b.Arena.Node(h).Children = []ast.Handle{test, body}
	return h
}

func (b *Builder) CreateDoWhile(body, test ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindDoWhile, start, end)
	b.Arena.Node(h).Children = []ast.Handle{test, body}
	return h
}

func (b *Builder) CreateFor(init, test, update, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFor, start, end)
	b.Arena.Node(h).Children = []ast.Handle{init, test, update, body}
	return h
}

func (b *Builder) CreateForIn(left, right, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindForIn, start, end)
	b.Arena.Node(h).Children = []ast.Handle{left, right, body}
	return h
}

func (b *Builder) CreateContinue(label string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindContinue, start, end)
	b.Arena.Node(h).Name = label
	return h
}

func (b *Builder) CreateBreak(label string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindBreak, start, end)
	b.Arena.Node(h).Name = label
	return h
}

func (b *Builder) CreateReturn(argument ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindReturn, start, end)
	b.Arena.Node(h).Children = []ast.Handle{argument}
	return h
}

func (b *Builder) CreateWith(object, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindWith, start, end)
	b.Arena.Node(h).Children = []ast.Handle{object, body}
	return h
}

// CreateSwitch takes the pre-default clause list, an optional default
// clause (ast.NoNode if absent), and the post-default clause list as three
// explicit lists per spec.md §4.2; the serializer folds them.
func (b *Builder) CreateSwitch(discriminant ast.Handle, preDefault []ast.Handle, defaultClause ast.Handle, postDefault []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindSwitch, start, end)
	list := b.create(ast.KindClauseList, start, end)
	b.Arena.Node(list).Children = append(append(append([]ast.Handle{}, preDefault...), defaultClause), postDefault...)
	n := b.Arena.Node(h)
	n.Number = float64(len(preDefault)) // count of pre-default clauses, for fold bookkeeping
	n.Children = []ast.Handle{discriminant, list}
	return h
}

func (b *Builder) CreateClause(test ast.Handle, consequent []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindClause, start, end)
	n := b.Arena.Node(h)
	n.Children = append([]ast.Handle{test}, consequent...)
	return h
}

func (b *Builder) CreateLabel(name string, statement ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindLabel, start, end)
	n := b.Arena.Node(h)
	n.Name = name
	n.Children = []ast.Handle{statement}
	return h
}

func (b *Builder) CreateThrow(argument ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindThrow, start, end)
	b.Arena.Node(h).Children = []ast.Handle{argument}
	return h
}

// CreateTry takes explicit handler/finalizer handles (ast.NoNode when
// absent) per spec.md's "[block, handler, finalizer]" invariant. catchParam
// is empty when there is no catch clause.
func (b *Builder) CreateTry(block ast.Handle, catchParam string, handlerBody ast.Handle, finalizer ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindTry, start, end)
	n := b.Arena.Node(h)
	n.Name = catchParam
	n.Children = []ast.Handle{block, handlerBody, finalizer}
	return h
}

func (b *Builder) CreateDebugger(start, end token.Position) ast.Handle {
	return b.create(ast.KindDebugger, start, end)
}

// --- functions ---

func (b *Builder) CreateFormalParameterList(names []string, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFormalParameterList, start, end)
	params := make([]ast.Handle, len(names))
	for i, name := range names {
		params[i] = b.CreateIdentifierExpression(name, start, end)
	}
	b.Arena.Node(h).Children = params
	return h
}

func (b *Builder) CreateFunctionBody(body []ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFunctionBody, start, end)
	b.Arena.Node(h).Children = body
	return h
}

// CreateFunctionDecl and CreateFunctionExpression share shape: name
// (possibly empty for an anonymous expression), a FormalParameterList
// handle, and a FunctionBody handle.
func (b *Builder) CreateFunctionDecl(name string, params, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFunctionDecl, start, end)
	n := b.Arena.Node(h)
	n.Name = name
	n.Children = []ast.Handle{params, body}
	return h
}

func (b *Builder) CreateFunctionExpression(name string, params, body ast.Handle, start, end token.Position) ast.Handle {
	h := b.create(ast.KindFunctionExpression, start, end)
	n := b.Arena.Node(h)
	n.Name = name
	n.Children = []ast.Handle{params, body}
	return h
}
