// Package estree serializes an internal/js/ast.Arena into the ESTree/
// Mozilla Parser API JSON shape (spec.md §4.4), using easyjson's low-level
// jwriter.Writer instead of encoding/json reflection for the hot visitor
// path, then re-indenting the compact result (4 spaces by default).
package estree

import (
	"strings"

	"github.com/mailru/easyjson/jwriter"

	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/ustring"
)

// formatNumber renders a Number literal's value the way Number.prototype
// .toString does (spec.md §4.4's "%g-equivalent — shortest representation
// that round-trips"), matching the Literal node's "value" field.
func formatNumber(f float64) string {
	return ustring.NumberToString(f)
}

// Serialize walks root (a SourceElements node) and returns its ESTree JSON
// representation, 4-space indented, UTF-8 encoded.
//
// Indentation is done by a hand-written scanner rather than
// encoding/json.Indent: spec.md §4.4's `\v` quirk and its "other code
// units below 0x20 ... emitted unescaped" rule deliberately produce
// strings with raw control bytes, which encoding/json's strict scanner
// rejects as malformed JSON.
func Serialize(arena *ast.Arena, root ast.Handle) (string, error) {
	return SerializeIndent(arena, root, 4)
}

// SerializeIndent is Serialize with a caller-chosen indent width in spaces.
func SerializeIndent(arena *ast.Arena, root ast.Handle, width int) (string, error) {
	w := &jwriter.Writer{}
	v := &visitor{arena: arena, w: w}
	v.writeProgram(root)
	if w.Error != nil {
		return "", w.Error
	}
	compact, err := w.BuildBytes()
	if err != nil {
		return "", err
	}
	if width < 0 {
		width = 0
	}
	return indent(compact, strings.Repeat(" ", width)), nil
}

// indent re-flows compact into a form indented by unit per level, copying string
// literal contents byte-for-byte without requiring them to be strictly
// valid JSON strings.
func indent(compact []byte, unit string) string {
	var out []byte
	depth := 0
	inString := false
	escaped := false

	writeNewline := func() {
		out = append(out, '\n')
		for i := 0; i < depth; i++ {
			out = append(out, unit...)
		}
	}

	for i := 0; i < len(compact); i++ {
		c := compact[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			out = append(out, c)
		case '{', '[':
			out = append(out, c)
			if i+1 < len(compact) && (compact[i+1] == '}' || compact[i+1] == ']') {
				continue
			}
			depth++
			writeNewline()
		case '}', ']':
			if len(out) > 0 && (out[len(out)-1] == '{' || out[len(out)-1] == '[') {
				out = append(out, c)
				continue
			}
			depth--
			writeNewline()
			out = append(out, c)
		case ',':
			out = append(out, c)
			writeNewline()
		case ':':
			out = append(out, c, ' ')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

type visitor struct {
	arena *ast.Arena
	w     *jwriter.Writer
}

func (v *visitor) node(h ast.Handle) *ast.Node {
	return v.arena.Node(h)
}

func (v *visitor) writeProgram(root ast.Handle) {
	n := v.node(root)
	v.w.RawByte('{')
	v.key("type")
	v.w.String("Program")
	v.w.RawByte(',')
	v.key("body")
	v.statementList(n.Children)
	v.w.RawByte('}')
}

func (v *visitor) key(name string) {
	v.w.String(name)
	v.w.RawByte(':')
}

func (v *visitor) comma() { v.w.RawByte(',') }

// text writes s as a JSON string literal using spec.md §4.4's escaping
// table rather than standard JSON escaping: `" \ \b \f \n \r \t` are
// escaped normally, `\v` is emitted as the two literal characters `\v`
// preceded by an extra backslash (the reference's preserved quirk), and
// every other byte — including other C0 control bytes and non-ASCII
// UTF-8 bytes — passes through unescaped.
func (v *visitor) text(s string) {
	v.w.RawByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			v.w.RawString(`\"`)
		case '\\':
			v.w.RawString(`\\`)
		case '\b':
			v.w.RawString(`\b`)
		case '\f':
			v.w.RawString(`\f`)
		case '\n':
			v.w.RawString(`\n`)
		case '\r':
			v.w.RawString(`\r`)
		case '\t':
			v.w.RawString(`\t`)
		case '\v':
			v.w.RawString(`\\v`)
		default:
			v.w.RawByte(c)
		}
	}
	v.w.RawByte('"')
}

func (v *visitor) statementList(children []ast.Handle) {
	v.w.RawByte('[')
	for i, c := range children {
		if i > 0 {
			v.comma()
		}
		v.statement(c)
	}
	v.w.RawByte(']')
}

// nullableNode serializes h as its expression/statement JSON, or a JSON
// null if h is ast.NoNode — the positional-null-placeholder invariant of
// spec.md §3/§8.
func (v *visitor) nullableNode(h ast.Handle) {
	if h == ast.NoNode {
		v.w.RawString("null")
		return
	}
	v.expression(h)
}

func (v *visitor) nullableLabel(name string) {
	if name == "" {
		v.w.RawString("null")
		return
	}
	v.w.RawByte('{')
	v.key("type")
	v.w.String("Identifier")
	v.comma()
	v.key("name")
	v.text(name)
	v.w.RawByte('}')
}

// statement dispatches a node appearing in statement position. Expression
// node kinds reaching here are treated as expressions (e.g. inside a
// FunctionBody/Block's body list, which only ever holds statements in a
// well-formed tree, but sharing dispatch keeps one code path for both
// SourceElements flavors named in the mapping table).
func (v *visitor) statement(h ast.Handle) {
	n := v.node(h)
	switch n.Kind {
	case ast.KindBlock:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("BlockStatement")
		v.comma()
		v.key("body")
		v.statementList(n.Children)
		v.w.RawByte('}')
	case ast.KindEmptyStatement:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("EmptyStatement")
		v.w.RawByte('}')
	case ast.KindExpressionStatement:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ExpressionStatement")
		v.comma()
		v.key("expression")
		v.expression(n.Children[0])
		v.w.RawByte('}')
	case ast.KindIf:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("IfStatement")
		v.comma()
		v.key("test")
		v.expression(n.Children[0])
		v.comma()
		v.key("consequent")
		v.statement(n.Children[1])
		v.comma()
		v.key("alternate")
		v.nullableStatement(n.Children[2])
		v.w.RawByte('}')
	case ast.KindWhile:
		v.iterationStatement("WhileStatement", n.Children[0], n.Children[1])
	case ast.KindDoWhile:
		v.iterationStatement("DoWhileStatement", n.Children[0], n.Children[1])
	case ast.KindFor:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ForStatement")
		v.comma()
		v.key("init")
		v.nullableNode(n.Children[0])
		v.comma()
		v.key("test")
		v.nullableNode(n.Children[1])
		v.comma()
		v.key("update")
		v.nullableNode(n.Children[2])
		v.comma()
		v.key("body")
		v.statement(n.Children[3])
		v.w.RawByte('}')
	case ast.KindForIn:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ForInStatement")
		v.comma()
		v.key("left")
		v.expression(n.Children[0])
		v.comma()
		v.key("right")
		v.expression(n.Children[1])
		v.comma()
		v.key("body")
		v.statement(n.Children[2])
		v.comma()
		v.key("each")
		v.w.Bool(false)
		v.w.RawByte('}')
	case ast.KindContinue:
		v.labelledStatement("ContinueStatement", n.Name)
	case ast.KindBreak:
		v.labelledStatement("BreakStatement", n.Name)
	case ast.KindReturn:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ReturnStatement")
		v.comma()
		v.key("argument")
		v.nullableNode(n.Children[0])
		v.w.RawByte('}')
	case ast.KindWith:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("WithStatement")
		v.comma()
		v.key("object")
		v.expression(n.Children[0])
		v.comma()
		v.key("body")
		v.statement(n.Children[1])
		v.w.RawByte('}')
	case ast.KindSwitch:
		v.writeSwitch(n)
	case ast.KindThrow:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ThrowStatement")
		v.comma()
		v.key("argument")
		v.expression(n.Children[0])
		v.w.RawByte('}')
	case ast.KindTry:
		v.writeTry(n)
	case ast.KindDebugger:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("DebuggerStatement")
		v.w.RawByte('}')
	case ast.KindLabel:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("LabeledStatement")
		v.comma()
		v.key("label")
		v.nullableLabel(n.Name)
		v.comma()
		v.key("body")
		v.statement(n.Children[0])
		v.w.RawByte('}')
	case ast.KindVariableDeclaration, ast.KindConstStatement:
		v.writeVariableDeclaration(n)
	case ast.KindFunctionDecl:
		v.writeFunction(n, "FunctionExpression")
	default:
		// A bare expression reached statement position (e.g. a
		// function parameter or a call/new argument, which are
		// written through statementList without an
		// ExpressionStatement wrapper).
		v.expression(h)
	}
}

func (v *visitor) nullableStatement(h ast.Handle) {
	if h == ast.NoNode {
		v.w.RawString("null")
		return
	}
	v.statement(h)
}

func (v *visitor) iterationStatement(typeName string, test, body ast.Handle) {
	v.w.RawByte('{')
	v.key("type")
	v.w.String(typeName)
	v.comma()
	v.key("test")
	v.expression(test)
	v.comma()
	v.key("body")
	v.statement(body)
	v.w.RawByte('}')
}

func (v *visitor) labelledStatement(typeName, label string) {
	v.w.RawByte('{')
	v.key("type")
	v.w.String(typeName)
	v.comma()
	v.key("label")
	v.nullableLabel(label)
	v.w.RawByte('}')
}

// writeSwitch folds the default clause into source position among the
// pre/post lists (spec.md §4.4's "default clause folding").
func (v *visitor) writeSwitch(n *ast.Node) {
	discriminant := n.Children[0]
	list := v.node(n.Children[1])
	preCount := int(n.Number)

	v.w.RawByte('{')
	v.key("type")
	v.w.String("SwitchStatement")
	v.comma()
	v.key("discriminant")
	v.expression(discriminant)
	v.comma()
	v.key("cases")
	v.w.RawByte('[')
	first := true
	emit := func(h ast.Handle) {
		if h == ast.NoNode {
			return
		}
		if !first {
			v.comma()
		}
		first = false
		v.writeClause(h)
	}
	for i := 0; i < preCount; i++ {
		emit(list.Children[i])
	}
	emit(list.Children[preCount])
	for i := preCount + 1; i < len(list.Children); i++ {
		emit(list.Children[i])
	}
	v.w.RawByte(']')
	v.w.RawByte('}')
}

func (v *visitor) writeClause(h ast.Handle) {
	n := v.node(h)
	v.w.RawByte('{')
	v.key("type")
	v.w.String("SwitchCase")
	v.comma()
	v.key("test")
	v.nullableNode(n.Children[0])
	v.comma()
	v.key("consequent")
	v.statementList(n.Children[1:])
	v.w.RawByte('}')
}

func (v *visitor) writeTry(n *ast.Node) {
	v.w.RawByte('{')
	v.key("type")
	v.w.String("TryStatement")
	v.comma()
	v.key("block")
	v.statement(n.Children[0])
	v.comma()
	v.key("handler")
	if n.Children[1] == ast.NoNode {
		v.w.RawString("null")
	} else {
		v.w.RawByte('{')
		v.key("type")
		v.w.String("CatchClause")
		v.comma()
		v.key("param")
		v.nullableLabel(n.Name)
		v.comma()
		v.key("body")
		v.statement(n.Children[1])
		v.w.RawByte('}')
	}
	v.comma()
	v.key("finalizer")
	v.nullableStatement(n.Children[2])
	v.w.RawByte('}')
}

func (v *visitor) writeVariableDeclaration(n *ast.Node) {
	kindText := "var"
	if n.Kind == ast.KindConstStatement {
		kindText = "const"
	}
	v.w.RawByte('{')
	v.key("type")
	v.w.String("VariableDeclaration")
	v.comma()
	v.key("kind")
	v.w.String(kindText)
	v.comma()
	v.key("declarations")
	v.w.RawByte('[')
	for i, d := range n.Children {
		if i > 0 {
			v.comma()
		}
		v.writeDeclarator(d)
	}
	v.w.RawByte(']')
	v.w.RawByte('}')
}

func (v *visitor) writeDeclarator(h ast.Handle) {
	n := v.node(h)
	v.w.RawByte('{')
	v.key("type")
	v.w.String("VariableDeclarator")
	v.comma()
	v.key("id")
	v.expression(n.Children[0])
	v.comma()
	v.key("init")
	v.nullableNode(n.Children[1])
	v.w.RawByte('}')
}

func (v *visitor) writeFunction(n *ast.Node, typeName string) {
	v.w.RawByte('{')
	v.key("type")
	v.w.String(typeName)
	v.comma()
	v.key("id")
	v.nullableLabel(n.Name)
	v.comma()
	v.key("params")
	params := v.node(n.Children[0])
	v.statementList(params.Children)
	v.comma()
	v.key("body")
	body := v.node(n.Children[1])
	v.w.RawByte('{')
	v.key("type")
	v.w.String("BlockStatement")
	v.comma()
	v.key("body")
	v.statementList(body.Children)
	v.w.RawByte('}')
	v.w.RawByte('}')
}

// expression dispatches a node in expression position.
func (v *visitor) expression(h ast.Handle) {
	n := v.node(h)
	switch n.Kind {
	case ast.KindThis:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ThisExpression")
		v.w.RawByte('}')
	case ast.KindNull:
		v.literal("null", func() { v.w.RawString("null") })
	case ast.KindBoolean:
		v.literal("boolean", func() { v.w.Bool(n.Bool) })
	case ast.KindNumber:
		v.literal("Number", func() { v.text(formatNumber(n.Number)) })
	case ast.KindString:
		v.literal("string", func() { v.text(n.Text) })
	case ast.KindRegex:
		v.literal("RegExp", func() { v.text("/" + n.Text + "/" + n.Flags) })
	case ast.KindResolve, ast.KindIdentifierExpression:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("Identifier")
		v.comma()
		v.key("name")
		v.text(n.Name)
		v.w.RawByte('}')
	case ast.KindArray:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ArrayExpression")
		v.comma()
		v.key("elements")
		v.w.RawByte('[')
		for i, el := range n.Children {
			if i > 0 {
				v.comma()
			}
			v.nullableNode(el)
		}
		v.w.RawByte(']')
		v.w.RawByte('}')
	case ast.KindObjectLiteral:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ObjectExpression")
		v.comma()
		v.key("properties")
		v.w.RawByte('[')
		for i, prop := range n.Children {
			if i > 0 {
				v.comma()
			}
			v.writeProperty(prop)
		}
		v.w.RawByte(']')
		v.w.RawByte('}')
	case ast.KindDotAccess:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("MemberExpression")
		v.comma()
		v.key("object")
		v.expression(n.Children[0])
		v.comma()
		v.key("property")
		v.nullableLabel(n.Name)
		v.comma()
		v.key("accesstype")
		v.w.String("Dot")
		v.w.RawByte('}')
	case ast.KindBracketAccess:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("MemberExpression")
		v.comma()
		v.key("object")
		v.expression(n.Children[0])
		v.comma()
		v.key("property")
		v.expression(n.Children[1])
		v.comma()
		v.key("accesstype")
		v.w.String("Bracket")
		v.w.RawByte('}')
	case ast.KindFunctionCall:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("CallExpression")
		v.comma()
		v.key("callee")
		v.expression(n.Children[0])
		v.comma()
		v.key("arguments")
		v.statementList(n.Children[1:])
		v.w.RawByte('}')
	case ast.KindNew:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("NewExpression")
		v.comma()
		v.key("callee")
		v.expression(n.Children[0])
		v.comma()
		v.key("arguments")
		v.statementList(n.Children[1:])
		v.w.RawByte('}')
	case ast.KindPostfix, ast.KindPrefix:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("UpdateExpression")
		v.comma()
		v.key("operator")
		v.w.String(n.Operator.Text())
		v.comma()
		v.key("argument")
		v.expression(n.Children[0])
		v.comma()
		v.key("prefix")
		v.w.Bool(n.Kind == ast.KindPrefix)
		v.w.RawByte('}')
	case ast.KindUnary:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("UnaryExpression")
		v.comma()
		v.key("operator")
		v.w.String(n.Operator.Text())
		v.comma()
		v.key("argument")
		v.expression(n.Children[0])
		v.w.RawByte('}')
	case ast.KindBinaryExpression:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("BinaryExpression")
		v.comma()
		v.key("operator")
		v.w.String(n.Operator.Text())
		v.comma()
		v.key("left")
		v.expression(n.Children[0])
		v.comma()
		v.key("right")
		v.expression(n.Children[1])
		v.w.RawByte('}')
	case ast.KindAssignmentExpression:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("AssignmentExpression")
		v.comma()
		v.key("operator")
		v.w.String(n.Operator.Text())
		v.comma()
		v.key("left")
		v.expression(n.Children[0])
		v.comma()
		v.key("right")
		v.expression(n.Children[1])
		v.w.RawByte('}')
	case ast.KindConditionalExpression:
		v.w.RawByte('{')
		v.key("type")
		v.w.String("ConditionalExpression")
		v.comma()
		v.key("test")
		v.expression(n.Children[0])
		v.comma()
		v.key("consequent")
		v.expression(n.Children[1])
		v.comma()
		v.key("alternate")
		v.expression(n.Children[2])
		v.w.RawByte('}')
	case ast.KindComma:
		// Sequence expressions are represented as left-nested Comma
		// nodes; flatten to ESTree's SequenceExpression list.
		v.w.RawByte('{')
		v.key("type")
		v.w.String("SequenceExpression")
		v.comma()
		v.key("expressions")
		v.w.RawByte('[')
		v.flattenComma(h, true)
		v.w.RawByte(']')
		v.w.RawByte('}')
	case ast.KindFunctionExpression:
		v.writeFunction(n, "FunctionExpression")
	case ast.KindVariableDeclaration, ast.KindConstDeclaration:
		// A VariableDeclaration reaching expression position: the for-in
		// left-hand side (spec.md scenario 4) or a C-style for-header's
		// init clause. n is already the wrapper node holding the
		// declarator list — serialize it directly instead of wrapping it
		// a second time, which previously fed writeDeclarator a 1-child
		// node and panicked on Children[1].
		v.writeVariableDeclaration(n)
	default:
		v.w.RawString("null")
	}
}

func (v *visitor) flattenComma(h ast.Handle, first bool) {
	n := v.node(h)
	if n.Kind == ast.KindComma {
		v.flattenComma(n.Children[0], first)
		v.comma()
		v.expression(n.Children[1])
		return
	}
	v.expression(h)
}

func (v *visitor) literal(objType string, writeValue func()) {
	v.w.RawByte('{')
	v.key("type")
	v.w.String("Literal")
	v.comma()
	v.key("objtype")
	v.w.String(objType)
	v.comma()
	v.key("value")
	writeValue()
	v.w.RawByte('}')
}

func (v *visitor) writeProperty(h ast.Handle) {
	n := v.node(h)
	v.w.RawByte('{')
	v.key("type")
	v.w.String("Property")
	v.comma()
	v.key("key")
	v.w.RawByte('{')
	v.key("type")
	v.w.String("Identifier")
	v.comma()
	v.key("name")
	v.text(n.Name)
	v.w.RawByte('}')
	v.comma()
	v.key("value")
	v.expression(n.Children[0])
	switch n.Property {
	case ast.PropertyGetter:
		v.comma()
		v.key("kind")
		v.w.String("get")
	case ast.PropertySetter:
		v.comma()
		v.key("kind")
		v.w.String("set")
	default:
		v.comma()
		v.key("kind")
		v.w.String("init")
	}
	v.w.RawByte('}')
}
