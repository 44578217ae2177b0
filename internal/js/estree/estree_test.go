package estree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hammerjs.dev/hammer/internal/js/ast"
)

// program builds a Program node wrapping stmts and returns
// its serialized JSON, decoded into a generic tree for assertions.
func program(t *testing.T, a *ast.Arena, stmts ...ast.Handle) map[string]interface{} {
	t.Helper()
	root := a.New(ast.KindSourceElements)
	a.Node(root).Children = stmts

	out, err := Serialize(a, root)
	require.NoError(t, err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	return tree
}

func numberLiteral(a *ast.Arena, f float64) ast.Handle {
	h := a.New(ast.KindNumber)
	a.Node(h).Number = f
	return h
}

func exprStatement(a *ast.Arena, expr ast.Handle) ast.Handle {
	h := a.New(ast.KindExpressionStatement)
	a.Node(h).Children = []ast.Handle{expr}
	return h
}

func TestSerializeEmptyProgramHasEmptyBody(t *testing.T) {
	a := ast.NewArena()
	tree := program(t, a)
	assert.Equal(t, "Program", tree["type"])
	assert.Equal(t, []interface{}{}, tree["body"])
}

func TestSerializeNumberLiteralValueIsAQuotedString(t *testing.T) {
	// spec.md §4.4: Literal.value for a Number renders the shortest
	// round-tripping text representation, same as Number.prototype
	// .toString, and is written as a JSON string, not a bare number.
	a := ast.NewArena()
	stmt := exprStatement(a, numberLiteral(a, 1))
	tree := program(t, a, stmt)

	body := tree["body"].([]interface{})
	lit := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "Literal", lit["type"])
	assert.Equal(t, "Number", lit["objtype"])
	assert.Equal(t, "1", lit["value"])
	assert.IsType(t, "", lit["value"])
}

func TestSerializeBooleanAndNullLiteralsAreRawJSON(t *testing.T) {
	a := ast.NewArena()
	b := a.New(ast.KindBoolean)
	a.Node(b).Bool = true
	n := a.New(ast.KindNull)

	tree := program(t, a, exprStatement(a, b), exprStatement(a, n))
	body := tree["body"].([]interface{})

	boolLit := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "boolean", boolLit["objtype"])
	assert.Equal(t, true, boolLit["value"])

	nullLit := body[1].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "null", nullLit["objtype"])
	assert.Nil(t, nullLit["value"])
}

func TestSerializeStringLiteralPreservesVerticalTabQuirk(t *testing.T) {
	// spec.md §9: \v in a string literal's source text is preserved as
	// the reference emits it — the two literal characters \v, not the
	// single 0x0B control byte a strict JSON encoder would produce.
	a := ast.NewArena()
	s := a.New(ast.KindString)
	a.Node(s).Text = "a\vb"

	root := a.New(ast.KindSourceElements)
	a.Node(root).Children = []ast.Handle{exprStatement(a, s)}
	out, err := Serialize(a, root)
	require.NoError(t, err)

	assert.Contains(t, out, `a\\vb`)
}

func TestSerializeRelationalOperatorsAreNotSwapped(t *testing.T) {
	a := ast.NewArena()
	bin := a.New(ast.KindBinaryExpression)
	a.Node(bin).Operator = ast.OpLessThanOrEqual
	a.Node(bin).Children = []ast.Handle{numberLiteral(a, 1), numberLiteral(a, 2)}

	tree := program(t, a, exprStatement(a, bin))
	body := tree["body"].([]interface{})
	expr := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "<=", expr["operator"])
}

func TestSerializeArrayElisionIsNullNotOmitted(t *testing.T) {
	// spec.md §3/§8: a missing optional child is a positional null, never
	// a shortened slice — [1,,3] has three elements, the middle one null.
	a := ast.NewArena()
	arr := a.New(ast.KindArray)
	a.Node(arr).Children = []ast.Handle{numberLiteral(a, 1), ast.NoNode, numberLiteral(a, 3)}

	tree := program(t, a, exprStatement(a, arr))
	body := tree["body"].([]interface{})
	expr := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	elements := expr["elements"].([]interface{})
	require.Len(t, elements, 3)
	assert.Nil(t, elements[1])
}

func TestSerializeSwitchFoldsDefaultIntoSourcePosition(t *testing.T) {
	// case 1: a; default: b; case 2: c; — the default clause must appear
	// between its neighbors in source order, not trail the list.
	a := ast.NewArena()
	clause := func(test ast.Handle, body ...ast.Handle) ast.Handle {
		h := a.New(ast.KindClause)
		a.Node(h).Children = append([]ast.Handle{test}, body...)
		return h
	}
	c1 := clause(numberLiteral(a, 1), exprStatement(a, numberLiteral(a, 10)))
	def := clause(ast.NoNode, exprStatement(a, numberLiteral(a, 20)))
	c2 := clause(numberLiteral(a, 2), exprStatement(a, numberLiteral(a, 30)))

	list := a.New(ast.KindClauseList)
	a.Node(list).Children = []ast.Handle{c1, def, c2}

	sw := a.New(ast.KindSwitch)
	a.Node(sw).Children = []ast.Handle{numberLiteral(a, 0), list}
	a.Node(sw).Number = 1 // one pre-default clause

	tree := program(t, a, sw)
	body := tree["body"].([]interface{})
	stmt := body[0].(map[string]interface{})
	assert.Equal(t, "SwitchStatement", stmt["type"])

	cases := stmt["cases"].([]interface{})
	require.Len(t, cases, 3)
	assert.Equal(t, "1", cases[0].(map[string]interface{})["test"].(map[string]interface{})["value"])
	assert.Nil(t, cases[1].(map[string]interface{})["test"])
	assert.Equal(t, "2", cases[2].(map[string]interface{})["test"].(map[string]interface{})["value"])
}

func TestSerializeIndentWidthControlsSpacing(t *testing.T) {
	a := ast.NewArena()
	root := a.New(ast.KindSourceElements)
	a.Node(root).Children = []ast.Handle{exprStatement(a, numberLiteral(a, 1))}

	two, err := SerializeIndent(a, root, 2)
	require.NoError(t, err)
	four, err := SerializeIndent(a, root, 4)
	require.NoError(t, err)

	assert.Contains(t, two, "\n  \"")
	assert.Contains(t, four, "\n    \"")
	assert.NotEqual(t, two, four)
}

func TestSerializeFunctionExpressionAndDeclBothRenderAsFunctionExpression(t *testing.T) {
	// spec.md §4.4: both node kinds share one ESTree type name.
	a := ast.NewArena()

	params := a.New(ast.KindFormalParameterList)
	bodyBlock := a.New(ast.KindFunctionBody)

	fe := a.New(ast.KindFunctionExpression)
	a.Node(fe).Children = []ast.Handle{params, bodyBlock}

	fd := a.New(ast.KindFunctionDecl)
	a.Node(fd).Name = "f"
	a.Node(fd).Children = []ast.Handle{params, bodyBlock}

	tree := program(t, a, exprStatement(a, fe), fd)
	body := tree["body"].([]interface{})

	exprFn := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "FunctionExpression", exprFn["type"])
	assert.Nil(t, exprFn["id"])

	declFn := body[1].(map[string]interface{})
	assert.Equal(t, "FunctionExpression", declFn["type"])
	assert.Equal(t, "f", declFn["id"].(map[string]interface{})["name"])
}

func TestSerializeSequenceExpressionFlattensLeftNestedComma(t *testing.T) {
	a := ast.NewArena()
	inner := a.New(ast.KindComma)
	a.Node(inner).Children = []ast.Handle{numberLiteral(a, 1), numberLiteral(a, 2)}
	outer := a.New(ast.KindComma)
	a.Node(outer).Children = []ast.Handle{inner, numberLiteral(a, 3)}

	tree := program(t, a, exprStatement(a, outer))
	body := tree["body"].([]interface{})
	seq := body[0].(map[string]interface{})["expression"].(map[string]interface{})
	assert.Equal(t, "SequenceExpression", seq["type"])

	exprs := seq["expressions"].([]interface{})
	require.Len(t, exprs, 3)
	assert.Equal(t, "1", exprs[0].(map[string]interface{})["value"])
	assert.Equal(t, "2", exprs[1].(map[string]interface{})["value"])
	assert.Equal(t, "3", exprs[2].(map[string]interface{})["value"])
}
