package parser_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hammerjs.dev/hammer/internal/js/parser"
)

func mustParse(t *testing.T, source string) map[string]interface{} {
	t.Helper()
	out, err := parser.Parse(source, "test.js")
	require.Nil(t, err, "unexpected parse error: %v", err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	return tree
}

func child(t *testing.T, v interface{}, path ...string) interface{} {
	t.Helper()
	for _, p := range path {
		m, ok := v.(map[string]interface{})
		require.True(t, ok, "expected object while walking into %q, got %T", p, v)
		var present bool
		v, present = m[p]
		require.True(t, present, "missing key %q", p)
	}
	return v
}

func TestParseEmptyProgram(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "")
	assert.Equal(t, "Program", tree["type"])
	assert.Equal(t, []interface{}{}, tree["body"])
}

// Scenario 1: 1 + 2
func TestParseBinaryAddition(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "1 + 2;")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)

	expr := child(t, body[0], "expression")
	assert.Equal(t, "BinaryExpression", child(t, expr, "type"))
	assert.Equal(t, "+", child(t, expr, "operator"))
	// numeric literal values serialize as quoted JSON strings, not bare numbers
	assert.Equal(t, "1", child(t, expr, "left", "value"))
	assert.Equal(t, "2", child(t, expr, "right", "value"))
}

// Scenario 2: var x = 1, y = 2;
func TestParseVariableDeclarationMultipleDeclarators(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "var x = 1, y = 2;")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	assert.Equal(t, "VariableDeclaration", child(t, body[0], "type"))

	decls := child(t, body[0], "declarations").([]interface{})
	require.Len(t, decls, 2)
	assert.Equal(t, "x", child(t, decls[0], "id", "name"))
	assert.Equal(t, "1", child(t, decls[0], "init", "value"))
	assert.Equal(t, "y", child(t, decls[1], "id", "name"))
	assert.Equal(t, "2", child(t, decls[1], "init", "value"))
}

// Scenario 3: if (a) b; else c;
func TestParseIfElseHasThreeChildren(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "if (a) b; else c;")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	stmt := body[0]
	assert.Equal(t, "IfStatement", child(t, stmt, "type"))
	assert.NotNil(t, child(t, stmt, "test"))
	assert.NotNil(t, child(t, stmt, "consequent"))
	assert.NotNil(t, child(t, stmt, "alternate"))
}

// Scenario 4: for (var i in o) {}
func TestParseForIn(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "for (var i in o) {}")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	stmt := body[0]
	assert.Equal(t, "ForInStatement", child(t, stmt, "type"))
	assert.Equal(t, false, child(t, stmt, "each"))

	left := child(t, stmt, "left")
	assert.Equal(t, "VariableDeclaration", child(t, left, "type"))
	decls := child(t, left, "declarations").([]interface{})
	require.Len(t, decls, 1)
	assert.Equal(t, "i", child(t, decls[0], "id", "name"))
	assert.Nil(t, child(t, decls[0], "init"))

	assert.Equal(t, "o", child(t, stmt, "right", "name"))
	assert.Equal(t, "BlockStatement", child(t, stmt, "body", "type"))
	assert.Equal(t, []interface{}{}, child(t, stmt, "body", "body"))
}

// The most common loop shape: a C-style for with a var init clause. Its
// init is a VariableDeclaration reaching expression position, the same
// path TestParseForIn exercises for the for-in left-hand side.
func TestParseCStyleForWithVarInit(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "for (var i = 0; i < 3; i++) {}")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	stmt := body[0]
	assert.Equal(t, "ForStatement", child(t, stmt, "type"))

	init := child(t, stmt, "init")
	assert.Equal(t, "VariableDeclaration", child(t, init, "type"))
	decls := child(t, init, "declarations").([]interface{})
	require.Len(t, decls, 1)
	assert.Equal(t, "i", child(t, decls[0], "id", "name"))
	assert.Equal(t, "0", child(t, decls[0], "init", "value"))

	assert.Equal(t, "BinaryExpression", child(t, stmt, "test", "type"))
	assert.Equal(t, "<", child(t, stmt, "test", "operator"))
	assert.Equal(t, "UpdateExpression", child(t, stmt, "update", "type"))
	assert.Equal(t, "BlockStatement", child(t, stmt, "body", "type"))
}

// A multi-declarator var init clause must serialize each declarator with
// its own id/init pair, not fold the second declarator into the first's
// init (the bug the single-declarator wrapping fix above also covers).
func TestParseCStyleForWithMultipleDeclarators(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "for (var i = 0, j = 1; ; ) {}")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	init := child(t, body[0], "init")
	assert.Equal(t, "VariableDeclaration", child(t, init, "type"))

	decls := child(t, init, "declarations").([]interface{})
	require.Len(t, decls, 2)
	assert.Equal(t, "i", child(t, decls[0], "id", "name"))
	assert.Equal(t, "0", child(t, decls[0], "init", "value"))
	assert.Equal(t, "j", child(t, decls[1], "id", "name"))
	assert.Equal(t, "1", child(t, decls[1], "init", "value"))
}

// Scenario 5: function f(a,b){return a+b;}
func TestParseFunctionExpression(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "var f = function f(a,b){return a+b;};")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	decls := child(t, body[0], "declarations").([]interface{})
	require.Len(t, decls, 1)

	fn := child(t, decls[0], "init")
	assert.Equal(t, "FunctionExpression", child(t, fn, "type"))
	assert.Equal(t, "f", child(t, fn, "id", "name"))

	params := child(t, fn, "params").([]interface{})
	require.Len(t, params, 2)
	assert.Equal(t, "a", child(t, params[0], "name"))
	assert.Equal(t, "b", child(t, params[1], "name"))

	fnBody := child(t, fn, "body", "body").([]interface{})
	require.Len(t, fnBody, 1)
	assert.Equal(t, "ReturnStatement", child(t, fnBody[0], "type"))
	assert.Equal(t, "+", child(t, fnBody[0], "argument", "operator"))
}

// Scenario 6: switch(x){case 1: a; default: b; case 2: c;}
func TestParseSwitchFoldsDefaultInSourceOrder(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "switch(x){case 1: a; default: b; case 2: c;}")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	sw := body[0]
	assert.Equal(t, "SwitchStatement", child(t, sw, "type"))

	cases := child(t, sw, "cases").([]interface{})
	require.Len(t, cases, 3)
	assert.Equal(t, "1", child(t, cases[0], "test", "value"))
	assert.Nil(t, child(t, cases[1], "test"))
	assert.Equal(t, "2", child(t, cases[2], "test", "value"))
}

func TestParseIsDeterministic(t *testing.T) {
	t.Parallel()
	const src = "function f(a, b) { return a + b * (2 - 1); }"
	out1, err1 := parser.Parse(src, "a.js")
	out2, err2 := parser.Parse(src, "a.js")
	require.Nil(t, err1)
	require.Nil(t, err2)
	assert.Equal(t, out1, out2)
}

func TestParseParenthesesDoNotChangeTheExpressionTree(t *testing.T) {
	t.Parallel()
	plain := mustParse(t, "a + b * c;")
	parens := mustParse(t, "(a + (b * c));")

	stripPositions(plain)
	stripPositions(parens)
	assert.Equal(t, plain, parens)
}

// stripPositions removes range/loc-ish fields recursively so two ASTs that
// differ only in source offsets compare equal.
func stripPositions(v interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		delete(val, "range")
		delete(val, "loc")
		for _, child := range val {
			stripPositions(child)
		}
	case []interface{}:
		for _, child := range val {
			stripPositions(child)
		}
	}
}

func TestParseSyntaxErrorReportsLineAndMessage(t *testing.T) {
	t.Parallel()
	_, err := parser.Parse("var ;", "bad.js")
	require.NotNil(t, err)
	assert.Equal(t, "Parse error", err.Message)
	assert.Equal(t, "bad.js", err.Filename)
	assert.Equal(t, 1, err.Line)
}

func TestParseReservedWordAsIdentifierIsASyntaxError(t *testing.T) {
	t.Parallel()
	_, err := parser.Parse("var class = 1;", "bad.js")
	require.NotNil(t, err)
}

func TestParseOptionsControlsIndentWidth(t *testing.T) {
	t.Parallel()
	out, err := parser.ParseOptions("1;", "a.js", parser.Options{AllowAccessors: true, IndentWidth: 0})
	require.Nil(t, err)

	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	assert.Equal(t, "Program", tree["type"])
	assert.NotContains(t, out, "\n ")
}

func TestParseRegexVsDivideDisambiguation(t *testing.T) {
	t.Parallel()
	tree := mustParse(t, "a = b / c / d;")

	body := tree["body"].([]interface{})
	require.Len(t, body, 1)
	expr := child(t, body[0], "expression")
	assert.Equal(t, "AssignmentExpression", child(t, expr, "type"))

	outer := child(t, expr, "right")
	assert.Equal(t, "BinaryExpression", child(t, outer, "type"))
	assert.Equal(t, "/", child(t, outer, "operator"))
	assert.Equal(t, "BinaryExpression", child(t, outer, "left", "type"))
	assert.Equal(t, "/", child(t, outer, "left", "operator"))
}
