package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArenaNewAndReset(t *testing.T) {
	a := NewArena()
	h1 := a.New(KindNumber)
	a.Node(h1).Number = 42
	h2 := a.New(KindString)
	a.Node(h2).Text = "hi"

	assert.Equal(t, 2, a.Len())
	assert.Equal(t, float64(42), a.Node(h1).Number)
	assert.Equal(t, "hi", a.Node(h2).Text)

	a.Reset()
	assert.Equal(t, 0, a.Len())
}

func TestOperatorTextFixesRelationalSwap(t *testing.T) {
	// spec.md §9 calls the reference's <=/>= swap a bug to fix, not
	// preserve — both must map to their own spelling.
	assert.Equal(t, "<=", OpLessThanOrEqual.Text())
	assert.Equal(t, ">=", OpGreaterThanOrEqual.Text())
}

func TestOperatorTextRoundTrip(t *testing.T) {
	cases := map[Operator]string{
		OpAdd: "+", OpSubtract: "-", OpMultiply: "*", OpDivide: "/",
		OpLessThan: "<", OpGreaterThan: ">",
		OpStrictEqual: "===", OpStrictNotEqual: "!==",
		OpAssignLeftShift: "<<=", OpAssignRightShift: ">>=",
	}
	for op, want := range cases {
		assert.Equal(t, want, op.Text())
	}
}

func TestNoNodePlaceholder(t *testing.T) {
	a := NewArena()
	h := a.New(KindIf)
	a.Node(h).Children = []Handle{NoNode, NoNode, NoNode}
	assert.Equal(t, NoNode, a.Node(h).Children[2])
}
