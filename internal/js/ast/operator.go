package ast

// Operator enumerates every operator a BinaryExpression, Unary, Prefix,
// Postfix or AssignmentExpression node can carry, ported one-for-one from
// the reference's OperatorType enumeration so Text() below can reproduce
// (and, where documented, deliberately diverge from) its convertOperator
// tables.
type Operator int

const (
	NoOperator Operator = iota

	// Unary / prefix-only.
	OpTypeof
	OpDelete
	OpVoid
	OpPlus  // unary +
	OpMinus // unary -
	OpBitNot
	OpNot
	OpPrefixIncrement
	OpPrefixDecrement
	OpPostfixIncrement
	OpPostfixDecrement

	// Multiplicative / additive.
	OpMultiply
	OpDivide
	OpModulo
	OpAdd
	OpSubtract

	// Shift.
	OpLeftShift
	OpRightShift
	OpUnsignedRightShift

	// Relational.
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpInstanceOf
	OpIn

	// Equality.
	OpEqual
	OpNotEqual
	OpStrictEqual
	OpStrictNotEqual

	// Bitwise / logical.
	OpBitAnd
	OpBitXor
	OpBitOr
	OpLogicalAnd
	OpLogicalOr

	// Assignment.
	OpAssign
	OpAssignAdd
	OpAssignSubtract
	OpAssignMultiply
	OpAssignDivide
	OpAssignModulo
	OpAssignLeftShift
	OpAssignRightShift
	OpAssignUnsignedRightShift
	OpAssignBitAnd
	OpAssignBitXor
	OpAssignBitOr
)

// text maps each Operator to the source text an estree serializer emits for
// it. The reference's TreeDumper swaps "<=" and ">=" in its output table;
// spec.md §9 calls this out as a bug to fix rather than preserve, so this
// table emits the correct text for both.
var text = map[Operator]string{
	OpTypeof: "typeof", OpDelete: "delete", OpVoid: "void",
	OpPlus: "+", OpMinus: "-", OpBitNot: "~", OpNot: "!",
	OpPrefixIncrement: "++", OpPrefixDecrement: "--",
	OpPostfixIncrement: "++", OpPostfixDecrement: "--",
	OpMultiply: "*", OpDivide: "/", OpModulo: "%",
	OpAdd: "+", OpSubtract: "-",
	OpLeftShift: "<<", OpRightShift: ">>", OpUnsignedRightShift: ">>>",
	OpLessThan: "<", OpGreaterThan: ">",
	OpLessThanOrEqual: "<=", OpGreaterThanOrEqual: ">=",
	OpInstanceOf: "instanceof", OpIn: "in",
	OpEqual: "==", OpNotEqual: "!=", OpStrictEqual: "===", OpStrictNotEqual: "!==",
	OpBitAnd: "&", OpBitXor: "^", OpBitOr: "|",
	OpLogicalAnd: "&&", OpLogicalOr: "||",
	OpAssign: "=", OpAssignAdd: "+=", OpAssignSubtract: "-=",
	OpAssignMultiply: "*=", OpAssignDivide: "/=", OpAssignModulo: "%=",
	OpAssignLeftShift: "<<=", OpAssignRightShift: ">>=", OpAssignUnsignedRightShift: ">>>=",
	OpAssignBitAnd: "&=", OpAssignBitXor: "^=", OpAssignBitOr: "|=",
}

// Text returns the source text for op, or "" if op is NoOperator or
// unrecognized.
func (op Operator) Text() string {
	return text[op]
}

// IsAssignment reports whether op is one of the compound or plain
// assignment operators.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpAssignBitOr
}
