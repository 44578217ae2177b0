package parser

import (
	"go.hammerjs.dev/hammer/internal/js/ast"
	"go.hammerjs.dev/hammer/internal/js/token"
)

// Binary operator precedence levels, tightest-binding highest, matching
// spec.md §4.2's "high → low" list from multiplicative through logical-or.
// Assignment (right-associative) and comma (left-associative) are handled
// by dedicated productions rather than the climbing loop, so the generic
// loop doesn't need to special-case either.
const (
	precLogicalOr = iota + 1
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

// binaryOp reports the Operator and precedence for a token kind usable as
// a binary operator in the current context. noIn suppresses the `in`
// operator, used while parsing a for-statement's init clause (spec.md
// §4.2's "no-in context").
func binaryOp(k token.Kind, noIn bool) (ast.Operator, int, bool) {
	switch k {
	case token.Or:
		return ast.OpLogicalOr, precLogicalOr, true
	case token.And:
		return ast.OpLogicalAnd, precLogicalAnd, true
	case token.BitOr:
		return ast.OpBitOr, precBitOr, true
	case token.BitXor:
		return ast.OpBitXor, precBitXor, true
	case token.BitAnd:
		return ast.OpBitAnd, precBitAnd, true
	case token.Eq:
		return ast.OpEqual, precEquality, true
	case token.NotEq:
		return ast.OpNotEqual, precEquality, true
	case token.StrEq:
		return ast.OpStrictEqual, precEquality, true
	case token.StrNotEq:
		return ast.OpStrictNotEqual, precEquality, true
	case token.Lt:
		return ast.OpLessThan, precRelational, true
	case token.Gt:
		return ast.OpGreaterThan, precRelational, true
	case token.LtEq:
		return ast.OpLessThanOrEqual, precRelational, true
	case token.GtEq:
		return ast.OpGreaterThanOrEqual, precRelational, true
	case token.Instanceof:
		return ast.OpInstanceOf, precRelational, true
	case token.In:
		if noIn {
			return ast.NoOperator, 0, false
		}
		return ast.OpIn, precRelational, true
	case token.LShift:
		return ast.OpLeftShift, precShift, true
	case token.RShift:
		return ast.OpRightShift, precShift, true
	case token.URShift:
		return ast.OpUnsignedRightShift, precShift, true
	case token.Plus:
		return ast.OpAdd, precAdditive, true
	case token.Minus:
		return ast.OpSubtract, precAdditive, true
	case token.Times:
		return ast.OpMultiply, precMultiplicative, true
	case token.Divide:
		return ast.OpDivide, precMultiplicative, true
	case token.Mod:
		return ast.OpModulo, precMultiplicative, true
	}
	return ast.NoOperator, 0, false
}

// assignmentOp maps an assignment-operator token to its Operator, the
// right-associative, lowest-but-comma precedence level.
func assignmentOp(k token.Kind) (ast.Operator, bool) {
	switch k {
	case token.Assign:
		return ast.OpAssign, true
	case token.PlusEq:
		return ast.OpAssignAdd, true
	case token.MinusEq:
		return ast.OpAssignSubtract, true
	case token.MultEq:
		return ast.OpAssignMultiply, true
	case token.DivEq:
		return ast.OpAssignDivide, true
	case token.ModEq:
		return ast.OpAssignModulo, true
	case token.LShiftEq:
		return ast.OpAssignLeftShift, true
	case token.RShiftEq:
		return ast.OpAssignRightShift, true
	case token.URShiftEq:
		return ast.OpAssignUnsignedRightShift, true
	case token.AndEq:
		return ast.OpAssignBitAnd, true
	case token.XorEq:
		return ast.OpAssignBitXor, true
	case token.OrEq:
		return ast.OpAssignBitOr, true
	}
	return ast.NoOperator, false
}

// unaryOp maps a prefix-position token to its Operator for `! ~ + - typeof
// void delete ++ --`.
func unaryOp(k token.Kind) (ast.Operator, bool) {
	switch k {
	case token.Not:
		return ast.OpNot, true
	case token.BitNot:
		return ast.OpBitNot, true
	case token.Plus:
		return ast.OpPlus, true
	case token.Minus:
		return ast.OpMinus, true
	case token.Typeof:
		return ast.OpTypeof, true
	case token.Void:
		return ast.OpVoid, true
	case token.Delete:
		return ast.OpDelete, true
	case token.PlusPlus:
		return ast.OpPrefixIncrement, true
	case token.MinusMinus:
		return ast.OpPrefixDecrement, true
	}
	return ast.NoOperator, false
}
