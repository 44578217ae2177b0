package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.hammerjs.dev/hammer/internal/js/token"
	"go.hammerjs.dev/hammer/internal/js/ustring"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(ustring.FromString(src))
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func TestIdentifiersAndKeywords(t *testing.T) {
	toks := scanAll(t, "var foo = this")
	require.Len(t, toks, 5)
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, "foo", toks[1].Text)
	assert.Equal(t, token.Assign, toks[2].Kind)
	assert.Equal(t, token.This, toks[3].Kind)
	assert.Equal(t, token.EOF, toks[4].Kind)
}

func TestReservedWord(t *testing.T) {
	toks := scanAll(t, "class")
	assert.Equal(t, token.Reserved, toks[0].Kind)
}

func TestNumberLiterals(t *testing.T) {
	cases := map[string]float64{
		"0":       0,
		"42":      42,
		"3.14":    3.14,
		"1e3":     1000,
		"0x1F":    31,
		"0.5e2":   50,
	}
	for src, want := range cases {
		toks := scanAll(t, src)
		require.Equal(t, token.Number, toks[0].Kind, src)
		assert.InDelta(t, want, toks[0].Number, 1e-9, src)
	}
}

func TestHexLiteralNoDigitsIsLexError(t *testing.T) {
	l := New(ustring.FromString("0x"))
	tok := l.Next()
	assert.Equal(t, token.Error, tok.Kind)
	assert.True(t, l.Errored())
}

func TestStringEscapes(t *testing.T) {
	toks := scanAll(t, `"a\nb\tc\\d\'e\"f"`)
	require.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "a\nb\tc\\d'e\"f", toks[0].Text)
}

func TestStringLineContinuation(t *testing.T) {
	toks := scanAll(t, "\"a\\\nb\"")
	require.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "ab", toks[0].Text)
}

func TestUnterminatedStringIsLexError(t *testing.T) {
	l := New(ustring.FromString("\"abc"))
	tok := l.Next()
	assert.Equal(t, token.Error, tok.Kind)
	assert.True(t, l.Errored())
}

func TestRegexAfterOperatorVsDivision(t *testing.T) {
	toks := scanAll(t, "a = b / c / d")
	require.Len(t, toks, 8)
	assert.Equal(t, token.Divide, toks[3].Kind)
	assert.Equal(t, token.Divide, toks[5].Kind)
}

func TestRegexLiteralRecognized(t *testing.T) {
	toks := scanAll(t, "x = /ab+c/gi")
	require.Equal(t, token.RegexLiteral, toks[2].Kind)
	assert.Equal(t, "ab+c", toks[2].Text)
	assert.Equal(t, "gi", toks[2].Flags)
}

func TestPrecededByNewlineTracksASI(t *testing.T) {
	toks := scanAll(t, "return\n1")
	require.Len(t, toks, 3)
	assert.False(t, toks[0].PrecededByNewline)
	assert.True(t, toks[1].PrecededByNewline)
}

func TestPunctuators(t *testing.T) {
	toks := scanAll(t, "=== !== >>>= <= >=")
	kinds := []token.Kind{token.StrEq, token.StrNotEq, token.URShiftEq, token.LtEq, token.GtEq, token.EOF}
	require.Len(t, toks, len(kinds))
	for i, k := range kinds {
		assert.Equal(t, k, toks[i].Kind, "token %d", i)
	}
}

func TestCommentsSkippedAndLineTracked(t *testing.T) {
	toks := scanAll(t, "// comment\nvar /* block\ncomment */ x")
	require.Len(t, toks, 3)
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, 2, toks[0].Start.Line)
	assert.Equal(t, token.Ident, toks[1].Kind)
	assert.Equal(t, 3, toks[1].Start.Line)
}
