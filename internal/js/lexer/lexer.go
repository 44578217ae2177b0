// Package lexer turns a UTF-16 source buffer into a stream of ECMAScript
// tokens: identifiers and keywords, numeric/string/regex literals,
// punctuators, and the line-terminator bookkeeping the parser needs for
// automatic semicolon insertion.
package lexer

import (
	"strings"

	"github.com/dlclark/regexp2"

	"go.hammerjs.dev/hammer/internal/js/token"
	"go.hammerjs.dev/hammer/internal/js/ustring"
)

// Lexer scans one source buffer. It is not safe for concurrent use; each
// parse owns its own Lexer, matching the single-threaded, scoped-resource
// model the parser itself follows.
type Lexer struct {
	src  ustring.String
	pos  int
	line int
	col  int

	// lastKind drives regex-vs-divide disambiguation: a '/' after a token
	// that can end an expression is division, otherwise a regex literal.
	lastKind token.Kind

	err      bool
	errLine  int
}

// New returns a Lexer positioned at the start of src.
func New(src ustring.String) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1, col: 0, lastKind: token.EOF}
}

// Errored reports whether a lexical error has occurred.
func (l *Lexer) Errored() bool { return l.err }

// ErrorLine returns the 1-based line of the first lexical error, valid only
// after Errored returns true.
func (l *Lexer) ErrorLine() int { return l.errLine }

func (l *Lexer) fail(line int) {
	if !l.err {
		l.err = true
		l.errLine = line
	}
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return -1
	}
	return rune(l.src[l.pos])
}

func (l *Lexer) peekRuneAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return -1
	}
	return rune(l.src[l.pos+off])
}

func (l *Lexer) advance() rune {
	c := l.peekRune()
	if c == -1 {
		return -1
	}
	l.pos++
	if c == '\n' || c == '\r' || c == 0x2028 || c == 0x2029 {
		if c == '\r' && l.peekRune() == '\n' {
			l.pos++
		}
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// skipTrivia consumes whitespace and comments, reporting whether any
// LineTerminator was crossed (needed for ASI).
func (l *Lexer) skipTrivia() bool {
	sawNewline := false
	for {
		c := l.peekRune()
		switch {
		case c == -1:
			return sawNewline
		case token.IsLineTerminator(c):
			sawNewline = true
			l.advance()
		case token.IsWhiteSpace(c):
			l.advance()
		case c == '/' && l.peekRuneAt(1) == '/':
			for l.peekRune() != -1 && !token.IsLineTerminator(l.peekRune()) {
				l.advance()
			}
		case c == '/' && l.peekRuneAt(1) == '*':
			l.advance()
			l.advance()
			closed := false
			for l.peekRune() != -1 {
				if token.IsLineTerminator(l.peekRune()) {
					sawNewline = true
				}
				if l.peekRune() == '*' && l.peekRuneAt(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				l.fail(l.line)
				return sawNewline
			}
		default:
			return sawNewline
		}
	}
}

// Next scans and returns the next token. After a lexical error, Next
// always returns an EOF token, matching the "subsequent calls return
// end-of-input" failure contract.
func (l *Lexer) Next() token.Token {
	if l.err {
		return token.Token{Kind: token.EOF, Start: l.position(), End: l.position()}
	}

	newline := l.skipTrivia()
	if l.err {
		return token.Token{Kind: token.EOF, Start: l.position(), End: l.position()}
	}

	start := l.position()
	c := l.peekRune()
	if c == -1 {
		tok := token.Token{Kind: token.EOF, Start: start, End: start, PrecededByNewline: newline}
		l.lastKind = token.EOF
		return tok
	}

	var tok token.Token
	switch {
	case token.IsIdentifierStart(c):
		tok = l.scanIdentifier()
	case token.IsDecimalDigit(c), c == '.' && token.IsDecimalDigit(l.peekRuneAt(1)):
		tok = l.scanNumber()
	case c == '\'' || c == '"':
		tok = l.scanString(c)
	case c == '/' && !token.EndsExpression(l.lastKind):
		tok = l.scanRegex()
	default:
		tok = l.scanPunctuator()
	}

	tok.Start = start
	tok.End = l.position()
	tok.PrecededByNewline = newline
	l.lastKind = tok.Kind
	return tok
}

func (l *Lexer) scanIdentifier() token.Token {
	begin := l.pos
	for token.IsIdentifierPart(l.peekRune()) {
		l.advance()
	}
	text := l.src[begin:l.pos]
	kind := token.Lookup(text)
	if kind == token.Ident {
		return token.Token{Kind: token.Ident, Text: text.String()}
	}
	return token.Token{Kind: kind, Text: text.String()}
}

func (l *Lexer) scanNumber() token.Token {
	begin := l.pos
	isHex := false
	if l.peekRune() == '0' && (l.peekRuneAt(1) == 'x' || l.peekRuneAt(1) == 'X') {
		isHex = true
		l.advance()
		l.advance()
		digits := 0
		for token.IsHexDigit(l.peekRune()) {
			l.advance()
			digits++
		}
		if digits == 0 {
			l.fail(l.line)
			return token.Token{Kind: token.Error}
		}
	} else {
		for token.IsDecimalDigit(l.peekRune()) {
			l.advance()
		}
		if l.peekRune() == '.' {
			l.advance()
			for token.IsDecimalDigit(l.peekRune()) {
				l.advance()
			}
		}
		if l.peekRune() == 'e' || l.peekRune() == 'E' {
			save := l.pos
			l.advance()
			if l.peekRune() == '+' || l.peekRune() == '-' {
				l.advance()
			}
			if !token.IsDecimalDigit(l.peekRune()) {
				l.pos = save
			} else {
				for token.IsDecimalDigit(l.peekRune()) {
					l.advance()
				}
			}
		}
	}

	if token.IsIdentifierStart(l.peekRune()) || token.IsDecimalDigit(l.peekRune()) {
		l.fail(l.line)
		return token.Token{Kind: token.Error}
	}

	text := l.src[begin:l.pos].String()
	var value float64
	if isHex {
		value = parseHex(text[2:])
	} else {
		value = parseDecimal(text)
	}
	return token.Token{Kind: token.Number, Number: value, Text: text}
}

func parseHex(digits string) float64 {
	var v float64
	for i := 0; i < len(digits); i++ {
		v = v*16 + float64(token.HexValue(rune(digits[i])))
	}
	return v
}

func parseDecimal(text string) float64 {
	intPart, fracPart, expPart := text, "", ""
	if i := strings.IndexAny(text, "eE"); i >= 0 {
		expPart = text[i+1:]
		text = text[:i]
	}
	if i := strings.IndexByte(text, '.'); i >= 0 {
		intPart, fracPart = text[:i], text[i+1:]
	} else {
		intPart = text
	}

	var v float64
	for i := 0; i < len(intPart); i++ {
		d := float64(intPart[i] - '0')
		nv := v*10 + d
		if nv < v {
			return infinity()
		}
		v = nv
	}
	scale := 1.0
	for i := 0; i < len(fracPart); i++ {
		scale /= 10
		v += float64(fracPart[i]-'0') * scale
	}
	if expPart != "" {
		neg := false
		if expPart[0] == '+' || expPart[0] == '-' {
			neg = expPart[0] == '-'
			expPart = expPart[1:]
		}
		e := 0
		for i := 0; i < len(expPart); i++ {
			e = e*10 + int(expPart[i]-'0')
		}
		for i := 0; i < e; i++ {
			if neg {
				v /= 10
			} else {
				v *= 10
				if v > 1.7976931348623157e+308 {
					return infinity()
				}
			}
		}
	}
	return v
}

func infinity() float64 {
	var zero float64
	return 1 / zero
}

func (l *Lexer) scanString(quote rune) token.Token {
	l.advance()
	var out ustring.String
	for {
		c := l.peekRune()
		if c == -1 || token.IsLineTerminator(c) {
			l.fail(l.line)
			return token.Token{Kind: token.Error}
		}
		if c == quote {
			l.advance()
			break
		}
		if c == '\\' {
			l.advance()
			esc := l.peekRune()
			switch esc {
			case 'n':
				out = append(out, '\n')
				l.advance()
			case 'r':
				out = append(out, '\r')
				l.advance()
			case 't':
				out = append(out, '\t')
				l.advance()
			case 'v':
				out = append(out, '\v')
				l.advance()
			case 'b':
				out = append(out, '\b')
				l.advance()
			case 'f':
				out = append(out, '\f')
				l.advance()
			case '\\':
				out = append(out, '\\')
				l.advance()
			case '\'':
				out = append(out, '\'')
				l.advance()
			case '"':
				out = append(out, '"')
				l.advance()
			case '0':
				out = append(out, 0)
				l.advance()
			case 'x':
				l.advance()
				v, ok := l.scanHexDigits(2)
				if !ok {
					l.fail(l.line)
					return token.Token{Kind: token.Error}
				}
				out = append(out, uint16(v))
			case 'u':
				l.advance()
				v, ok := l.scanHexDigits(4)
				if !ok {
					l.fail(l.line)
					return token.Token{Kind: token.Error}
				}
				out = append(out, uint16(v))
			default:
				if token.IsLineTerminator(esc) {
					l.advance()
				} else if esc == -1 {
					l.fail(l.line)
					return token.Token{Kind: token.Error}
				} else {
					out = append(out, uint16(esc))
					l.advance()
				}
			}
			continue
		}
		out = append(out, uint16(c))
		l.advance()
	}
	return token.Token{Kind: token.String, Text: out.String()}
}

func (l *Lexer) scanHexDigits(n int) (int, bool) {
	v := 0
	for i := 0; i < n; i++ {
		c := l.peekRune()
		if !token.IsHexDigit(c) {
			return 0, false
		}
		v = v*16 + token.HexValue(c)
		l.advance()
	}
	return v, true
}

// scanRegex reads a regex literal body and validates it with regexp2, whose
// engine supports ECMAScript backreferences and lookaround that RE2-backed
// stdlib regexp cannot express.
func (l *Lexer) scanRegex() token.Token {
	l.advance() // opening '/'
	begin := l.pos
	inClass := false
	for {
		c := l.peekRune()
		if c == -1 || token.IsLineTerminator(c) {
			l.fail(l.line)
			return token.Token{Kind: token.Error}
		}
		if c == '\\' {
			l.advance()
			if token.IsLineTerminator(l.peekRune()) || l.peekRune() == -1 {
				l.fail(l.line)
				return token.Token{Kind: token.Error}
			}
			l.advance()
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
		l.advance()
	}
	pattern := l.src[begin:l.pos].String()
	l.advance() // closing '/'

	flagsBegin := l.pos
	for token.IsIdentifierPart(l.peekRune()) {
		l.advance()
	}
	flags := l.src[flagsBegin:l.pos].String()

	if _, err := regexp2.Compile(pattern, regexFlags(flags)); err != nil {
		l.fail(l.line)
		return token.Token{Kind: token.Error}
	}

	return token.Token{Kind: token.RegexLiteral, Text: pattern, Flags: flags}
}

func regexFlags(flags string) regexp2.RegexOptions {
	opts := regexp2.None
	for _, f := range flags {
		switch f {
		case 'i':
			opts |= regexp2.IgnoreCase
		case 'm':
			opts |= regexp2.Multiline
		}
	}
	return opts
}

func (l *Lexer) scanPunctuator() token.Token {
	c := l.advance()
	switch c {
	case '{':
		return token.Token{Kind: token.LBrace}
	case '}':
		return token.Token{Kind: token.RBrace}
	case '(':
		return token.Token{Kind: token.LParen}
	case ')':
		return token.Token{Kind: token.RParen}
	case '[':
		return token.Token{Kind: token.LBracket}
	case ']':
		return token.Token{Kind: token.RBracket}
	case ';':
		return token.Token{Kind: token.Semicolon}
	case ',':
		return token.Token{Kind: token.Comma}
	case ':':
		return token.Token{Kind: token.Colon}
	case '?':
		return token.Token{Kind: token.Question}
	case '~':
		return token.Token{Kind: token.BitNot}
	case '.':
		return token.Token{Kind: token.Dot}
	case '+':
		if l.peekRune() == '+' {
			l.advance()
			return token.Token{Kind: token.PlusPlus}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.PlusEq}
		}
		return token.Token{Kind: token.Plus}
	case '-':
		if l.peekRune() == '-' {
			l.advance()
			return token.Token{Kind: token.MinusMinus}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.MinusEq}
		}
		return token.Token{Kind: token.Minus}
	case '*':
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.MultEq}
		}
		return token.Token{Kind: token.Times}
	case '/':
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.DivEq}
		}
		return token.Token{Kind: token.Divide}
	case '%':
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.ModEq}
		}
		return token.Token{Kind: token.Mod}
	case '&':
		if l.peekRune() == '&' {
			l.advance()
			return token.Token{Kind: token.And}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.AndEq}
		}
		return token.Token{Kind: token.BitAnd}
	case '|':
		if l.peekRune() == '|' {
			l.advance()
			return token.Token{Kind: token.Or}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.OrEq}
		}
		return token.Token{Kind: token.BitOr}
	case '^':
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.XorEq}
		}
		return token.Token{Kind: token.BitXor}
	case '!':
		if l.peekRune() == '=' {
			l.advance()
			if l.peekRune() == '=' {
				l.advance()
				return token.Token{Kind: token.StrNotEq}
			}
			return token.Token{Kind: token.NotEq}
		}
		return token.Token{Kind: token.Not}
	case '=':
		if l.peekRune() == '=' {
			l.advance()
			if l.peekRune() == '=' {
				l.advance()
				return token.Token{Kind: token.StrEq}
			}
			return token.Token{Kind: token.Eq}
		}
		return token.Token{Kind: token.Assign}
	case '<':
		if l.peekRune() == '<' {
			l.advance()
			if l.peekRune() == '=' {
				l.advance()
				return token.Token{Kind: token.LShiftEq}
			}
			return token.Token{Kind: token.LShift}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.LtEq}
		}
		return token.Token{Kind: token.Lt}
	case '>':
		if l.peekRune() == '>' {
			l.advance()
			if l.peekRune() == '>' {
				l.advance()
				if l.peekRune() == '=' {
					l.advance()
					return token.Token{Kind: token.URShiftEq}
				}
				return token.Token{Kind: token.URShift}
			}
			if l.peekRune() == '=' {
				l.advance()
				return token.Token{Kind: token.RShiftEq}
			}
			return token.Token{Kind: token.RShift}
		}
		if l.peekRune() == '=' {
			l.advance()
			return token.Token{Kind: token.GtEq}
		}
		return token.Token{Kind: token.Gt}
	}
	l.fail(l.line)
	return token.Token{Kind: token.Error}
}
