package token

// IsWhiteSpace reports whether c is ES5 WhiteSpace (tab, vertical tab, form
// feed, space, no-break space — the reference treats non-ASCII categories as
// zero, so apart from U+00A0 no other Unicode space separator is recognized
// here).
func IsWhiteSpace(c rune) bool {
	switch c {
	case '\t', '\v', '\f', ' ', 0xA0:
		return true
	default:
		return false
	}
}

// IsLineTerminator reports whether c is an ES5 LineTerminator: LF, CR, and
// the Unicode line/paragraph separators U+2028/U+2029.
func IsLineTerminator(c rune) bool {
	switch c {
	case '\n', '\r', ' ', ' ':
		return true
	default:
		return false
	}
}

// IsIdentifierStart reports whether c may begin an identifier. The core
// treats non-ASCII letters as identifier characters only when a host
// supplies Unicode classification; this implementation, like the reference,
// recognizes only ASCII letters, '_' and '$'.
func IsIdentifierStart(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
}

// IsIdentifierPart reports whether c may continue an identifier after its
// first character (adds ASCII digits to IsIdentifierStart).
func IsIdentifierPart(c rune) bool {
	return IsIdentifierStart(c) || (c >= '0' && c <= '9')
}

// IsDecimalDigit reports whether c is an ASCII decimal digit.
func IsDecimalDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

// IsHexDigit reports whether c is an ASCII hexadecimal digit.
func IsHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// HexValue returns the numeric value of a hex digit; the caller must check
// IsHexDigit first.
func HexValue(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return int(c-'A') + 10
	}
}
