// Package ustring implements the UTF-16 code-unit buffer used throughout
// the lexer and parser (spec.md's "StringBuf"), identifier interning, and
// shortest-round-trip number-to-string formatting.
package ustring

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// String is an immutable UTF-16 code-unit sequence compared by value, the
// Go analogue of the reference's UString: equality is code-unit equality,
// not normalized Unicode comparison.
type String []uint16

// FromUTF8 decodes a UTF-8 byte slice into a code-unit String.
func FromUTF8(s []byte) String {
	return String(utf16.Encode([]rune(string(s))))
}

// FromString decodes a Go string into a code-unit String.
func FromString(s string) String {
	return String(utf16.Encode([]rune(s)))
}

// String renders the code-unit sequence back to a UTF-8 Go string.
func (s String) String() string {
	return string(utf16.Decode(s))
}

// Equal reports code-unit equality.
func (s String) Equal(o String) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// AppendRune appends the UTF-16 encoding of r to s.
func AppendRune(s String, r rune) String {
	if r < utf8.RuneSelf || r < 0x10000 {
		return append(s, uint16(r))
	}
	r1, r2 := utf16.EncodeRune(r)
	return append(s, uint16(r1), uint16(r2))
}

// NumberToString formats f the way ECMAScript's Number.prototype.toString
// does for the default radix: the shortest decimal representation that
// round-trips back to f, matching spec.md §4.4's "%g-equivalent — shortest
// representation that round-trips" and §4.3's numeric-property-key
// canonicalization.
func NumberToString(f float64) string {
	switch {
	case f != f:
		return "NaN"
	case f > 0 && f*2 == f:
		return "Infinity"
	case f < 0 && f*2 == f:
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if a := math.Abs(f); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// strconv pads the exponent to two digits ("1e-07"); JS does not.
	if i := strings.IndexByte(s, 'e'); i >= 0 && len(s) > i+3 && s[i+2] == '0' {
		s = s[:i+2] + s[i+3:]
	}
	return s
}

// Interner produces Identifier handles from code-unit ranges, comparing
// equal identifiers to the same handle so parser/estree code can compare
// identifiers by pointer instead of re-scanning code units. Interning is
// optional per spec.md §3 ("the reference implementation uses plain string
// equality") — this implementation provides it because the builder already
// has a natural place (one per parse) to own the table, and it collapses
// repeated property-key / identifier allocations in typical programs.
type Interner struct {
	table map[string]*Identifier
}

// Identifier is an interned name, comparable by pointer once obtained from
// the same Interner.
type Identifier struct {
	Text string
}

// NewInterner returns an empty Interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]*Identifier)}
}

// Intern returns the canonical Identifier for text, creating one on first
// use.
func (in *Interner) Intern(text string) *Identifier {
	if id, ok := in.table[text]; ok {
		return id
	}
	id := &Identifier{Text: text}
	in.table[text] = id
	return id
}
