package parser

import (
	"fmt"

	"go.hammerjs.dev/hammer/internal/js/estree"
	"go.hammerjs.dev/hammer/internal/js/lexer"
	"go.hammerjs.dev/hammer/internal/js/ustring"
)

// SyntaxError reports where and why a source string failed to parse.
// Filename is carried only for display; the line number is the only
// location spec.md's error model requires.
type SyntaxError struct {
	Filename string
	Line     int
	Message  string
}

func (e *SyntaxError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("%s:%d: %s", e.Filename, e.Line, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Line, e.Message)
}

// Parse lexes and parses source into an ESTree-shaped JSON AST, the single
// entry point spec.md §6 names. filename is used only in the returned
// SyntaxError, if any. The arena backing the parse is discarded before
// Parse returns either way, so callers never see or manage it.
func Parse(source string, filename string) (string, *SyntaxError) {
	return ParseOptions(source, filename, Options{AllowAccessors: true, IndentWidth: 4})
}

// Options controls the additive, backward-compatible knobs ParseOptions
// exposes beyond the fixed spec.md §6 Parse signature: getter/setter
// support (Builder.AllowAccessors) and the serializer's indent width.
type Options struct {
	AllowAccessors bool
	IndentWidth    int
}

// ParseOptions is Parse with caller-chosen Options.
func ParseOptions(source string, filename string, opts Options) (string, *SyntaxError) {
	b := NewBuilder()
	b.AllowAccessors = opts.AllowAccessors
	defer b.Arena.Reset()

	lex := lexer.New(ustring.FromUTF8([]byte(source)))
	p := New(lex, b)

	root := p.ParseProgram()
	if p.Failed() {
		return "", &SyntaxError{Filename: filename, Line: p.ErrorLine(), Message: "Parse error"}
	}

	out, err := estree.SerializeIndent(b.Arena, root, opts.IndentWidth)
	if err != nil {
		return "", &SyntaxError{Filename: filename, Line: 0, Message: err.Error()}
	}
	return out, nil
}
