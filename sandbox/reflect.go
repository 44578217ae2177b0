package sandbox

import (
	"fmt"

	"github.com/dop251/goja"

	"go.hammerjs.dev/hammer/internal/js/parser"
)

// setupReflect installs the Reflect global with parse and exit methods
// (exit is the same function as system.exit). parse is bound to the
// hand-written parser the way the original bound it to its own
// createSyntaxTree. The serialized JSON is parsed back into a live JS value
// through JSON.parse, exactly as the original's reflect_parse did.
func (s *sandbox) setupReflect() {
	obj := s.rt.NewObject()
	must(obj.Set("parse", s.reflectParse))
	must(obj.Set("exit", s.systemExit))
	must(s.rt.Set("Reflect", obj))
}

func (s *sandbox) reflectParse(code string) goja.Value {
	tree, err := parser.Parse(code, "<sandbox>")
	if err != nil {
		throw(s.rt, fmt.Errorf("Reflect.parse(): %w", err))
	}

	jsonParse, ok := goja.AssertFunction(s.rt.GlobalObject().Get("JSON").ToObject(s.rt).Get("parse"))
	if !ok {
		throw(s.rt, fmt.Errorf("Reflect.parse(): JSON.parse is unavailable"))
	}
	v, err := jsonParse(goja.Undefined(), s.rt.ToValue(tree))
	if err != nil {
		throw(s.rt, fmt.Errorf("Reflect.parse(): %w", err))
	}
	return v
}
