package sandbox

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
)

// stream backs a JS Stream instance: a single afero.File opened for reading,
// writing, or both, the way the original Stream constructor's open-mode
// argument worked.
type stream struct {
	s    *sandbox
	name string
	file afero.File
	r    *bufio.Reader
}

// setupStream installs the global Stream constructor and class methods.
func (s *sandbox) setupStream() {
	ctor := func(call goja.ConstructorCall) *goja.Object {
		if len(call.Arguments) != 1 && len(call.Arguments) != 2 {
			throw(s.rt, fmt.Errorf("Stream constructor accepts 1 or 2 arguments"))
		}
		name := call.Arguments[0].String()
		mode := "r"
		if len(call.Arguments) == 2 {
			mode = call.Arguments[1].String()
		}
		st := s.openStream(name, mode)
		s.bindStream(call.This, st)
		return nil
	}
	must(s.rt.Set("Stream", s.rt.ToValue(ctor)))
}

// openStream opens name per mode ("r", "w", or "rw"/"wr") and throws the JS
// exception the original stream_constructor raised on an invalid mode or a
// failed open.
func (s *sandbox) openStream(name, mode string) *stream {
	read := strings.ContainsRune(mode, 'r')
	write := strings.ContainsRune(mode, 'w')
	if !read && !write {
		throw(s.rt, fmt.Errorf("invalid open mode %q for Stream", mode))
	}

	var file afero.File
	var err error
	switch {
	case read && !write:
		file, err = s.fs.Open(name)
	default:
		file, err = s.fs.OpenFile(name, osOpenFlags(read, write), 0o644)
	}
	if err != nil {
		throw(s.rt, fmt.Errorf("can't open %q: %w", name, err))
	}

	st := &stream{s: s, name: name, file: file}
	if read {
		st.r = bufio.NewReader(file)
	}
	return st
}

// bindStream sets the name property and close/flush/next/readLine/writeLine
// methods on obj, the way the original bound them to each Stream instance.
// flush and writeLine return obj so callers can chain writeLine() calls the
// way the original's args.This() return did.
func (s *sandbox) bindStream(obj *goja.Object, st *stream) {
	must(obj.Set("name", st.name))
	must(obj.Set("close", st.close))
	must(obj.Set("flush", func() *goja.Object { st.flush(); return obj }))
	must(obj.Set("next", st.next))
	must(obj.Set("readLine", st.readLine))
	must(obj.Set("writeLine", func(line string) *goja.Object { st.writeLine(line); return obj }))
}

func (st *stream) close() {
	if err := st.file.Close(); err != nil {
		throw(st.s.rt, fmt.Errorf("Stream.close(): %w", err))
	}
}

func (st *stream) flush() {
	if f, ok := st.file.(interface{ Sync() error }); ok {
		_ = f.Sync()
	}
}

// next returns the next line without its terminator, throwing at EOF the
// way the original stream_next did.
func (st *stream) next() string {
	if st.r == nil {
		throw(st.s.rt, fmt.Errorf("Stream.next(): stream not open for reading"))
	}
	line, err := st.r.ReadString('\n')
	if line == "" && err != nil {
		throw(st.s.rt, fmt.Errorf("Stream.next() reached end of file"))
	}
	return strings.TrimRight(line, "\n")
}

// readLine returns the next line including its trailing newline, or "" at
// EOF, matching the original's tolerant stream_readLine.
func (st *stream) readLine() string {
	if st.r == nil {
		throw(st.s.rt, fmt.Errorf("Stream.readLine(): stream not open for reading"))
	}
	line, err := st.r.ReadString('\n')
	if line == "" && err != nil {
		return ""
	}
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return line
}

func (st *stream) writeLine(line string) {
	if _, err := fmt.Fprintln(st.file, line); err != nil {
		throw(st.s.rt, fmt.Errorf("Stream.writeLine(): %w", err))
	}
}

// fsOpen backs fs.open(name[, mode]), which constructs a Stream the same
// way `new Stream(name, mode)` does without requiring the `new` keyword.
func (s *sandbox) fsOpen(call goja.FunctionCall) goja.Value {
	if len(call.Arguments) != 1 && len(call.Arguments) != 2 {
		throw(s.rt, fmt.Errorf("fs.open() accepts 1 or 2 arguments"))
	}
	name := call.Arguments[0].String()
	mode := "r"
	if len(call.Arguments) == 2 {
		mode = call.Arguments[1].String()
	}
	st := s.openStream(name, mode)
	obj := s.rt.NewObject()
	s.bindStream(obj, st)
	return obj
}

func osOpenFlags(read, write bool) int {
	if read && write {
		return os.O_RDWR | os.O_CREATE
	}
	return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
}
