// Package sandbox implements the host runtime `hammer run` executes driver
// scripts against: a goja VM with fs, Stream and system globals bound to the
// local filesystem and process, and Reflect.parse bound to the hand-written
// ES5 parser. The global surface mirrors the V8 embedding the original
// hammerjs tool exposed, translated onto afero and goja.
package sandbox

import (
	"context"
	"fmt"
	"io"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"go.hammerjs.dev/hammer/errext/exitcodes"
)

// Options configures a sandbox run.
type Options struct {
	// FS is the filesystem fs/Stream operate against.
	FS afero.Fs
	// Root confines fs/Stream paths the way sandboxRoot does for `hammer
	// run`; empty means FS is used unconfined.
	Root string
	// Stdout receives system.print output.
	Stdout io.Writer
	// AllowExecute opts the run into system.execute; disabled by default.
	AllowExecute bool
	// Args is exposed to the script as system.args.
	Args []string

	Logger logrus.FieldLogger
}

// ExitError is returned by Run when the script called system.exit with a
// non-zero status. Its ExitCode is the literal status the script requested,
// not one of the package's own reserved codes.
type ExitError struct{ Code int }

func (e *ExitError) Error() string {
	return fmt.Sprintf("script called system.exit(%d)", e.Code)
}

func (e *ExitError) ExitCode() exitcodes.ExitCode {
	return exitcodes.ExitCode(e.Code)
}

type exitRequest struct{ code int }

// Run executes source (named filename for error reporting) in a fresh
// sandbox. It returns the exit code the script requested via system.exit,
// or 0 if the script ran to completion without calling it.
func Run(ctx context.Context, source, filename string, opts Options) (int, error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	fs := opts.FS
	if opts.Root != "" {
		fs = afero.NewBasePathFs(opts.FS, opts.Root)
	}
	if opts.Stdout == nil {
		opts.Stdout = io.Discard
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	rt := goja.New()
	rt.SetFieldNameMapper(goja.UncapFieldNameMapper())

	s := &sandbox{rt: rt, fs: fs, opts: opts}
	s.setupFS()
	s.setupStream()
	s.setupSystem()
	s.setupReflect()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			rt.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer close(done)

	_, err := rt.RunScript(filename, source)
	if err == nil {
		return 0, nil
	}

	if interrupted, ok := err.(*goja.InterruptedError); ok {
		if req, ok := interrupted.Value().(exitRequest); ok {
			return req.code, nil
		}
		return -1, interrupted
	}
	return -1, err
}

// sandbox holds the state the fs/Stream/system/Reflect bindings close over.
type sandbox struct {
	rt   *goja.Runtime
	fs   afero.Fs
	opts Options
}

// throw panics with a goja error value, which goja turns into a catchable
// JS exception at the nearest call boundary.
func throw(rt *goja.Runtime, err error) {
	panic(rt.NewGoError(err))
}
