package sandbox

import (
	"fmt"
	"os/exec"
	"strings"
)

// setupSystem installs the system global: args, execute, exit and print,
// matching the system_* V8 bindings. execute throws unless
// Options.AllowExecute opts in, since shelling out from a parsed script is
// not something a parser-and-sandbox tool should do by default.
func (s *sandbox) setupSystem() {
	args := make([]interface{}, len(s.opts.Args))
	for i, a := range s.opts.Args {
		args[i] = a
	}

	obj := s.rt.NewObject()
	must(obj.Set("args", s.rt.NewArray(args...)))
	must(obj.Set("execute", s.systemExecute))
	must(obj.Set("exit", s.systemExit))
	must(obj.Set("print", s.systemPrint))
	must(s.rt.Set("system", obj))
}

func (s *sandbox) systemExecute(cmd string) {
	if !s.opts.AllowExecute {
		throw(s.rt, fmt.Errorf("system.execute() is disabled; pass --sandbox-allow-execute to enable it"))
	}
	c := exec.Command("sh", "-c", cmd)
	c.Stdout = s.opts.Stdout
	c.Stderr = s.opts.Stdout
	if err := c.Run(); err != nil {
		s.opts.Logger.WithError(err).Warn("system.execute() command exited with an error")
	}
}

func (s *sandbox) systemExit(code int) {
	s.rt.Interrupt(exitRequest{code: code})
}

func (s *sandbox) systemPrint(args ...string) {
	fmt.Fprintln(s.opts.Stdout, strings.Join(args, " "))
}
