package sandbox

import (
	"fmt"
	"os"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
)

// setupFS installs the fs global: exists, isDirectory, isFile,
// makeDirectory, list, open and workingDirectory, matching the fs_* V8
// bindings the original embedding exposed.
func (s *sandbox) setupFS() {
	obj := s.rt.NewObject()
	must(obj.Set("exists", s.fsExists))
	must(obj.Set("isDirectory", s.fsIsDirectory))
	must(obj.Set("isFile", s.fsIsFile))
	must(obj.Set("makeDirectory", s.fsMakeDirectory))
	must(obj.Set("list", s.fsList))
	must(obj.Set("open", s.fsOpen))
	must(obj.Set("workingDirectory", s.fsWorkingDirectory))
	must(s.rt.Set("fs", obj))
}

func (s *sandbox) fsExists(name string) bool {
	ok, err := afero.Exists(s.fs, name)
	if err != nil {
		return false
	}
	return ok
}

func (s *sandbox) fsIsDirectory(name string) bool {
	info, err := s.fs.Stat(name)
	if err != nil {
		throw(s.rt, fmt.Errorf("fs.isDirectory() can't access %q", name))
	}
	return info.IsDir()
}

func (s *sandbox) fsIsFile(name string) bool {
	info, err := s.fs.Stat(name)
	if err != nil {
		throw(s.rt, fmt.Errorf("fs.isFile() can't access %q", name))
	}
	return info.Mode().IsRegular()
}

func (s *sandbox) fsMakeDirectory(name string) {
	if err := s.fs.Mkdir(name, 0o777); err != nil {
		throw(s.rt, fmt.Errorf("fs.makeDirectory() can't create %q: %w", name, err))
	}
}

// fsList returns a genuine JS Array (not a wrapped Go slice), matching the
// original's Array::New() return and giving scripts full Array.prototype
// methods (sort, join, ...) on the result.
func (s *sandbox) fsList(name string) *goja.Object {
	entries, err := afero.ReadDir(s.fs, name)
	if err != nil {
		throw(s.rt, fmt.Errorf("fs.list() can't access %q", name))
	}
	names := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		if e.Name() == "." || e.Name() == ".." {
			continue
		}
		names = append(names, e.Name())
	}
	return s.rt.NewArray(names...)
}

func (s *sandbox) fsWorkingDirectory() string {
	wd, err := os.Getwd()
	if err != nil {
		throw(s.rt, fmt.Errorf("fs.workingDirectory() can't get current working directory: %w", err))
	}
	return wd
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
