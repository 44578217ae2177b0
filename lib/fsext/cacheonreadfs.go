// Package fsext adapts afero.Fs for the source-loading concerns of this
// program: layering a writable cache in front of a (possibly remote-backed)
// base filesystem.
package fsext

import (
	"io"
	"os"
	"time"

	"github.com/spf13/afero"
)

// cacheOnReadFs serves reads from layer, falling back to base and copying
// the result into layer so later reads of the same path are local. All
// writes go straight to layer; base is never mutated.
type cacheOnReadFs struct {
	base      afero.Fs
	layer     afero.Fs
	cacheTime time.Duration
}

// NewCacheOnReadFs returns an afero.Fs that reads through layer, populating
// it from base on a miss. cacheTime is stored but entries do not expire:
// once a path is in layer it is served from layer and never refreshed from
// base. If base is nil there is nothing to cache from, so layer is
// returned unchanged.
func NewCacheOnReadFs(base, layer afero.Fs, cacheTime time.Duration) afero.Fs {
	if base == nil {
		return layer
	}
	return &cacheOnReadFs{base: base, layer: layer, cacheTime: cacheTime}
}

func (u *cacheOnReadFs) copyToLayer(name string) error {
	src, err := u.base.Open(name)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return u.layer.MkdirAll(name, info.Mode())
	}

	dst, err := u.layer.Create(name)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Open follows a layer-first, fall-back-to-base-then-cache strategy for
// reads; see copyToLayer.
func (u *cacheOnReadFs) Open(name string) (afero.File, error) {
	if _, err := u.layer.Stat(name); err != nil {
		if os.IsNotExist(err) || u.cacheTime == 0 {
			if cerr := u.copyToLayer(name); cerr != nil {
				return nil, cerr
			}
		}
	}
	return u.layer.Open(name)
}

func (u *cacheOnReadFs) Stat(name string) (os.FileInfo, error) {
	if _, err := u.layer.Stat(name); err != nil {
		if cerr := u.copyToLayer(name); cerr != nil {
			return nil, err
		}
	}
	return u.layer.Stat(name)
}

func (u *cacheOnReadFs) Name() string { return "CacheOnReadFs" }

func (u *cacheOnReadFs) Create(name string) (afero.File, error) { return u.layer.Create(name) }
func (u *cacheOnReadFs) Mkdir(name string, perm os.FileMode) error {
	return u.layer.Mkdir(name, perm)
}

func (u *cacheOnReadFs) MkdirAll(path string, perm os.FileMode) error {
	return u.layer.MkdirAll(path, perm)
}

func (u *cacheOnReadFs) Remove(name string) error { return u.layer.Remove(name) }

func (u *cacheOnReadFs) RemoveAll(path string) error { return u.layer.RemoveAll(path) }

func (u *cacheOnReadFs) Rename(oldname, newname string) error {
	return u.layer.Rename(oldname, newname)
}

func (u *cacheOnReadFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) != 0 {
		return u.layer.OpenFile(name, flag, perm)
	}
	if _, err := u.Stat(name); err != nil {
		return nil, err
	}
	return u.layer.OpenFile(name, flag, perm)
}

func (u *cacheOnReadFs) Chmod(name string, mode os.FileMode) error {
	return u.layer.Chmod(name, mode)
}

func (u *cacheOnReadFs) Chtimes(name string, atime, mtime time.Time) error {
	return u.layer.Chtimes(name, atime, mtime)
}
