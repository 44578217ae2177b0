/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2019 Load Impact
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */

// Package loader resolves a script's moduleSpecifier (stdin, a local path,
// or an https URL) into source bytes, the way the host would before handing
// source text to the parser.
package loader

import (
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// SourceData is a resolved script: the URL it was read from (used for
// relative-import resolution) and its raw bytes.
type SourceData struct {
	URL  *url.URL
	Data []byte
}

// ReadSource resolves moduleSpecifier relative to pwd and reads its bytes.
// "-" reads stdin. Anything else is resolved against the file or https
// scheme in filesystems, keyed by URL scheme ("file" / "https").
func ReadSource(
	logger logrus.FieldLogger, moduleSpecifier, pwd string,
	filesystems map[string]afero.Fs, stdin io.Reader,
) (*SourceData, error) {
	if moduleSpecifier == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		u := &url.URL{Scheme: "file", Path: "/-"}
		if fs, ok := filesystems["file"]; ok {
			if werr := afero.WriteFile(fs, u.Path, data, 0o644); werr != nil {
				logger.WithError(werr).Warn("couldn't cache stdin contents")
			}
		}
		return &SourceData{URL: u, Data: data}, nil
	}

	u, err := resolveURL(moduleSpecifier, pwd)
	if err != nil {
		return nil, err
	}

	fs, ok := filesystems[u.Scheme]
	if !ok {
		return nil, fmt.Errorf(
			"only supported schemes for imports are file and https, %s has `%s`",
			moduleSpecifier, u.Scheme)
	}

	data, err := afero.ReadFile(fs, "/"+strings.TrimPrefix(u.Host+u.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf(
			`The moduleSpecifier %q couldn't be found on local disk. `+
				`Make sure that you've specified the right path to the file. `+
				`If you're running this in a container, make sure the local `+
				`directory containing your script and its modules is mounted `+
				`so it's accessible from inside the container: %w`,
			moduleSpecifier, err)
	}
	return &SourceData{URL: u, Data: data}, nil
}

func resolveURL(moduleSpecifier, pwd string) (*url.URL, error) {
	if strings.Contains(moduleSpecifier, "://") {
		u, err := url.Parse(moduleSpecifier)
		if err != nil {
			return nil, err
		}
		if u.Scheme != "https" && u.Scheme != "file" {
			return nil, fmt.Errorf(
				"only supported schemes for imports are file and https, %s has `%s`",
				moduleSpecifier, u.Scheme)
		}
		return u, nil
	}

	path := moduleSpecifier
	if !filepath.IsAbs(path) {
		path = filepath.Join(pwd, path)
	}
	path = filepath.ToSlash(filepath.Clean(path))
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &url.URL{Scheme: "file", Path: path}, nil
}

// CreateFilesystems builds the scheme-to-afero.Fs map ReadSource expects:
// the local OS filesystem under "file", with no remote fetcher wired in by
// default since this program runs without outbound network access.
func CreateFilesystems() map[string]afero.Fs {
	return map[string]afero.Fs{
		"file": afero.NewOsFs(),
	}
}
