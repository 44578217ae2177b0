/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2020 Load Impact
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

// Package log provides structured logging pieces for the CLI: a
// file-backed logrus hook with its level parsing, a Logstash JSON
// formatter, and a console formatter that appends an entry's "objects"
// field as JSON.
package log

import "github.com/sirupsen/logrus"

// parseLevels returns every logrus.Level at or above the severity named by
// level (e.g. "info" returns Panic/Fatal/Error/Warn/Info), so a hook
// configured for one level also fires for every more severe one.
func parseLevels(level string) ([]logrus.Level, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logrus.AllLevels[:lvl+1], nil
}
