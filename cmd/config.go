/*
 *
 * k6 - a next-generation load testing tool
 * Copyright (C) 2016 Load Impact
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

package cmd

import (
	"encoding/json"
	"os"

	"github.com/mstoykov/envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	null "gopkg.in/guregu/null.v3"
)

const configFilename = "config.json"

var configFile = os.Getenv("HAMMER_CONFIG") // overridden by `-c` flag!

// configFileFlagSet returns a FlagSet that contains flags needed for specifying a config file.
func configFileFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", 0)
	flags.StringVarP(&configFile, "config", "c", configFile, "specify config file to read")
	return flags
}

// Config holds every setting controlling a parse or sandbox run, mergeable
// from CLI flags, a JSON config file, and the environment.
type Config struct {
	// IndentWidth controls the number of spaces the ESTree serializer
	// indents each nesting level by.
	IndentWidth null.Int `json:"indentWidth" envconfig:"indent_width"`
	// AllowAccessors toggles getter/setter object-literal properties; see
	// Builder.AllowAccessors.
	AllowAccessors null.Bool `json:"allowAccessors" envconfig:"allow_getter_setter"`
	// SandboxRoot is the directory the sandbox's fs/Stream globals are
	// rooted at for `hammer run`.
	SandboxRoot null.String `json:"sandboxRoot" envconfig:"sandbox_root"`
	// SandboxAllowExecute opts a sandbox run into system.execute, which
	// shells out to the host — disabled by default.
	SandboxAllowExecute null.Bool `json:"sandboxAllowExecute" envconfig:"sandbox_allow_execute"`
}

// Apply layers cfg over c, cfg's valid (explicitly-set) fields winning.
func (c Config) Apply(cfg Config) Config {
	if cfg.IndentWidth.Valid {
		c.IndentWidth = cfg.IndentWidth
	}
	if cfg.AllowAccessors.Valid {
		c.AllowAccessors = cfg.AllowAccessors
	}
	if cfg.SandboxRoot.Valid {
		c.SandboxRoot = cfg.SandboxRoot
	}
	if cfg.SandboxAllowExecute.Valid {
		c.SandboxAllowExecute = cfg.SandboxAllowExecute
	}
	return c
}

// configFlagSet returns the flags shared by the parse and run subcommands.
func configFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", 0)
	flags.SortFlags = false
	flags.Int("indent-width", 2, "number of spaces to indent serialized AST JSON by")
	flags.Bool("allow-getter-setter", true, "allow get/set object literal properties")
	flags.String("sandbox-root", ".", "directory the sandbox's fs/Stream globals are rooted at")
	flags.Bool("sandbox-allow-execute", false, "allow the sandboxed script to shell out via system.execute")
	flags.AddFlagSet(configFileFlagSet())
	return flags
}

func getConfig(flags *pflag.FlagSet) (Config, error) {
	indentWidth, err := flags.GetInt("indent-width")
	if err != nil {
		return Config{}, err
	}
	return Config{
		IndentWidth:         null.NewInt(int64(indentWidth), flags.Changed("indent-width")),
		AllowAccessors:      getNullBool(flags, "allow-getter-setter"),
		SandboxRoot:         getNullString(flags, "sandbox-root"),
		SandboxAllowExecute: getNullBool(flags, "sandbox-allow-execute"),
	}, nil
}

// readDiskConfig reads the JSON config file, if one is set via -c/--config
// or HAMMER_CONFIG. Returns a zero Config if none is set.
func readDiskConfig(fs afero.Fs) (Config, error) {
	if configFile == "" {
		return Config{}, nil
	}
	data, err := afero.ReadFile(fs, configFile)
	if err != nil {
		return Config{}, err
	}
	var conf Config
	err = json.Unmarshal(data, &conf)
	return conf, err
}

// writeDiskConfig persists conf to the configured config file path.
func writeDiskConfig(fs afero.Fs, conf Config) error {
	data, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return err
	}
	path := configFile
	if path == "" {
		path = configFilename
	}
	return afero.WriteFile(fs, path, data, 0o644)
}

// readEnvConfig reads configuration variables from the environment, under
// the HAMMER_ prefix.
func readEnvConfig() (conf Config, err error) {
	err = envconfig.Process("hammer", &conf)
	return conf, err
}

// getConsolidatedConfig assembles the final configuration: CLI flags as a
// base, the disk config file layered on top, environment variables next,
// and the user-supplied CLI flags reapplied last so they always win.
func getConsolidatedConfig(fs afero.Fs, flags *pflag.FlagSet) (conf Config, err error) {
	cliConf, err := getConfig(flags)
	if err != nil {
		return conf, err
	}
	fileConf, err := readDiskConfig(fs)
	if err != nil {
		return conf, err
	}
	envConf, err := readEnvConfig()
	if err != nil {
		return conf, err
	}

	conf = cliConf.Apply(fileConf).Apply(envConf).Apply(cliConf)

	if !conf.IndentWidth.Valid {
		conf.IndentWidth = null.IntFrom(2)
	}
	if !conf.AllowAccessors.Valid {
		conf.AllowAccessors = null.BoolFrom(true)
	}
	if !conf.SandboxRoot.Valid {
		conf.SandboxRoot = null.StringFrom(".")
	}
	return conf, nil
}
