/*
 * config.go, part of gomd.
 *
 * Copyright 2025 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation, either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package config reads the gomd YAML configuration file and folds in
//the environment overrides. Everything has a usable default, so a
//missing file is not an error: the zero-configuration path is the
//local backend with the stock limits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	md "github.com/rmera/gomd"
	"github.com/rmera/gomd/calc"
)

//Duration is a time.Duration that unmarshals from the usual "500ms",
//"2m" notation, which yaml.v3 does not do on its own.
type Duration time.Duration

func (D *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return md.NewError(err, fmt.Sprintf("config: %q is not a duration", s), "Duration.UnmarshalYAML")
	}
	*D = Duration(d)
	return nil
}

//Remote configures the HTTP calculator backend and its retry
//schedule. A zero value in any field falls back to the corresponding
//calc.DefaultRemoteOptions value.
type Remote struct {
	Endpoint        string   `yaml:"endpoint"`
	Token           string   `yaml:"token"`
	Timeout         Duration `yaml:"timeout"`
	InitialInterval Duration `yaml:"initial_interval"`
	Multiplier      float64  `yaml:"multiplier"`
	MaxAttempts     int      `yaml:"max_attempts"`
	MaxElapsed      Duration `yaml:"max_elapsed"`
}

//Config is the file-level configuration. Backend is "local" or
//"remote"; MaxAtoms at zero defers to the MAX_ATOMS environment
//variable and then the built-in default.
type Config struct {
	MaxAtoms  int    `yaml:"max_atoms"`
	Backend   string `yaml:"backend"`
	Remote    Remote `yaml:"remote"`
	OutputDir string `yaml:"output_dir"`
	StorePath string `yaml:"store_path"`
	LogLevel  string `yaml:"log_level"`
}

//Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Backend:   "local",
		OutputDir: ".",
		StorePath: "gomd_runs.db",
		LogLevel:  "info",
	}
}

//Load reads a YAML configuration from path, applies the environment
//overrides and validates the result. An empty path, or a path that
//does not exist, yields the default configuration (still subject to
//the environment).
func Load(path string) (*Config, error) {
	conf := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, md.Decorate(err, "config.Load")
		}
		if err == nil {
			if err := yaml.Unmarshal(data, conf); err != nil {
				return nil, md.NewError(err, fmt.Sprintf("config: %s is not valid YAML", path), "config.Load")
			}
		}
	}
	conf.applyEnvOverrides()
	if err := conf.Validate(); err != nil {
		return nil, md.Decorate(err, "config.Load")
	}
	return conf, nil
}

//the environment wins over the file, matching how the validation
//layer reads MAX_ATOMS on its own when the cap is left at zero
func (C *Config) applyEnvOverrides() {
	if v := os.Getenv(md.MaxAtomsEnv); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			C.MaxAtoms = n
		}
	}
	if v := os.Getenv("GOMD_ENDPOINT"); v != "" {
		C.Remote.Endpoint = v
	}
	if v := os.Getenv("GOMD_TOKEN"); v != "" {
		C.Remote.Token = v
	}
}

//Validate rejects configurations that cannot be acted on.
func (C *Config) Validate() error {
	if C.MaxAtoms < 0 {
		return md.NewError(nil, fmt.Sprintf("config: max_atoms must not be negative, got %d", C.MaxAtoms), "Config.Validate")
	}
	if C.Backend != "local" && C.Backend != "remote" {
		return md.NewError(nil, fmt.Sprintf("config: unknown backend %q, use local or remote", C.Backend), "Config.Validate")
	}
	if C.Backend == "remote" && C.Remote.Endpoint == "" {
		return md.NewError(md.ErrBackendUnavailable, "config: the remote backend needs an endpoint", "Config.Validate")
	}
	return nil
}

//RemoteOptions converts the file/environment remote section into the
//calculator's options, filling defaults for anything left at zero.
func (C *Config) RemoteOptions() calc.RemoteOptions {
	opts := calc.DefaultRemoteOptions(C.Remote.Endpoint)
	opts.Token = C.Remote.Token
	if C.Remote.Timeout > 0 {
		opts.Timeout = time.Duration(C.Remote.Timeout)
	}
	if C.Remote.InitialInterval > 0 {
		opts.InitialInterval = time.Duration(C.Remote.InitialInterval)
	}
	if C.Remote.Multiplier > 0 {
		opts.Multiplier = C.Remote.Multiplier
	}
	if C.Remote.MaxAttempts > 0 {
		opts.MaxAttempts = C.Remote.MaxAttempts
	}
	if C.Remote.MaxElapsed > 0 {
		opts.MaxElapsed = time.Duration(C.Remote.MaxElapsed)
	}
	return opts
}
