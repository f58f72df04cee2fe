/*
 * config_test.go, part of gomd.
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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	md "github.com/rmera/gomd"
)

func TestDefaultsWhenFileMissing(Te *testing.T) {
	conf, err := Load(filepath.Join(Te.TempDir(), "no-such-file.yaml"))
	require.NoError(Te, err)
	assert.Equal(Te, "local", conf.Backend)
	assert.Equal(Te, 0, conf.MaxAtoms)
	assert.Equal(Te, "gomd_runs.db", conf.StorePath)
}

func TestLoadFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "gomd.yaml")
	text := `
max_atoms: 500
backend: remote
remote:
  endpoint: https://uma.example.org/v1/compute
  token: sekrit
  max_attempts: 3
  initial_interval: 250ms
output_dir: /tmp/runs
log_level: debug
`
	require.NoError(Te, os.WriteFile(path, []byte(text), 0644))
	conf, err := Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, 500, conf.MaxAtoms)
	assert.Equal(Te, "remote", conf.Backend)
	assert.Equal(Te, "https://uma.example.org/v1/compute", conf.Remote.Endpoint)
	opts := conf.RemoteOptions()
	assert.Equal(Te, "sekrit", opts.Token)
	assert.Equal(Te, 3, opts.MaxAttempts)
	assert.Equal(Te, 250*time.Millisecond, opts.InitialInterval)
	//unset retry knobs keep the stock schedule
	assert.Equal(Te, 2.0, opts.Multiplier)
	assert.Equal(Te, 2*time.Minute, opts.MaxElapsed)
}

func TestEnvironmentWinsOverFile(Te *testing.T) {
	path := filepath.Join(Te.TempDir(), "gomd.yaml")
	require.NoError(Te, os.WriteFile(path, []byte("max_atoms: 500\nbackend: local\n"), 0644))
	Te.Setenv(md.MaxAtomsEnv, "120")
	Te.Setenv("GOMD_ENDPOINT", "https://other.example.org/compute")
	conf, err := Load(path)
	require.NoError(Te, err)
	assert.Equal(Te, 120, conf.MaxAtoms)
	assert.Equal(Te, "https://other.example.org/compute", conf.Remote.Endpoint)
}

func TestRejects(Te *testing.T) {
	dir := Te.TempDir()
	write := func(name, text string) string {
		p := filepath.Join(dir, name)
		require.NoError(Te, os.WriteFile(p, []byte(text), 0644))
		return p
	}
	_, err := Load(write("backend.yaml", "backend: quantum\n"))
	assert.Error(Te, err)
	_, err = Load(write("remote.yaml", "backend: remote\n"))
	assert.Error(Te, err, "a remote backend without an endpoint is unusable")
	_, err = Load(write("negative.yaml", "backend: local\nmax_atoms: -3\n"))
	assert.Error(Te, err)
	_, err = Load(write("broken.yaml", "backend: [local\n"))
	assert.Error(Te, err)
}
