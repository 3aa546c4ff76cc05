/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package harness

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cbm "github.com/flanglet/cbm-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSuite = `
name = "sample"
inputDir = "corpus"
recursive = true
warmupIterations = 2
warmupTime = "250ms"
runTime = "1.5s"
testCases = ["C:a.txt", "U:a.txt"]

[[drivers]]
name = "zstd-fast"
codec = "zstd"
  [drivers.options]
  level = "fastest"

[[drivers]]
name = "brotli-5"
codec = "Brotli"
  [drivers.options]
  level = 5
`

func writeSuite(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "suite.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "corpus"), 0755))
	cfg, err := LoadConfig(writeSuite(t, dir, sampleSuite))
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Name)
	assert.Equal(t, filepath.Join(dir, "corpus"), cfg.InputDir)
	assert.True(t, cfg.Recursive)
	assert.False(t, cfg.Streaming)
	assert.Equal(t, 2, cfg.WarmupIterations)
	assert.Equal(t, 250*time.Millisecond, cfg.WarmupTime.Duration)
	assert.Equal(t, 0, cfg.RunIterations)
	assert.Equal(t, 1500*time.Millisecond, cfg.RunTime.Duration)
	assert.Equal(t, []string{"C:a.txt", "U:a.txt"}, cfg.TestCases)

	require.Len(t, cfg.Drivers, 2)
	assert.Equal(t, "zstd-fast", cfg.Drivers[0].Name)
	assert.Equal(t, cbm.Params{"level": "fastest"}, cfg.Drivers[0].Params())
	assert.Equal(t, "Brotli", cfg.Drivers[1].Codec)
	assert.Equal(t, cbm.Params{"level": "5"}, cfg.Drivers[1].Params())

	params := cfg.DriverParams()
	assert.Equal(t, cfg.InputDir, params[cbm.PARAM_INPUT_DIR])
	assert.Equal(t, "false", params[cbm.PARAM_STREAMING])
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	suite := "inputDir = \"" + filepath.ToSlash(dir) + "\"\n[[drivers]]\nname = \"copy\"\ncodec = \"none\"\n"
	cfg, err := LoadConfig(writeSuite(t, dir, suite))
	require.NoError(t, err)

	assert.Equal(t, "cbm", cfg.Name)
	assert.Equal(t, filepath.Clean(dir), filepath.Clean(cfg.InputDir))
	assert.Equal(t, 1, cfg.WarmupIterations)
	assert.Equal(t, time.Second, cfg.RunTime.Duration)
	assert.Empty(t, cfg.TestCases)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeSuite(t, dir, "inputDir = [1, 2"))
	assert.Error(t, err)

	_, err = LoadConfig(writeSuite(t, dir, "inputDir = \".\"\nrunTime = \"forever\"\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := NewConfig()
		cfg.InputDir = "."
		cfg.Drivers = []DriverConfig{{Name: "a", Codec: "lz4"}}
		return cfg
	}

	require.NoError(t, valid().Validate())

	tests := map[string]func(*Config){
		"no input dir":      func(c *Config) { c.InputDir = "" },
		"no driver":         func(c *Config) { c.Drivers = nil },
		"negative warmup":   func(c *Config) { c.WarmupIterations = -1 },
		"negative run time": func(c *Config) { c.RunTime.Duration = -time.Second },
		"negative runs":     func(c *Config) { c.RunIterations = -3 },
		"unnamed driver":    func(c *Config) { c.Drivers[0].Name = "" },
		"unknown codec":     func(c *Config) { c.Drivers[0].Codec = "bzip9" },
		"duplicate driver": func(c *Config) {
			c.Drivers = append(c.Drivers, DriverConfig{Name: "a", Codec: "zstd"})
		},
		"bad test case": func(c *Config) { c.TestCases = []string{"C:a.txt", "X:b.txt"} },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateRunDefaults(t *testing.T) {
	cfg := NewConfig()
	cfg.InputDir = "."
	cfg.Drivers = []DriverConfig{{Name: "a", Codec: "lz4"}}
	cfg.RunIterations = 5
	require.NoError(t, cfg.Validate())

	// Iteration count alone: no run time added
	assert.Equal(t, time.Duration(0), cfg.RunTime.Duration)
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("2m30s")))
	assert.Equal(t, 150*time.Second, d.Duration)

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2m30s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "config", "suite.toml"))
	require.NoError(t, err)
	assert.Equal(t, "canterbury", cfg.Name)
	assert.Equal(t, 2*time.Second, cfg.RunTime.Duration)
	require.Len(t, cfg.Drivers, 5)
	assert.Equal(t, "9", cfg.Drivers[2].Params()["level"])
	assert.Equal(t, "2", cfg.Drivers[4].Params()["jobs"])
}
