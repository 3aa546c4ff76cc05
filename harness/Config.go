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
	"fmt"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/codec"
	"github.com/flanglet/cbm-go/driver"
	"github.com/flanglet/cbm-go/logging"
)

const (
	_DEFAULT_WARMUP_ITERATIONS = 1
	_DEFAULT_RUN_TIME          = time.Second
)

// Duration a time.Duration decoded from strings such as "1.5s"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (this *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))

	if err != nil {
		return err
	}

	this.Duration = d
	return nil
}

// MarshalText formats the duration
func (this Duration) MarshalText() ([]byte, error) {
	return []byte(this.Duration.String()), nil
}

// DriverConfig describes one driver of the suite: a name and a codec with
// its options.
type DriverConfig struct {
	Name    string                 `toml:"name"`
	Codec   string                 `toml:"codec"`
	Options map[string]interface{} `toml:"options"`
}

// Params returns the codec options as string parameters
func (this DriverConfig) Params() cbm.Params {
	res := make(cbm.Params, len(this.Options))

	for k, v := range this.Options {
		res[k] = fmt.Sprint(v)
	}

	return res
}

// Config is the benchmark suite: where the input files are, how long to
// warm up and run each test case, and which drivers to run.
type Config struct {
	Name             string         `toml:"name"`
	InputDir         string         `toml:"inputDir"`
	Streaming        bool           `toml:"streaming"`
	Recursive        bool           `toml:"recursive"`
	WarmupIterations int            `toml:"warmupIterations"`
	WarmupTime       Duration       `toml:"warmupTime"`
	RunIterations    int            `toml:"runIterations"`
	RunTime          Duration       `toml:"runTime"`
	TestCases        []string       `toml:"testCases"`
	Drivers          []DriverConfig `toml:"drivers"`
}

// NewConfig returns a configuration with default values
func NewConfig() *Config {
	return &Config{
		Name:             "cbm",
		WarmupIterations: _DEFAULT_WARMUP_ITERATIONS,
	}
}

// LoadConfig reads and validates a TOML suite file. A relative input
// directory is resolved against the directory of the file.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	md, err := toml.DecodeFile(path, cfg)

	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		logging.S().Warnw("ignoring unknown configuration keys", "file", path, "keys", undecoded)
	}

	if len(cfg.InputDir) > 0 && filepath.IsAbs(cfg.InputDir) == false {
		cfg.InputDir = filepath.Join(filepath.Dir(path), cfg.InputDir)
	}

	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration and fills in the run time default
func (this *Config) Validate() error {
	if len(this.InputDir) == 0 {
		return fmt.Errorf("missing '%s'", cbm.PARAM_INPUT_DIR)
	}

	if len(this.Drivers) == 0 {
		return fmt.Errorf("no driver defined")
	}

	if this.WarmupIterations < 0 || this.WarmupTime.Duration < 0 {
		return fmt.Errorf("invalid negative warmup")
	}

	if this.RunIterations < 0 || this.RunTime.Duration < 0 {
		return fmt.Errorf("invalid negative run iterations or run time")
	}

	if this.RunIterations == 0 && this.RunTime.Duration == 0 {
		this.RunTime.Duration = _DEFAULT_RUN_TIME
	}

	names := make(map[string]bool, len(this.Drivers))

	for i, d := range this.Drivers {
		if len(d.Name) == 0 {
			return fmt.Errorf("driver #%d has no name", i+1)
		}

		if names[d.Name] == true {
			return fmt.Errorf("duplicate driver name '%s'", d.Name)
		}

		names[d.Name] = true

		if _, err := codec.GetType(d.Codec); err != nil {
			return fmt.Errorf("driver '%s': %w", d.Name, err)
		}
	}

	for _, tc := range this.TestCases {
		if _, err := driver.ParseTestName(tc); err != nil {
			return err
		}
	}

	return nil
}

// DriverParams returns the parameters passed to Driver.Configure
func (this *Config) DriverParams() cbm.Params {
	return cbm.Params{
		cbm.PARAM_INPUT_DIR: this.InputDir,
		cbm.PARAM_STREAMING: fmt.Sprint(this.Streaming),
	}
}
