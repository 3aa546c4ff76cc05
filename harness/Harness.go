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

// Package harness drives benchmark cases through their lifecycle: it
// configures one driver per codec, prepares each test case, warms it up,
// times the runs and collects the results in a report.
package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/xid"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/codec"
	"github.com/flanglet/cbm-go/driver"
	"github.com/flanglet/cbm-go/internal"
	"github.com/flanglet/cbm-go/logging"
)

// CodecFactory creates the codec of a driver
type CodecFactory func(name string, opts cbm.Params) (cbm.Codec, error)

// Harness runs a benchmark suite
type Harness struct {
	cfg       *Config
	factory   CodecFactory
	listeners []cbm.Listener
}

// New creates a new instance of Harness for a validated configuration
func New(cfg *Config) (*Harness, error) {
	if cfg == nil {
		return nil, fmt.Errorf("invalid null configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Harness{cfg: cfg, factory: codec.New, listeners: make([]cbm.Listener, 0)}, nil
}

// SetCodecFactory replaces the factory used to create the driver codecs
func (this *Harness) SetCodecFactory(factory CodecFactory) {
	if factory != nil {
		this.factory = factory
	}
}

// AddListener registers a listener on every driver created by the harness
func (this *Harness) AddListener(bl cbm.Listener) {
	if bl != nil {
		this.listeners = append(this.listeners, bl)
	}
}

// TestCases returns the configured test cases or, if none is configured,
// one compression and one decompression case per input file.
func (this *Harness) TestCases() ([]string, error) {
	if len(this.cfg.TestCases) > 0 {
		return this.cfg.TestCases, nil
	}

	files, err := internal.CreateFileList(this.cfg.InputDir, this.cfg.Recursive, true, false)

	if err != nil {
		return nil, fmt.Errorf("failed to list input directory %s: %w", this.cfg.InputDir, err)
	}

	res := make([]string, 0, 2*len(files))

	for _, f := range files {
		res = append(res, driver.TestName{Operation: cbm.COMPRESS, FileName: f.Name}.String())
		res = append(res, driver.TestName{Operation: cbm.UNCOMPRESS, FileName: f.Name}.String())
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("no input file in %s", this.cfg.InputDir)
	}

	return res, nil
}

// Run executes every test case with every driver. A failing test case does
// not stop the suite: the failures are returned together, and also listed
// in the report. The context is checked between iterations.
func (this *Harness) Run(ctx context.Context) (*Report, error) {
	cases, err := this.TestCases()

	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:   xid.New().String(),
		Suite:   this.cfg.Name,
		Start:   time.Now(),
		Results: make([]*driver.Result, 0, len(cases)*len(this.cfg.Drivers)),
	}

	var merr *multierror.Error
	log := logging.S().With("run_id", report.RunID)
	log.Infow("starting suite", "suite", this.cfg.Name, "drivers", len(this.cfg.Drivers), "cases", len(cases))

	for _, dc := range this.cfg.Drivers {
		d, err := this.newDriver(dc)

		if err != nil {
			log.Errorw("driver setup failed", "driver", dc.Name, "error", err)
			report.addFailure(dc.Name, "", err)
			merr = multierror.Append(merr, err)
			continue
		}

		for _, tc := range cases {
			if err := ctx.Err(); err != nil {
				report.Duration = time.Since(report.Start)
				return report, multierror.Append(merr, err).ErrorOrNil()
			}

			res, err := this.runCase(ctx, d, tc)

			if err != nil {
				err = fmt.Errorf("driver '%s', test case '%s': %w", dc.Name, tc, err)
				log.Errorw("test case failed", "driver", dc.Name, "test", tc, "error", err)
				this.notify(cbm.NewEventFromString(cbm.EVT_CASE_FAILED, tc, err.Error(), time.Now()))
				report.addFailure(dc.Name, tc, err)
				merr = multierror.Append(merr, err)
				continue
			}

			log.Infow("test case finished", "driver", dc.Name, "test", tc,
				"KB", res.ResultValueX, "MB/s", res.ResultValue)
			report.Results = append(report.Results, res)
		}
	}

	report.Duration = time.Since(report.Start)
	return report, merr.ErrorOrNil()
}

func (this *Harness) newDriver(dc DriverConfig) (*driver.Driver, error) {
	c, err := this.factory(dc.Codec, dc.Params())

	if err != nil {
		errMsg := fmt.Sprintf("Driver '%s': cannot create codec '%s': %v", dc.Name, dc.Codec, err)
		return nil, driver.NewConfigurationError(errMsg, cbm.ERR_INVALID_CODEC)
	}

	d, err := driver.New(dc.Name, c)

	if err != nil {
		return nil, err
	}

	for _, bl := range this.listeners {
		d.AddListener(bl)
	}

	if err = d.Configure(this.cfg.DriverParams()); err != nil {
		return nil, fmt.Errorf("driver '%s': %w", dc.Name, err)
	}

	return d, nil
}

func (this *Harness) runCase(ctx context.Context, d *driver.Driver, testName string) (*driver.Result, error) {
	if err := d.Prepare(testName); err != nil {
		return nil, err
	}

	if this.cfg.WarmupIterations > 0 || this.cfg.WarmupTime.Duration > 0 {
		if _, _, err := loop(ctx, d.Warmup, testName, this.cfg.WarmupIterations, this.cfg.WarmupTime.Duration); err != nil {
			return nil, err
		}
	}

	iterations, elapsed, err := loop(ctx, d.Run, testName, this.cfg.RunIterations, this.cfg.RunTime.Duration)

	if err != nil {
		return nil, err
	}

	// Coarse clocks may report no elapsed time for very fast runs
	if elapsed <= 0 {
		elapsed = time.Microsecond
	}

	stats := driver.RunStats{
		Iterations: float64(iterations),
		ElapsedMs:  float64(elapsed) / float64(time.Millisecond),
	}

	return d.Finish(testName, stats)
}

// loop calls fn a fixed number of times or, when iterations is 0, until the
// duration has elapsed. fn is called at least once.
func loop(ctx context.Context, fn func(string) error, testName string, iterations int,
	duration time.Duration) (int, time.Duration, error) {
	n := 0
	start := time.Now()

	for {
		if iterations > 0 {
			if n >= iterations {
				break
			}
		} else if n > 0 && time.Since(start) >= duration {
			break
		}

		if err := ctx.Err(); err != nil {
			return n, time.Since(start), err
		}

		if err := fn(testName); err != nil {
			return n, time.Since(start), err
		}

		n++
	}

	return n, time.Since(start), nil
}

func (this *Harness) notify(evt *cbm.Event) {
	for _, bl := range this.listeners {
		bl.ProcessEvent(evt)
	}
}
