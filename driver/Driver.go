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

// Package driver implements the benchmark case lifecycle: configure,
// prepare (load, compress and verify the round trip), warmup, run and
// finish (compute the reported metrics).
//
// A Driver is not safe for concurrent use. The harness is expected to call
// the lifecycle methods sequentially, one test case at a time.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/internal"
	"github.com/flanglet/cbm-go/logging"
)

const (
	_STATE_UNCONFIGURED = 0
	_STATE_CONFIGURED   = 1
	_STATE_PREPARED     = 2
	_STATE_RUN          = 3
	_STATE_FINISHED     = 4
)

var _STATE_NAMES = []string{"UNCONFIGURED", "CONFIGURED", "PREPARED", "RUN", "FINISHED"}

// Driver benchmarks one codec on one test case at a time
type Driver struct {
	name      string
	codec     cbm.Codec
	state     int
	streaming bool
	inputDir  string
	inputFile string
	testName  string
	operation cbm.Operation
	inputType internal.InputType

	// Number of bytes produced by the last run
	totalLength int

	uncompressed []byte
	compressed   []byte
	listeners    []cbm.Listener
}

// New creates a new, unconfigured instance of Driver
func New(name string, codec cbm.Codec) (*Driver, error) {
	if len(name) == 0 {
		return nil, &ConfigurationError{msg: "Invalid empty driver name", code: cbm.ERR_INVALID_PARAM}
	}

	if codec == nil {
		return nil, &ConfigurationError{msg: "Invalid null codec parameter", code: cbm.ERR_INVALID_PARAM}
	}

	this := &Driver{}
	this.name = name
	this.codec = codec
	this.state = _STATE_UNCONFIGURED
	this.listeners = make([]cbm.Listener, 0)
	return this, nil
}

// Name returns the driver name
func (this *Driver) Name() string {
	return this.name
}

// Streaming returns true if the driver was configured in streaming mode
func (this *Driver) Streaming() bool {
	return this.streaming
}

// Operation returns the operation of the prepared test case
func (this *Driver) Operation() cbm.Operation {
	return this.operation
}

// TotalLength returns the number of bytes produced by the last run
func (this *Driver) TotalLength() int {
	return this.totalLength
}

// InputFile returns the path of the input file of the prepared test case
func (this *Driver) InputFile() string {
	return this.inputFile
}

// InputType returns the detected format of the input data
func (this *Driver) InputType() string {
	return this.inputType.Name
}

// UncompressedLength returns the size of the input data
func (this *Driver) UncompressedLength() int {
	return len(this.uncompressed)
}

// CompressedLength returns the size of the compressed input data
func (this *Driver) CompressedLength() int {
	return len(this.compressed)
}

// AddListener adds an event listener to this driver.
// Returns true if the listener has been added.
func (this *Driver) AddListener(bl cbm.Listener) bool {
	if bl == nil {
		return false
	}

	this.listeners = append(this.listeners, bl)
	return true
}

// RemoveListener removes an event listener from this driver.
// Returns true if the listener has been removed.
func (this *Driver) RemoveListener(bl cbm.Listener) bool {
	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

// Configure checks and records the input directory and the streaming flag.
// Any previously prepared test case is discarded.
func (this *Driver) Configure(params cbm.Params) error {
	if params.IsParamSet(cbm.PARAM_INPUT_DIR) == false {
		errMsg := fmt.Sprintf("Missing parameter '%s'", cbm.PARAM_INPUT_DIR)
		return &ConfigurationError{msg: errMsg, code: cbm.ERR_MISSING_PARAM}
	}

	dirName := params.StringParam(cbm.PARAM_INPUT_DIR, "")
	absDir, err := filepath.Abs(dirName)

	if err != nil {
		absDir = dirName
	}

	if fi, err := os.Stat(dirName); err != nil || fi.IsDir() == false {
		errMsg := fmt.Sprintf("No input directory '%s'", absDir)
		return &ConfigurationError{msg: errMsg, code: cbm.ERR_INVALID_PARAM}
	}

	streaming, err := params.BooleanParam(cbm.PARAM_STREAMING, false)

	if err != nil {
		return &ConfigurationError{msg: err.Error(), code: cbm.ERR_INVALID_PARAM}
	}

	if streaming == true {
		// No streaming implementation: the block path is measured.
		logging.S().Warnw("streaming mode requested, block mode will be measured", "driver", this.name)
	}

	this.reset()
	this.inputDir = dirName
	this.streaming = streaming
	this.state = _STATE_CONFIGURED
	this.notify(cbm.NewEventFromString(cbm.EVT_CONFIGURED, "", absDir, time.Now()))
	logging.S().Debugw("driver configured", "driver", this.name, "inputDir", absDir, "streaming", streaming)
	return nil
}

// Prepare parses the test case name, loads the input file, compresses it and
// checks that decompression reproduces the input exactly. On failure the
// driver is left configured with no test case.
func (this *Driver) Prepare(testName string) error {
	if this.state == _STATE_UNCONFIGURED {
		return this.stateError("prepare")
	}

	this.reset()
	tn, err := ParseTestName(testName)

	if err != nil {
		return err
	}

	this.notify(cbm.NewEvent(cbm.EVT_PREPARE_START, testName, 0, time.Now()))
	inputFile := filepath.Join(this.inputDir, tn.FileName)

	// First things first: load uncompressed input in memory
	uncompressed, err := loadFile(inputFile)

	if err != nil {
		return err
	}

	inputType := internal.DetectInputType(uncompressed)

	if inputType.IsCompressed() {
		logging.S().Warnw("input data is already compressed", "driver", this.name, "test", testName,
			"format", inputType.Name)
	}

	compressed, err := this.codec.Compress(uncompressed)

	if err != nil {
		return &CodecError{Operation: cbm.COMPRESS, Driver: this.name, err: err}
	}

	this.notify(cbm.NewEvent(cbm.EVT_PREPARE_END, testName, int64(len(compressed)), time.Now()))

	if err = this.verifyRoundTrip(testName, uncompressed, compressed); err != nil {
		return err
	}

	this.notify(cbm.NewEvent(cbm.EVT_ROUND_TRIP_OK, testName, int64(len(uncompressed)), time.Now()))
	this.testName = testName
	this.operation = tn.Operation
	this.inputFile = inputFile
	this.inputType = inputType
	this.uncompressed = uncompressed
	this.compressed = compressed
	this.state = _STATE_PREPARED
	logging.S().Debugw("test case prepared", "driver", this.name, "test", testName,
		"uncompressed", len(uncompressed), "compressed", len(compressed))
	return nil
}

func (this *Driver) verifyRoundTrip(testName string, raw, compressed []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &CodecError{Operation: cbm.UNCOMPRESS, Driver: this.name, err: fmt.Errorf("%v", r)}
		}
	}()

	actual, err := this.codec.Decompress(compressed)

	if err != nil {
		return &CodecError{Operation: cbm.UNCOMPRESS, Driver: this.name, err: err}
	}

	if len(actual) != len(raw) {
		return &RoundTripError{Driver: this.name, Input: testName, ExpectedLength: len(raw),
			ActualLength: len(actual), Offset: -1}
	}

	for i := range actual {
		if actual[i] != raw[i] {
			return &RoundTripError{Driver: this.name, Input: testName, ExpectedLength: len(raw),
				ActualLength: len(actual), Offset: i, Expected: raw[i], Actual: actual[i]}
		}
	}

	return nil
}

// Warmup performs one untimed run
func (this *Driver) Warmup(testName string) error {
	if err := this.Run(testName); err != nil {
		return err
	}

	if len(this.listeners) > 0 {
		this.notify(cbm.NewEvent(cbm.EVT_WARMUP, testName, int64(this.totalLength), time.Now()))
	}

	return nil
}

// Run executes the operation of the prepared test case once and records the
// size of the produced data.
func (this *Driver) Run(testName string) error {
	if this.state != _STATE_PREPARED && this.state != _STATE_RUN {
		return this.stateError("run")
	}

	this.totalLength = 0
	var stuff []byte
	var err error

	// Streaming and block modes share the block code path.
	if this.operation == cbm.COMPRESS {
		if stuff, err = this.codec.Compress(this.uncompressed); err != nil {
			return &CodecError{Operation: cbm.COMPRESS, Driver: this.name, err: err}
		}
	} else {
		if stuff, err = this.codec.Decompress(this.compressed); err != nil {
			return &CodecError{Operation: cbm.UNCOMPRESS, Driver: this.name, err: err}
		}
	}

	this.totalLength = len(stuff)
	this.state = _STATE_RUN
	return nil
}

// Finish computes the reported values from the run statistics supplied by
// the harness.
func (this *Driver) Finish(testName string, stats RunStats) (*Result, error) {
	if this.state != _STATE_PREPARED && this.state != _STATE_RUN {
		return nil, this.stateError("finish")
	}

	if stats.Iterations <= 0 || stats.ElapsedMs <= 0 {
		errMsg := fmt.Sprintf("Invalid run statistics for '%s': %v iterations in %v ms", testName,
			stats.Iterations, stats.ElapsedMs)
		return nil, &ConfigurationError{msg: errMsg, code: cbm.ERR_INVALID_PARAM}
	}

	absPath, err := filepath.Abs(this.inputFile)

	if err != nil {
		absPath = this.inputFile
	}

	res := newResult(this.name, this.testName, this.operation, absPath,
		len(this.uncompressed), len(this.compressed), stats)
	res.InputType = this.inputType.Name
	this.state = _STATE_FINISHED

	if len(this.listeners) > 0 {
		this.notify(cbm.NewEventFromString(cbm.EVT_FINISH, testName, res.String(), time.Now()))
	}

	return res, nil
}

func (this *Driver) reset() {
	this.testName = ""
	this.inputFile = ""
	this.inputType = internal.InputType{}
	this.operation = cbm.COMPRESS
	this.totalLength = 0
	this.uncompressed = nil
	this.compressed = nil

	if this.state > _STATE_CONFIGURED {
		this.state = _STATE_CONFIGURED
	}
}

func (this *Driver) stateError(call string) error {
	errMsg := fmt.Sprintf("Driver '%s' cannot %s in state %s", this.name, call, _STATE_NAMES[this.state])
	return &ConfigurationError{msg: errMsg, code: cbm.ERR_INVALID_STATE}
}

func (this *Driver) notify(evt *cbm.Event) {
	for _, bl := range this.listeners {
		bl.ProcessEvent(evt)
	}
}

func loadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)

	if err != nil {
		errMsg := fmt.Sprintf("Cannot read input file '%s': %v", path, err)
		return nil, &IOError{msg: errMsg, path: path, err: err}
	}

	return data, nil
}
