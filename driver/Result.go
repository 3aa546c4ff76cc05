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

package driver

import (
	"fmt"

	cbm "github.com/flanglet/cbm-go"
)

const (
	UNIT_X      = "KB"
	UNIT_RESULT = "MB/s"
)

// RunStats are the timing totals measured by the harness around the timed
// runs of a test case.
type RunStats struct {
	Iterations float64 // sum of timed iterations
	ElapsedMs  float64 // actual run time in milliseconds
}

// IterationsPerSecond returns the number of timed runs per second
func (this RunStats) IterationsPerSecond() float64 {
	return 1000.0 * this.Iterations / this.ElapsedMs
}

// Result holds the values reported for one finished test case
type Result struct {
	Driver             string        `json:"driver"`
	TestCase           string        `json:"testCase"`
	Operation          cbm.Operation `json:"-"`
	InputFile          string        `json:"inputFile"`
	InputType          string        `json:"inputType"`
	UncompressedLength int           `json:"uncompressedLength"`
	CompressedLength   int           `json:"compressedLength"`
	Iterations         float64       `json:"iterations"`
	ElapsedMs          float64       `json:"elapsedMs"`

	// Compressed size, on the X axis
	ResultValueX float64 `json:"resultValueX"`
	ResultUnitX  string  `json:"resultUnitX"`

	// Throughput relative to the uncompressed input
	ResultValue float64 `json:"resultValue"`
	ResultUnit  string  `json:"resultUnit"`
}

func newResult(driverName, testName string, op cbm.Operation, inputFile string,
	uncompressedLength, compressedLength int, stats RunStats) *Result {
	this := &Result{}
	this.Driver = driverName
	this.TestCase = testName
	this.Operation = op
	this.InputFile = inputFile
	this.UncompressedLength = uncompressedLength
	this.CompressedLength = compressedLength
	this.Iterations = stats.Iterations
	this.ElapsedMs = stats.ElapsedMs
	this.ResultValueX = float64(compressedLength) / 1024.0
	this.ResultUnitX = UNIT_X
	this.ResultValue = stats.IterationsPerSecond() * float64(uncompressedLength) / (1024.0 * 1024.0)
	this.ResultUnit = UNIT_RESULT
	return this
}

// Ratio returns the compressed size divided by the uncompressed size
func (this *Result) Ratio() float64 {
	if this.UncompressedLength == 0 {
		return 0
	}

	return float64(this.CompressedLength) / float64(this.UncompressedLength)
}

func (this *Result) String() string {
	return fmt.Sprintf("%s %s: %.3f %s, %.3f %s", this.Driver, this.TestCase,
		this.ResultValueX, this.ResultUnitX, this.ResultValue, this.ResultUnit)
}
