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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/flanglet/cbm-go/driver"
)

const (
	FORMAT_TEXT = "text"
	FORMAT_JSON = "json"
	FORMAT_CSV  = "csv"
)

// Failure describes a driver or test case that could not be benchmarked
type Failure struct {
	Driver   string `json:"driver"`
	TestCase string `json:"testCase,omitempty"`
	Code     int    `json:"code"`
	Error    string `json:"error"`
}

// Report collects the results of a suite run
type Report struct {
	RunID    string           `json:"runId"`
	Suite    string           `json:"suite"`
	Start    time.Time        `json:"start"`
	Duration time.Duration    `json:"duration"`
	Results  []*driver.Result `json:"results"`
	Failures []Failure        `json:"failures,omitempty"`
}

func (this *Report) addFailure(driverName, testName string, err error) {
	this.Failures = append(this.Failures, Failure{
		Driver:   driverName,
		TestCase: testName,
		Code:     driver.ErrorCode(err),
		Error:    err.Error(),
	})
}

// Write writes the report in the given format (text, json or csv)
func (this *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FORMAT_TEXT:
		return this.WriteText(w)

	case FORMAT_JSON:
		return this.WriteJSON(w)

	case FORMAT_CSV:
		return this.WriteCSV(w)

	default:
		return fmt.Errorf("unknown report format '%s'", format)
	}
}

// WriteText writes a human readable table
func (this *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "Suite %s (run %s), %d results in %v\n\n", this.Suite, this.RunID,
		len(this.Results), this.Duration.Round(time.Millisecond))
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Driver\tTest case\tType\tInput\tCompressed\tRatio\tIterations\tKB\tMB/s\t")

	for _, r := range this.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.3f\t%.0f\t%.2f\t%.2f\t\n", r.Driver, r.TestCase, r.InputType,
			humanize.IBytes(uint64(r.UncompressedLength)), humanize.IBytes(uint64(r.CompressedLength)),
			r.Ratio(), r.Iterations, r.ResultValueX, r.ResultValue)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if len(this.Failures) > 0 {
		fmt.Fprintf(w, "\n%d failure(s):\n", len(this.Failures))

		for _, f := range this.Failures {
			if len(f.TestCase) > 0 {
				fmt.Fprintf(w, "  %s %s: %s\n", f.Driver, f.TestCase, f.Error)
			} else {
				fmt.Fprintf(w, "  %s: %s\n", f.Driver, f.Error)
			}
		}
	}

	return nil
}

// WriteJSON writes the report as an indented JSON document
func (this *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(this)
}

// WriteCSV writes one line per result, with a header line
func (this *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"driver", "testCase", "inputFile", "inputType", "uncompressedLength", "compressedLength",
		"iterations", "elapsedMs", "resultValueX", "resultUnitX", "resultValue", "resultUnit"}

	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range this.Results {
		record := []string{
			r.Driver,
			r.TestCase,
			r.InputFile,
			r.InputType,
			strconv.Itoa(r.UncompressedLength),
			strconv.Itoa(r.CompressedLength),
			strconv.FormatFloat(r.Iterations, 'f', -1, 64),
			strconv.FormatFloat(r.ElapsedMs, 'f', 3, 64),
			strconv.FormatFloat(r.ResultValueX, 'f', 3, 64),
			r.ResultUnitX,
			strconv.FormatFloat(r.ResultValue, 'f', 3, 64),
			r.ResultUnit,
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
