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
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/codec"
	"github.com/flanglet/cbm-go/driver"
)

// corruptCodec flips the first byte of every decompressed block
type corruptCodec struct {
	cbm.Codec
}

func (this corruptCodec) Decompress(src []byte) ([]byte, error) {
	dst, err := this.Codec.Decompress(src)

	if err == nil && len(dst) > 0 {
		dst[0] ^= 1
	}

	return dst, err
}

type recorder struct {
	events []*cbm.Event
}

func (this *recorder) ProcessEvent(evt *cbm.Event) {
	this.events = append(this.events, evt)
}

func (this *recorder) count(evtType int) int {
	n := 0

	for _, e := range this.events {
		if e.Type() == evtType {
			n++
		}
	}

	return n
}

func newCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	text := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 500))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "text.txt"), text, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.bin"), []byte{1, 2, 3, 4, 5}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("ignored"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "nested.txt"), text[0:1000], 0644))
	return dir
}

func newTestConfig(dir string, drivers ...DriverConfig) *Config {
	cfg := NewConfig()
	cfg.InputDir = dir
	cfg.WarmupIterations = 1
	cfg.RunIterations = 3
	cfg.Drivers = drivers
	return cfg
}

func TestNewHarness(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(NewConfig())
	assert.Error(t, err)

	h, err := New(newTestConfig(t.TempDir(), DriverConfig{Name: "copy", Codec: "none"}))
	require.NoError(t, err)
	assert.NotNil(t, h)
}

func TestTestCases(t *testing.T) {
	dir := newCorpus(t)
	h, err := New(newTestConfig(dir, DriverConfig{Name: "copy", Codec: "none"}))
	require.NoError(t, err)

	cases, err := h.TestCases()
	require.NoError(t, err)
	assert.Equal(t, []string{"C:small.bin", "U:small.bin", "C:text.txt", "U:text.txt"}, cases)

	h.cfg.Recursive = true
	cases, err = h.TestCases()
	require.NoError(t, err)
	assert.Contains(t, cases, "U:sub/nested.txt")
	assert.Len(t, cases, 6)

	h.cfg.TestCases = []string{"C:text.txt"}
	cases, err = h.TestCases()
	require.NoError(t, err)
	assert.Equal(t, []string{"C:text.txt"}, cases)

	h, err = New(newTestConfig(t.TempDir(), DriverConfig{Name: "copy", Codec: "none"}))
	require.NoError(t, err)
	_, err = h.TestCases()
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := newCorpus(t)
	cfg := newTestConfig(dir,
		DriverConfig{Name: "copy", Codec: "none"},
		DriverConfig{Name: "zstd-3", Codec: "zstd", Options: map[string]interface{}{"level": "default"}})
	h, err := New(cfg)
	require.NoError(t, err)
	rec := &recorder{}
	h.AddListener(rec)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "cbm", report.Suite)
	assert.Empty(t, report.Failures)
	require.Len(t, report.Results, 8)

	for _, r := range report.Results {
		assert.Equal(t, 3.0, r.Iterations)
		assert.Greater(t, r.ElapsedMs, 0.0)
		assert.Greater(t, r.ResultValue, 0.0)
		assert.True(t, filepath.IsAbs(r.InputFile))

		if r.Driver == "copy" {
			assert.Equal(t, r.UncompressedLength, r.CompressedLength)
		}
	}

	text := report.Results[7]
	assert.Equal(t, "zstd-3", text.Driver)
	assert.Equal(t, "U:text.txt", text.TestCase)
	assert.Less(t, text.CompressedLength, text.UncompressedLength/10)

	assert.Equal(t, 2, rec.count(cbm.EVT_CONFIGURED))
	assert.Equal(t, 8, rec.count(cbm.EVT_ROUND_TRIP_OK))
	assert.Equal(t, 8, rec.count(cbm.EVT_WARMUP))
	assert.Equal(t, 8, rec.count(cbm.EVT_FINISH))
	assert.Equal(t, 0, rec.count(cbm.EVT_CASE_FAILED))
}

func TestRunTimed(t *testing.T) {
	cfg := newTestConfig(newCorpus(t), DriverConfig{Name: "lz4", Codec: "lz4"})
	cfg.TestCases = []string{"C:small.bin"}
	cfg.WarmupIterations = 0
	cfg.RunIterations = 0
	cfg.RunTime.Duration = 20 * time.Millisecond
	h, err := New(cfg)
	require.NoError(t, err)

	report, err := h.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.GreaterOrEqual(t, report.Results[0].Iterations, 1.0)
	assert.GreaterOrEqual(t, report.Results[0].ElapsedMs, 20.0)
}

func TestRunCollectsFailures(t *testing.T) {
	cfg := newTestConfig(newCorpus(t),
		DriverConfig{Name: "good", Codec: "snappy"},
		DriverConfig{Name: "bad", Codec: "snappy"},
		DriverConfig{Name: "broken", Codec: "gzip"})
	cfg.TestCases = []string{"C:text.txt", "U:missing.txt", "U:small.bin"}
	h, err := New(cfg)
	require.NoError(t, err)

	// Only the driver with the "corrupt" option gets a corrupting codec
	h.SetCodecFactory(func(name string, opts cbm.Params) (cbm.Codec, error) {
		if name == "gzip" {
			return nil, errors.New("no gzip today")
		}

		c, err := codec.New(name, opts)

		if err == nil && opts["corrupt"] == "true" {
			c = corruptCodec{c}
		}

		return c, err
	})
	cfg.Drivers[1].Options = map[string]interface{}{"corrupt": true}

	rec := &recorder{}
	h.AddListener(rec)
	report, err := h.Run(context.Background())
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	// good: missing file; bad: round trip x2 and missing file; broken: codec creation
	assert.Len(t, merr.Errors, 5)

	require.Len(t, report.Results, 2)
	assert.Equal(t, "good", report.Results[0].Driver)
	assert.Equal(t, "good", report.Results[1].Driver)

	require.Len(t, report.Failures, 5)
	codes := make(map[string]int)

	for _, f := range report.Failures {
		codes[f.Driver+" "+f.TestCase] = f.Code
	}

	assert.Equal(t, cbm.ERR_READ_FILE, codes["good U:missing.txt"])
	assert.Equal(t, cbm.ERR_ROUND_TRIP, codes["bad C:text.txt"])
	assert.Equal(t, cbm.ERR_ROUND_TRIP, codes["bad U:small.bin"])
	assert.Equal(t, cbm.ERR_READ_FILE, codes["bad U:missing.txt"])
	assert.Equal(t, cbm.ERR_INVALID_CODEC, codes["broken "])

	var rte *driver.RoundTripError
	assert.ErrorAs(t, merr.Errors[1], &rte)
	assert.Equal(t, 0, rte.Offset)
	assert.Equal(t, 4, rec.count(cbm.EVT_CASE_FAILED))
}

func TestRunCancelled(t *testing.T) {
	cfg := newTestConfig(newCorpus(t), DriverConfig{Name: "copy", Codec: "none"})
	h, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := h.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Results)
}

func sampleReport() *Report {
	return &Report{
		RunID:    "c5ndv8h9p0m8b2k1q1og",
		Suite:    "sample",
		Start:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration: 1500 * time.Millisecond,
		Results: []*driver.Result{{
			Driver:             "zstd",
			TestCase:           "C:alice29.txt",
			Operation:          cbm.COMPRESS,
			InputFile:          "/data/alice29.txt",
			InputType:          "text",
			UncompressedLength: 1048576,
			CompressedLength:   524288,
			Iterations:         10,
			ElapsedMs:          2000,
			ResultValueX:       512,
			ResultUnitX:        driver.UNIT_X,
			ResultValue:        5,
			ResultUnit:         driver.UNIT_RESULT,
		}},
		Failures: []Failure{{Driver: "lz4", TestCase: "U:x.bin", Code: cbm.ERR_READ_FILE, Error: "no such file"}},
	}
}

func TestReportText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Write(&buf, "TEXT"))
	out := buf.String()

	assert.Contains(t, out, "Suite sample (run c5ndv8h9p0m8b2k1q1og), 1 results in 1.5s")
	assert.Contains(t, out, "1.0 MiB")
	assert.Contains(t, out, "512 KiB")
	assert.Contains(t, out, "0.500")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "1 failure(s):")
	assert.Contains(t, out, "lz4 U:x.bin: no such file")
}

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Write(&buf, FORMAT_JSON))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sample", decoded["suite"])

	results := decoded["results"].([]interface{})
	require.Len(t, results, 1)
	first := results[0].(map[string]interface{})
	assert.Equal(t, 512.0, first["resultValueX"])
	assert.Equal(t, "MB/s", first["resultUnit"])
	assert.Len(t, decoded["failures"], 1)
}

func TestReportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleReport().Write(&buf, FORMAT_CSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "driver", records[0][0])
	assert.Equal(t, []string{"zstd", "C:alice29.txt", "/data/alice29.txt", "text", "1048576", "524288",
		"10", "2000.000", "512.000", "KB", "5.000", "MB/s"}, records[1])
}

func TestReportUnknownFormat(t *testing.T) {
	assert.Error(t, sampleReport().Write(&bytes.Buffer{}, "xml"))
}

func TestEventPrinter(t *testing.T) {
	_, err := NewEventPrinter(1, nil)
	assert.Error(t, err)

	start := time.Now()
	events := []*cbm.Event{
		cbm.NewEventFromString(cbm.EVT_CONFIGURED, "", "/data", start),
		cbm.NewEvent(cbm.EVT_PREPARE_START, "C:a.txt", 0, start),
		cbm.NewEvent(cbm.EVT_PREPARE_END, "C:a.txt", 100, start.Add(5*time.Millisecond)),
		cbm.NewEvent(cbm.EVT_ROUND_TRIP_OK, "C:a.txt", 400, start.Add(12*time.Millisecond)),
		cbm.NewEventFromString(cbm.EVT_FINISH, "C:a.txt", "zstd C:a.txt: 0.098 KB, 1.000 MB/s", start),
		cbm.NewEventFromString(cbm.EVT_CASE_FAILED, "U:b.txt", "boom", start),
	}

	print := func(level uint) []string {
		var buf bytes.Buffer
		p, err := NewEventPrinter(level, &buf)
		require.NoError(t, err)

		for _, e := range events {
			p.ProcessEvent(e)
		}

		return strings.Split(strings.TrimSpace(buf.String()), "\n")
	}

	lines := print(1)
	assert.Equal(t, []string{"zstd C:a.txt: 0.098 KB, 1.000 MB/s", "U:b.txt: FAILED: boom"}, lines)

	lines = print(2)
	require.Len(t, lines, 3)
	assert.Equal(t, "C:a.txt: 400 bytes verified [12 ms]", lines[0])

	lines = print(3)
	require.Len(t, lines, len(events))
	assert.Contains(t, lines[2], "\"type\":\"PREPARE_END\"")
	assert.Contains(t, lines[2], "\"size\":100")
}
