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

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/codec"
	"github.com/flanglet/cbm-go/driver"
	"github.com/flanglet/cbm-go/harness"
	"github.com/flanglet/cbm-go/internal"
	"github.com/flanglet/cbm-go/logging"
)

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "run the benchmark suite described by a TOML file",
		ArgsUsage: " ",
		Action:    runCmd,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "suite file `FILENAME`",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "report format: text, json or csv",
				Value:   harness.FORMAT_TEXT,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the report to `FILENAME` instead of stdout",
			},
			&cli.UintFlag{
				Name:    "progress",
				Aliases: []string{"p"},
				Usage:   "progress level: 0 (none), 1 (results), 2 (verifications), 3 (all events)",
				Value:   1,
			},
			&cli.IntFlag{
				Name:  "runs",
				Usage: "override the number of timed runs per test case",
			},
			&cli.DurationFlag{
				Name:  "time",
				Usage: "override the timed duration per test case",
			},
		},
	}
}

func newVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "check that codecs reproduce every input file exactly, without timing",
		ArgsUsage: " ",
		Action:    verifyCmd,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dir",
				Aliases:  []string{"d"},
				Usage:    "input `DIRECTORY`",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:  "codec",
				Usage: "codec to verify, may be repeated (default: all codecs)",
			},
			&cli.StringSliceFlag{
				Name:  "option",
				Usage: "codec option as `KEY=VALUE`, may be repeated",
			},
			&cli.BoolFlag{
				Name:  "recursive",
				Usage: "include the files of subdirectories",
			},
		},
	}
}

func newCodecsCommand() *cli.Command {
	return &cli.Command{
		Name:   "codecs",
		Usage:  "list the available codecs",
		Action: codecsCmd,
	}
}

func runCmd(c *cli.Context) error {
	switch format := strings.ToLower(c.String("format")); format {
	case harness.FORMAT_TEXT, harness.FORMAT_JSON, harness.FORMAT_CSV:
	default:
		return cli.Exit(fmt.Sprintf("unknown report format '%s'", format), cbm.ERR_INVALID_PARAM)
	}

	cfg, err := harness.LoadConfig(c.String("config"))

	if err != nil {
		return cli.Exit(err.Error(), cbm.ERR_LOAD_CONFIG)
	}

	if c.IsSet("runs") {
		cfg.RunIterations = c.Int("runs")
	}

	if c.IsSet("time") {
		cfg.RunTime.Duration = c.Duration("time")
	}

	h, err := harness.New(cfg)

	if err != nil {
		return cli.Exit(err.Error(), cbm.ERR_INVALID_PARAM)
	}

	if level := c.Uint("progress"); level > 0 {
		printer, err := harness.NewEventPrinter(level, c.App.ErrWriter)

		if err != nil {
			return err
		}

		h.AddListener(printer)
	}

	out := c.App.Writer

	if path := c.String("output"); len(path) > 0 {
		f, err := os.Create(path)

		if err != nil {
			return cli.Exit(fmt.Sprintf("cannot create report file: %v", err), cbm.ERR_WRITE_FILE)
		}

		defer f.Close()
		out = f
	}

	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt)
	defer cancel()

	report, runErr := h.Run(ctx)

	if report != nil {
		if err := report.Write(out, c.String("format")); err != nil {
			return cli.Exit(fmt.Sprintf("cannot write report: %v", err), cbm.ERR_WRITE_FILE)
		}
	}

	if runErr != nil {
		logging.S().Errorw("suite finished with failures", "error", runErr)
		return cli.Exit(fmt.Sprintf("benchmark failed: %d error(s)", countErrors(runErr)), cbm.ERR_BENCHMARK)
	}

	return nil
}

func countErrors(err error) int {
	if merr, ok := err.(*multierror.Error); ok == true {
		return len(merr.Errors)
	}

	return 1
}

func verifyCmd(c *cli.Context) error {
	dir := c.String("dir")
	opts, err := toKeyValues(c.StringSlice("option"))

	if err != nil {
		return cli.Exit(err.Error(), cbm.ERR_INVALID_PARAM)
	}

	codecs := c.StringSlice("codec")

	if len(codecs) == 0 {
		codecs = codec.Names()
	}

	files, err := internal.CreateFileList(dir, c.Bool("recursive"), true, true)

	if err != nil {
		return cli.Exit(fmt.Sprintf("cannot list input directory: %v", err), cbm.ERR_READ_FILE)
	}

	var merr *multierror.Error
	verified := 0
	params := cbm.Params{cbm.PARAM_INPUT_DIR: dir}

	for _, name := range codecs {
		d, err := newVerifyDriver(name, opts, params)

		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}

		for _, f := range files {
			tn := driver.TestName{Operation: cbm.COMPRESS, FileName: f.Name}

			if err := d.Prepare(tn.String()); err != nil {
				fmt.Fprintf(c.App.Writer, "FAILED %s %s: %v\n", d.Name(), f.Name, err)
				merr = multierror.Append(merr, err)
				continue
			}

			verified++
			fmt.Fprintf(c.App.Writer, "ok     %s %s (%s, %s -> %s)\n", d.Name(), f.Name, d.InputType(),
				humanize.IBytes(uint64(d.UncompressedLength())), humanize.IBytes(uint64(d.CompressedLength())))
		}
	}

	fmt.Fprintf(c.App.Writer, "%d round trip(s) verified\n", verified)

	if err = merr.ErrorOrNil(); err != nil {
		return cli.Exit(err.Error(), firstCode(merr))
	}

	return nil
}

func newVerifyDriver(name string, opts, params cbm.Params) (*driver.Driver, error) {
	c, err := codec.New(name, opts)

	if err != nil {
		errMsg := fmt.Sprintf("Cannot create codec '%s': %v", name, err)
		return nil, driver.NewConfigurationError(errMsg, cbm.ERR_INVALID_CODEC)
	}

	d, err := driver.New(strings.ToLower(name), c)

	if err != nil {
		return nil, err
	}

	if err = d.Configure(params); err != nil {
		return nil, err
	}

	return d, nil
}

// firstCode returns the code of the first failure
func firstCode(merr *multierror.Error) int {
	for _, err := range merr.Errors {
		if code := driver.ErrorCode(err); code != cbm.ERR_UNKNOWN {
			return code
		}
	}

	return cbm.ERR_UNKNOWN
}

// toKeyValues converts a slice of ["KEY1=VAL1", "KEY2=VAL2", ...] into
// codec options.
func toKeyValues(input []string) (cbm.Params, error) {
	res := make(cbm.Params, len(input))

	for _, d := range input {
		splt := strings.SplitN(d, "=", 2)

		if len(splt) != 2 || len(splt[0]) == 0 {
			return nil, fmt.Errorf("invalid key-value: %s", d)
		}

		res[splt[0]] = splt[1]
	}

	return res, nil
}

var _CODEC_OPTIONS = map[string]string{
	"NONE":            "",
	"KANZI":           "transform, entropy, blockSize, jobs, checksum",
	"KANZI-TRANSFORM": "transform",
	"ZSTD":            "level (fastest, default, better, best)",
	"S2":              "level (default, better, best)",
	"SNAPPY":          "",
	"LZ4":             "level (fast, 1..9)",
	"DEFLATE":         "level (-2..9)",
	"GZIP":            "level (-2..9)",
	"ZLIB":            "level (-2..9)",
	"BROTLI":          "level (0..11)",
	"XZ":              "",
	"LZMA":            "",
}

func codecsCmd(c *cli.Context) error {
	return writeCodecs(c.App.Writer)
}

func writeCodecs(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "CODEC\tOPTIONS")

	for _, name := range codec.Names() {
		fmt.Fprintf(tw, "%s\t%s\n", strings.ToLower(name), _CODEC_OPTIONS[name])
	}

	return tw.Flush()
}
