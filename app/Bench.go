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

// Command cbm runs compression benchmark suites.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/driver"
	"github.com/flanglet/cbm-go/logging"
)

const APP_HEADER = "cbm 1.0 (C) 2026, Frederic Langlet"

func main() {
	app := newApp(os.Stdout, os.Stderr)

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "cbm"
	app.Usage = "compression benchmark driver"
	app.Description = APP_HEADER + "\n\n" +
		"Measures the compression ratio and throughput of codecs on a set of input files,\n" +
		"after checking that every codec reproduces its input exactly."
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Commands = newRootCommands()
	app.Flags = newRootFlags()
	// Keep -v for verbosity
	app.HideVersion = true
	app.Before = func(c *cli.Context) error {
		return configureLogging(c)
	}

	// Exit codes are handled by main
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

// Commands and flags keep their parsed values: build new ones for each app
func newRootCommands() cli.Commands {
	return cli.Commands{
		newRunCommand(),
		newVerifyCommand(),
		newCodecsCommand(),
	}
}

func newRootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "v",
			Usage: "verbose output (equivalent to INFO log level)",
		},
		&cli.BoolFlag{
			Name:  "vv",
			Usage: "super verbose output (equivalent to DEBUG log level)",
		},
	}
}

func configureLogging(c *cli.Context) error {
	logging.ConsoleMode()

	// The LOG_LEVEL environment variable takes precedence.
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		var l zapcore.Level

		if err := l.UnmarshalText([]byte(level)); err != nil {
			return cli.Exit(fmt.Sprintf("invalid LOG_LEVEL '%s': %v", level, err), cbm.ERR_INVALID_PARAM)
		}

		logging.SetLevel(l)
		return nil
	}

	switch {
	case c.Bool("vv"):
		logging.SetLevel(zapcore.DebugLevel)
	case c.Bool("v"):
		logging.SetLevel(zapcore.InfoLevel)
	default:
		// Level remains at default (WARN).
	}

	return nil
}

// exitCode maps an error to the process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder

	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return driver.ErrorCode(err)
}
