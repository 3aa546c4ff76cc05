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

// Package cbm defines the top level types used by the compression benchmark
// drivers.
//
// A benchmark driver loads an input file, compresses it once, checks that
// decompression gives back the exact original bytes and then lets a harness
// time either the compression or the decompression path.
// The driver lives in the driver package, the codec adapters in the codec
// package and a runnable harness in the harness package.
package cbm

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

const (
	ERR_MISSING_PARAM     = 1
	ERR_INVALID_PARAM     = 2
	ERR_INVALID_TEST_NAME = 3
	ERR_INVALID_OPERATION = 4
	ERR_INVALID_STATE     = 5
	ERR_INVALID_CODEC     = 6
	ERR_READ_FILE         = 7
	ERR_WRITE_FILE        = 8
	ERR_ROUND_TRIP        = 9
	ERR_COMPRESS          = 10
	ERR_DECOMPRESS        = 11
	ERR_LOAD_CONFIG       = 12
	ERR_BENCHMARK         = 13
	ERR_UNKNOWN           = 127
)

const (
	// PARAM_INPUT_DIR names the directory holding the input files
	PARAM_INPUT_DIR = "inputDir"
	// PARAM_STREAMING selects streaming or block based codec usage
	PARAM_STREAMING = "streaming"
)

// Operation is the code path timed by a benchmark case
type Operation int

const (
	// COMPRESS times the compression of the input data
	COMPRESS Operation = iota
	// UNCOMPRESS times the decompression of the compressed input data
	UNCOMPRESS
)

// String returns the name of the operation
func (this Operation) String() string {
	switch this {
	case COMPRESS:
		return "COMPRESS"

	case UNCOMPRESS:
		return "UNCOMPRESS"

	default:
		return fmt.Sprintf("Operation(%d)", int(this))
	}
}

// Code returns the one letter code used in test case names
func (this Operation) Code() string {
	if this == COMPRESS {
		return "C"
	}

	return "U"
}

// Codec compresses and decompresses complete in-memory blocks.
// Implementations may keep reusable state (encoders, buffers) but the
// result of a call must not depend on previous calls.
type Codec interface {
	// Compress returns the compressed form of src.
	Compress(src []byte) ([]byte, error)

	// Decompress returns the original data from the output of Compress.
	Decompress(src []byte) ([]byte, error)
}

// Params is a set of named string parameters passed to drivers and codecs.
// Missing optional parameters fall back to the provided default values.
type Params map[string]string

// IsParamSet checks whether a parameter is present
func (this Params) IsParamSet(name string) bool {
	_, ok := this[name]
	return ok
}

// StringParam returns the value of a parameter or the default value
func (this Params) StringParam(name, def string) string {
	if v, ok := this[name]; ok == true {
		return v
	}

	return def
}

// BooleanParam returns the boolean value of a parameter or the default value.
// An error is returned if the value cannot be parsed.
func (this Params) BooleanParam(name string, def bool) (bool, error) {
	v, ok := this[name]

	if ok == false || len(v) == 0 {
		return def, nil
	}

	b, err := strconv.ParseBool(v)

	if err != nil {
		return def, fmt.Errorf("Invalid boolean value '%s' for parameter '%s'", v, name)
	}

	return b, nil
}

// IntParam returns the integer value of a parameter or the default value.
// An error is returned if the value cannot be parsed.
func (this Params) IntParam(name string, def int) (int, error) {
	v, ok := this[name]

	if ok == false || len(v) == 0 {
		return def, nil
	}

	n, err := strconv.Atoi(v)

	if err != nil {
		return def, fmt.Errorf("Invalid integer value '%s' for parameter '%s'", v, name)
	}

	return n, nil
}

// BytesParam returns a size in bytes parsed from a human readable value
// such as "4 MB" or "256KiB", or the default value.
func (this Params) BytesParam(name string, def uint64) (uint64, error) {
	v, ok := this[name]

	if ok == false || len(v) == 0 {
		return def, nil
	}

	n, err := humanize.ParseBytes(v)

	if err != nil {
		return def, fmt.Errorf("Invalid size value '%s' for parameter '%s': %w", v, name, err)
	}

	return n, nil
}
