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
	"errors"
	"fmt"

	cbm "github.com/flanglet/cbm-go"
)

// ConfigurationError reports a missing or invalid parameter, a malformed
// test case name or a lifecycle call made out of order.
type ConfigurationError struct {
	msg  string
	code int
}

// NewConfigurationError creates a new instance of ConfigurationError
func NewConfigurationError(msg string, code int) *ConfigurationError {
	return &ConfigurationError{msg: msg, code: code}
}

// Error returns the message string associated with the error
func (this ConfigurationError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, this.code)
}

// Message returns the message string associated with the error
func (this ConfigurationError) Message() string {
	return this.msg
}

// ErrorCode returns the code associated with the error
func (this ConfigurationError) ErrorCode() int {
	return this.code
}

// IOError reports an input file that could not be read.
type IOError struct {
	msg  string
	path string
	err  error
}

func (this IOError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.msg, cbm.ERR_READ_FILE)
}

// Message returns the message string associated with the error
func (this IOError) Message() string {
	return this.msg
}

// ErrorCode returns the code associated with the error
func (this IOError) ErrorCode() int {
	return cbm.ERR_READ_FILE
}

// Path returns the path of the file that failed to load
func (this IOError) Path() string {
	return this.path
}

func (this IOError) Unwrap() error {
	return this.err
}

// RoundTripError reports that decompressing freshly compressed data did not
// give back the original input. Offset is -1 when the lengths differ,
// otherwise it is the index of the first differing byte.
type RoundTripError struct {
	Driver         string
	Input          string
	ExpectedLength int
	ActualLength   int
	Offset         int
	Expected       byte
	Actual         byte
}

func (this RoundTripError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.Message(), cbm.ERR_ROUND_TRIP)
}

// Message returns the message string associated with the error
func (this RoundTripError) Message() string {
	if this.Offset < 0 {
		return fmt.Sprintf("Round-trip failed for driver '%s', input '%s': uncompressed length was %d bytes; expected %d",
			this.Driver, this.Input, this.ActualLength, this.ExpectedLength)
	}

	return fmt.Sprintf("Round-trip failed for driver '%s', input '%s': bytes at offset %d (from total of %d) differed, expected 0x%x, got 0x%x",
		this.Driver, this.Input, this.Offset, this.ActualLength, this.Expected, this.Actual)
}

// ErrorCode returns the code associated with the error
func (this RoundTripError) ErrorCode() int {
	return cbm.ERR_ROUND_TRIP
}

// CodecError wraps a failure returned by the codec under test.
type CodecError struct {
	Operation cbm.Operation
	Driver    string
	err       error
}

func (this CodecError) Error() string {
	return fmt.Sprintf("%v (code %v)", this.Message(), this.ErrorCode())
}

// Message returns the message string associated with the error
func (this CodecError) Message() string {
	verb := "compress"

	if this.Operation == cbm.UNCOMPRESS {
		verb = "decompress"
	}

	return fmt.Sprintf("Driver '%s' failed to %s: %v", this.Driver, verb, this.err)
}

// ErrorCode returns ERR_COMPRESS or ERR_DECOMPRESS
func (this CodecError) ErrorCode() int {
	if this.Operation == cbm.UNCOMPRESS {
		return cbm.ERR_DECOMPRESS
	}

	return cbm.ERR_COMPRESS
}

func (this CodecError) Unwrap() error {
	return this.err
}

// CodedError is implemented by all the errors of this package
type CodedError interface {
	error
	Message() string
	ErrorCode() int
}

// ErrorCode returns the code of the first error in the chain that carries
// one, or ERR_UNKNOWN.
func ErrorCode(err error) int {
	if err == nil {
		return 0
	}

	var ce CodedError

	if errors.As(err, &ce) == true {
		return ce.ErrorCode()
	}

	return cbm.ERR_UNKNOWN
}
