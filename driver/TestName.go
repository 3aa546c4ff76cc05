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
	"strings"

	cbm "github.com/flanglet/cbm-go"
)

const _NAME_SEPARATOR = ":"

// TestName is a parsed test case name of the form "<C|U>:<filename>"
type TestName struct {
	Operation cbm.Operation
	FileName  string
}

// ParseTestName splits a test case name into operation and file name.
// Components after the file name are ignored.
func ParseTestName(name string) (TestName, error) {
	parts := strings.Split(name, _NAME_SEPARATOR)

	if len(parts) < 2 || len(parts[1]) == 0 {
		errMsg := fmt.Sprintf("Invalid test name '%s'; should have at least 2 components separated by '%s'", name, _NAME_SEPARATOR)
		return TestName{}, &ConfigurationError{msg: errMsg, code: cbm.ERR_INVALID_TEST_NAME}
	}

	res := TestName{FileName: parts[1]}

	switch parts[0] {
	case "C":
		res.Operation = cbm.COMPRESS

	case "U":
		res.Operation = cbm.UNCOMPRESS

	default:
		errMsg := fmt.Sprintf("Invalid 'operation' part of name, '%s': should be 'C' or 'U'", parts[0])
		return TestName{}, &ConfigurationError{msg: errMsg, code: cbm.ERR_INVALID_OPERATION}
	}

	return res, nil
}

// String returns the test case name
func (this TestName) String() string {
	return this.Operation.Code() + _NAME_SEPARATOR + this.FileName
}
