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

package codec

import (
	"fmt"
	"strings"

	cbm "github.com/flanglet/cbm-go"
	"github.com/klauspost/compress/s2"
)

const (
	_S2_LEVEL_DEFAULT = 0
	_S2_LEVEL_BETTER  = 1
	_S2_LEVEL_BEST    = 2
)

// S2Codec compresses blocks with the S2 block format.
// Options: level ("default", "better", "best").
type S2Codec struct {
	level int
}

// NewS2Codec creates a new instance of S2Codec
func NewS2Codec(opts cbm.Params) (*S2Codec, error) {
	this := &S2Codec{}

	switch name := strings.ToLower(opts.StringParam("level", "default")); name {
	case "default":
		this.level = _S2_LEVEL_DEFAULT

	case "better":
		this.level = _S2_LEVEL_BETTER

	case "best":
		this.level = _S2_LEVEL_BEST

	default:
		return nil, fmt.Errorf("Invalid s2 level '%s'", name)
	}

	return this, nil
}

// Compress returns the S2 block for src
func (this *S2Codec) Compress(src []byte) ([]byte, error) {
	switch this.level {
	case _S2_LEVEL_BETTER:
		return s2.EncodeBetter(nil, src), nil

	case _S2_LEVEL_BEST:
		return s2.EncodeBest(nil, src), nil

	default:
		return s2.Encode(nil, src), nil
	}
}

// Decompress decodes an S2 (or Snappy) block
func (this *S2Codec) Decompress(src []byte) ([]byte, error) {
	return s2.Decode(nil, src)
}
