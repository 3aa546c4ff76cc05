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
	"github.com/pierrec/lz4/v4"
)

const (
	_LZ4_FLAG_RAW        = 0
	_LZ4_FLAG_COMPRESSED = 1
)

var _LZ4_LEVELS = map[string]lz4.CompressionLevel{
	"1": lz4.Level1,
	"2": lz4.Level2,
	"3": lz4.Level3,
	"4": lz4.Level4,
	"5": lz4.Level5,
	"6": lz4.Level6,
	"7": lz4.Level7,
	"8": lz4.Level8,
	"9": lz4.Level9,
}

// LZ4Codec compresses blocks with the LZ4 block format. The block is
// prefixed with the original size.
// Options: level ("fast" or "1".."9", high compression levels).
type LZ4Codec struct {
	fast bool
	hc   lz4.CompressorHC
	c    lz4.Compressor
}

// NewLZ4Codec creates a new instance of LZ4Codec
func NewLZ4Codec(opts cbm.Params) (*LZ4Codec, error) {
	this := &LZ4Codec{}
	name := strings.ToLower(opts.StringParam("level", "fast"))

	if name == "fast" {
		this.fast = true
		return this, nil
	}

	level, ok := _LZ4_LEVELS[name]

	if ok == false {
		return nil, fmt.Errorf("Invalid lz4 level '%s'", name)
	}

	this.hc.Level = level
	return this, nil
}

// Compress returns the size header followed by the LZ4 block for src
func (this *LZ4Codec) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, 16+lz4.CompressBlockBound(len(src)))
	hdrLen := writeHeader(dst, len(src), _LZ4_FLAG_COMPRESSED)
	var n int
	var err error

	if this.fast == true {
		n, err = this.c.CompressBlock(src, dst[hdrLen:])
	} else {
		n, err = this.hc.CompressBlock(src, dst[hdrLen:])
	}

	if err != nil {
		return nil, err
	}

	if n == 0 {
		// Empty or incompressible input, store as is
		hdrLen = writeHeader(dst, len(src), _LZ4_FLAG_RAW)
		n = copy(dst[hdrLen:], src)
	}

	return dst[0 : hdrLen+n], nil
}

// Decompress decodes a block produced by Compress
func (this *LZ4Codec) Decompress(src []byte) ([]byte, error) {
	size, flags, hdrLen, err := readHeader(src)

	if err != nil {
		return nil, err
	}

	dst := make([]byte, size)

	if flags == _LZ4_FLAG_RAW {
		if len(src)-hdrLen != size {
			return nil, fmt.Errorf("Invalid raw lz4 block: got %d bytes, expected %d", len(src)-hdrLen, size)
		}

		copy(dst, src[hdrLen:])
		return dst, nil
	}

	n, err := lz4.UncompressBlock(src[hdrLen:], dst)

	if err != nil {
		return nil, err
	}

	return dst[0:n], nil
}
