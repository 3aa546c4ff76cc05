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
	"io"

	cbm "github.com/flanglet/cbm-go"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// The deflate family goes through the stream API: the compressed block is
// a complete raw deflate, gzip or zlib stream.

func flateLevel(opts cbm.Params) (int, error) {
	level, err := opts.IntParam("level", flate.DefaultCompression)

	if err != nil {
		return 0, err
	}

	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return 0, fmt.Errorf("Invalid deflate level %d: must be in [%d..%d]", level,
			flate.HuffmanOnly, flate.BestCompression)
	}

	return level, nil
}

// DeflateCodec compresses blocks as raw deflate streams.
// Options: level (-2..9).
type DeflateCodec struct {
	level int
}

// NewDeflateCodec creates a new instance of DeflateCodec
func NewDeflateCodec(opts cbm.Params) (*DeflateCodec, error) {
	level, err := flateLevel(opts)

	if err != nil {
		return nil, err
	}

	return &DeflateCodec{level: level}, nil
}

// Compress returns the raw deflate stream for src
func (this *DeflateCodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return flate.NewWriter(w, this.level)
	})
}

// Decompress inflates a raw deflate stream
func (this *DeflateCodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 3*len(src), func(r io.Reader) (io.Reader, error) {
		return flate.NewReader(r), nil
	})
}

// GzipCodec compresses blocks as gzip streams.
// Options: level (-2..9).
type GzipCodec struct {
	level int
}

// NewGzipCodec creates a new instance of GzipCodec
func NewGzipCodec(opts cbm.Params) (*GzipCodec, error) {
	level, err := flateLevel(opts)

	if err != nil {
		return nil, err
	}

	return &GzipCodec{level: level}, nil
}

// Compress returns the gzip stream for src
func (this *GzipCodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, this.level)
	})
}

// Decompress reads a gzip stream
func (this *GzipCodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 3*len(src), func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	})
}

// ZlibCodec compresses blocks as zlib streams.
// Options: level (-2..9).
type ZlibCodec struct {
	level int
}

// NewZlibCodec creates a new instance of ZlibCodec
func NewZlibCodec(opts cbm.Params) (*ZlibCodec, error) {
	level, err := flateLevel(opts)

	if err != nil {
		return nil, err
	}

	return &ZlibCodec{level: level}, nil
}

// Compress returns the zlib stream for src
func (this *ZlibCodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return zlib.NewWriterLevel(w, this.level)
	})
}

// Decompress reads a zlib stream
func (this *ZlibCodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 3*len(src), func(r io.Reader) (io.Reader, error) {
		return zlib.NewReader(r)
	})
}
