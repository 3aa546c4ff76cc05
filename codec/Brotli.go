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

	"github.com/andybalholm/brotli"
	cbm "github.com/flanglet/cbm-go"
)

// BrotliCodec compresses blocks as brotli streams.
// Options: level (0..11).
type BrotliCodec struct {
	level int
}

// NewBrotliCodec creates a new instance of BrotliCodec
func NewBrotliCodec(opts cbm.Params) (*BrotliCodec, error) {
	level, err := opts.IntParam("level", brotli.DefaultCompression)

	if err != nil {
		return nil, err
	}

	if level < brotli.BestSpeed || level > brotli.BestCompression {
		return nil, fmt.Errorf("Invalid brotli level %d: must be in [%d..%d]", level,
			brotli.BestSpeed, brotli.BestCompression)
	}

	return &BrotliCodec{level: level}, nil
}

// Compress returns the brotli stream for src
func (this *BrotliCodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return brotli.NewWriterLevel(w, this.level), nil
	})
}

// Decompress reads a brotli stream
func (this *BrotliCodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 4*len(src), func(r io.Reader) (io.Reader, error) {
		return brotli.NewReader(r), nil
	})
}
