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
	"io"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// XZCodec compresses blocks as xz streams
type XZCodec struct {
}

// NewXZCodec creates a new instance of XZCodec
func NewXZCodec() *XZCodec {
	return &XZCodec{}
}

// Compress returns the xz stream for src
func (this *XZCodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	})
}

// Decompress reads an xz stream
func (this *XZCodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 4*len(src), func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r)
	})
}

// LZMACodec compresses blocks in the classic lzma format
type LZMACodec struct {
}

// NewLZMACodec creates a new instance of LZMACodec
func NewLZMACodec() *LZMACodec {
	return &LZMACodec{}
}

// Compress returns the lzma stream for src
func (this *LZMACodec) Compress(src []byte) ([]byte, error) {
	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return lzma.NewWriter(w)
	})
}

// Decompress reads an lzma stream
func (this *LZMACodec) Decompress(src []byte) ([]byte, error) {
	return decompressStream(src, 4*len(src), func(r io.Reader) (io.Reader, error) {
		return lzma.NewReader(r)
	})
}
