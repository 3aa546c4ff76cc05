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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/flanglet/cbm-go/internal"
)

// Upper bound for the original size stored in a block header
const _MAX_BLOCK_SIZE = 1 << 31

var errInvalidHeader = errors.New("Invalid block header")

// Raw block codecs need the original size to size the output buffer.
// The header is the original size as an unsigned varint followed by
// one byte of codec specific flags.
func writeHeader(dst []byte, srcLen int, flags byte) int {
	n := binary.PutUvarint(dst, uint64(srcLen))
	dst[n] = flags
	return n + 1
}

func readHeader(src []byte) (int, byte, int, error) {
	size, n := binary.Uvarint(src)

	if n <= 0 || n >= len(src) {
		return 0, 0, 0, errInvalidHeader
	}

	if size >= _MAX_BLOCK_SIZE {
		return 0, 0, 0, fmt.Errorf("Invalid original size in block header: %d", size)
	}

	return int(size), src[n], n + 1, nil
}

// compressStream runs src through a stream encoder and returns the
// collected output.
func compressStream(src []byte, newWriter func(io.WriteCloser) (io.WriteCloser, error)) ([]byte, error) {
	bs := internal.NewBufferStreamWithCapacity(len(src)/2 + 64)
	w, err := newWriter(bs)

	if err != nil {
		return nil, err
	}

	if _, err = w.Write(src); err != nil {
		w.Close()
		return nil, err
	}

	if err = w.Close(); err != nil {
		return nil, err
	}

	return bs.Bytes(), nil
}

// decompressStream reads a stream decoder until EOF. The size hint is used
// to preallocate the output.
func decompressStream(src []byte, sizeHint int, newReader func(io.Reader) (io.Reader, error)) ([]byte, error) {
	r, err := newReader(bytes.NewReader(src))

	if err != nil {
		return nil, err
	}

	if c, ok := r.(io.Closer); ok == true {
		defer c.Close()
	}

	buf := bytes.NewBuffer(make([]byte, 0, sizeHint))

	if _, err = buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
