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
	"fmt"
	"io"
	"strings"

	cbm "github.com/flanglet/cbm-go"
	"github.com/flanglet/cbm-go/internal"
	kio "github.com/flanglet/kanzi-go/v2/io"
	"github.com/flanglet/kanzi-go/v2/transform"
)

const (
	_KANZI_DEFAULT_TRANSFORM  = "LZ"
	_KANZI_DEFAULT_ENTROPY    = "HUFFMAN"
	_KANZI_DEFAULT_BLOCK_SIZE = 4 * 1024 * 1024
	_KANZI_MIN_BLOCK_SIZE     = 1024
	_KANZI_MAX_BLOCK_SIZE     = 1024 * 1024 * 1024
	_KANZI_MAX_JOBS           = 64
	_KANZI_BITSTREAM_VERSION  = 4
	_KANZI_EXTRA_BUFFER_SIZE  = 512
)

// KanziCodec compresses blocks with a kanzi compressed stream
// (transform sequence + entropy coder, with a bitstream header).
// Options: transform (e.g. "LZ", "TEXT+BWT+MTFT"), entropy (e.g. "HUFFMAN",
// "ANS0", "FPAQ"), blockSize (e.g. "4MB"), jobs, checksum.
type KanziCodec struct {
	transform string
	entropy   string
	blockSize uint
	jobs      uint
	checksum  bool
}

// NewKanziCodec creates a new instance of KanziCodec
func NewKanziCodec(opts cbm.Params) (*KanziCodec, error) {
	this := &KanziCodec{}
	this.transform = strings.ToUpper(opts.StringParam("transform", _KANZI_DEFAULT_TRANSFORM))
	this.entropy = strings.ToUpper(opts.StringParam("entropy", _KANZI_DEFAULT_ENTROPY))

	if _, err := transform.GetType(this.transform); err != nil {
		return nil, err
	}

	bSize, err := opts.BytesParam("blockSize", _KANZI_DEFAULT_BLOCK_SIZE)

	if err != nil {
		return nil, err
	}

	if bSize < _KANZI_MIN_BLOCK_SIZE || bSize > _KANZI_MAX_BLOCK_SIZE {
		return nil, fmt.Errorf("Invalid kanzi block size %d: must be in [%d..%d]", bSize,
			_KANZI_MIN_BLOCK_SIZE, _KANZI_MAX_BLOCK_SIZE)
	}

	// The stream requires a multiple of 16
	this.blockSize = uint(bSize) & ^uint(15)
	jobs, err := opts.IntParam("jobs", 1)

	if err != nil {
		return nil, err
	}

	if jobs < 1 || jobs > _KANZI_MAX_JOBS {
		return nil, fmt.Errorf("Invalid number of jobs %d: must be in [1..%d]", jobs, _KANZI_MAX_JOBS)
	}

	this.jobs = uint(jobs)

	if this.checksum, err = opts.BooleanParam("checksum", false); err != nil {
		return nil, err
	}

	return this, nil
}

// Compress writes src to a kanzi compressed stream
func (this *KanziCodec) Compress(src []byte) ([]byte, error) {
	ctx := make(map[string]any)
	ctx["transform"] = this.transform
	ctx["entropy"] = this.entropy
	ctx["blockSize"] = this.blockSize
	ctx["jobs"] = this.jobs
	ctx["checksum"] = this.checksum
	ctx["fileSize"] = int64(len(src))

	return compressStream(src, func(w io.WriteCloser) (io.WriteCloser, error) {
		return kio.NewWriterWithCtx(w, ctx)
	})
}

// Decompress reads a kanzi compressed stream until the end
func (this *KanziCodec) Decompress(src []byte) ([]byte, error) {
	ctx := make(map[string]any)
	ctx["jobs"] = this.jobs
	r, err := kio.NewReaderWithCtx(internal.NewBufferStream(src), ctx)

	if err != nil {
		return nil, err
	}

	defer r.Close()
	buf := bytes.NewBuffer(make([]byte, 0, 2*len(src)))

	if _, err = buf.ReadFrom(r); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// KanziTransformCodec applies a kanzi transform sequence without entropy
// coding. The output is prefixed with the original size and the skip flags
// of the sequence.
// Options: transform (e.g. "LZ", "ROLZX", "BWT+SRT+ZRLT").
type KanziTransformCodec struct {
	name          string
	transformType uint64
}

// NewKanziTransformCodec creates a new instance of KanziTransformCodec
func NewKanziTransformCodec(opts cbm.Params) (*KanziTransformCodec, error) {
	this := &KanziTransformCodec{}
	this.name = strings.ToUpper(opts.StringParam("transform", _KANZI_DEFAULT_TRANSFORM))
	var err error

	if this.transformType, err = transform.GetType(this.name); err != nil {
		return nil, err
	}

	return this, nil
}

func (this *KanziTransformCodec) newSequence(size int) (*transform.ByteTransformSequence, error) {
	// Transforms may record data in the context, use a fresh one each time
	ctx := make(map[string]any)
	ctx["transform"] = this.name
	ctx["bsVersion"] = uint(_KANZI_BITSTREAM_VERSION)
	ctx["size"] = uint(size)
	return transform.New(&ctx, this.transformType)
}

// Size of the work buffers: the sequence uses both buffers as scratch
// space, the inverse transforms may need more room than the original size.
func transformBufferSize(seq *transform.ByteTransformSequence, size int) int {
	res := seq.MaxEncodedLen(size)
	extra := size >> 4

	if extra < _KANZI_EXTRA_BUFFER_SIZE {
		extra = _KANZI_EXTRA_BUFFER_SIZE
	}

	if res < size+extra {
		res = size + extra
	}

	return res
}

// Compress applies the forward transforms to src
func (this *KanziTransformCodec) Compress(src []byte) (res []byte, err error) {
	hdr := make([]byte, 16)

	if len(src) == 0 {
		hdrLen := writeHeader(hdr, 0, 0)
		return hdr[0:hdrLen], nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("Kanzi forward transform failed: %v", r)
		}
	}()

	seq, err := this.newSequence(len(src))

	if err != nil {
		return nil, err
	}

	bufSize := transformBufferSize(seq, len(src))
	input := make([]byte, bufSize)
	copy(input, src)
	output := make([]byte, bufSize)

	// A failed transform is skipped and recorded in the skip flags
	_, written, _ := seq.Forward(input[0:len(src)], output)

	hdrLen := writeHeader(hdr, len(src), seq.SkipFlags())
	res = make([]byte, hdrLen+int(written))
	copy(res, hdr[0:hdrLen])
	copy(res[hdrLen:], output[0:written])
	return res, nil
}

// Decompress applies the inverse transforms to src
func (this *KanziTransformCodec) Decompress(src []byte) (res []byte, err error) {
	size, flags, hdrLen, err := readHeader(src)

	if err != nil {
		return nil, err
	}

	if size == 0 {
		return []byte{}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("Kanzi inverse transform failed: %v", r)
		}
	}()

	payload := src[hdrLen:]
	seq, err := this.newSequence(len(payload))

	if err != nil {
		return nil, err
	}

	bufSize := transformBufferSize(seq, size)

	if bufSize < len(payload) {
		bufSize = len(payload)
	}

	input := make([]byte, bufSize)
	copy(input, payload)
	output := make([]byte, bufSize)
	seq.SetSkipFlags(flags)
	_, written, err := seq.Inverse(input[0:len(payload)], output)

	if err != nil {
		return nil, err
	}

	if int(written) != size {
		return nil, fmt.Errorf("Kanzi inverse transform produced %d bytes, expected %d", written, size)
	}

	return output[0:written], nil
}
