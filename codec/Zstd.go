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
	"github.com/klauspost/compress/zstd"
)

// ZstdCodec compresses blocks with zstd EncodeAll/DecodeAll.
// Options: level ("fastest", "default", "better", "best").
type ZstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewZstdCodec creates a new instance of ZstdCodec
func NewZstdCodec(opts cbm.Params) (*ZstdCodec, error) {
	levelName := strings.ToLower(opts.StringParam("level", "default"))
	ok, level := zstd.EncoderLevelFromString(levelName)

	if ok == false {
		return nil, fmt.Errorf("Invalid zstd level '%s'", levelName)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))

	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))

	if err != nil {
		enc.Close()
		return nil, err
	}

	return &ZstdCodec{encoder: enc, decoder: dec}, nil
}

// Compress returns the zstd frame for src
func (this *ZstdCodec) Compress(src []byte) ([]byte, error) {
	return this.encoder.EncodeAll(src, make([]byte, 0, len(src)/2+64)), nil
}

// Decompress decodes a zstd frame
func (this *ZstdCodec) Decompress(src []byte) ([]byte, error) {
	return this.decoder.DecodeAll(src, nil)
}
