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

// Package codec adapts compression libraries to the cbm.Codec interface.
package codec

import (
	"fmt"
	"strings"

	cbm "github.com/flanglet/cbm-go"
)

const (
	NONE_TYPE            = 0  // Copy
	KANZI_TYPE           = 1  // Kanzi compressed stream
	KANZI_TRANSFORM_TYPE = 2  // Kanzi transform sequence only
	ZSTD_TYPE            = 3  // Zstandard
	S2_TYPE              = 4  // S2 (Snappy extension)
	SNAPPY_TYPE          = 5  // Snappy
	LZ4_TYPE             = 6  // LZ4 block
	DEFLATE_TYPE         = 7  // Raw deflate
	GZIP_TYPE            = 8  // Gzip
	ZLIB_TYPE            = 9  // Zlib
	BROTLI_TYPE          = 10 // Brotli
	XZ_TYPE              = 11 // XZ
	LZMA_TYPE            = 12 // LZMA (classic format)
)

var _CODEC_NAMES = []string{
	NONE_TYPE:            "NONE",
	KANZI_TYPE:           "KANZI",
	KANZI_TRANSFORM_TYPE: "KANZI-TRANSFORM",
	ZSTD_TYPE:            "ZSTD",
	S2_TYPE:              "S2",
	SNAPPY_TYPE:          "SNAPPY",
	LZ4_TYPE:             "LZ4",
	DEFLATE_TYPE:         "DEFLATE",
	GZIP_TYPE:            "GZIP",
	ZLIB_TYPE:            "ZLIB",
	BROTLI_TYPE:          "BROTLI",
	XZ_TYPE:              "XZ",
	LZMA_TYPE:            "LZMA",
}

// GetType returns the codec type for a (case insensitive) codec name
func GetType(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))

	for t, n := range _CODEC_NAMES {
		if n == name {
			return t, nil
		}
	}

	return -1, fmt.Errorf("Unknown codec: '%s'", name)
}

// GetName returns the name of a codec type
func GetName(codecType int) (string, error) {
	if codecType < 0 || codecType >= len(_CODEC_NAMES) {
		return "", fmt.Errorf("Unknown codec type: '%d'", codecType)
	}

	return _CODEC_NAMES[codecType], nil
}

// Names returns the names of all the available codecs
func Names() []string {
	res := make([]string, len(_CODEC_NAMES))
	copy(res, _CODEC_NAMES)
	return res
}

// New creates the codec with the given name. The options are codec
// specific (see each constructor).
func New(name string, opts cbm.Params) (cbm.Codec, error) {
	codecType, err := GetType(name)

	if err != nil {
		return nil, err
	}

	if opts == nil {
		opts = cbm.Params{}
	}

	switch codecType {
	case NONE_TYPE:
		return NewNullCodec(), nil

	case KANZI_TYPE:
		return NewKanziCodec(opts)

	case KANZI_TRANSFORM_TYPE:
		return NewKanziTransformCodec(opts)

	case ZSTD_TYPE:
		return NewZstdCodec(opts)

	case S2_TYPE:
		return NewS2Codec(opts)

	case SNAPPY_TYPE:
		return NewSnappyCodec(), nil

	case LZ4_TYPE:
		return NewLZ4Codec(opts)

	case DEFLATE_TYPE:
		return NewDeflateCodec(opts)

	case GZIP_TYPE:
		return NewGzipCodec(opts)

	case ZLIB_TYPE:
		return NewZlibCodec(opts)

	case BROTLI_TYPE:
		return NewBrotliCodec(opts)

	case XZ_TYPE:
		return NewXZCodec(), nil

	case LZMA_TYPE:
		return NewLZMACodec(), nil

	default:
		return nil, fmt.Errorf("Unknown codec type: '%d'", codecType)
	}
}
