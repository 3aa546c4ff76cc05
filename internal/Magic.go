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

package internal

import (
	"encoding/binary"
	"unicode/utf8"
)

const (
	KIND_EMPTY      = "empty"
	KIND_TEXT       = "text"
	KIND_BINARY     = "binary"
	KIND_COMPRESSED = "compressed"
	KIND_MEDIA      = "multimedia"
	KIND_EXE        = "executable"
)

// Number of bytes inspected by the text heuristic
const _TEXT_SAMPLE_SIZE = 4096

type magicEntry struct {
	value uint32
	bits  uint // significant leading bits of the value
	name  string
	kind  string
}

// Common header magic values, longest first
var _MAGICS = []magicEntry{
	{0xFFD8FFE0, 28, "jpeg", KIND_COMPRESSED},
	{0x47494638, 32, "gif", KIND_COMPRESSED},
	{0x89504E47, 32, "png", KIND_COMPRESSED},
	{0x25504446, 32, "pdf", KIND_BINARY},
	{0x504B0304, 32, "zip", KIND_COMPRESSED}, // Works for jar & office docs
	{0x377ABCAF, 32, "7z", KIND_COMPRESSED},
	{0x28B52FFD, 32, "zstd", KIND_COMPRESSED},
	{0x81CFB2CE, 32, "brotli", KIND_COMPRESSED},
	{0x4D534346, 32, "cab", KIND_COMPRESSED},
	{0xFD377A58, 32, "xz", KIND_COMPRESSED},
	{0x52617221, 32, "rar", KIND_COMPRESSED},
	{0x4B414E5A, 32, "kanzi", KIND_COMPRESSED},
	{0x664C6143, 32, "flac", KIND_COMPRESSED},
	{0x52494646, 32, "riff", KIND_MEDIA}, // WAV, AVI, WEBP
	{0x7F454C46, 32, "elf", KIND_EXE},
	{0xFEEDFACE, 32, "mach-o", KIND_EXE},
	{0xCEFAEDFE, 32, "mach-o", KIND_EXE},
	{0xFEEDFACF, 32, "mach-o", KIND_EXE},
	{0xCFFAEDFE, 32, "mach-o", KIND_EXE},
	{0x425A6800, 24, "bzip2", KIND_COMPRESSED},
	{0x49443300, 24, "mp3", KIND_COMPRESSED},
	{0x1F8B0000, 16, "gzip", KIND_COMPRESSED},
	{0x424D0000, 16, "bmp", KIND_MEDIA},
	{0x4D5A0000, 16, "pe", KIND_EXE},
}

// InputType describes the content of an input file
type InputType struct {
	Name string // format detected from the header, or the kind
	Kind string
}

// DetectInputType checks the first bytes of the data against a list of
// common magic values. Data without a known header is reported as text
// when its beginning is mostly printable UTF-8, as binary otherwise.
func DetectInputType(src []byte) InputType {
	if len(src) == 0 {
		return InputType{Name: KIND_EMPTY, Kind: KIND_EMPTY}
	}

	if len(src) >= 4 {
		key := binary.BigEndian.Uint32(src)

		for _, m := range _MAGICS {
			mask := ^uint32(0) << (32 - m.bits)

			if key&mask == m.value&mask {
				return InputType{Name: m.name, Kind: m.kind}
			}
		}
	}

	if isText(src) {
		return InputType{Name: KIND_TEXT, Kind: KIND_TEXT}
	}

	return InputType{Name: KIND_BINARY, Kind: KIND_BINARY}
}

// IsCompressed returns true for formats that are already compressed
func (this InputType) IsCompressed() bool {
	return this.Kind == KIND_COMPRESSED
}

func isText(src []byte) bool {
	if len(src) > _TEXT_SAMPLE_SIZE {
		src = src[0:_TEXT_SAMPLE_SIZE]
	}

	printable := 0
	n := 0

	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)

		// A rune cut at the end of the sample is not an error
		if r == utf8.RuneError && size == 1 && len(src) >= utf8.UTFMax {
			return false
		}

		if r >= 0x20 || r == '\n' || r == '\r' || r == '\t' {
			printable++
		}

		n++
		src = src[size:]
	}

	return printable*100 >= n*95
}
